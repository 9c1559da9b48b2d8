package mailer

// Notification kinds placed on the queue by the API and rendered by the worker.
const (
	KindApplicationReceived = "application_received"
	KindCertificateVerified = "certificate_verified"
	KindCertificateRejected = "certificate_rejected"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Kind selects a canned subject/body; Subject/Text override it when set.
type EmailJob struct {
	To      string         `json:"to"`
	Kind    string         `json:"kind,omitempty"`
	Subject string         `json:"subject,omitempty"`
	Text    string         `json:"text,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
