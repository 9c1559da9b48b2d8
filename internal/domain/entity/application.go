package entity

import "time"

// ApplicationStatus is the review state of a club application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ClubApplication is a request by a student to join a club. At most one
// application per (email, club slug) may be pending or approved at a time.
type ClubApplication struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	ContactNumber string
	Year          string
	Reason        string
	ClubSlug      string
	ClubName      string
	Status        ApplicationStatus
	SubmittedAt   time.Time

	// Set when an admin reviews the application (out of band).
	ReviewedBy string
	ReviewedAt *time.Time
	AdminNotes string

	CreatedAt time.Time
	UpdatedAt time.Time
}
