package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Agrawal-Rajat/techno-club-backend/config"
	"github.com/Agrawal-Rajat/techno-club-backend/pkg/mailer"
)

// Consumes notification jobs from RabbitMQ and delivers them via Mailgun.
// Runs alongside the API so request handlers never block on email.
func main() {
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQNotifyQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQNotifyQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if job.To == "" {
				log.Printf("message without recipient, dropping")
				_ = msg.Nack(false, false)
				continue
			}

			subject, text := render(job)

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			if err := mg.Send(c, job.To, subject, text, ""); err != nil {
				cancel()
				log.Printf("send failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			cancel()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("email worker listening on queue=%s", cfg.RabbitMQNotifyQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// render resolves the canned subject/body for a job's kind; explicit
// Subject/Text on the job win.
func render(job mailer.EmailJob) (subject, text string) {
	name, _ := job.Data["FirstName"].(string)
	if name == "" {
		name = "there"
	}
	clubName, _ := job.Data["ClubName"].(string)
	certName, _ := job.Data["CertificateName"].(string)

	switch job.Kind {
	case mailer.KindApplicationReceived:
		subject = fmt.Sprintf("We received your %s application", clubName)
		text = fmt.Sprintf("Hi %s,\n\nThanks for applying to %s. Your application is pending review; we will be in touch soon.\n", name, clubName)
	case mailer.KindCertificateVerified:
		subject = "Your certificate was verified"
		text = fmt.Sprintf("Hi %s,\n\nYour certificate %q has been verified and credits were added to your account.\n", name, certName)
	case mailer.KindCertificateRejected:
		subject = "Your certificate was not accepted"
		text = fmt.Sprintf("Hi %s,\n\nYour certificate %q could not be verified. You may resubmit it for another review.\n", name, certName)
	default:
		subject = "Notification"
		text = fmt.Sprintf("Hi %s,\n\nYou have a new notification.\n", name)
	}

	if job.Subject != "" {
		subject = job.Subject
	}
	if job.Text != "" {
		text = job.Text
	}
	return subject, text
}
