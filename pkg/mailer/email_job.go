package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/oksasatya/etherescape/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "welcome" or "attendance_verified"
	Data     map[string]any `json:"data,omitempty"`
}

// Publisher puts jobs on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var ErrUnknownTemplate = errors.New("unknown email template")

// Compose returns the subject and bodies of job, rendering its template when set.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		return job.Subject, job.Text, job.HTML, nil
	}
	if !templates.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: %s", ErrUnknownTemplate, job.Template)
	}
	subject, text, html, err = templates.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}
