package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/etherescape/pkg/mailer"
	mailtpl "github.com/oksasatya/etherescape/pkg/mailer/templates"
)

// SubjectFor is the fallback subject when a job carries neither a subject nor a known template.
func SubjectFor(job *mailer.EmailJob) string {
	switch strings.ToLower(job.Template) {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.AttendanceVerified:
		return "Your attendance was verified"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// NormalizeTemplate lowercases the template name and mirrors it into Data["Type"].
func NormalizeTemplate(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Template == "" {
		return
	}
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Type"] = job.Template
	}
}
