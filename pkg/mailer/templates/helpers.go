package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/etherescape/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithInterests(interests string) Option {
	return func(d *EmailData) { d.Interests = strings.TrimSpace(interests) }
}

// WithEvent fills the attended event. The date keeps the history's YYYY-MM-DD form.
func WithEvent(activity, location string, scheduled time.Time) Option {
	return func(d *EmailData) {
		d.Activity = activity
		d.Location = strings.TrimSpace(location)
		if !scheduled.IsZero() {
			d.ScheduledDate = scheduled.Format("2006-01-02")
		}
	}
}

func WithPoints(awarded, balance int) Option {
	return func(d *EmailData) {
		d.PointsAwarded = awarded
		d.Balance = balance
	}
}

// NewBaseEmailData fills branding from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,

		SupportURL:  cfg.SupportURL,
		ScheduleURL: cfg.ScheduleURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(cfg *config.Config, name, email, interests string, opts ...Option) map[string]any {
	opts = append([]Option{WithInterests(interests)}, opts...)
	return ToMap(NewBaseEmailData(cfg, Welcome, name, email, opts...))
}

func NewAttendanceVerifiedData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, AttendanceVerified, name, email, opts...))
}
