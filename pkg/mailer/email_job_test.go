package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposePlain(t *testing.T) {
	subject, text, html, err := Compose(EmailJob{To: "a@example.com", Subject: "Hi", Text: "body"})
	require.NoError(t, err)
	assert.Equal(t, "Hi", subject)
	assert.Equal(t, "body", text)
	assert.Empty(t, html)
}

func TestComposeTemplate(t *testing.T) {
	job := EmailJob{
		To:       "a@example.com",
		Template: "attendance_verified",
		Data:     map[string]any{"Name": "Ada", "Activity": "Trail hike", "PointsAwarded": 10, "Balance": 10},
	}
	subject, text, html, err := Compose(job)
	require.NoError(t, err)
	assert.Contains(t, subject, "10 points")
	assert.Contains(t, text, "Trail hike")
	assert.NotEmpty(t, html)
}

func TestComposeUnknownTemplate(t *testing.T) {
	_, _, _, err := Compose(EmailJob{To: "a@example.com", Template: "login_otp"})
	require.ErrorIs(t, err, ErrUnknownTemplate)
}
