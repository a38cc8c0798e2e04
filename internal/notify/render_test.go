package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ReviewOutcome(t *testing.T) {
	msg, err := Render(Event{
		Kind: KindReviewOutcome,
		To:   []string{"ana@x.org"},
		Data: OutcomeData{
			FullName: "Ana",
			Code:     "ABCDEFGHJK",
			Accepted: false,
			Comments: "missing <signature>",
			Documents: []DocumentOutcome{
				{Name: "ID card", Pass: true},
				{Name: "Budget", Pass: false},
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"ana@x.org"}, msg.To)
	assert.Equal(t, "Your proposal was reviewed", msg.Subject)
	assert.Contains(t, msg.HTML, "was rejected")
	assert.Contains(t, msg.HTML, "<td>ID card</td><td>Passed</td>")
	assert.Contains(t, msg.HTML, "<td>Budget</td><td>Failed</td>")
	assert.Contains(t, msg.HTML, "missing &lt;signature&gt;")
}

func TestRender_SubjectOverrideAndManagerLink(t *testing.T) {
	msg, err := Render(Event{
		Kind:    KindNotifyManagers,
		Subject: "custom",
		Data:    SubmissionData{FullName: "Ana", Email: "ana@x.org", Code: "C0DE", AdminPanelURL: "https://admin.example.org"},
	})
	require.NoError(t, err)
	assert.Equal(t, "custom", msg.Subject)
	assert.Contains(t, msg.HTML, `href="https://admin.example.org"`)
}

func TestRender_UnknownKind(t *testing.T) {
	_, err := Render(Event{Kind: "nope"})
	assert.Error(t, err)
}

func TestNewSMTPSender_RequiresHostAndFrom(t *testing.T) {
	_, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.org"})
	assert.Error(t, err)

	s, err := NewSMTPSender(SMTPConfig{Host: "smtp.example.org", From: "no-reply@example.org"})
	require.NoError(t, err)
	assert.Equal(t, 587, s.cfg.Port)
}
