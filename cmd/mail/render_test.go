package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bluewave-swim/backoffice/backend/internal/domain"
)

const templateDir = "../../templates"

// decoded mirrors what the worker sees: data arrives as a generic JSON map.
func decoded(t *testing.T, m domain.MailMessage) *domain.MailMessage {
	t.Helper()
	raw, err := json.Marshal(m)
	require.NoError(t, err)
	out := &domain.MailMessage{}
	require.NoError(t, json.Unmarshal(raw, out))
	return out
}

func TestRenderBody(t *testing.T) {
	tests := []struct {
		name        string
		message     domain.MailMessage
		wantSubject string
		wantBody    []string
	}{
		{
			name: "reset password",
			message: domain.MailMessage{
				Type: domain.MailTypeResetPassword,
				To:   "ada@example.com",
				Data: domain.ResetPasswordMailData{FullName: "Ada Parent", OTP: "042917", Expiration: 15},
			},
			wantSubject: "Bluewave Swim School - Password reset",
			wantBody:    []string{"Ada Parent", "042917", "15 minutes"},
		},
		{
			name: "placed",
			message: domain.MailMessage{
				Type: domain.MailTypePlaced,
				To:   "bo@example.com",
				Data: domain.PlacementMailData{SwimmerName: "Bo", ActivityName: "June clinic", Location: "Main Pool", SlotLabel: "Jun 14 9AM", LaneNumber: 2},
			},
			wantSubject: "Bluewave Swim School - Clinic spot confirmed",
			wantBody:    []string{"Bo", "June clinic", "Main Pool", "Jun 14 9AM", "Lane: 2"},
		},
		{
			name: "waitlisted",
			message: domain.MailMessage{
				Type: domain.MailTypeWaitlisted,
				To:   "cy@example.com",
				Data: domain.PlacementMailData{SwimmerName: "Cy", ActivityName: "June clinic", Location: "West", SlotLabel: "Jun 15 9AM", WaitlistOrder: 3},
			},
			wantSubject: "Bluewave Swim School - You are on the waitlist",
			wantBody:    []string{"Cy", "number 3 on the waitlist"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := renderBody(templateDir, decoded(t, tt.message))
			require.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestRenderBodyUnsupportedType(t *testing.T) {
	_, _, err := renderBody(templateDir, &domain.MailMessage{Type: "change_email"})
	assert.ErrorIs(t, err, errUnsupportedType)
}

func TestBuildMessage(t *testing.T) {
	m := decoded(t, domain.MailMessage{
		Type: domain.MailTypePlaced,
		To:   "bo@example.com",
		Data: domain.PlacementMailData{SwimmerName: "Bo"},
	})

	msg, err := buildMessage("school@example.com", templateDir, m)
	require.NoError(t, err)

	recipients, err := msg.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"bo@example.com"}, recipients)

	_, err = buildMessage("not an address", templateDir, m)
	assert.Error(t, err)
}
