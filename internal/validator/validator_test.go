package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Kind      string    `json:"kind" validate:"message-kind"`
	Status    string    `json:"status" validate:"booking-status"`
	Account   string    `json:"account" validate:"account-kind"`
	EventDate time.Time `json:"event_date" validate:"future-date"`
	Email     string    `json:"email" validate:"omitempty,email"`
}

func TestCustomRulesAcceptValidValues(t *testing.T) {
	v := New()

	err := v.Validate(sampleInput{
		Kind:      "text",
		Status:    "pending",
		Account:   "artist",
		EventDate: time.Now().Add(24 * time.Hour),
	})
	assert.NoError(t, err)
}

func TestCustomRulesAcceptEmptyValues(t *testing.T) {
	// Empty values are the 'required' rule's business, not the domain rules'.
	v := New()
	assert.NoError(t, v.Validate(sampleInput{}))
}

func TestMessageKindRule(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(sampleInput{Kind: "media"}))

	err := v.Validate(sampleInput{Kind: "voice"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "kind")
}

func TestBookingStatusRule(t *testing.T) {
	v := New()

	for _, status := range []string{"pending", "accepted", "rejected", "cancelled", "completed"} {
		assert.NoError(t, v.Validate(sampleInput{Status: status}), status)
	}

	err := v.Validate(sampleInput{Status: "archived"})
	require.Error(t, err)
}

func TestFutureDateRule(t *testing.T) {
	v := New()

	// Today counts as future enough for a same-day booking.
	assert.NoError(t, v.Validate(sampleInput{EventDate: time.Now()}))

	err := v.Validate(sampleInput{EventDate: time.Now().AddDate(0, 0, -2)})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "event_date")
}

func TestFieldNamesUseJSONTags(t *testing.T) {
	v := New()

	err := v.Validate(sampleInput{Email: "not-an-email"})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.NotContains(t, vErr.Errors, "Email")
}
