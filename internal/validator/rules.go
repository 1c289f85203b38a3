package validator

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"giglink_backend/internal/models"
	"giglink_backend/internal/models/chat"
)

// registerCustomRules installs the domain validation tags. A registration
// failure is a startup misconfiguration, not a runtime condition.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("message-kind", validateMessageKind)
	mustRegister("booking-status", validateBookingStatus)
	mustRegister("account-kind", validateAccountKind)
	mustRegister("future-date", validateFutureDate)
}

// Empty values pass every rule below; pairing with 'required' makes a field
// mandatory.

func validateMessageKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch chat.MessageKind(value) {
	case chat.MessageKindText, chat.MessageKindMedia:
		return true
	default:
		return false
	}
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.BookingStatus(value) {
	case models.BookingStatusPending, models.BookingStatusAccepted, models.BookingStatusRejected,
		models.BookingStatusCancelled, models.BookingStatusCompleted:
		return true
	default:
		return false
	}
}

func validateAccountKind(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.AccountKind(value) {
	case models.AccountKindArtist, models.AccountKindVenue:
		return true
	default:
		return false
	}
}

// validateFutureDate accepts today and later; only dates strictly before the
// start of today fail, so same-day bookings remain possible.
func validateFutureDate(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(time.Time)
	if !ok || date.IsZero() {
		return true
	}
	now := time.Now()
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, date.Location())
	return !date.Before(startOfToday)
}
