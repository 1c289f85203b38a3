package email

import "fmt"

// Booking email bodies. Kept as plain formatted HTML; the subjects mirror the
// in-app notification titles.

func BookingRequestSubject() string {
	return "New Booking Request"
}

func BookingRequestBody(senderName, eventDate string) string {
	return fmt.Sprintf(
		"<p>You have a new booking request from <b>%s</b> for %s.</p><p>Open GigLink to respond.</p>",
		senderName, eventDate,
	)
}

func BookingAcceptedSubject() string {
	return "Your Booking Was Accepted"
}

func BookingAcceptedBody(receiverName string) string {
	return fmt.Sprintf(
		"<p><b>%s</b> accepted your booking request. You can now chat to sort out the details.</p>",
		receiverName,
	)
}
