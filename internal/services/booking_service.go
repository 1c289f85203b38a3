package services

import (
	"errors"
	"fmt"

	"giglink_backend/internal/email"
	"giglink_backend/internal/logger"
	"giglink_backend/internal/models"
	"giglink_backend/internal/repositories"
	"giglink_backend/internal/services/dto"
	"giglink_backend/pkg/apperrors"
)

// acceptedConversationSeed is the preview a freshly materialized conversation
// starts with when a booking is accepted.
const acceptedConversationSeed = "Booking accepted - You can now chat!"

// BookingService runs the booking request state machine and its side effects:
// notifications on transitions, and conversation materialization on accept.
type BookingService struct {
	bookingRepo  repositories.BookingRepository
	convRepo     repositories.ConversationRepository
	reviewRepo   repositories.ReviewRepository
	userRepo     repositories.UserRepository
	notifRepo    repositories.NotificationRepository
	emailService email.Provider
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	convRepo repositories.ConversationRepository,
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
	emailService email.Provider,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		convRepo:     convRepo,
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
		notifRepo:    notifRepo,
		emailService: emailService,
	}
}

// Create inserts a pending request and notifies the receiver.
func (s *BookingService) Create(senderID string, req *dto.CreateBookingRequest) (*models.BookingRequest, error) {
	if req.ReceiverID == senderID {
		return nil, apperrors.ValidationError("cannot send a booking request to yourself")
	}

	receiver, err := s.userRepo.FindByID(req.ReceiverID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NotFoundError("booking", "Receiver not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}

	booking := &models.BookingRequest{
		SenderID:            senderID,
		ReceiverID:          req.ReceiverID,
		RequestType:         req.RequestType,
		EventDate:           req.EventDate,
		EventTime:           req.EventTime,
		DurationHours:       req.DurationHours,
		Budget:              req.Budget,
		EventType:           req.EventType,
		SpecialRequirements: req.SpecialRequirements,
		Message:             req.Message,
		Status:              models.BookingStatusPending,
	}
	if err := s.bookingRepo.Create(booking); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	if err := s.notifRepo.CreateBookingRequestNotification(req.ReceiverID, booking.ID, booking.EventDate); err != nil {
		logger.Error("booking request notification failed", "booking_id", booking.ID, "error", err)
	}
	s.sendBookingRequestEmail(senderID, receiver, booking)

	return booking, nil
}

func (s *BookingService) GetSent(userID string) ([]models.BookingRequest, error) {
	bookings, err := s.bookingRepo.FindSentByUser(userID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	return bookings, nil
}

func (s *BookingService) GetReceived(userID string) ([]models.BookingRequest, error) {
	bookings, err := s.bookingRepo.FindReceivedByUser(userID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	return bookings, nil
}

// Accept moves pending -> accepted. Only the receiver may accept. On success
// the conversation between the two parties is materialized (never duplicated:
// the directory's get-or-create absorbs a conversation that already exists
// from prior direct messaging) and the sender is notified.
func (s *BookingService) Accept(bookingID, actorID string) (*models.BookingRequest, error) {
	booking, err := s.transition(bookingID, actorID,
		models.BookingStatusPending, models.BookingStatusAccepted, repositories.GuardReceiver)
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.CreateBookingAcceptedNotification(booking.SenderID, booking.ID); err != nil {
		logger.Error("booking accepted notification failed", "booking_id", booking.ID, "error", err)
	}
	s.sendBookingAcceptedEmail(booking)

	if _, _, err := s.convRepo.GetOrCreate(booking.SenderID, booking.ReceiverID, acceptedConversationSeed); err != nil {
		// The transition already committed, so the accept still succeeds. The
		// conversation materializes on the pair's first message instead.
		logger.Error("conversation creation after accept failed", "booking_id", booking.ID, "error", err)
	}

	return booking, nil
}

// Reject moves pending -> rejected. Only the receiver may reject; the sender
// is notified.
func (s *BookingService) Reject(bookingID, actorID string) (*models.BookingRequest, error) {
	booking, err := s.transition(bookingID, actorID,
		models.BookingStatusPending, models.BookingStatusRejected, repositories.GuardReceiver)
	if err != nil {
		return nil, err
	}

	if err := s.notifRepo.CreateBookingRejectedNotification(booking.SenderID, booking.ID); err != nil {
		logger.Error("booking rejected notification failed", "booking_id", booking.ID, "error", err)
	}
	return booking, nil
}

// Cancel moves pending -> cancelled. Only the original sender may cancel, and
// only while the request is still pending. No notification is emitted.
func (s *BookingService) Cancel(bookingID, actorID string) (*models.BookingRequest, error) {
	return s.transition(bookingID, actorID,
		models.BookingStatusPending, models.BookingStatusCancelled, repositories.GuardSender)
}

// Complete moves accepted -> completed. Restricted to either party of the
// booking.
func (s *BookingService) Complete(bookingID, actorID string) (*models.BookingRequest, error) {
	return s.transition(bookingID, actorID,
		models.BookingStatusAccepted, models.BookingStatusCompleted, repositories.GuardEither)
}

// transition runs one guarded state-machine edge. The repository performs a
// compare-and-set; when it reports no row updated, the booking is refetched to
// tell apart "wrong actor" from "wrong state" for the error.
func (s *BookingService) transition(bookingID, actorID string, from, to models.BookingStatus, guard repositories.ActorGuard) (*models.BookingRequest, error) {
	updated, err := s.bookingRepo.TransitionStatus(bookingID, from, to, guard, actorID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.NotFoundError("booking", "Booking request not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}

	if !updated {
		if !s.actorAllowed(booking, actorID, guard) {
			return nil, apperrors.ForbiddenError("You are not allowed to perform this action on this booking")
		}
		return nil, apperrors.InvalidStateError("booking",
			invalidTransitionMessage(booking.Status, to), booking.Status)
	}
	return booking, nil
}

// invalidTransitionMessage explains a refused transition in terms of the
// state machine, so "already accepted" reads differently from "cannot
// complete a pending request".
func invalidTransitionMessage(current, target models.BookingStatus) string {
	switch {
	case current.IsTerminal():
		return fmt.Sprintf("Booking request is already %s and cannot change", current)
	case !current.CanTransitionTo(target):
		return fmt.Sprintf("Booking request cannot move from %s to %s", current, target)
	default:
		// The compare-and-set lost to a concurrent writer and the state moved
		// back under the refetch; the caller may simply retry.
		return "Booking request changed concurrently, try again"
	}
}

func (s *BookingService) actorAllowed(booking *models.BookingRequest, actorID string, guard repositories.ActorGuard) bool {
	switch guard {
	case repositories.GuardSender:
		return booking.SenderID == actorID
	case repositories.GuardReceiver:
		return booking.ReceiverID == actorID
	case repositories.GuardEither:
		return booking.SenderID == actorID || booking.ReceiverID == actorID
	default:
		return true
	}
}

// AddReview attaches a review to a completed booking, derives the reviewed
// party as "the other participant", and recomputes that user's aggregate
// rating as the mean of all their reviews.
func (s *BookingService) AddReview(bookingID, reviewerID string, req *dto.AddReviewRequest) (*models.Review, error) {
	booking, err := s.bookingRepo.FindByID(bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, apperrors.NotFoundError("booking", "Booking request not found")
		}
		return nil, apperrors.TransientStoreError(err)
	}

	reviewedID, ok := booking.OtherParty(reviewerID)
	if !ok {
		return nil, apperrors.ForbiddenError("Only a participant of the booking can leave a review")
	}
	if booking.Status != models.BookingStatusCompleted {
		return nil, apperrors.InvalidStateError("booking",
			"Reviews can only be left on completed bookings", booking.Status)
	}

	if _, err := s.reviewRepo.FindByBookingAndReviewer(bookingID, reviewerID); err == nil {
		return nil, apperrors.New(apperrors.CodeAlreadyExists, "booking",
			"You already reviewed this booking", 409)
	} else if !errors.Is(err, repositories.ErrReviewNotFound) {
		return nil, apperrors.TransientStoreError(err)
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		ReviewedID: reviewedID,
		BookingID:  bookingID,
		Rating:     req.Rating,
		ReviewText: req.ReviewText,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repositories.ErrReviewAlreadyExists) {
			return nil, apperrors.New(apperrors.CodeAlreadyExists, "booking",
				"You already reviewed this booking", 409)
		}
		return nil, apperrors.TransientStoreError(err)
	}

	avg, err := s.reviewRepo.AverageRatingFor(reviewedID)
	if err != nil {
		return nil, apperrors.TransientStoreError(err)
	}
	if err := s.userRepo.UpdateRating(reviewedID, avg); err != nil {
		return nil, apperrors.TransientStoreError(err)
	}

	return review, nil
}

// --- email side effects; failures logged, never surfaced ---

func (s *BookingService) sendBookingRequestEmail(senderID string, receiver *models.User, booking *models.BookingRequest) {
	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return
	}
	go func() {
		if err := s.emailService.Send(
			receiver.Email,
			email.BookingRequestSubject(),
			email.BookingRequestBody(sender.Name, booking.EventDate.Format("2006-01-02")),
		); err != nil {
			logger.Warn("booking request email failed", "booking_id", booking.ID, "error", err)
		}
	}()
}

func (s *BookingService) sendBookingAcceptedEmail(booking *models.BookingRequest) {
	sender, err := s.userRepo.FindByID(booking.SenderID)
	if err != nil {
		return
	}
	receiver, err := s.userRepo.FindByID(booking.ReceiverID)
	if err != nil {
		return
	}
	go func() {
		if err := s.emailService.Send(
			sender.Email,
			email.BookingAcceptedSubject(),
			email.BookingAcceptedBody(receiver.Name),
		); err != nil {
			logger.Warn("booking accepted email failed", "booking_id", booking.ID, "error", err)
		}
	}()
}
