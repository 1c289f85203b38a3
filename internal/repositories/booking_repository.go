package repositories

import (
	"errors"

	"gorm.io/gorm"

	"giglink_backend/internal/models"
)

var ErrBookingNotFound = errors.New("booking request not found")

// ActorGuard narrows a status transition to a specific party of the booking.
type ActorGuard int

const (
	GuardNone ActorGuard = iota
	GuardSender
	GuardReceiver
	GuardEither
)

type BookingRepository interface {
	Create(booking *models.BookingRequest) error
	FindByID(id string) (*models.BookingRequest, error)
	FindSentByUser(userID string) ([]models.BookingRequest, error)
	FindReceivedByUser(userID string) ([]models.BookingRequest, error)
	// TransitionStatus is the compare-and-set edge of the state machine: the
	// update applies only when the row is still in `from` and the guard
	// matches, so concurrent transitions cannot double-fire. Returns whether
	// the row was updated.
	TransitionStatus(id string, from, to models.BookingStatus, guard ActorGuard, actorID string) (bool, error)
}

type BookingRepositoryImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &BookingRepositoryImpl{db: db}
}

func (r *BookingRepositoryImpl) Create(booking *models.BookingRequest) error {
	return r.db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(id string) (*models.BookingRequest, error) {
	var booking models.BookingRequest
	if err := r.db.First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindSentByUser(userID string) ([]models.BookingRequest, error) {
	var bookings []models.BookingRequest
	err := r.db.
		Where("sender_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) FindReceivedByUser(userID string) ([]models.BookingRequest, error) {
	var bookings []models.BookingRequest
	err := r.db.
		Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepositoryImpl) TransitionStatus(id string, from, to models.BookingStatus, guard ActorGuard, actorID string) (bool, error) {
	query := r.db.Model(&models.BookingRequest{}).
		Where("id = ? AND status = ?", id, from)

	switch guard {
	case GuardSender:
		query = query.Where("sender_id = ?", actorID)
	case GuardReceiver:
		query = query.Where("receiver_id = ?", actorID)
	case GuardEither:
		query = query.Where("sender_id = ? OR receiver_id = ?", actorID, actorID)
	}

	res := query.Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
