package repositories

import (
	"errors"

	"gorm.io/gorm"

	"giglink_backend/internal/models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrReviewAlreadyExists = errors.New("review already exists for this booking")
)

type ReviewRepository interface {
	Create(review *models.Review) error
	FindByBookingAndReviewer(bookingID, reviewerID string) (*models.Review, error)
	FindByReviewedUser(reviewedID string) ([]models.Review, error)
	// AverageRatingFor computes the arithmetic mean over all reviews where
	// reviewed_id matches. Zero when the user has no reviews.
	AverageRatingFor(reviewedID string) (float64, error)
}

type ReviewRepositoryImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &ReviewRepositoryImpl{db: db}
}

func (r *ReviewRepositoryImpl) Create(review *models.Review) error {
	// The unique booking+reviewer index backstops the service's duplicate
	// check; a lost insert race surfaces as ErrReviewAlreadyExists.
	if err := r.db.Create(review).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) FindByBookingAndReviewer(bookingID, reviewerID string) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, "booking_id = ? AND reviewer_id = ?", bookingID, reviewerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByReviewedUser(reviewedID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.
		Where("reviewed_id = ?", reviewedID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) AverageRatingFor(reviewedID string) (float64, error) {
	var avg *float64
	err := r.db.Model(&models.Review{}).
		Select("AVG(rating)").
		Where("reviewed_id = ?", reviewedID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
