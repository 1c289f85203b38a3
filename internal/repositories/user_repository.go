package repositories

import (
	"errors"

	"gorm.io/gorm"

	"giglink_backend/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository is the read surface the chat and booking core consumes from
// the account subsystem: display data by id, plus the single rating write-back
// after a review insert.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByIDs(ids []string) (map[string]models.User, error)
	UpdateRating(userID string, rating float64) error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByIDs(ids []string) (map[string]models.User, error) {
	var users []models.User
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func (r *UserRepositoryImpl) UpdateRating(userID string, rating float64) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("rating", rating).Error
}
