package helpers

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"giglink_backend/internal/auth"
	"giglink_backend/internal/models"
)

// CreateUser seeds a user row and issues a token for it. User management is
// outside this service, so fixtures write the directory table directly.
func CreateUser(t *testing.T, db *gorm.DB, name string, kind models.AccountKind) (string, *models.User) {
	t.Helper()

	user := &models.User{
		Name:  name,
		Email: fmt.Sprintf("%s_%d@test.local", kind, time.Now().UnixNano()),
		Kind:  kind,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", name, err)
	}

	token, err := auth.GenerateToken(user.ID, string(kind))
	if err != nil {
		t.Fatalf("failed to issue token for %s: %v", name, err)
	}
	return token, user
}

func CreateArtist(t *testing.T, db *gorm.DB, name string) (string, *models.User) {
	return CreateUser(t, db, name, models.AccountKindArtist)
}

func CreateVenue(t *testing.T, db *gorm.DB, name string) (string, *models.User) {
	return CreateUser(t, db, name, models.AccountKindVenue)
}
