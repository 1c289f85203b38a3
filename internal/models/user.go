package models

// User is owned by the account/profile subsystem. The chat and booking core
// reads it for display data and the aggregate rating, and never mutates
// anything except Rating (recomputed after each review).
type User struct {
	BaseModel
	Name      string      `gorm:"not null" json:"name"`
	Email     string      `gorm:"uniqueIndex;not null" json:"email"`
	AvatarURL string      `json:"avatar_url"`
	Kind      AccountKind `gorm:"not null;index" json:"kind"`
	Rating    float64     `gorm:"default:0" json:"rating"`
}
