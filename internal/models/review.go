package models

// Review references a completed booking. ReviewedID is derived from the
// booking ("the other party" relative to the reviewer) when the review is
// created, and the reviewed user's aggregate Rating is recomputed as the mean
// of all their reviews after every insert. The booking+reviewer unique index
// caps each participant at one review per booking.
type Review struct {
	BaseModel
	ReviewerID string `gorm:"not null;uniqueIndex:idx_reviews_booking_reviewer" json:"reviewer_id"`
	ReviewedID string `gorm:"not null;index" json:"reviewed_id"`
	BookingID  string `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_booking_reviewer" json:"booking_id"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	ReviewText string `gorm:"type:text" json:"review_text"`
}
