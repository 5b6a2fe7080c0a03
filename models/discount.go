package models

import "time"

// Discount maps a platform discount id to the rkeeper discount id of one
// client.
type Discount struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID uint   `gorm:"not null;uniqueIndex:idx_discount_client_starter" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	StarterID string `gorm:"type:varchar(255);not null;uniqueIndex:idx_discount_client_starter" json:"starter_id"`
	PosID     int    `gorm:"not null" json:"pos_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
