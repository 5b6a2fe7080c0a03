package models

import "time"

// Order links one accepted platform order to its rkeeper order.
// (client_id, global_id) is the idempotency key of order ingestion.
// IsPaid is fixed at creation: it records whether the platform had
// already collected the money when the order arrived.
type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PosID    string `gorm:"type:varchar(255);not null" json:"pos_id"`
	GlobalID string `gorm:"type:varchar(255);not null;uniqueIndex:idx_order_client_global" json:"global_id"`

	Bonuses       float64 `gorm:"not null" json:"bonuses"`
	IsPaid        bool    `gorm:"not null;default:false" json:"is_paid"`
	Done          bool    `gorm:"not null;default:false" json:"done"`
	DiscountPrice float64 `json:"discount_price"`

	ClientID uint   `gorm:"not null;uniqueIndex:idx_order_client_global" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
