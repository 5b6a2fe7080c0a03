package models

import "time"

// Shop maps one rkeeper restaurant to its platform shop id.
type Shop struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PosID     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_shop_client_pos" json:"pos_id"`
	StarterID int    `gorm:"not null" json:"starter_id"`

	ClientID uint   `gorm:"not null;uniqueIndex:idx_shop_client_pos" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	MealOffers     []MealOffer     `gorm:"foreignKey:ShopID" json:"-"`
	ModifierOffers []ModifierOffer `gorm:"foreignKey:ShopID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
