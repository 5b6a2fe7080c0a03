package models

import "time"

// Meal mirrors one rkeeper product. ExternalID is the alternative address
// used when the client prefers external catalog codes over pos ids.
type Meal struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PosID      string `gorm:"type:varchar(255);not null;uniqueIndex:idx_meal_client_pos" json:"pos_id"`
	ExternalID string `gorm:"type:varchar(255)" json:"external_id"`
	StarterID  int    `gorm:"not null" json:"starter_id"`

	ClientID uint   `gorm:"not null;uniqueIndex:idx_meal_client_pos" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	Offers []MealOffer `gorm:"foreignKey:MealID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// MealOffer is the per-shop availability and price row of a meal.
type MealOffer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MealID uint `gorm:"not null" json:"meal_id"`
	Meal   Meal `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"-"`

	PosID     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_meal_offer_shop_pos" json:"pos_id"`
	StarterID int    `gorm:"not null" json:"starter_id"`

	ShopID uint `gorm:"not null;uniqueIndex:idx_meal_offer_shop_pos" json:"shop_id"`
	Shop   Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
