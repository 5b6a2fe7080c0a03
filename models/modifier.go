package models

import "time"

// Modifier mirrors one rkeeper ingredient. The same pos id can appear under
// different min/max constraints in different groups, so its identity across
// syncs is the (pos_id, min, max) triple, not pos_id alone.
type Modifier struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PosID      string `gorm:"type:varchar(255);not null;index:idx_modifier_client_pos" json:"pos_id"`
	ExternalID string `gorm:"type:varchar(255)" json:"external_id"`
	StarterID  int    `gorm:"not null" json:"starter_id"`

	MinAmount *int `json:"min_amount"`
	MaxAmount *int `json:"max_amount"`

	ClientID uint   `gorm:"not null;index:idx_modifier_client_pos" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	Offers []ModifierOffer `gorm:"foreignKey:ModifierID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SpecificID is the reconciliation identity keyed by pos id.
func (m *Modifier) SpecificID() string {
	return SpecificID(m.PosID, m.MinAmount, m.MaxAmount)
}

// SpecificExternalID is the reconciliation identity keyed by external id.
func (m *Modifier) SpecificExternalID() string {
	return SpecificID(m.ExternalID, m.MinAmount, m.MaxAmount)
}

// ModifierOffer is the per-shop price row of a modifier.
type ModifierOffer struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ModifierID uint     `gorm:"not null" json:"modifier_id"`
	Modifier   Modifier `gorm:"foreignKey:ModifierID;constraint:OnDelete:CASCADE" json:"-"`

	PosID     string `gorm:"type:varchar(255);not null;uniqueIndex:idx_modifier_offer_shop_pos" json:"pos_id"`
	StarterID int    `gorm:"not null" json:"starter_id"`

	ShopID uint `gorm:"not null;uniqueIndex:idx_modifier_offer_shop_pos" json:"shop_id"`
	Shop   Shop `gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
