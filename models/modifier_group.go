package models

import (
	"strings"
	"time"
)

// ModifierGroup mirrors one rkeeper ingredient group. ModifierExternalIDs
// holds the sorted, slash-joined external ids of its member modifiers and
// feeds the content hash used for cross-client deduplication.
type ModifierGroup struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PosID     string `gorm:"type:varchar(255);not null;index:idx_modifier_group_client_pos" json:"pos_id"`
	StarterID int    `gorm:"not null" json:"starter_id"`

	MinAmount *int `json:"min_amount"`
	MaxAmount *int `json:"max_amount"`

	ModifierExternalIDs string `gorm:"type:text" json:"modifier_external_ids"`

	ClientID uint   `gorm:"not null;index:idx_modifier_group_client_pos" json:"client_id"`
	Client   Client `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SpecificID is the per-client reconciliation identity of the group.
func (g *ModifierGroup) SpecificID() string {
	return SpecificID(g.PosID, g.MinAmount, g.MaxAmount)
}

// HashedID is the content-addressed identity of the group, shared across
// every client of the same project.
func (g *ModifierGroup) HashedID() string {
	var ids []string
	if g.ModifierExternalIDs != "" {
		ids = strings.Split(g.ModifierExternalIDs, "/")
	}
	return HashedID(ids, g.MinAmount, g.MaxAmount)
}
