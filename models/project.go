package models

import "time"

// Project groups clients sharing one POS catalog dialect. Modifiers and
// modifier groups are deduplicated across all clients of a project.
type Project struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null;uniqueIndex" json:"title"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Clients []Client `gorm:"foreignKey:ProjectID" json:"-"`
}
