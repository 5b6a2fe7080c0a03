package models

import "time"

// Client is one configured integration between a platform account and an
// rkeeper account. Behavior flags switch the catalog and order dialect per
// tenant; they are consulted at each decision point instead of subclassing.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ClientID     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"client_id"`
	ClientSecret string `gorm:"type:varchar(255);not null" json:"-"`
	APIKey       string `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	CurrencyCode string `gorm:"type:varchar(255)" json:"currency_code"`
	// Platform id of the fallback discount used for synthetic discount lines.
	DiscountID *int `json:"discount_id"`

	UseModifierMaxAmount          bool `gorm:"not null;default:false" json:"use_modifier_max_amount"`
	IsUseLoyalty                  bool `gorm:"not null;default:false" json:"is_use_loyalty"`
	IsSplitOrderItemsForKeeper    bool `gorm:"not null;default:false" json:"is_split_order_items_for_keeper"`
	IsUseModifierExternalID       bool `gorm:"not null;default:false" json:"is_use_modifier_external_id"`
	IsUseMealExternalID           bool `gorm:"not null;default:false" json:"is_use_meal_external_id"`
	IsUseDiscountsAsVariable      bool `gorm:"not null;default:false" json:"is_use_discounts_as_variable"`
	IsUseGlobalModifierComplex    bool `gorm:"not null;default:false" json:"is_use_global_modifier_complex"`
	IsSkipUpdateOrderPaymentState bool `gorm:"not null;default:false;column:is_skip_update_order_payment_status" json:"is_skip_update_order_payment_status"`
	IsUseMinusForDiscountAmount   bool `gorm:"not null;default:false" json:"is_use_minus_for_discount_amount"`

	ProjectID *uint    `gorm:"index" json:"project_id,omitempty"`
	Project   *Project `gorm:"foreignKey:ProjectID" json:"-"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
