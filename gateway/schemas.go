package gateway

// Platform-side enums. These are the values the Starter gateway sends and
// expects on the wire.

type PaymentMethod string

const (
	PaymentCard          PaymentMethod = "card"
	PaymentCash          PaymentMethod = "cash"
	PaymentApple         PaymentMethod = "apple_pay"
	PaymentGoogle        PaymentMethod = "google_pay"
	PaymentBonus         PaymentMethod = "bonus"
	PaymentCardToCourier PaymentMethod = "card_to_courier"
	PaymentCashToCourier PaymentMethod = "cash_to_courier"
)

type PaymentStatus string

const (
	PaymentStatusPayed    PaymentStatus = "payed"
	PaymentStatusNotPayed PaymentStatus = "not_payed"
)

type DeliveryMethod string

const (
	DeliveryCourier DeliveryMethod = "courier"
	DeliveryPickup  DeliveryMethod = "pickup"
	DeliveryIndoor  DeliveryMethod = "indoor"
)

type OrderStatus string

const (
	OrderStatusDraft      OrderStatus = "draft"
	OrderStatusCreated    OrderStatus = "created"
	OrderStatusChecked    OrderStatus = "checked"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCooked     OrderStatus = "cooked"
	OrderStatusOnTheWay   OrderStatus = "on_the_way"
	OrderStatusDone       OrderStatus = "done"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// Address of a shop as the platform stores it.
type Address struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	Street    string  `json:"street,omitempty"`
	House     string  `json:"house,omitempty"`
	City      string  `json:"city,omitempty"`
	Comment   string  `json:"comment,omitempty"`
}

type CreateShop struct {
	PosID         string   `json:"posId"`
	Name          string   `json:"name"`
	Address       Address  `json:"address"`
	PaymentTypes  []string `json:"paymentTypes"`
	DeliveryTypes []string `json:"deliveryTypes"`
}

type UpdateShop struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Address       Address  `json:"address"`
	PaymentTypes  []string `json:"paymentTypes"`
	DeliveryTypes []string `json:"deliveryTypes"`
}

type CreateCategory struct {
	PosID string `json:"posId"`
	Name  string `json:"name"`
}

type UpdateCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CreateMeal struct {
	PosID                string   `json:"posId"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Price                float64  `json:"price"`
	CategoryIDs          []int    `json:"categoryIds"`
	ModifierGroups       []int    `json:"modifierGroups,omitempty"`
	DeliveryRestrictions []string `json:"deliveryRestrictions"`
	Images               []string `json:"imageUrls,omitempty"`
	Proteins             *int     `json:"proteins,omitempty"`
	Fats                 *int     `json:"fats,omitempty"`
	Carbohydrates        *int     `json:"carbohydrates,omitempty"`
	Calories             *int     `json:"calories,omitempty"`
}

type UpdateMeal struct {
	ID                   int      `json:"id"`
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	Price                float64  `json:"price"`
	CategoryIDs          []int    `json:"categoryIds"`
	ModifierGroups       []int    `json:"modifierGroups,omitempty"`
	DeliveryRestrictions []string `json:"deliveryRestrictions"`
	Images               []string `json:"imageUrls,omitempty"`
	Proteins             *int     `json:"proteins,omitempty"`
	Fats                 *int     `json:"fats,omitempty"`
	Carbohydrates        *int     `json:"carbohydrates,omitempty"`
	Calories             *int     `json:"calories,omitempty"`
}

type CreateMealOffer struct {
	PosID    string  `json:"posId"`
	MealID   int     `json:"mealId"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type UpdateMealOffer struct {
	ID       int     `json:"id"`
	MealID   int     `json:"mealId"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
}

type CreateModifier struct {
	PosID     string   `json:"posId"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Images    []string `json:"imageUrls,omitempty"`
	MinAmount int      `json:"minAmount"`
	MaxAmount int      `json:"maxAmount"`
	Required  bool     `json:"required"`
}

type UpdateModifier struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Images    []string `json:"imageUrls,omitempty"`
	MinAmount int      `json:"minAmount"`
	MaxAmount int      `json:"maxAmount"`
	Required  bool     `json:"required"`
}

// ModifierInGroup references a member modifier by its platform id.
type ModifierInGroup struct {
	ID        int  `json:"id"`
	MinAmount int  `json:"minAmount"`
	MaxAmount int  `json:"maxAmount"`
	Required  bool `json:"required"`
}

type CreateModifierGroup struct {
	PosID     string            `json:"posId"`
	Name      string            `json:"name"`
	MinAmount int               `json:"minAmount"`
	MaxAmount int               `json:"maxAmount"`
	Required  bool              `json:"required"`
	Modifiers []ModifierInGroup `json:"modifiers"`
}

type UpdateModifierGroup struct {
	ID        int               `json:"id"`
	Name      string            `json:"name"`
	MinAmount int               `json:"minAmount"`
	MaxAmount int               `json:"maxAmount"`
	Required  bool              `json:"required"`
	Modifiers []ModifierInGroup `json:"modifiers"`
}

type CreateModifierOffer struct {
	PosID      string `json:"posId"`
	ModifierID int    `json:"modifierId"`
	ShopID     int    `json:"shopId"`
	Price      int    `json:"price"`
}

type UpdateModifierOffer struct {
	ID         int    `json:"id"`
	ModifierID int    `json:"modifierId"`
	ShopID     int    `json:"shopId"`
	Price      int    `json:"price"`
}

// ObjectOut is the gateway's answer for one created object: the platform id
// keyed back to the natural key the adapter supplied.
type ObjectOut struct {
	ID    int    `json:"id"`
	PosID string `json:"posId"`
}

type ObjectOutList struct {
	Data  []ObjectOut `json:"data"`
	Count int         `json:"count"`
}

// OrderStatusUpdate pushes one order's progress back to the platform.
type OrderStatusUpdate struct {
	ID        string      `json:"-"`
	PosNumber string      `json:"posNumber"`
	Status    OrderStatus `json:"status"`
}
