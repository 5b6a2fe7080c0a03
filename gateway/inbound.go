package gateway

// Inbound payloads: what the platform gateway delivers to the adapter's
// webhooks.

type InboundItemModifier struct {
	ModifierID int `json:"modifierId"`
	Quantity   int `json:"quantity"`
}

type InboundOrderItem struct {
	MealID        int                   `json:"mealId"`
	Quantity      int                   `json:"quantity"`
	Price         float64               `json:"price"`
	DiscountPrice float64               `json:"discountPrice"`
	Modifiers     []InboundItemModifier `json:"modifiers"`
}

type InboundDiscount struct {
	DiscountID  string  `json:"discountId"`
	Title       string  `json:"title"`
	SumWithCent float64 `json:"sumWithCent"`
}

// DeliveryProduct is the delivery-fee pseudo-meal attached to courier
// orders.
type DeliveryProduct struct {
	ID    int     `json:"id"`
	Price float64 `json:"price"`
}

type InboundAddress struct {
	Street    string `json:"street,omitempty"`
	House     string `json:"house,omitempty"`
	Entrance  string `json:"entrance,omitempty"`
	Floor     string `json:"floor,omitempty"`
	Flat      string `json:"apartmentNumber,omitempty"`
	Doorphone string `json:"intercom,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Latitude  string `json:"lat,omitempty"`
	Longitude string `json:"lon,omitempty"`
}

// InboundOrder is a platform order as delivered to the order webhook.
// GlobalID is unique per tenant and is the idempotency key.
type InboundOrder struct {
	StarterID string `json:"id"`
	GlobalID  string `json:"globalId"`
	ShopID    int    `json:"shopId"`

	Username  string `json:"username"`
	UserPhone string `json:"userPhone"`
	Comment   string `json:"comment"`
	Persons   int    `json:"persons"`

	PaymentMethod  PaymentMethod  `json:"paymentType"`
	PaymentStatus  PaymentStatus  `json:"paymentStatus"`
	DeliveryMethod DeliveryMethod `json:"deliveryType"`

	IsPreorder       bool   `json:"isPreorder"`
	DeliveryDatetime string `json:"deliveryDatetime,omitempty"`
	Timezone         string `json:"timezone,omitempty"`

	TotalPrice    float64 `json:"totalPrice"`
	DiscountPrice float64 `json:"discountPrice"`
	Bonuses       float64 `json:"bonuses"`

	Address         *InboundAddress    `json:"address,omitempty"`
	OrderItems      []InboundOrderItem `json:"orderItems"`
	DeliveryProduct *DeliveryProduct   `json:"deliveryProduct,omitempty"`
	Discounts       []InboundDiscount  `json:"discounts,omitempty"`
}

// ProjectSettings carries the tenant credentials and behavior flags the
// platform manages.
type ProjectSettings struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	CurrencyCode string `json:"currencyCode"`
	DiscountID   *int   `json:"rkeeperDiscountId"`

	IsUseLoyalty               bool `json:"isUseLoyalty"`
	IsSplitOrderItemsForKeeper bool `json:"isSplitOrderItemsForKeeper"`
	IsUseModifierExternalID    bool `json:"isUseModifierExternalId"`
}

type CreateProjectRequest struct {
	Project string          `json:"project"`
	APIKey  string          `json:"apiKey"`
	Data    ProjectSettings `json:"data"`
}

type UpdateProjectRequest struct {
	ProjectName  string `json:"projectName"`
	ClientID     string `json:"clientId"`
	CurrencyCode string `json:"currencyCode"`
	DiscountID   *int   `json:"rkeeperDiscountId"`

	IsUseLoyalty               bool `json:"isUseLoyalty"`
	IsSplitOrderItemsForKeeper bool `json:"isSplitOrderItemsForKeeper"`
	IsUseModifierExternalID    bool `json:"isUseModifierExternalId"`
}
