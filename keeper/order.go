package keeper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/starterapp/rkeeper-adapter/gateway"
)

type DeliveryType string

const (
	DeliveryCourier  DeliveryType = "courier"
	DeliveryTakeaway DeliveryType = "takeaway"
	DeliveryInside   DeliveryType = "inside"
)

var (
	// ErrDeliveryType means the platform sent a delivery method rkeeper has
	// no expedition type for.
	ErrDeliveryType = errors.New("unsupported delivery type")
	// ErrPaymentType means the platform sent a payment method rkeeper has no
	// payment type for.
	ErrPaymentType = errors.New("unsupported payment type")
)

// MapDeliveryType translates the platform delivery method into the rkeeper
// expedition type.
func MapDeliveryType(method gateway.DeliveryMethod) (DeliveryType, error) {
	switch method {
	case gateway.DeliveryCourier:
		return DeliveryCourier, nil
	case gateway.DeliveryPickup:
		return DeliveryTakeaway, nil
	case gateway.DeliveryIndoor:
		return DeliveryInside, nil
	}
	return "", fmt.Errorf("%w: %s", ErrDeliveryType, method)
}

// MapPaymentType translates the platform payment method into the rkeeper
// payment type. Online wallets and card payments collected in the app are
// all "online"; courier-collected payments keep their physical kind.
func MapPaymentType(method gateway.PaymentMethod) (PaymentType, error) {
	switch method {
	case gateway.PaymentCard, gateway.PaymentApple, gateway.PaymentGoogle, gateway.PaymentBonus:
		return PaymentTypeOnline, nil
	case gateway.PaymentCashToCourier, gateway.PaymentCash:
		return PaymentTypeCash, nil
	case gateway.PaymentCardToCourier:
		return PaymentTypeCard, nil
	}
	return "", fmt.Errorf("%w: %s", ErrPaymentType, method)
}

type Guest struct {
	Name  string `json:"firstName"`
	Phone string `json:"phone"`
}

type Address struct {
	FullAddress string `json:"fullAddress,omitempty"`
	Street      string `json:"street,omitempty"`
	House       string `json:"house,omitempty"`
	Entrance    string `json:"entrance,omitempty"`
	Floor       string `json:"floor,omitempty"`
	Flat        string `json:"apartmentNumber,omitempty"`
	Doorphone   string `json:"intercom,omitempty"`
	Comment     string `json:"comment,omitempty"`
	Latitude    string `json:"lat,omitempty"`
	Longitude   string `json:"lon,omitempty"`
}

// BuildAddress assembles the rkeeper address from the platform one,
// composing the full-address line the POS shows to couriers.
func BuildAddress(in *gateway.InboundAddress) *Address {
	if in == nil {
		return nil
	}
	parts := make([]string, 0, 4)
	if in.Street != "" {
		parts = append(parts, in.Street)
	}
	if in.House != "" {
		parts = append(parts, in.House)
	}
	if in.Flat != "" {
		parts = append(parts, "кв. "+in.Flat)
	}
	return &Address{
		FullAddress: strings.Join(parts, ", "),
		Street:      in.Street,
		House:       in.House,
		Entrance:    in.Entrance,
		Floor:       in.Floor,
		Flat:        in.Flat,
		Doorphone:   in.Doorphone,
		Comment:     in.Comment,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	}
}

type OrderItemModifier struct {
	ID         *string `json:"id,omitempty"`
	ExternalID *string `json:"externalId,omitempty"`
	Quantity   int     `json:"quantity"`
}

type OrderItem struct {
	ID         *string             `json:"id,omitempty"`
	ExternalID *string             `json:"externalId,omitempty"`
	Quantity   int                 `json:"quantity"`
	Price      float64             `json:"price"`
	Modifiers  []OrderItemModifier `json:"ingredients,omitempty"`
}

// DiscountInList is one discount line attached to the order draft.
type DiscountInList struct {
	KeeperID   int     `json:"rk7Id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	IsManual   bool    `json:"isManual"`
	IsVariable bool    `json:"isVariable"`
}

// OrderDiscounts is the discount section of the draft. Total is the order
// total net of bonuses; Discount is the amount left after per-line
// discounts and non-loyalty bonuses are taken out.
type OrderDiscounts struct {
	UseKeeperDiscounts bool             `json:"useRk7Discounts"`
	Total              float64          `json:"total"`
	Discount           float64          `json:"discount"`
	DiscountList       []DiscountInList `json:"discountList"`
}

// LoyaltyAmount is the bonus-spend section of an order, filled from the
// preliminary loyalty calculation.
type LoyaltyAmount struct {
	Amount      float64 `json:"amount"`
	MaxAmount   float64 `json:"maxAmount,omitempty"`
	ProgramID   string  `json:"programId,omitempty"`
	ProgramName string  `json:"programName,omitempty"`
}

// LoyaltyCalculation is the answer of the preliminary calculation call.
type LoyaltyCalculation struct {
	MaxBonusPayment float64 `json:"maxBonusPayment"`
	ProgramID       string  `json:"programId,omitempty"`
	ProgramName     string  `json:"programName,omitempty"`
}

// Order is the create-order payload rkeeper accepts.
type Order struct {
	RestaurantID    string          `json:"restaurantId"`
	ExpeditionType  DeliveryType    `json:"expeditionType"`
	PaymentTypeID   PaymentType     `json:"paymentTypeId"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	OrderItems      []OrderItem     `json:"dishList"`
	Guest           *Guest          `json:"guest,omitempty"`
	Address         *Address        `json:"address,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	Persons         int             `json:"persons,omitempty"`
	Soonest         bool            `json:"soonest"`
	ExpectedAt      *string         `json:"expectedAt,omitempty"`
	Discounts       *OrderDiscounts `json:"discounts,omitempty"`
	UseLoyalty      bool            `json:"useLoyalty,omitempty"`
	LoyaltyAmount   *LoyaltyAmount  `json:"loyaltyAmount,omitempty"`
	OrderExternalID string          `json:"orderExternalId"`
}

// PreliminaryOrder is the order draft sent for the preliminary loyalty
// calculation; the POS answers with the spendable bonus ceiling.
type PreliminaryOrder struct {
	RestaurantID   string       `json:"restaurantId"`
	ExpeditionType DeliveryType `json:"expeditionType"`
	OrderItems     []OrderItem  `json:"dishList"`
	Phone          string       `json:"phone"`
}
