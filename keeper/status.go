package keeper

import "github.com/starterapp/rkeeper-adapter/gateway"

// PaymentStatus of an order as rkeeper reports it.
type PaymentStatus string

const (
	PaymentNotPaid PaymentStatus = "notPaid"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentType of an order inside rkeeper.
type PaymentType string

const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeCard   PaymentType = "card"
	PaymentTypeOnline PaymentType = "online"
)

// StatusCode is the numeric lifecycle state rkeeper assigns to an order.
type StatusCode int

const (
	StatusNew            StatusCode = 1
	StatusAccepted       StatusCode = 2
	StatusCooking        StatusCode = 3
	StatusCooked         StatusCode = 4
	StatusPacking        StatusCode = 5
	StatusPacked         StatusCode = 6
	StatusWaitingCourier StatusCode = 7
	StatusOnTheWay       StatusCode = 8
	StatusReady          StatusCode = 9
	StatusIssued         StatusCode = 10
	StatusPaid           StatusCode = 11
	StatusCancelled      StatusCode = 12
	StatusDelivered      StatusCode = 13
)

// IsReadyToPay reports whether an online payment may be captured at this
// point of the lifecycle.
func (s StatusCode) IsReadyToPay() bool {
	return s >= StatusCooking && s <= StatusIssued
}

// IsTerminal reports whether the order has left the active lifecycle.
func (s StatusCode) IsTerminal() bool {
	return s == StatusCancelled || s == StatusDelivered
}

var statusToPlatform = map[StatusCode]gateway.OrderStatus{
	StatusNew:            gateway.OrderStatusCreated,
	StatusAccepted:       gateway.OrderStatusChecked,
	StatusCooking:        gateway.OrderStatusInProgress,
	StatusCooked:         gateway.OrderStatusCooked,
	StatusPacking:        gateway.OrderStatusCooked,
	StatusPacked:         gateway.OrderStatusCooked,
	StatusWaitingCourier: gateway.OrderStatusCooked,
	StatusOnTheWay:       gateway.OrderStatusOnTheWay,
	StatusReady:          gateway.OrderStatusCooked,
	StatusIssued:         gateway.OrderStatusDone,
	StatusPaid:           gateway.OrderStatusDone,
	StatusCancelled:      gateway.OrderStatusCanceled,
	StatusDelivered:      gateway.OrderStatusDone,
}

// ToPlatform maps the rkeeper lifecycle state onto the platform's order
// status vocabulary. Unknown codes map to created.
func (s StatusCode) ToPlatform() gateway.OrderStatus {
	if status, ok := statusToPlatform[s]; ok {
		return status
	}
	return gateway.OrderStatusCreated
}

// OrderStatusInfo is one row of the order-status poll response.
type OrderStatusInfo struct {
	OrderID         string        `json:"orderId"`
	OrderExternalID string        `json:"orderExternalId"`
	StatusCode      StatusCode    `json:"orderStatusId"`
	PaymentTypeID   PaymentType   `json:"paymentTypeId"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	FullAmount      float64       `json:"fullAmount"`
	Amount          float64       `json:"amount"`
}

func (o *OrderStatusInfo) ToStatusUpdate(globalID string) gateway.OrderStatusUpdate {
	return gateway.OrderStatusUpdate{
		ID:        globalID,
		PosNumber: o.OrderID,
		Status:    o.StatusCode.ToPlatform(),
	}
}
