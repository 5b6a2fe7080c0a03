package keeper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/models"
)

func TestStatusToPlatform(t *testing.T) {
	assert.Equal(t, gateway.OrderStatusCreated, StatusNew.ToPlatform())
	assert.Equal(t, gateway.OrderStatusInProgress, StatusCooking.ToPlatform())
	assert.Equal(t, gateway.OrderStatusOnTheWay, StatusOnTheWay.ToPlatform())
	assert.Equal(t, gateway.OrderStatusCanceled, StatusCancelled.ToPlatform())
	assert.Equal(t, gateway.OrderStatusDone, StatusDelivered.ToPlatform())
	assert.Equal(t, gateway.OrderStatusCreated, StatusCode(99).ToPlatform())
}

func TestIsReadyToPayBoundaries(t *testing.T) {
	assert.False(t, StatusAccepted.IsReadyToPay())
	assert.True(t, StatusCooking.IsReadyToPay())
	assert.True(t, StatusIssued.IsReadyToPay())
	assert.False(t, StatusPaid.IsReadyToPay())
	assert.False(t, StatusCancelled.IsReadyToPay())
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusDelivered.IsTerminal())
	assert.False(t, StatusIssued.IsTerminal())
}

func TestMapDeliveryType(t *testing.T) {
	dt, err := MapDeliveryType(gateway.DeliveryPickup)
	assert.NoError(t, err)
	assert.Equal(t, DeliveryTakeaway, dt)

	_, err = MapDeliveryType(gateway.DeliveryMethod("teleport"))
	assert.ErrorIs(t, err, ErrDeliveryType)
}

func TestMapPaymentType(t *testing.T) {
	for _, method := range []gateway.PaymentMethod{
		gateway.PaymentCard, gateway.PaymentApple, gateway.PaymentGoogle, gateway.PaymentBonus,
	} {
		pt, err := MapPaymentType(method)
		assert.NoError(t, err)
		assert.Equal(t, PaymentTypeOnline, pt)
	}

	pt, err := MapPaymentType(gateway.PaymentCardToCourier)
	assert.NoError(t, err)
	assert.Equal(t, PaymentTypeCard, pt)

	_, err = MapPaymentType(gateway.PaymentMethod("barter"))
	assert.ErrorIs(t, err, ErrPaymentType)
}

func TestMenuNormalizeDeduplicates(t *testing.T) {
	menu := Menu{
		Meals: []Meal{
			{PosID: "p1", Name: "old"},
			{PosID: "p2", Name: "other"},
			{PosID: "p1", Name: "new"},
		},
	}
	menu.Normalize()

	assert.Len(t, menu.Meals, 2)
	assert.Equal(t, "new", menu.Meals[0].Name, "the last occurrence wins")
	assert.Equal(t, "p2", menu.Meals[1].PosID)
}

func TestMealOfferQuantity(t *testing.T) {
	limited := 3.0
	meal := Meal{PosID: "p1", Price: 100, StopListShops: []string{"r2"}, Quantity: &limited}

	offer := meal.ToOfferCreate(7, "r1")
	assert.Equal(t, 3.0, offer.Quantity)

	// The stop list beats the limited list.
	offer = meal.ToOfferCreate(7, "r2")
	assert.Equal(t, 0.0, offer.Quantity)

	meal.Quantity = nil
	offer = meal.ToOfferCreate(7, "r1")
	assert.Equal(t, 1.0, offer.Quantity)
}

func TestModifierPriceValue(t *testing.T) {
	assert.Equal(t, 10.5, (&Modifier{Price: "10.5"}).PriceValue())
	assert.Equal(t, 0.0, (&Modifier{Price: "free"}).PriceValue())
}

func TestDomainGroupHashedID(t *testing.T) {
	group := DomainModifierGroup{
		PosID:     "g1",
		MinAmount: models.Amount(1),
		MaxAmount: models.Amount(2),
		Modifiers: []DomainModifier{
			{PosID: "m2", ExternalID: "em2"},
			{PosID: "m1", ExternalID: "em1"},
		},
	}
	assert.Equal(t,
		models.HashedID([]string{"em1", "em2"}, models.Amount(1), models.Amount(2)),
		group.HashedID(),
	)
}

func TestBuildAddress(t *testing.T) {
	addr := BuildAddress(&gateway.InboundAddress{Street: "Main", House: "1", Flat: "2", Doorphone: "33"})
	assert.Equal(t, "Main, 1, кв. 2", addr.FullAddress)
	assert.Equal(t, "33", addr.Doorphone)

	assert.Nil(t, BuildAddress(nil))
}
