package services

import (
	"context"
	"strconv"
	"time"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// deliveryTimeLayout is how the platform formats preorder timestamps.
const deliveryTimeLayout = "2006-01-02 15:04:05"

// paidCommentPrefix marks orders already paid online so POS staff never ask
// the guest for money.
const paidCommentPrefix = "ОПЛАЧЕН "

// syntheticDiscountName labels the remainder discount line that makes the
// POS total match the platform total.
const syntheticDiscountName = "Стартер"

// OrderService translates inbound platform orders into POS orders, guarded
// against duplicate webhook deliveries.
type OrderService struct {
	clients   *repositories.ClientRepository
	menu      *repositories.MenuRepository
	orders    *repositories.OrderRepository
	discounts *repositories.DiscountRepository
	cache     OrderCache
	newKeeper KeeperFactory
}

func NewOrderService(
	clients *repositories.ClientRepository,
	menu *repositories.MenuRepository,
	orders *repositories.OrderRepository,
	discounts *repositories.DiscountRepository,
	cache OrderCache,
	newKeeper KeeperFactory,
) *OrderService {
	return &OrderService{
		clients:   clients,
		menu:      menu,
		orders:    orders,
		discounts: discounts,
		cache:     cache,
		newKeeper: newKeeper,
	}
}

// Ingest accepts one inbound order exactly once, keyed by its global id.
// The cache absorbs rapid duplicate deliveries; the order journal catches
// everything else. Duplicates answer with the global id and create
// nothing. The returned flag reports whether a POS order was created by
// this call.
func (s *OrderService) Ingest(ctx context.Context, client *models.Client, in *gateway.InboundOrder) (string, bool, error) {
	seen, err := s.cache.Seen(ctx, client.ID, in.GlobalID)
	if err != nil {
		utils.ErrorLogger.WithError(err).Warn("Order cache unavailable, relying on the journal")
	} else if seen {
		return in.GlobalID, false, nil
	} else if err := s.cache.Remember(ctx, client.ID, in.GlobalID); err != nil {
		utils.ErrorLogger.WithError(err).Warn("Order cache write failed")
	}

	if _, err := s.orders.ByGlobalID(client.ID, in.GlobalID); err == nil {
		return in.GlobalID, false, nil
	} else if !models.IsNotFound(err) {
		return "", false, err
	}

	posID, bonuses, err := s.createPosOrder(ctx, client, in)
	if err != nil {
		return "", false, err
	}

	order := models.Order{
		PosID:         posID,
		GlobalID:      in.GlobalID,
		Bonuses:       bonuses,
		IsPaid:        paidAtCreation(in),
		DiscountPrice: in.DiscountPrice,
		ClientID:      client.ID,
	}
	if err := s.orders.Create(&order); err != nil {
		return "", false, err
	}
	return posID, true, nil
}

// createPosOrder translates and submits the order, returning the POS order
// id and the bonus amount actually applied.
func (s *OrderService) createPosOrder(ctx context.Context, client *models.Client, in *gateway.InboundOrder) (string, float64, error) {
	shop, err := s.clients.ShopByStarterID(client.ID, in.ShopID)
	if err != nil {
		return "", 0, err
	}

	deliveryType, err := keeper.MapDeliveryType(in.DeliveryMethod)
	if err != nil {
		return "", 0, err
	}
	paymentType, err := keeper.MapPaymentType(in.PaymentMethod)
	if err != nil {
		return "", 0, err
	}

	items, err := s.buildItems(client, in)
	if err != nil {
		return "", 0, err
	}

	discounts, err := s.buildDiscounts(client, in)
	if err != nil {
		return "", 0, err
	}

	order := keeper.Order{
		RestaurantID:    shop.PosID,
		ExpeditionType:  deliveryType,
		PaymentTypeID:   paymentType,
		PaymentStatus:   keeper.PaymentNotPaid,
		OrderItems:      items,
		Comment:         s.buildComment(in),
		Persons:         in.Persons,
		Discounts:       discounts,
		OrderExternalID: in.StarterID,
	}
	if in.Username != "" || in.UserPhone != "" {
		order.Guest = &keeper.Guest{Name: in.Username, Phone: in.UserPhone}
	}
	if in.DeliveryMethod == gateway.DeliveryCourier {
		order.Address = keeper.BuildAddress(in.Address)
	}
	if err := s.applySchedule(&order, in); err != nil {
		return "", 0, err
	}

	pos := s.newKeeper(client.ClientID, client.ClientSecret)
	bonuses, err := s.applyLoyalty(ctx, pos, client, in, &order, shop.PosID)
	if err != nil {
		return "", 0, err
	}

	posID, err := pos.CreateOrder(ctx, &order)
	if err != nil {
		return "", 0, err
	}
	return posID, bonuses, nil
}

// buildItems maps order lines onto POS dishes. Tenants with splitting
// enabled get every quantity expanded into single-unit lines, which is what
// lets per-line loyalty accrual work on their POS configuration.
func (s *OrderService) buildItems(client *models.Client, in *gateway.InboundOrder) ([]keeper.OrderItem, error) {
	var items []keeper.OrderItem
	for i := range in.OrderItems {
		line := &in.OrderItems[i]
		meal, err := s.menu.MealByStarterID(client.ID, line.MealID)
		if err != nil {
			return nil, err
		}

		item := keeper.OrderItem{
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		if client.IsUseMealExternalID && meal.ExternalID != "" {
			item.ExternalID = &meal.ExternalID
		} else {
			item.ID = &meal.PosID
		}

		for _, mod := range line.Modifiers {
			modifier, err := s.menu.ModifierByStarterID(s.projectScope(client), mod.ModifierID)
			if err != nil {
				return nil, err
			}
			itemMod := keeper.OrderItemModifier{Quantity: mod.Quantity}
			if client.IsUseModifierExternalID && modifier.ExternalID != "" {
				itemMod.ExternalID = &modifier.ExternalID
			} else {
				itemMod.ID = &modifier.PosID
			}
			item.Modifiers = append(item.Modifiers, itemMod)
		}

		if client.IsSplitOrderItemsForKeeper && item.Quantity > 1 {
			for n := 0; n < line.Quantity; n++ {
				single := item
				single.Quantity = 1
				items = append(items, single)
			}
			continue
		}
		items = append(items, item)
	}

	if in.DeliveryProduct != nil {
		meal, err := s.menu.MealByStarterID(client.ID, in.DeliveryProduct.ID)
		if err != nil {
			return nil, err
		}
		delivery := keeper.OrderItem{Quantity: 1, Price: in.DeliveryProduct.Price}
		if client.IsUseMealExternalID && meal.ExternalID != "" {
			delivery.ExternalID = &meal.ExternalID
		} else {
			delivery.ID = &meal.PosID
		}
		items = append(items, delivery)
	}
	return items, nil
}

func (s *OrderService) projectScope(client *models.Client) []uint {
	if client.ProjectID == nil {
		return []uint{client.ID}
	}
	siblings, err := s.clients.ProjectClients(*client.ProjectID)
	if err != nil || len(siblings) == 0 {
		return []uint{client.ID}
	}
	ids := make([]uint, 0, len(siblings))
	for _, sibling := range siblings {
		ids = append(ids, sibling.ID)
	}
	return ids
}

// buildDiscounts mirrors the platform's money math on the POS side. The
// order discount, the per-line discounts and bonuses spent outside the
// loyalty program all reach the POS as explicit discount lines or the
// receipts diverge. Tenants without mappings fold the whole remainder into
// their default discount; tenants with mappings pass each inbound discount
// through and cover bonuses plus line discounts with the default.
func (s *OrderService) buildDiscounts(client *models.Client, in *gateway.InboundOrder) (*keeper.OrderDiscounts, error) {
	mealDiscounts := 0.0
	for _, line := range in.OrderItems {
		mealDiscounts += line.DiscountPrice
	}
	bonuses := in.Bonuses
	if client.IsUseLoyalty {
		bonuses = 0
	}
	if in.DiscountPrice == 0 && mealDiscounts == 0 && bonuses == 0 {
		return nil, nil
	}

	finishDiscount := in.DiscountPrice - bonuses - mealDiscounts

	mappings, err := s.discounts.ByClient(client.ID)
	if err != nil {
		return nil, err
	}
	posByStarter := make(map[string]int, len(mappings))
	for _, mapping := range mappings {
		posByStarter[mapping.StarterID] = mapping.PosID
	}

	var list []keeper.DiscountInList
	if len(mappings) == 0 {
		if finishDiscount != 0 {
			if client.DiscountID == nil {
				return nil, models.NewNotFound(models.EntityDiscount, "default")
			}
			list = append(list, keeper.DiscountInList{
				KeeperID:   *client.DiscountID,
				Name:       syntheticDiscountName,
				Amount:     s.syntheticAmount(client, finishDiscount),
				IsManual:   false,
				IsVariable: true,
			})
		}
	} else {
		isManual := !client.IsUseDiscountsAsVariable
		for _, d := range in.Discounts {
			posID, ok := posByStarter[d.DiscountID]
			if !ok {
				utils.ErrorLogger.WithField("discount_id", d.DiscountID).Error("Discount not found")
				return nil, models.NewNotFound(models.EntityDiscount, d.DiscountID)
			}
			list = append(list, keeper.DiscountInList{
				KeeperID:   posID,
				Name:       d.Title,
				Amount:     s.discountAmount(client, d.SumWithCent),
				IsManual:   isManual,
				IsVariable: !isManual,
			})
		}
		if extra := in.Bonuses + mealDiscounts; extra > 0 {
			if client.DiscountID == nil {
				return nil, models.NewNotFound(models.EntityDiscount, "default")
			}
			list = append(list, keeper.DiscountInList{
				KeeperID:   *client.DiscountID,
				Name:       syntheticDiscountName,
				Amount:     s.discountAmount(client, extra),
				IsManual:   false,
				IsVariable: true,
			})
		}
	}

	return &keeper.OrderDiscounts{
		UseKeeperDiscounts: true,
		Total:              in.TotalPrice - in.Bonuses,
		Discount:           finishDiscount,
		DiscountList:       list,
	}, nil
}

// discountAmount applies the per-tenant sign convention: some rkeeper
// installations expect discount amounts negated.
func (s *OrderService) discountAmount(client *models.Client, amount float64) float64 {
	if client.IsUseMinusForDiscountAmount {
		return -amount
	}
	return amount
}

// syntheticAmount is the sign convention of the tenant-default remainder
// line, which is the opposite of the mapped one.
func (s *OrderService) syntheticAmount(client *models.Client, amount float64) float64 {
	return -s.discountAmount(client, amount)
}

// applySchedule fills the soonest/expected-at pair. Preorder timestamps
// arrive in the shop's local timezone and the POS expects UTC.
func (s *OrderService) applySchedule(order *keeper.Order, in *gateway.InboundOrder) error {
	if !in.IsPreorder || in.DeliveryDatetime == "" {
		order.Soonest = true
		return nil
	}

	loc := time.UTC
	if in.Timezone != "" {
		parsed, err := time.LoadLocation(in.Timezone)
		if err != nil {
			return err
		}
		loc = parsed
	}
	at, err := time.ParseInLocation(deliveryTimeLayout, in.DeliveryDatetime, loc)
	if err != nil {
		return err
	}
	expected := at.UTC().Format(time.RFC3339)
	order.Soonest = false
	order.ExpectedAt = &expected
	return nil
}

// applyLoyalty runs the preliminary calculation round trip and caps the
// bonus spend at what the POS loyalty engine allows. Returns the applied
// bonus amount.
func (s *OrderService) applyLoyalty(ctx context.Context, pos KeeperAPI, client *models.Client, in *gateway.InboundOrder, order *keeper.Order, shopPosID string) (float64, error) {
	if !client.IsUseLoyalty || in.Bonuses <= 0 {
		return 0, nil
	}

	calc, err := pos.PreliminaryCalculation(ctx, &keeper.PreliminaryOrder{
		RestaurantID:   shopPosID,
		ExpeditionType: order.ExpeditionType,
		OrderItems:     order.OrderItems,
		Phone:          in.UserPhone,
	})
	if err != nil {
		return 0, err
	}

	amount := in.Bonuses
	if calc.MaxBonusPayment < amount {
		amount = calc.MaxBonusPayment
	}
	if amount <= 0 {
		return 0, nil
	}

	order.UseLoyalty = true
	order.LoyaltyAmount = &keeper.LoyaltyAmount{
		Amount:      amount,
		MaxAmount:   calc.MaxBonusPayment,
		ProgramID:   calc.ProgramID,
		ProgramName: calc.ProgramName,
	}
	return amount, nil
}

// paidAtCreation reports whether the platform had already collected the
// money when the order arrived: a payed status on anything but a pure cash
// order.
func paidAtCreation(in *gateway.InboundOrder) bool {
	return in.PaymentStatus == gateway.PaymentStatusPayed && in.PaymentMethod != gateway.PaymentCash
}

// buildComment prefixes the guest comment for orders already paid.
// Courier-collected payments count as paid but keep the plain comment.
func (s *OrderService) buildComment(in *gateway.InboundOrder) string {
	comment := in.Comment
	if paidAtCreation(in) &&
		in.PaymentMethod != gateway.PaymentCardToCourier &&
		in.PaymentMethod != gateway.PaymentCashToCourier {
		comment = paidCommentPrefix + comment
	}
	if in.Persons > 0 {
		comment += " Приборов: " + strconv.Itoa(in.Persons) + "."
	}
	return comment
}
