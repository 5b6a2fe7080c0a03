package services

import (
	"context"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/utils"
)

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.Project{}, &models.Client{}, &models.Shop{}, &models.Category{},
		&models.Meal{}, &models.MealOffer{}, &models.Modifier{}, &models.ModifierGroup{},
		&models.ModifierOffer{}, &models.Order{}, &models.Discount{},
	)
	if err != nil {
		panic(err)
	}
	utils.InitLogger()
	return db
}

// fakeGateway records every call and hands out sequential platform ids.
type fakeGateway struct {
	nextID int

	createdShops      []gateway.CreateShop
	updatedShops      []gateway.UpdateShop
	createdCategories []gateway.CreateCategory
	updatedCategories []gateway.UpdateCategory
	createdMeals      []gateway.CreateMeal
	updatedMeals      []gateway.UpdateMeal
	createdMealOffers []gateway.CreateMealOffer
	updatedMealOffers []gateway.UpdateMealOffer
	createdModifiers  []gateway.CreateModifier
	updatedModifiers  []gateway.UpdateModifier
	createdGroups     []gateway.CreateModifierGroup
	updatedGroups     []gateway.UpdateModifierGroup
	createdModOffers  []gateway.CreateModifierOffer
	updatedModOffers  []gateway.UpdateModifierOffer
	statusUpdates     []gateway.OrderStatusUpdate
	webhooks          int
	settingsWebhooks  int
}

func (f *fakeGateway) assign(posIDs []string) gateway.ObjectOutList {
	out := gateway.ObjectOutList{Count: len(posIDs)}
	for _, posID := range posIDs {
		f.nextID++
		out.Data = append(out.Data, gateway.ObjectOut{ID: f.nextID, PosID: posID})
	}
	return out
}

func (f *fakeGateway) CreateShops(_ context.Context, shops []gateway.CreateShop) (gateway.ObjectOutList, error) {
	f.createdShops = append(f.createdShops, shops...)
	ids := make([]string, len(shops))
	for i, s := range shops {
		ids[i] = s.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateShops(_ context.Context, shops []gateway.UpdateShop) error {
	f.updatedShops = append(f.updatedShops, shops...)
	return nil
}

func (f *fakeGateway) CreateCategories(_ context.Context, categories []gateway.CreateCategory) (gateway.ObjectOutList, error) {
	f.createdCategories = append(f.createdCategories, categories...)
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateCategories(_ context.Context, categories []gateway.UpdateCategory) error {
	f.updatedCategories = append(f.updatedCategories, categories...)
	return nil
}

func (f *fakeGateway) CreateMeals(_ context.Context, meals []gateway.CreateMeal) (gateway.ObjectOutList, error) {
	f.createdMeals = append(f.createdMeals, meals...)
	ids := make([]string, len(meals))
	for i, m := range meals {
		ids[i] = m.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateMeals(_ context.Context, meals []gateway.UpdateMeal) error {
	f.updatedMeals = append(f.updatedMeals, meals...)
	return nil
}

func (f *fakeGateway) CreateMealOffers(_ context.Context, offers []gateway.CreateMealOffer, _ int) (gateway.ObjectOutList, error) {
	f.createdMealOffers = append(f.createdMealOffers, offers...)
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateMealOffers(_ context.Context, offers []gateway.UpdateMealOffer, _ int) error {
	f.updatedMealOffers = append(f.updatedMealOffers, offers...)
	return nil
}

func (f *fakeGateway) CreateModifiers(_ context.Context, modifiers []gateway.CreateModifier) (gateway.ObjectOutList, error) {
	f.createdModifiers = append(f.createdModifiers, modifiers...)
	ids := make([]string, len(modifiers))
	for i, m := range modifiers {
		ids[i] = m.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateModifiers(_ context.Context, modifiers []gateway.UpdateModifier) error {
	f.updatedModifiers = append(f.updatedModifiers, modifiers...)
	return nil
}

func (f *fakeGateway) CreateModifierGroups(_ context.Context, groups []gateway.CreateModifierGroup) (gateway.ObjectOutList, error) {
	f.createdGroups = append(f.createdGroups, groups...)
	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateModifierGroups(_ context.Context, groups []gateway.UpdateModifierGroup) error {
	f.updatedGroups = append(f.updatedGroups, groups...)
	return nil
}

func (f *fakeGateway) CreateModifierOffers(_ context.Context, offers []gateway.CreateModifierOffer) (gateway.ObjectOutList, error) {
	f.createdModOffers = append(f.createdModOffers, offers...)
	ids := make([]string, len(offers))
	for i, o := range offers {
		ids[i] = o.PosID
	}
	return f.assign(ids), nil
}

func (f *fakeGateway) UpdateModifierOffers(_ context.Context, offers []gateway.UpdateModifierOffer) error {
	f.updatedModOffers = append(f.updatedModOffers, offers...)
	return nil
}

func (f *fakeGateway) RegisterWebhook(context.Context) error {
	f.webhooks++
	return nil
}

func (f *fakeGateway) RegisterSettingsWebhook(context.Context) error {
	f.settingsWebhooks++
	return nil
}

func (f *fakeGateway) UpdateOrderStatuses(_ context.Context, updates []gateway.OrderStatusUpdate) error {
	f.statusUpdates = append(f.statusUpdates, updates...)
	return nil
}

type payCall struct {
	posOrderID string
	currency   string
}

// fakeKeeper serves canned POS data and records submitted orders.
type fakeKeeper struct {
	shops    []keeper.Shop
	menu     *keeper.Menu
	limits   []keeper.LimitedListItem
	statuses []keeper.OrderStatusInfo
	calc     *keeper.LoyaltyCalculation

	createdOrders []keeper.Order
	payCalls      []payCall
	statusPolls   int
	menuErr       error
}

func (f *fakeKeeper) GetShops(context.Context) ([]keeper.Shop, error) {
	return f.shops, nil
}

func (f *fakeKeeper) GetMenu(context.Context) (*keeper.Menu, error) {
	if f.menuErr != nil {
		return nil, f.menuErr
	}
	menu := *f.menu
	menu.Normalize()
	return &menu, nil
}

func (f *fakeKeeper) GetLimitList(context.Context) []keeper.LimitedListItem {
	return f.limits
}

func (f *fakeKeeper) GetOrderStatuses(_ context.Context, posOrderIDs []string) ([]keeper.OrderStatusInfo, error) {
	f.statusPolls++
	return f.statuses, nil
}

func (f *fakeKeeper) PreliminaryCalculation(context.Context, *keeper.PreliminaryOrder) (*keeper.LoyaltyCalculation, error) {
	if f.calc == nil {
		return &keeper.LoyaltyCalculation{}, nil
	}
	return f.calc, nil
}

func (f *fakeKeeper) CreateOrder(_ context.Context, order *keeper.Order) (string, error) {
	f.createdOrders = append(f.createdOrders, *order)
	return fmt.Sprintf("K-%d", len(f.createdOrders)), nil
}

func (f *fakeKeeper) PayOrder(_ context.Context, posOrderID string, currencyCode string) error {
	f.payCalls = append(f.payCalls, payCall{posOrderID: posOrderID, currency: currencyCode})
	return nil
}

// fakeCache is an in-memory OrderCache.
type fakeCache struct {
	entries map[string]bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]bool{}}
}

func (f *fakeCache) Seen(_ context.Context, clientID uint, globalID string) (bool, error) {
	return f.entries[fmt.Sprintf("%d:%s", clientID, globalID)], nil
}

func (f *fakeCache) Remember(_ context.Context, clientID uint, globalID string) error {
	f.entries[fmt.Sprintf("%d:%s", clientID, globalID)] = true
	return nil
}
