package Controllers_test

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/controllers"
	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/router"
	"github.com/starterapp/rkeeper-adapter/services"
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

// nopGateway satisfies the gateway surface with empty answers.
type nopGateway struct {
	webhooks         int
	settingsWebhooks int
}

func (g *nopGateway) CreateShops(context.Context, []gateway.CreateShop) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateShops(context.Context, []gateway.UpdateShop) error { return nil }
func (g *nopGateway) CreateCategories(context.Context, []gateway.CreateCategory) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateCategories(context.Context, []gateway.UpdateCategory) error { return nil }
func (g *nopGateway) CreateMeals(context.Context, []gateway.CreateMeal) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateMeals(context.Context, []gateway.UpdateMeal) error { return nil }
func (g *nopGateway) CreateMealOffers(context.Context, []gateway.CreateMealOffer, int) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateMealOffers(context.Context, []gateway.UpdateMealOffer, int) error {
	return nil
}
func (g *nopGateway) CreateModifiers(context.Context, []gateway.CreateModifier) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateModifiers(context.Context, []gateway.UpdateModifier) error { return nil }
func (g *nopGateway) CreateModifierGroups(context.Context, []gateway.CreateModifierGroup) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateModifierGroups(context.Context, []gateway.UpdateModifierGroup) error {
	return nil
}
func (g *nopGateway) CreateModifierOffers(context.Context, []gateway.CreateModifierOffer) (gateway.ObjectOutList, error) {
	return gateway.ObjectOutList{}, nil
}
func (g *nopGateway) UpdateModifierOffers(context.Context, []gateway.UpdateModifierOffer) error {
	return nil
}
func (g *nopGateway) RegisterWebhook(context.Context) error {
	g.webhooks++
	return nil
}
func (g *nopGateway) RegisterSettingsWebhook(context.Context) error {
	g.settingsWebhooks++
	return nil
}
func (g *nopGateway) UpdateOrderStatuses(context.Context, []gateway.OrderStatusUpdate) error {
	return nil
}

// stubKeeper answers with an empty catalog and accepts every order.
type stubKeeper struct {
	createdOrders int
}

func (k *stubKeeper) GetShops(context.Context) ([]keeper.Shop, error) { return nil, nil }
func (k *stubKeeper) GetMenu(context.Context) (*keeper.Menu, error)  { return &keeper.Menu{}, nil }
func (k *stubKeeper) GetLimitList(context.Context) []keeper.LimitedListItem {
	return nil
}
func (k *stubKeeper) GetOrderStatuses(context.Context, []string) ([]keeper.OrderStatusInfo, error) {
	return nil, nil
}
func (k *stubKeeper) PreliminaryCalculation(context.Context, *keeper.PreliminaryOrder) (*keeper.LoyaltyCalculation, error) {
	return &keeper.LoyaltyCalculation{}, nil
}
func (k *stubKeeper) CreateOrder(context.Context, *keeper.Order) (string, error) {
	k.createdOrders++
	return fmt.Sprintf("K-%d", k.createdOrders), nil
}
func (k *stubKeeper) PayOrder(context.Context, string, string) error { return nil }

type memoryCache struct {
	entries map[string]bool
}

func (c *memoryCache) Seen(_ context.Context, clientID uint, globalID string) (bool, error) {
	return c.entries[fmt.Sprintf("%d:%s", clientID, globalID)], nil
}

func (c *memoryCache) Remember(_ context.Context, clientID uint, globalID string) error {
	c.entries[fmt.Sprintf("%d:%s", clientID, globalID)] = true
	return nil
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	gw     *nopGateway
	pos    *stubKeeper
}

func setupEnv() *testEnv {
	gin.SetMode(gin.TestMode)
	db := setupTestDB()

	gw := &nopGateway{}
	pos := &stubKeeper{}
	newGW := func(string) services.PosGateway { return gw }
	newKeeper := func(string, string) services.KeeperAPI { return pos }

	clients := repositories.NewClientRepository(db)
	menu := repositories.NewMenuRepository(db)
	orders := repositories.NewOrderRepository(db)
	discounts := repositories.NewDiscountRepository(db)

	syncSvc := services.NewSyncService(clients, menu, orders, newGW, newKeeper, "RUB")
	orderSvc := services.NewOrderService(clients, menu, orders, discounts, &memoryCache{entries: map[string]bool{}}, newKeeper)
	transfer := services.NewMenuTransferService(clients, menu)

	r := router.SetupRouter(
		controllers.NewOrderController(orderSvc),
		controllers.NewProjectController(clients, transfer, syncSvc, newGW),
		controllers.NewSyncController(syncSvc, clients),
		clients,
	)
	return &testEnv{db: db, router: r, gw: gw, pos: pos}
}
