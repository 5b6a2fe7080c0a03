package cmd

import (
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/config"
	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/services"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// app holds everything a command needs: the configuration, the database and
// the service graph built on top of it.
type app struct {
	cfg *config.Config
	db  *gorm.DB

	clients   *repositories.ClientRepository
	menu      *repositories.MenuRepository
	orders    *repositories.OrderRepository
	discounts *repositories.DiscountRepository

	sync     *services.SyncService
	orderSvc *services.OrderService
	transfer *services.MenuTransferService

	newGW services.GatewayFactory
}

func newApp() (*app, error) {
	cfg := config.Load()
	utils.InitLogger()
	utils.InitJWT(cfg.JWTSecret)

	db, err := utils.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	utils.InitDB(db)
	if err := migrate(db); err != nil {
		return nil, err
	}

	clients := repositories.NewClientRepository(db)
	menu := repositories.NewMenuRepository(db)
	orders := repositories.NewOrderRepository(db)
	discounts := repositories.NewDiscountRepository(db)

	newGW := func(apiKey string) services.PosGateway {
		return gateway.NewClient(cfg.GatewayURL, cfg.ExternalHost, apiKey, cfg.DefaultTimeout)
	}
	newKeeper := func(clientID, clientSecret string) services.KeeperAPI {
		return keeper.NewClient(cfg.KeeperBaseURL, cfg.KeeperAuthURL, clientID, clientSecret, cfg.DefaultTimeout)
	}
	cache := services.NewStorage(cfg.RedisAddr)

	return &app{
		cfg:       cfg,
		db:        db,
		clients:   clients,
		menu:      menu,
		orders:    orders,
		discounts: discounts,
		sync:      services.NewSyncService(clients, menu, orders, newGW, newKeeper, cfg.RubleCurrencyCode),
		orderSvc:  services.NewOrderService(clients, menu, orders, discounts, cache, newKeeper),
		transfer:  services.NewMenuTransferService(clients, menu),
		newGW:     newGW,
	}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Client{},
		&models.Shop{},
		&models.Category{},
		&models.Meal{},
		&models.MealOffer{},
		&models.Modifier{},
		&models.ModifierGroup{},
		&models.ModifierOffer{},
		&models.Order{},
		&models.Discount{},
	)
}
