package services

import (
	"context"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
)

// PosGateway is the platform-side surface the services need. The concrete
// implementation is gateway.Client; tests substitute stubs.
type PosGateway interface {
	CreateShops(ctx context.Context, shops []gateway.CreateShop) (gateway.ObjectOutList, error)
	UpdateShops(ctx context.Context, shops []gateway.UpdateShop) error
	CreateCategories(ctx context.Context, categories []gateway.CreateCategory) (gateway.ObjectOutList, error)
	UpdateCategories(ctx context.Context, categories []gateway.UpdateCategory) error
	CreateMeals(ctx context.Context, meals []gateway.CreateMeal) (gateway.ObjectOutList, error)
	UpdateMeals(ctx context.Context, meals []gateway.UpdateMeal) error
	CreateMealOffers(ctx context.Context, offers []gateway.CreateMealOffer, shopStarterID int) (gateway.ObjectOutList, error)
	UpdateMealOffers(ctx context.Context, offers []gateway.UpdateMealOffer, shopStarterID int) error
	CreateModifiers(ctx context.Context, modifiers []gateway.CreateModifier) (gateway.ObjectOutList, error)
	UpdateModifiers(ctx context.Context, modifiers []gateway.UpdateModifier) error
	CreateModifierGroups(ctx context.Context, groups []gateway.CreateModifierGroup) (gateway.ObjectOutList, error)
	UpdateModifierGroups(ctx context.Context, groups []gateway.UpdateModifierGroup) error
	CreateModifierOffers(ctx context.Context, offers []gateway.CreateModifierOffer) (gateway.ObjectOutList, error)
	UpdateModifierOffers(ctx context.Context, offers []gateway.UpdateModifierOffer) error
	RegisterWebhook(ctx context.Context) error
	RegisterSettingsWebhook(ctx context.Context) error
	UpdateOrderStatuses(ctx context.Context, updates []gateway.OrderStatusUpdate) error
}

// KeeperAPI is the POS-side surface the services need. The concrete
// implementation is keeper.Client.
type KeeperAPI interface {
	GetShops(ctx context.Context) ([]keeper.Shop, error)
	GetMenu(ctx context.Context) (*keeper.Menu, error)
	GetLimitList(ctx context.Context) []keeper.LimitedListItem
	GetOrderStatuses(ctx context.Context, posOrderIDs []string) ([]keeper.OrderStatusInfo, error)
	PreliminaryCalculation(ctx context.Context, draft *keeper.PreliminaryOrder) (*keeper.LoyaltyCalculation, error)
	CreateOrder(ctx context.Context, order *keeper.Order) (string, error)
	PayOrder(ctx context.Context, posOrderID string, currencyCode string) error
}

// GatewayFactory builds a platform gateway client for one tenant's api key.
type GatewayFactory func(apiKey string) PosGateway

// KeeperFactory builds a POS client for one tenant's credentials.
type KeeperFactory func(clientID, clientSecret string) KeeperAPI

// OrderCache is the fast half of the order idempotency guard.
type OrderCache interface {
	Seen(ctx context.Context, clientID uint, globalID string) (bool, error)
	Remember(ctx context.Context, clientID uint, globalID string) error
}
