package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
)

type syncFixture struct {
	db     *gorm.DB
	gw     *fakeGateway
	pos    *fakeKeeper
	svc    *SyncService
	client *models.Client
}

func newSyncFixture() *syncFixture {
	db := setupTestDB()

	project := models.Project{Title: "coffee-chain"}
	db.Create(&project)
	client := models.Client{
		ClientID:     "client-1",
		ClientSecret: "secret",
		APIKey:       "api-key-1",
		IsActive:     true,
		CurrencyCode: "RUB",
		ProjectID:    &project.ID,
	}
	db.Create(&client)

	gw := &fakeGateway{}
	pos := &fakeKeeper{}
	svc := NewSyncService(
		repositories.NewClientRepository(db),
		repositories.NewMenuRepository(db),
		repositories.NewOrderRepository(db),
		func(string) PosGateway { return gw },
		func(string, string) KeeperAPI { return pos },
		"RUB-DEFAULT",
	)
	return &syncFixture{db: db, gw: gw, pos: pos, svc: svc, client: &client}
}

func sampleMenu() *keeper.Menu {
	return &keeper.Menu{
		Categories: []keeper.Category{{PosID: "c1", Name: "Drinks"}},
		Modifiers: []keeper.Modifier{
			{PosID: "m1", ExternalID: "em1", Name: "Milk", Price: "10"},
			{PosID: "m2", ExternalID: "em2", Name: "Syrup", Price: "5"},
		},
		ModifierGroups: []keeper.ModifierGroup{
			{PosID: "g1", Name: "Additions", Modifiers: []string{"m1", "m2"}},
		},
		ModifierSchemes: []keeper.ModifierScheme{
			{PosID: "s1", ModifierGroups: []keeper.CountOfUses{{ID: "g1", MinAmount: 1, MaxAmount: 2}}},
		},
		Meals: []keeper.Meal{
			{PosID: "p1", ExternalID: "ep1", Name: "Tea", Price: 100, CategoryID: "c1", SchemeID: "s1"},
			{PosID: "p2", ExternalID: "ep2", Name: "Cake", Price: 50, CategoryID: "c1"},
		},
	}
}

func TestSyncShopsCreatesThenUpdates(t *testing.T) {
	f := newSyncFixture()
	f.pos.shops = []keeper.Shop{
		{PosID: "r1", Name: "Central"},
		{PosID: "r2", Name: "Station"},
	}

	err := f.svc.SyncShops(context.Background(), f.client)
	assert.NoError(t, err)
	assert.Len(t, f.gw.createdShops, 2)

	var rows []models.Shop
	f.db.Where("client_id = ?", f.client.ID).Find(&rows)
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotZero(t, row.StarterID)
	}

	err = f.svc.SyncShops(context.Background(), f.client)
	assert.NoError(t, err)
	assert.Len(t, f.gw.createdShops, 2, "second run must not re-create")
	assert.Len(t, f.gw.updatedShops, 2)
}

func TestSyncMenuCreatesWholeGraph(t *testing.T) {
	f := newSyncFixture()
	f.db.Create(&models.Shop{PosID: "r1", StarterID: 11, ClientID: f.client.ID})
	f.pos.menu = sampleMenu()

	err := f.svc.SyncMenu(context.Background(), f.client)
	assert.NoError(t, err)

	assert.Len(t, f.gw.createdCategories, 1)
	assert.Len(t, f.gw.createdModifiers, 2)
	assert.Equal(t, "m1/0/2", f.gw.createdModifiers[0].PosID)
	assert.Len(t, f.gw.createdModOffers, 2)
	assert.Len(t, f.gw.createdGroups, 1)
	assert.Equal(t,
		models.HashedID([]string{"em1", "em2"}, models.Amount(1), models.Amount(2)),
		f.gw.createdGroups[0].PosID,
	)
	assert.Len(t, f.gw.createdMeals, 2)
	assert.Len(t, f.gw.createdMealOffers, 2)

	var group models.ModifierGroup
	assert.NoError(t, f.db.Where("client_id = ?", f.client.ID).First(&group).Error)
	for _, meal := range f.gw.createdMeals {
		if meal.PosID == "p1" {
			assert.Equal(t, []int{group.StarterID}, meal.ModifierGroups)
		}
	}

	var offerRows []models.MealOffer
	f.db.Find(&offerRows)
	assert.Len(t, offerRows, 2)
}

func TestSyncMenuZeroesOutMissingOffers(t *testing.T) {
	f := newSyncFixture()
	f.db.Create(&models.Shop{PosID: "r1", StarterID: 11, ClientID: f.client.ID})
	f.pos.menu = sampleMenu()

	assert.NoError(t, f.svc.SyncMenu(context.Background(), f.client))

	// Cake disappears from the feed.
	f.pos.menu.Meals = f.pos.menu.Meals[:1]
	assert.NoError(t, f.svc.SyncMenu(context.Background(), f.client))

	var zeroed bool
	for _, update := range f.gw.updatedMealOffers {
		if update.Price == 0 && update.Quantity == 0 {
			zeroed = true
		}
	}
	assert.True(t, zeroed, "missing meal's offer must be zeroed, not deleted")

	var offerRows []models.MealOffer
	f.db.Find(&offerRows)
	assert.Len(t, offerRows, 2, "offer rows are never deleted")
	assert.Len(t, f.gw.createdMeals, 2, "no re-creation on the second run")
}

func TestSyncMenuAppliesLimitedList(t *testing.T) {
	f := newSyncFixture()
	f.db.Create(&models.Shop{PosID: "r1", StarterID: 11, ClientID: f.client.ID})
	f.pos.menu = sampleMenu()
	quantity := 4.0
	f.pos.limits = []keeper.LimitedListItem{
		{RestaurantID: "r1", TypeOfDish: keeper.DishTypeProduct, ExternalID: "ep1", Quantity: &quantity},
	}

	assert.NoError(t, f.svc.SyncMenu(context.Background(), f.client))

	var found bool
	for _, offer := range f.gw.createdMealOffers {
		if offer.PosID == "p1" {
			assert.Equal(t, 4.0, offer.Quantity)
			found = true
		}
	}
	assert.True(t, found)
}

func TestSyncMenuMissingModifierAborts(t *testing.T) {
	f := newSyncFixture()
	f.db.Create(&models.Shop{PosID: "r1", StarterID: 11, ClientID: f.client.ID})
	menu := sampleMenu()
	menu.ModifierGroups[0].Modifiers = append(menu.ModifierGroups[0].Modifiers, "m3")
	f.pos.menu = menu

	err := f.svc.SyncMenu(context.Background(), f.client)
	assert.True(t, models.IsNotFound(err))
	assert.Empty(t, f.gw.createdCategories, "nothing is pushed once the graph is inconsistent")
}

func TestSyncMenuAllIsolatesTenants(t *testing.T) {
	f := newSyncFixture()

	broken := models.Client{
		ClientID: "client-broken", ClientSecret: "s", APIKey: "k2", IsActive: true,
	}
	f.db.Create(&broken)

	badMenu := sampleMenu()
	badMenu.ModifierGroups[0].Modifiers = []string{"missing"}
	goodPos := &fakeKeeper{menu: sampleMenu()}
	badPos := &fakeKeeper{menu: badMenu}

	f.db.Create(&models.Shop{PosID: "r1", StarterID: 11, ClientID: f.client.ID})

	svc := NewSyncService(
		repositories.NewClientRepository(f.db),
		repositories.NewMenuRepository(f.db),
		repositories.NewOrderRepository(f.db),
		func(string) PosGateway { return f.gw },
		func(clientID, _ string) KeeperAPI {
			if clientID == "client-broken" {
				return badPos
			}
			return goodPos
		},
		"RUB-DEFAULT",
	)

	svc.SyncMenuAll(context.Background())

	var categories []models.Category
	f.db.Where("client_id = ?", f.client.ID).Find(&categories)
	assert.Len(t, categories, 1, "healthy tenant completes despite the broken one")
}

func TestSyncOrderStatusesCapturesAndCompletes(t *testing.T) {
	f := newSyncFixture()
	order := models.Order{
		PosID: "k1", GlobalID: "g-501", ClientID: f.client.ID,
		IsPaid: true, DiscountPrice: 50, Bonuses: 50,
	}
	f.db.Create(&order)

	f.pos.statuses = []keeper.OrderStatusInfo{{
		OrderID:         "k1",
		OrderExternalID: "501",
		StatusCode:      keeper.StatusCooking,
		PaymentTypeID:   keeper.PaymentTypeOnline,
		PaymentStatus:   keeper.PaymentNotPaid,
	}}

	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Len(t, f.pos.payCalls, 1)
	assert.Equal(t, "k1", f.pos.payCalls[0].posOrderID)
	assert.Equal(t, "RUB", f.pos.payCalls[0].currency)
	assert.Len(t, f.gw.statusUpdates, 1)
	assert.Equal(t, "g-501", f.gw.statusUpdates[0].ID, "the platform is patched by the global id")
	assert.Equal(t, "in_progress", string(f.gw.statusUpdates[0].Status))

	// While the POS still reports notPaid the capture is retried.
	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Len(t, f.pos.payCalls, 2)

	// Once the POS confirms the payment the capture stops.
	f.pos.statuses[0].PaymentStatus = keeper.PaymentPaid
	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Len(t, f.pos.payCalls, 2)

	f.pos.statuses[0].StatusCode = keeper.StatusDelivered
	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	var reloaded models.Order
	f.db.First(&reloaded, order.ID)
	assert.True(t, reloaded.Done)

	// Done orders leave the poll set entirely.
	polls := f.pos.statusPolls
	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Equal(t, polls, f.pos.statusPolls)
}

func TestSyncOrderStatusesSkipsUnpaidOrders(t *testing.T) {
	f := newSyncFixture()
	f.db.Create(&models.Order{PosID: "k1", GlobalID: "g-502", ClientID: f.client.ID})

	f.pos.statuses = []keeper.OrderStatusInfo{{
		OrderID:         "k1",
		OrderExternalID: "502",
		StatusCode:      keeper.StatusCooking,
		PaymentTypeID:   keeper.PaymentTypeOnline,
		PaymentStatus:   keeper.PaymentNotPaid,
	}}

	// The platform never charged this order, so there is nothing to capture.
	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Empty(t, f.pos.payCalls)
	assert.Len(t, f.gw.statusUpdates, 1, "statuses still flow for unpaid orders")
}

func TestSyncOrderStatusesHonorsSkipFlag(t *testing.T) {
	f := newSyncFixture()
	f.client.IsSkipUpdateOrderPaymentState = true
	f.db.Save(f.client)

	f.db.Create(&models.Order{PosID: "k1", GlobalID: "g-503", ClientID: f.client.ID, IsPaid: true, DiscountPrice: 100})
	f.pos.statuses = []keeper.OrderStatusInfo{{
		OrderID:         "k1",
		OrderExternalID: "503",
		StatusCode:      keeper.StatusCooked,
		PaymentTypeID:   keeper.PaymentTypeOnline,
		PaymentStatus:   keeper.PaymentNotPaid,
	}}

	assert.NoError(t, f.svc.SyncOrderStatuses(context.Background(), f.client))
	assert.Empty(t, f.pos.payCalls)
	assert.Len(t, f.gw.statusUpdates, 1, "statuses still flow when capture is disabled")
}
