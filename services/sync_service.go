package services

import (
	"context"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// SyncService reconciles the POS catalog into the platform: shops, the menu
// graph and order statuses. Each tenant is processed independently; one
// failing tenant never blocks the others.
type SyncService struct {
	clients   *repositories.ClientRepository
	menu      *repositories.MenuRepository
	orders    *repositories.OrderRepository
	newGW     GatewayFactory
	newKeeper KeeperFactory

	// Currency sent with payment captures for tenants without one.
	defaultCurrency string
}

func NewSyncService(
	clients *repositories.ClientRepository,
	menu *repositories.MenuRepository,
	orders *repositories.OrderRepository,
	newGW GatewayFactory,
	newKeeper KeeperFactory,
	defaultCurrency string,
) *SyncService {
	return &SyncService{
		clients:         clients,
		menu:            menu,
		orders:          orders,
		newGW:           newGW,
		newKeeper:       newKeeper,
		defaultCurrency: defaultCurrency,
	}
}

const (
	shopSyncRetries  = 2
	shopSyncInterval = 5 * time.Second
)

// SyncShopsAll runs the shop sync for every active tenant. The POS
// restaurant endpoint is flaky around its nightly maintenance window, so
// transient failures get a short constant retry before the tenant is given
// up until the next tick.
func (s *SyncService) SyncShopsAll(ctx context.Context) {
	s.forEachClient(ctx, "shops", func(ctx context.Context, client *models.Client) error {
		policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(shopSyncInterval), shopSyncRetries)
		return backoff.Retry(func() error {
			err := s.SyncShops(ctx, client)
			if models.IsNotFound(err) {
				return backoff.Permanent(err)
			}
			return err
		}, policy)
	})
}

// SyncMenuAll runs the menu sync for every active tenant.
func (s *SyncService) SyncMenuAll(ctx context.Context) {
	s.forEachClient(ctx, "menu", s.SyncMenu)
}

// SyncOrderStatusesAll runs the status sync for every active tenant.
func (s *SyncService) SyncOrderStatusesAll(ctx context.Context) {
	s.forEachClient(ctx, "statuses", s.SyncOrderStatuses)
}

func (s *SyncService) forEachClient(ctx context.Context, stream string, run func(context.Context, *models.Client) error) {
	clients, err := s.clients.ActiveClients()
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Failed to load active clients")
		return
	}
	for i := range clients {
		client := &clients[i]
		if err := run(ctx, client); err != nil {
			utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
				"client_id": client.ClientID,
				"stream":    stream,
			}).Error("Sync failed")
		}
	}
}

// SyncShops pulls the tenant's restaurants from the POS and mirrors them as
// platform shops.
func (s *SyncService) SyncShops(ctx context.Context, client *models.Client) error {
	log := utils.SyncLog(client.ClientID, "shops")
	pos := s.newKeeper(client.ClientID, client.ClientSecret)
	gw := s.newGW(client.APIKey)

	posShops, err := pos.GetShops(ctx)
	if err != nil {
		return err
	}
	local, err := s.clients.Shops(client.ID)
	if err != nil {
		return err
	}
	starterByPos := make(map[string]int, len(local))
	for _, shop := range local {
		starterByPos[shop.PosID] = shop.StarterID
	}

	var creates []gateway.CreateShop
	var updates []gateway.UpdateShop
	for i := range posShops {
		shop := &posShops[i]
		if starterID, ok := starterByPos[shop.PosID]; ok {
			updates = append(updates, shop.ToUpdate(starterID))
		} else {
			creates = append(creates, shop.ToCreate())
		}
	}

	if len(creates) > 0 {
		created, err := gw.CreateShops(ctx, creates)
		if err != nil {
			return err
		}
		for _, out := range created.Data {
			row := models.Shop{PosID: out.PosID, StarterID: out.ID, ClientID: client.ID}
			if err := s.clients.CreateShop(&row); err != nil {
				return err
			}
		}
	}
	if len(updates) > 0 {
		if err := gw.UpdateShops(ctx, updates); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{"created": len(creates), "updated": len(updates)}).Info("Shops synced")
	return nil
}

// SyncMenu reconciles the full catalog graph of one tenant in dependency
// order: categories, modifiers, modifier offers, modifier groups, meals,
// meal offers.
func (s *SyncService) SyncMenu(ctx context.Context, client *models.Client) error {
	rec, err := s.newMenuReconciler(ctx, client)
	if err != nil {
		return err
	}
	return rec.run()
}

// SyncOrderStatuses polls the POS for the lifecycle state of every active
// order, captures online payments when the order becomes payable and pushes
// the mapped statuses back to the platform.
func (s *SyncService) SyncOrderStatuses(ctx context.Context, client *models.Client) error {
	log := utils.SyncLog(client.ClientID, "statuses")
	pos := s.newKeeper(client.ClientID, client.ClientSecret)
	gw := s.newGW(client.APIKey)

	orders, err := s.orders.NotDone(client.ID)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return nil
	}

	posIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		posIDs = append(posIDs, order.PosID)
	}
	statuses, err := pos.GetOrderStatuses(ctx, posIDs)
	if err != nil {
		return err
	}
	statusByPos := make(map[string]keeper.OrderStatusInfo, len(statuses))
	for _, st := range statuses {
		statusByPos[st.OrderID] = st
	}

	var updates []gateway.OrderStatusUpdate
	for i := range orders {
		order := &orders[i]
		st, ok := statusByPos[order.PosID]
		if !ok {
			continue
		}

		if s.canPay(client, order, &st) {
			currency := client.CurrencyCode
			if currency == "" {
				currency = s.defaultCurrency
			}
			log.WithFields(logrus.Fields{
				"order":          order.PosID,
				"discount_price": order.DiscountPrice,
			}).Info("Capturing online payment")
			if err := pos.PayOrder(ctx, order.PosID, currency); err != nil {
				log.WithError(err).WithField("order", order.PosID).Error("Payment capture failed")
			}
		}

		updates = append(updates, st.ToStatusUpdate(order.GlobalID))
		if st.StatusCode.IsTerminal() {
			if err := s.orders.MarkDone(order); err != nil {
				return err
			}
		}
	}

	if len(updates) == 0 {
		return nil
	}
	return gw.UpdateOrderStatuses(ctx, updates)
}

// canPay gates the payment capture: only orders the platform already
// charged at creation, and only while the POS still shows them unpaid.
// The capture repeats every poll until the POS flips the payment status.
func (s *SyncService) canPay(client *models.Client, order *models.Order, st *keeper.OrderStatusInfo) bool {
	return !client.IsSkipUpdateOrderPaymentState &&
		st.PaymentTypeID == keeper.PaymentTypeOnline &&
		order.IsPaid &&
		st.OrderExternalID != "" &&
		st.StatusCode.IsReadyToPay() &&
		st.PaymentStatus == keeper.PaymentNotPaid
}

// menuReconciler carries the per-run state of one tenant's menu sync: the
// normalized feed, the local mirror and the id lookup tables the passes
// build for each other.
type menuReconciler struct {
	ctx    context.Context
	svc    *SyncService
	client *models.Client
	gw     PosGateway
	pos    KeeperAPI
	log    *logrus.Entry

	projectClientIDs []uint

	menu   *keeper.Menu
	shops  []models.Shop
	limits map[string]map[string]*float64

	groupByPos    map[string]keeper.ModifierGroup
	schemeByPos   map[string]keeper.ModifierScheme
	modifierByPos map[string]keeper.Modifier

	domainModifiers []keeper.DomainModifier
	domainGroups    []keeper.DomainModifierGroup

	categoryStarterByPos  map[string]int
	modifierStarterByKey  map[string]int
	groupHashedBySpecific map[string]string
	groupStarterByHashed  map[string]int
	mealStarterByKey      map[string]int
	mealStarterByRowID    map[uint]int
}

func (s *SyncService) newMenuReconciler(ctx context.Context, client *models.Client) (*menuReconciler, error) {
	rec := &menuReconciler{
		ctx:    ctx,
		svc:    s,
		client: client,
		gw:     s.newGW(client.APIKey),
		pos:    s.newKeeper(client.ClientID, client.ClientSecret),
		log:    utils.SyncLog(client.ClientID, "menu"),

		categoryStarterByPos:  map[string]int{},
		modifierStarterByKey:  map[string]int{},
		groupHashedBySpecific: map[string]string{},
		groupStarterByHashed:  map[string]int{},
		mealStarterByKey:      map[string]int{},
		mealStarterByRowID:    map[uint]int{},
	}

	rec.projectClientIDs = []uint{client.ID}
	if client.ProjectID != nil {
		siblings, err := s.clients.ProjectClients(*client.ProjectID)
		if err != nil {
			return nil, err
		}
		rec.projectClientIDs = rec.projectClientIDs[:0]
		for _, sibling := range siblings {
			rec.projectClientIDs = append(rec.projectClientIDs, sibling.ID)
		}
	}
	return rec, nil
}

func (r *menuReconciler) run() error {
	menu, err := r.pos.GetMenu(r.ctx)
	if err != nil {
		return err
	}
	r.menu = menu
	r.indexFeed()
	r.loadLimits()

	if r.shops, err = r.svc.clients.Shops(r.client.ID); err != nil {
		return err
	}
	if err := r.resolveDomainGraph(); err != nil {
		return err
	}

	for _, pass := range []func() error{
		r.syncCategories,
		r.syncModifiers,
		r.syncModifierOffers,
		r.syncModifierGroups,
		r.syncMeals,
		r.syncMealOffers,
	} {
		if err := pass(); err != nil {
			return err
		}
	}

	r.log.Info("Menu synced")
	return nil
}

func (r *menuReconciler) indexFeed() {
	r.groupByPos = make(map[string]keeper.ModifierGroup, len(r.menu.ModifierGroups))
	for _, g := range r.menu.ModifierGroups {
		r.groupByPos[g.PosID] = g
	}
	r.schemeByPos = make(map[string]keeper.ModifierScheme, len(r.menu.ModifierSchemes))
	for _, sc := range r.menu.ModifierSchemes {
		r.schemeByPos[sc.PosID] = sc
	}
	r.modifierByPos = make(map[string]keeper.Modifier, len(r.menu.Modifiers))
	for _, m := range r.menu.Modifiers {
		r.modifierByPos[m.PosID] = m
	}
}

// loadLimits overlays the limited list: per shop, per meal external id, the
// remaining sellable quantity.
func (r *menuReconciler) loadLimits() {
	r.limits = map[string]map[string]*float64{}
	for _, item := range r.pos.GetLimitList(r.ctx) {
		if item.TypeOfDish != keeper.DishTypeProduct {
			continue
		}
		perShop := r.limits[item.RestaurantID]
		if perShop == nil {
			perShop = map[string]*float64{}
			r.limits[item.RestaurantID] = perShop
		}
		perShop[item.ExternalID] = item.Quantity
	}
}

// resolveDomainGraph turns schemes into concrete modifier-group occurrences
// and collects the distinct modifiers they reference. A scheme referencing
// an unknown group or a group referencing an unknown modifier aborts the
// tenant's sync.
func (r *menuReconciler) resolveDomainGraph() error {
	seenGroups := map[string]bool{}
	seenModifiers := map[string]bool{}

	for _, scheme := range r.menu.ModifierSchemes {
		for _, cu := range scheme.ModifierGroups {
			group, ok := r.groupByPos[cu.ID]
			if !ok {
				return models.NewNotFound(models.EntityModifierGroup, cu.ID)
			}

			minAmount := models.Amount(cu.MinAmount)
			maxAmount := models.Amount(cu.MaxAmount)
			domainGroup := keeper.DomainModifierGroup{
				PosID:     group.PosID,
				Name:      group.Name,
				MinAmount: minAmount,
				MaxAmount: maxAmount,
				Required:  cu.MinAmount > 0,
			}

			for _, modifierPosID := range group.Modifiers {
				vendor, ok := r.modifierByPos[modifierPosID]
				if !ok {
					return models.NewNotFound(models.EntityModifier, modifierPosID)
				}
				domainGroup.Modifiers = append(domainGroup.Modifiers, r.domainModifier(vendor, maxAmount))
			}

			if seenGroups[domainGroup.SpecificID()] {
				continue
			}
			seenGroups[domainGroup.SpecificID()] = true
			r.domainGroups = append(r.domainGroups, domainGroup)

			for _, dm := range domainGroup.Modifiers {
				if seenModifiers[dm.SpecificID()] {
					continue
				}
				seenModifiers[dm.SpecificID()] = true
				r.domainModifiers = append(r.domainModifiers, dm)
			}
		}
	}
	return nil
}

// domainModifier binds one vendor modifier to the constraint of the group
// occurrence it was seen in. Tenants with per-dish caps enabled prefer the
// vendor's own maximum.
func (r *menuReconciler) domainModifier(vendor keeper.Modifier, groupMax *int) keeper.DomainModifier {
	maxAmount := groupMax
	if r.client.UseModifierMaxAmount && vendor.MaxAmount != nil {
		maxAmount = vendor.MaxAmount
	}
	return keeper.DomainModifier{
		PosID:      vendor.PosID,
		ExternalID: vendor.ExternalID,
		Name:       vendor.Name,
		Price:      vendor.PriceValue(),
		Images:     vendor.Images,
		MinAmount:  models.Amount(0),
		MaxAmount:  maxAmount,
	}
}

// modifierKey is the reconciliation key of a modifier occurrence; tenants
// with external catalog codes enabled key by external id.
func (r *menuReconciler) modifierKey(dm *keeper.DomainModifier) string {
	if r.client.IsUseModifierExternalID && dm.ExternalID != "" {
		return dm.SpecificExternalID()
	}
	return dm.SpecificID()
}

func (r *menuReconciler) modifierRowKey(row *models.Modifier) string {
	if r.client.IsUseModifierExternalID && row.ExternalID != "" {
		return row.SpecificExternalID()
	}
	return row.SpecificID()
}

func (r *menuReconciler) mealKey(posID, externalID string) string {
	if r.client.IsUseMealExternalID && externalID != "" {
		return externalID
	}
	return posID
}

func (r *menuReconciler) syncCategories() error {
	local, err := r.svc.menu.CategoriesByClient(r.client.ID)
	if err != nil {
		return err
	}
	for _, row := range local {
		r.categoryStarterByPos[row.PosID] = row.StarterID
	}

	var creates []gateway.CreateCategory
	var updates []gateway.UpdateCategory
	for i := range r.menu.Categories {
		category := &r.menu.Categories[i]
		if starterID, ok := r.categoryStarterByPos[category.PosID]; ok {
			updates = append(updates, category.ToUpdate(starterID))
		} else {
			creates = append(creates, category.ToCreate())
		}
	}

	if len(creates) > 0 {
		created, err := r.gw.CreateCategories(r.ctx, creates)
		if err != nil {
			return err
		}
		rows := make([]models.Category, 0, len(created.Data))
		for _, out := range created.Data {
			rows = append(rows, models.Category{PosID: out.PosID, StarterID: out.ID, ClientID: r.client.ID})
			r.categoryStarterByPos[out.PosID] = out.ID
		}
		if err := r.svc.menu.CreateCategories(rows); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := r.gw.UpdateCategories(r.ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuReconciler) syncModifiers() error {
	local, err := r.svc.menu.ModifiersByClients(r.projectClientIDs)
	if err != nil {
		return err
	}
	rowByKey := make(map[string]*models.Modifier, len(local))
	for i := range local {
		row := &local[i]
		rowByKey[r.modifierRowKey(row)] = row
		r.modifierStarterByKey[r.modifierRowKey(row)] = row.StarterID
	}

	var creates []gateway.CreateModifier
	var updates []gateway.UpdateModifier
	var pending []keeper.DomainModifier
	for _, dm := range r.domainModifiers {
		if row, ok := rowByKey[r.modifierKey(&dm)]; ok {
			updates = append(updates, gateway.UpdateModifier{
				ID:        row.StarterID,
				Name:      dm.Name,
				Price:     dm.Price,
				Images:    dm.Images,
				MinAmount: amountOrZero(dm.MinAmount),
				MaxAmount: amountOrZero(dm.MaxAmount),
				Required:  dm.Required,
			})
			continue
		}
		creates = append(creates, gateway.CreateModifier{
			PosID:     dm.SpecificID(),
			Name:      dm.Name,
			Price:     dm.Price,
			Images:    dm.Images,
			MinAmount: amountOrZero(dm.MinAmount),
			MaxAmount: amountOrZero(dm.MaxAmount),
			Required:  dm.Required,
		})
		pending = append(pending, dm)
	}

	if len(creates) > 0 {
		created, err := r.gw.CreateModifiers(r.ctx, creates)
		if err != nil {
			return err
		}
		starterBySpecific := make(map[string]int, len(created.Data))
		for _, out := range created.Data {
			starterBySpecific[out.PosID] = out.ID
		}
		rows := make([]models.Modifier, 0, len(pending))
		for _, dm := range pending {
			starterID, ok := starterBySpecific[dm.SpecificID()]
			if !ok {
				continue
			}
			rows = append(rows, models.Modifier{
				PosID:      dm.PosID,
				ExternalID: dm.ExternalID,
				StarterID:  starterID,
				MinAmount:  dm.MinAmount,
				MaxAmount:  dm.MaxAmount,
				ClientID:   r.client.ID,
			})
			r.modifierStarterByKey[r.modifierKey(&dm)] = starterID
		}
		if err := r.svc.menu.CreateModifiers(rows); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := r.gw.UpdateModifiers(r.ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuReconciler) syncModifierOffers() error {
	for i := range r.shops {
		shop := &r.shops[i]
		local, err := r.svc.menu.ModifierOffersByShop(shop.ID)
		if err != nil {
			return err
		}
		rowByPos := make(map[string]*models.ModifierOffer, len(local))
		for j := range local {
			rowByPos[local[j].PosID] = &local[j]
		}

		var creates []gateway.CreateModifierOffer
		var updates []gateway.UpdateModifierOffer
		for _, dm := range r.domainModifiers {
			starterID, ok := r.modifierStarterByKey[r.modifierKey(&dm)]
			if !ok {
				return models.NewNotFound(models.EntityModifier, dm.SpecificID())
			}
			specific := dm.SpecificID()
			if row, ok := rowByPos[specific]; ok {
				updates = append(updates, gateway.UpdateModifierOffer{
					ID:         row.StarterID,
					ModifierID: starterID,
					ShopID:     shop.StarterID,
					Price:      int(dm.Price),
				})
				continue
			}
			creates = append(creates, gateway.CreateModifierOffer{
				PosID:      specific,
				ModifierID: starterID,
				ShopID:     shop.StarterID,
				Price:      int(dm.Price),
			})
		}

		modifierRowByKey, err := r.modifierRowIndex()
		if err != nil {
			return err
		}

		for _, batch := range utils.GenerateBatch(creates, utils.BatchSize) {
			created, err := r.gw.CreateModifierOffers(r.ctx, batch)
			if err != nil {
				return err
			}
			rows := make([]models.ModifierOffer, 0, len(created.Data))
			for _, out := range created.Data {
				modifierRow, ok := modifierRowByKey[out.PosID]
				if !ok {
					continue
				}
				rows = append(rows, models.ModifierOffer{
					ModifierID: modifierRow.ID,
					PosID:      out.PosID,
					StarterID:  out.ID,
					ShopID:     shop.ID,
				})
			}
			if err := r.svc.menu.CreateModifierOffers(rows); err != nil {
				return err
			}
		}
		for _, batch := range utils.GenerateBatch(updates, utils.BatchSize) {
			if err := r.gw.UpdateModifierOffers(r.ctx, batch); err != nil {
				return err
			}
		}
	}
	return nil
}

// modifierRowIndex maps the pos-based specific id of every mirrored
// modifier to its row, for wiring new offer rows to their modifier.
func (r *menuReconciler) modifierRowIndex() (map[string]*models.Modifier, error) {
	local, err := r.svc.menu.ModifiersByClients(r.projectClientIDs)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Modifier, len(local))
	for i := range local {
		index[local[i].SpecificID()] = &local[i]
	}
	return index, nil
}

func (r *menuReconciler) syncModifierGroups() error {
	local, err := r.svc.menu.ModifierGroupsByClients(r.projectClientIDs)
	if err != nil {
		return err
	}
	for i := range local {
		row := &local[i]
		hashed := row.HashedID()
		r.groupStarterByHashed[hashed] = row.StarterID
		r.groupHashedBySpecific[row.SpecificID()] = hashed
	}

	var creates []gateway.CreateModifierGroup
	var updates []gateway.UpdateModifierGroup
	var pending []keeper.DomainModifierGroup
	for _, dg := range r.domainGroups {
		hashed := dg.HashedID()
		r.groupHashedBySpecific[dg.SpecificID()] = hashed

		members, err := r.groupMembers(&dg)
		if err != nil {
			return err
		}
		if starterID, ok := r.groupStarterByHashed[hashed]; ok {
			updates = append(updates, gateway.UpdateModifierGroup{
				ID:        starterID,
				Name:      dg.Name,
				MinAmount: amountOrZero(dg.MinAmount),
				MaxAmount: amountOrZero(dg.MaxAmount),
				Required:  dg.Required,
				Modifiers: members,
			})
			continue
		}
		creates = append(creates, gateway.CreateModifierGroup{
			PosID:     hashed,
			Name:      dg.Name,
			MinAmount: amountOrZero(dg.MinAmount),
			MaxAmount: amountOrZero(dg.MaxAmount),
			Required:  dg.Required,
			Modifiers: members,
		})
		pending = append(pending, dg)
	}

	if len(creates) > 0 {
		created, err := r.gw.CreateModifierGroups(r.ctx, creates)
		if err != nil {
			return err
		}
		starterByHashed := make(map[string]int, len(created.Data))
		for _, out := range created.Data {
			starterByHashed[out.PosID] = out.ID
		}
		rows := make([]models.ModifierGroup, 0, len(pending))
		for _, dg := range pending {
			starterID, ok := starterByHashed[dg.HashedID()]
			if !ok {
				continue
			}
			rows = append(rows, models.ModifierGroup{
				PosID:               dg.PosID,
				StarterID:           starterID,
				MinAmount:           dg.MinAmount,
				MaxAmount:           dg.MaxAmount,
				ModifierExternalIDs: models.JoinExternalIDs(dg.ModifierExternalIDs()),
				ClientID:            r.client.ID,
			})
			r.groupStarterByHashed[dg.HashedID()] = starterID
		}
		if err := r.svc.menu.CreateModifierGroups(rows); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := r.gw.UpdateModifierGroups(r.ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuReconciler) groupMembers(dg *keeper.DomainModifierGroup) ([]gateway.ModifierInGroup, error) {
	members := make([]gateway.ModifierInGroup, 0, len(dg.Modifiers))
	for i := range dg.Modifiers {
		dm := &dg.Modifiers[i]
		starterID, ok := r.modifierStarterByKey[r.modifierKey(dm)]
		if !ok {
			return nil, models.NewNotFound(models.EntityModifier, dm.SpecificID())
		}
		members = append(members, gateway.ModifierInGroup{
			ID:        starterID,
			MinAmount: amountOrZero(dm.MinAmount),
			MaxAmount: amountOrZero(dm.MaxAmount),
			Required:  dm.Required,
		})
	}
	return members, nil
}

// mealGroups resolves the platform ids of the modifier groups attached to a
// meal through its scheme.
func (r *menuReconciler) mealGroups(meal *keeper.Meal) ([]int, error) {
	if meal.SchemeID == "" {
		return nil, nil
	}
	scheme, ok := r.schemeByPos[meal.SchemeID]
	if !ok {
		return nil, nil
	}
	ids := make([]int, 0, len(scheme.ModifierGroups))
	for _, cu := range scheme.ModifierGroups {
		specific := models.SpecificID(cu.ID, models.Amount(cu.MinAmount), models.Amount(cu.MaxAmount))
		hashed, ok := r.groupHashedBySpecific[specific]
		if !ok {
			return nil, models.NewNotFound(models.EntityModifierGroup, specific)
		}
		starterID, ok := r.groupStarterByHashed[hashed]
		if !ok {
			return nil, models.NewNotFound(models.EntityModifierGroup, hashed)
		}
		ids = append(ids, starterID)
	}
	return ids, nil
}

func (r *menuReconciler) syncMeals() error {
	local, err := r.svc.menu.MealsByClient(r.client.ID)
	if err != nil {
		return err
	}
	rowByKey := make(map[string]*models.Meal, len(local))
	for i := range local {
		row := &local[i]
		rowByKey[r.mealKey(row.PosID, row.ExternalID)] = row
		r.mealStarterByKey[r.mealKey(row.PosID, row.ExternalID)] = row.StarterID
		r.mealStarterByRowID[row.ID] = row.StarterID
	}

	var creates []gateway.CreateMeal
	var updates []gateway.UpdateMeal
	var pending []keeper.Meal
	for i := range r.menu.Meals {
		meal := &r.menu.Meals[i]
		categoryStarterID, ok := r.categoryStarterByPos[meal.CategoryID]
		if !ok {
			return models.NewNotFound(models.EntityCategory, meal.CategoryID)
		}
		groups, err := r.mealGroups(meal)
		if err != nil {
			return err
		}
		if row, ok := rowByKey[r.mealKey(meal.PosID, meal.ExternalID)]; ok {
			updates = append(updates, meal.ToUpdate(row.StarterID, categoryStarterID, groups))
			if row.ExternalID != meal.ExternalID {
				row.ExternalID = meal.ExternalID
				if err := r.svc.menu.SaveMeal(row); err != nil {
					return err
				}
			}
			continue
		}
		creates = append(creates, meal.ToCreate(categoryStarterID, groups))
		pending = append(pending, *meal)
	}

	if len(creates) > 0 {
		created, err := r.gw.CreateMeals(r.ctx, creates)
		if err != nil {
			return err
		}
		starterByPos := make(map[string]int, len(created.Data))
		for _, out := range created.Data {
			starterByPos[out.PosID] = out.ID
		}
		rows := make([]models.Meal, 0, len(pending))
		for _, meal := range pending {
			starterID, ok := starterByPos[meal.PosID]
			if !ok {
				continue
			}
			rows = append(rows, models.Meal{
				PosID:      meal.PosID,
				ExternalID: meal.ExternalID,
				StarterID:  starterID,
				ClientID:   r.client.ID,
			})
			r.mealStarterByKey[r.mealKey(meal.PosID, meal.ExternalID)] = starterID
		}
		if err := r.svc.menu.CreateMeals(rows); err != nil {
			return err
		}
		if err := r.reloadMealRowIndex(); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := r.gw.UpdateMeals(r.ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuReconciler) reloadMealRowIndex() error {
	local, err := r.svc.menu.MealsByClient(r.client.ID)
	if err != nil {
		return err
	}
	for i := range local {
		r.mealStarterByRowID[local[i].ID] = local[i].StarterID
	}
	return nil
}

// syncMealOffers reconciles per-shop availability. Offers for meals absent
// from the feed are never deleted; they are zeroed out so the platform stops
// selling them.
func (r *menuReconciler) syncMealOffers() error {
	mealRowByPos, err := r.mealRowIndex()
	if err != nil {
		return err
	}

	for i := range r.shops {
		shop := &r.shops[i]
		local, err := r.svc.menu.MealOffersByShop(shop.ID)
		if err != nil {
			return err
		}
		rowByPos := make(map[string]*models.MealOffer, len(local))
		for j := range local {
			rowByPos[local[j].PosID] = &local[j]
		}

		var creates []gateway.CreateMealOffer
		var updates []gateway.UpdateMealOffer
		inFeed := make(map[string]bool, len(r.menu.Meals))
		for j := range r.menu.Meals {
			meal := r.menu.Meals[j]
			inFeed[meal.PosID] = true

			starterID, ok := r.mealStarterByKey[r.mealKey(meal.PosID, meal.ExternalID)]
			if !ok {
				return models.NewNotFound(models.EntityMeal, meal.PosID)
			}
			if perShop, ok := r.limits[shop.PosID]; ok {
				if quantity, ok := perShop[meal.ExternalID]; ok {
					meal.Quantity = quantity
				}
			}
			if row, ok := rowByPos[meal.PosID]; ok {
				updates = append(updates, meal.ToOfferUpdate(row.StarterID, starterID, shop.PosID))
			} else {
				creates = append(creates, meal.ToOfferCreate(starterID, shop.PosID))
			}
		}

		// Zero out offers the feed no longer mentions.
		for _, row := range local {
			if inFeed[row.PosID] {
				continue
			}
			mealStarterID, ok := r.mealStarterByRowID[row.MealID]
			if !ok {
				return models.NewNotFound(models.EntityMeal, strconv.Itoa(int(row.MealID)))
			}
			updates = append(updates, gateway.UpdateMealOffer{
				ID:       row.StarterID,
				MealID:   mealStarterID,
				Price:    0,
				Quantity: 0,
			})
		}

		for _, batch := range utils.GenerateBatch(creates, utils.BatchSize) {
			created, err := r.gw.CreateMealOffers(r.ctx, batch, shop.StarterID)
			if err != nil {
				return err
			}
			rows := make([]models.MealOffer, 0, len(created.Data))
			for _, out := range created.Data {
				mealRow, ok := mealRowByPos[out.PosID]
				if !ok {
					continue
				}
				rows = append(rows, models.MealOffer{
					MealID:    mealRow.ID,
					PosID:     out.PosID,
					StarterID: out.ID,
					ShopID:    shop.ID,
				})
			}
			if err := r.svc.menu.CreateMealOffers(rows); err != nil {
				return err
			}
		}
		for _, batch := range utils.GenerateBatch(updates, utils.BatchSize) {
			if err := r.gw.UpdateMealOffers(r.ctx, batch, shop.StarterID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *menuReconciler) mealRowIndex() (map[string]*models.Meal, error) {
	local, err := r.svc.menu.MealsByClient(r.client.ID)
	if err != nil {
		return nil, err
	}
	index := make(map[string]*models.Meal, len(local))
	for i := range local {
		index[local[i].PosID] = &local[i]
	}
	return index, nil
}

func amountOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
