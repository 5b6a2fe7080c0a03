package keeper

import (
	"strconv"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/models"
)

// Wire types of the rkeeper delivery API. Field names follow the vendor
// payloads; conversion methods produce the platform-gateway DTOs.

type Shop struct {
	PosID         string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city,omitempty"`
	Latitude      float64  `json:"latitude,omitempty"`
	Longitude     float64  `json:"longitude,omitempty"`
	PaymentTypes  []string `json:"paymentTypes"`
	DeliveryTypes []string `json:"deliveryTypes"`
}

func (s *Shop) ToCreate() gateway.CreateShop {
	return gateway.CreateShop{
		PosID:         s.PosID,
		Name:          s.Name,
		Address:       s.gatewayAddress(),
		PaymentTypes:  s.PaymentTypes,
		DeliveryTypes: s.DeliveryTypes,
	}
}

func (s *Shop) ToUpdate(starterID int) gateway.UpdateShop {
	return gateway.UpdateShop{
		ID:            starterID,
		Name:          s.Name,
		Address:       s.gatewayAddress(),
		PaymentTypes:  s.PaymentTypes,
		DeliveryTypes: s.DeliveryTypes,
	}
}

func (s *Shop) gatewayAddress() gateway.Address {
	return gateway.Address{
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		Street:    s.Address,
		City:      s.City,
		Comment:   s.Address,
	}
}

type Category struct {
	PosID string `json:"id"`
	Name  string `json:"name"`
}

func (c *Category) ToCreate() gateway.CreateCategory {
	return gateway.CreateCategory{PosID: c.PosID, Name: c.Name}
}

func (c *Category) ToUpdate(starterID int) gateway.UpdateCategory {
	return gateway.UpdateCategory{ID: starterID, Name: c.Name}
}

type Meal struct {
	PosID         string   `json:"id"`
	ExternalID    string   `json:"externalId"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         float64  `json:"price"`
	SchemeID      string   `json:"schemeId,omitempty"`
	CategoryID    string   `json:"categoryId"`
	Proteins      *int     `json:"proteins,omitempty"`
	Fats          *int     `json:"fats,omitempty"`
	Carbohydrates *int     `json:"carbohydrates,omitempty"`
	Calories      *int     `json:"calories,omitempty"`
	Images        []string `json:"imageUrls"`
	StopListShops []string `json:"isContainInStopList,omitempty"`

	// Overlaid from the limited list before offer reconciliation; nil means
	// unlimited.
	Quantity *float64 `json:"quantity,omitempty"`
}

func (m *Meal) ToCreate(categoryStarterID int, modifierGroups []int) gateway.CreateMeal {
	return gateway.CreateMeal{
		PosID:                m.PosID,
		Name:                 m.Name,
		Description:          m.Description,
		Price:                m.Price,
		CategoryIDs:          categoryIDList(categoryStarterID),
		ModifierGroups:       modifierGroups,
		DeliveryRestrictions: []string{},
		Images:               m.Images,
		Proteins:             m.Proteins,
		Fats:                 m.Fats,
		Carbohydrates:        m.Carbohydrates,
		Calories:             m.Calories,
	}
}

func (m *Meal) ToUpdate(starterID, categoryStarterID int, modifierGroups []int) gateway.UpdateMeal {
	return gateway.UpdateMeal{
		ID:                   starterID,
		Name:                 m.Name,
		Description:          m.Description,
		Price:                m.Price,
		CategoryIDs:          categoryIDList(categoryStarterID),
		ModifierGroups:       modifierGroups,
		DeliveryRestrictions: []string{},
		Images:               m.Images,
		Proteins:             m.Proteins,
		Fats:                 m.Fats,
		Carbohydrates:        m.Carbohydrates,
		Calories:             m.Calories,
	}
}

// ToOfferCreate builds the per-shop offer; a meal on the shop's stop list
// gets quantity zero regardless of the limited list.
func (m *Meal) ToOfferCreate(mealStarterID int, posShopID string) gateway.CreateMealOffer {
	return gateway.CreateMealOffer{
		PosID:    m.PosID,
		MealID:   mealStarterID,
		Price:    m.Price,
		Quantity: m.offerQuantity(posShopID),
	}
}

func (m *Meal) ToOfferUpdate(offerStarterID, mealStarterID int, posShopID string) gateway.UpdateMealOffer {
	return gateway.UpdateMealOffer{
		ID:       offerStarterID,
		MealID:   mealStarterID,
		Price:    m.Price,
		Quantity: m.offerQuantity(posShopID),
	}
}

func (m *Meal) offerQuantity(posShopID string) float64 {
	for _, shopID := range m.StopListShops {
		if shopID == posShopID {
			return 0
		}
	}
	if m.Quantity != nil {
		return *m.Quantity
	}
	return 1
}

func categoryIDList(starterID int) []int {
	if starterID == 0 {
		return []int{}
	}
	return []int{starterID}
}

type Modifier struct {
	PosID      string   `json:"id"`
	ExternalID string   `json:"externalId"`
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	Images     []string `json:"imageUrls"`
	MaxAmount  *int     `json:"maxCountForDish,omitempty"`
}

// PriceValue parses the vendor's string price; malformed values read as 0.
func (m *Modifier) PriceValue() float64 {
	v, err := strconv.ParseFloat(m.Price, 64)
	if err != nil {
		return 0
	}
	return v
}

type ModifierGroup struct {
	PosID     string   `json:"id"`
	Name      string   `json:"name"`
	Modifiers []string `json:"ingredients"`
	MinAmount *int     `json:"minAmount,omitempty"`
	MaxAmount *int     `json:"maxAmount,omitempty"`
}

// CountOfUses is a group reference inside a modifier scheme, carrying the
// min/max constraint that makes the same group logically distinct.
type CountOfUses struct {
	ID        string `json:"id"`
	MinAmount int    `json:"minCount"`
	MaxAmount int    `json:"maxCount"`
}

type ModifierScheme struct {
	PosID          string        `json:"id"`
	ModifierGroups []CountOfUses `json:"ingredientsGroups"`
}

type Menu struct {
	Categories       []Category       `json:"categories"`
	Meals            []Meal           `json:"products"`
	Modifiers        []Modifier       `json:"ingredients"`
	ModifierGroups   []ModifierGroup  `json:"ingredientsGroups"`
	ModifierSchemes  []ModifierScheme `json:"ingredientsSchemes"`
	IsPossibleDelete bool             `json:"isPossibleDelete"`
	HaveChanges      *bool            `json:"haveChanges,omitempty"`
}

// Normalize removes duplicate pos ids from every feed section; the vendor
// occasionally repeats objects and the last occurrence wins.
func (m *Menu) Normalize() {
	m.Categories = dedupe(m.Categories, func(c Category) string { return c.PosID })
	m.Meals = dedupe(m.Meals, func(meal Meal) string { return meal.PosID })
	m.Modifiers = dedupe(m.Modifiers, func(mod Modifier) string { return mod.PosID })
	m.ModifierGroups = dedupe(m.ModifierGroups, func(g ModifierGroup) string { return g.PosID })
	m.ModifierSchemes = dedupe(m.ModifierSchemes, func(s ModifierScheme) string { return s.PosID })
}

func dedupe[T any](items []T, key func(T) string) []T {
	index := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if at, ok := index[k]; ok {
			out[at] = item
			continue
		}
		index[k] = len(out)
		out = append(out, item)
	}
	return out
}

const DishTypeProduct = "product"

// LimitedListItem caps the sellable quantity of one dish at one restaurant.
type LimitedListItem struct {
	RestaurantID string   `json:"restaurantId"`
	TypeOfDish   string   `json:"typeOfDish"`
	ExternalID   string   `json:"externalId"`
	Name         string   `json:"name"`
	Quantity     *float64 `json:"quantity"`
}

// DomainModifier is the per-run view of one modifier occurrence: the vendor
// modifier plus the min/max constraint of the group it was seen in.
type DomainModifier struct {
	PosID      string
	ExternalID string
	Name       string
	Price      float64
	Images     []string
	MinAmount  *int
	MaxAmount  *int
	Required   bool
}

func (d *DomainModifier) SpecificID() string {
	return models.SpecificID(d.PosID, d.MinAmount, d.MaxAmount)
}

func (d *DomainModifier) SpecificExternalID() string {
	return models.SpecificID(d.ExternalID, d.MinAmount, d.MaxAmount)
}

// DomainModifierGroup is the per-run view of one group occurrence in a
// scheme, with its resolved member modifiers.
type DomainModifierGroup struct {
	PosID     string
	Name      string
	MinAmount *int
	MaxAmount *int
	Required  bool
	Modifiers []DomainModifier
}

func (g *DomainModifierGroup) SpecificID() string {
	return models.SpecificID(g.PosID, g.MinAmount, g.MaxAmount)
}

// ModifierExternalIDs returns the canonical sorted member id list.
func (g *DomainModifierGroup) ModifierExternalIDs() []string {
	ids := make([]string, 0, len(g.Modifiers))
	for _, m := range g.Modifiers {
		ids = append(ids, m.ExternalID)
	}
	return ids
}

func (g *DomainModifierGroup) HashedID() string {
	return models.HashedID(g.ModifierExternalIDs(), g.MinAmount, g.MaxAmount)
}
