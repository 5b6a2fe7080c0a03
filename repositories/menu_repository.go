package repositories

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/models"
)

// MenuRepository handles the local catalog mirror: categories, meals,
// modifiers, modifier groups and their per-shop offers.
type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) CategoriesByClient(clientID uint) ([]models.Category, error) {
	var rows []models.Category
	if err := r.db.Where("client_id = ?", clientID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MenuRepository) MealsByClient(clientID uint) ([]models.Meal, error) {
	var rows []models.Meal
	if err := r.db.Where("client_id = ?", clientID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ModifiersByClients loads the modifiers of every client in the list;
// modifiers are shared per project, so callers pass the project's client ids.
func (r *MenuRepository) ModifiersByClients(clientIDs []uint) ([]models.Modifier, error) {
	var rows []models.Modifier
	if err := r.db.Where("client_id IN ?", clientIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MenuRepository) ModifierGroupsByClients(clientIDs []uint) ([]models.ModifierGroup, error) {
	var rows []models.ModifierGroup
	if err := r.db.Where("client_id IN ?", clientIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MenuRepository) MealOffersByShop(shopID uint) ([]models.MealOffer, error) {
	var rows []models.MealOffer
	if err := r.db.Where("shop_id = ?", shopID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MenuRepository) ModifierOffersByShop(shopID uint) ([]models.ModifierOffer, error) {
	var rows []models.ModifierOffer
	if err := r.db.Where("shop_id = ?", shopID).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *MenuRepository) CreateCategories(rows []models.Category) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) CreateMeals(rows []models.Meal) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) CreateModifiers(rows []models.Modifier) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) CreateModifierGroups(rows []models.ModifierGroup) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) CreateMealOffers(rows []models.MealOffer) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) CreateModifierOffers(rows []models.ModifierOffer) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.Create(&rows).Error
}

func (r *MenuRepository) SaveMeal(meal *models.Meal) error {
	return r.db.Save(meal).Error
}

// MealByStarterID resolves an inbound order line to the mirrored meal.
func (r *MenuRepository) MealByStarterID(clientID uint, starterID int) (*models.Meal, error) {
	var meal models.Meal
	err := r.db.Where("client_id = ? AND starter_id = ?", clientID, starterID).First(&meal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityMeal, strconv.Itoa(starterID))
	}
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// ModifierByStarterID resolves an inbound order modifier. Modifiers are
// shared per project, so the lookup spans the given client ids.
func (r *MenuRepository) ModifierByStarterID(clientIDs []uint, starterID int) (*models.Modifier, error) {
	var modifier models.Modifier
	err := r.db.Where("client_id IN ? AND starter_id = ?", clientIDs, starterID).First(&modifier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityModifier, strconv.Itoa(starterID))
	}
	if err != nil {
		return nil, err
	}
	return &modifier, nil
}
