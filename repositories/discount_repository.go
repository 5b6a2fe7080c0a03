package repositories

import (
	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/models"
)

// DiscountRepository maps platform discount ids to rkeeper discount ids.
type DiscountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// ByClient returns every discount mapping of a tenant. An empty result is
// not an error: tenants without mappings fold everything into their
// default discount.
func (r *DiscountRepository) ByClient(clientID uint) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := r.db.Where("client_id = ?", clientID).Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *DiscountRepository) Create(discount *models.Discount) error {
	return r.db.Create(discount).Error
}

// ClearByClient removes every discount mapping of a tenant.
func (r *DiscountRepository) ClearByClient(clientID uint) error {
	return r.db.Where("client_id = ?", clientID).Delete(&models.Discount{}).Error
}
