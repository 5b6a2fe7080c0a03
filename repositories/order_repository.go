package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/models"
)

// OrderRepository handles the durable order journal.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *models.Order) error {
	return r.db.Create(order).Error
}

// ByGlobalID finds the journal row of one platform order; this is the
// durable half of the idempotency guard.
func (r *OrderRepository) ByGlobalID(clientID uint, globalID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Where("client_id = ? AND global_id = ?", clientID, globalID).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityOrder, globalID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// NotDone returns every order still in the active lifecycle; only these are
// polled during status reconciliation.
func (r *OrderRepository) NotDone(clientID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Where("client_id = ? AND done = ?", clientID, false).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepository) MarkDone(order *models.Order) error {
	order.Done = true
	return r.db.Model(order).Update("done", true).Error
}
