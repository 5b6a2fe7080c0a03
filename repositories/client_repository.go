package repositories

import (
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/models"
)

// ClientRepository handles tenants, their projects and their shops.
type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// ActiveClients returns every tenant the schedulers should process.
func (r *ClientRepository) ActiveClients() ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Where("is_active = ?", true).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) ByClientID(clientID string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("client_id = ?", clientID).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityClient, clientID)
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *ClientRepository) ByAPIKey(apiKey string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("api_key = ?", apiKey).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityClient, "api key")
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ProjectClients returns every client attached to the project, the scope
// over which modifiers and groups are deduplicated.
func (r *ClientRepository) ProjectClients(projectID uint) ([]models.Client, error) {
	var clients []models.Client
	if err := r.db.Where("project_id = ?", projectID).Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

// GetOrCreate resolves the tenant for a project-settings webhook. The
// returned flag reports whether the client was created by this call.
func (r *ClientRepository) GetOrCreate(projectTitle string, apiKey string, settings gateway.ProjectSettings) (*models.Client, bool, error) {
	var client models.Client
	err := r.db.Where("client_id = ?", settings.ClientID).First(&client).Error
	if err == nil {
		return &client, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	var project models.Project
	err = r.db.Where("title = ?", projectTitle).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		project = models.Project{Title: projectTitle}
		err = r.db.Create(&project).Error
	}
	if err != nil {
		return nil, false, err
	}

	client = models.Client{
		ClientID:     settings.ClientID,
		ClientSecret: settings.ClientSecret,
		APIKey:       apiKey,
		IsActive:     true,
		CurrencyCode: settings.CurrencyCode,
		DiscountID:   settings.DiscountID,

		IsUseLoyalty:               settings.IsUseLoyalty,
		IsSplitOrderItemsForKeeper: settings.IsSplitOrderItemsForKeeper,
		IsUseModifierExternalID:    settings.IsUseModifierExternalID,

		ProjectID: &project.ID,
	}
	if err := r.db.Create(&client).Error; err != nil {
		return nil, false, err
	}
	return &client, true, nil
}

// UpdateSettings applies a project-settings webhook to an existing tenant.
func (r *ClientRepository) UpdateSettings(client *models.Client, req gateway.UpdateProjectRequest) error {
	client.CurrencyCode = req.CurrencyCode
	client.DiscountID = req.DiscountID
	client.IsUseLoyalty = req.IsUseLoyalty
	client.IsSplitOrderItemsForKeeper = req.IsSplitOrderItemsForKeeper
	client.IsUseModifierExternalID = req.IsUseModifierExternalID
	return r.db.Save(client).Error
}

// AttachProject links a tenant to a project, creating the project when it
// does not exist yet.
func (r *ClientRepository) AttachProject(client *models.Client, title string) error {
	var project models.Project
	err := r.db.Where("title = ?", title).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		project = models.Project{Title: title}
		err = r.db.Create(&project).Error
	}
	if err != nil {
		return err
	}
	client.ProjectID = &project.ID
	return r.db.Save(client).Error
}

func (r *ClientRepository) Save(client *models.Client) error {
	return r.db.Save(client).Error
}

// RemoveClient deletes a tenant together with its whole catalog mirror.
// Offer rows go with their shops via the foreign keys; the rest is removed
// explicitly so the order does not depend on database cascade support.
func (r *ClientRepository) RemoveClient(clientID string) error {
	client, err := r.ByClientID(clientID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		shopIDs := tx.Model(&models.Shop{}).Select("id").Where("client_id = ?", client.ID)
		if err := tx.Where("shop_id IN (?)", shopIDs).Delete(&models.MealOffer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("shop_id IN (?)", shopIDs).Delete(&models.ModifierOffer{}).Error; err != nil {
			return err
		}
		for _, model := range []interface{}{
			&models.Order{}, &models.Discount{}, &models.Meal{}, &models.Category{},
			&models.ModifierGroup{}, &models.Modifier{}, &models.Shop{},
		} {
			if err := tx.Where("client_id = ?", client.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(client).Error
	})
}

func (r *ClientRepository) Shops(clientID uint) ([]models.Shop, error) {
	var shops []models.Shop
	if err := r.db.Where("client_id = ?", clientID).Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *ClientRepository) ShopByStarterID(clientID uint, starterID int) (*models.Shop, error) {
	var shop models.Shop
	err := r.db.Where("client_id = ? AND starter_id = ?", clientID, starterID).First(&shop).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFound(models.EntityShop, strconv.Itoa(starterID))
	}
	if err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *ClientRepository) CreateShop(shop *models.Shop) error {
	return r.db.Create(shop).Error
}
