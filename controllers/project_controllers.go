package controllers

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/services"
	"github.com/starterapp/rkeeper-adapter/utils"
)

type ProjectController struct {
	clients  *repositories.ClientRepository
	transfer *services.MenuTransferService
	sync     *services.SyncService
	newGW    services.GatewayFactory
}

func NewProjectController(
	clients *repositories.ClientRepository,
	transfer *services.MenuTransferService,
	syncSvc *services.SyncService,
	newGW services.GatewayFactory,
) *ProjectController {
	return &ProjectController{
		clients:  clients,
		transfer: transfer,
		sync:     syncSvc,
		newGW:    newGW,
	}
}

// HandleCreateProject registers a tenant from a platform settings webhook.
// The platform fires this webhook to every adapter instance at once; the
// random delay spreads the resulting registration burst, and a client that
// already exists is a no-op.
func (pc *ProjectController) HandleCreateProject(c *gin.Context) {
	if gin.Mode() != gin.TestMode {
		time.Sleep(time.Duration(1+rand.Intn(5)) * time.Second)
	}

	var req gateway.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client, created, err := pc.clients.GetOrCreate(req.Project, req.APIKey, req.Data)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !created {
		utils.RespondJSON(c, http.StatusOK, "Client already registered", gin.H{"client_id": client.ClientID})
		return
	}

	if err := pc.transfer.TransferToClient(client); err != nil {
		utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Catalog transfer failed")
	}

	gw := pc.newGW(client.APIKey)
	if err := gw.RegisterWebhook(c.Request.Context()); err != nil {
		utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Order webhook registration failed")
	}
	if err := gw.RegisterSettingsWebhook(c.Request.Context()); err != nil {
		utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Settings webhook registration failed")
	}

	go pc.initialSync(client)

	utils.InfoLogger.Printf("Client %s registered for project %s", client.ClientID, req.Project)
	utils.RespondJSON(c, http.StatusCreated, "Client registered", gin.H{"client_id": client.ClientID})
}

// initialSync fills the platform catalog of a freshly registered tenant.
func (pc *ProjectController) initialSync(client *models.Client) {
	ctx := context.Background()
	if err := pc.sync.SyncShops(ctx, client); err != nil {
		utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Initial shop sync failed")
		return
	}
	if err := pc.sync.SyncMenu(ctx, client); err != nil {
		utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Initial menu sync failed")
	}
}

// HandleUpdateProject applies changed tenant settings.
func (pc *ProjectController) HandleUpdateProject(c *gin.Context) {
	var req gateway.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	client, err := pc.clients.ByClientID(req.ClientID)
	if err != nil {
		if models.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	if err := pc.clients.UpdateSettings(client, req); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// A tenant joining a project for the first time inherits the sibling
	// catalog mappings.
	if client.ProjectID == nil && req.ProjectName != "" {
		if err := pc.clients.AttachProject(client, req.ProjectName); err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if err := pc.transfer.TransferToClient(client); err != nil {
			utils.ErrorLogger.WithError(err).WithField("client_id", client.ClientID).Error("Catalog transfer failed")
		}
	}
	utils.RespondJSON(c, http.StatusOK, "Client settings updated", gin.H{"client_id": client.ClientID})
}
