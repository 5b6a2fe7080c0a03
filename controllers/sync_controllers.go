package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/services"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// SyncController exposes the manual sync triggers used by operators when a
// tenant's catalog needs fixing outside the schedule.
type SyncController struct {
	sync    *services.SyncService
	clients *repositories.ClientRepository
}

func NewSyncController(syncSvc *services.SyncService, clients *repositories.ClientRepository) *SyncController {
	return &SyncController{sync: syncSvc, clients: clients}
}

func (sc *SyncController) TriggerShops(c *gin.Context) {
	sc.trigger(c, "shops", sc.sync.SyncShops, sc.sync.SyncShopsAll)
}

func (sc *SyncController) TriggerMenu(c *gin.Context) {
	sc.trigger(c, "menu", sc.sync.SyncMenu, sc.sync.SyncMenuAll)
}

func (sc *SyncController) TriggerOrderStatuses(c *gin.Context) {
	sc.trigger(c, "statuses", sc.sync.SyncOrderStatuses, sc.sync.SyncOrderStatusesAll)
}

// trigger runs one stream for the client named in the query, or for every
// active client when none is given. The sync runs in the background; the
// request answers immediately.
func (sc *SyncController) trigger(
	c *gin.Context,
	stream string,
	one func(context.Context, *models.Client) error,
	all func(context.Context),
) {
	clientID := c.Query("client_id")
	if clientID == "" {
		go all(context.Background())
		utils.RespondJSON(c, http.StatusAccepted, "Sync scheduled for all clients", gin.H{"stream": stream})
		return
	}

	client, err := sc.clients.ByClientID(clientID)
	if err != nil {
		if models.IsNotFound(err) {
			utils.RespondError(c, http.StatusNotFound, err)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	go func() {
		if err := one(context.Background(), client); err != nil {
			utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
				"client_id": client.ClientID,
				"stream":    stream,
			}).Error("Manual sync failed")
		}
	}()
	utils.RespondJSON(c, http.StatusAccepted, "Sync scheduled", gin.H{"stream": stream, "client_id": clientID})
}
