package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starterapp/rkeeper-adapter/gateway"
	"github.com/starterapp/rkeeper-adapter/keeper"
	"github.com/starterapp/rkeeper-adapter/middlewares"
	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/services"
	"github.com/starterapp/rkeeper-adapter/utils"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// HandleOrderWebhook accepts one platform order. Re-deliveries of an order
// already accepted answer with its global id and create nothing.
func (oc *OrderController) HandleOrderWebhook(c *gin.Context) {
	client, ok := middlewares.ClientFromContext(c)
	if !ok {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("client missing from context"))
		return
	}

	var in gateway.InboundOrder
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if in.StarterID == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order id missing"))
		return
	}

	posID, created, err := oc.orders.Ingest(c.Request.Context(), client, &in)
	if err != nil {
		switch {
		case models.IsNotFound(err):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, keeper.ErrDeliveryType), errors.Is(err, keeper.ErrPaymentType):
			utils.RespondError(c, http.StatusBadRequest, err)
		case errors.Is(err, keeper.ErrInvalidCredentials):
			utils.RespondError(c, http.StatusForbidden, err)
		default:
			utils.RespondError(c, http.StatusBadGateway, err)
		}
		return
	}

	payload := gin.H{"orderId": posID}
	if !created {
		utils.RespondJSON(c, http.StatusOK, "Order already accepted", payload)
		return
	}
	utils.InfoLogger.Printf("Order %s accepted for client %s as %s", in.StarterID, client.ClientID, posID)
	utils.RespondJSON(c, http.StatusCreated, "Order accepted", payload)
}
