package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starterapp/rkeeper-adapter/models"
	"github.com/starterapp/rkeeper-adapter/repositories"
	"github.com/starterapp/rkeeper-adapter/utils"
)

// ClientContextKey is where the resolved tenant lives in the gin context.
const ClientContextKey = "client"

// APIKeyAuth resolves the tenant from the gateway api key in the
// Authorization header. Webhook endpoints sit behind this.
func APIKeyAuth(clients *repositories.ClientRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("Authorization")
		if apiKey == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			c.Abort()
			return
		}

		client, err := clients.ByAPIKey(apiKey)
		if err != nil {
			if models.IsNotFound(err) {
				utils.RespondError(c, http.StatusForbidden, errors.New("unknown api key"))
			} else {
				utils.RespondError(c, http.StatusInternalServerError, err)
			}
			c.Abort()
			return
		}
		if !client.IsActive {
			utils.RespondError(c, http.StatusForbidden, errors.New("client is disabled"))
			c.Abort()
			return
		}

		c.Set(ClientContextKey, client)
		c.Next()
	}
}

// ClientFromContext fetches the tenant set by APIKeyAuth.
func ClientFromContext(c *gin.Context) (*models.Client, bool) {
	value, ok := c.Get(ClientContextKey)
	if !ok {
		return nil, false
	}
	client, ok := value.(*models.Client)
	return client, ok
}
