package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starterapp/rkeeper-adapter/models"
)

func projectPayload() []byte {
	payload := map[string]interface{}{
		"project": "coffee-chain",
		"apiKey":  "api-key-9",
		"data": map[string]interface{}{
			"clientId":     "client-9",
			"clientSecret": "secret-9",
			"currencyCode": "RUB",
			"isUseLoyalty": true,
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func postProject(env *testEnv, body []byte) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/api/project", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func TestProjectWebhookRegistersClient(t *testing.T) {
	env := setupEnv()

	w := postProject(env, projectPayload())
	assert.Equal(t, http.StatusCreated, w.Code)

	var client models.Client
	assert.NoError(t, env.db.Where("client_id = ?", "client-9").First(&client).Error)
	assert.Equal(t, "api-key-9", client.APIKey)
	assert.True(t, client.IsUseLoyalty)
	assert.NotNil(t, client.ProjectID)

	var project models.Project
	assert.NoError(t, env.db.First(&project, *client.ProjectID).Error)
	assert.Equal(t, "coffee-chain", project.Title)

	assert.Equal(t, 1, env.gw.webhooks)
	assert.Equal(t, 1, env.gw.settingsWebhooks)
}

func TestProjectWebhookDuplicateIsNoOp(t *testing.T) {
	env := setupEnv()

	first := postProject(env, projectPayload())
	assert.Equal(t, http.StatusCreated, first.Code)

	second := postProject(env, projectPayload())
	assert.Equal(t, http.StatusOK, second.Code)

	var count int64
	env.db.Model(&models.Client{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, 1, env.gw.webhooks, "webhooks are not re-registered for a known client")
}

func TestProjectSettingsUpdate(t *testing.T) {
	env := setupEnv()
	assert.Equal(t, http.StatusCreated, postProject(env, projectPayload()).Code)

	update := map[string]interface{}{
		"projectName":                "coffee-chain",
		"clientId":                   "client-9",
		"currencyCode":               "KZT",
		"rkeeperDiscountId":          7,
		"isUseLoyalty":               false,
		"isSplitOrderItemsForKeeper": true,
	}
	body, _ := json.Marshal(update)
	req, _ := http.NewRequest("PUT", "/api/project", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var client models.Client
	assert.NoError(t, env.db.Where("client_id = ?", "client-9").First(&client).Error)
	assert.Equal(t, "KZT", client.CurrencyCode)
	assert.False(t, client.IsUseLoyalty)
	assert.True(t, client.IsSplitOrderItemsForKeeper)
	assert.NotNil(t, client.DiscountID)
	assert.Equal(t, 7, *client.DiscountID)
}

func TestProjectSettingsUpdateUnknownClient(t *testing.T) {
	env := setupEnv()

	body, _ := json.Marshal(map[string]interface{}{"clientId": "ghost"})
	req, _ := http.NewRequest("PUT", "/api/project", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
