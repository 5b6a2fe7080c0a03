package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/starterapp/rkeeper-adapter/utils"
)

var (
	// ErrGateway covers transport failures and unexpected responses from the
	// platform gateway.
	ErrGateway = errors.New("pos gateway error")
	// ErrInvalidCredentials means the gateway rejected the tenant's api key.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrGateway)
)

// Client talks to the Starter POS gateway on behalf of one tenant. All
// catalog calls are batched: one request per entity kind carrying a list.
type Client struct {
	baseURL      string
	externalHost string
	apiKey       string
	httpClient   *http.Client
}

func NewClient(baseURL, externalHost, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		externalHost: externalHost,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateShops(ctx context.Context, shops []CreateShop) (ObjectOutList, error) {
	return c.postList(ctx, "shops", shops)
}

func (c *Client) UpdateShops(ctx context.Context, shops []UpdateShop) error {
	return c.putList(ctx, "shops", shops)
}

func (c *Client) CreateCategories(ctx context.Context, categories []CreateCategory) (ObjectOutList, error) {
	return c.postList(ctx, "categories", categories)
}

func (c *Client) UpdateCategories(ctx context.Context, categories []UpdateCategory) error {
	return c.putList(ctx, "categories", categories)
}

func (c *Client) CreateMeals(ctx context.Context, meals []CreateMeal) (ObjectOutList, error) {
	return c.postList(ctx, "meals", meals)
}

func (c *Client) UpdateMeals(ctx context.Context, meals []UpdateMeal) error {
	return c.putList(ctx, "meals", meals)
}

func (c *Client) CreateMealOffers(ctx context.Context, offers []CreateMealOffer, shopStarterID int) (ObjectOutList, error) {
	return c.postList(ctx, fmt.Sprintf("shop/%d/meals", shopStarterID), offers)
}

func (c *Client) UpdateMealOffers(ctx context.Context, offers []UpdateMealOffer, shopStarterID int) error {
	return c.putList(ctx, fmt.Sprintf("shop/%d/meals", shopStarterID), offers)
}

func (c *Client) CreateModifiers(ctx context.Context, modifiers []CreateModifier) (ObjectOutList, error) {
	return c.postList(ctx, "modifiers", modifiers)
}

func (c *Client) UpdateModifiers(ctx context.Context, modifiers []UpdateModifier) error {
	return c.putList(ctx, "modifiers", modifiers)
}

func (c *Client) CreateModifierGroups(ctx context.Context, groups []CreateModifierGroup) (ObjectOutList, error) {
	return c.postList(ctx, "modifier_groups", groups)
}

func (c *Client) UpdateModifierGroups(ctx context.Context, groups []UpdateModifierGroup) error {
	return c.putList(ctx, "modifier_groups", groups)
}

func (c *Client) CreateModifierOffers(ctx context.Context, offers []CreateModifierOffer) (ObjectOutList, error) {
	return c.postList(ctx, "modifier_offer", offers)
}

func (c *Client) UpdateModifierOffers(ctx context.Context, offers []UpdateModifierOffer) error {
	return c.putList(ctx, "modifier_offer", offers)
}

// RegisterWebhook points the gateway's order callback at this adapter.
func (c *Client) RegisterWebhook(ctx context.Context) error {
	return c.registerCallback(ctx, "set_webhook", "/api/order")
}

// RegisterSettingsWebhook points the gateway's project-settings callback at
// this adapter.
func (c *Client) RegisterSettingsWebhook(ctx context.Context) error {
	return c.registerCallback(ctx, "adapter/webhook", "/api/project")
}

// UpdateOrderStatuses patches the platform's view of each order. Individual
// failures are logged and skipped; pushing statuses is best effort.
func (c *Client) UpdateOrderStatuses(ctx context.Context, updates []OrderStatusUpdate) error {
	for _, update := range updates {
		body, err := json.Marshal(update)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGateway, err)
		}

		endpoint, err := c.resolve(fmt.Sprintf("order/%s/status", update.ID))
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrGateway, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			utils.ErrorLogger.WithError(err).WithField("order_id", update.ID).Error("Failed to push order status")
			continue
		}
		resp.Body.Close()
	}
	return nil
}

func (c *Client) registerCallback(ctx context.Context, path, callbackPath string) error {
	payload := map[string]string{
		"callbackUrl": fmt.Sprintf("https://%s%s", c.externalHost, callbackPath),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}

	endpoint, err := c.resolve(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: webhook registration returned %d", ErrGateway, resp.StatusCode)
	}
	return nil
}

// postList sends a create batch. An empty data array in the response means
// nothing was created, which is not an error.
func (c *Client) postList(ctx context.Context, path string, payload interface{}) (ObjectOutList, error) {
	resp, err := c.send(ctx, http.MethodPost, path, payload)
	if err != nil {
		return ObjectOutList{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ObjectOutList{}, ErrInvalidCredentials
	}

	var out ObjectOutList
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		utils.ErrorLogger.WithError(err).WithField("path", path).Error("Empty or malformed gateway response")
		return ObjectOutList{}, nil
	}
	return out, nil
}

func (c *Client) putList(ctx context.Context, path string, payload interface{}) error {
	resp, err := c.send(ctx, http.MethodPut, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	endpoint, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return resp, nil
}

func (c *Client) resolve(path string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGateway, err)
	}
	return base.ResolveReference(ref).String(), nil
}
