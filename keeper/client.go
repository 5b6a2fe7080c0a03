package keeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/starterapp/rkeeper-adapter/utils"
)

var (
	// ErrKeeper covers transport failures and error envelopes from the POS.
	ErrKeeper = errors.New("rkeeper error")
	// ErrInvalidCredentials means the POS auth server rejected the tenant's
	// client credentials.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrKeeper)
)

// tokenExpirySlack renews the cached token this long before it expires.
const tokenExpirySlack = 30 * time.Second

// Client talks to the rkeeper delivery API on behalf of one tenant,
// authenticating with OAuth client credentials and caching the token until
// shortly before expiry.
type Client struct {
	baseURL      string
	authURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(baseURL, authURL, clientID, clientSecret string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		authURL:      authURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

// envelope is the response wrapper every rkeeper endpoint uses: either a
// result or an error list with a message.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Errors json.RawMessage `json:"errors"`
	Msg    string          `json:"msg"`
}

func (e *envelope) err() error {
	if len(e.Errors) == 0 || string(e.Errors) == "null" {
		return nil
	}
	if e.Msg != "" {
		return fmt.Errorf("%w: %s", ErrKeeper, e.Msg)
	}
	return fmt.Errorf("%w: %s", ErrKeeper, string(e.Errors))
}

func (c *Client) GetShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	if err := c.call(ctx, http.MethodGet, "restaurants", nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// GetMenu fetches the tenant's full catalog feed and normalizes duplicate
// pos ids away.
func (c *Client) GetMenu(ctx context.Context) (*Menu, error) {
	var menu Menu
	if err := c.call(ctx, http.MethodGet, "menu", nil, &menu); err != nil {
		return nil, err
	}
	menu.Normalize()
	return &menu, nil
}

// GetLimitList fetches the current quantity caps. Failures are tolerated:
// the catalog sync proceeds as if nothing were limited.
func (c *Client) GetLimitList(ctx context.Context) []LimitedListItem {
	var items []LimitedListItem
	if err := c.call(ctx, http.MethodGet, "limitList", nil, &items); err != nil {
		utils.ErrorLogger.WithError(err).Warn("Limited list unavailable, assuming no limits")
		return nil
	}
	return items
}

// GetOrderStatuses polls the lifecycle state of the given POS orders.
func (c *Client) GetOrderStatuses(ctx context.Context, posOrderIDs []string) ([]OrderStatusInfo, error) {
	if len(posOrderIDs) == 0 {
		return nil, nil
	}
	payload := map[string][]string{"orderIds": posOrderIDs}
	var statuses []OrderStatusInfo
	if err := c.call(ctx, http.MethodPost, "orders/statuses", payload, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// PreliminaryCalculation asks the POS loyalty engine how many bonuses the
// guest may spend on this draft.
func (c *Client) PreliminaryCalculation(ctx context.Context, draft *PreliminaryOrder) (*LoyaltyCalculation, error) {
	var calc LoyaltyCalculation
	if err := c.call(ctx, http.MethodPost, "orders/loyalty/calculation", draft, &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

// CreateOrder submits the order and returns the POS order id.
func (c *Client) CreateOrder(ctx context.Context, order *Order) (string, error) {
	var result struct {
		OrderID string `json:"orderId"`
	}
	if err := c.call(ctx, http.MethodPost, "orders", order, &result); err != nil {
		return "", err
	}
	if result.OrderID == "" {
		return "", fmt.Errorf("%w: order accepted without an id", ErrKeeper)
	}
	return result.OrderID, nil
}

// PayOrder marks an already created order as paid. The POS expects a
// payment list; the zero amount closes the order against the online
// payment it already knows about.
func (c *Client) PayOrder(ctx context.Context, posOrderID string, currencyCode string) error {
	payload := []map[string]interface{}{{
		"code":   currencyCode,
		"amount": 0.0,
		"paidAt": time.Now().Format(time.RFC3339),
		"name":   "",
	}}
	return c.call(ctx, http.MethodPut, fmt.Sprintf("orders/%s/pay", posOrderID), payload, nil)
}

// call performs one authenticated request and unwraps the response
// envelope into out.
func (c *Client) call(ctx context.Context, method, path string, payload, out interface{}) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrKeeper, err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	endpoint, err := c.resolve(path)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrInvalidCredentials
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: %s returned %d", ErrKeeper, path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	if err := env.err(); err != nil {
		return err
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	return nil
}

// accessToken returns the cached OAuth token, renewing it when it is about
// to expire.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenExpirySlack)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return "", ErrInvalidCredentials
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: auth returned %d", ErrKeeper, resp.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	if tok.AccessToken == "" {
		return "", ErrInvalidCredentials
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) resolve(path string) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeeper, err)
	}
	return base.ResolveReference(ref).String(), nil
}
