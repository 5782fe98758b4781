// Package client is the typed data layer front-ends build on: an API client
// mirroring every backend operation, and a Store that keeps the fetched
// collections in memory and folds mutation results back in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"server/internal/domain"
)

// Options configures the API client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// Client performs HTTP calls against the REST API. Safe for concurrent use;
// the token can change mid-flight (login, logout) while requests are issued
// from other goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// APIError is a non-2xx response decoded into the API's {"message"} shape.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps well-known statuses onto the domain sentinels, so callers can
// branch with errors.Is instead of inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// Session is the payload of a successful register or login.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		token:      opts.Token,
	}
}

// SetToken switches the bearer token attached to subsequent requests.
// Pass "" to drop back to anonymous calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Register(ctx context.Context, name, email, password string) (Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"name": name, "email": email, "password": password}, &session)
	return session, err
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &session)
	return session, err
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &user)
	return user, err
}

// ForgotPassword returns the server's generic message and, when the account
// exists, the raw reset token.
func (c *Client) ForgotPassword(ctx context.Context, email string) (message, resetToken string, err error) {
	var resp struct {
		Message    string `json:"message"`
		ResetToken string `json:"resetToken"`
	}
	err = c.do(ctx, http.MethodPost, "/api/auth/forgot-password", map[string]string{"email": email}, &resp)
	return resp.Message, resp.ResetToken, err
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/reset-password/"+token,
		map[string]string{"password": password}, nil)
}

func (c *Client) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	var campaigns []domain.Campaign
	err := c.do(ctx, http.MethodGet, "/api/campaigns", nil, &campaigns)
	return campaigns, err
}

func (c *Client) GetCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := c.do(ctx, http.MethodGet, "/api/campaigns/"+id, nil, &campaign)
	return campaign, err
}

// NewCampaign carries the caller-supplied fields of a campaign submission.
type NewCampaign struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"shortDescription"`
	Goal             float64 `json:"goal"`
	Category         string  `json:"category"`
	Image            string  `json:"image"`
	Location         string  `json:"location"`
}

func (c *Client) CreateCampaign(ctx context.Context, in NewCampaign) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := c.do(ctx, http.MethodPost, "/api/campaigns", in, &campaign)
	return campaign, err
}

func (c *Client) SetCampaignStatus(ctx context.Context, id string, status domain.Status) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := c.do(ctx, http.MethodPatch, "/api/campaigns/"+id+"/status",
		map[string]string{"status": string(status)}, &campaign)
	return campaign, err
}

func (c *Client) JoinCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := c.do(ctx, http.MethodPost, "/api/campaigns/"+id+"/join", nil, &campaign)
	return campaign, err
}

func (c *Client) ShareCampaign(ctx context.Context, id string) (domain.Campaign, error) {
	var campaign domain.Campaign
	err := c.do(ctx, http.MethodPost, "/api/campaigns/"+id+"/share", nil, &campaign)
	return campaign, err
}

func (c *Client) ListBusinesses(ctx context.Context) ([]domain.BusinessPromotion, error) {
	var businesses []domain.BusinessPromotion
	err := c.do(ctx, http.MethodGet, "/api/businesses", nil, &businesses)
	return businesses, err
}

func (c *Client) GetBusiness(ctx context.Context, id string) (domain.BusinessPromotion, error) {
	var business domain.BusinessPromotion
	err := c.do(ctx, http.MethodGet, "/api/businesses/"+id, nil, &business)
	return business, err
}

// NewBusiness carries the caller-supplied fields of a promotion submission.
type NewBusiness struct {
	BusinessName string `json:"businessName"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	Website      string `json:"website,omitempty"`
	Location     string `json:"location"`
}

func (c *Client) CreateBusiness(ctx context.Context, in NewBusiness) (domain.BusinessPromotion, error) {
	var business domain.BusinessPromotion
	err := c.do(ctx, http.MethodPost, "/api/businesses", in, &business)
	return business, err
}

func (c *Client) SetBusinessStatus(ctx context.Context, id string, status domain.Status) (domain.BusinessPromotion, error) {
	var business domain.BusinessPromotion
	err := c.do(ctx, http.MethodPatch, "/api/businesses/"+id+"/status",
		map[string]string{"status": string(status)}, &business)
	return business, err
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, &categories)
	return categories, err
}

// NewDonation carries the caller-supplied fields of a donation.
type NewDonation struct {
	CampaignID  string  `json:"campaignId"`
	Amount      float64 `json:"amount"`
	DisplayName string  `json:"displayName"`
	Message     string  `json:"message,omitempty"`
}

func (c *Client) Donate(ctx context.Context, in NewDonation) (domain.Donation, error) {
	var donation domain.Donation
	err := c.do(ctx, http.MethodPost, "/api/donations", in, &donation)
	return donation, err
}

func (c *Client) DonationsByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	var donations []domain.Donation
	err := c.do(ctx, http.MethodGet, "/api/donations/campaign/"+campaignID, nil, &donations)
	return donations, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	var payload struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if payload.Message != "" {
			apiErr.Message = payload.Message
		} else if len(payload.Errors) > 0 {
			apiErr.Message = payload.Errors[0].Message
		}
	}
	return apiErr
}
