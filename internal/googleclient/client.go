package googleclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"

	"github.com/vipul43/classmate-sync/internal/service"
)

const (
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	DefaultAuthURL  = "https://accounts.google.com/o/oauth2/auth"
)

// Scopes requested during the connect flow.
var Scopes = []string{
	calendar.CalendarScope,
	tasks.TasksScope,
}

type Options struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	TokenURL     string
	// CalendarEndpoint and TasksEndpoint override the API base paths.
	CalendarEndpoint string
	TasksEndpoint    string
	// HTTPClient is the base transport for token and API calls.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Google Calendar and Tasks APIs. It holds no per-user
// state: every API call is made with the access token passed to it.
type Client struct {
	oauth            *oauth2.Config
	calendarEndpoint string
	tasksEndpoint    string
	httpClient       *http.Client
	logger           *zap.Logger
}

func NewClient(opts Options) *Client {
	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		oauth: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   DefaultAuthURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		calendarEndpoint: opts.CalendarEndpoint,
		tasksEndpoint:    opts.TasksEndpoint,
		httpClient:       httpClient,
		logger:           logger,
	}
}

// withHTTPClient makes oauth2 use our base transport for token requests.
func (c *Client) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// bearerClient builds an HTTP client that sends accessToken on every request.
func (c *Client) bearerClient(ctx context.Context, accessToken string) *http.Client {
	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	return oauth2.NewClient(c.withHTTPClient(ctx), oauth2.StaticTokenSource(token))
}

func (c *Client) calendarService(ctx context.Context, accessToken string) (*calendar.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(c.bearerClient(ctx, accessToken))}
	if c.calendarEndpoint != "" {
		opts = append(opts, option.WithEndpoint(c.calendarEndpoint))
	}
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}
	return svc, nil
}

func (c *Client) tasksService(ctx context.Context, accessToken string) (*tasks.Service, error) {
	opts := []option.ClientOption{option.WithHTTPClient(c.bearerClient(ctx, accessToken))}
	if c.tasksEndpoint != "" {
		opts = append(opts, option.WithEndpoint(c.tasksEndpoint))
	}
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}
	return svc, nil
}

// RefreshAccessToken exchanges a refresh token for a new access token.
// Exactly one request is made to the token endpoint.
func (c *Client) RefreshAccessToken(ctx context.Context, refreshToken string) (*service.TokenRefreshResult, error) {
	token := &oauth2.Token{
		RefreshToken: refreshToken,
	}

	newToken, err := c.oauth.TokenSource(c.withHTTPClient(ctx), token).Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	result := &service.TokenRefreshResult{
		AccessToken: newToken.AccessToken,
		ExpiresAt:   newToken.Expiry,
	}

	// Check if refresh token was rotated
	if newToken.RefreshToken != "" && newToken.RefreshToken != refreshToken {
		result.RefreshToken = newToken.RefreshToken
	} else {
		result.RefreshToken = refreshToken // Keep the same refresh token
	}

	c.logger.Debug("token refreshed", zap.Time("expires_at", result.ExpiresAt))

	return result, nil
}

// AuthCodeURL returns the consent URL for the first step of the connect flow.
// Offline access with forced consent makes Google return a refresh token.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades a one-time authorization code for a token triple.
func (c *Client) Exchange(ctx context.Context, code string) (*service.TokenRefreshResult, error) {
	token, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	result := &service.TokenRefreshResult{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		result.Scope = scope
	}
	return result, nil
}
