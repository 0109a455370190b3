// Package identity реализует ports.IdentityProvider поверх Keycloak-совместимого API.
//
// Две группы операций:
//   - OpenID Connect (token, refresh, logout, introspect) от имени клиента приложения
//   - Admin REST API (пользователи, роли, пароли) с admin токеном, который
//     кэшируется и обновляется перед истечением
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Haleralex/paytogether/internal/application/ports"
	domainErrors "github.com/Haleralex/paytogether/internal/domain/errors"
	"github.com/Haleralex/paytogether/internal/domain/validators"
)

// Error codes returned to clients.
const (
	CodeInvalidCredentials = "auth.identifiants.invalides"
	CodeInvalidRefresh     = "auth.refresh.invalide"
	CodeRoleNotFound       = "utilisateur.role.inconnu"
)

// adminTokenLeeway - admin токен обновляется заранее.
const adminTokenLeeway = 30 * time.Second

var _ ports.IdentityProvider = (*Client)(nil)

// Config - настройки подключения к identity provider.
type Config struct {
	BaseURL       string
	Realm         string
	ClientID      string
	ClientSecret  string
	AdminRealm    string
	AdminClientID string
	AdminUsername string
	AdminPassword string
	Timeout       time.Duration
}

// Client - HTTP клиент identity provider. Безопасен для конкурентного использования.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time

	mu          sync.Mutex
	adminToken  string
	adminExpiry time.Time
}

// NewClient создаёт клиент. Подключение не проверяется до первого запроса.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.AdminRealm == "" {
		cfg.AdminRealm = "master"
	}
	if cfg.AdminClientID == "" {
		cfg.AdminClientID = "admin-cli"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
		now:    time.Now,
	}
}

// ============================================
// Wire types
// ============================================

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int    `json:"expires_in"`
	RefreshExpiresIn int    `json:"refresh_expires_in"`
	TokenType        string `json:"token_type"`
}

func (t tokenResponse) toTokenSet() *ports.TokenSet {
	return &ports.TokenSet{
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		ExpiresIn:        time.Duration(t.ExpiresIn) * time.Second,
		RefreshExpiresIn: time.Duration(t.RefreshExpiresIn) * time.Second,
		TokenType:        t.TokenType,
	}
}

type credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type userRepresentation struct {
	Username      string       `json:"username,omitempty"`
	Email         string       `json:"email,omitempty"`
	FirstName     string       `json:"firstName,omitempty"`
	LastName      string       `json:"lastName,omitempty"`
	Enabled       *bool        `json:"enabled,omitempty"`
	EmailVerified bool         `json:"emailVerified,omitempty"`
	Credentials   []credential `json:"credentials,omitempty"`
}

type roleRepresentation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// httpError - неуспешный ответ identity provider.
type httpError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("identity provider: %s %s: status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// ============================================
// OpenID Connect
// ============================================

func (c *Client) realmURL(realm string, parts ...string) string {
	return c.cfg.BaseURL + "/" + path.Join(append([]string{"realms", realm, "protocol", "openid-connect"}, parts...)...)
}

func (c *Client) adminURL(parts ...string) string {
	return c.cfg.BaseURL + "/" + path.Join(append([]string{"admin", "realms", c.cfg.Realm}, parts...)...)
}

func (c *Client) clientForm(extra url.Values) url.Values {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}
	for k, v := range extra {
		form[k] = v
	}
	return form
}

// Token выдаёт токены по логину и паролю (password grant).
func (c *Client) Token(ctx context.Context, username, password string) (*ports.TokenSet, error) {
	var tok tokenResponse
	err := c.postForm(ctx, c.realmURL(c.cfg.Realm, "token"), c.clientForm(url.Values{
		"grant_type": {"password"},
		"username":   {username},
		"password":   {password},
		"scope":      {"openid"},
	}), &tok)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized, http.StatusBadRequest) {
			return nil, domainErrors.NewUnauthorizedError(CodeInvalidCredentials)
		}
		return nil, err
	}
	return tok.toTokenSet(), nil
}

// Refresh обменивает refresh token на новую пару токенов.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*ports.TokenSet, error) {
	var tok tokenResponse
	err := c.postForm(ctx, c.realmURL(c.cfg.Realm, "token"), c.clientForm(url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}), &tok)
	if err != nil {
		if isStatus(err, http.StatusUnauthorized, http.StatusBadRequest) {
			return nil, domainErrors.NewUnauthorizedError(CodeInvalidRefresh)
		}
		return nil, err
	}
	return tok.toTokenSet(), nil
}

// Logout завершает сессию, связанную с refresh token.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.postForm(ctx, c.realmURL(c.cfg.Realm, "logout"), c.clientForm(url.Values{
		"refresh_token": {refreshToken},
	}), nil)
}

// Introspect проверяет, активен ли access token у провайдера.
func (c *Client) Introspect(ctx context.Context, accessToken string) (bool, error) {
	var res struct {
		Active bool `json:"active"`
	}
	err := c.postForm(ctx, c.realmURL(c.cfg.Realm, "token", "introspect"), c.clientForm(url.Values{
		"token": {accessToken},
	}), &res)
	if err != nil {
		return false, err
	}
	return res.Active, nil
}

// ============================================
// Admin API
// ============================================

// CreateUser создаёт аккаунт и возвращает его ID из заголовка Location.
func (c *Client) CreateUser(ctx context.Context, account ports.IdentityAccount) (string, error) {
	enabled := account.Enabled
	rep := userRepresentation{
		Username:      account.Username,
		Email:         account.Email,
		FirstName:     account.FirstName,
		LastName:      account.LastName,
		Enabled:       &enabled,
		EmailVerified: true,
	}
	if account.Password != "" {
		rep.Credentials = []credential{{Type: "password", Value: account.Password}}
	}

	resp, err := c.adminDo(ctx, http.MethodPost, c.adminURL("users"), rep)
	if err != nil {
		if isStatus(err, http.StatusConflict) {
			return "", domainErrors.NewDuplicateError(validators.CodeUserEmailExists, account.Email)
		}
		return "", err
	}

	location := resp.Header.Get("Location")
	id := path.Base(location)
	if location == "" || id == "." || id == "/" {
		return "", fmt.Errorf("identity provider: create user: missing Location header")
	}
	return id, nil
}

// UpdateUser обновляет профиль аккаунта.
func (c *Client) UpdateUser(ctx context.Context, externalID string, account ports.IdentityAccount) error {
	enabled := account.Enabled
	_, err := c.adminDo(ctx, http.MethodPut, c.adminURL("users", externalID), userRepresentation{
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		Enabled:   &enabled,
	})
	return err
}

// DeleteUser удаляет аккаунт. Уже удалённый аккаунт не считается ошибкой.
func (c *Client) DeleteUser(ctx context.Context, externalID string) error {
	_, err := c.adminDo(ctx, http.MethodDelete, c.adminURL("users", externalID), nil)
	if isStatus(err, http.StatusNotFound) {
		return nil
	}
	return err
}

// AssignRealmRole назначает роль realm'а аккаунту.
func (c *Client) AssignRealmRole(ctx context.Context, externalID, role string) error {
	resp, err := c.adminDo(ctx, http.MethodGet, c.adminURL("roles", role), nil)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return domainErrors.NewValidationError(CodeRoleNotFound, role)
		}
		return err
	}
	var rep roleRepresentation
	if err := decodeBody(resp, &rep); err != nil {
		return err
	}

	_, err = c.adminDo(ctx, http.MethodPost, c.adminURL("users", externalID, "role-mappings", "realm"), []roleRepresentation{rep})
	return err
}

// ResetPassword задаёт новый пароль; temporary требует смены при следующем входе.
func (c *Client) ResetPassword(ctx context.Context, externalID, password string, temporary bool) error {
	_, err := c.adminDo(ctx, http.MethodPut, c.adminURL("users", externalID, "reset-password"), credential{
		Type:      "password",
		Value:     password,
		Temporary: temporary,
	})
	return err
}

// SetEnabled включает или блокирует аккаунт.
func (c *Client) SetEnabled(ctx context.Context, externalID string, enabled bool) error {
	_, err := c.adminDo(ctx, http.MethodPut, c.adminURL("users", externalID), userRepresentation{Enabled: &enabled})
	return err
}

// adminAccessToken возвращает кэшированный admin токен или получает новый.
func (c *Client) adminAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adminToken != "" && c.now().Before(c.adminExpiry) {
		return c.adminToken, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"client_id":  {c.cfg.AdminClientID},
		"username":   {c.cfg.AdminUsername},
		"password":   {c.cfg.AdminPassword},
	}
	var tok tokenResponse
	if err := c.postForm(ctx, c.realmURL(c.cfg.AdminRealm, "token"), form, &tok); err != nil {
		return "", fmt.Errorf("admin login failed: %w", err)
	}

	c.adminToken = tok.AccessToken
	c.adminExpiry = c.now().Add(time.Duration(tok.ExpiresIn)*time.Second - adminTokenLeeway)
	c.logger.Debug("identity provider admin token refreshed", zap.Time("expires_at", c.adminExpiry))
	return c.adminToken, nil
}

func (c *Client) invalidateAdminToken() {
	c.mu.Lock()
	c.adminToken = ""
	c.mu.Unlock()
}

// adminDo выполняет запрос Admin API. При 401 токен сбрасывается и запрос повторяется один раз.
func (c *Client) adminDo(ctx context.Context, method, rawURL string, body any) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
	}

	for attempt := 0; ; attempt++ {
		token, err := c.adminAccessToken(ctx)
		if err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.send(req)
		if isStatus(err, http.StatusUnauthorized) && attempt == 0 {
			c.invalidateAdminToken()
			continue
		}
		return resp, err
	}
}

func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeBody(resp, out)
}

// send выполняет запрос; тело неуспешного ответа попадает в httpError.
// Для успешного ответа тело буферизуется, чтобы соединение вернулось в пул.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("identity provider: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &httpError{Method: req.Method, URL: req.URL.Path, Status: resp.StatusCode, Body: string(data)}
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

func decodeBody(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("identity provider: decode response: %w", err)
	}
	return nil
}

func isStatus(err error, statuses ...int) bool {
	he, ok := err.(*httpError)
	if !ok {
		return false
	}
	for _, s := range statuses {
		if he.Status == s {
			return true
		}
	}
	return false
}
