// Package auth acquires Microsoft Graph access tokens, through the identity
// broker when one is running and the device code flow otherwise.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cpuguy83/almanac"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	// D-Bus service details for Microsoft Identity Broker
	brokerService   = "com.microsoft.identity.broker1"
	brokerPath      = "/com/microsoft/identity/broker1"
	brokerInterface = "com.microsoft.identity.Broker1"

	// Broker protocol version - must be "0.0" for current broker
	brokerProtocolVersion = "0.0"

	// DefaultClientID is the Edge browser client ID, which works for SSO
	// and token acquisition.
	DefaultClientID = "d7b530a4-7680-4c23-a8bf-c52c121d2e87"

	// DefaultRedirectURI is the redirect URI for native apps.
	DefaultRedirectURI = "https://login.microsoftonline.com/common/oauth2/nativeclient"

	// DefaultAuthority is used when no tenant-specific realm is available.
	DefaultAuthority = "https://login.microsoftonline.com/common"

	// AuthTypeToken is the broker authorization type for token acquisition.
	AuthTypeToken = 1
)

var (
	ErrBrokerNotAvailable = errors.New("microsoft identity broker not available")
	ErrNoAccounts         = errors.New("no accounts found in broker")
	ErrAuthFailed         = errors.New("authentication failed")
)

// expiryMargin is how long before expiry a token stops being reused.
var expiryMargin = almanac.DurationFromObject(almanac.Values{almanac.Minute: 5})

// Token represents an OAuth2 access token.
type Token struct {
	AccessToken string
	ExpiresOn   almanac.DateTime
	AccountID   string
}

// Valid reports whether t can still be used at now.
func (t *Token) Valid(now almanac.DateTime) bool {
	if t == nil || t.AccessToken == "" || !t.ExpiresOn.IsValid() {
		return false
	}
	return now.Plus(expiryMargin).Before(t.ExpiresOn)
}

// Provider hands out access tokens.
type Provider interface {
	GetToken(ctx context.Context) (*Token, error)
	Close() error
}

// NewProvider returns the broker when it answers on the session bus and a
// device code client otherwise.
func NewProvider(ctx context.Context, clientID string, scopes []string) (Provider, error) {
	broker := NewBroker(clientID, scopes)
	if broker.IsAvailable(ctx) {
		slog.Info("using Microsoft Identity Broker for authentication")
		return broker, nil
	}
	broker.Close()

	slog.Info("broker not available, using device code flow")
	dc, err := NewDeviceCodeAuth(clientID, scopes)
	if err != nil {
		return nil, fmt.Errorf("initialize device code auth: %w", err)
	}
	return dc, nil
}

// Broker is a client for the Microsoft Identity Broker D-Bus service.
type Broker struct {
	conn      *dbus.Conn
	clientID  string
	scopes    []string
	sessionID string

	mu            sync.Mutex
	cachedToken   *Token
	cachedAccount map[string]any // Full account object from broker
}

// NewBroker creates a new broker client.
func NewBroker(clientID string, scopes []string) *Broker {
	if clientID == "" {
		clientID = DefaultClientID
	}
	return &Broker{
		clientID:  clientID,
		scopes:    scopes,
		sessionID: uuid.NewString(),
	}
}

func (b *Broker) connect() error {
	if b.conn != nil {
		return nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect to session bus: %w", err)
	}
	b.conn = conn
	return nil
}

// Close closes the D-Bus connection.
func (b *Broker) Close() error {
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// IsAvailable checks if the broker is available on D-Bus.
func (b *Broker) IsAvailable(ctx context.Context) bool {
	if err := b.connect(); err != nil {
		return false
	}
	_, err := b.getLinuxBrokerVersion(ctx)
	return err == nil
}

// GetToken acquires an access token, using cached token if valid.
func (b *Broker) GetToken(ctx context.Context) (*Token, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cachedToken.Valid(almanac.Now()) {
		slog.Debug("using cached token", "expires", b.cachedToken.ExpiresOn.ToISO())
		return b.cachedToken, nil
	}

	if err := b.connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrokerNotAvailable, err)
	}

	if b.cachedAccount != nil {
		token, err := b.acquireTokenSilently(ctx, b.cachedAccount)
		if err == nil {
			b.cachedToken = token
			return token, nil
		}
		slog.Debug("silent auth with cached account failed", "error", err)
	}

	accounts, err := b.getAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("get accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, ErrNoAccounts
	}

	for _, acct := range accounts {
		token, err := b.acquireTokenSilently(ctx, acct)
		if err == nil {
			b.cachedAccount = acct
			b.cachedToken = token
			return token, nil
		}
		username, _ := acct["username"].(string)
		slog.Debug("silent auth failed for account", "username", username, "error", err)
	}

	return nil, fmt.Errorf("%w: all accounts failed silent auth", ErrAuthFailed)
}

// callBroker makes a D-Bus call to the broker.
// Signature: (protocolVersion, sessionId, requestJson) -> responseJson
func (b *Broker) callBroker(ctx context.Context, method string, request any) (map[string]any, error) {
	reqJSON, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	slog.Debug("calling broker", "method", method)

	obj := b.conn.Object(brokerService, brokerPath)
	call := obj.CallWithContext(ctx, brokerInterface+"."+method, 0,
		brokerProtocolVersion, b.sessionID, string(reqJSON))
	if call.Err != nil {
		return nil, fmt.Errorf("dbus call %s: %w", method, call.Err)
	}

	var respStr string
	if err := call.Store(&respStr); err != nil {
		return nil, fmt.Errorf("store response: %w", err)
	}
	return decodeBrokerResponse(respStr)
}

func decodeBrokerResponse(respStr string) (map[string]any, error) {
	var resp map[string]any
	if err := json.Unmarshal([]byte(respStr), &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if errObj, ok := resp["error"].(map[string]any); ok {
		errJSON, _ := json.Marshal(errObj)
		return nil, fmt.Errorf("broker error: %s", errJSON)
	}
	if errMsg, ok := resp["error"].(string); ok && errMsg != "" {
		return nil, fmt.Errorf("broker error: %s", errMsg)
	}
	return resp, nil
}

// getLinuxBrokerVersion gets the broker version (used as health check).
func (b *Broker) getLinuxBrokerVersion(ctx context.Context) (string, error) {
	resp, err := b.callBroker(ctx, "getLinuxBrokerVersion", map[string]any{})
	if err != nil {
		return "", err
	}
	version, _ := resp["linuxBrokerVersion"].(string)
	return version, nil
}

func (b *Broker) getAccounts(ctx context.Context) ([]map[string]any, error) {
	req := map[string]any{
		"clientId":    b.clientID,
		"redirectUri": DefaultRedirectURI,
	}

	resp, err := b.callBroker(ctx, "getAccounts", req)
	if err != nil {
		return nil, err
	}

	accounts, ok := resp["accounts"].([]any)
	if !ok {
		return []map[string]any{}, nil
	}

	result := make([]map[string]any, 0, len(accounts))
	for _, acc := range accounts {
		if accMap, ok := acc.(map[string]any); ok {
			result = append(result, accMap)
		}
	}
	return result, nil
}

// authParameters builds the authParameters object for token requests.
func (b *Broker) authParameters(account map[string]any) map[string]any {
	authority := DefaultAuthority
	if realm, ok := account["realm"].(string); ok && realm != "" {
		authority = "https://login.microsoftonline.com/" + realm
	}

	scopes := b.scopes
	if len(scopes) == 0 {
		scopes = []string{"https://graph.microsoft.com/.default"}
	}

	params := map[string]any{
		"account":           account,
		"authority":         authority,
		"authorizationType": AuthTypeToken,
		"clientId":          b.clientID,
		"redirectUri":       DefaultRedirectURI,
		"requestedScopes":   scopes,
	}
	if username, ok := account["username"].(string); ok {
		params["username"] = username
	}
	return params
}

func (b *Broker) acquireTokenSilently(ctx context.Context, account map[string]any) (*Token, error) {
	req := map[string]any{
		"authParameters": b.authParameters(account),
	}

	resp, err := b.callBroker(ctx, "acquireTokenSilently", req)
	if err != nil {
		return nil, err
	}
	return tokenFromResponse(resp, account, almanac.Now())
}

// tokenFromResponse reads a token from an acquireTokenSilently response.
// The token can be at the top level or under brokerTokenResponse. A
// response without an expiry is taken to last an hour from now.
func tokenFromResponse(resp, account map[string]any, now almanac.DateTime) (*Token, error) {
	accessToken, _ := resp["accessToken"].(string)
	if accessToken == "" {
		if tokenResp, ok := resp["brokerTokenResponse"].(map[string]any); ok {
			if errObj, ok := tokenResp["error"].(map[string]any); ok {
				errJSON, _ := json.Marshal(errObj)
				return nil, fmt.Errorf("token response error: %s", errJSON)
			}
			accessToken, _ = tokenResp["accessToken"].(string)
		}
	}
	if accessToken == "" {
		return nil, errors.New("no access token in response")
	}

	expiresOn := now.Plus(almanac.DurationFromObject(almanac.Values{almanac.Hour: 1}))
	if exp, ok := resp["expiresOn"].(float64); ok {
		expiresOn = almanac.FromSeconds(exp, almanac.WithZone(now.Zone()))
	}

	accountID, _ := resp["accountId"].(string)
	if accountID == "" {
		accountID, _ = account["localAccountId"].(string)
	}

	return &Token{
		AccessToken: accessToken,
		ExpiresOn:   expiresOn,
		AccountID:   accountID,
	}, nil
}
