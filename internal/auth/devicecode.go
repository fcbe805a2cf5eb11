package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/public"
	"github.com/cpuguy83/almanac"
)

// DeviceCodeAuth provides authentication via device code flow.
// This is used as a fallback when the broker is not available.
type DeviceCodeAuth struct {
	client public.Client
	scopes []string
	prompt io.Writer

	mu          sync.Mutex
	cachedToken *Token
}

// NewDeviceCodeAuth creates a new device code auth client. Tokens are cached
// on disk between runs.
func NewDeviceCodeAuth(clientID string, scopes []string) (*DeviceCodeAuth, error) {
	if clientID == "" {
		clientID = DefaultClientID
	}

	opts := []public.Option{public.WithAuthority(DefaultAuthority)}

	cacheFile, err := cacheFilePath()
	if err != nil {
		slog.Warn("could not determine cache file path", "error", err)
	} else {
		opts = append(opts, public.WithCache(&tokenCacheAccessor{path: cacheFile}))
	}

	client, err := public.New(clientID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create MSAL client: %w", err)
	}

	return &DeviceCodeAuth{
		client: client,
		scopes: scopes,
		prompt: os.Stderr,
	}, nil
}

// GetToken acquires an access token, using cached token if valid.
func (d *DeviceCodeAuth) GetToken(ctx context.Context) (*Token, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cachedToken.Valid(almanac.Now()) {
		return d.cachedToken, nil
	}

	accounts, err := d.client.Accounts(ctx)
	if err != nil {
		slog.Debug("could not get cached accounts", "error", err)
	}

	for _, acct := range accounts {
		result, err := d.client.AcquireTokenSilent(ctx, d.scopes, public.WithSilentAccount(acct))
		if err == nil {
			d.cachedToken = &Token{
				AccessToken: result.AccessToken,
				ExpiresOn:   almanac.FromTime(result.ExpiresOn),
				AccountID:   acct.HomeAccountID,
			}
			return d.cachedToken, nil
		}
		slog.Debug("silent auth failed for account", "account", acct.PreferredUsername, "error", err)
	}

	slog.Info("no cached credentials, starting device code flow")
	token, err := d.acquireTokenWithDeviceCode(ctx)
	if err != nil {
		return nil, err
	}

	d.cachedToken = token
	return token, nil
}

func (d *DeviceCodeAuth) acquireTokenWithDeviceCode(ctx context.Context) (*Token, error) {
	dc, err := d.client.AcquireTokenByDeviceCode(ctx, d.scopes)
	if err != nil {
		return nil, fmt.Errorf("start device code flow: %w", err)
	}

	writePrompt(d.prompt, dc.Result.VerificationURL, dc.Result.UserCode, almanac.FromTime(dc.Result.ExpiresOn))

	result, err := dc.AuthenticationResult(ctx)
	if err != nil {
		return nil, fmt.Errorf("device code auth: %w", err)
	}

	return &Token{
		AccessToken: result.AccessToken,
		ExpiresOn:   almanac.FromTime(result.ExpiresOn),
		AccountID:   result.Account.HomeAccountID,
	}, nil
}

// writePrompt tells the user where to enter the device code.
func writePrompt(w io.Writer, verificationURL, userCode string, expires almanac.DateTime) {
	fmt.Fprintf(w, "\n"+
		"To sign in, use a web browser to open the page %s\n"+
		"and enter the code %s to authenticate.\n",
		verificationURL, userCode)
	if expires.IsValid() {
		fmt.Fprintf(w, "The code expires at %s.\n", expires.ToFormat("t"))
	}
	fmt.Fprintln(w)
}

// Close is a no-op for device code auth.
func (d *DeviceCodeAuth) Close() error {
	return nil
}

// tokenCacheAccessor implements cache.ExportReplace for MSAL token caching.
type tokenCacheAccessor struct {
	path string
}

func (t *tokenCacheAccessor) Replace(_ context.Context, c cache.Unmarshaler, _ cache.ReplaceHints) error {
	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Unmarshal(data)
}

func (t *tokenCacheAccessor) Export(_ context.Context, c cache.Marshaler, _ cache.ExportHints) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(t.path), 0700); err != nil {
		return err
	}
	return os.WriteFile(t.path, data, 0600)
}

func cacheFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "almanac", "msal_token_cache.json"), nil
}
