package auth

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AzureAD/microsoft-authentication-library-for-go/apps/cache"
	"github.com/cpuguy83/almanac"
)

var noon = almanac.UTC(2024, 3, 4, 12, 0, 0, 0)

func minutes(n float64) almanac.Duration {
	return almanac.DurationFromObject(almanac.Values{almanac.Minute: n})
}

func TestTokenValid(t *testing.T) {
	tests := []struct {
		name  string
		token *Token
		want  bool
	}{
		{"nil", nil, false},
		{"empty", &Token{ExpiresOn: noon.Plus(minutes(60))}, false},
		{"fresh", &Token{AccessToken: "a", ExpiresOn: noon.Plus(minutes(60))}, true},
		{"inside margin", &Token{AccessToken: "a", ExpiresOn: noon.Plus(minutes(4))}, false},
		{"expired", &Token{AccessToken: "a", ExpiresOn: noon.Minus(minutes(1))}, false},
		{"no expiry", &Token{AccessToken: "a"}, false},
	}
	for _, tt := range tests {
		if got := tt.token.Valid(noon); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTokenFromResponse(t *testing.T) {
	account := map[string]any{"localAccountId": "local-1"}

	tok, err := tokenFromResponse(map[string]any{
		"accessToken": "top",
		"expiresOn":   float64(noon.Plus(minutes(30)).ToUnixInteger()),
		"accountId":   "acct-1",
	}, account, noon)
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "top" || tok.AccountID != "acct-1" {
		t.Errorf("token = %+v", tok)
	}
	if tok.ExpiresOn.ToMillis() != noon.Plus(minutes(30)).ToMillis() {
		t.Errorf("expires = %s", tok.ExpiresOn.ToISO())
	}

	tok, err = tokenFromResponse(map[string]any{
		"brokerTokenResponse": map[string]any{"accessToken": "nested"},
	}, account, noon)
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "nested" || tok.AccountID != "local-1" {
		t.Errorf("nested token = %+v", tok)
	}
	if want := noon.Plus(minutes(60)); tok.ExpiresOn.ToMillis() != want.ToMillis() {
		t.Errorf("default expiry = %s, want %s", tok.ExpiresOn.ToISO(), want.ToISO())
	}

	_, err = tokenFromResponse(map[string]any{
		"brokerTokenResponse": map[string]any{"error": map[string]any{"code": "interaction_required"}},
	}, account, noon)
	if err == nil || !strings.Contains(err.Error(), "interaction_required") {
		t.Errorf("expected token response error, got %v", err)
	}

	if _, err := tokenFromResponse(map[string]any{}, account, noon); err == nil {
		t.Error("expected error for response without token")
	}
}

func TestDecodeBrokerResponse(t *testing.T) {
	resp, err := decodeBrokerResponse(`{"linuxBrokerVersion":"2.0.1"}`)
	if err != nil {
		t.Fatal(err)
	}
	if resp["linuxBrokerVersion"] != "2.0.1" {
		t.Errorf("resp = %v", resp)
	}

	for _, bad := range []string{
		`{"error":"no_account"}`,
		`{"error":{"code":"broken"}}`,
		`not json`,
	} {
		if _, err := decodeBrokerResponse(bad); err == nil {
			t.Errorf("decodeBrokerResponse(%q): expected error", bad)
		}
	}
}

func TestAuthParameters(t *testing.T) {
	b := NewBroker("", nil)
	if b.clientID != DefaultClientID {
		t.Errorf("clientID = %q", b.clientID)
	}
	if b.sessionID == "" || b.sessionID == NewBroker("", nil).sessionID {
		t.Errorf("session IDs should be unique, got %q", b.sessionID)
	}

	params := b.authParameters(map[string]any{"realm": "tenant-1", "username": "me@example.com"})
	if got := params["authority"]; got != "https://login.microsoftonline.com/tenant-1" {
		t.Errorf("authority = %v", got)
	}
	if got := params["username"]; got != "me@example.com" {
		t.Errorf("username = %v", got)
	}
	scopes, _ := params["requestedScopes"].([]string)
	if len(scopes) != 1 || scopes[0] != "https://graph.microsoft.com/.default" {
		t.Errorf("scopes = %v", params["requestedScopes"])
	}

	params = NewBroker("custom", []string{"Calendars.Read"}).authParameters(nil)
	if got := params["authority"]; got != DefaultAuthority {
		t.Errorf("authority without realm = %v", got)
	}
	if got := params["clientId"]; got != "custom" {
		t.Errorf("clientId = %v", got)
	}
}

type memCache struct {
	data []byte
}

func (m *memCache) Marshal() ([]byte, error) { return m.data, nil }

func (m *memCache) Unmarshal(b []byte) error {
	m.data = append([]byte(nil), b...)
	return nil
}

func TestTokenCacheAccessor(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "cache.json")
	acc := &tokenCacheAccessor{path: path}

	var loaded memCache
	if err := acc.Replace(ctx, &loaded, cache.ReplaceHints{}); err != nil {
		t.Fatalf("Replace without a file: %v", err)
	}
	if loaded.data != nil {
		t.Errorf("loaded %q from a missing file", loaded.data)
	}

	if err := acc.Export(ctx, &memCache{data: []byte(`{"AccessToken":{}}`)}, cache.ExportHints{}); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("cache file mode = %v, want 0600", perm)
	}

	if err := acc.Replace(ctx, &loaded, cache.ReplaceHints{}); err != nil {
		t.Fatal(err)
	}
	if string(loaded.data) != `{"AccessToken":{}}` {
		t.Errorf("loaded %q", loaded.data)
	}
}

func TestWritePrompt(t *testing.T) {
	var buf bytes.Buffer
	expires := almanac.UTC(2024, 3, 4, 9, 15, 0, 0).Reconfigure(almanac.WithLocale("en-US"))
	writePrompt(&buf, "https://microsoft.com/devicelogin", "ABC123", expires)

	out := buf.String()
	for _, want := range []string{"https://microsoft.com/devicelogin", "ABC123", "expires at 9:15 AM"} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt %q missing %q", out, want)
		}
	}

	buf.Reset()
	writePrompt(&buf, "https://microsoft.com/devicelogin", "ABC123", almanac.DateTime{})
	if strings.Contains(buf.String(), "expires") {
		t.Errorf("prompt without expiry = %q", buf.String())
	}
}
