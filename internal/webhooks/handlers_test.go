package webhooks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chirpysocial/backend/internal/db"
	"github.com/google/uuid"
)

const testPolkaKey = "f271c81ff7084ee5b99a5091b42d486e"

type fakeUserStore struct {
	upgraded map[uuid.UUID]bool
	known    map[uuid.UUID]bool
}

func (f *fakeUserStore) UpgradeToChirpyRed(_ context.Context, id uuid.UUID) error {
	if !f.known[id] {
		return db.ErrUserNotFound
	}
	f.upgraded[id] = true
	return nil
}

func newWebhookServer(t *testing.T, knownUsers ...uuid.UUID) (*httptest.Server, *fakeUserStore) {
	t.Helper()

	store := &fakeUserStore{
		upgraded: make(map[uuid.UUID]bool),
		known:    make(map[uuid.UUID]bool),
	}
	for _, id := range knownUsers {
		store.known[id] = true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/polka/webhooks", NewHandlers(store, testPolkaKey).Handle)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func postWebhook(t *testing.T, url, authorization, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func upgradeEvent(userID uuid.UUID) string {
	return `{"event":"user.upgraded","data":{"userId":"` + userID.String() + `"}}`
}

func TestWebhookUpgradesUser(t *testing.T) {
	userID := uuid.New()
	server, store := newWebhookServer(t, userID)

	resp := postWebhook(t, server.URL+"/api/polka/webhooks", "ApiKey "+testPolkaKey, upgradeEvent(userID))
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}
	if !store.upgraded[userID] {
		t.Error("user should be upgraded")
	}
}

func TestWebhookAuthentication(t *testing.T) {
	userID := uuid.New()
	server, store := newWebhookServer(t, userID)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "ApiKey", http.StatusUnauthorized},
		{"wrong scheme", "Bearer " + testPolkaKey, http.StatusUnauthorized},
		{"wrong key", "ApiKey not-the-key", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postWebhook(t, server.URL+"/api/polka/webhooks", tt.authorization, upgradeEvent(userID))
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}

	if len(store.upgraded) != 0 {
		t.Error("no user should be upgraded on failed authentication")
	}
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	userID := uuid.New()
	server, store := newWebhookServer(t, userID)

	body := `{"event":"user.downgraded","data":{"userId":"` + userID.String() + `"}}`
	resp := postWebhook(t, server.URL+"/api/polka/webhooks", "ApiKey "+testPolkaKey, body)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if len(store.upgraded) != 0 {
		t.Error("no user should be upgraded for other events")
	}
}

func TestWebhookBadRequests(t *testing.T) {
	server, _ := newWebhookServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed json", `{not json`, http.StatusBadRequest},
		{"missing event", `{"data":{"userId":"` + uuid.NewString() + `"}}`, http.StatusBadRequest},
		{"missing user id", `{"event":"user.upgraded","data":{}}`, http.StatusBadRequest},
		{"invalid user id", `{"event":"user.upgraded","data":{"userId":"not-a-uuid"}}`, http.StatusBadRequest},
		{"unknown user", upgradeEvent(uuid.New()), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postWebhook(t, server.URL+"/api/polka/webhooks", "ApiKey "+testPolkaKey, tt.body)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
