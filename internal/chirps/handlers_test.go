package chirps

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/chirpysocial/backend/internal/auth"
	"github.com/chirpysocial/backend/internal/db"
	"github.com/google/uuid"
)

type fakeChirpStore struct {
	chirps map[uuid.UUID]*db.Chirp
}

func newFakeChirpStore() *fakeChirpStore {
	return &fakeChirpStore{chirps: make(map[uuid.UUID]*db.Chirp)}
}

func (f *fakeChirpStore) Create(_ context.Context, chirp *db.Chirp) error {
	copied := *chirp
	f.chirps[chirp.ID] = &copied
	return nil
}

func (f *fakeChirpStore) GetAll(_ context.Context) ([]db.Chirp, error) {
	all := make([]db.Chirp, 0, len(f.chirps))
	for _, c := range f.chirps {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	return all, nil
}

func (f *fakeChirpStore) GetByID(_ context.Context, id uuid.UUID) (*db.Chirp, error) {
	c, ok := f.chirps[id]
	if !ok {
		return nil, db.ErrChirpNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeChirpStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.chirps[id]; !ok {
		return db.ErrChirpNotFound
	}
	delete(f.chirps, id)
	return nil
}

// asUser stands in for the bearer-auth middleware: it stores the given user
// in the request context before the handler runs.
func asUser(userID uuid.UUID, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), auth.UserContextKey, &auth.UserContext{UserID: userID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newChirpServer(t *testing.T, userID uuid.UUID) (*httptest.Server, *fakeChirpStore) {
	t.Helper()

	store := newFakeChirpStore()
	handlers := NewHandlers(store, nil)

	mux := http.NewServeMux()
	mux.Handle("POST /api/chirps", asUser(userID, handlers.Create))
	mux.HandleFunc("GET /api/chirps", handlers.List)
	mux.HandleFunc("GET /api/chirps/{chirpID}", handlers.Get)
	mux.Handle("DELETE /api/chirps/{chirpID}", asUser(userID, handlers.Delete))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store
}

func seedChirp(t *testing.T, store *fakeChirpStore, userID uuid.UUID, body string, createdAt time.Time) *db.Chirp {
	t.Helper()
	chirp := &db.Chirp{
		ID:        uuid.New(),
		Body:      body,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := store.Create(context.Background(), chirp); err != nil {
		t.Fatalf("failed to seed chirp: %v", err)
	}
	return chirp
}

func TestCreateChirp(t *testing.T) {
	userID := uuid.New()
	server, store := newChirpServer(t, userID)

	body := `{"body":"This is a kerfuffle opinion I need to share with the world"}`
	resp, err := http.Post(server.URL+"/api/chirps", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var created ChirpResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	want := "This is a **** opinion I need to share with the world"
	if created.Body != want {
		t.Errorf("body = %q, want %q", created.Body, want)
	}
	if created.UserID != userID.String() {
		t.Errorf("userId = %q, want %q", created.UserID, userID)
	}
	if len(store.chirps) != 1 {
		t.Errorf("stored chirps = %d, want 1", len(store.chirps))
	}
}

func TestCreateChirpRejectsInvalidBody(t *testing.T) {
	server, _ := newChirpServer(t, uuid.New())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{"body":""}`},
		{"too long", `{"body":"` + strings.Repeat("a", MaxChirpLength+1) + `"}`},
		{"malformed json", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/api/chirps", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestListChirpsAscending(t *testing.T) {
	userID := uuid.New()
	server, store := newChirpServer(t, userID)

	base := time.Now()
	seedChirp(t, store, userID, "second", base.Add(time.Minute))
	seedChirp(t, store, userID, "first", base)
	seedChirp(t, store, userID, "third", base.Add(2*time.Minute))

	resp, err := http.Get(server.URL + "/api/chirps")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var all []ChirpResponse
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	wantOrder := []string{"first", "second", "third"}
	if len(all) != len(wantOrder) {
		t.Fatalf("chirp count = %d, want %d", len(all), len(wantOrder))
	}
	for i, want := range wantOrder {
		if all[i].Body != want {
			t.Errorf("chirp[%d].body = %q, want %q", i, all[i].Body, want)
		}
	}
}

func TestGetChirp(t *testing.T) {
	userID := uuid.New()
	server, store := newChirpServer(t, userID)
	chirp := seedChirp(t, store, userID, "hello", time.Now())

	t.Run("found", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/chirps/" + chirp.ID.String())
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var got ChirpResponse
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if got.ID != chirp.ID.String() || got.Body != "hello" {
			t.Errorf("got %+v, want id %s body hello", got, chirp.ID)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/chirps/" + uuid.NewString())
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})

	t.Run("bad id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/api/chirps/not-a-uuid")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestDeleteChirp(t *testing.T) {
	author := uuid.New()

	doDelete := func(t *testing.T, url string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodDelete, url, nil)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("author deletes own chirp", func(t *testing.T) {
		server, store := newChirpServer(t, author)
		chirp := seedChirp(t, store, author, "delete me", time.Now())

		resp := doDelete(t, server.URL+"/api/chirps/"+chirp.ID.String())
		if resp.StatusCode != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", resp.StatusCode)
		}
		if len(store.chirps) != 0 {
			t.Error("chirp should be gone from the store")
		}
	})

	t.Run("non-author gets forbidden", func(t *testing.T) {
		server, store := newChirpServer(t, uuid.New())
		chirp := seedChirp(t, store, author, "not yours", time.Now())

		resp := doDelete(t, server.URL+"/api/chirps/"+chirp.ID.String())
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", resp.StatusCode)
		}
		if len(store.chirps) != 1 {
			t.Error("chirp should still be in the store")
		}
	})

	t.Run("unknown chirp", func(t *testing.T) {
		server, _ := newChirpServer(t, author)

		resp := doDelete(t, server.URL+"/api/chirps/"+uuid.NewString())
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("status = %d, want 404", resp.StatusCode)
		}
	})
}
