package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

// fakeAPI is an in-memory stand-in for the backend, covering the endpoints
// the Store exercises.
type fakeAPI struct {
	mu        sync.Mutex
	nextID    int
	campaigns []domain.Campaign
	donations []domain.Donation
}

func (f *fakeAPI) seed(c domain.Campaign) {
	f.mu.Lock()
	f.campaigns = append(f.campaigns, c)
	f.mu.Unlock()
}

func (f *fakeAPI) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeAPI) campaign(id string) *domain.Campaign {
	for i := range f.campaigns {
		if f.campaigns[i].ID == id {
			return &f.campaigns[i]
		}
	}
	return nil
}

func (f *fakeAPI) router() http.Handler {
	r := chi.NewRouter()
	// Serialize handlers so concurrent Store calls in tests stay race-free.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			f.mu.Lock()
			defer f.mu.Unlock()
			next.ServeHTTP(w, req)
		})
	})
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	notFound := func(w http.ResponseWriter) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Campaign not found"})
	}

	r.Post("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		role := domain.UserRoleUser
		if strings.HasPrefix(in["email"], "admin@") {
			role = domain.UserRoleAdmin
		}
		writeJSON(w, http.StatusOK, Session{
			Token: "tok-" + in["email"],
			User:  domain.User{ID: "u1", Name: "Ana", Email: in["email"], Role: role},
		})
	})
	r.Get("/api/campaigns", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, f.campaigns)
	})
	r.Get("/api/businesses", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.BusinessPromotion{})
	})
	r.Get("/api/categories", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.Category{{ID: "cat-1", Name: "Environment", Slug: "environment", Icon: "leaf"}})
	})
	r.Post("/api/campaigns", func(w http.ResponseWriter, r *http.Request) {
		var in NewCampaign
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := domain.Campaign{
			ID:               f.id(),
			Title:            in.Title,
			Description:      in.Description,
			ShortDescription: in.ShortDescription,
			Goal:             in.Goal,
			Category:         in.Category,
			Image:            in.Image,
			Location:         in.Location,
			Creator:          domain.UserSummary{ID: "u1", Name: "Ana"},
			Status:           domain.StatusPending,
			CreatedAt:        time.Now(),
		}
		f.campaigns = append(f.campaigns, c)
		writeJSON(w, http.StatusCreated, c)
	})
	r.Patch("/api/campaigns/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		c := f.campaign(chi.URLParam(r, "id"))
		if c == nil {
			notFound(w)
			return
		}
		var in struct {
			Status domain.Status `json:"status"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		c.Status = in.Status
		writeJSON(w, http.StatusOK, *c)
	})
	r.Post("/api/campaigns/{id}/join", func(w http.ResponseWriter, r *http.Request) {
		c := f.campaign(chi.URLParam(r, "id"))
		if c == nil {
			notFound(w)
			return
		}
		c.Participants++
		writeJSON(w, http.StatusOK, *c)
	})
	r.Post("/api/campaigns/{id}/share", func(w http.ResponseWriter, r *http.Request) {
		c := f.campaign(chi.URLParam(r, "id"))
		if c == nil {
			notFound(w)
			return
		}
		c.Shares++
		writeJSON(w, http.StatusOK, *c)
	})
	r.Get("/api/donations/campaign/{campaignId}", func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "campaignId")
		out := []domain.Donation{}
		for _, d := range f.donations {
			if d.CampaignID == id {
				out = append(out, d)
			}
		}
		writeJSON(w, http.StatusOK, out)
	})
	r.Post("/api/donations", func(w http.ResponseWriter, r *http.Request) {
		var in NewDonation
		_ = json.NewDecoder(r.Body).Decode(&in)
		c := f.campaign(in.CampaignID)
		if c == nil {
			notFound(w)
			return
		}
		c.Raised += in.Amount
		d := domain.Donation{
			ID:          f.id(),
			CampaignID:  in.CampaignID,
			UserID:      "u1",
			Amount:      in.Amount,
			DisplayName: in.DisplayName,
			CreatedAt:   time.Now(),
		}
		f.donations = append(f.donations, d)
		writeJSON(w, http.StatusCreated, d)
	})
	return r
}

// recordingNotifier collects notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func newTestStore(t *testing.T) (*Store, *recordingNotifier, *fakeAPI) {
	t.Helper()
	fake := &fakeAPI{}
	srv := httptest.NewServer(fake.router())
	t.Cleanup(srv.Close)
	notifier := &recordingNotifier{}
	store := NewStore(New(Options{BaseURL: srv.URL}), notifier)
	return store, notifier, fake
}

func TestStoreLoadPopulatesCollections(t *testing.T) {
	store, _, _ := newTestStore(t)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := store.Categories(); len(got) != 1 || got[0].Slug != "environment" {
		t.Fatalf("categories = %+v", got)
	}
	if got := store.Campaigns(); len(got) != 0 {
		t.Fatalf("campaigns = %+v, want empty", got)
	}
}

func TestStoreCampaignLifecycle(t *testing.T) {
	store, notifier, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	err := store.CreateCampaign(ctx, NewCampaign{
		Title:            "Clean the River",
		Description:      strings.Repeat("x", 40),
		ShortDescription: "Riverbank cleanup",
		Goal:             500,
		Category:         "environment",
		Image:            "https://example.com/river.jpg",
		Location:         "Porto",
	})
	if err != nil {
		t.Fatalf("CreateCampaign: %v", err)
	}
	campaigns := store.Campaigns()
	if len(campaigns) != 1 {
		t.Fatalf("campaigns = %d, want 1", len(campaigns))
	}
	c := campaigns[0]
	if c.Status != domain.StatusPending {
		t.Fatalf("status = %q, want pending", c.Status)
	}
	if c.Raised != 0 || c.Participants != 0 || c.Shares != 0 {
		t.Fatalf("new campaign has non-zero counters: %+v", c)
	}

	if err := store.SetCampaignStatus(ctx, c.ID, domain.StatusApproved); err != nil {
		t.Fatalf("SetCampaignStatus: %v", err)
	}
	if err := store.ShareCampaign(ctx, c.ID); err != nil {
		t.Fatalf("ShareCampaign: %v", err)
	}
	if err := store.JoinCampaign(ctx, c.ID); err != nil {
		t.Fatalf("JoinCampaign: %v", err)
	}
	if err := store.LoadDonations(ctx, c.ID); err != nil {
		t.Fatalf("LoadDonations: %v", err)
	}
	if err := store.Donate(ctx, NewDonation{CampaignID: c.ID, Amount: 25, DisplayName: "Ana"}); err != nil {
		t.Fatalf("Donate: %v", err)
	}

	c = store.Campaigns()[0]
	if c.Status != domain.StatusApproved {
		t.Errorf("status = %q, want approved", c.Status)
	}
	if c.Shares != 1 {
		t.Errorf("shares = %d, want 1", c.Shares)
	}
	if c.Participants != 1 {
		t.Errorf("participants = %d, want 1", c.Participants)
	}
	if c.Raised != 25 {
		t.Errorf("raised = %v, want 25", c.Raised)
	}
	if history := store.Donations(c.ID); len(history) != 1 || history[0].Amount != 25 {
		t.Errorf("donation history = %+v, want the new donation merged in", history)
	}
	if len(notifier.errors) != 0 {
		t.Errorf("unexpected error notifications: %v", notifier.errors)
	}
}

func TestStoreDonateMissingCampaignNotifies(t *testing.T) {
	store, notifier, _ := newTestStore(t)
	err := store.Donate(context.Background(), NewDonation{CampaignID: "nope", Amount: 10, DisplayName: "Ana"})
	if err == nil {
		t.Fatal("expected error for missing campaign")
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Campaign not found" {
		t.Fatalf("error notifications = %v", notifier.errors)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want domain.ErrNotFound", err)
	}
}

func TestStoreIsAdminFollowsSession(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	if store.IsAdmin() {
		t.Fatal("anonymous store reports admin")
	}
	if err := store.Login(ctx, "ana@example.com", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if store.IsAdmin() {
		t.Fatal("regular user reports admin")
	}
	if err := store.Login(ctx, "admin@example.com", "secret1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !store.IsAdmin() {
		t.Fatal("admin session does not report admin")
	}
	store.Logout()
	if store.IsAdmin() {
		t.Fatal("logged-out store still reports admin")
	}
}

// Actions and session changes can come from different goroutines in a UI;
// run them together so the race detector covers the token handoff.
func TestStoreActionsConcurrentWithLogout(t *testing.T) {
	store, _, fake := newTestStore(t)
	fake.seed(domain.Campaign{ID: "c1", Title: "Clean the River", Status: domain.StatusApproved})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.JoinCampaign(ctx, "c1")
		}()
		go func() {
			defer wg.Done()
			store.Logout()
		}()
	}
	wg.Wait()

	if got := store.api.currentToken(); got != "" {
		t.Fatalf("token = %q after logout", got)
	}
}

// A mutation result for a campaign the cache has never seen lands at the
// front, matching the list endpoint's newest-first order.
func TestStoreMergeUnknownCampaignPrepends(t *testing.T) {
	store, _, fake := newTestStore(t)
	fake.seed(domain.Campaign{ID: "c1", Title: "Older", Status: domain.StatusPending})
	ctx := context.Background()
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fake.seed(domain.Campaign{ID: "c2", Title: "Newer", Status: domain.StatusPending})
	if err := store.SetCampaignStatus(ctx, "c2", domain.StatusApproved); err != nil {
		t.Fatalf("SetCampaignStatus: %v", err)
	}

	campaigns := store.Campaigns()
	if len(campaigns) != 2 {
		t.Fatalf("campaigns = %d, want 2", len(campaigns))
	}
	if campaigns[0].ID != "c2" || campaigns[1].ID != "c1" {
		t.Fatalf("order = [%s %s], want [c2 c1]", campaigns[0].ID, campaigns[1].ID)
	}
	if campaigns[0].Status != domain.StatusApproved {
		t.Fatalf("status = %q, want approved", campaigns[0].Status)
	}
}
