package client

import (
	"context"
	"errors"
	"sync"

	"server/internal/domain"
)

// Notifier receives user-facing outcome messages from Store actions.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

// Store caches the API collections in memory and applies mutation results
// locally, so a UI can render from the cache without refetching after every
// action. Safe for concurrent use.
type Store struct {
	api      *Client
	notifier Notifier

	mu         sync.RWMutex
	user       *domain.User
	campaigns  []domain.Campaign
	businesses []domain.BusinessPromotion
	categories []domain.Category
	donations  map[string][]domain.Donation
}

func NewStore(api *Client, notifier Notifier) *Store {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Store{api: api, notifier: notifier, donations: make(map[string][]domain.Donation)}
}

// Load fetches all public collections, and the current user when a token is
// set. Partial failures abort the load.
func (s *Store) Load(ctx context.Context) error {
	campaigns, err := s.api.ListCampaigns(ctx)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	businesses, err := s.api.ListBusinesses(ctx)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}

	s.mu.Lock()
	s.campaigns = campaigns
	s.businesses = businesses
	s.categories = categories
	s.mu.Unlock()
	return nil
}

func (s *Store) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAdmin reports whether the signed-in user may moderate. UIs gate the
// approve/reject controls on this.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin()
}

func (s *Store) Campaigns() []domain.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	return out
}

func (s *Store) Businesses() []domain.BusinessPromotion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BusinessPromotion, len(s.businesses))
	copy(out, s.businesses)
	return out
}

// Donations returns the cached donation list for a campaign. Call
// LoadDonations first to populate it.
func (s *Store) Donations(campaignID string) []domain.Donation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Donation, len(s.donations[campaignID]))
	copy(out, s.donations[campaignID])
	return out
}

// LoadDonations fetches and caches the donation history of one campaign.
func (s *Store) LoadDonations(ctx context.Context, campaignID string) error {
	donations, err := s.api.DonationsByCampaign(ctx, campaignID)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mu.Lock()
	s.donations[campaignID] = donations
	s.mu.Unlock()
	return nil
}

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Store) Register(ctx context.Context, name, email, password string) error {
	session, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.adoptSession(session)
	s.notifier.Success("Account created successfully!")
	return nil
}

func (s *Store) Login(ctx context.Context, email, password string) error {
	session, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.adoptSession(session)
	s.notifier.Success("Welcome back, " + session.User.Name + "!")
	return nil
}

// Resume restores a persisted token and fetches the matching user. A stale
// or revoked token comes back as ErrUnauthorized; callers drop the persisted
// token and continue anonymously.
func (s *Store) Resume(ctx context.Context, token string) error {
	s.api.SetToken(token)
	user, err := s.api.Me(ctx)
	if err != nil {
		s.api.SetToken("")
		if errors.Is(err, domain.ErrUnauthorized) {
			return domain.ErrUnauthorized
		}
		return err
	}
	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	return nil
}

func (s *Store) Logout() {
	s.api.SetToken("")
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notifier.Success("Logged out")
}

func (s *Store) CreateCampaign(ctx context.Context, in NewCampaign) error {
	campaign, err := s.api.CreateCampaign(ctx, in)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mu.Lock()
	s.campaigns = append([]domain.Campaign{campaign}, s.campaigns...)
	s.mu.Unlock()
	s.notifier.Success("Campaign submitted for review!")
	return nil
}

func (s *Store) SetCampaignStatus(ctx context.Context, id string, status domain.Status) error {
	campaign, err := s.api.SetCampaignStatus(ctx, id, status)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mergeCampaign(campaign)
	s.notifier.Success("Campaign " + string(status))
	return nil
}

func (s *Store) JoinCampaign(ctx context.Context, id string) error {
	campaign, err := s.api.JoinCampaign(ctx, id)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mergeCampaign(campaign)
	s.notifier.Success("You joined the campaign!")
	return nil
}

func (s *Store) ShareCampaign(ctx context.Context, id string) error {
	campaign, err := s.api.ShareCampaign(ctx, id)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mergeCampaign(campaign)
	s.notifier.Success("Thanks for sharing!")
	return nil
}

// Donate records the donation and bumps the cached campaign's raised total,
// mirroring the server-side increment.
func (s *Store) Donate(ctx context.Context, in NewDonation) error {
	donation, err := s.api.Donate(ctx, in)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mu.Lock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == donation.CampaignID {
			s.campaigns[i].Raised += donation.Amount
			break
		}
	}
	if history, ok := s.donations[donation.CampaignID]; ok {
		s.donations[donation.CampaignID] = append([]domain.Donation{donation}, history...)
	}
	s.mu.Unlock()
	s.notifier.Success("Thank you for your donation!")
	return nil
}

func (s *Store) CreateBusiness(ctx context.Context, in NewBusiness) error {
	business, err := s.api.CreateBusiness(ctx, in)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mu.Lock()
	s.businesses = append([]domain.BusinessPromotion{business}, s.businesses...)
	s.mu.Unlock()
	s.notifier.Success("Business submitted for review!")
	return nil
}

func (s *Store) SetBusinessStatus(ctx context.Context, id string, status domain.Status) error {
	business, err := s.api.SetBusinessStatus(ctx, id, status)
	if err != nil {
		s.notifier.Error(messageOf(err))
		return err
	}
	s.mu.Lock()
	for i := range s.businesses {
		if s.businesses[i].ID == business.ID {
			s.businesses[i] = business
			break
		}
	}
	s.mu.Unlock()
	s.notifier.Success("Business " + string(status))
	return nil
}

func (s *Store) adoptSession(session Session) {
	s.api.SetToken(session.Token)
	s.mu.Lock()
	user := session.User
	s.user = &user
	s.mu.Unlock()
}

// mergeCampaign replaces the cached copy in place; a campaign not yet cached
// is prepended, matching the server's newest-first ordering.
func (s *Store) mergeCampaign(campaign domain.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.campaigns {
		if s.campaigns[i].ID == campaign.ID {
			s.campaigns[i] = campaign
			return
		}
	}
	s.campaigns = append([]domain.Campaign{campaign}, s.campaigns...)
}

func messageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "Something went wrong"
}
