package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/sqlinline"
)

type createCampaignRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ShortDescription string  `json:"shortDescription"`
	Goal             float64 `json:"goal"`
	Category         string  `json:"category"`
	Image            string  `json:"image"`
	Location         string  `json:"location"`
}

// ListCampaigns returns campaigns newest first. Anonymous and non-admin
// callers only see approved ones; admins see everything and may narrow with
// ?status=.
func (a *App) ListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := sqlinline.QListCampaignsByStatus
	args := []any{string(domain.StatusApproved)}
	if a.currentRole(r) == string(domain.UserRoleAdmin) {
		if status := r.URL.Query().Get("status"); status != "" {
			args = []any{status}
		} else {
			query = sqlinline.QListCampaigns
			args = nil
		}
	}

	rows, err := a.SQL.Query(r.Context(), query, args...)
	if err != nil {
		a.serverError(w, err)
		return
	}
	defer rows.Close()

	campaigns := []domain.Campaign{}
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			a.serverError(w, err)
			return
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, campaigns)
}

func (a *App) GetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}
	campaign, err := a.fetchCampaign(r, id)
	if errors.Is(err, domain.ErrNotFound) {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, campaign)
}

func (a *App) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if strings.TrimSpace(req.Title) == "" {
		errs = append(errs, fieldError{Field: "title", Message: "Title is required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, fieldError{Field: "description", Message: "Description is required"})
	}
	if strings.TrimSpace(req.ShortDescription) == "" {
		errs = append(errs, fieldError{Field: "shortDescription", Message: "Short description is required"})
	}
	if req.Goal <= 0 {
		errs = append(errs, fieldError{Field: "goal", Message: "Goal must be a positive number"})
	}
	if strings.TrimSpace(req.Category) == "" {
		errs = append(errs, fieldError{Field: "category", Message: "Category is required"})
	}
	if strings.TrimSpace(req.Image) == "" {
		errs = append(errs, fieldError{Field: "image", Message: "Image is required"})
	}
	if strings.TrimSpace(req.Location) == "" {
		errs = append(errs, fieldError{Field: "location", Message: "Location is required"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	var id string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertCampaign,
		strings.TrimSpace(req.Title), req.Description, req.ShortDescription,
		req.Goal, req.Category, req.Image, req.Location, a.currentUserID(r))
	if err := row.Scan(&id); err != nil {
		a.serverError(w, err)
		return
	}

	campaign, err := a.fetchCampaign(r, id)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusCreated, campaign)
}

func (a *App) UpdateCampaignStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}

	var req struct {
		Status domain.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !domain.ValidDecision(req.Status) {
		a.validation(w, []fieldError{{Field: "status", Message: "Status must be either approved or rejected"}})
		return
	}

	a.touchCampaign(w, r, id, sqlinline.QUpdateCampaignStatus, string(req.Status))
}

// JoinCampaign bumps the participants counter. Joins are plain events: the
// same user joining twice counts twice.
func (a *App) JoinCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}
	a.touchCampaign(w, r, id, sqlinline.QJoinCampaign)
}

func (a *App) ShareCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}
	a.touchCampaign(w, r, id, sqlinline.QShareCampaign)
}

// touchCampaign runs an update that returns the campaign id, then responds
// with the freshly loaded record.
func (a *App) touchCampaign(w http.ResponseWriter, r *http.Request, id, query string, extraArgs ...any) {
	args := append([]any{id}, extraArgs...)
	var updatedID string
	if err := a.SQL.QueryRow(r.Context(), query, args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.message(w, http.StatusNotFound, "Campaign not found")
			return
		}
		a.serverError(w, err)
		return
	}

	campaign, err := a.fetchCampaign(r, updatedID)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, campaign)
}

// fetchCampaign loads one campaign with its creator summary; a missing row
// surfaces as ErrNotFound.
func (a *App) fetchCampaign(r *http.Request, id string) (domain.Campaign, error) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectCampaignByID, id)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return c, domain.ErrNotFound
	}
	return c, err
}

func scanCampaign(row pgx.Row) (domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.ShortDescription, &c.Goal, &c.Raised,
		&c.Category, &c.Image, &c.Location, &c.Status, &c.Participants, &c.Shares, &c.CreatedAt,
		&c.Creator.ID, &c.Creator.Name, &c.Creator.Avatar,
	)
	return c, err
}
