package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/sqlinline"
)

type createBusinessRequest struct {
	BusinessName string `json:"businessName"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	Website      string `json:"website"`
	Location     string `json:"location"`
}

// ListBusinesses mirrors the campaign listing rules: approved only for the
// public, everything for admins.
func (a *App) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	query := sqlinline.QListBusinessesByStatus
	args := []any{string(domain.StatusApproved)}
	if a.currentRole(r) == string(domain.UserRoleAdmin) {
		if status := r.URL.Query().Get("status"); status != "" {
			args = []any{status}
		} else {
			query = sqlinline.QListBusinesses
			args = nil
		}
	}

	rows, err := a.SQL.Query(r.Context(), query, args...)
	if err != nil {
		a.serverError(w, err)
		return
	}
	defer rows.Close()

	businesses := []domain.BusinessPromotion{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			a.serverError(w, err)
			return
		}
		businesses = append(businesses, b)
	}
	if err := rows.Err(); err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, businesses)
}

func (a *App) GetBusiness(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Business promotion not found")
		return
	}
	business, err := a.fetchBusiness(r, id)
	if errors.Is(err, domain.ErrNotFound) {
		a.message(w, http.StatusNotFound, "Business promotion not found")
		return
	}
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, business)
}

func (a *App) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req createBusinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if strings.TrimSpace(req.BusinessName) == "" {
		errs = append(errs, fieldError{Field: "businessName", Message: "Business name is required"})
	}
	if strings.TrimSpace(req.Description) == "" {
		errs = append(errs, fieldError{Field: "description", Message: "Description is required"})
	}
	if strings.TrimSpace(req.Logo) == "" {
		errs = append(errs, fieldError{Field: "logo", Message: "Logo is required"})
	}
	if strings.TrimSpace(req.Location) == "" {
		errs = append(errs, fieldError{Field: "location", Message: "Location is required"})
	}
	if req.Website != "" && !validWebsite(req.Website) {
		errs = append(errs, fieldError{Field: "website", Message: "Website must be a valid URL"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	var id string
	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertBusiness,
		strings.TrimSpace(req.BusinessName), req.Description, req.Logo,
		strings.TrimSpace(req.Website), req.Location, a.currentUserID(r))
	if err := row.Scan(&id); err != nil {
		a.serverError(w, err)
		return
	}

	business, err := a.fetchBusiness(r, id)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusCreated, business)
}

func (a *App) UpdateBusinessStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Business promotion not found")
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

	var updatedID string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateBusinessStatus, id, string(req.Status)).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.message(w, http.StatusNotFound, "Business promotion not found")
			return
		}
		a.serverError(w, err)
		return
	}

	business, err := a.fetchBusiness(r, updatedID)
	if err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, business)
}

func (a *App) fetchBusiness(r *http.Request, id string) (domain.BusinessPromotion, error) {
	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectBusinessByID, id)
	b, err := scanBusiness(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return b, domain.ErrNotFound
	}
	return b, err
}

func scanBusiness(row pgx.Row) (domain.BusinessPromotion, error) {
	var b domain.BusinessPromotion
	err := row.Scan(
		&b.ID, &b.BusinessName, &b.Description, &b.Logo, &b.Website, &b.Location,
		&b.Status, &b.CreatedAt,
		&b.Owner.ID, &b.Owner.Name,
	)
	return b, err
}

func validWebsite(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
