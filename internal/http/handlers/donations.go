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

type createDonationRequest struct {
	CampaignID  string  `json:"campaignId"`
	Amount      float64 `json:"amount"`
	DisplayName string  `json:"displayName"`
	Message     string  `json:"message"`
}

func (a *App) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if req.Amount < 1 {
		errs = append(errs, fieldError{Field: "amount", Message: "Amount must be at least 1"})
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		errs = append(errs, fieldError{Field: "displayName", Message: "Display name is required"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	campaignID, ok := parseID(req.CampaignID)
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}

	donation := domain.Donation{
		CampaignID:  campaignID,
		UserID:      a.currentUserID(r),
		Amount:      req.Amount,
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if msg := strings.TrimSpace(req.Message); msg != "" {
		donation.Message = &msg
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertDonation,
		campaignID, donation.UserID, donation.Amount, donation.DisplayName, req.Message)
	if err := row.Scan(&donation.ID, &donation.CreatedAt); err != nil {
		// The insert selects from the campaign row; no returned row means
		// the campaign does not exist.
		if errors.Is(err, pgx.ErrNoRows) {
			a.message(w, http.StatusNotFound, "Campaign not found")
			return
		}
		a.serverError(w, err)
		return
	}

	a.json(w, http.StatusCreated, donation)
}

func (a *App) ListDonationsByCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID, ok := parseID(pathParam(r, "campaignId"))
	if !ok {
		a.message(w, http.StatusNotFound, "Campaign not found")
		return
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QListDonationsByCampaign, campaignID)
	if err != nil {
		a.serverError(w, err)
		return
	}
	defer rows.Close()

	donations := []domain.Donation{}
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.UserID, &d.Amount, &d.DisplayName, &d.Message, &d.CreatedAt); err != nil {
			a.serverError(w, err)
			return
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, donations)
}
