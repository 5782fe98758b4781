package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/sqlinline"
)

type categoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// ListCategories returns the reference data alphabetically by name.
func (a *App) ListCategories(w http.ResponseWriter, r *http.Request) {
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListCategories)
	if err != nil {
		a.serverError(w, err)
		return
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Icon); err != nil {
			a.serverError(w, err)
			return
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, categories)
}

func (a *App) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []fieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, fieldError{Field: "name", Message: "Name is required"})
	}
	if strings.TrimSpace(req.Icon) == "" {
		errs = append(errs, fieldError{Field: "icon", Message: "Icon is required"})
	}
	if len(errs) > 0 {
		a.validation(w, errs)
		return
	}

	category := domain.Category{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.TrimSpace(req.Slug),
		Icon: strings.TrimSpace(req.Icon),
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}

	if err := a.insertCategory(r, &category); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			a.message(w, http.StatusBadRequest, "Category already exists")
			return
		}
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusCreated, category)
}

// insertCategory stores the category, reporting a taken slug (whether caught
// by the pre-check or by the unique index under a race) as ErrDuplicateSlug.
func (a *App) insertCategory(r *http.Request, category *domain.Category) error {
	var existingID string
	err := a.SQL.QueryRow(r.Context(), sqlinline.QSelectCategoryBySlug, category.Slug).Scan(&existingID)
	if err == nil {
		return domain.ErrDuplicateSlug
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertCategory, category.Name, category.Slug, category.Icon)
	if err := row.Scan(&category.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// UpdateCategory applies a partial update: omitted fields keep their values.
func (a *App) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Category not found")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.message(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var category domain.Category
	row := a.SQL.QueryRow(r.Context(), sqlinline.QUpdateCategory, id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Icon))
	if err := row.Scan(&category.ID, &category.Name, &category.Slug, &category.Icon); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.message(w, http.StatusNotFound, "Category not found")
			return
		}
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, category)
}

// DeleteCategory removes the category unconditionally; campaigns keep their
// category string even when it no longer resolves.
func (a *App) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(pathParam(r, "id"))
	if !ok {
		a.message(w, http.StatusNotFound, "Category not found")
		return
	}

	var deletedID string
	if err := a.SQL.QueryRow(r.Context(), sqlinline.QDeleteCategory, id).Scan(&deletedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			a.message(w, http.StatusNotFound, "Category not found")
			return
		}
		a.serverError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"message": "Category removed"})
}
