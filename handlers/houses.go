// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/roles"
)

type HouseHandler struct {
	db *sql.DB
}

func NewHouseHandler(db *sql.DB) *HouseHandler {
	return &HouseHandler{db: db}
}

// CreateHouse handles POST /couples/{couple_id}/houses
func (h *HouseHandler) CreateHouse(w http.ResponseWriter, r *http.Request) {
	role, ok := roles.FromContext(r.Context())
	if !ok || !role.IsRealtor() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only realtors can add houses")
		return
	}

	couple, err := getCouple(r.Context(), h.db, r.PathValue("couple_id"))
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Couple not found")
		return
	}
	if err != nil {
		slog.Error("failed to query couple", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if couple.RealtorID != role.RealtorID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Couple belongs to another realtor")
		return
	}

	var req models.CreateHouseRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		req.Nickname = r.FormValue("nickname")
		req.Address = r.FormValue("address")
	}
	req.Nickname = strings.TrimSpace(req.Nickname)
	req.Address = strings.TrimSpace(req.Address)

	if err := middleware.Validate(req); err != nil {
		middleware.ValidationErrorResponse(w, err)
		return
	}

	house := models.House{
		ID:       uuid.NewString(),
		CoupleID: couple.ID,
		Nickname: req.Nickname,
		Address:  req.Address,
	}
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO house (id, couple_id, nickname, address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, house.ID, house.CoupleID, house.Nickname, house.Address, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert house", "error", err, "couple_id", couple.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create house")
		return
	}

	slog.Info("house created", "house_id", house.ID, "couple_id", couple.ID)
	middleware.JSONResponse(w, http.StatusCreated, house)
}

// CreateCategory handles POST /categories
// The category is added to the calling homebuyer's couple
func (h *HouseHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	role, ok := roles.FromContext(r.Context())
	if !ok || !role.IsHomebuyer() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only homebuyers can add categories")
		return
	}
	if role.CoupleID == "" {
		middleware.ErrorResponse(w, http.StatusConflict, "Homebuyer is not part of a couple yet")
		return
	}

	var req models.CreateCategoryRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		req.Summary = r.FormValue("summary")
		req.Description = r.FormValue("description")
	}
	req.Summary = strings.TrimSpace(req.Summary)
	req.Description = strings.TrimSpace(req.Description)

	if err := middleware.Validate(req); err != nil {
		middleware.ValidationErrorResponse(w, err)
		return
	}

	category := models.Category{
		ID:          uuid.NewString(),
		CoupleID:    role.CoupleID,
		Summary:     req.Summary,
		Description: req.Description,
	}
	_, err := h.db.ExecContext(r.Context(), `
		INSERT INTO category (id, couple_id, summary, description, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, category.ID, category.CoupleID, category.Summary, category.Description, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert category", "error", err, "couple_id", role.CoupleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	slog.Info("category created", "category_id", category.ID, "couple_id", role.CoupleID)
	middleware.JSONResponse(w, http.StatusCreated, category)
}
