// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/homegrade/metrics"
	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/roles"
)

type EvalHandler struct {
	db      *sql.DB
	metrics *metrics.Manager
}

func NewEvalHandler(db *sql.DB, m *metrics.Manager) *EvalHandler {
	return &EvalHandler{db: db, metrics: m}
}

// GetEval handles GET /houses/{house_id}/eval
func (h *EvalHandler) GetEval(w http.ResponseWriter, r *http.Request) {
	role, house, ok := h.homebuyerHouse(w, r)
	if !ok {
		return
	}

	couple, err := getCouple(r.Context(), h.db, house.CoupleID)
	if err != nil {
		slog.Error("failed to query couple", "error", err, "couple_id", house.CoupleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	categories, err := listCategories(r.Context(), h.db, house.CoupleID)
	if err != nil {
		slog.Error("failed to query categories", "error", err, "couple_id", house.CoupleID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.QueryContext(r.Context(), `
		SELECT category_id, score FROM grade
		WHERE homebuyer_id = $1 AND house_id = $2
	`, role.HomebuyerID, house.ID)
	if err != nil {
		slog.Error("failed to query grades", "error", err, "house_id", house.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	scores := make(map[string]int)
	for rows.Next() {
		var categoryID string
		var score int
		if err := rows.Scan(&categoryID, &score); err != nil {
			slog.Error("failed to scan grade", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		scores[categoryID] = score
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate grades", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	grades := make([]models.GradedCategory, 0, len(categories))
	for _, c := range categories {
		entry := models.GradedCategory{Category: c}
		if score, ok := scores[c.ID]; ok {
			entry.Score = &score
		}
		grades = append(grades, entry)
	}

	middleware.JSONResponse(w, http.StatusOK, models.EvalView{
		Couple:        couple,
		House:         house,
		Grades:        grades,
		ScoreMetadata: models.NewScoreMetadata(),
	})
}

// SubmitGrade handles POST /houses/{house_id}/eval
// Only background (AJAX) requests are accepted
func (h *EvalHandler) SubmitGrade(w http.ResponseWriter, r *http.Request) {
	if !middleware.IsAJAX(r) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Grades can only be submitted in the background")
		return
	}

	role, house, ok := h.homebuyerHouse(w, r)
	if !ok {
		return
	}

	var req models.SubmitGradeRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		req.Category = r.FormValue("category")
		req.Score = json.Number(r.FormValue("score"))
	}

	score, err := strconv.Atoi(strings.TrimSpace(req.Score.String()))
	if err != nil || !models.ValidScore(score) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "score must be an integer between 1 and 5")
		return
	}

	// Scoped to the house's couple so a grade never crosses couples
	var categoryID string
	err = h.db.QueryRowContext(r.Context(), `
		SELECT id FROM category WHERE id = $1 AND couple_id = $2
	`, req.Category, house.CoupleID).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	newID := uuid.NewString()
	var gradeID string
	err = h.db.QueryRowContext(r.Context(), `
		INSERT INTO grade (id, homebuyer_id, category_id, house_id, score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (homebuyer_id, category_id, house_id)
		DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
		RETURNING id
	`, newID, role.HomebuyerID, categoryID, house.ID, score, time.Now().UTC()).Scan(&gradeID)
	if err != nil {
		slog.Error("failed to save grade", "error", err, "house_id", house.ID, "category_id", categoryID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save grade")
		return
	}

	outcome := metrics.GradeUpdated
	if gradeID == newID {
		outcome = metrics.GradeCreated
	}
	h.metrics.RecordGradeSaved(outcome)
	slog.Info("grade saved", "grade_id", gradeID, "house_id", house.ID, "score", score, "outcome", outcome)

	middleware.JSONResponse(w, http.StatusOK, models.GradeAck{ID: categoryID, Score: score})
}

// homebuyerHouse loads the path's house and checks it belongs to the
// caller's couple. It writes the error response and returns false otherwise.
func (h *EvalHandler) homebuyerHouse(w http.ResponseWriter, r *http.Request) (models.Role, models.House, bool) {
	role, ok := roles.FromContext(r.Context())
	if !ok || !role.IsHomebuyer() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only homebuyers can evaluate houses")
		return role, models.House{}, false
	}

	house, err := getHouse(r.Context(), h.db, r.PathValue("house_id"))
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "House not found")
		return role, house, false
	}
	if err != nil {
		slog.Error("failed to query house", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return role, house, false
	}

	if role.CoupleID == "" || house.CoupleID != role.CoupleID {
		middleware.ErrorResponse(w, http.StatusForbidden, "House belongs to another couple")
		return role, house, false
	}
	return role, house, true
}
