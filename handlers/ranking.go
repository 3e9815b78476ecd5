// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/roles"
)

type RankingHandler struct {
	db *sql.DB
}

func NewRankingHandler(db *sql.DB) *RankingHandler {
	return &RankingHandler{db: db}
}

// GetRanking handles GET /couples/{couple_id}/ranking
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	role, _ := roles.FromContext(r.Context())

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

	if !canViewCouple(role, couple) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Couple belongs to someone else")
		return
	}

	rankings, err := ComputeHouseRankings(r.Context(), h.db, couple.ID)
	if err != nil {
		slog.Error("failed to compute rankings", "error", err, "couple_id", couple.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute rankings")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CoupleRanking{
		CoupleID: couple.ID,
		Rankings: rankings,
	})
}

func canViewCouple(role models.Role, couple models.Couple) bool {
	switch role.Kind {
	case models.RoleRealtor:
		return role.RealtorID == couple.RealtorID
	case models.RoleHomebuyer:
		return role.CoupleID == couple.ID
	}
	return false
}

// ComputeHouseRankings ranks a couple's houses from every grade either
// homebuyer has given them
func ComputeHouseRankings(ctx context.Context, q queryer, coupleID string) ([]models.HouseStats, error) {
	houses, err := listCoupleHouses(ctx, q, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get houses: %w", err)
	}

	houseScores, err := getHouseScores(ctx, q, coupleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get house scores: %w", err)
	}

	stats := make([]models.HouseStats, 0, len(houses))
	for _, house := range houses {
		scores := houseScores[house.ID]
		sort.Float64s(scores)

		stats = append(stats, models.HouseStats{
			HouseID:  house.ID,
			Nickname: house.Nickname,
			Median:   percentile(scores, 0.5),
			P10:      percentile(scores, 0.1),
			P90:      percentile(scores, 0.9),
			Mean:     mean(scores),
			Graded:   len(scores),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		a, b := stats[i], stats[j]

		// Ungraded houses go last
		if (a.Graded == 0) != (b.Graded == 0) {
			return a.Graded != 0
		}
		if a.Median != b.Median {
			return a.Median > b.Median
		}
		// Least misery
		if a.P10 != b.P10 {
			return a.P10 > b.P10
		}
		if a.P90 != b.P90 {
			return a.P90 > b.P90
		}
		if a.Mean != b.Mean {
			return a.Mean > b.Mean
		}
		return a.HouseID < b.HouseID
	})

	for i := range stats {
		stats[i].Rank = i + 1
	}
	return stats, nil
}

// getHouseScores groups every grade on the couple's houses by house
func getHouseScores(ctx context.Context, q queryer, coupleID string) (map[string][]float64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT g.house_id, g.score
		FROM grade g
		JOIN house h ON h.id = g.house_id
		WHERE h.couple_id = $1
	`, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make(map[string][]float64)
	for rows.Next() {
		var houseID string
		var score int
		if err := rows.Scan(&houseID, &score); err != nil {
			return nil, err
		}
		scores[houseID] = append(scores[houseID], float64(score))
	}
	return scores, rows.Err()
}

// percentile expects sorted input and interpolates linearly between the
// closest ranks
func percentile(sorted []float64, p float64) float64 {
	switch len(sorted) {
	case 0:
		return 0
	case 1:
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
