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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/homegrade/auth"
	"github.com/danielhkuo/homegrade/cliparse"
	"github.com/danielhkuo/homegrade/mail"
	"github.com/danielhkuo/homegrade/metrics"
	"github.com/danielhkuo/homegrade/middleware"
	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/roles"
)

var (
	errAlreadyInvited    = errors.New("email already has a pending invitation")
	errAlreadyRegistered = errors.New("email already belongs to an account")
)

var inviteForm = models.FormDescriptor{
	Action: "/home",
	Method: http.MethodPost,
	Fields: []string{"first_email", "second_email"},
}

type HomeHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	mailer  mail.Mailer
	metrics *metrics.Manager
}

func NewHomeHandler(db *sql.DB, cfg cliparse.Config, mailer mail.Mailer, m *metrics.Manager) *HomeHandler {
	return &HomeHandler{db: db, cfg: cfg, mailer: mailer, metrics: m}
}

// GetHome handles GET /home
// Homebuyers see their couple's houses, realtors see every couple they own
func (h *HomeHandler) GetHome(w http.ResponseWriter, r *http.Request) {
	role, ok := roles.FromContext(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Role not resolved")
		return
	}

	switch role.Kind {
	case models.RoleHomebuyer:
		view, err := homebuyerHome(r.Context(), h.db, role)
		if err != nil {
			slog.Error("failed to load homebuyer home", "error", err, "homebuyer_id", role.HomebuyerID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, view)

	case models.RoleRealtor:
		view, err := realtorHome(r.Context(), h.db, role.RealtorID)
		if err != nil {
			slog.Error("failed to load realtor home", "error", err, "realtor_id", role.RealtorID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, view)

	default:
		slog.Error("unexpected role kind", "kind", role.Kind, "user_id", role.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Account is misconfigured")
	}
}

// InviteCouple handles POST /home
// Creates a pending couple with two pending homebuyers and emails both
func (h *HomeHandler) InviteCouple(w http.ResponseWriter, r *http.Request) {
	role, ok := roles.FromContext(r.Context())
	if !ok || !role.IsRealtor() {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only realtors can invite homebuyers")
		return
	}

	var req models.InviteRequest
	if middleware.IsJSON(r) {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	} else {
		req.FirstEmail = r.FormValue("first_email")
		req.SecondEmail = r.FormValue("second_email")
	}
	req.FirstEmail = normalizeEmail(req.FirstEmail)
	req.SecondEmail = normalizeEmail(req.SecondEmail)

	if err := middleware.Validate(req); err != nil {
		middleware.ValidationErrorResponse(w, err)
		return
	}

	var realtorName string
	err := h.db.QueryRowContext(r.Context(), `
		SELECT a.name FROM realtor rt JOIN account a ON a.id = rt.user_id WHERE rt.id = $1
	`, role.RealtorID).Scan(&realtorName)
	if err != nil {
		slog.Error("failed to query realtor", "error", err, "realtor_id", role.RealtorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	pendingCoupleID, err := h.createInvitation(r.Context(), role.RealtorID, realtorName, req.FirstEmail, req.SecondEmail)
	switch {
	case errors.Is(err, errAlreadyInvited), errors.Is(err, errAlreadyRegistered):
		h.metrics.RecordInvitationFailure("duplicate")
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, mail.ErrDelivery):
		h.metrics.RecordInvitationFailure("delivery")
		slog.Error("invitation rolled back", "error", err, "realtor_id", role.RealtorID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to send invitation emails")
		return
	case err != nil:
		h.metrics.RecordInvitationFailure("database")
		slog.Error("failed to create invitation", "error", err, "realtor_id", role.RealtorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invitation")
		return
	}

	h.metrics.RecordInvitationSent()
	slog.Info("couple invited", "realtor_id", role.RealtorID, "pending_couple_id", pendingCoupleID)

	view, err := realtorHome(r.Context(), h.db, role.RealtorID)
	if err != nil {
		slog.Error("failed to load realtor home", "error", err, "realtor_id", role.RealtorID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, view)
}

// createInvitation writes the pending couple and both pending homebuyers
// and sends both emails in one transaction. Any failure rolls everything back.
func (h *HomeHandler) createInvitation(ctx context.Context, realtorID, realtorName string, emails ...string) (string, error) {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pendingCoupleID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO pending_couple (id, realtor_id, created_at)
		VALUES ($1, $2, $3)
	`, pendingCoupleID, realtorID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert pending couple: %w", err)
	}

	for _, email := range emails {
		if err := h.inviteHomebuyer(ctx, tx, pendingCoupleID, realtorName, email); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit invitation: %w", err)
	}
	return pendingCoupleID, nil
}

func (h *HomeHandler) inviteHomebuyer(ctx context.Context, tx *sql.Tx, pendingCoupleID, realtorName, email string) error {
	var invited, registered bool
	err := tx.QueryRowContext(ctx, `
		SELECT
			EXISTS(SELECT 1 FROM pending_homebuyer WHERE email = $1),
			EXISTS(SELECT 1 FROM account WHERE email = $1)
	`, email).Scan(&invited, &registered)
	if err != nil {
		return fmt.Errorf("failed to check invitation email: %w", err)
	}
	if invited {
		return fmt.Errorf("%w: %s", errAlreadyInvited, email)
	}
	if registered {
		return fmt.Errorf("%w: %s", errAlreadyRegistered, email)
	}

	token, err := auth.GenerateInviteToken()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pending_homebuyer (id, pending_couple_id, email, token_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pendingCoupleID, email, auth.HashInviteToken(token, h.cfg.InviteSalt), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert pending homebuyer: %w", err)
	}

	return h.mailer.SendInvite(ctx, mail.Invite{
		Email:       email,
		RealtorName: realtorName,
		Link:        mail.InviteLink(h.cfg.BaseURL, token),
	})
}

func homebuyerHome(ctx context.Context, q queryer, role models.Role) (models.HomebuyerHome, error) {
	view := models.HomebuyerHome{Role: models.RoleHomebuyer, Houses: []models.House{}}
	if role.CoupleID == "" {
		return view, nil
	}

	couple, err := getCouple(ctx, q, role.CoupleID)
	if err != nil {
		return view, fmt.Errorf("failed to query couple: %w", err)
	}
	view.Couple = &couple

	houses, err := listCoupleHouses(ctx, q, role.CoupleID)
	if err != nil {
		return view, fmt.Errorf("failed to query houses: %w", err)
	}
	view.Houses = houses
	return view, nil
}

// realtorHome lists real couples first, then pending couples
func realtorHome(ctx context.Context, q queryer, realtorID string) (models.RealtorHome, error) {
	view := models.RealtorHome{Role: models.RoleRealtor, InviteForm: inviteForm}

	view.Realtor.ID = realtorID
	err := q.QueryRowContext(ctx, `
		SELECT a.email, a.name FROM realtor rt JOIN account a ON a.id = rt.user_id WHERE rt.id = $1
	`, realtorID).Scan(&view.Realtor.Email, &view.Realtor.Name)
	if err != nil {
		return view, fmt.Errorf("failed to query realtor: %w", err)
	}

	couples, err := groupCouples(q.QueryContext(ctx, `
		SELECT c.id, h.id, a.email, a.name
		FROM couple c
		LEFT JOIN homebuyer h ON h.couple_id = c.id
		LEFT JOIN account a ON a.id = h.user_id
		WHERE c.realtor_id = $1
		ORDER BY c.created_at, c.id, a.email
	`, realtorID))
	if err != nil {
		return view, fmt.Errorf("failed to query couples: %w", err)
	}

	pending, err := groupCouples(q.QueryContext(ctx, `
		SELECT pc.id, ph.id, ph.email, ''
		FROM pending_couple pc
		LEFT JOIN pending_homebuyer ph ON ph.pending_couple_id = pc.id
		WHERE pc.realtor_id = $1
		ORDER BY pc.created_at, pc.id, ph.created_at, ph.email
	`, realtorID))
	if err != nil {
		return view, fmt.Errorf("failed to query pending couples: %w", err)
	}
	for i := range pending {
		pending[i].IsPending = true
	}

	view.Couples = append(couples, pending...)

	view.Houses, err = listRealtorHouses(ctx, q, realtorID)
	if err != nil {
		return view, fmt.Errorf("failed to query houses: %w", err)
	}
	return view, nil
}

// groupCouples folds (couple id, member id, email, name) rows, ordered by
// couple, into one entry per couple. Member columns are NULL for a couple
// without members.
func groupCouples(rows *sql.Rows, err error) ([]models.CoupleEntry, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.CoupleEntry{}
	for rows.Next() {
		var coupleID string
		var memberID, email, name sql.NullString
		if err := rows.Scan(&coupleID, &memberID, &email, &name); err != nil {
			return nil, err
		}

		if len(entries) == 0 || entries[len(entries)-1].CoupleID != coupleID {
			entries = append(entries, models.CoupleEntry{
				CoupleID:   coupleID,
				Homebuyers: []models.CoupleMember{},
			})
		}
		if memberID.Valid {
			last := &entries[len(entries)-1]
			last.Homebuyers = append(last.Homebuyers, models.CoupleMember{
				ID:    memberID.String,
				Email: email.String,
				Name:  name.String,
			})
		}
	}
	return entries, rows.Err()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
