// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package roles resolves a logged-in account to its Homebuyer or Realtor role.
package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/homegrade/models"
)

// ErrUnresolved means the account is neither a homebuyer nor a realtor.
var ErrUnresolved = errors.New("account is neither a homebuyer nor a realtor")

// Queryer is the subset of *sql.DB and *sql.Tx that Resolve needs.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Resolve looks the account up as a homebuyer first, then as a realtor.
func Resolve(ctx context.Context, db Queryer, userID string) (models.Role, error) {
	role := models.Role{UserID: userID}

	var homebuyerID string
	var coupleID sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT id, couple_id FROM homebuyer WHERE user_id = $1
	`, userID).Scan(&homebuyerID, &coupleID)
	switch {
	case err == nil:
		role.Kind = models.RoleHomebuyer
		role.HomebuyerID = homebuyerID
		role.CoupleID = coupleID.String
		return role, nil
	case !errors.Is(err, sql.ErrNoRows):
		return models.Role{}, fmt.Errorf("failed to query homebuyer: %w", err)
	}

	var realtorID string
	err = db.QueryRowContext(ctx, `
		SELECT id FROM realtor WHERE user_id = $1
	`, userID).Scan(&realtorID)
	switch {
	case err == nil:
		role.Kind = models.RoleRealtor
		role.RealtorID = realtorID
		return role, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.Role{}, ErrUnresolved
	default:
		return models.Role{}, fmt.Errorf("failed to query realtor: %w", err)
	}
}

type contextKey struct{}

// WithRole stores a resolved role on the context.
func WithRole(ctx context.Context, role models.Role) context.Context {
	return context.WithValue(ctx, contextKey{}, role)
}

// FromContext returns the role stored by WithRole.
func FromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(contextKey{}).(models.Role)
	return role, ok
}
