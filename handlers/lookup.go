// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"

	"github.com/danielhkuo/homegrade/models"
)

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// getHouse returns sql.ErrNoRows when the house does not exist
func getHouse(ctx context.Context, q queryer, houseID string) (models.House, error) {
	var house models.House
	err := q.QueryRowContext(ctx, `
		SELECT id, couple_id, nickname, address FROM house WHERE id = $1
	`, houseID).Scan(&house.ID, &house.CoupleID, &house.Nickname, &house.Address)
	return house, err
}

// getCouple returns sql.ErrNoRows when the couple does not exist
func getCouple(ctx context.Context, q queryer, coupleID string) (models.Couple, error) {
	var couple models.Couple
	err := q.QueryRowContext(ctx, `
		SELECT id, realtor_id FROM couple WHERE id = $1
	`, coupleID).Scan(&couple.ID, &couple.RealtorID)
	return couple, err
}

// listCoupleHouses returns the houses of one couple in creation order
func listCoupleHouses(ctx context.Context, q queryer, coupleID string) ([]models.House, error) {
	return scanHouses(q.QueryContext(ctx, `
		SELECT id, couple_id, nickname, address
		FROM house
		WHERE couple_id = $1
		ORDER BY created_at, id
	`, coupleID))
}

// listRealtorHouses returns the houses of every couple owned by a realtor
func listRealtorHouses(ctx context.Context, q queryer, realtorID string) ([]models.House, error) {
	return scanHouses(q.QueryContext(ctx, `
		SELECT h.id, h.couple_id, h.nickname, h.address
		FROM house h
		JOIN couple c ON c.id = h.couple_id
		WHERE c.realtor_id = $1
		ORDER BY h.created_at, h.id
	`, realtorID))
}

func scanHouses(rows *sql.Rows, err error) ([]models.House, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	houses := []models.House{}
	for rows.Next() {
		var house models.House
		if err := rows.Scan(&house.ID, &house.CoupleID, &house.Nickname, &house.Address); err != nil {
			return nil, err
		}
		houses = append(houses, house)
	}
	return houses, rows.Err()
}

// listCategories returns a couple's categories in creation order
func listCategories(ctx context.Context, q queryer, coupleID string) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, couple_id, summary, description
		FROM category
		WHERE couple_id = $1
		ORDER BY created_at, id
	`, coupleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.CoupleID, &c.Summary, &c.Description); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
