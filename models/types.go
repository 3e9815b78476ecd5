// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "encoding/json"

// Role kinds
const (
	RoleHomebuyer = "homebuyer"
	RoleRealtor   = "realtor"
)

// Role is the resolved identity of a logged-in user. Exactly one of the
// role-specific IDs is set, matching Kind.
type Role struct {
	Kind        string
	UserID      string
	HomebuyerID string
	RealtorID   string
	CoupleID    string // homebuyers only; empty when not yet in a couple
}

func (r Role) IsHomebuyer() bool { return r.Kind == RoleHomebuyer }
func (r Role) IsRealtor() bool   { return r.Kind == RoleRealtor }

// Request types

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type InviteRequest struct {
	FirstEmail  string `json:"first_email" validate:"required,email"`
	SecondEmail string `json:"second_email" validate:"required,email,nefield=FirstEmail"`
}

// Score stays a json.Number so that both numeric and quoted scores decode;
// range checking happens in the handler.
type SubmitGradeRequest struct {
	Category string      `json:"category"`
	Score    json.Number `json:"score"`
}

type CreateHouseRequest struct {
	Nickname string `json:"nickname" validate:"required,max=100"`
	Address  string `json:"address" validate:"max=200"`
}

type CreateCategoryRequest struct {
	Summary     string `json:"summary" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Response types

type LoginResponse struct {
	Token    string `json:"token"`
	Redirect string `json:"redirect"`
}

// FormDescriptor tells the client which fields a form posts and where.
type FormDescriptor struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

type HomebuyerHome struct {
	Role   string  `json:"role"`
	Couple *Couple `json:"couple"`
	Houses []House `json:"houses"`
}

// CoupleEntry is one row of the realtor dashboard: a couple (or pending
// couple) with its homebuyers (or pending invitations).
type CoupleEntry struct {
	CoupleID   string         `json:"couple_id"`
	Homebuyers []CoupleMember `json:"homebuyers"`
	IsPending  bool           `json:"is_pending"`
}

type CoupleMember struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type RealtorHome struct {
	Role       string         `json:"role"`
	Realtor    Realtor        `json:"realtor"`
	Couples    []CoupleEntry  `json:"couples"`
	Houses     []House        `json:"houses"`
	InviteForm FormDescriptor `json:"invite_form"`
}

type GradedCategory struct {
	Category Category `json:"category"`
	Score    *int     `json:"score"` // nil = ungraded
}

type EvalView struct {
	Couple Couple           `json:"couple"`
	House  House            `json:"house"`
	Grades []GradedCategory `json:"grades"`
	ScoreMetadata
}

// GradeAck echoes the graded category id and the saved score.
type GradeAck struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
}

// Domain types

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Realtor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Couple struct {
	ID        string `json:"id"`
	RealtorID string `json:"realtor_id"`
}

type Homebuyer struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	CoupleID *string `json:"couple_id"`
}

type PendingCouple struct {
	ID        string `json:"id"`
	RealtorID string `json:"realtor_id"`
}

type PendingHomebuyer struct {
	ID              string `json:"id"`
	PendingCoupleID string `json:"pending_couple_id"`
	Email           string `json:"email"`
}

type House struct {
	ID       string `json:"id"`
	CoupleID string `json:"couple_id"`
	Nickname string `json:"nickname"`
	Address  string `json:"address"`
}

type Category struct {
	ID          string `json:"id"`
	CoupleID    string `json:"couple_id"`
	Summary     string `json:"summary"`
	Description string `json:"description"`
}

type Grade struct {
	ID          string `json:"id"`
	HomebuyerID string `json:"homebuyer_id"`
	CategoryID  string `json:"category_id"`
	HouseID     string `json:"house_id"`
	Score       int    `json:"score"`
}

// Ranking types

type HouseStats struct {
	HouseID  string  `json:"house_id"`
	Nickname string  `json:"nickname"`
	Median   float64 `json:"median"`
	P10      float64 `json:"p10"`
	P90      float64 `json:"p90"`
	Mean     float64 `json:"mean"`
	Graded   int     `json:"graded"`
	Rank     int     `json:"rank"` // 1-indexed ranking
}

type CoupleRanking struct {
	CoupleID string       `json:"couple_id"`
	Rankings []HouseStats `json:"rankings"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}
