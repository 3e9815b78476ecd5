// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/homegrade/auth"
	"github.com/danielhkuo/homegrade/cliparse"
	"github.com/danielhkuo/homegrade/db"
)

// TestPassword is the password of every account created by the fixtures
const TestPassword = "password123"

// categoryEpoch anchors category timestamps so creation order is stable
var categoryEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh sqlite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: "sqlite",
		SessionKey:   "test-session-key",
		SessionTTL:   time.Hour,
		InviteSalt:   "test-invite-salt",
		BaseURL:      "http://localhost:3318",

		AllowedOrigins: []string{"http://localhost:3318"},
	}
}

// CreateTestUser inserts an account and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO account (id, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
	`, userID, email, string(hash), email)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestRealtor creates an account with a realtor role
func CreateTestRealtor(t *testing.T, conn *sql.DB, email string) (userID, realtorID string) {
	t.Helper()

	userID = CreateTestUser(t, conn, email)
	realtorID = uuid.NewString()
	_, err := conn.Exec(`INSERT INTO realtor (id, user_id) VALUES ($1, $2)`, realtorID, userID)
	if err != nil {
		t.Fatalf("Failed to create test realtor: %v", err)
	}

	return userID, realtorID
}

// CreateTestCouple creates a couple owned by the realtor
func CreateTestCouple(t *testing.T, conn *sql.DB, realtorID string) string {
	t.Helper()

	coupleID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO couple (id, realtor_id, created_at) VALUES ($1, $2, $3)
	`, coupleID, realtorID, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test couple: %v", err)
	}

	return coupleID
}

// CreateTestHomebuyer creates an account with a homebuyer role. An empty
// coupleID leaves the homebuyer without a couple.
func CreateTestHomebuyer(t *testing.T, conn *sql.DB, email, coupleID string) (userID, homebuyerID string) {
	t.Helper()

	userID = CreateTestUser(t, conn, email)
	homebuyerID = uuid.NewString()

	var couple *string
	if coupleID != "" {
		couple = &coupleID
	}

	_, err := conn.Exec(`
		INSERT INTO homebuyer (id, user_id, couple_id) VALUES ($1, $2, $3)
	`, homebuyerID, userID, couple)
	if err != nil {
		t.Fatalf("Failed to create test homebuyer: %v", err)
	}

	return userID, homebuyerID
}

// CreateTestHouse adds a house to a couple
func CreateTestHouse(t *testing.T, conn *sql.DB, coupleID, nickname string) string {
	t.Helper()

	houseID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO house (id, couple_id, nickname, address, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, houseID, coupleID, nickname, nickname+" Street 1", time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test house: %v", err)
	}

	return houseID
}

// CreateTestCategory adds a category to a couple. Categories of one couple
// are timestamped one minute apart in call order.
func CreateTestCategory(t *testing.T, conn *sql.DB, coupleID, summary string) string {
	t.Helper()

	var existing int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM category WHERE couple_id = $1`, coupleID).Scan(&existing); err != nil {
		t.Fatalf("Failed to count categories: %v", err)
	}

	categoryID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO category (id, couple_id, summary, description, created_at)
		VALUES ($1, $2, $3, '', $4)
	`, categoryID, coupleID, summary, categoryEpoch.Add(time.Duration(existing)*time.Minute))
	if err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return categoryID
}

// CreateTestGrade stores a score directly
func CreateTestGrade(t *testing.T, conn *sql.DB, homebuyerID, categoryID, houseID string, score int) string {
	t.Helper()

	gradeID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO grade (id, homebuyer_id, category_id, house_id, score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, gradeID, homebuyerID, categoryID, houseID, score, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test grade: %v", err)
	}

	return gradeID
}

// CountRows returns the number of rows in a table
func CountRows(t *testing.T, conn *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Login attaches a valid bearer session for userID to the request
func Login(t *testing.T, req *http.Request, cfg cliparse.Config, userID string) *http.Request {
	t.Helper()

	token, err := auth.IssueSession(userID, cfg.SessionKey, cfg.SessionTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue session: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
