// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/danielhkuo/homegrade/mail"
	"github.com/danielhkuo/homegrade/roles"
)

// asUser resolves userID's role and stores it in the request context, as
// the role gate does
func asUser(t *testing.T, conn *sql.DB, req *http.Request, userID string) *http.Request {
	t.Helper()

	role, err := roles.Resolve(context.Background(), conn, userID)
	if err != nil {
		t.Fatalf("Failed to resolve role: %v", err)
	}
	return req.WithContext(roles.WithRole(req.Context(), role))
}

// fakeMailer records invites and fails on the failOn-th call (1-based)
type fakeMailer struct {
	mu     sync.Mutex
	sent   []mail.Invite
	calls  int
	failOn int
}

func (m *fakeMailer) SendInvite(_ context.Context, inv mail.Invite) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls == m.failOn {
		return errors.Join(mail.ErrDelivery, errors.New("connection refused"))
	}
	m.sent = append(m.sent, inv)
	return nil
}
