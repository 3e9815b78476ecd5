// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/homegrade/models"
	"github.com/danielhkuo/homegrade/testutil"
)

func TestResolve(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	realtorUser, realtorID := testutil.CreateTestRealtor(t, db, "realtor@example.com")
	lonelyRealtorUser, lonelyRealtorID := testutil.CreateTestRealtor(t, db, "lonely@example.com")
	coupleID := testutil.CreateTestCouple(t, db, realtorID)
	buyerUser, buyerID := testutil.CreateTestHomebuyer(t, db, "buyer@example.com", coupleID)
	singleUser, singleID := testutil.CreateTestHomebuyer(t, db, "single@example.com", "")
	nobody := testutil.CreateTestUser(t, db, "nobody@example.com")

	tests := []struct {
		name    string
		userID  string
		want    models.Role
		wantErr error
	}{
		{
			name:   "homebuyer in a couple",
			userID: buyerUser,
			want:   models.Role{Kind: models.RoleHomebuyer, UserID: buyerUser, HomebuyerID: buyerID, CoupleID: coupleID},
		},
		{
			name:   "homebuyer without a couple",
			userID: singleUser,
			want:   models.Role{Kind: models.RoleHomebuyer, UserID: singleUser, HomebuyerID: singleID},
		},
		{
			name:   "realtor with couples",
			userID: realtorUser,
			want:   models.Role{Kind: models.RoleRealtor, UserID: realtorUser, RealtorID: realtorID},
		},
		{
			name:   "realtor without couples",
			userID: lonelyRealtorUser,
			want:   models.Role{Kind: models.RoleRealtor, UserID: lonelyRealtorUser, RealtorID: lonelyRealtorID},
		},
		{
			name:    "account with no role",
			userID:  nobody,
			wantErr: ErrUnresolved,
		},
		{
			name:    "unknown account",
			userID:  "missing",
			wantErr: ErrUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), db, tt.userID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRoleContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("Expected no role on an empty context")
	}

	role := models.Role{Kind: models.RoleRealtor, UserID: "u", RealtorID: "r"}
	got, ok := FromContext(WithRole(context.Background(), role))
	if !ok || got != role {
		t.Errorf("FromContext() = %+v, %v; want %+v, true", got, ok, role)
	}
}
