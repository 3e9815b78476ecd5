// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password, session and invitation token utilities.

# Passwords

Passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(raw)
	err = auth.CheckPassword(hash, raw) // ErrInvalidCredentials on mismatch

# Sessions

Sessions are HS256 JWTs whose subject is the account ID:

	token, err := auth.IssueSession(userID, key, 72*time.Hour, time.Now())
	userID, err := auth.ParseSession(token, key)

ParseSession rejects other algorithms, other issuers and expired tokens
with ErrInvalidSession.

# Invite Tokens

Invitation links carry a random 24-byte token:

	token, err := auth.GenerateInviteToken()
	hash := auth.HashInviteToken(token, salt)

Only the HMAC-SHA256 hash is persisted on the pending homebuyer.
*/
package auth
