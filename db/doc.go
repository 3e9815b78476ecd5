// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open picks the driver from the configured database type:

	conn, err := db.Open("postgres", "postgres://...")  // github.com/lib/pq
	conn, err := db.Open("sqlite", "homegrade.db")       // modernc.org/sqlite

SQLite connections get foreign keys and a busy timeout enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is shared by both drivers.

# Tables

  - account: Login identities (email, bcrypt hash)
  - realtor, homebuyer: Role rows linked to an account
  - couple: Two homebuyers owned by a realtor
  - pending_couple, pending_homebuyer: Invitations awaiting registration
  - house: Houses shown to a couple
  - category: Evaluation dimensions of a couple
  - grade: One score per (homebuyer, category, house)

# Relationships

	account 1──1 realtor | homebuyer
	realtor 1──* couple 1──* homebuyer
	realtor 1──* pending_couple 1──* pending_homebuyer
	couple 1──* house
	couple 1──* category
	grade *──1 homebuyer, category, house
*/
package db
