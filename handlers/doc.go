// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the homegrade API.

# Handler Types

Each handler is a struct holding the database and whatever else it needs:

  - SessionHandler: login form, login, logout
  - HomeHandler: role dispatched home view and couple invitations
  - EvalHandler: per-house evaluation read and grade submission
  - HouseHandler: adding houses to couples and categories to a couple
  - RankingHandler: ranked houses for a couple

Handlers that act on behalf of a user expect the router to have run
middleware.Gate first, so the caller's models.Role is in the request context.

# Invitations

POST /home creates one pending couple and two pending homebuyers and sends an
invite email to each, all inside one transaction. A duplicate email (409) or a
mail delivery failure (502) rolls the whole invitation back.

# Evaluation

GET /houses/{house_id}/eval returns one entry per category of the house's
couple, with the caller's score where one exists and null otherwise. Grades
are upserted by POST to the same path, which only accepts requests carrying
X-Requested-With: XMLHttpRequest.

# Ranking

Houses are ranked from every grade either homebuyer gave them:

 1. Graded houses before ungraded ones
 2. Higher median
 3. Higher p10 (least misery)
 4. Higher p90
 5. Higher mean
 6. House ID ascending
*/
package handlers
