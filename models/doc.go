// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Roles

Role is the resolved identity of a logged-in account. Kind is either
RoleHomebuyer or RoleRealtor; accounts with neither never get a Role.

# Request Types

  - LoginRequest: email, password
  - InviteRequest: first_email, second_email
  - SubmitGradeRequest: category, score
  - CreateHouseRequest: nickname, address
  - CreateCategoryRequest: summary, description

Validation rules live in the validate struct tags.

# Response Types

  - HomebuyerHome, RealtorHome: the two home views
  - EvalView: grades for one house plus ScoreMetadata
  - GradeAck: id, score
  - CoupleRanking: ranked HouseStats
  - ErrorResponse: error, message, fields

# Scores

Scores are integers 1 to 5:

	1 Hate it
	2 Dislike it
	3 Indifferent (DefaultScore)
	4 Like it
	5 Love it
*/
package models
