// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

  - SubmitVoteRequest: name, selections (category -> ranked candidates)

# Response Types

  - SubmitVoteResponse: submission_id, voter, records, submitted_at, message
  - CategoriesResponse: categories, points table, max_selections
  - VoteCountResponse: voters, records
  - LeaderboardResponse: category, available, standings, message
  - LeaderboardsResponse: available, boards, message
  - ArchiveResponse: location, records
  - ErrorResponse: error, message

Domain types (records, standings, categories) live in package ballot.

# Messages

User-facing messages are French, matching the ballot form. MessageVoteRecorded
takes the voter name as a format argument:

	fmt.Sprintf(models.MessageVoteRecorded, sub.Voter)

Empty and unreadable leaderboards carry MessageNoVotesInCategory,
MessageNoVotes or MessageUnavailable instead of an error status.
*/
package models
