// Package scraper fetches the game-tournaments.com CS:GO match listing and
// extracts canonical events from it.
//
// The page is static HTML: each upcoming match is a row in a "matches" table
// with the kickoff time in a span's data-time attribute and the matchup in a
// link's title attribute. Rows with unannounced (TBD) or unrecognizable
// matchups are skipped; what happens to rows with malformed timestamps is a
// configurable policy, defaulting to skip-and-continue.
package scraper
