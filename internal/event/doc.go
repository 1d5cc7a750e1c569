// Package event provides the canonical match event record and the functions
// that derive it from raw page data.
//
// Each event carries a random surrogate id (its store primary key) and a
// deterministic content fingerprint over the game and normalized event name.
// The fingerprint, not the id, is what identifies an event across collector
// runs: re-scraping the same fixture produces a new id but the same SHA.
package event
