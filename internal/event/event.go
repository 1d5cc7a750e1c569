package event

import (
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
)

const (
	// DataSource tags every record with the origin site.
	DataSource = "game-tournaments"

	// GameName is the game title tracked by this deployment.
	GameName = "CS:GO"
)

// Event represents a scheduled competitive match in its canonical form.
// Events are immutable once built; the store replaces rather than mutates.
type Event struct {
	ID             string `json:"id"`
	DataSource     string `json:"dataSource"`
	GameName       string `json:"gameName"`
	EventName      string `json:"eventName"`
	EventURL       string `json:"eventURL"`
	EventTimestamp int64  `json:"eventTimestamp"`
	EventSHA       string `json:"eventSHA"`
}

// Fingerprint derives the deduplication key for an event: a sha256 hex digest
// over the game name and normalized event name, concatenated without a
// separator. It is a pure function of its inputs; empty strings are valid.
//
// The date and URL are deliberately excluded, so a rescheduled fixture
// between the same opponents maps to the same fingerprint and is treated as
// an update of the stored record.
func Fingerprint(gameName, eventName string) string {
	sum := sha256.Sum256([]byte(gameName + eventName))
	return fmt.Sprintf("%x", sum)
}

// New builds an Event from a normalized name, an epoch-millisecond timestamp
// and the source link. Every call generates a fresh surrogate id; the
// fingerprint is always attached before the event is returned.
func New(name string, timestampMillis int64, url string) *Event {
	return &Event{
		ID:             uuid.NewString(),
		DataSource:     DataSource,
		GameName:       GameName,
		EventName:      name,
		EventURL:       url,
		EventTimestamp: timestampMillis,
		EventSHA:       Fingerprint(GameName, name),
	}
}
