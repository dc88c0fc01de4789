// Package queue defines message payloads exchanged over the message broker.
package queue

// Adoption event actions.
const (
	ActionAdopted   = "adopted"
	ActionUnadopted = "unadopted"
)

// AdoptionEvent is published whenever a user adopts or returns a cat. It
// carries enough for downstream consumers to log or notify without querying
// the primary database.
type AdoptionEvent struct {
	Action     string `json:"action"` // "adopted" | "unadopted"
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	CatID      uint64 `json:"cat_id"`
	OccurredAt string `json:"occurred_at"`
}
