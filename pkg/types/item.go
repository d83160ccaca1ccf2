package types

import "github.com/google/uuid"

// Item is the projection of a valued node: where it is and who it is.
type Item struct {
	Path Path
	ID   uuid.UUID
}

// NewID mints a node id. Ids are UUID v7 so they sort by creation time.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
