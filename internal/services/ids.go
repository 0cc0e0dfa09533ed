package services

import "github.com/google/uuid"

// newID returns a time-ordered identifier so that sorting ids descending lists
// the newest documents first.
var newID = func() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
