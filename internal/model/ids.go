package model

import "github.com/google/uuid"

// Primary keys are generated client-side and stored as char(36) so the same
// schema runs on Postgres and MySQL.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
