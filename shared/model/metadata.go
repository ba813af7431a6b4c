package model

import "time"

// Metadata holds the row timestamps maintained by the database.
// Both columns are readonly: they are filled by defaults and triggers, never by inserts.
type Metadata struct {
	CreatedAt time.Time `db:"created_at" json:"created_at" readonly:"true"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at" readonly:"true"`
}
