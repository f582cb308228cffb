package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkSession is a worker's tracked shift window at a center on a
// date. (worker, center, date) is a unique composite key; the row is
// reused across logins on the same day.
type WorkSession struct {
	ID        uuid.UUID `db:"id" json:"id"`
	WorkerID  uuid.UUID `db:"worker_id" json:"worker_id"`
	CenterID  uuid.UUID `db:"center_id" json:"center_id"`
	Date      string    `db:"session_date" json:"date"`
	StartTime *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime   *string   `db:"end_time" json:"end_time,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// WorkSessionRow joins the session with its center name for reports.
type WorkSessionRow struct {
	WorkSession
	CenterName string `db:"center_name" json:"center_name"`
}

// SessionRange filters sessions by date. Either bound may be empty for
// an open-ended range.
type SessionRange struct {
	From string
	To   string
}
