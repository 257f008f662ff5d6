package domain

import "time"

// Task is a unit of work belonging to exactly one collection.
type Task struct {
	ID           string     `json:"id"`
	CollectionID string     `json:"collection_id"`
	Content      string     `json:"content"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Done         bool       `json:"done"`
	CreatedAt    time.Time  `json:"created_at"`
	// Expired is computed from ExpiresAt when tasks are read.
	Expired bool `json:"expired"`
}

// IsExpired reports whether the task has an expiration that lies before reference.
func (t *Task) IsExpired(reference time.Time) bool {
	if t == nil || t.ExpiresAt == nil {
		return false
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return t.ExpiresAt.Before(reference)
}

// MarkExpired sets Expired on every task relative to reference.
func MarkExpired(tasks []Task, reference time.Time) {
	for i := range tasks {
		tasks[i].Expired = tasks[i].IsExpired(reference)
	}
}
