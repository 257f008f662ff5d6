package monitor

import "time"

type Status struct {
	Components map[string]bool `json:"components"`
	Healthy    bool            `json:"healthy"`
	LastCheck  time.Time       `json:"last_check"`
}
