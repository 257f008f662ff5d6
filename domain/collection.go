package domain

import (
	"strings"
	"time"
)

// Color is one of the fixed theme colors a collection can carry.
type Color string

const (
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorOrange Color = "ORANGE"
	ColorPink   Color = "PINK"
	ColorPurple Color = "PURPLE"
	ColorRed    Color = "RED"
	ColorSlate  Color = "SLATE"
	ColorYellow Color = "YELLOW"
)

// Colors lists the palette in display order.
var Colors = []Color{
	ColorBlue,
	ColorGreen,
	ColorOrange,
	ColorPink,
	ColorPurple,
	ColorRed,
	ColorSlate,
	ColorYellow,
}

// ParseColor normalizes raw input and reports whether it belongs to the palette.
func ParseColor(raw string) (Color, bool) {
	c := Color(strings.ToUpper(strings.TrimSpace(raw)))
	for _, known := range Colors {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// MaxCollectionNameLength bounds Collection.Name in characters.
const MaxCollectionNameLength = 50

// Collection is a named, colored group of tasks owned by a single user.
type Collection struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Color     Color     `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress summarizes how many tasks of a collection are done.
type Progress struct {
	Total   int     `json:"total"`
	Done    int     `json:"done"`
	Percent float64 `json:"percent"`
}

// NewProgress computes progress over the given tasks.
func NewProgress(tasks []Task) Progress {
	p := Progress{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Done {
			p.Done++
		}
	}
	p.Percent = percent(p.Done, p.Total)
	return p
}

func percent(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}

// CollectionWithTasks is a collection together with its tasks in creation order.
type CollectionWithTasks struct {
	Collection
	Tasks    []Task   `json:"tasks"`
	Progress Progress `json:"progress"`
}
