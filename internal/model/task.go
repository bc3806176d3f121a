package model

// Task is a single to-do item in the local list.
type Task struct {
	// ID is the creation time in Unix milliseconds. It is unique within
	// a collection.
	ID int64 `json:"id"`

	// Text is the trimmed, non-empty item text.
	Text string `json:"text"`

	// Done is the completion flag bound to the row checkbox.
	Done bool `json:"done"`

	// Date is a free-form display string. It is never parsed.
	Date string `json:"date"`
}

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// Keep reports whether t passes the filter.
func (f Filter) Keep(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	for _, known := range Filters {
		if f == known {
			return true
		}
	}
	return false
}

// SortMode selects the comparator applied to the filtered view.
type SortMode string

const (
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortCompleted SortMode = "completed"
	SortActive    SortMode = "active"
)

// SortModes lists every sort mode in display order.
var SortModes = []SortMode{SortNewest, SortOldest, SortCompleted, SortActive}

// Less reports whether a sorts before b under the mode. Modes that
// compare the done flag treat it as 0/1 and leave ties to the caller's
// stable sort.
func (s SortMode) Less(a, b Task) bool {
	switch s {
	case SortOldest:
		return a.ID < b.ID
	case SortCompleted:
		return doneRank(a) > doneRank(b)
	case SortActive:
		return doneRank(a) < doneRank(b)
	default:
		return a.ID > b.ID
	}
}

// Valid reports whether s is one of the known sort modes.
func (s SortMode) Valid() bool {
	for _, known := range SortModes {
		if s == known {
			return true
		}
	}
	return false
}

func doneRank(t Task) int {
	if t.Done {
		return 1
	}
	return 0
}

// PromptResult is the answer to an edit dialog. A cancelled prompt and
// a submitted empty value are distinct outcomes.
type PromptResult struct {
	Value     string
	Cancelled bool
}

// Submitted builds a PromptResult for an accepted value.
func Submitted(value string) PromptResult {
	return PromptResult{Value: value}
}

// Cancelled is the PromptResult of a dismissed dialog.
var Cancelled = PromptResult{Cancelled: true}
