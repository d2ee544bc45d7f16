package model

import (
	"math"
	"time"
)

// Task status columns on the board.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

type Tasks struct {
	TaskID      string     `firestore:"taskid,omitempty" json:"taskId"`
	Title       string     `firestore:"title,omitempty" json:"title"`
	Description string     `firestore:"description,omitempty" json:"description,omitempty"`
	Status      string     `firestore:"status,omitempty" json:"status"`
	Priority    string     `firestore:"priority,omitempty" json:"priority"`
	CreatedBy   string     `firestore:"createdby,omitempty" json:"createdBy"`
	AssignedTo  string     `firestore:"assignedto,omitempty" json:"assignedTo,omitempty"`
	DueDate     *time.Time `firestore:"duedate,omitempty" json:"dueDate,omitempty"`
	Tags        []string   `firestore:"tags,omitempty" json:"tags,omitempty"`
	Subtasks    []Subtask  `firestore:"subtasks,omitempty" json:"subtasks"`
	Comments    []Comment  `firestore:"comments,omitempty" json:"comments"`
	CreatedAt   time.Time  `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedat,omitempty" json:"updatedAt"`
}

type Subtask struct {
	SubtaskID string    `firestore:"subtaskid,omitempty" json:"subtaskId"`
	Title     string    `firestore:"title,omitempty" json:"title"`
	Completed bool      `firestore:"completed" json:"completed"`
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty" json:"updatedAt"`
}

type Comment struct {
	CommentID string    `firestore:"commentid,omitempty" json:"commentId"`
	Text      string    `firestore:"text,omitempty" json:"text"`
	Author    string    `firestore:"author,omitempty" json:"author"`
	CreatedAt time.Time `firestore:"createdat,omitempty" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty" json:"updatedAt"`
}

// SubtaskProgress is derived per task on every read; it is never stored.
type SubtaskProgress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Progress counts completed subtasks. A task with no subtasks is 100%.
func (t *Tasks) Progress() SubtaskProgress {
	total := len(t.Subtasks)
	if total == 0 {
		return SubtaskProgress{Completed: 0, Total: 0, Percentage: 100}
	}
	completed := 0
	for _, s := range t.Subtasks {
		if s.Completed {
			completed++
		}
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	return SubtaskProgress{Completed: completed, Total: total, Percentage: pct}
}

// Clone returns a deep copy so cached and persisted aggregates never share
// nested slices.
func (t *Tasks) Clone() Tasks {
	out := *t
	if t.Tags != nil {
		out.Tags = append([]string(nil), t.Tags...)
	}
	if t.Subtasks != nil {
		out.Subtasks = append([]Subtask(nil), t.Subtasks...)
	}
	if t.Comments != nil {
		out.Comments = append([]Comment(nil), t.Comments...)
	}
	if t.DueDate != nil {
		d := *t.DueDate
		out.DueDate = &d
	}
	return out
}
