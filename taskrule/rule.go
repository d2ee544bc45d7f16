// Package taskrule holds the task transition rules shared by the server and
// the client. Everything here is pure: no storage, no clock beyond the
// timestamps already on the entities, so the same checks run as the client
// pre-flight and as the server authority.
package taskrule

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kanban/model"
)

// Machine-readable rejection codes carried in the response envelope.
const (
	CodeIncompleteSubtasks = "INCOMPLETE_SUBTASKS"
	CodeSubtaskRegression  = "SUBTASK_REGRESSION_BLOCKED"
)

// TempIDPrefix marks client-manufactured placeholder identifiers. The
// sanitizer strips them so the store assigns permanent ids on persist.
const TempIDPrefix = "tmp-"

// NewTempID returns a placeholder identifier for an optimistic nested entity.
func NewTempID() string {
	return TempIDPrefix + uuid.New().String()
}

// IsTempID reports whether id is a client-side placeholder.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, TempIDPrefix)
}

// Rejection is an invariant violation. The mutation was not applied and may
// be retried once the offending subtasks are resolved.
type Rejection struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	PendingTitles []string `json:"pendingTitles,omitempty"`
}

func (r *Rejection) Error() string { return r.Message }

// FieldError is a malformed-input error on a single patch field. It never
// reaches the store.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Patch is a partial task update. Nil means "leave unchanged"; a non-nil
// subtasks or comments pointer replaces the whole nested collection.
type Patch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Status      *string          `json:"status,omitempty"`
	Priority    *string          `json:"priority,omitempty"`
	AssignedTo  *string          `json:"assignedTo,omitempty"`
	DueDate     *time.Time       `json:"dueDate,omitempty"`
	Tags        *[]string        `json:"tags,omitempty"`
	Subtasks    *[]model.Subtask `json:"subtasks,omitempty"`
	Comments    *[]model.Comment `json:"comments,omitempty"`
}

// ValidateTransition checks patch against the persisted task and returns the
// sanitized patch to persist. The persisted task is authoritative: the
// completion invariant is evaluated against its subtask list unless the
// patch replaces that list.
func ValidateTransition(persisted model.Tasks, patch Patch) (Patch, error) {
	if err := checkFields(patch); err != nil {
		return Patch{}, err
	}
	patch = sanitize(patch)

	effectiveStatus := persisted.Status
	if patch.Status != nil {
		effectiveStatus = *patch.Status
	}

	// A done task keeps its completed subtasks until an explicit status
	// change away from done.
	if persisted.Status == model.StatusDone && effectiveStatus == model.StatusDone && patch.Subtasks != nil {
		for _, prev := range persisted.Subtasks {
			if !prev.Completed {
				continue
			}
			for _, next := range *patch.Subtasks {
				if next.SubtaskID == prev.SubtaskID && !next.Completed {
					return Patch{}, &Rejection{
						Code:    CodeSubtaskRegression,
						Message: fmt.Sprintf("subtask %q cannot be reopened while the task is done", prev.Title),
					}
				}
			}
		}
	}

	if effectiveStatus == model.StatusDone {
		subtasks := persisted.Subtasks
		if patch.Subtasks != nil {
			subtasks = *patch.Subtasks
		}
		var pending []string
		for _, s := range subtasks {
			if !s.Completed {
				pending = append(pending, s.Title)
			}
		}
		if len(pending) > 0 {
			return Patch{}, &Rejection{
				Code: CodeIncompleteSubtasks,
				Message: fmt.Sprintf("cannot mark task as done: %d incomplete subtask(s): %s",
					len(pending), strings.Join(pending, ", ")),
				PendingTitles: pending,
			}
		}
	}

	return patch, nil
}

func checkFields(patch Patch) error {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return &FieldError{Field: "title", Message: "title is required"}
		}
		if len(t) > 200 {
			return &FieldError{Field: "title", Message: "title must be at most 200 characters"}
		}
	}
	if patch.Description != nil && len(*patch.Description) > 1000 {
		return &FieldError{Field: "description", Message: "description must be at most 1000 characters"}
	}
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return &FieldError{Field: "status", Message: "status must be todo, in-progress or done"}
	}
	if patch.Priority != nil && !model.ValidPriority(*patch.Priority) {
		return &FieldError{Field: "priority", Message: "priority must be low, medium or high"}
	}
	if patch.Tags != nil {
		for _, tag := range *patch.Tags {
			if len(strings.TrimSpace(tag)) > 30 {
				return &FieldError{Field: "tags", Message: "each tag must be at most 30 characters"}
			}
		}
	}
	return nil
}

// sanitize trims strings and drops entries that could never persist: blank
// subtask titles, blank comments, comments without an author. Temporary
// identifiers are stripped so the store assigns permanent ones; real
// identifiers are preserved to allow in-place edits.
func sanitize(patch Patch) Patch {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		patch.Title = &t
	}
	if patch.Description != nil {
		d := strings.TrimSpace(*patch.Description)
		patch.Description = &d
	}
	if patch.Tags != nil {
		tags := make([]string, 0, len(*patch.Tags))
		for _, tag := range *patch.Tags {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
		patch.Tags = &tags
	}
	if patch.Subtasks != nil {
		subtasks := SanitizeSubtasks(*patch.Subtasks)
		patch.Subtasks = &subtasks
	}
	if patch.Comments != nil {
		comments := SanitizeComments(*patch.Comments)
		patch.Comments = &comments
	}
	return patch
}

// SanitizeSubtasks trims titles, drops entries whose trimmed title is empty
// and strips temporary identifiers.
func SanitizeSubtasks(in []model.Subtask) []model.Subtask {
	out := make([]model.Subtask, 0, len(in))
	for _, s := range in {
		s.Title = strings.TrimSpace(s.Title)
		if s.Title == "" {
			continue
		}
		if IsTempID(s.SubtaskID) {
			s.SubtaskID = ""
		}
		out = append(out, s)
	}
	return out
}

// SanitizeComments trims text, drops entries with empty text or no author
// and strips temporary identifiers.
func SanitizeComments(in []model.Comment) []model.Comment {
	out := make([]model.Comment, 0, len(in))
	for _, c := range in {
		c.Text = strings.TrimSpace(c.Text)
		if c.Text == "" || c.Author == "" {
			continue
		}
		if IsTempID(c.CommentID) {
			c.CommentID = ""
		}
		out = append(out, c)
	}
	return out
}

// Apply writes the patch onto the task in place. Callers validate first;
// Apply itself never rejects.
func Apply(t *model.Tasks, patch Patch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = *patch.AssignedTo
	}
	if patch.DueDate != nil {
		d := *patch.DueDate
		t.DueDate = &d
	}
	if patch.Tags != nil {
		t.Tags = append([]string(nil), *patch.Tags...)
	}
	if patch.Subtasks != nil {
		t.Subtasks = append([]model.Subtask(nil), *patch.Subtasks...)
	}
	if patch.Comments != nil {
		t.Comments = append([]model.Comment(nil), *patch.Comments...)
	}
}
