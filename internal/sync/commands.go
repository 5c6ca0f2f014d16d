package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/replica"
)

// ErrStaleTarget means the edited entity is no longer reachable in the
// replica; the commit was not sent
var ErrStaleTarget = errors.New("edit target is no longer in the replica")

// FieldCommit is one optimistic edit-commit cycle for a single scalar
// field. Get and Set resolve the target fresh through the id chain on
// every call, so a full-tree reload between steps is handled; Send runs
// without holding any replica lock.
type FieldCommit[T any] struct {
	Field string
	Get   func() (T, bool)
	Set   func(T) bool
	Send  func(ctx context.Context, value T) error
}

// Commit runs the edit-commit state machine: capture the original value,
// apply the new one optimistically, send the patch, and on failure restore
// the original. There is no retry; the caller re-triggers the edit.
func Commit[T any](ctx context.Context, coord *Coordinator, fc FieldCommit[T], newValue T) error {
	original, ok := fc.Get()
	if !ok {
		return ErrStaleTarget
	}
	fc.Set(newValue)

	done := coord.Register()
	defer done()

	if err := fc.Send(ctx, newValue); err != nil {
		fc.Set(original)
		return err
	}
	return nil
}

// Editor applies user edits to the replica and commits them through the
// board API. Replica access is serialized by its mutex; network calls are
// made outside it so commits to different fields overlap freely.
type Editor struct {
	mu     sync.Mutex
	state  *replica.State
	api    *client.BoardClient
	coord  *Coordinator
	logger *zap.Logger
}

// NewEditor creates an editor over a replica state
func NewEditor(state *replica.State, api *client.BoardClient, logger *zap.Logger) *Editor {
	return &Editor{
		state:  state,
		api:    api,
		coord:  NewCoordinator(),
		logger: logger,
	}
}

// Coordinator exposes the pending-save set for callers that interleave
// with commits, like uploads
func (e *Editor) Coordinator() *Coordinator {
	return e.coord
}

// State returns the underlying replica state. Callers must treat it as
// read-only while commits may be in flight.
func (e *Editor) State() *replica.State {
	return e.state
}

func (e *Editor) currentProjectID() (uuid.UUID, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.CurrentProject == nil {
		return uuid.Nil, false
	}
	return e.state.CurrentProject.ID, true
}

// EditProjectTitle commits a new title for the current project
func (e *Editor) EditProjectTitle(ctx context.Context, title string) error {
	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}
	return Commit(ctx, e.coord, FieldCommit[string]{
		Field: "project.title",
		Get: func() (string, bool) {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.state.CurrentProject == nil || e.state.CurrentProject.ID != projectID {
				return "", false
			}
			return e.state.CurrentProject.Title, true
		},
		Set: func(v string) bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.state.CurrentProject == nil || e.state.CurrentProject.ID != projectID {
				return false
			}
			e.state.CurrentProject.Title = v
			return true
		},
		Send: func(ctx context.Context, v string) error {
			return e.api.PatchProject(ctx, projectID.String(), map[string]string{"title": v})
		},
	}, title)
}

// commitCardField is the shared machine for card scalar fields
func commitCardField[T any](ctx context.Context, e *Editor, cardID, field string,
	read func(*domain.Card) T, write func(*domain.Card, T), payload func(T) any, newValue T) error {

	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}
	return Commit(ctx, e.coord, FieldCommit[T]{
		Field: field,
		Get: func() (T, bool) {
			e.mu.Lock()
			defer e.mu.Unlock()
			var zero T
			card := e.state.FindCard(cardID)
			if card == nil {
				return zero, false
			}
			return read(card), true
		},
		Set: func(v T) bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			card := e.state.FindCard(cardID)
			if card == nil {
				return false
			}
			write(card, v)
			return true
		},
		Send: func(ctx context.Context, v T) error {
			return e.api.PatchCard(ctx, projectID.String(), cardID, payload(v))
		},
	}, newValue)
}

// commitSectionField is the shared machine for section scalar fields
func commitSectionField[T any](ctx context.Context, e *Editor, cardID, sectionID, field string,
	read func(*domain.Section) T, write func(*domain.Section, T), payload func(T) any, newValue T) error {

	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}
	return Commit(ctx, e.coord, FieldCommit[T]{
		Field: field,
		Get: func() (T, bool) {
			e.mu.Lock()
			defer e.mu.Unlock()
			var zero T
			section := e.state.FindSection(cardID, sectionID)
			if section == nil {
				return zero, false
			}
			return read(section), true
		},
		Set: func(v T) bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			section := e.state.FindSection(cardID, sectionID)
			if section == nil {
				return false
			}
			write(section, v)
			return true
		},
		Send: func(ctx context.Context, v T) error {
			return e.api.PatchSection(ctx, projectID.String(), cardID, sectionID, payload(v))
		},
	}, newValue)
}

// commitTaskField is the shared machine for task scalar fields
func commitTaskField[T any](ctx context.Context, e *Editor, cardID, sectionID, taskID, field string,
	read func(*domain.Task) T, write func(*domain.Task, T), payload func(T) any, newValue T) error {

	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}
	return Commit(ctx, e.coord, FieldCommit[T]{
		Field: field,
		Get: func() (T, bool) {
			e.mu.Lock()
			defer e.mu.Unlock()
			var zero T
			task := e.state.FindTask(cardID, sectionID, taskID)
			if task == nil {
				return zero, false
			}
			return read(task), true
		},
		Set: func(v T) bool {
			e.mu.Lock()
			defer e.mu.Unlock()
			task := e.state.FindTask(cardID, sectionID, taskID)
			if task == nil {
				return false
			}
			write(task, v)
			return true
		},
		Send: func(ctx context.Context, v T) error {
			return e.api.PatchTask(ctx, projectID.String(), cardID, sectionID, taskID, payload(v))
		},
	}, newValue)
}

// EditCardTitle commits a new card title
func (e *Editor) EditCardTitle(ctx context.Context, cardID, title string) error {
	return commitCardField(ctx, e, cardID, "card.title",
		func(c *domain.Card) string { return c.Title },
		func(c *domain.Card, v string) { c.Title = v },
		func(v string) any { return map[string]string{"title": v} },
		title)
}

// EditCardDescription commits a new card description
func (e *Editor) EditCardDescription(ctx context.Context, cardID, description string) error {
	return commitCardField(ctx, e, cardID, "card.description",
		func(c *domain.Card) string { return c.Description },
		func(c *domain.Card, v string) { c.Description = v },
		func(v string) any { return map[string]string{"description": v} },
		description)
}

// EditCardDueDate commits a new due date; nil clears it
func (e *Editor) EditCardDueDate(ctx context.Context, cardID string, due *time.Time) error {
	return commitCardField(ctx, e, cardID, "card.dueDate",
		func(c *domain.Card) *time.Time { return c.DueDate },
		func(c *domain.Card, v *time.Time) { c.DueDate = v },
		func(v *time.Time) any { return map[string]any{"dueDate": v} },
		due)
}

// ToggleCardImportant flips the importance flag. The inverted value is
// applied optimistically; a failed patch flips it back.
func (e *Editor) ToggleCardImportant(ctx context.Context, cardID string) error {
	e.mu.Lock()
	card := e.state.FindCard(cardID)
	if card == nil {
		e.mu.Unlock()
		return ErrStaleTarget
	}
	next := !card.IsImportant
	e.mu.Unlock()

	return commitCardField(ctx, e, cardID, "card.isImportant",
		func(c *domain.Card) bool { return c.IsImportant },
		func(c *domain.Card, v bool) { c.IsImportant = v },
		func(v bool) any { return map[string]bool{"isImportant": v} },
		next)
}

// EditSectionTitle commits a new section title
func (e *Editor) EditSectionTitle(ctx context.Context, cardID, sectionID, title string) error {
	return commitSectionField(ctx, e, cardID, sectionID, "section.title",
		func(s *domain.Section) string { return s.Title },
		func(s *domain.Section, v string) { s.Title = v },
		func(v string) any { return map[string]string{"title": v} },
		title)
}

// EditTaskTitle commits a new task title
func (e *Editor) EditTaskTitle(ctx context.Context, cardID, sectionID, taskID, title string) error {
	return commitTaskField(ctx, e, cardID, sectionID, taskID, "task.title",
		func(t *domain.Task) string { return t.Title },
		func(t *domain.Task, v string) { t.Title = v },
		func(v string) any { return map[string]string{"title": v} },
		title)
}

// EditTaskDescription commits a new task description
func (e *Editor) EditTaskDescription(ctx context.Context, cardID, sectionID, taskID, description string) error {
	return commitTaskField(ctx, e, cardID, sectionID, taskID, "task.description",
		func(t *domain.Task) string { return t.Description },
		func(t *domain.Task, v string) { t.Description = v },
		func(v string) any { return map[string]string{"description": v} },
		description)
}

// ToggleTaskComplete flips the completion flag with optimistic rollback
func (e *Editor) ToggleTaskComplete(ctx context.Context, cardID, sectionID, taskID string) error {
	e.mu.Lock()
	task := e.state.FindTask(cardID, sectionID, taskID)
	if task == nil {
		e.mu.Unlock()
		return ErrStaleTarget
	}
	next := !task.IsCompleted
	e.mu.Unlock()

	return commitTaskField(ctx, e, cardID, sectionID, taskID, "task.isCompleted",
		func(t *domain.Task) bool { return t.IsCompleted },
		func(t *domain.Task, v bool) { t.IsCompleted = v },
		func(v bool) any { return map[string]bool{"isCompleted": v} },
		next)
}
