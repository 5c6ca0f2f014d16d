package sync

import (
	"context"

	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
)

// Structural mutations bypass the pending-save set. Adds merge the server's
// created entity into the replica; deletes splice optimistically and fall
// back to a full project reload on failure, because a failed structural
// change can leave state only the server's canonical copy resolves.

// AddCard creates a card on the server and merges it into the replica
func (e *Editor) AddCard(ctx context.Context, title string) (*domain.Card, error) {
	projectID, ok := e.currentProjectID()
	if !ok {
		return nil, ErrStaleTarget
	}

	card, err := e.api.AddCard(ctx, projectID.String(), title)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.state.CurrentProject != nil && e.state.CurrentProject.ID == projectID {
		e.state.CurrentProject.Cards = append(e.state.CurrentProject.Cards, *card)
	}
	e.mu.Unlock()
	return card, nil
}

// AddSection creates a section on the server and merges it into the replica
func (e *Editor) AddSection(ctx context.Context, cardID, title string) (*domain.Section, error) {
	projectID, ok := e.currentProjectID()
	if !ok {
		return nil, ErrStaleTarget
	}

	section, err := e.api.AddSection(ctx, projectID.String(), cardID, title)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if card := e.state.FindCard(cardID); card != nil {
		card.Sections = append(card.Sections, *section)
	}
	e.mu.Unlock()
	return section, nil
}

// AddTask creates a task on the server and merges it into the replica
func (e *Editor) AddTask(ctx context.Context, cardID, sectionID, title string) (*domain.Task, error) {
	projectID, ok := e.currentProjectID()
	if !ok {
		return nil, ErrStaleTarget
	}

	task, err := e.api.AddTask(ctx, projectID.String(), cardID, sectionID, title)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if section := e.state.FindSection(cardID, sectionID); section != nil {
		section.Tasks = append(section.Tasks, *task)
	}
	e.mu.Unlock()
	return task, nil
}

// DeleteCard removes a card optimistically and confirms with the server
func (e *Editor) DeleteCard(ctx context.Context, cardID string) error {
	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}

	e.mu.Lock()
	if project := e.state.CurrentProject; project != nil {
		for i := range project.Cards {
			if project.Cards[i].ID == cardID {
				project.Cards = append(project.Cards[:i], project.Cards[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()

	if err := e.api.DeleteCard(ctx, projectID.String(), cardID); err != nil {
		e.reloadCurrent(ctx)
		return err
	}
	return nil
}

// DeleteSection removes a section optimistically and confirms with the server
func (e *Editor) DeleteSection(ctx context.Context, cardID, sectionID string) error {
	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}

	e.mu.Lock()
	if card := e.state.FindCard(cardID); card != nil {
		for i := range card.Sections {
			if card.Sections[i].ID == sectionID {
				card.Sections = append(card.Sections[:i], card.Sections[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()

	if err := e.api.DeleteSection(ctx, projectID.String(), cardID, sectionID); err != nil {
		e.reloadCurrent(ctx)
		return err
	}
	return nil
}

// DeleteTask removes a task optimistically and confirms with the server
func (e *Editor) DeleteTask(ctx context.Context, cardID, sectionID, taskID string) error {
	projectID, ok := e.currentProjectID()
	if !ok {
		return ErrStaleTarget
	}

	e.mu.Lock()
	if section := e.state.FindSection(cardID, sectionID); section != nil {
		for i := range section.Tasks {
			if section.Tasks[i].ID == taskID {
				section.Tasks = append(section.Tasks[:i], section.Tasks[i+1:]...)
				break
			}
		}
	}
	e.mu.Unlock()

	if err := e.api.DeleteTask(ctx, projectID.String(), cardID, sectionID, taskID); err != nil {
		e.reloadCurrent(ctx)
		return err
	}
	return nil
}

// reloadCurrent replaces the replica's current project with the server's
// canonical copy. Best effort; if the reload itself fails the replica is
// left as it is and the next operation will surface the problem.
func (e *Editor) reloadCurrent(ctx context.Context) {
	projectID, ok := e.currentProjectID()
	if !ok {
		return
	}

	project, err := e.api.GetProject(ctx, projectID.String())
	if err != nil {
		e.logger.Warn("Failed to reload project after structural failure",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return
	}

	e.mu.Lock()
	e.state.ReplaceCurrent(project)
	e.mu.Unlock()
}
