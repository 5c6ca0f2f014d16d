package replica

import (
	"github.com/google/uuid"

	"todo-hub-api/internal/domain"
)

// State is the client-held mirror of the user's boards. CurrentProject,
// when set, is always the same pointer as the matching Projects entry, so
// an edit through either view is visible through both.
type State struct {
	Projects       []*domain.Project
	CurrentProject *domain.Project
	EditMode       bool
	SelectedCards  map[string]bool
}

// NewState creates an empty replica state
func NewState() *State {
	return &State{
		Projects:      []*domain.Project{},
		SelectedCards: make(map[string]bool),
	}
}

// SetProjects replaces the whole project list. The current selection is
// re-pointed at the fresh entry, or dropped if the project is gone.
func (s *State) SetProjects(projects []*domain.Project) {
	if projects == nil {
		projects = []*domain.Project{}
	}
	s.Projects = projects

	if s.CurrentProject == nil {
		return
	}
	currentID := s.CurrentProject.ID
	s.CurrentProject = nil
	for _, project := range s.Projects {
		if project.ID == currentID {
			s.CurrentProject = project
			return
		}
	}
	s.clearSelection()
}

// SelectProject makes the matching list entry current
func (s *State) SelectProject(projectID uuid.UUID) bool {
	for _, project := range s.Projects {
		if project.ID == projectID {
			s.CurrentProject = project
			s.clearSelection()
			return true
		}
	}
	return false
}

// AddProject appends a freshly created project to the list
func (s *State) AddProject(project *domain.Project) {
	s.Projects = append(s.Projects, project)
}

// RemoveProject drops a project from the list, clearing the selection if
// it was current
func (s *State) RemoveProject(projectID uuid.UUID) {
	for i, project := range s.Projects {
		if project.ID == projectID {
			s.Projects = append(s.Projects[:i], s.Projects[i+1:]...)
			break
		}
	}
	if s.CurrentProject != nil && s.CurrentProject.ID == projectID {
		s.CurrentProject = nil
		s.clearSelection()
	}
}

// ReplaceCurrent swaps in a reloaded copy of the current project, keeping
// the list entry and CurrentProject the same pointer
func (s *State) ReplaceCurrent(project *domain.Project) {
	for i := range s.Projects {
		if s.Projects[i].ID == project.ID {
			s.Projects[i] = project
			break
		}
	}
	s.CurrentProject = project
}

// FindCard resolves a card in the current project, fresh on every call
func (s *State) FindCard(cardID string) *domain.Card {
	if s.CurrentProject == nil {
		return nil
	}
	return s.CurrentProject.FindCard(cardID)
}

// FindSection resolves a section in the current project
func (s *State) FindSection(cardID, sectionID string) *domain.Section {
	if s.CurrentProject == nil {
		return nil
	}
	return s.CurrentProject.FindSection(cardID, sectionID)
}

// FindTask resolves a task in the current project
func (s *State) FindTask(cardID, sectionID, taskID string) *domain.Task {
	if s.CurrentProject == nil {
		return nil
	}
	return s.CurrentProject.FindTask(cardID, sectionID, taskID)
}

// ToggleCardSelection flips a card in or out of the selection set
func (s *State) ToggleCardSelection(cardID string) {
	if s.SelectedCards[cardID] {
		delete(s.SelectedCards, cardID)
		return
	}
	s.SelectedCards[cardID] = true
}

func (s *State) clearSelection() {
	s.SelectedCards = make(map[string]bool)
}
