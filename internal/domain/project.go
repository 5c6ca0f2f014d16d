package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxProjectTitleLength is the upper bound for project titles
const MaxProjectTitleLength = 35

// Project is the aggregate root of the task board. The whole card/section/task
// tree is persisted as a single JSON document on the project row, so every
// nested mutation rewrites one row and the tree is always read consistently.
type Project struct {
	ID        uuid.UUID                 `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID   uuid.UUID                 `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title     string                    `gorm:"type:varchar(35);not null" json:"title"`
	Cards     datatypes.JSONSlice[Card] `gorm:"type:jsonb" json:"cards"`
	CreatedAt time.Time                 `json:"createdAt"`
	UpdatedAt time.Time                 `json:"-"`
}

// TableName returns the table name for Project
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate hook to generate UUID
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Card is a top-level grouping inside a project
type Card struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsImportant bool       `json:"isImportant"`
	Sections    []Section  `json:"sections"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Section groups tasks inside a card
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Task is the leaf work item. Attachments hang off tasks only.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	IsCompleted bool         `json:"isCompleted"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments"`
}

// FindCard returns a pointer into the project's card slice, or nil.
// Callers that mutate through the pointer must save the whole project row.
func (p *Project) FindCard(cardID string) *Card {
	for i := range p.Cards {
		if p.Cards[i].ID == cardID {
			return &p.Cards[i]
		}
	}
	return nil
}

// FindSection resolves a section through its card, or nil if either is missing
func (p *Project) FindSection(cardID, sectionID string) *Section {
	card := p.FindCard(cardID)
	if card == nil {
		return nil
	}
	for i := range card.Sections {
		if card.Sections[i].ID == sectionID {
			return &card.Sections[i]
		}
	}
	return nil
}

// FindTask resolves a task through its full card/section chain, or nil
func (p *Project) FindTask(cardID, sectionID, taskID string) *Task {
	section := p.FindSection(cardID, sectionID)
	if section == nil {
		return nil
	}
	for i := range section.Tasks {
		if section.Tasks[i].ID == taskID {
			return &section.Tasks[i]
		}
	}
	return nil
}

// StoragePaths collects every attachment storage path referenced by the tree
func (p *Project) StoragePaths() []string {
	var paths []string
	for ci := range p.Cards {
		for si := range p.Cards[ci].Sections {
			for ti := range p.Cards[ci].Sections[si].Tasks {
				for _, att := range p.Cards[ci].Sections[si].Tasks[ti].Attachments {
					paths = append(paths, att.StoragePath)
				}
			}
		}
	}
	return paths
}

// ReferencesStoragePath reports whether any attachment in the tree uses the path
func (p *Project) ReferencesStoragePath(path string) bool {
	for _, ref := range p.StoragePaths() {
		if ref == path {
			return true
		}
	}
	return false
}
