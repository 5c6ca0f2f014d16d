package dto

// CreateProjectRequest creates a new project. Title is required and capped
// at 35 characters; validation happens in the service so the limit error
// message stays consistent with patches.
type CreateProjectRequest struct {
	Title string `json:"title" binding:"required"`
}

// PatchProjectRequest updates project fields. Absent fields are untouched.
type PatchProjectRequest struct {
	Title *string `json:"title"`
}

// AddCardRequest appends a card to a project. A blank title gets the
// positional default ("Card N").
type AddCardRequest struct {
	Title string `json:"title"`
}

// PatchCardRequest updates card fields. DueDate distinguishes null (clear)
// from absent (leave as is).
type PatchCardRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	DueDate     OptionalTime `json:"dueDate"`
	IsImportant *bool        `json:"isImportant"`
}

// AddSectionRequest appends a section to a card
type AddSectionRequest struct {
	Title string `json:"title"`
}

// PatchSectionRequest updates section fields
type PatchSectionRequest struct {
	Title *string `json:"title"`
}

// AddTaskRequest appends a task to a section
type AddTaskRequest struct {
	Title string `json:"title"`
}

// PatchTaskRequest updates task fields. A present Tags replaces the whole
// tag list.
type PatchTaskRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	IsCompleted *bool     `json:"isCompleted"`
	Tags        *[]string `json:"tags"`
}
