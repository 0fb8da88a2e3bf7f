package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adanyl0v/tasks-api/internal/models"
)

var ErrTaskNotFound = errors.New("task not found")

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

type TaskService interface {
	// ListTasks returns tasks ordered by id, filtered by every supplied
	// criterion and sliced by Skip and Limit.
	//
	// It returns a *ValidationError if the params are out of range.
	ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error)

	// GetTaskByID returns ErrTaskNotFound if there is no task with the given id.
	GetTaskByID(ctx context.Context, id int64) (*models.Task, error)

	// CreateTask inserts a task, assigning its id and timestamps.
	//
	// It returns a *ValidationError if the title length or
	// an enum value is invalid.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// UpdateTask overwrites only the supplied fields and always
	// refreshes updated_at.
	//
	// It returns ErrTaskNotFound if there is no task with the given
	// id or a *ValidationError if a supplied field is invalid.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask permanently removes the task or returns ErrTaskNotFound.
	DeleteTask(ctx context.Context, id int64) error
}

type ListTasksParams struct {
	Status   *models.Status
	Priority *models.Priority
	Tag      *string
	Skip     int
	Limit    int
}

// NewListTasksParams returns params with the default page size.
func NewListTasksParams() ListTasksParams {
	return ListTasksParams{Limit: DefaultListLimit}
}

func (p ListTasksParams) Validate() error {
	var v ValidationError
	if p.Status != nil && !p.Status.IsValid() {
		v.Add("status", invalidEnumMessage(models.StatusValues()))
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		v.Add("priority", invalidEnumMessage(models.PriorityValues()))
	}
	if p.Skip < 0 {
		v.Add("skip", "must be greater than or equal to 0")
	}
	if p.Limit < 1 || p.Limit > MaxListLimit {
		v.Add("limit", fmt.Sprintf("must be between 1 and %d", MaxListLimit))
	}
	return v.OrNil()
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Tags        []string
	DueDate     *time.Time
	// Zero value means models.StatusPending.
	Status   models.Status
	Priority *models.Priority
}

func (p CreateTaskParams) Validate() error {
	var v ValidationError
	validateTitle(&v, p.Title)
	if p.Status != "" && !p.Status.IsValid() {
		v.Add("status", invalidEnumMessage(models.StatusValues()))
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		v.Add("priority", invalidEnumMessage(models.PriorityValues()))
	}
	return v.OrNil()
}

type UpdateTaskParams struct {
	ID          int64
	Title       models.Optional[string]
	Description models.Optional[string]
	Tags        models.Optional[[]string]
	DueDate     models.Optional[time.Time]
	Status      models.Optional[models.Status]
	Priority    models.Optional[models.Priority]
}

func (p UpdateTaskParams) Validate() error {
	var v ValidationError
	if p.Title.Set {
		if p.Title.Null {
			v.Add("title", "must not be null")
		} else {
			validateTitle(&v, p.Title.Value)
		}
	}
	if p.Tags.Set && p.Tags.Null {
		v.Add("tags", "must not be null")
	}
	if p.Status.Set {
		if p.Status.Null {
			v.Add("status", "must not be null")
		} else if !p.Status.Value.IsValid() {
			v.Add("status", invalidEnumMessage(models.StatusValues()))
		}
	}
	if p.Priority.HasValue() && !p.Priority.Value.IsValid() {
		v.Add("priority", invalidEnumMessage(models.PriorityValues()))
	}
	return v.OrNil()
}

func validateTitle(v *ValidationError, title string) {
	n := utf8.RuneCountInString(title)
	if n < models.TitleMinLength || n > models.TitleMaxLength {
		v.Add("title", fmt.Sprintf("length must be between %d and %d characters",
			models.TitleMinLength, models.TitleMaxLength))
	}
}

func invalidEnumMessage(allowed []string) string {
	return "must be one of " + strings.Join(allowed, ", ")
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError collects every invalid field of a request.
type ValidationError struct {
	Fields []FieldError
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns nil when no field has been added, so that a zero
// ValidationError never ends up as a non-nil error interface.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
