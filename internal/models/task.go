package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus returns an *EnumError for anything outside the known statuses.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", &EnumError{Field: "status", Value: s, Allowed: StatusValues()}
	}
	return status, nil
}

func StatusValues() []string {
	return []string{
		string(StatusPending),
		string(StatusInProgress),
		string(StatusCompleted),
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &EnumError{Field: "status", Value: string(data), Allowed: StatusValues()}
	}

	status, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority returns an *EnumError for anything outside the known priorities.
func ParsePriority(s string) (Priority, error) {
	priority := Priority(s)
	if !priority.IsValid() {
		return "", &EnumError{Field: "priority", Value: s, Allowed: PriorityValues()}
	}
	return priority, nil
}

func PriorityValues() []string {
	return []string{
		string(PriorityLow),
		string(PriorityMedium),
		string(PriorityHigh),
	}
}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) String() string {
	return string(p)
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &EnumError{Field: "priority", Value: string(data), Allowed: PriorityValues()}
	}

	priority, err := ParsePriority(raw)
	if err != nil {
		return err
	}
	*p = priority
	return nil
}

// EnumError reports a value outside a closed enumeration.
type EnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q, must be one of %v", e.Field, e.Value, e.Allowed)
}

const (
	TitleMinLength = 1
	TitleMaxLength = 200
)

type Task struct {
	ID          int64
	Title       string
	Description *string
	Tags        []string
	DateEntered time.Time
	DueDate     *time.Time
	Status      Status
	Priority    *Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
