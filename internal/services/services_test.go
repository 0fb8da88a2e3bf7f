package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/adanyl0v/tasks-api/internal/models"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var v *ValidationError
	if !errors.As(err, &v) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	fields := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		fields[i] = f.Field
	}
	return fields
}

func TestCreateTaskParamsValidateTitleLength(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
	}{
		{name: "empty", title: "", wantErr: true},
		{name: "one char", title: "a"},
		{name: "max length", title: strings.Repeat("a", 200)},
		{name: "max length multibyte", title: strings.Repeat("é", 200)},
		{name: "too long", title: strings.Repeat("a", 201), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CreateTaskParams{Title: tt.title}.Validate()
			if tt.wantErr {
				if got := fieldsOf(t, err); len(got) != 1 || got[0] != "title" {
					t.Errorf("fields = %v, want [title]", got)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateTaskParamsValidateEnums(t *testing.T) {
	bad := models.Priority("urgent")
	err := CreateTaskParams{
		Title:    "t",
		Status:   models.Status("done"),
		Priority: &bad,
	}.Validate()

	got := fieldsOf(t, err)
	if len(got) != 2 || got[0] != "status" || got[1] != "priority" {
		t.Errorf("fields = %v, want [status priority]", got)
	}
}

func TestUpdateTaskParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		params UpdateTaskParams
		want   []string
	}{
		{name: "nothing supplied", params: UpdateTaskParams{ID: 1}},
		{
			name:   "status only",
			params: UpdateTaskParams{ID: 1, Status: models.Some(models.StatusCompleted)},
		},
		{
			name: "nullable fields cleared",
			params: UpdateTaskParams{
				ID:          1,
				Description: models.Null[string](),
				Priority:    models.Null[models.Priority](),
			},
		},
		{
			name:   "null title",
			params: UpdateTaskParams{ID: 1, Title: models.Null[string]()},
			want:   []string{"title"},
		},
		{
			name:   "empty title",
			params: UpdateTaskParams{ID: 1, Title: models.Some("")},
			want:   []string{"title"},
		},
		{
			name: "null tags and status",
			params: UpdateTaskParams{
				ID:     1,
				Tags:   models.Null[[]string](),
				Status: models.Null[models.Status](),
			},
			want: []string{"tags", "status"},
		},
		{
			name:   "unknown priority",
			params: UpdateTaskParams{ID: 1, Priority: models.Some(models.Priority("urgent"))},
			want:   []string{"priority"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if len(tt.want) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			got := fieldsOf(t, err)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("fields = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestListTasksParamsValidate(t *testing.T) {
	if err := NewListTasksParams().Validate(); err != nil {
		t.Errorf("default params: unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		params ListTasksParams
		want   string
	}{
		{name: "negative skip", params: ListTasksParams{Skip: -1, Limit: 10}, want: "skip"},
		{name: "zero limit", params: ListTasksParams{Limit: 0}, want: "limit"},
		{name: "limit too large", params: ListTasksParams{Limit: 1001}, want: "limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fieldsOf(t, tt.params.Validate())
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("fields = %v, want [%s]", got, tt.want)
			}
		})
	}

	if err := (ListTasksParams{Limit: 1000}).Validate(); err != nil {
		t.Errorf("limit 1000: unexpected error: %v", err)
	}
}

func TestValidationErrorOrNil(t *testing.T) {
	var v ValidationError
	if v.OrNil() != nil {
		t.Error("empty ValidationError must be nil")
	}

	v.Add("title", "too long")
	err := v.OrNil()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "validation failed: title: too long" {
		t.Errorf("Error() = %q", err.Error())
	}
}
