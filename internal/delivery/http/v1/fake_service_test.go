package v1

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/adanyl0v/tasks-api/internal/models"
	"github.com/adanyl0v/tasks-api/internal/services"
)

// fakeTaskService keeps tasks in id order in memory and mirrors the
// semantics of the Postgres-backed service.
type fakeTaskService struct {
	mu     sync.Mutex
	tasks  []*models.Task
	nextID int64
	clock  time.Time
	err    error
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{
		nextID: 1,
		clock:  time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
	}
}

func (s *fakeTaskService) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeTaskService) ListTasks(_ context.Context, params services.ListTasksParams) ([]*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var matched []*models.Task
	for _, task := range s.tasks {
		if params.Status != nil && task.Status != *params.Status {
			continue
		}
		if params.Priority != nil && (task.Priority == nil || *task.Priority != *params.Priority) {
			continue
		}
		if params.Tag != nil && !slices.Contains(task.Tags, *params.Tag) {
			continue
		}
		matched = append(matched, clone(task))
	}

	if params.Skip >= len(matched) {
		return []*models.Task{}, nil
	}
	end := min(params.Skip+params.Limit, len(matched))
	return matched[params.Skip:end], nil
}

func (s *fakeTaskService) GetTaskByID(_ context.Context, id int64) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}

	task := s.find(id)
	if task == nil {
		return nil, services.ErrTaskNotFound
	}
	return clone(task), nil
}

func (s *fakeTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	task := &models.Task{
		ID:          s.nextID,
		Title:       params.Title,
		Description: params.Description,
		Tags:        params.Tags,
		DateEntered: now,
		DueDate:     params.DueDate,
		Status:      params.Status,
		Priority:    params.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	s.nextID++
	s.tasks = append(s.tasks, task)
	return clone(task), nil
}

func (s *fakeTaskService) UpdateTask(_ context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	task := s.find(params.ID)
	if task == nil {
		return nil, services.ErrTaskNotFound
	}
	if params.Title.Set {
		task.Title = params.Title.Value
	}
	if params.Description.Set {
		task.Description = params.Description.Ptr()
	}
	if params.Tags.Set {
		task.Tags = params.Tags.Value
	}
	if params.DueDate.Set {
		task.DueDate = params.DueDate.Ptr()
	}
	if params.Status.Set {
		task.Status = params.Status.Value
	}
	if params.Priority.Set {
		task.Priority = params.Priority.Ptr()
	}
	task.UpdatedAt = s.now()
	return clone(task), nil
}

func (s *fakeTaskService) DeleteTask(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}

	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = slices.Delete(s.tasks, i, i+1)
			return nil
		}
	}
	return services.ErrTaskNotFound
}

func (s *fakeTaskService) find(id int64) *models.Task {
	for _, task := range s.tasks {
		if task.ID == id {
			return task
		}
	}
	return nil
}

func clone(task *models.Task) *models.Task {
	c := *task
	c.Tags = slices.Clone(task.Tags)
	return &c
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}
