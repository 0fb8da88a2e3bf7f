package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasks-api/internal/models"
)

const taskColumns = `id,
       title,
       description,
       tags,
       date_entered,
       due_date,
       status,
       priority,
       created_at,
       updated_at`

// Check constraints declared by the tasks migration, keyed to the field
// they guard.
var constraintFields = map[string]string{
	"tasks_title_length_check": "title",
	"tasks_status_check":       "status",
	"tasks_priority_check":     "priority",
}

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
		now:    Now,
	}
}

// Now is the clock used for task timestamps. Postgres stores microseconds,
// so the value is truncated to keep returned and stored timestamps equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, params ListTasksParams) ([]*models.Task, error) {
	err := params.Validate()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("invalid list tasks params")
		return nil, err
	}

	query, args := buildListTasksQuery(params)
	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0, params.Limit)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Int("skip", params.Skip).
		Int("limit", params.Limit).
		Msg("selected tasks")

	return tasks, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = `
SELECT ` + taskColumns + `
FROM tasks
WHERE id = $1
`
	task, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info().
				Int64("task_id", id).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to select task by id")
		return nil, err
	}
	s.logger.Debug().
		Int64("task_id", id).
		Msg("selected task by id")

	return task, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	err := params.Validate()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Msg("invalid create task params")
		return nil, err
	}

	now := s.now()
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	status := params.Status
	if status == "" {
		status = models.StatusPending
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const insertTaskQuery = `
INSERT INTO tasks (title,
                   description,
                   tags,
                   date_entered,
                   due_date,
                   status,
                   priority,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + taskColumns
	task, err := scanTask(tx.QueryRow(
		ctx,
		insertTaskQuery,
		params.Title,
		params.Description,
		tags,
		now,
		params.DueDate,
		string(status),
		priorityArg(params.Priority),
		now,
		now,
	))
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, translatePgError(err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	err := params.Validate()
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("task_id", params.ID).
			Msg("invalid update task params")
		return nil, err
	}

	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query, args := buildUpdateTaskQuery(params, s.now())
	task, err := scanTask(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Info().
				Int64("task_id", params.ID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("task_id", params.ID).
			Msg("failed to update task")
		return nil, translatePgError(err)
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := tx.Exec(ctx, deleteTaskQuery, id)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", id).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Info().
			Int64("task_id", id).
			Msg("task not found")
		return ErrTaskNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Int64("task_id", id).
		Msg("deleted task")
	return nil
}

// buildListTasksQuery ANDs together the supplied filters. The tag filter
// uses array containment so the GIN index on tags can serve it.
func buildListTasksQuery(params ListTasksParams) (string, []any) {
	var (
		conds []string
		args  []any
	)
	placeholder := func(arg any) string {
		args = append(args, arg)
		return "$" + strconv.Itoa(len(args))
	}

	if params.Status != nil {
		conds = append(conds, "status = "+placeholder(string(*params.Status)))
	}
	if params.Priority != nil {
		conds = append(conds, "priority = "+placeholder(string(*params.Priority)))
	}
	if params.Tag != nil {
		conds = append(conds, "tags @> ARRAY["+placeholder(*params.Tag)+"]::text[]")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(taskColumns)
	b.WriteString("\nFROM tasks\n")
	if len(conds) > 0 {
		b.WriteString("WHERE ")
		b.WriteString(strings.Join(conds, "\n  AND "))
		b.WriteString("\n")
	}
	b.WriteString("ORDER BY id\n")
	b.WriteString("LIMIT " + placeholder(params.Limit))
	b.WriteString(" OFFSET " + placeholder(params.Skip))
	return b.String(), args
}

// buildUpdateTaskQuery sets only the supplied columns. updated_at is always
// part of the SET list, so an update without fields still touches the row.
func buildUpdateTaskQuery(params UpdateTaskParams, now time.Time) (string, []any) {
	var (
		sets []string
		args []any
	)
	set := func(column string, arg any) {
		args = append(args, arg)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if params.Title.Set {
		set("title", params.Title.Value)
	}
	if params.Description.Set {
		set("description", params.Description.Ptr())
	}
	if params.Tags.Set {
		tags := params.Tags.Value
		if tags == nil {
			tags = []string{}
		}
		set("tags", tags)
	}
	if params.DueDate.Set {
		set("due_date", params.DueDate.Ptr())
	}
	if params.Status.Set {
		set("status", string(params.Status.Value))
	}
	if params.Priority.Set {
		set("priority", priorityArg(params.Priority.Ptr()))
	}
	set("updated_at", now)

	args = append(args, params.ID)
	query := "UPDATE tasks\nSET " + strings.Join(sets, ",\n    ") +
		"\nWHERE id = $" + strconv.Itoa(len(args)) +
		"\nRETURNING " + taskColumns
	return query, args
}

// scanTask reads the taskColumns projection. Timestamps come back in the
// session time zone and are normalized to UTC.
func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task     models.Task
		status   string
		priority *string
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Tags,
		&task.DateEntered,
		&task.DueDate,
		&status,
		&priority,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.DateEntered = task.DateEntered.UTC()
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	if task.DueDate != nil {
		due := task.DueDate.UTC()
		task.DueDate = &due
	}

	task.Status = models.Status(status)
	if priority != nil {
		p := models.Priority(*priority)
		task.Priority = &p
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return &task, nil
}

func priorityArg(p *models.Priority) *string {
	if p == nil {
		return nil
	}
	s := string(*p)
	return &s
}

// translatePgError maps constraint violations that slipped past request
// validation onto a *ValidationError.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.CheckViolation:
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = "body"
		}
		return NewValidationError(field, "violates constraint "+pgErr.ConstraintName)
	case pgerrcode.StringDataRightTruncationDataException:
		return NewValidationError("title", "value too long")
	}
	return err
}
