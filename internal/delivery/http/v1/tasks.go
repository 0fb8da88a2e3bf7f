package v1

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/tasks-api/internal/models"
	"github.com/adanyl0v/tasks-api/internal/services"
)

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Tags        []string   `json:"tags"`
	DateEntered time.Time  `json:"date_entered"`
	DueDate     *time.Time `json:"due_date"`
	Status      string     `json:"status"`
	Priority    *string    `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newTaskResponse(task *models.Task) taskResponse {
	resp := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Tags:        task.Tags,
		DateEntered: task.DateEntered,
		DueDate:     task.DueDate,
		Status:      task.Status.String(),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if task.Priority != nil {
		priority := task.Priority.String()
		resp.Priority = &priority
	}
	return resp
}

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	params, err := parseListTasksQuery(c)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("invalid list tasks query")
		h.abortWithError(c, err)
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		h.abortWithError(c, err)
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	h.logger.Debug().
		Int("count", len(response)).
		Msg("listed tasks")
	c.JSON(http.StatusOK, response)
}

// parseListTasksQuery reports every malformed query parameter at once.
func parseListTasksQuery(c *gin.Context) (services.ListTasksParams, error) {
	var (
		params  = services.NewListTasksParams()
		invalid services.ValidationError
	)

	if raw, ok := c.GetQuery("status"); ok {
		status, err := models.ParseStatus(raw)
		if err != nil {
			invalid.Add("status", "must be one of "+strings.Join(models.StatusValues(), ", "))
		} else {
			params.Status = &status
		}
	}
	if raw, ok := c.GetQuery("priority"); ok {
		priority, err := models.ParsePriority(raw)
		if err != nil {
			invalid.Add("priority", "must be one of "+strings.Join(models.PriorityValues(), ", "))
		} else {
			params.Priority = &priority
		}
	}
	if tag := c.Query("tag"); tag != "" {
		params.Tag = &tag
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		invalid.Add("skip", "must be an integer")
	} else {
		params.Skip = skip
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultListLimit)))
	if err != nil {
		invalid.Add("limit", "must be an integer")
	} else {
		params.Limit = limit
	}

	if err := invalid.OrNil(); err != nil {
		return params, err
	}
	return params, params.Validate()
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTaskByID(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to get task")
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Tags and status may be omitted on create but not sent as null.
type createTaskRequest struct {
	Title       string                         `json:"title"`
	Description *string                        `json:"description"`
	Tags        models.Optional[[]string]      `json:"tags"`
	DueDate     *models.Timestamp              `json:"due_date"`
	Status      models.Optional[models.Status] `json:"status"`
	Priority    *models.Priority               `json:"priority"`
}

func (r createTaskRequest) params() (services.CreateTaskParams, error) {
	var invalid services.ValidationError
	if r.Tags.Set && r.Tags.Null {
		invalid.Add("tags", "must not be null")
	}
	if r.Status.Set && r.Status.Null {
		invalid.Add("status", "must not be null")
	}
	if err := invalid.OrNil(); err != nil {
		return services.CreateTaskParams{}, err
	}

	return services.CreateTaskParams{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags.Value,
		DueDate:     r.DueDate.TimePtr(),
		Status:      r.Status.Value,
		Priority:    r.Priority,
	}, nil
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		h.abortWithError(c, newDecodeError(err))
		return
	}

	params, err := req.params()
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("invalid create task body")
		h.abortWithError(c, err)
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), params)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		h.abortWithError(c, err)
		return
	}

	h.logger.Info().
		Int64("task_id", task.ID).
		Msg("created task")
	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       models.Optional[string]           `json:"title"`
	Description models.Optional[string]           `json:"description"`
	Tags        models.Optional[[]string]         `json:"tags"`
	DueDate     models.Optional[models.Timestamp] `json:"due_date"`
	Status      models.Optional[models.Status]    `json:"status"`
	Priority    models.Optional[models.Priority]  `json:"priority"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to bind json")
		h.abortWithError(c, newDecodeError(err))
		return
	}

	dueDate := models.Optional[time.Time]{
		Value: req.DueDate.Value.Time,
		Set:   req.DueDate.Set,
		Null:  req.DueDate.Null,
	}
	task, err := h.tasks.UpdateTask(c.Request.Context(), services.UpdateTaskParams{
		ID:          taskID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		DueDate:     dueDate,
		Status:      req.Status,
		Priority:    req.Priority,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to update task")
		h.abortWithError(c, err)
		return
	}

	h.logger.Info().
		Int64("task_id", task.ID).
		Msg("updated task")
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	taskID, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c.Request.Context(), taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("failed to delete task")
		h.abortWithError(c, err)
		return
	}

	h.logger.Info().
		Int64("task_id", taskID).
		Msg("deleted task")
	c.Status(http.StatusNoContent)
}

// taskIDParam aborts the request with 422 when the path id is not an integer.
func (h *handlerImpl) taskIDParam(c *gin.Context) (int64, bool) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Warn().
			Str("id", c.Param("id")).
			Msg("invalid task id")
		abort(c, newValidationError(services.NewValidationError("id", "must be an integer")))
		return 0, false
	}
	return taskID, true
}
