package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/tasks-api/internal/services"
)

type Handler interface {
	HandleRoot(c *gin.Context)
	HandleHealth(c *gin.Context)
	HandleReady(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ServiceInfo is reported by the root endpoint. Title is the human readable
// service name.
type ServiceInfo struct {
	Name    string
	Title   string
	Version string
	Env     string
}

type handlerImpl struct {
	logger zerolog.Logger
	db     Pinger
	tasks  services.TaskService
	info   ServiceInfo
}

func New(
	logger zerolog.Logger,
	db Pinger,
	taskService services.TaskService,
	info ServiceInfo,
) Handler {
	return &handlerImpl{
		logger: logger,
		db:     db,
		tasks:  taskService,
		info:   info,
	}
}

func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/", h.HandleRoot)
	router.GET("/health", h.HandleHealth)
	router.GET("/ready", h.HandleReady)

	tasksRouter := router.Group("/tasks")
	tasksRouter.GET("", h.HandleListTasks)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.GET("/:id", h.HandleGetTask)
	tasksRouter.PUT("/:id", h.HandleUpdateTask)
	tasksRouter.DELETE("/:id", h.HandleDeleteTask)
}
