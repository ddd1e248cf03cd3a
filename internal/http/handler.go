package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	dto "courier-sync.com/courier-sync/internal/data_models"
	apperrors "courier-sync.com/courier-sync/internal/errors"
	"courier-sync.com/courier-sync/internal/http/validators"
	"courier-sync.com/courier-sync/internal/services"
	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

type Handler struct {
	statusService *services.StatusService
	taskService   *services.TaskService
}

func NewHandler(statusService *services.StatusService, taskService *services.TaskService) *Handler {
	return &Handler{
		statusService: statusService,
		taskService:   taskService,
	}
}

func (h *Handler) GetStatus(c echo.Context) error {
	courierID := c.Param("id")
	if courierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "courier id is required")
	}

	status, canChange, err := h.statusService.Current(c.Request().Context(), courierID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":              status,
		"can_change_manually": canChange,
	})
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	courierID := c.Param("id")
	if courierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "courier id is required")
	}

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateStatusRequest(&req); err != nil {
		return err
	}

	target, err := constants.ParseAvailability(req.Status)
	if err != nil {
		return httpError(apperrors.ErrInvalidStatus)
	}

	status, canChange, err := h.statusService.UpdateManual(c.Request().Context(), courierID, target)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":              status,
		"can_change_manually": canChange,
	})
}

func (h *Handler) ResetStatus(c echo.Context) error {
	courierID := c.Param("id")
	if courierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "courier id is required")
	}

	status, changed, err := h.statusService.Reset(c.Request().Context(), courierID)
	if err != nil {
		return httpError(err)
	}

	message := "no active deliveries, status released"
	if !changed {
		message = "status unchanged"
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"current_status": status,
		"message":        message,
	})
}

func (h *Handler) ListTasks(c echo.Context) error {
	courierID := c.Param("id")
	if courierID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "courier id is required")
	}

	tasks, err := h.taskService.ListForCourier(c.Request().Context(), courierID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"count": len(tasks),
		"tasks": tasks,
	})
}

func (h *Handler) UpdateTaskStatus(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "task id is required")
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateUpdateTaskStatusRequest(&req); err != nil {
		return err
	}

	target, err := constants.ParseTaskStatus(req.Status)
	if err != nil {
		return httpError(apperrors.ErrInvalidStatus)
	}

	task, err := h.taskService.UpdateStatus(c.Request().Context(), id, target, req.Reason)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON payload")
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	var deadline *time.Time
	if req.Deadline != "" {
		d, _ := time.Parse(time.RFC3339, req.Deadline)
		deadline = &d
	}

	task, err := h.taskService.Create(
		c.Request().Context(),
		req.OrderID,
		model.TaskKind(req.Kind),
		req.CourierID,
		req.Address,
		deadline,
	)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func httpError(err error) error {
	return echo.NewHTTPError(apperrors.StatusCode(err), err.Error())
}
