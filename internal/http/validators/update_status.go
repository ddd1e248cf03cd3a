package validators

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	dto "courier-sync.com/courier-sync/internal/data_models"
	model "courier-sync.com/courier-sync/pkg/models"
)

func ValidateUpdateStatusRequest(r *dto.UpdateStatusRequest) error {
	if r.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	return nil
}

func ValidateUpdateTaskStatusRequest(r *dto.UpdateTaskStatusRequest) error {
	if r.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	return nil
}

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) error {
	if r.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "order_id is required")
	}
	if r.Address == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "address is required")
	}
	switch model.TaskKind(r.Kind) {
	case model.KindDelivery, model.KindReturn:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "kind must be delivery or return")
	}
	if r.Deadline != "" {
		if _, err := time.Parse(time.RFC3339, r.Deadline); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "deadline must be RFC3339")
		}
	}
	return nil
}
