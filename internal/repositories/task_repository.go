package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

type TaskRepository struct {
	db *gorm.DB
}

var ErrOptimisticLock = errors.New("optimistic locking conflict")

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CreateTask inserts a new fulfillment task. A non-empty courierID creates
// the task already assigned, with the assignment timestamp stamped.
func (r *TaskRepository) CreateTask(
	ctx context.Context,
	orderID string,
	kind model.TaskKind,
	courierID string,
	address string,
	deadline *time.Time,
) (*model.Task, error) {
	now := time.Now().UTC()
	task := &model.Task{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Kind:      kind,
		CourierID: courierID,
		Address:   address,
		Status:    constants.StatusPending,
		Version:   1,
		Deadline:  deadline,
		CreatedAt: now,
	}
	if courierID != "" {
		task.Status = constants.StatusAssigned
		task.AssignedAt = &now
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, err
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByCourier(ctx context.Context, courierID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("courier_id = ?", courierID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// CountActiveByCourier counts tasks still occupying the courier, i.e. tasks
// the courier has accepted and not yet finished one way or another.
func (r *TaskRepository) CountActiveByCourier(ctx context.Context, courierID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("courier_id = ? AND status IN ?", courierID, []constants.TaskStatus{
			constants.StatusAccepted,
			constants.StatusPickedUp,
			constants.StatusInTransit,
			constants.StatusDelivered,
		}).
		Count(&count).Error
	return count, err
}

// ListDeadlineExpired returns non-terminal tasks whose deadline has passed
// and that are not yet marked overdue.
func (r *TaskRepository) ListDeadlineExpired(ctx context.Context, now time.Time, limit int) ([]model.Task, error) {
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var tasks []model.Task
	query := r.db.WithContext(ctx).
		Where("deadline IS NOT NULL AND deadline < ? AND status NOT IN ?", now, []constants.TaskStatus{
			constants.StatusCompleted,
			constants.StatusCancelled,
			constants.StatusOverdue,
		}).
		Order("deadline asc").Limit(limit)

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", task.ID, task.Version).
		Updates(map[string]interface{}{
			"courier_id":     task.CourierID,
			"status":         task.Status,
			"failure_reason": task.FailureReason,
			"retry_count":    task.RetryCount,
			"assigned_at":    task.AssignedAt,
			"accepted_at":    task.AcceptedAt,
			"picked_up_at":   task.PickedUpAt,
			"delivered_at":   task.DeliveredAt,
			"completed_at":   task.CompletedAt,
			"version":        gorm.Expr("version + 1"),
		})

	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return ErrOptimisticLock
	}

	task.Version++
	return nil
}
