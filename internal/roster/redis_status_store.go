package roster

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"courier-sync.com/courier-sync/pkg/constants"
)

type RedisStatusStore struct {
	client rueidis.Client
}

func NewRedisStatusStore(client rueidis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func statusKey(courierID string) string {
	return fmt.Sprintf("courier:%s:status", courierID)
}

func manualKey(courierID string) string {
	return fmt.Sprintf("courier:%s:last_manual", courierID)
}

func (r *RedisStatusStore) Get(ctx context.Context, courierID string) (constants.AvailabilityStatus, error) {
	cmd := r.client.B().Get().Key(statusKey(courierID)).Build()
	raw, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return constants.AvailabilityOffline, nil
		}
		return "", err
	}
	return constants.ParseAvailability(raw)
}

func (r *RedisStatusStore) SetManual(ctx context.Context, courierID string, status constants.AvailabilityStatus) error {
	if err := r.set(ctx, statusKey(courierID), status); err != nil {
		return err
	}
	return r.set(ctx, manualKey(courierID), status)
}

func (r *RedisStatusStore) MarkBusy(ctx context.Context, courierID string) error {
	return r.set(ctx, statusKey(courierID), constants.AvailabilityBusy)
}

func (r *RedisStatusStore) ReleaseBusy(ctx context.Context, courierID string, to constants.AvailabilityStatus) error {
	return r.set(ctx, statusKey(courierID), to)
}

func (r *RedisStatusStore) LastManual(ctx context.Context, courierID string) (constants.AvailabilityStatus, error) {
	cmd := r.client.B().Get().Key(manualKey(courierID)).Build()
	raw, err := r.client.Do(ctx, cmd).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return constants.AvailabilityOnline, nil
		}
		return "", err
	}
	return constants.ParseAvailability(raw)
}

func (r *RedisStatusStore) set(ctx context.Context, key string, status constants.AvailabilityStatus) error {
	cmd := r.client.B().Set().Key(key).Value(status.String()).Build()
	return r.client.Do(ctx, cmd).Error()
}
