package courierstate

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

func taskFixtures(now time.Time) []model.Task {
	soon := now.Add(30 * time.Minute)
	passed := now.Add(-30 * time.Minute)
	return []model.Task{
		{ID: "t-1", OrderID: "o-1", Status: constants.StatusAssigned, Deadline: &soon},
		{ID: "t-2", OrderID: "o-2", Status: constants.StatusInTransit},
		{ID: "t-3", OrderID: "o-3", Status: constants.StatusCompleted},
		{ID: "t-4", OrderID: "o-4", Status: constants.StatusPickedUp, Deadline: &passed},
	}
}

func serveTasks(t *testing.T, tasks []model.Task) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]any{
			"count": len(tasks),
			"tasks": tasks,
		}))
	}
}

func TestLoadTasks_ReplacesWholesale(t *testing.T) {
	now := time.Now().UTC()
	c, calls := newTestClient(t, testToken, serveTasks(t, taskFixtures(now)))

	require.NoError(t, c.LoadTasks(context.Background()))
	require.Equal(t, int32(1), calls.Load())
	require.Len(t, c.Tasks().All(), 4)
	require.NoError(t, c.Tasks().Err())
	require.False(t, c.Tasks().NeedsReload())
}

func TestLoadTasks_SkipsWithoutToken(t *testing.T) {
	c, calls := newTestClient(t, noToken, serveTasks(t, taskFixtures(time.Now().UTC())))

	require.NoError(t, c.LoadTasks(context.Background()))
	require.Equal(t, int32(0), calls.Load())
	require.Empty(t, c.Tasks().All())
}

func TestTaskCache_DerivedViewsMatchFilters(t *testing.T) {
	now := time.Now().UTC()
	c, _ := newTestClient(t, testToken, serveTasks(t, taskFixtures(now)))
	require.NoError(t, c.LoadTasks(context.Background()))

	all := c.Tasks().All()

	countWhere := func(s constants.TaskStatus) int {
		n := 0
		for i := range all {
			if all[i].Status == s {
				n++
			}
		}
		return n
	}
	require.Equal(t, countWhere(constants.StatusAssigned), c.Tasks().AssignedCount())
	require.Equal(t, countWhere(constants.StatusInTransit), c.Tasks().InTransitCount())
	require.Equal(t, countWhere(constants.StatusCompleted), c.Tasks().CompletedCount())

	var urgent, overdue []model.Task
	for i := range all {
		if all[i].IsUrgent(now) {
			urgent = append(urgent, all[i])
		}
		if all[i].IsOverdue(now) {
			overdue = append(overdue, all[i])
		}
	}
	require.Equal(t, urgent, c.Tasks().Urgent(now))
	require.Equal(t, overdue, c.Tasks().Overdue(now))
	require.Equal(t, []string{"t-1"}, taskIDs(urgent))
	require.Equal(t, []string{"t-4"}, taskIDs(overdue))
}

func taskIDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for i := range tasks {
		out = append(out, tasks[i].ID)
	}
	return out
}

func TestUpdateTaskStatus_MirrorsExactlyOneTask(t *testing.T) {
	now := time.Now().UTC()
	fixtures := taskFixtures(now)

	c, _ := newTestClient(t, testToken, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			serveTasks(t, fixtures)(w, r)
			return
		}
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/tasks/t-1/status", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "accepted", req["status"])

		echoed := fixtures[0]
		echoed.Status = constants.StatusAccepted
		echoed.AcceptedAt = &now
		echoed.Version = 2
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(echoed))
	})

	require.NoError(t, c.LoadTasks(context.Background()))
	require.Equal(t, 1, c.Tasks().AssignedCount())
	others := []model.Task{fixtures[1], fixtures[2], fixtures[3]}

	err := c.UpdateTaskStatus(context.Background(), "t-1", constants.StatusAccepted, "")
	require.NoError(t, err)

	updated, ok := c.Tasks().Get("t-1")
	require.True(t, ok)
	require.Equal(t, constants.StatusAccepted, updated.Status)
	require.NotNil(t, updated.AcceptedAt)
	require.Equal(t, 0, c.Tasks().AssignedCount())

	// Every other task is untouched.
	after := c.Tasks().All()
	require.Equal(t, others, after[1:])
}

func TestUpdateTaskStatus_FailureLeavesListIdentical(t *testing.T) {
	now := time.Now().UTC()
	c, _ := newTestClient(t, testToken, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			serveTasks(t, taskFixtures(now))(w, r)
			return
		}
		http.Error(w, `{"message":"task was modified concurrently"}`, http.StatusConflict)
	})

	require.NoError(t, c.LoadTasks(context.Background()))
	before := c.Tasks().All()

	err := c.UpdateTaskStatus(context.Background(), "t-1", constants.StatusAccepted, "")
	require.ErrorIs(t, err, ErrRemoteCallFailed)
	require.Equal(t, before, c.Tasks().All())
	require.ErrorIs(t, c.Tasks().Err(), ErrRemoteCallFailed)
	require.False(t, c.Tasks().NeedsReload())
}

func TestUpdateTaskStatus_UnknownIDFlagsReload(t *testing.T) {
	now := time.Now().UTC()
	c, _ := newTestClient(t, testToken, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			serveTasks(t, taskFixtures(now))(w, r)
			return
		}
		// The server knows this task even though the cache does not.
		ghost := model.Task{ID: "t-ghost", OrderID: "o-9", Status: constants.StatusAccepted}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(ghost))
	})

	require.NoError(t, c.LoadTasks(context.Background()))
	before := c.Tasks().All()

	err := c.UpdateTaskStatus(context.Background(), "t-ghost", constants.StatusAccepted, "")
	require.ErrorIs(t, err, ErrTaskNotFound)
	require.True(t, c.Tasks().NeedsReload())
	require.Equal(t, before, c.Tasks().All())
}

func TestUpdateTaskStatus_SerializedPerTask(t *testing.T) {
	now := time.Now().UTC()
	entered := make(chan struct{})
	release := make(chan struct{})

	c, _ := newTestClient(t, testToken, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			serveTasks(t, taskFixtures(now))(w, r)
			return
		}
		close(entered)
		<-release

		echoed := taskFixtures(now)[0]
		echoed.Status = constants.StatusAccepted
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(echoed)
	})

	require.NoError(t, c.LoadTasks(context.Background()))

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- c.UpdateTaskStatus(context.Background(), "t-1", constants.StatusAccepted, "")
	}()

	<-entered
	err := c.UpdateTaskStatus(context.Background(), "t-1", constants.StatusPickedUp, "")
	require.ErrorIs(t, err, ErrUpdateInFlight)

	close(release)
	require.NoError(t, <-firstDone)
}
