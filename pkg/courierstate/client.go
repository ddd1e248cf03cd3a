// Package courierstate is the client half of the courier status and task
// API. It keeps in-memory mirrors of server-authoritative state and mutates
// them only after the server confirmed the change: remote call first, local
// apply second, and on failure the caches stay exactly as they were.
package courierstate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"courier-sync.com/courier-sync/pkg/constants"
	model "courier-sync.com/courier-sync/pkg/models"
)

// TokenSource supplies the bearer credential for each call. An empty string
// means no credential is available yet.
type TokenSource func() string

// Client reconciles one courier's local state with the backend.
type Client struct {
	baseURL   string
	courierID string
	httpc     *http.Client
	token     TokenSource
	log       Logger

	status *StatusCache
	tasks  *TaskCache

	mu       sync.Mutex
	inflight map[string]struct{}
}

// New creates a client for the given courier. The base URL points at the
// courier-sync API root.
func New(baseURL, courierID string, token TokenSource, opts ...Option) *Client {
	cfg := &options{
		timeout: DefaultTimeout,
		logger:  NopLogger{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	httpc := cfg.httpClient
	if httpc == nil {
		httpc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:   baseURL,
		courierID: courierID,
		httpc:     httpc,
		token:     token,
		log:       cfg.logger,
		status:    newStatusCache(),
		tasks:     newTaskCache(),
		inflight:  make(map[string]struct{}),
	}
}

// Status exposes the availability cache.
func (c *Client) Status() *StatusCache { return c.status }

// Tasks exposes the task list cache.
func (c *Client) Tasks() *TaskCache { return c.tasks }

type statusResponse struct {
	Status            string `json:"status"`
	CanChangeManually bool   `json:"can_change_manually"`
}

type resetResponse struct {
	Success       bool   `json:"success"`
	CurrentStatus string `json:"current_status"`
	Message       string `json:"message"`
}

type taskListResponse struct {
	Count int          `json:"count"`
	Tasks []model.Task `json:"tasks"`
}

// LoadStatus pulls the authoritative availability. Without a credential it
// returns without touching the cache or reporting an error, so passive loads
// before login stay quiet. The returned flag suggests a safety reset: it is
// true when the loaded status is busy, which may be stale. The client never
// flips busy to online itself.
func (c *Client) LoadStatus(ctx context.Context) (bool, error) {
	if c.token() == "" {
		c.log.Debugf("status load skipped: no credential yet")
		return false, nil
	}

	var resp statusResponse
	if err := c.do(ctx, http.MethodGet, c.statusPath(), nil, &resp); err != nil {
		c.status.fail(err)
		return false, err
	}

	status, err := constants.ParseAvailability(resp.Status)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
		c.status.fail(err)
		return false, err
	}

	c.status.apply(status, resp.CanChangeManually)
	return status == constants.AvailabilityBusy, nil
}

// UpdateStatus requests a manual availability change. Only online and
// offline may be requested, never while busy, and the cache always adopts
// the status the server echoed back rather than the requested value.
// Requesting the current status is a success without a remote call.
func (c *Client) UpdateStatus(ctx context.Context, target constants.AvailabilityStatus) error {
	if !constants.IsManual(target) {
		c.status.fail(ErrInvalidTransition)
		return ErrInvalidTransition
	}

	current := c.status.Current()
	if current == constants.AvailabilityBusy {
		c.status.fail(ErrForbiddenWhileBusy)
		return ErrForbiddenWhileBusy
	}
	if current == target {
		return nil
	}

	if c.token() == "" {
		c.status.fail(ErrMissingCredential)
		return ErrMissingCredential
	}

	body := map[string]string{"status": target.String()}
	var resp statusResponse
	if err := c.do(ctx, http.MethodPut, c.statusPath(), body, &resp); err != nil {
		c.status.fail(err)
		return err
	}

	status, err := constants.ParseAvailability(resp.Status)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
		c.status.fail(err)
		return err
	}

	c.status.apply(status, resp.CanChangeManually)
	return nil
}

// ResetStatusIfNoActiveDeliveries asks the server to release a busy status
// it no longer justifies. The server alone decides; the cache adopts
// whatever status came back and never assumes online.
func (c *Client) ResetStatusIfNoActiveDeliveries(ctx context.Context) error {
	if c.token() == "" {
		c.status.fail(ErrMissingCredential)
		return ErrMissingCredential
	}

	var resp resetResponse
	if err := c.do(ctx, http.MethodPost, c.statusPath()+"/reset", nil, &resp); err != nil {
		c.status.fail(err)
		return err
	}

	status, err := constants.ParseAvailability(resp.CurrentStatus)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
		c.status.fail(err)
		return err
	}

	c.log.Debugf("safety reset: %s", resp.Message)
	c.status.apply(status, status != constants.AvailabilityBusy)
	return nil
}

// LoadTasks fetches the courier's full task list and replaces the cache
// wholesale. Partial merges invite stale entries, so there are none.
// Without a credential it skips silently, like LoadStatus.
func (c *Client) LoadTasks(ctx context.Context) error {
	if c.token() == "" {
		c.log.Debugf("task load skipped: no credential yet")
		return nil
	}

	var resp taskListResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/couriers/%s/tasks", c.courierID), nil, &resp); err != nil {
		c.tasks.fail(err)
		return err
	}

	c.tasks.replace(resp.Tasks)
	return nil
}

// UpdateTaskStatus reports a task transition. The remote call goes out
// first; only a confirmed success touches the cache, which adopts the
// server's echoed task record. Calls for a task whose previous update has
// not resolved are rejected rather than raced.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID string, target constants.TaskStatus, reason string) error {
	if !c.acquire(taskID) {
		return ErrUpdateInFlight
	}
	defer c.release(taskID)

	if c.token() == "" {
		c.tasks.fail(ErrMissingCredential)
		return ErrMissingCredential
	}

	body := map[string]string{"status": target.String()}
	if reason != "" {
		body["reason"] = reason
	}

	var echoed model.Task
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/tasks/%s/status", taskID), body, &echoed); err != nil {
		c.tasks.fail(err)
		return err
	}

	if !c.tasks.applyEcho(taskID, echoed) {
		// The server confirmed a task this cache has never seen; the list
		// is stale and must be reloaded.
		c.tasks.flagReload(ErrTaskNotFound)
		return ErrTaskNotFound
	}

	return nil
}

func (c *Client) acquire(taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[taskID]; busy {
		return false
	}
	c.inflight[taskID] = struct{}{}
	return true
}

func (c *Client) release(taskID string) {
	c.mu.Lock()
	delete(c.inflight, taskID)
	c.mu.Unlock()
}

func (c *Client) statusPath() string {
	return fmt.Sprintf("/couriers/%s/status", c.courierID)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.token())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Message == "" {
			payload.Message = resp.Status
		}
		return fmt.Errorf("%w: %s", ErrRemoteCallFailed, payload.Message)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: %v", ErrRemoteCallFailed, err)
		}
	}

	return nil
}
