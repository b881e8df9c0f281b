package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/tasktree/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last(t *testing.T) CallEvent {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	require.NotEmpty(t, o.events)
	return o.events[len(o.events)-1]
}

func testClient(url string, obs Observer) *Client {
	return New(Config{BaseURL: url + "/", Timeout: 2 * time.Second, MaxRetries: 1}, obs)
}

const taskListBody = `[
  {"id": 1, "parent_id": 0, "title": "Onboarding", "status": "IN_PROGRESS", "priority": 0,
   "users": [{"id": 7, "name": "ana", "task_weight": 2}, {"id": 8, "name": "bo", "task_weight": 2}],
   "task_reports": [{"id": "r1", "user_id": 7, "progress": 50, "created_at": "2026-01-02T03:04:05Z"}]},
  {"id": 2, "parent_id": 1, "title": "Laptop", "status": "completed"}
]`

func TestClient_ListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, tasksPath, r.URL.Path)
		assert.Equal(t, "0", r.URL.Query().Get("parent_id"))
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(taskListBody))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	tasks, err := testClient(srv.URL, obs).ListTasks(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	first := tasks[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, domain.StatusInProgress, first.Status)
	require.Len(t, first.Users, 2)
	assert.InDelta(t, 2.0, first.Users[0].TaskWeight, 1e-9)
	require.Len(t, first.TaskReports, 1)
	assert.Equal(t, 1, first.TaskReports[0].TaskID)
	assert.Equal(t, 2026, first.TaskReports[0].CreatedAt.Year())

	assert.Equal(t, 1, tasks[1].ParentID)
	assert.Equal(t, domain.StatusCompleted, tasks[1].Status)

	ev := obs.last(t)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Attempts)
	assert.Equal(t, http.StatusOK, ev.StatusCode)
}

func TestClient_ListTasks_Scope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "42", r.URL.Query().Get("parent_id"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	tasks, err := testClient(srv.URL, nil).ListTasks(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestClient_ListTasks_RejectsUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id": 3, "status": "ARCHIVED"}]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).ListTasks(context.Background(), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task 3")
}

func TestClient_UpdatePriorities(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, prioritiesPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req priorityRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 5, req.ParentID)
		assert.Equal(t, []int{3, 1, 2}, req.OrderedIDs)

		_, _ = w.Write([]byte(`{"updated": 3, "message": "priorities saved"}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL, nil).UpdatePriorities(context.Background(), 5, []int{3, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.ParentID)
	assert.Equal(t, []int{3, 1, 2}, resp.OrderedIDs)
	assert.Equal(t, 3, resp.Updated)
	assert.Equal(t, "priorities saved", resp.Message)
}

func TestClient_UpdatePriorities_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL, nil).UpdatePriorities(context.Background(), 0, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Updated)
	assert.Equal(t, []int{2, 1}, resp.OrderedIDs)
}

func TestClient_RetriesServerErrorsWithSameRequestID(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := testClient(srv.URL, obs).ListTasks(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	require.Len(t, ids, 2)
	assert.Equal(t, ids[0], ids[1])
	assert.Equal(t, 2, obs.last(t).Attempts)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown parent", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := testClient(srv.URL, obs).UpdatePriorities(context.Background(), 9, []int{1})
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.StatusCode)
	assert.Equal(t, "unknown parent", se.Body)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, "HTTP_422", obs.last(t).ErrorCode)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, MaxRetries: 2}, nil)
	_, err := c.ListTasks(context.Background(), 0)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Unavailable(t *testing.T) {
	obs := &recordingObserver{}
	c := New(Config{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, obs)
	_, err := c.ListTasks(context.Background(), 0)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "UNAVAILABLE", obs.last(t).ErrorCode)
}

func TestClient_CanceledContextIsNotTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(srv.URL, nil).ListTasks(ctx, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}
