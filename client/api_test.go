package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kanban/dto"
	"kanban/model"
	"kanban/taskrule"
)

func TestHTTPAPIListTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/tasks", r.URL.Path)
		assert.Equal(t, "Bearer token-123", r.Header.Get("Authorization"))
		assert.Equal(t, model.StatusTodo, r.URL.Query().Get("status"))

		json.NewEncoder(w).Encode(dto.OK([]dto.TaskResponse{
			{Tasks: model.Tasks{TaskID: "t1", Title: "one", Status: model.StatusTodo}},
		}))
	}))
	defer srv.Close()

	api := NewHTTPAPI(srv.URL, "token-123")
	tasks, err := api.ListTasks(context.Background(), Query{Status: model.StatusTodo})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "t1", tasks[0].TaskID)
}

func TestHTTPAPIUpdateTaskSendsPatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tasks/t1", r.URL.Path)

		var req dto.UpdateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotNil(t, req.Status)
		assert.Equal(t, model.StatusDone, *req.Status)
		assert.Nil(t, req.Title, "absent fields stay absent")

		json.NewEncoder(w).Encode(dto.OK(dto.TaskResponse{
			Tasks: model.Tasks{TaskID: "t1", Status: model.StatusDone},
		}))
	}))
	defer srv.Close()

	status := model.StatusDone
	api := NewHTTPAPI(srv.URL, "")
	task, err := api.UpdateTask(context.Background(), "t1", dto.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDone, task.Status)
}

func TestHTTPAPIDecodesInvariantRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(dto.FailCode(
			"cannot mark task as done: 2 incomplete subtask(s): write docs, fix tests",
			taskrule.CodeIncompleteSubtasks,
		))
	}))
	defer srv.Close()

	status := model.StatusDone
	api := NewHTTPAPI(srv.URL, "")
	_, err := api.UpdateTask(context.Background(), "t1", dto.UpdateTaskRequest{Status: &status})

	var rejection *taskrule.Rejection
	require.ErrorAs(t, err, &rejection)
	assert.Equal(t, taskrule.CodeIncompleteSubtasks, rejection.Code)
	assert.Equal(t, []string{"write docs", "fix tests"}, rejection.PendingTitles)
}

func TestHTTPAPIMapsStatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"forbidden", http.StatusForbidden, ErrForbidden},
		{"not found", http.StatusNotFound, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(dto.Fail("not authorized"))
			}))
			defer srv.Close()

			api := NewHTTPAPI(srv.URL, "")
			err := api.DeleteTask(context.Background(), "t1")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
