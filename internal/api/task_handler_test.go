package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/events"
)

// registerWithRef registers a user and makes its projection available to
// the task store for creator/assignee expansion.
func (a *testAPI) registerWithRef(t *testing.T, name, email string) (string, AuthResponse) {
	t.Helper()
	token, resp := a.register(t, name, email)
	a.taskStore.AddUserRef(domain.UserRef{ID: resp.User.ID, Name: name, Email: email})
	return token, resp
}

func validTaskBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Write report",
		"description": "Quarterly numbers",
		"dueDate":     time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"priority":    "High",
	}
}

func (a *testAPI) createTask(t *testing.T, token string, body map[string]interface{}) TaskResponse {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/tasks/", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp TaskResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateTaskEndpoint(t *testing.T) {
	t.Run("creator comes from the token", func(t *testing.T) {
		a := newTestAPI(t)
		token, registered := a.registerWithRef(t, "Alice", "alice@example.com")

		task := a.createTask(t, token, validTaskBody())

		assert.Equal(t, "Write report", task.Title)
		assert.Equal(t, domain.PriorityHigh, task.Priority)
		assert.Equal(t, domain.StatusToDo, task.Status)
		assert.Equal(t, registered.User.ID, task.Creator.ID)
		assert.Equal(t, "alice@example.com", task.Creator.Email)
		assert.Contains(t, a.emitter.EventTypes(), events.TypeTaskCreated)
	})

	t.Run("creator in body is rejected", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")

		body := validTaskBody()
		body["creatorId"] = uuid.NewString()
		rec := a.do(t, http.MethodPost, "/tasks/", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("assignment expands the assignee", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")
		_, bob := a.registerWithRef(t, "Bob", "bob@example.com")

		body := validTaskBody()
		body["assignedToId"] = bob.User.ID.String()
		task := a.createTask(t, token, body)

		require.NotNil(t, task.AssignedTo)
		assert.Equal(t, bob.User.ID, task.AssignedTo.ID)
		assert.Contains(t, a.emitter.EventTypes(), events.TypeTaskAssigned)
	})

	t.Run("invalid priority", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")

		body := validTaskBody()
		body["priority"] = "Critical"
		rec := a.do(t, http.MethodPost, "/tasks/", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")

		body := validTaskBody()
		delete(body, "title")
		rec := a.do(t, http.MethodPost, "/tasks/", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires authentication", func(t *testing.T) {
		a := newTestAPI(t)

		rec := a.do(t, http.MethodPost, "/tasks/", "", validTaskBody())
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListTasksEndpoint(t *testing.T) {
	a := newTestAPI(t)
	aliceToken, _ := a.registerWithRef(t, "Alice", "alice@example.com")
	bobToken, bob := a.registerWithRef(t, "Bob", "bob@example.com")

	// Alice creates two tasks, one assigned to Bob with low priority.
	body := validTaskBody()
	body["assignedToId"] = bob.User.ID.String()
	body["priority"] = "Low"
	a.createTask(t, aliceToken, body)
	a.createTask(t, aliceToken, validTaskBody())

	// Bob creates one.
	a.createTask(t, bobToken, validTaskBody())

	list := func(t *testing.T, token, query string) TaskListResponse {
		t.Helper()
		rec := a.do(t, http.MethodGet, "/tasks/"+query, token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp TaskListResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	t.Run("all tasks are visible to everyone", func(t *testing.T) {
		assert.Len(t, list(t, aliceToken, "").Tasks, 3)
		assert.Len(t, list(t, bobToken, "").Tasks, 3)
	})

	t.Run("filter created", func(t *testing.T) {
		resp := list(t, bobToken, "?filter=created")
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, bob.User.ID, resp.Tasks[0].Creator.ID)
	})

	t.Run("filter assigned", func(t *testing.T) {
		resp := list(t, bobToken, "?filter=assigned")
		require.Len(t, resp.Tasks, 1)
		require.NotNil(t, resp.Tasks[0].AssignedTo)
		assert.Equal(t, bob.User.ID, resp.Tasks[0].AssignedTo.ID)
	})

	t.Run("filter by priority", func(t *testing.T) {
		resp := list(t, aliceToken, "?priority=Low")
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, domain.PriorityLow, resp.Tasks[0].Priority)
	})

	t.Run("filter by status", func(t *testing.T) {
		resp := list(t, aliceToken, "?status=Completed")
		assert.Empty(t, resp.Tasks)
	})

	t.Run("invalid status value", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/tasks/?status=Done", aliceToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid filter value", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/tasks/?filter=mine", aliceToken, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("sort by due date", func(t *testing.T) {
		resp := list(t, aliceToken, "?sort=dueDate")
		require.Len(t, resp.Tasks, 3)
		for i := 1; i < len(resp.Tasks); i++ {
			assert.False(t, resp.Tasks[i].DueDate.Before(resp.Tasks[i-1].DueDate))
		}
	})
}

func TestGetTaskEndpoint(t *testing.T) {
	a := newTestAPI(t)
	token, _ := a.registerWithRef(t, "Alice", "alice@example.com")
	task := a.createTask(t, token, validTaskBody())

	t.Run("found", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/tasks/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, task.ID, resp.ID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/tasks/"+uuid.NewString(), token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task not found")
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := a.do(t, http.MethodGet, "/tasks/not-a-uuid", token, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid task ID")
	})
}

func TestUpdateTaskEndpoint(t *testing.T) {
	t.Run("any authenticated user may update", func(t *testing.T) {
		a := newTestAPI(t)
		aliceToken, _ := a.registerWithRef(t, "Alice", "alice@example.com")
		bobToken, bob := a.registerWithRef(t, "Bob", "bob@example.com")
		task := a.createTask(t, aliceToken, validTaskBody())

		rec := a.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), bobToken, map[string]string{
			"status": "InProgress",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, domain.StatusInProgress, resp.Status)

		// The audit entry names the acting user, not the creator.
		require.Len(t, a.taskStore.AuditEntries, 1)
		entry := a.taskStore.AuditEntries[0]
		assert.Equal(t, bob.User.ID, entry.UserID)
		assert.Equal(t, "Updated fields: status", entry.Details)
	})

	t.Run("invalid status value", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")
		task := a.createTask(t, token, validTaskBody())

		rec := a.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), token, map[string]string{
			"status": "Done",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, a.taskStore.AuditEntries)
	})

	t.Run("not found", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")

		rec := a.do(t, http.MethodPatch, "/tasks/"+uuid.NewString(), token, map[string]string{
			"title": "anything",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteTaskEndpoint(t *testing.T) {
	t.Run("creator deletes", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")
		task := a.createTask(t, token, validTaskBody())

		rec := a.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		rec = a.do(t, http.MethodGet, "/tasks/"+task.ID.String(), token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("non-creator is forbidden", func(t *testing.T) {
		a := newTestAPI(t)
		aliceToken, _ := a.registerWithRef(t, "Alice", "alice@example.com")
		bobToken, _ := a.registerWithRef(t, "Bob", "bob@example.com")
		task := a.createTask(t, aliceToken, validTaskBody())

		rec := a.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), bobToken, nil)
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "not authorized to delete")

		// The task survives.
		rec = a.do(t, http.MethodGet, "/tasks/"+task.ID.String(), aliceToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		a := newTestAPI(t)
		token, _ := a.registerWithRef(t, "Alice", "alice@example.com")

		rec := a.do(t, http.MethodDelete, "/tasks/"+uuid.NewString(), token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
