package echoweb

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/tests"
)

func newTasksApp(t *testing.T) *testApp {
	t.Helper()
	app := newTestApp(t, nil)
	app.createAdmin(adminSID)
	testutil.CreateSession(t, app.store, "grace-browser", account.User{ID: "u2", Username: "grace", Email: "grace@example.com", Role: account.Roles{account.RoleUser}}, "tok-2")
	testutil.CreateSession(t, app.store, "ada-browser", account.User{ID: "u1", Username: "ada", Email: "ada@example.com", Role: account.Roles{account.RoleUser}}, "tok-1")
	testutil.CreateSession(t, app.store, "ada-laptop", account.User{ID: "u1", Username: "ada", Email: "ada@example.com", Role: account.Roles{account.RoleUser}}, "tok-3")
	return app
}

func TestTasks_accessDenied(t *testing.T) {
	app := newTasksApp(t)

	rec := app.do(http.MethodGet, tasksPath, "ada-browser", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPost, tasksPath, "anonymous", url.Values{"title": {"x"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, app.srv.workspaces.get("anonymous").taskDrafts())
}

func TestTasks_show(t *testing.T) {
	app := newTasksApp(t)

	rec := app.do(http.MethodGet, tasksPath, adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `name="assignedTo"`)
	assert.Contains(t, body, `<option value="u1"`)
	assert.Contains(t, body, `<option value="u2"`)
	assert.Contains(t, body, `<option value="uid-root"`)
	assert.Equal(t, 1, strings.Count(body, `<option value="u1"`), "one entry per member")
	assert.Less(t, strings.Index(body, "ada (ada@example.com)"), strings.Index(body, "grace (grace@example.com)"))
	assert.Contains(t, body, `<option value="Contributor"`)
	assert.NotContains(t, body, "Drafted tasks")
}

func TestTasks_assign(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantErrors []string
	}{
		{
			name:       "nothing picked",
			form:       url.Values{"title": {"Write docs"}, "role": {"Boss"}},
			wantErrors: []string{"Select at least one participant.", "Select a role from the list."},
		},
		{
			name:       "not a member",
			form:       url.Values{"title": {"Write docs"}, "role": {"Member"}, "assignedTo": {"u1", "stranger"}},
			wantErrors: []string{"Only project participants can be assigned."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTasksApp(t)

			rec := app.do(http.MethodPost, tasksPath, adminSID, tt.form)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := rec.Body.String()
			for _, msg := range tt.wantErrors {
				assert.Contains(t, body, msg)
			}
			assert.Contains(t, body, `value="Write docs"`, "entered title is kept")
			assert.Empty(t, app.srv.workspaces.get(adminSID).taskDrafts())
		})
	}

	t.Run("drafted", func(t *testing.T) {
		app := newTasksApp(t)

		form := url.Values{"title": {"  Write docs "}, "role": {"Contributor"}, "assignedTo": {"u2", "u1"}}
		rec := app.do(http.MethodPost, tasksPath, adminSID, form)
		assertRedirect(t, rec, tasksPath)

		rec = app.do(http.MethodGet, tasksPath, adminSID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Write docs: ada (Contributor), grace (Contributor)")

		drafts := app.srv.workspaces.get(adminSID).taskDrafts()
		require.Len(t, drafts, 1)
		assert.Equal(t, "todo", drafts[0].Status)
	})
}
