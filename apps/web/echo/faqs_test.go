package echoweb

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/session"
	"github.com/rogerjeasy/letusconnect/storage/database/inmem"
	"github.com/rogerjeasy/letusconnect/tests"
)

const adminSID = "admin-browser"

func testFAQs() []faq.FAQ {
	return []faq.FAQ{
		{
			ID:        "faq-1",
			Question:  "How do I find a mentor?",
			Response:  "<b>Use</b> the mentoring page<script>alert(1)</script>",
			Username:  "root",
			Category:  "mentoring",
			CreatedAt: "2024-03-01T10:20:30Z",
		},
		{
			ID:        "faq-2",
			Question:  "How do I reset my password?",
			Response:  "Use the link sent by email.",
			Username:  "root",
			Category:  "account",
			CreatedAt: "2024-03-02T08:00:00Z",
			UpdatedAt: "2024-03-03T09:30:00Z",
		},
	}
}

func TestFAQAdmin_accessDenied(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	testutil.CreateSession(t, app.store, "member", account.User{ID: "u1", Username: "ada", Role: account.Roles{account.RoleUser}}, "tok")

	tests := []struct {
		name   string
		sid    string
		method string
		path   string
	}{
		{name: "anonymous list", sid: "anonymous", method: http.MethodGet, path: "/admin/faqs"},
		{name: "member list", sid: "member", method: http.MethodGet, path: "/admin/faqs"},
		{name: "member delete", sid: "member", method: http.MethodPost, path: "/admin/faqs/faq-1/delete"},
		{name: "member confirm", sid: "member", method: http.MethodPost, path: "/admin/faqs/delete/confirm"},
		{name: "member create", sid: "member", method: http.MethodPost, path: "/admin/faqs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form url.Values
			if tt.method == http.MethodPost {
				form = url.Values{}
			}
			rec := app.do(tt.method, tt.path, tt.sid, form)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), "Access Denied: Admin privileges required.")
		})
	}

	assert.Zero(t, app.backend.Calls("GET /api/faqs"), "denied users fetch nothing")
	assert.Zero(t, app.backend.Calls("DELETE /api/faqs/faq-1"))
	assert.Zero(t, app.backend.Calls("POST /api/faqs"))
}

// slowStore holds session loads until released.
type slowStore struct {
	session.Store
	release chan struct{}
}

func (s slowStore) Load(ctx context.Context, id string) (session.Record, error) {
	<-s.release
	return s.Store.Load(ctx, id)
}

func TestFAQAdmin_loading(t *testing.T) {
	store := slowStore{Store: inmemdb.NewSessionRepository(inmemdb.Open()), release: make(chan struct{})}
	app := newTestApp(t, store, testFAQs()...)
	app.conf.Server.RestoreWait = 10 * time.Millisecond
	app.createAdmin(adminSID)

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="loading"`)
	assert.Contains(t, rec.Body.String(), `http-equiv="refresh"`)

	rec = app.do(http.MethodPost, "/admin/faqs/new", adminSID, url.Values{})
	assertRedirect(t, rec, "/admin/faqs")

	close(store.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.True(t, app.srv.workspaces.get(adminSID).sess.WaitRestored(ctx))

	rec = app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-faq="faq-1"`)
	assert.NotContains(t, rec.Body.String(), `data-testid="create-modal"`, "nothing was opened while loading")
}

func TestFAQAdmin_list(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	app.createAdmin(adminSID)

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, body, `data-faq="faq-1"`)
	assert.Contains(t, body, `data-faq="faq-2"`)
	assert.Contains(t, body, "<b>Use</b> the mentoring page")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "2024-03-01")
	assert.Contains(t, body, "10:20:30")
	assert.Contains(t, body, "Unknown", "a missing update stamp")
	assert.Contains(t, body, "Account &amp; Registration")
	assert.GreaterOrEqual(t, app.backend.Calls("GET /api/faqs"), 1)

	t.Run("search", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/admin/faqs?q=MENTOR", adminSID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-faq="faq-1"`)
		assert.NotContains(t, rec.Body.String(), `data-faq="faq-2"`)
		assert.Contains(t, rec.Body.String(), `value="MENTOR"`)
	})

	t.Run("search without match", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/admin/faqs?q=zzz", adminSID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `data-testid="faq-empty"`)
		assert.Contains(t, rec.Body.String(), "No FAQs available")
	})

	t.Run("visiting again clears the search", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.Contains(t, rec.Body.String(), `data-faq="faq-1"`)
		assert.Contains(t, rec.Body.String(), `data-faq="faq-2"`)
	})
}

func TestFAQAdmin_empty(t *testing.T) {
	app := newTestApp(t, nil)
	app.createAdmin(adminSID)

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="faq-empty"`)
	assert.NotContains(t, rec.Body.String(), "<table")
}

func TestFAQAdmin_loadFailure(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	app.backend.FailList = true
	app.createAdmin(adminSID)

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-testid="list-error">`+faq.LoadFailureMessage)
}

func TestFAQAdmin_delete(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	app.createAdmin(adminSID)
	deletes := func() int { return app.backend.Calls("DELETE /api/faqs/faq-1") }

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `data-testid="confirm-modal"`)

	t.Run("cancel", func(t *testing.T) {
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/faq-1/delete", adminSID, url.Values{}), "/admin/faqs")
		rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.Contains(t, rec.Body.String(), `data-testid="confirm-modal"`)

		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/delete/cancel", adminSID, url.Values{}), "/admin/faqs")
		rec = app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.NotContains(t, rec.Body.String(), `data-testid="confirm-modal"`)
		assert.Contains(t, rec.Body.String(), `data-faq="faq-1"`)
		assert.Zero(t, deletes())
	})

	t.Run("confirm", func(t *testing.T) {
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/faq-1/delete", adminSID, url.Values{}), "/admin/faqs")
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/delete/confirm", adminSID, url.Values{}), "/admin/faqs")
		assert.Equal(t, 1, deletes())

		rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.NotContains(t, rec.Body.String(), `data-testid="confirm-modal"`)
		assert.NotContains(t, rec.Body.String(), `data-faq="faq-1"`)
		assert.Contains(t, rec.Body.String(), `data-faq="faq-2"`)

		// nothing is pending anymore
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/delete/confirm", adminSID, url.Values{}), "/admin/faqs")
		assert.Equal(t, 1, deletes())
	})
}

func TestFAQAdmin_deleteFailure(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	app.backend.FailDelete = true
	app.createAdmin(adminSID)

	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/admin/faqs", adminSID, nil).Code)
	app.do(http.MethodPost, "/admin/faqs/faq-1/delete", adminSID, url.Values{})
	assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/delete/confirm", adminSID, url.Values{}), "/admin/faqs")

	rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
	assert.Contains(t, rec.Body.String(), faq.DeleteFailureMessage)
	assert.Contains(t, rec.Body.String(), `data-faq="faq-1"`, "the table is kept")
	assert.NotContains(t, rec.Body.String(), `data-testid="confirm-modal"`)
	assert.Equal(t, 1, app.backend.Calls("DELETE /api/faqs/faq-1"))
}

func TestFAQAdmin_create(t *testing.T) {
	app := newTestApp(t, nil, testFAQs()...)
	app.createAdmin(adminSID)
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/admin/faqs", adminSID, nil).Code)

	t.Run("open and cancel", func(t *testing.T) {
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/new", adminSID, url.Values{}), "/admin/faqs")
		rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.Contains(t, rec.Body.String(), `data-testid="create-modal"`)

		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs/new/cancel", adminSID, url.Values{}), "/admin/faqs")
		rec = app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.NotContains(t, rec.Body.String(), `data-testid="create-modal"`)
	})

	t.Run("invalid", func(t *testing.T) {
		form := url.Values{"question": {"   "}, "response": {""}, "category": {"gossip"}}
		rec := app.do(http.MethodPost, "/admin/faqs", adminSID, form)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `data-testid="create-modal"`)
		assert.Contains(t, body, "Question is required.")
		assert.Contains(t, body, "Response is required.")
		assert.Contains(t, body, "Select a category from the list.")
		assert.Zero(t, app.backend.Calls("POST /api/faqs"))
	})

	t.Run("created", func(t *testing.T) {
		form := url.Values{"question": {"How do I join a project?"}, "response": {"Open the projects page."}, "category": {"projects"}}
		assertRedirect(t, app.do(http.MethodPost, "/admin/faqs", adminSID, form), "/admin/faqs")
		assert.Equal(t, 1, app.backend.Calls("POST /api/faqs"))

		rec := app.do(http.MethodGet, "/admin/faqs", adminSID, nil)
		assert.NotContains(t, rec.Body.String(), `data-testid="create-modal"`)
		assert.Contains(t, rec.Body.String(), "How do I join a project?")
		assert.Len(t, app.backend.FAQs(), 3)
	})
}
