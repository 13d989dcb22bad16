package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/session"
)

// TestConfig returns a configuration suited to tests: no request logs, no CSRF,
// an in-memory session store and no backend retries.
func TestConfig() *core.Config {
	conf := &core.Config{
		Env:       "TEST",
		TestMode:  true,
		AppName:   "LetUsConnect",
		SecretKey: "test-secret",
		Build:     "test",
		LogLevel:  "debug",
	}
	conf.AvatarBaseURL = "https://avatars.test/svg"
	conf.Server.DisableReqLogs = true
	conf.Server.DisableCSRF = true
	conf.Server.SessionCookie = "lc_session"
	conf.Server.SessionTTL = time.Hour
	conf.Server.RestoreWait = time.Second
	conf.Server.ShutdownTimeout = time.Second
	conf.Backend.Timeout = 5 * time.Second
	conf.Database.Engine = "memory"
	return conf
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}
func (NopLogger) Fatal(string, ...interface{}) {}

// CreateSession saves a session for usr under id, as a previous visit would have.
func CreateSession(t *testing.T, store session.Store, id string, usr account.User, token string) session.Record {
	t.Helper()
	rec := session.Record{ID: id, User: usr, Token: token, UpdatedAt: time.Now().UTC()}
	if err := store.Save(context.Background(), rec); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return rec
}

// Backend is a fake of the LetUsConnect REST API.
type Backend struct {
	URL string

	mu    sync.Mutex
	calls map[string]int
	faqs  []faq.FAQ
	seq   int

	// RegisterRole is the role given to registered users.
	RegisterRole string
	// TakenEmails are rejected by the register endpoint.
	TakenEmails map[string]bool
	// Hold, when set, blocks register requests until it is closed or receives.
	Hold chan struct{}
	// Started receives once per register request before Hold is waited on.
	Started chan struct{}
	// FailList and FailDelete make the endpoints answer 500.
	FailList   bool
	FailDelete bool
}

// NewBackend starts a fake REST API serving faqs. It is closed with the test.
func NewBackend(t *testing.T, faqs ...faq.FAQ) *Backend {
	t.Helper()
	b := &Backend{
		calls:        make(map[string]int),
		faqs:         append([]faq.FAQ{}, faqs...),
		seq:          len(faqs),
		RegisterRole: account.RoleUser,
		TakenEmails:  make(map[string]bool),
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/users/register", b.register)
	e.GET("/api/faqs", b.listFAQs)
	e.POST("/api/faqs", b.createFAQ)
	e.DELETE("/api/faqs/:id", b.deleteFAQ)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	b.URL = srv.URL
	return b
}

// Calls returns how many times `METHOD path` was requested, e.g. "GET /api/faqs".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[route]
}

// FAQs returns the FAQs currently stored.
func (b *Backend) FAQs() []faq.FAQ {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]faq.FAQ{}, b.faqs...)
}

func (b *Backend) count(ctx echo.Context) {
	b.mu.Lock()
	b.calls[ctx.Request().Method+" "+ctx.Request().URL.Path]++
	b.mu.Unlock()
}

func apiError(ctx echo.Context, code int, msg string) error {
	return ctx.JSON(code, map[string]string{"error": msg})
}

func authorized(ctx echo.Context) bool {
	return strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
}

func (b *Backend) register(ctx echo.Context) error {
	b.count(ctx)
	if b.Started != nil {
		b.Started <- struct{}{}
	}
	if b.Hold != nil {
		<-b.Hold
	}

	var body struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
		Program  string `json:"program"`
	}
	if err := ctx.Bind(&body); err != nil {
		return apiError(ctx, http.StatusBadRequest, "invalid body")
	}

	b.mu.Lock()
	taken := b.TakenEmails[body.Email]
	role := b.RegisterRole
	b.mu.Unlock()
	if taken {
		return apiError(ctx, http.StatusBadRequest, "Email already registered")
	}

	return ctx.JSON(http.StatusCreated, account.Auth{
		User: account.User{
			ID:       "uid-" + body.Username,
			Username: body.Username,
			Email:    body.Email,
			Program:  body.Program,
			Role:     account.Roles{role},
		},
		Token: "token-" + body.Username,
	})
}

func (b *Backend) listFAQs(ctx echo.Context) error {
	b.count(ctx)
	b.mu.Lock()
	fail := b.FailList
	faqs := append([]faq.FAQ{}, b.faqs...)
	b.mu.Unlock()
	if fail {
		return apiError(ctx, http.StatusInternalServerError, "")
	}
	return ctx.JSON(http.StatusOK, faqs)
}

func (b *Backend) createFAQ(ctx echo.Context) error {
	b.count(ctx)
	if !authorized(ctx) {
		return apiError(ctx, http.StatusUnauthorized, "missing token")
	}
	var nf faq.NewFAQ
	if err := ctx.Bind(&nf); err != nil {
		return apiError(ctx, http.StatusBadRequest, "invalid body")
	}

	b.mu.Lock()
	b.seq++
	created := faq.FAQ{
		ID:        "faq-" + strconv.Itoa(b.seq),
		Question:  nf.Question,
		Response:  nf.Response,
		Category:  nf.Category,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	b.faqs = append(b.faqs, created)
	b.mu.Unlock()
	return ctx.JSON(http.StatusCreated, created)
}

func (b *Backend) deleteFAQ(ctx echo.Context) error {
	b.count(ctx)
	if !authorized(ctx) {
		return apiError(ctx, http.StatusUnauthorized, "missing token")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailDelete {
		return apiError(ctx, http.StatusInternalServerError, "")
	}
	id := ctx.Param("id")
	for i, f := range b.faqs {
		if f.ID == id {
			b.faqs = append(b.faqs[:i], b.faqs[i+1:]...)
			return ctx.NoContent(http.StatusNoContent)
		}
	}
	return apiError(ctx, http.StatusNotFound, "FAQ not found")
}
