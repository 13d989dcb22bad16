package echoweb

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rogerjeasy/letusconnect/core/faq"
	"github.com/rogerjeasy/letusconnect/core/form"
	"github.com/rogerjeasy/letusconnect/core/project"
	"github.com/rogerjeasy/letusconnect/core/session"
)

const workspaceKey = "workspace"

// workspace is the UI state of one browser: its session and the controllers
// of the forms and panels it has open.
type workspace struct {
	sess     *session.Session
	register *form.Controller
	faqs     *faq.Admin

	mu       sync.Mutex
	lastSeen time.Time
	// set by the FAQ actions so the list page they redirect to is not fetched again
	faqsContinued bool
	tasks         []project.Task // drafted assignments, newest first
}

func (ws *workspace) addTask(task project.Task) {
	ws.mu.Lock()
	ws.tasks = append([]project.Task{task}, ws.tasks...)
	ws.mu.Unlock()
}

func (ws *workspace) taskDrafts() []project.Task {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]project.Task(nil), ws.tasks...)
}

func (ws *workspace) continueFAQs() {
	ws.mu.Lock()
	ws.faqsContinued = true
	ws.mu.Unlock()
}

// takeFAQsContinued reports and resets the flag set by continueFAQs.
func (ws *workspace) takeFAQsContinued() bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	continued := ws.faqsContinued
	ws.faqsContinued = false
	return continued
}

func (ws *workspace) touch(now time.Time) {
	ws.mu.Lock()
	ws.lastSeen = now
	ws.mu.Unlock()
}

func (ws *workspace) idleSince(before time.Time) bool {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.lastSeen.Before(before)
}

func (ws *workspace) close() {
	ws.faqs.Close()
}

// workspaces holds the workspace of every active browser. A workspace not used
// for ttl is dropped; its session survives in the store.
type workspaces struct {
	newWorkspace func(id string) *workspace
	ttl          time.Duration
	nowFunc      func() time.Time

	mu        sync.Mutex
	items     map[string]*workspace
	lastSweep time.Time
}

func newWorkspaces(ttl time.Duration, newWorkspace func(id string) *workspace) *workspaces {
	return &workspaces{
		newWorkspace: newWorkspace,
		ttl:          ttl,
		nowFunc:      time.Now,
		items:        make(map[string]*workspace),
	}
}

// get returns the workspace of id, creating it and starting its session restore when new.
func (w *workspaces) get(id string) *workspace {
	now := w.nowFunc()

	w.mu.Lock()
	w.sweep(now)
	ws, ok := w.items[id]
	if !ok {
		ws = w.newWorkspace(id)
		w.items[id] = ws
	}
	w.mu.Unlock()

	if !ok {
		ws.sess.Restore(context.Background())
	}
	ws.touch(now)
	return ws
}

// sweep drops idle workspaces, at most once per minute. Callers hold w.mu.
func (w *workspaces) sweep(now time.Time) {
	if w.ttl <= 0 || now.Sub(w.lastSweep) < time.Minute {
		return
	}
	w.lastSweep = now
	for id, ws := range w.items {
		if ws.idleSince(now.Add(-w.ttl)) {
			delete(w.items, id)
			go ws.close()
		}
	}
}

func (w *workspaces) closeAll() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, ws := range w.items {
		delete(w.items, id)
		ws.close()
	}
}

func getWorkspace(ctx echo.Context) *workspace {
	ws, _ := ctx.Get(workspaceKey).(*workspace)
	return ws
}
