package faq

import (
	"context"
	"sync"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
	"github.com/rogerjeasy/letusconnect/core/confirm"
	"github.com/rogerjeasy/letusconnect/core/form"
	"github.com/rogerjeasy/letusconnect/core/session"
)

const (
	DeleteFailureMessage = "Failed to delete FAQ. Please try again."
	CreateFailureMessage = "Failed to create FAQ. Please try again."

	eventRefreshTimeout = 30 * time.Second
)

// AdminView is everything the FAQ management page renders.
type AdminView struct {
	Access     session.Access
	List       ListView
	Confirming bool
	PendingID  string
	Create     form.State
	CreateOpen bool
}

// Admin is the FAQ management panel of one browser: the FAQ table, the
// deletion dialog and the creation form, gated on the admin role.
type Admin struct {
	svc      *Service
	sess     *session.Session
	validate *validator.Validate
	logger   core.Logger

	list    *ListController
	confirm *confirm.Controller
	create  *form.Controller

	mu         sync.Mutex
	createOpen bool

	ctx         context.Context
	stop        context.CancelFunc
	wg          sync.WaitGroup
	unsubscribe func()
}

// NewAdmin binds a panel to sess. The panel refreshes its table whenever the
// session is populated, cleared or restored; Close stops that.
func NewAdmin(svc *Service, sess *session.Session, validate *validator.Validate, translator ut.Translator, logger core.Logger) *Admin {
	defaults := map[string]string{"question": "", "response": "", "category": ""}
	a := &Admin{
		svc:      svc,
		sess:     sess,
		validate: validate,
		logger:   logger,
		list:     NewListController(svc, logger),
		confirm:  confirm.NewController(),
		create:   form.NewController(translator, defaults).WithFailureMessage(CreateFailureMessage),
	}
	a.ctx, a.stop = context.WithCancel(context.Background())
	a.unsubscribe = sess.Subscribe(a.onSessionEvent)
	return a
}

func (a *Admin) onSessionEvent(_ session.Event, snap session.Snapshot) {
	if snap.Gate(account.RoleAdmin) != session.AccessGranted {
		return
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(a.ctx, eventRefreshTimeout)
		defer cancel()
		_ = a.list.Refresh(ctx)
	}()
}

// Close unsubscribes from the session and waits for background refreshes.
func (a *Admin) Close() {
	a.unsubscribe()
	a.stop()
	a.wg.Wait()
}

// Access gates the whole panel.
func (a *Admin) Access() session.Access {
	return a.sess.Snapshot().Gate(account.RoleAdmin)
}

func (a *Admin) granted() error {
	if a.Access() != session.AccessGranted {
		return core.ErrAccessDenied
	}
	return nil
}

// Mount fetches the table when access is granted. Denied users fetch nothing.
// A fetch already in flight is joined rather than restarted; the table is
// settled when Mount returns.
func (a *Admin) Mount(ctx context.Context) (session.Access, error) {
	access := a.Access()
	if access != session.AccessGranted {
		return access, nil
	}
	return access, a.list.Load(ctx)
}

func (a *Admin) Refresh(ctx context.Context) error {
	if err := a.granted(); err != nil {
		return err
	}
	return a.list.Refresh(ctx)
}

func (a *Admin) Search(term string) {
	a.list.Search(term)
}

// RequestDelete opens the confirmation dialog for id.
func (a *Admin) RequestDelete(id string) error {
	if err := a.granted(); err != nil {
		return err
	}
	a.confirm.Request(id)
	return nil
}

// CancelDelete closes the dialog without deleting anything.
func (a *Admin) CancelDelete() {
	a.confirm.Cancel()
}

// ConfirmDelete deletes the pending FAQ, then refreshes the table once.
// A failed deletion leaves the table as it was and shows a message.
func (a *Admin) ConfirmDelete(ctx context.Context) error {
	if err := a.granted(); err != nil {
		a.confirm.Cancel()
		return err
	}
	err := a.confirm.Confirm(ctx, func(ctx context.Context, id string) error {
		return a.svc.Delete(ctx, a.sess.Token(), id).Err()
	})
	switch {
	case errors.Is(err, confirm.ErrNothingPending):
		return err
	case err != nil:
		a.list.Fail(core.AsRequestError(err).MessageOr(DeleteFailureMessage))
		return err
	}
	return a.list.Refresh(ctx)
}

func (a *Admin) OpenCreate() error {
	if err := a.granted(); err != nil {
		return err
	}
	a.mu.Lock()
	a.createOpen = true
	a.mu.Unlock()
	return nil
}

// CloseCreate closes the creation dialog and clears its form.
func (a *Admin) CloseCreate() {
	a.mu.Lock()
	a.createOpen = false
	a.mu.Unlock()
	a.create.Reset()
}

// SubmitCreate validates and posts a new FAQ. On success the dialog closes and
// the table is refreshed; otherwise the dialog stays open with the entered values.
func (a *Admin) SubmitCreate(ctx context.Context, values map[string]string) error {
	if err := a.granted(); err != nil {
		return err
	}
	a.mu.Lock()
	a.createOpen = true
	a.mu.Unlock()

	var nf NewFAQ
	validateFn := func(vals map[string]string) error {
		nf = NewFAQFromValues(vals)
		return nf.Validate(a.validate)
	}
	send := func(ctx context.Context) error {
		return a.svc.Create(ctx, a.sess.Token(), nf).Err()
	}
	if err := a.create.Submit(ctx, values, validateFn, send); err != nil {
		return err
	}

	a.CloseCreate()
	return a.list.Refresh(ctx)
}

func (a *Admin) View() AdminView {
	pending, confirming := a.confirm.Pending()
	a.mu.Lock()
	createOpen := a.createOpen
	a.mu.Unlock()
	return AdminView{
		Access:     a.Access(),
		List:       a.list.View(),
		Confirming: confirming,
		PendingID:  pending,
		Create:     a.create.State(),
		CreateOpen: createOpen,
	}
}
