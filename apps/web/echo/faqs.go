package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/faq"
)

const faqsPath = "/admin/faqs"

type faqsView struct {
	View       faq.AdminView
	Categories core.OptionList
}

type faqAdminApi struct {
	categories core.OptionList
}

func registerFAQAdmin(g *echo.Group, opts *Options) {
	api := faqAdminApi{categories: opts.Options.FAQCategories}

	g.GET("", api.list)
	g.POST("", api.create)
	g.POST("/refresh", api.refresh)
	g.POST("/new", api.openCreate)
	g.POST("/new/cancel", api.closeCreate)
	g.POST("/:id/delete", api.requestDelete)
	g.POST("/delete/confirm", api.confirmDelete)
	g.POST("/delete/cancel", api.cancelDelete)
}

func (api *faqAdminApi) render(ctx echo.Context, code int) error {
	view := faqsView{View: getWorkspace(ctx).faqs.View(), Categories: api.categories}
	return render(ctx, code, "faqs", "FAQs Management", view)
}

func backToList(ctx echo.Context) error {
	getWorkspace(ctx).continueFAQs()
	return ctx.Redirect(http.StatusSeeOther, faqsPath)
}

// Handlers

// list renders the FAQ table. Visiting the page fetches the FAQs; searching
// filters what was already fetched.
func (api *faqAdminApi) list(ctx echo.Context) error {
	ws := getWorkspace(ctx)
	continued := ws.takeFAQsContinued()

	term, searching := ctx.QueryParams()["q"]
	switch {
	case searching:
		ws.faqs.Search(term[0])
	case !continued:
		ws.faqs.Search("")
	}
	if !continued && !(searching && ws.faqs.View().List.Loaded) {
		// a failed fetch is part of the list view
		_, _ = ws.faqs.Mount(ctx.Request().Context())
	}
	return api.render(ctx, http.StatusOK)
}

func (api *faqAdminApi) refresh(ctx echo.Context) error {
	if err := getWorkspace(ctx).faqs.Refresh(ctx.Request().Context()); errors.Is(err, core.ErrAccessDenied) {
		return err
	}
	return backToList(ctx)
}

func (api *faqAdminApi) create(ctx echo.Context) error {
	values, err := formValues(ctx, "question", "response", "category")
	if err != nil {
		return err
	}

	admin := getWorkspace(ctx).faqs
	err = admin.SubmitCreate(ctx.Request().Context(), values)
	if errors.Is(err, core.ErrAccessDenied) {
		return err
	}
	// a closed dialog means the FAQ was created, even when the following refresh failed
	if err == nil || !admin.View().CreateOpen {
		return backToList(ctx)
	}
	return api.render(ctx, submitStatus(err))
}

func (api *faqAdminApi) openCreate(ctx echo.Context) error {
	if err := getWorkspace(ctx).faqs.OpenCreate(); err != nil {
		return err
	}
	return backToList(ctx)
}

func (api *faqAdminApi) closeCreate(ctx echo.Context) error {
	getWorkspace(ctx).faqs.CloseCreate()
	return backToList(ctx)
}

func (api *faqAdminApi) requestDelete(ctx echo.Context) error {
	if err := getWorkspace(ctx).faqs.RequestDelete(ctx.Param("id")); err != nil {
		return err
	}
	return backToList(ctx)
}

func (api *faqAdminApi) confirmDelete(ctx echo.Context) error {
	// other failures are shown above the table
	if err := getWorkspace(ctx).faqs.ConfirmDelete(ctx.Request().Context()); errors.Is(err, core.ErrAccessDenied) {
		return err
	}
	return backToList(ctx)
}

func (api *faqAdminApi) cancelDelete(ctx echo.Context) error {
	getWorkspace(ctx).faqs.CancelDelete()
	return backToList(ctx)
}
