package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/rogerjeasy/letusconnect/core"
	"github.com/rogerjeasy/letusconnect/core/account"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "Page not found.")

type errorView struct {
	Code    int
	Message string
}

// requestStatus is the status of a page re-rendered after a failed backend request.
func requestStatus(reqErr *core.RequestError) int {
	if reqErr != nil && reqErr.Status >= http.StatusBadRequest {
		return reqErr.Status
	}
	return http.StatusBadGateway
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler rendering our errors as HTML pages.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		cause := errors.Cause(err)
		var reqErr *core.RequestError
		switch {
		case cause == core.ErrAccessDenied:
			code = http.StatusForbidden
			message = core.ErrAccessDenied.Error()
		case errors.As(err, &reqErr):
			code = requestStatus(reqErr)
			message = reqErr.MessageOr(http.StatusText(code))
		default:
			if httpErr, ok := cause.(*echo.HTTPError); ok {
				if httpErr.Internal != nil {
					if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
						httpErr = herr
					}
				}
				code = httpErr.Code
				if msg, ok := httpErr.Message.(string); ok {
					message = msg
				} else {
					message = http.StatusText(code)
				}
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)

			var usr account.User
			if ws := getWorkspace(ctx); ws != nil {
				if snap := ws.sess.Snapshot(); snap.User != nil {
					usr = *snap.User
				}
			}
			logger.Error(message, errors.Wrap(err, message), usr)

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = render(ctx, code, "error", http.StatusText(code), errorView{Code: code, Message: message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
