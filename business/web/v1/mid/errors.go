package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/hydrocredit/ledger/business/sys/metrics"
	"github.com/hydrocredit/ledger/business/sys/validate"
	"github.com/hydrocredit/ledger/business/web/errs"
	"github.com/hydrocredit/ledger/foundation/ledger/account"
	"github.com/hydrocredit/ledger/foundation/ledger/policy"
	"github.com/hydrocredit/ledger/foundation/ledger/state"
	"github.com/hydrocredit/ledger/foundation/web"
	"go.uber.org/zap"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a uniform way.
// Unexpected errors (status >= 500) are logged.
func Errors(log *zap.SugaredLogger) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			// If the context is missing this value, request the service
			// to be shutdown gracefully.
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			// Run the next handler and catch any propagated error.
			if err := handler(ctx, w, r); err != nil {

				// Log the error.
				log.Errorw("ERROR", "traceid", v.TraceID, "message", err)

				// Build out the error response.
				var er errs.Response
				var status int

				switch {
				case validate.IsFieldErrors(err):
					fieldErrors := validate.GetFieldErrors(err)
					er = errs.Response{
						Error:  "data validation error",
						Fields: fieldErrors.Fields(),
					}
					status = http.StatusBadRequest

				case errs.IsTrusted(err):
					trsErr := errs.GetTrusted(err)
					er = errs.Response{
						Error: trsErr.Error(),
					}
					status = trsErr.Status

				case errors.Is(err, policy.ErrUnauthorized):
					er = errs.Response{
						Error: err.Error(),
					}
					status = http.StatusForbidden

				case errors.Is(err, account.ErrExists):
					er = errs.Response{
						Error: err.Error(),
					}
					status = http.StatusConflict

				case errors.Is(err, account.ErrNotFound), errors.Is(err, state.ErrIssuanceNotFound):
					er = errs.Response{
						Error: err.Error(),
					}
					status = http.StatusNotFound

				case policy.IsRejection(err), errors.Is(err, policy.ErrInsufficientBalance), errors.Is(err, state.ErrNoTransactions):
					er = errs.Response{
						Error: err.Error(),
					}
					status = http.StatusBadRequest

				default:
					er = errs.Response{
						Error: http.StatusText(http.StatusInternalServerError),
					}
					status = http.StatusInternalServerError
				}

				// Respond with the error back to the client.
				if err := web.Respond(ctx, w, er, status); err != nil {
					return err
				}

				// Track the error for alerting.
				if status >= http.StatusInternalServerError {
					metrics.AddErrors(ctx)
				}

				// If we receive the shutdown err we need to return it
				// back to the base handler to shutdown the service.
				if web.IsShutdown(err) {
					return err
				}
			}

			// The error has been handled so we can stop propagating it.
			return nil
		}

		return h
	}

	return m
}
