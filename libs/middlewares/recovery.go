package middlewares

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/skillbridge/backend/libs/handlers"
	"go.uber.org/zap"
)

// Recoverer turns a handler panic into a 500 envelope and an error log line
// carrying the request fields and stack. http.ErrAbortHandler is re-raised so
// the server can drop the connection as it expects.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				fields := append(RequestFields(r),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				logger.Error("handler panicked", fields...)

				handlers.WriteEnvelope(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}
