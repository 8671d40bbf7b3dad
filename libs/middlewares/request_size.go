package middlewares

import (
	"fmt"
	"net/http"

	"github.com/skillbridge/backend/libs/handlers"
)

// BodyLimit caps request bodies at limit bytes. A declared Content-Length over the
// limit is refused up front; chunked bodies are cut off by http.MaxBytesReader and
// surface as a decode error in the handler.
func BodyLimit(limit int64) func(http.Handler) http.Handler {
	message := fmt.Sprintf("request body exceeds %d bytes", limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > limit {
				handlers.WriteEnvelope(w, http.StatusRequestEntityTooLarge, message)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
