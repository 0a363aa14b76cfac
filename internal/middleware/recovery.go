// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and returns a 500 Internal Server Error instead of crashing the server.
// When a request ID is set it is included in the response body so a
// visitor report can be matched to the log line. http.ErrAbortHandler is
// re-raised.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			id := chimw.GetReqID(r.Context())
			slog.Error("panic recovered",
				"error", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", id,
				"stack", string(debug.Stack()),
			)

			msg := "Internal Server Error"
			if id != "" {
				msg = fmt.Sprintf("%s (request %s)", msg, id)
			}
			http.Error(w, msg, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
