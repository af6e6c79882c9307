package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"leadflow-backend/pkg/config"
	"leadflow-backend/pkg/utils"
)

// Recovery converts panics into a generic 500. The stack trace goes to the
// log in every environment; the response body never carries internals.
func Recovery(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					fmt.Printf("❌ PANIC: %v\n", err)
					fmt.Printf("%s\n", debug.Stack())

					utils.WriteInternalServerErrorResponse(w, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
