package pkgrouter

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
)

//nolint:contextcheck // the request context is the only one available here
func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				//nolint:err113,errorlint // this must compare directly
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				slog.ErrorContext(r.Context(), "panic on the server",
					"because", rvr,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", internalFrames(string(debug.Stack())),
				)

				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// internalFrames keeps the "internal/...go:line" locations of a stack dump.
func internalFrames(stack string) []string {
	lines := strings.Split(stack, "\n")
	frames := make([]string, 0, 8)
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/internal/") {
			continue
		}
		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}
		shortPath := line[:end]
		if internalIdx := strings.Index(shortPath, "/internal/"); internalIdx != -1 {
			frames = append(frames, shortPath[internalIdx+1:])
		}
	}
	return frames
}
