package response

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when absent", "", false},
		{"proxy id kept", "edge-7f3a.01_b", true},
		{"log injection replaced", "abc\ninjected=1", false},
		{"oversized replaced", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var seen string
			r := gin.New()
			r.Use(RequestIDMiddleware())
			r.GET("/", func(c *gin.Context) {
				seen = c.GetString(ContextKeyRequestID)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.incoming != "" {
				req.Header[HeaderRequestID] = []string{tc.incoming}
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			if got != seen {
				t.Fatalf("header %q differs from context %q", got, seen)
			}
			if tc.keep {
				if got != tc.incoming {
					t.Fatalf("request id = %q, want %q", got, tc.incoming)
				}
				return
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("request id %q is not a generated uuid", got)
			}
		})
	}
}
