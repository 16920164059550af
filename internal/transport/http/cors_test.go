package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		allowedOrigins []string
		method         string
		origin         string
		requestMethod  string
		expectedStatus int
		expectedOrigin string
	}{
		{
			name:           "no origin passes through",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "allowed origin echoed",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         http.MethodGet,
			origin:         "http://localhost:5173",
			expectedStatus: http.StatusOK,
			expectedOrigin: "http://localhost:5173",
		},
		{
			name:           "wildcard",
			allowedOrigins: []string{"*"},
			method:         http.MethodGet,
			origin:         "http://anywhere.example",
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:           "preflight allowed",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         http.MethodOptions,
			origin:         "http://localhost:5173",
			requestMethod:  http.MethodPost,
			expectedStatus: http.StatusNoContent,
			expectedOrigin: "http://localhost:5173",
		},
		{
			name:           "preflight from unknown origin rejected",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         http.MethodOptions,
			origin:         "http://evil.example",
			requestMethod:  http.MethodPost,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "unknown origin on plain request gets no headers",
			allowedOrigins: []string{"http://localhost:5173"},
			method:         http.MethodGet,
			origin:         "http://evil.example",
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/plots", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.requestMethod != "" {
				req.Header.Set("Access-Control-Request-Method", tt.requestMethod)
			}
			rec := httptest.NewRecorder()

			CORS(tt.allowedOrigins, next).ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Fatalf("expected Access-Control-Allow-Origin %q, got %q", tt.expectedOrigin, got)
			}
		})
	}
}
