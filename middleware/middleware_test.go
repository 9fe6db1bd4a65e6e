package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"kuic/globals"
	"kuic/metrics"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func echoSubject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(Subject(r.Context())))
}

func TestAuthenticate(t *testing.T) {
	valid := sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), Claims{Username: "admin"})

	tests := []struct {
		name   string
		header string
		status int
		error  string
	}{
		{"missing", "", http.StatusUnauthorized, "Missing token"},
		{"no bearer prefix", valid, http.StatusUnauthorized, "Invalid token format"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Invalid token"},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, "Invalid token"},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
	}

	h := Authenticate(secret)(echoSubject)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/addSlide", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h(rec, req, nil)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK {
				if rec.Body.String() != "admin" {
					t.Errorf("subject = %q", rec.Body.String())
				}
				return
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["success"] != false || body["error"] != tt.error {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestAuthenticateDisabledWithoutSecret(t *testing.T) {
	h := Authenticate("")(echoSubject)
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/addSlide", nil), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(globals.RequestIDKey).(string)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || rec.Header().Get("X-Request-ID") != seen {
		t.Errorf("generated id = %q, header = %q", seen, rec.Header().Get("X-Request-ID"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc" || rec.Header().Get("X-Request-ID") != "abc" {
		t.Errorf("propagated id = %q", seen)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("%s not set", h)
		}
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Logging(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestInstrument(t *testing.T) {
	reg := metrics.NewRegistry()
	h := Instrument(reg, "/api/faqs/getFAQ/:id", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusNotFound)
	})

	for range 2 {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/faqs/getFAQ/1", nil), nil)
	}

	got := testutil.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/api/faqs/getFAQ/:id", http.MethodGet, "404"))
	if got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}
