package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/robobook/backend/internal/auth"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestRecoveryMiddleware_Panic(t *testing.T) {
	panicHandler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		panic("test panic")
	})

	handler := recoveryMiddleware(discardLogger())(panicHandler)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("recoveryMiddleware(panic) status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	body := decodeErrorBody(t, w)
	if body.Error != "internal_error" {
		t.Errorf("recoveryMiddleware(panic) code = %q, want %q", body.Error, "internal_error")
	}
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"ok": "true"})
	})

	handler := recoveryMiddleware(discardLogger())(okHandler)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("recoveryMiddleware(ok) status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestLoggingWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	lw := &loggingWriter{w: rec}

	lw.WriteHeader(http.StatusTeapot)
	if _, err := lw.Write([]byte("short and stout")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if lw.statusCode != http.StatusTeapot {
		t.Errorf("statusCode = %d, want %d", lw.statusCode, http.StatusTeapot)
	}
	if lw.bytesWritten != 15 {
		t.Errorf("bytesWritten = %d, want 15", lw.bytesWritten)
	}
}

func TestLoggingWriter_ImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	lw := &loggingWriter{w: rec}

	if _, err := lw.Write([]byte("hi")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if lw.statusCode != http.StatusOK {
		t.Errorf("statusCode = %d, want %d", lw.statusCode, http.StatusOK)
	}
}

func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	handler := corsMiddleware([]string{"http://localhost:3000"})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "http://localhost:3000")

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q, want %q", got, "http://localhost:3000")
	}
	if got := w.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want %q", got, "true")
	}
}

func TestCORSMiddleware_DisallowedOrigin(t *testing.T) {
	handler := corsMiddleware([]string{"http://localhost:3000"})(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Origin", "http://evil.example.com")

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := corsMiddleware([]string{"http://localhost:3000"})(
		http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			called = true
		}),
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodOptions, "/api/chatbot", nil)
	r.Header.Set("Origin", "http://localhost:3000")

	handler.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if called {
		t.Error("preflight request reached the inner handler")
	}
}

func TestRequestIDMiddleware_Generates(t *testing.T) {
	handler := requestIDMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header not set")
	}
}

func TestRequestIDMiddleware_PreservesIncoming(t *testing.T) {
	handler := requestIDMiddleware()(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")

	handler.ServeHTTP(w, r)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}

type stubValidator struct {
	users map[string]*auth.User
}

func (v *stubValidator) ValidateSession(_ context.Context, token string) (*auth.User, error) {
	if u, ok := v.users[token]; ok {
		return u, nil
	}
	return nil, auth.ErrSessionNotFound
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	validator := &stubValidator{users: map[string]*auth.User{
		"tok-1": {ID: "u1", Email: "ada@example.com"},
	}}

	var gotUser *auth.User
	handler := authMiddleware(validator, discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = userFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "tok-1"})
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if gotUser == nil || gotUser.ID != "u1" {
		t.Fatalf("user in context = %+v, want u1", gotUser)
	}
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	validator := &stubValidator{users: map[string]*auth.User{
		"tok-2": {ID: "u2", Email: "lin@example.com"},
	}}

	var gotUser *auth.User
	handler := authMiddleware(validator, discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser, _ = userFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer tok-2")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if gotUser == nil || gotUser.ID != "u2" {
		t.Fatalf("user in context = %+v, want u2", gotUser)
	}
}

func TestAuthMiddleware_InvalidTokenContinuesAnonymous(t *testing.T) {
	validator := &stubValidator{users: map[string]*auth.User{}}

	var found bool
	handler := authMiddleware(validator, discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, found = userFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}),
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "expired"})
	handler.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if found {
		t.Error("invalid token put a user in context")
	}
}

func TestSessionToken_CookieBeatsBearer(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "from-cookie"})
	r.Header.Set("Authorization", "Bearer from-header")

	if got := sessionToken(r); got != "from-cookie" {
		t.Errorf("sessionToken() = %q, want %q", got, "from-cookie")
	}
}

func TestSessionToken_None(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := sessionToken(r); got != "" {
		t.Errorf("sessionToken() = %q, want empty", got)
	}
}

func TestRequireUser_Unauthenticated(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/user/profile", nil)

	if _, ok := requireUser(w, r); ok {
		t.Fatal("requireUser() ok for anonymous request")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
