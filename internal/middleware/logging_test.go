package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorder(t *testing.T) {
	t.Run("explicit status", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		rec.WriteHeader(http.StatusTeapot)
		rec.WriteHeader(http.StatusOK) // later calls must not overwrite
		if rec.status != http.StatusTeapot {
			t.Errorf("status = %d", rec.status)
		}
	})

	t.Run("implicit 200 and byte count", func(t *testing.T) {
		rec := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
		rec.Write([]byte("hello"))
		rec.Write([]byte(" world"))
		if rec.status != http.StatusOK {
			t.Errorf("status = %d, want implicit 200", rec.status)
		}
		if rec.bytes != len("hello world") {
			t.Errorf("bytes = %d", rec.bytes)
		}
	})
}

func TestLoggerPassesResponseThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("made"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/contact", nil))

	if rec.Code != http.StatusCreated || rec.Body.String() != "made" {
		t.Errorf("response = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRecovererConvertsPanic(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("descriptor payload was nil")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/article/x/y", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
