package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitMiddleware(t *testing.T) {
	detector := NewSuspiciousActivityDetector(50, 5*time.Minute)
	middleware := RateLimitMiddleware(nil, detector)

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	ip := "192.168.1.100"
	req := httptest.NewRequest("GET", "/api/quests", nil)
	req.RemoteAddr = ip + ":1234"

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d failed with status %d", i, rec.Code)
		}
	}

	// Next request should be blocked
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status 429 Too Many Requests, got %d", rec.Code)
	}

	// Another client keeps its own budget
	other := httptest.NewRequest("GET", "/api/quests", nil)
	other.RemoteAddr = "192.168.1.101:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	if rec.Code != http.StatusOK {
		t.Errorf("expected other client to pass, got %d", rec.Code)
	}

	// Health checks are never limited
	health := httptest.NewRequest("GET", "/healthz", nil)
	health.RemoteAddr = ip + ":1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, health)
	if rec.Code != http.StatusOK {
		t.Errorf("expected health check to pass, got %d", rec.Code)
	}

	detector.mu.Lock()
	count := detector.requestCountByIP[ip]
	detector.mu.Unlock()
	if count != 51 {
		t.Errorf("expected count 51, got %d", count)
	}
}

func TestSuspiciousActivityDetector_WindowReset(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	detector := NewSuspiciousActivityDetector(2, time.Minute)
	detector.now = func() time.Time { return now }
	detector.lastResetTime = now

	for i := 0; i < 2; i++ {
		if !detector.RecordRequest("a") {
			t.Fatalf("request %d unexpectedly blocked", i)
		}
	}
	if detector.RecordRequest("a") {
		t.Fatal("expected third request in window to be blocked")
	}

	now = now.Add(2 * time.Minute)
	if !detector.RecordRequest("a") {
		t.Error("expected budget to reset after the window")
	}
}

func TestSuspiciousActivityDetector_Disabled(t *testing.T) {
	detector := NewSuspiciousActivityDetector(0, time.Minute)
	for i := 0; i < 5000; i++ {
		if !detector.RecordRequest("a") {
			t.Fatalf("request %d blocked with limiting disabled", i)
		}
	}
}
