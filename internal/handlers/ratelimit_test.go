package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUploadKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/posts", nil)
	req.RemoteAddr = "10.0.0.7:53211"
	if got := uploadKey(req); got != "upload:10.0.0.7" {
		t.Fatalf("unexpected key %q", got)
	}

	req.Header.Set("X-Real-IP", "172.16.0.4")
	if got := uploadKey(req); got != "upload:172.16.0.4" {
		t.Fatalf("unexpected key %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := uploadKey(req); got != "upload:203.0.113.9" {
		t.Fatalf("unexpected key %q", got)
	}

	req.Header.Set("X-Forwarded-For", " , 10.0.0.1")
	if got := uploadKey(req); got != "upload:172.16.0.4" {
		t.Fatalf("expected blank first hop to be skipped got %q", got)
	}
}

func TestUploadAllowedWithoutLimiter(t *testing.T) {
	if !uploadAllowed(nil, httptest.NewRequest(http.MethodPost, "/posts", nil)) {
		t.Fatal("expected requests to pass without a limiter")
	}
}
