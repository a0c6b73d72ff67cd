package logger

import (
	"net/http/httptest"
	"testing"
)

func TestNew_ServiceField(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	if got := New().Data["service"]; got != "coursegen" {
		t.Errorf("service = %v, want coursegen", got)
	}

	t.Setenv("SERVICE_NAME", "coursegen-staging")
	if got := New().Data["service"]; got != "coursegen-staging" {
		t.Errorf("service = %v, want coursegen-staging", got)
	}
}

func TestWithRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/generate-course-outline", nil)
	entry := New().WithRequest(req)

	if entry.Data["method"] != "POST" {
		t.Errorf("method = %v", entry.Data["method"])
	}
	if entry.Data["path"] != "/api/generate-course-outline" {
		t.Errorf("path = %v", entry.Data["path"])
	}
	if entry.Data["req_id"] == "" || entry.Data["req_id"] == nil {
		t.Error("req_id not assigned")
	}
	if entry.Data["service"] == nil {
		t.Error("service field dropped by WithRequest")
	}
}

func TestWithRequest_KeepsCallerRequestID(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "req-from-upstream")

	entry := New().WithRequest(req)
	if entry.Data["req_id"] != "req-from-upstream" {
		t.Errorf("req_id = %v, want the caller's header value", entry.Data["req_id"])
	}
}

func TestWithError_NilPassthrough(t *testing.T) {
	l := New()
	if entry := l.WithError(nil); entry.Data["error"] != nil {
		t.Error("nil error still produced an error field")
	}
}
