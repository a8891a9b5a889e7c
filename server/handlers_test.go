package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/soldoriente/evolution-bridge/processor"
	"github.com/soldoriente/evolution-bridge/reqlog"
	"github.com/soldoriente/evolution-bridge/supabase"
)

type stubChecker struct {
	err error
}

func (s *stubChecker) CheckConnection(ctx context.Context) error {
	return s.err
}

type stubStore struct{}

func (s *stubStore) SaveMessage(ctx context.Context, msg supabase.Message) error {
	return nil
}

type stubFetcher struct{}

func (s *stubFetcher) GetMediaBase64(ctx context.Context, serverURL, instance, apikey, messageID string) (string, error) {
	return "", nil
}

type stubTranscriber struct{}

func (s *stubTranscriber) Transcribe(ctx context.Context, base64Audio string) (string, error) {
	return "", nil
}

type stubUploader struct{}

func (s *stubUploader) UploadImage(ctx context.Context, base64Image, telefone string) (string, error) {
	return "", nil
}

func newTestServer(supabaseErr, minioErr error) *Server {
	mp := processor.NewMessageProcessor(&stubFetcher{}, &stubTranscriber{}, &stubUploader{}, &stubStore{}, nil)
	return New(mp, reqlog.NewStore(), nil, &stubChecker{err: supabaseErr}, &stubChecker{err: minioErr}, nil)
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var decoded map[string]any
	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return decoded
}

func TestWebhookHandler_MissingEventIsRejected(t *testing.T) {
	srv := newTestServer(nil, nil)

	req := httptest.NewRequest("POST", "/webhook/messages", strings.NewReader(`{"instance":"inst1"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
}

func TestWebhookHandler_AcceptsEventImmediately(t *testing.T) {
	srv := newTestServer(nil, nil)

	payload := `{"event":"messages.upsert","instance":"inst1","data":{"messageType":"conversation","message":{"conversation":"oi"},"key":{"remoteJid":"5511@s.whatsapp.net"}}}`
	req := httptest.NewRequest("POST", "/webhook/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	if body["message"] == "" {
		t.Error("Expected acknowledgement message")
	}
}

func TestWebhookHandler_RootPathAlsoAccepts(t *testing.T) {
	srv := newTestServer(nil, nil)

	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"event":"ping"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.app.Test(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestHealthHandler_AllServicesOk(t *testing.T) {
	srv := newTestServer(nil, nil)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", body["status"])
	}
}

func TestHealthHandler_DegradedWhenDependencyDown(t *testing.T) {
	srv := newTestServer(nil, errors.New("connection refused"))

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 503 {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["status"] != "degraded" {
		t.Errorf("Expected status degraded, got %v", body["status"])
	}

	services := body["services"].(map[string]any)
	minio := services["minio"].(map[string]any)
	if minio["connected"] != false {
		t.Errorf("Expected minio disconnected, got %v", minio["connected"])
	}
}

func TestRequestsEndpoints_ListGetClear(t *testing.T) {
	srv := newTestServer(nil, nil)

	// A request through the app is captured by the middleware.
	srv.app.Test(httptest.NewRequest("GET", "/health", nil))

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/requests?limit=10", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	body := decodeBody(t, resp.Body)
	if body["success"] != true {
		t.Fatalf("Expected success true, got %v", body["success"])
	}
	requests := body["requests"].([]any)
	if len(requests) == 0 {
		t.Fatal("Expected captured requests in the log")
	}

	id := requests[0].(map[string]any)["id"].(string)
	resp, _ = srv.app.Test(httptest.NewRequest("GET", "/requests/"+id, nil))
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 for existing entry, got %d", resp.StatusCode)
	}

	resp, _ = srv.app.Test(httptest.NewRequest("GET", "/requests/missing-id", nil))
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404 for unknown entry, got %d", resp.StatusCode)
	}

	resp, _ = srv.app.Test(httptest.NewRequest("DELETE", "/requests", nil))
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200 for clear, got %d", resp.StatusCode)
	}

	resp, _ = srv.app.Test(httptest.NewRequest("GET", "/requests/stats", nil))
	stats := decodeBody(t, resp.Body)["stats"].(map[string]any)
	// The clear and stats requests themselves are captured after handling.
	if total := stats["total"].(float64); total > 2 {
		t.Errorf("Expected log to be cleared, got total %v", total)
	}
}

func TestRootHandler_ServiceDescriptor(t *testing.T) {
	srv := newTestServer(nil, nil)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp.Body)
	if body["name"] != serviceName || body["status"] != "running" {
		t.Errorf("Unexpected descriptor: %+v", body)
	}

	endpoints := body["endpoints"].(map[string]any)
	if endpoints["webhook"] != "/webhook/messages" {
		t.Errorf("Expected webhook endpoint, got %v", endpoints["webhook"])
	}
}

func TestDashboardHandler_RendersHTML(t *testing.T) {
	srv := newTestServer(nil, nil)

	resp, err := srv.app.Test(httptest.NewRequest("GET", "/dashboard", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	html, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(html), "<html") {
		t.Error("Expected HTML response from dashboard")
	}
}

func TestSummarizeRequest_WebhookConversation(t *testing.T) {
	entry := reqlog.Entry{
		Method: "POST",
		Path:   "/webhook/messages",
		Body:   `{"event":"messages.upsert","data":{"messageType":"conversation","message":{"conversation":"oi"}}}`,
	}

	if got := summarizeRequest(entry); got != "[messages.upsert] oi" {
		t.Errorf("Unexpected summary: %q", got)
	}
}

func TestSummarizeRequest_NonWebhookUsesMethodPath(t *testing.T) {
	entry := reqlog.Entry{Method: "GET", Path: "/health"}
	if got := summarizeRequest(entry); got != "GET /health" {
		t.Errorf("Unexpected summary: %q", got)
	}
}

func TestSummarizeRequest_AudioPlaceholder(t *testing.T) {
	entry := reqlog.Entry{
		Method: "POST",
		Path:   "/webhook/messages",
		Body:   `{"event":"messages.upsert","data":{"messageType":"audioMessage","message":{"audioMessage":{"seconds":3}}}}`,
	}

	if got := summarizeRequest(entry); got != "[messages.upsert] Áudio recebido" {
		t.Errorf("Unexpected summary: %q", got)
	}
}
