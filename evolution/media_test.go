package evolution

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient() Client {
	return Client{
		httpClient:  &http.Client{},
		maxAttempts: 5,
		retryDelay:  time.Millisecond,
	}
}

func TestGetMediaBase64_RetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 5 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"base64": "aGVsbG8="})
	}))
	defer server.Close()

	client := newTestClient()
	base64Data, err := client.GetMediaBase64(context.Background(), server.URL, "inst1", "key", "MSG1")
	if err != nil {
		t.Fatalf("Expected success after retries, got error: %v", err)
	}

	if base64Data != "aGVsbG8=" {
		t.Errorf("Expected base64 payload 'aGVsbG8=', got '%s'", base64Data)
	}
	if attempts != 5 {
		t.Errorf("Expected exactly 5 attempts, got %d", attempts)
	}
}

func TestGetMediaBase64_ClientErrorFailsImmediately(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.GetMediaBase64(context.Background(), server.URL, "inst1", "key", "MSG1")
	if err == nil {
		t.Fatal("Expected error for 404 response")
	}

	if attempts != 1 {
		t.Errorf("Expected exactly 1 attempt for client error, got %d", attempts)
	}
}

func TestGetMediaBase64_ExhaustsRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.GetMediaBase64(context.Background(), server.URL, "inst1", "key", "MSG1")
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}

	if attempts != 5 {
		t.Errorf("Expected 5 attempts before giving up, got %d", attempts)
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("Expected last error to carry the status code, got: %v", err)
	}
}

func TestGetMediaBase64_SendsAPIKeyAndMessageID(t *testing.T) {
	var gotAPIKey string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("apikey")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]string{"base64": "ZGF0YQ=="})
	}))
	defer server.Close()

	client := newTestClient()
	_, err := client.GetMediaBase64(context.Background(), server.URL, "inst1", "secret-key", "MSG42")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if gotAPIKey != "secret-key" {
		t.Errorf("Expected apikey header 'secret-key', got '%s'", gotAPIKey)
	}
	if gotBody["message.key.id"] != "MSG42" {
		t.Errorf("Expected message.key.id 'MSG42', got '%s'", gotBody["message.key.id"])
	}
}

func TestGetMediaBase64_MissingBase64FieldYieldsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"mimetype": "image/jpeg"})
	}))
	defer server.Close()

	client := newTestClient()
	base64Data, err := client.GetMediaBase64(context.Background(), server.URL, "inst1", "key", "MSG1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if base64Data != "" {
		t.Errorf("Expected empty base64 when field is absent, got '%s'", base64Data)
	}
}
