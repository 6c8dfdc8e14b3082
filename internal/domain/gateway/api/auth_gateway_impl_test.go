package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"orthanc-health/internal/domain/model/external"
)

const testStudyUID = "1.2.840.113619.2.1"

func TestAcquireToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Method = %s, want PUT", r.Method)
		}
		if r.URL.Path != "/tokens/stone-viewer-publication" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "share-user" || pass != "pw" {
			t.Errorf("BasicAuth = %q %q %v", user, pass, ok)
		}

		var request external.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if request.ID != "health-check-fixed" {
			t.Errorf("ID = %q", request.ID)
		}
		if request.Type != "stone-viewer-publication" {
			t.Errorf("Type = %q", request.Type)
		}
		if request.ExpirationDate != "2099-12-31T23:59:59Z" {
			t.Errorf("ExpirationDate = %q", request.ExpirationDate)
		}
		if len(request.Resources) != 1 || request.Resources[0].DicomUID != testStudyUID || request.Resources[0].Level != "study" {
			t.Errorf("Resources = %+v", request.Resources)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"tok-123"}`))
	}))
	defer server.Close()

	gateway := NewAuthServiceGateway(server.URL, "share-user", "pw", time.Second).(*authServiceGatewayImpl)
	gateway.newID = func() string { return "health-check-fixed" }

	token, err := gateway.AcquireToken(context.Background(), testStudyUID)
	if err != nil {
		t.Fatalf("AcquireToken() error = %v", err)
	}
	if string(token) != "tok-123" {
		t.Errorf("token = %q, want tok-123", string(token))
	}
}

func TestAcquireToken_MissingCredentialsMakesNoCall(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	for _, creds := range [][2]string{{"", "pw"}, {"user", ""}, {"", ""}} {
		gateway := NewAuthServiceGateway(server.URL, creds[0], creds[1], time.Second)
		_, err := gateway.AcquireToken(context.Background(), testStudyUID)
		if !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("creds %q: err = %v, want ErrMissingCredentials", creds, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("auth service called %d times, want 0", got)
	}
}

func TestAcquireToken_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"unauthorized", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"created is not ok", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"token":"tok"}`))
		}},
		{"empty token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"token":""}`))
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`not json`))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			gateway := NewAuthServiceGateway(server.URL, "user", "pw", 100*time.Millisecond)
			token, err := gateway.AcquireToken(context.Background(), testStudyUID)
			if err == nil {
				t.Fatalf("AcquireToken() = %q, want error", string(token))
			}
			if token != "" {
				t.Errorf("token = %q, want empty", string(token))
			}
		})
	}
}

func TestAcquireToken_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gateway := NewAuthServiceGateway(url, "user", "pw", time.Second)
	if _, err := gateway.AcquireToken(context.Background(), testStudyUID); err == nil {
		t.Error("AcquireToken() expected transport error")
	}
}
