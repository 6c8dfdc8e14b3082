package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestOrthancGateway_SystemStatusUsesBasicAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/system" {
			t.Errorf("Path = %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "share-user" || pass != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.Header.Get(TokenHeader) != "" {
			t.Error("system call must not carry the token header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Version":"1.12.0"}`))
	}))
	defer server.Close()

	gateway := NewOrthancGateway(server.URL, "share-user", "pw", time.Second)
	status, err := gateway.SystemStatus(context.Background())
	if err != nil || status != http.StatusOK {
		t.Errorf("SystemStatus() = %d, %v", status, err)
	}

	wrong := NewOrthancGateway(server.URL, "share-user", "bad", time.Second)
	status, err = wrong.SystemStatus(context.Background())
	if err != nil || status != http.StatusUnauthorized {
		t.Errorf("SystemStatus() with bad credentials = %d, %v, want 401 and no error", status, err)
	}
}

func TestOrthancGateway_StudyByDicomWebSendsTokenHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dicom-web/studies/"+testStudyUID {
			t.Errorf("Path = %s", r.URL.Path)
		}
		if _, _, ok := r.BasicAuth(); ok {
			t.Error("dicom-web call must not carry basic credentials")
		}
		if r.Header.Get("api-key") != "tok" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/dicom+json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	gateway := NewOrthancGateway(server.URL, "u", "p", time.Second)
	if status, err := gateway.StudyByDicomWeb(context.Background(), testStudyUID, "tok"); err != nil || status != http.StatusOK {
		t.Errorf("StudyByDicomWeb() = %d, %v", status, err)
	}
	if status, err := gateway.StudyByDicomWeb(context.Background(), testStudyUID, "other"); err != nil || status != http.StatusForbidden {
		t.Errorf("StudyByDicomWeb() with wrong token = %d, %v", status, err)
	}
}

func TestOrthancGateway_LookupSendsRawUID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/tools/lookup" {
			t.Errorf("Request = %s %s", r.Method, r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != testStudyUID {
			t.Errorf("Body = %q", body)
		}
		if r.Header.Get("api-key") != "tok" {
			t.Errorf("api-key = %q", r.Header.Get("api-key"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"Type":"Study"}]`))
	}))
	defer server.Close()

	gateway := NewOrthancGateway(server.URL, "u", "p", time.Second)
	if status, err := gateway.LookupStudy(context.Background(), testStudyUID, "tok"); err != nil || status != http.StatusOK {
		t.Errorf("LookupStudy() = %d, %v", status, err)
	}
}

func TestOrthancGateway_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	gateway := NewOrthancGateway(url, "u", "p", time.Second)
	status, err := gateway.SystemStatus(context.Background())
	if err == nil {
		t.Fatal("SystemStatus() expected transport error")
	}
	if status != 0 {
		t.Errorf("status = %d, want 0", status)
	}
}
