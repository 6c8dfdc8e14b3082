package configs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_EmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Orthanc.URL != "http://orthanc:8042" {
		t.Errorf("Orthanc.URL = %q", cfg.Orthanc.URL)
	}
	if cfg.Orthanc.Username != "share-user" {
		t.Errorf("Orthanc.Username = %q", cfg.Orthanc.Username)
	}
	if cfg.Orthanc.Password != "" {
		t.Errorf("Orthanc.Password = %q, want empty", cfg.Orthanc.Password)
	}
	if cfg.Orthanc.TestStudyUID != "1.3.46.670589.14.8100.181.198242.0.5.20200511091533.1.0" {
		t.Errorf("Orthanc.TestStudyUID = %q", cfg.Orthanc.TestStudyUID)
	}
	if cfg.AuthService.URL != "http://orthanc-auth-service:8000" {
		t.Errorf("AuthService.URL = %q", cfg.AuthService.URL)
	}
	if cfg.Database.Host != "orthanc-db" || cfg.Database.Name != "orthanc" || cfg.Database.User != "orthanc" {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Database.Driver != DriverSQL {
		t.Errorf("Database.Driver = %q, want sql", cfg.Database.Driver)
	}
	if got := cfg.Keycloak.URLs(); len(got) != 2 || got[0] != "http://keycloak:8080/health/live" || got[1] != "http://keycloak:9000/health/live" {
		t.Errorf("Keycloak.URLs() = %v", got)
	}
	if cfg.Server.Port != "8000" || cfg.Server.ContextPath != "" {
		t.Errorf("Server = %+v", cfg.Server)
	}

	timeouts := map[string][2]time.Duration{
		"orthanc":  {cfg.Orthanc.Timeout, 5 * time.Second},
		"auth":     {cfg.AuthService.Timeout, 5 * time.Second},
		"db":       {cfg.Database.ConnectTimeout, 3 * time.Second},
		"keycloak": {cfg.Keycloak.Timeout, 2 * time.Second},
		"health":   {cfg.Health.Timeout, 10 * time.Second},
	}
	for name, pair := range timeouts {
		if pair[0] != pair[1] {
			t.Errorf("%s timeout = %v, want %v", name, pair[0], pair[1])
		}
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ORTHANC_URL", "http://archive.test:8042")
	t.Setenv("ORTHANC_PASSWORD", "s3cret")
	t.Setenv("DB_DRIVER", "gorm")
	t.Setenv("KEYCLOAK_ALT_URL", "")
	t.Setenv("KEYCLOAK_TIMEOUT", "750ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Orthanc.URL != "http://archive.test:8042" {
		t.Errorf("Orthanc.URL = %q", cfg.Orthanc.URL)
	}
	if cfg.Orthanc.Password != "s3cret" {
		t.Errorf("Orthanc.Password = %q", cfg.Orthanc.Password)
	}
	if cfg.Database.Driver != DriverGorm {
		t.Errorf("Database.Driver = %q", cfg.Database.Driver)
	}
	if got := cfg.Keycloak.URLs(); len(got) != 1 {
		t.Errorf("Keycloak.URLs() = %v, want only the primary", got)
	}
	if cfg.Keycloak.Timeout != 750*time.Millisecond {
		t.Errorf("Keycloak.Timeout = %v", cfg.Keycloak.Timeout)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yml")
	content := `
app:
  db:
    driver: mysql
  keycloak:
    url: http://kc/health/live
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unsupported db driver") {
		t.Errorf("Load() error = %v, want unsupported db driver", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Load() expected error")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:           "db",
		Port:           "5432",
		Name:           "orthanc",
		User:           "orthanc",
		Password:       `it's`,
		SSLMode:        "disable",
		ConnectTimeout: 3 * time.Second,
	}

	want := `host='db' port='5432' user='orthanc' password='it\'s' dbname='orthanc' sslmode='disable' connect_timeout=3`
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %s, want %s", got, want)
	}

	cfg.ConnectTimeout = 200 * time.Millisecond
	if got := cfg.DSN(); !strings.HasSuffix(got, "connect_timeout=1") {
		t.Errorf("sub-second timeout should round up to 1s: %s", got)
	}
}
