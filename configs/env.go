package configs

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"orthanc-health/pkg/resource"
)

//go:embed application.yml
var defaultProperties []byte

// Supported values of DatabaseConfig.Driver.
const (
	DriverSQL  = "sql"
	DriverGorm = "gorm"
)

type EnvConfig struct {
	ApplicationName string
	LogLevel        string
	Server          ServerConfig
	Health          HealthConfig
	Orthanc         OrthancConfig
	AuthService     AuthServiceConfig
	Database        DatabaseConfig
	Keycloak        KeycloakConfig
}

type ServerConfig struct {
	Port        string
	ContextPath string
}

type HealthConfig struct {
	// Timeout caps a whole /health invocation on top of the per-call timeouts.
	Timeout time.Duration
}

type OrthancConfig struct {
	URL          string
	Username     string
	Password     string
	TestStudyUID string
	Timeout      time.Duration
}

type AuthServiceConfig struct {
	URL     string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	ConnectTimeout time.Duration
}

// DSN returns a libpq style connection string understood by both lib/pq and pgx.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
		quote(c.Host), quote(c.Port), quote(c.User), quote(c.Password), quote(c.Name), quote(c.SSLMode),
		connectTimeoutSeconds(c.ConnectTimeout))
}

type KeycloakConfig struct {
	URL     string
	AltURL  string
	Timeout time.Duration
}

// URLs returns the liveness endpoints in the order they are tried.
func (c KeycloakConfig) URLs() []string {
	urls := make([]string, 0, 2)
	for _, url := range []string{c.URL, c.AltURL} {
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}

// Load reads the properties file at path, or the embedded defaults when path is empty,
// and builds the typed configuration. Every ${ENV:default} placeholder is resolved here,
// so nothing downstream reads the environment.
func Load(path string) (*EnvConfig, error) {
	var err error
	if path == "" {
		err = resource.Load(bytes.NewReader(defaultProperties))
	} else {
		err = resource.Init(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read properties: %w", err)
	}

	cfg := &EnvConfig{
		ApplicationName: getStringOrDefault("app.name", "orthanc-health"),
		LogLevel:        getStringOrDefault("app.log-level", "info"),
		Server: ServerConfig{
			Port:        getStringOrDefault("app.server.port", "8000"),
			ContextPath: resource.GetString("app.server.context-path"),
		},
		Health: HealthConfig{
			Timeout: getDurationOrDefault("app.health.timeout", 10*time.Second),
		},
		Orthanc: OrthancConfig{
			URL:          resource.GetString("app.orthanc.url"),
			Username:     resource.GetString("app.orthanc.username"),
			Password:     resource.GetString("app.orthanc.password"),
			TestStudyUID: resource.GetString("app.orthanc.test-study-uid"),
			Timeout:      getDurationOrDefault("app.orthanc.timeout", 5*time.Second),
		},
		AuthService: AuthServiceConfig{
			URL:     resource.GetString("app.auth-service.url"),
			Timeout: getDurationOrDefault("app.auth-service.timeout", 5*time.Second),
		},
		Database: DatabaseConfig{
			Driver:         getStringOrDefault("app.db.driver", DriverSQL),
			Host:           resource.GetString("app.db.host"),
			Port:           getStringOrDefault("app.db.port", "5432"),
			Name:           resource.GetString("app.db.database"),
			User:           resource.GetString("app.db.username"),
			Password:       resource.GetString("app.db.password"),
			SSLMode:        getStringOrDefault("app.db.ssl-mode", "disable"),
			ConnectTimeout: getDurationOrDefault("app.db.connect-timeout", 3*time.Second),
		},
		Keycloak: KeycloakConfig{
			URL:     resource.GetString("app.keycloak.url"),
			AltURL:  resource.GetString("app.keycloak.alt-url"),
			Timeout: getDurationOrDefault("app.keycloak.timeout", 2*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the service cannot start with.
// Missing archive credentials are accepted: the orthanc probe reports them as a failure.
func (c *EnvConfig) Validate() error {
	switch c.Database.Driver {
	case DriverSQL, DriverGorm:
	default:
		return fmt.Errorf("unsupported db driver %q", c.Database.Driver)
	}
	if len(c.Keycloak.URLs()) == 0 {
		return fmt.Errorf("at least one keycloak liveness url is required")
	}
	return nil
}

func getStringOrDefault(key, defaultValue string) string {
	value := resource.GetString(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := resource.GetDuration(key)
	if value <= 0 {
		return defaultValue
	}
	return value
}

func connectTimeoutSeconds(d time.Duration) int {
	seconds := int(d / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

// quote escapes a libpq keyword value.
func quote(value string) string {
	escaped := bytes.NewBuffer(nil)
	escaped.WriteByte('\'')
	for _, r := range value {
		if r == '\'' || r == '\\' {
			escaped.WriteByte('\\')
		}
		escaped.WriteRune(r)
	}
	escaped.WriteByte('\'')
	return escaped.String()
}
