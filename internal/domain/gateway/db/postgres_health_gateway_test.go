package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"orthanc-health/configs"
)

type stubSession struct {
	selectErr   error
	selectPanic bool
	closeErr    error
	closeCalls  int
	sawDeadline bool
}

func (s *stubSession) SelectOne(ctx context.Context) error {
	_, s.sawDeadline = ctx.Deadline()
	if s.selectPanic {
		panic("driver exploded")
	}
	return s.selectErr
}

func (s *stubSession) Close() error {
	s.closeCalls++
	return s.closeErr
}

func openerFor(session *stubSession) SessionOpener {
	return func(ctx context.Context) (Session, error) { return session, nil }
}

func TestPostgresHealth_OK(t *testing.T) {
	session := &stubSession{}
	gateway := NewPostgresHealthGateway(openerFor(session), 3*time.Second)

	outcome := gateway.Health(context.Background())

	if outcome.String() != "OK" {
		t.Errorf("Health() = %s, want OK", outcome)
	}
	if session.closeCalls != 1 {
		t.Errorf("Close called %d times, want 1", session.closeCalls)
	}
	if !session.sawDeadline {
		t.Error("query ran without a deadline")
	}
}

func TestPostgresHealth_QueryErrorReleasesOnce(t *testing.T) {
	session := &stubSession{selectErr: errors.New("server closed the connection unexpectedly")}
	gateway := NewPostgresHealthGateway(openerFor(session), 3*time.Second)

	outcome := gateway.Health(context.Background())

	if got := outcome.String(); got != "Error: server closed the connection unexpectedly" {
		t.Errorf("Health() = %q", got)
	}
	if session.closeCalls != 1 {
		t.Errorf("Close called %d times, want 1", session.closeCalls)
	}
}

func TestPostgresHealth_PanicReleasesOnce(t *testing.T) {
	session := &stubSession{selectPanic: true}
	gateway := NewPostgresHealthGateway(openerFor(session), 3*time.Second)

	outcome := gateway.Health(context.Background())

	if got := outcome.String(); got != "Error: driver exploded" {
		t.Errorf("Health() = %q", got)
	}
	if session.closeCalls != 1 {
		t.Errorf("Close called %d times, want 1", session.closeCalls)
	}
}

func TestPostgresHealth_CloseErrorDoesNotFailCheck(t *testing.T) {
	session := &stubSession{closeErr: errors.New("already closed")}
	gateway := NewPostgresHealthGateway(openerFor(session), 3*time.Second)

	if outcome := gateway.Health(context.Background()); !outcome.IsOK() {
		t.Errorf("Health() = %s, want OK", outcome)
	}
}

func TestPostgresHealth_OpenError(t *testing.T) {
	open := func(ctx context.Context) (Session, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	gateway := NewPostgresHealthGateway(open, 3*time.Second)

	if got := gateway.Health(context.Background()).String(); got != "Error: dial tcp: connection refused" {
		t.Errorf("Health() = %q", got)
	}
}

func TestNewPostgresHealthGatewayFromConfig(t *testing.T) {
	for _, driver := range []string{configs.DriverSQL, configs.DriverGorm} {
		gateway, err := NewPostgresHealthGatewayFromConfig(configs.DatabaseConfig{Driver: driver, ConnectTimeout: time.Second})
		if err != nil || gateway == nil {
			t.Errorf("driver %s: gateway = %v, err = %v", driver, gateway, err)
		}
	}

	if _, err := NewPostgresHealthGatewayFromConfig(configs.DatabaseConfig{Driver: "mysql"}); err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestPostgresHealth_UnreachableServer(t *testing.T) {
	gateway, err := NewPostgresHealthGatewayFromConfig(configs.DatabaseConfig{
		Driver:         configs.DriverSQL,
		Host:           "127.0.0.1",
		Port:           "1",
		Name:           "orthanc",
		User:           "orthanc",
		SSLMode:        "disable",
		ConnectTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("NewPostgresHealthGatewayFromConfig() error = %v", err)
	}

	outcome := gateway.Health(context.Background())
	if outcome.IsOK() {
		t.Fatal("Health() = OK against a closed port")
	}
	if len(outcome.String()) <= len("Error: ") {
		t.Errorf("Health() = %q, want an error message", outcome)
	}
}
