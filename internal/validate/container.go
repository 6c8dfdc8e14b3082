package validate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	TestContainer = "orthanc_test"
	TestPort      = "49152:8042"
	TestNetwork   = "minichris-local"

	StartedMarker = "Orthanc has started"
	StoppedMarker = "Orthanc has stopped"

	DefaultStartTimeout = 120 * time.Second
	DefaultPollInterval = 3 * time.Second
)

// Runner executes an external command and returns what it printed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner runs commands on the host, optionally through sudo.
type ExecRunner struct {
	Sudo bool
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	if r.Sudo {
		args = append([]string{name}, args...)
		name = "sudo"
	}
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

type ContainerState string

const (
	ContainerStarted  ContainerState = "started"
	ContainerStopped  ContainerState = "stopped"
	ContainerTimedOut ContainerState = "timed-out"
)

// ContainerResult is the outcome of a test container run with the logs collected at the end.
type ContainerResult struct {
	State ContainerState
	Logs  string
}

// ContainerCheck starts a throwaway copy of the orthanc service and waits for it to
// report startup or shutdown in its logs.
type ContainerCheck struct {
	ComposePath string
	Runner      Runner
	Timeout     time.Duration
	Interval    time.Duration
	Logger      *slog.Logger
}

func NewContainerCheck(composePath string, runner Runner, logger *slog.Logger) *ContainerCheck {
	return &ContainerCheck{
		ComposePath: composePath,
		Runner:      runner,
		Timeout:     DefaultStartTimeout,
		Interval:    DefaultPollInterval,
		Logger:      logger,
	}
}

// BuildOverride derives the standalone test service from the orthanc service: no restart,
// a fixed host port, no depends_on and only the shared network, declared external.
func BuildOverride(compose *Compose) (map[string]any, error) {
	service, err := compose.Service(OrthancService)
	if err != nil {
		return nil, err
	}

	service["restart"] = "no"
	service["container_name"] = TestContainer
	service["ports"] = []any{TestPort}
	delete(service, "depends_on")

	switch networks := service["networks"].(type) {
	case map[string]any:
		kept := map[string]any{}
		if v, ok := networks[TestNetwork]; ok {
			kept[TestNetwork] = v
		}
		service["networks"] = kept
	case []any:
		kept := []any{}
		for _, n := range networks {
			if n == TestNetwork {
				kept = append(kept, n)
			}
		}
		service["networks"] = kept
	}

	return map[string]any{
		"services": map[string]any{TestContainer: service},
		"networks": map[string]any{TestNetwork: map[string]any{"external": true}},
	}, nil
}

// Run writes the override next to the compose file so relative paths keep resolving,
// starts the container and polls it. The container and the override file are always
// removed before returning.
func (c *ContainerCheck) Run(ctx context.Context) (result ContainerResult, err error) {
	compose, err := LoadCompose(c.ComposePath)
	if err != nil {
		return result, err
	}
	override, err := BuildOverride(compose)
	if err != nil {
		return result, err
	}

	overridePath, err := writeOverride(filepath.Dir(c.ComposePath), override)
	if err != nil {
		return result, err
	}
	c.Logger.Info("Created temporary override file", "path", overridePath)

	defer func() {
		c.Logger.Info("Cleaning up test container and override file")
		// Cleanup must run even when ctx is already cancelled.
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()
		if _, stderr, downErr := c.Runner.Run(cleanupCtx, "docker", "compose", "-f", overridePath, "down", TestContainer); downErr != nil {
			c.Logger.Warn("docker compose down failed", "error", downErr, "stderr", strings.TrimSpace(stderr))
		}
		if rmErr := os.Remove(overridePath); rmErr != nil {
			c.Logger.Warn("failed to remove override file", "path", overridePath, "error", rmErr)
		}
	}()

	c.Logger.Info("Starting Orthanc test container")
	if _, stderr, err := c.Runner.Run(ctx, "docker", "compose", "-f", overridePath, "up", "-d", TestContainer); err != nil {
		return result, fmt.Errorf("docker compose up failed: %w: %s", err, strings.TrimSpace(stderr))
	}

	c.Logger.Info("Waiting for Orthanc to start or stop", "timeout", c.Timeout)
	result.State = c.poll(ctx)
	result.Logs = c.logs(ctx)

	switch result.State {
	case ContainerStarted:
		c.Logger.Info("Orthanc has started successfully inside the container")
		return result, nil
	case ContainerStopped:
		c.Logger.Error("orthanc_test container stopped unexpectedly", "logs", result.Logs)
		return result, fmt.Errorf("%s stopped unexpectedly", TestContainer)
	default:
		c.Logger.Error("Orthanc did not start within the timeout period", "logs", result.Logs)
		return result, fmt.Errorf("%s did not start within %s", TestContainer, c.Timeout)
	}
}

func (c *ContainerCheck) poll(ctx context.Context) ContainerState {
	deadline := time.Now().Add(c.Timeout)
	for time.Now().Before(deadline) {
		status, _, _ := c.Runner.Run(ctx, "docker", "ps", "--filter", "name="+TestContainer, "--format", "{{.Status}}")
		if strings.TrimSpace(status) == "" {
			return ContainerStopped
		}

		logs := c.logs(ctx)
		if strings.Contains(logs, StartedMarker) {
			return ContainerStarted
		}
		if strings.Contains(logs, StoppedMarker) {
			return ContainerStopped
		}

		select {
		case <-ctx.Done():
			return ContainerTimedOut
		case <-time.After(c.Interval):
		}
	}
	return ContainerTimedOut
}

func (c *ContainerCheck) logs(ctx context.Context) string {
	stdout, stderr, _ := c.Runner.Run(ctx, "docker", "logs", TestContainer)
	return stdout + stderr
}

func writeOverride(dir string, override map[string]any) (string, error) {
	data, err := yaml.Marshal(override)
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp(dir, "orthanc-test-*.yml")
	if err != nil {
		return "", fmt.Errorf("failed to create override file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("failed to write override file: %w", err)
	}
	return file.Name(), nil
}
