package instances

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/metrics"
)

const (
	defaultBinary        = "chaos-proxy"
	defaultManageTimeout = 2 * time.Minute
	defaultQueryTimeout  = 30 * time.Second
	envBinary            = "CHAOS_CLI_BIN"
	envManageTimeout     = "CHAOS_CLI_MANAGE_TIMEOUT"
)

// CLIClient shells out to the chaos-proxy CLI for instance lifecycle
// operations. Management commands (create, delete) can take minutes on the
// remote side; queries are bounded much tighter.
type CLIClient struct {
	binary        string
	manageTimeout time.Duration
	queryTimeout  time.Duration
	logger        *logging.Logger
}

// Config holds configuration for the chaos CLI client
type Config struct {
	Binary        string
	ManageTimeout time.Duration
	QueryTimeout  time.Duration
	Logger        *logging.Logger
}

// NewCLIClient creates a chaos CLI client with the provided configuration
func NewCLIClient(cfg *Config) *CLIClient {
	if cfg == nil {
		cfg = &Config{}
	}

	binary := cfg.Binary
	if binary == "" {
		binary = os.Getenv(envBinary)
	}
	if binary == "" {
		binary = defaultBinary
	}

	manageTimeout := cfg.ManageTimeout
	if manageTimeout == 0 {
		if envTimeoutStr := os.Getenv(envManageTimeout); envTimeoutStr != "" {
			if seconds, err := strconv.Atoi(envTimeoutStr); err == nil && seconds > 0 {
				manageTimeout = time.Duration(seconds) * time.Second
			}
		}
	}
	if manageTimeout == 0 {
		manageTimeout = defaultManageTimeout
	}

	queryTimeout := cfg.QueryTimeout
	if queryTimeout == 0 {
		queryTimeout = defaultQueryTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.New(logging.INFO, "[chaos-cli]")
	}

	return &CLIClient{
		binary:        binary,
		manageTimeout: manageTimeout,
		queryTimeout:  queryTimeout,
		logger:        logger,
	}
}

// List returns all remote instances
func (c *CLIClient) List(ctx context.Context) ([]Instance, error) {
	out, err := c.run(ctx, c.queryTimeout, "list", "-o", "json")
	metrics.RecordInstanceCommand("list", err)
	c.logger.LogInstanceCommand("list", "", err)
	if err != nil {
		return nil, err
	}

	var result []Instance
	if err := json.Unmarshal(out, &result); err != nil {
		return nil, fmt.Errorf("failed to parse chaos CLI list output: %w", err)
	}
	return result, nil
}

// Create provisions a new instance. Remote provisioning is slow; this call
// is bounded by the management timeout (~2 minutes).
func (c *CLIClient) Create(ctx context.Context, name string, statefulMode bool) (Instance, error) {
	args := []string{"create", name, "-o", "json"}
	if statefulMode {
		args = append(args, "--stateful")
	}

	out, err := c.run(ctx, c.manageTimeout, args...)
	metrics.RecordInstanceCommand("create", err)
	c.logger.LogInstanceCommand("create", name, err)
	if err != nil {
		return Instance{}, err
	}

	var result Instance
	if err := json.Unmarshal(out, &result); err != nil {
		return Instance{}, fmt.Errorf("failed to parse chaos CLI create output: %w", err)
	}
	return result, nil
}

// Delete removes an instance by name
func (c *CLIClient) Delete(ctx context.Context, name string) error {
	_, err := c.run(ctx, c.manageTimeout, "delete", name)
	metrics.RecordInstanceCommand("delete", err)
	c.logger.LogInstanceCommand("delete", name, err)
	return err
}

// Describe returns the details of one instance by name
func (c *CLIClient) Describe(ctx context.Context, name string) (Instance, error) {
	out, err := c.run(ctx, c.queryTimeout, "describe", name, "-o", "json")
	metrics.RecordInstanceCommand("describe", err)
	c.logger.LogInstanceCommand("describe", name, err)
	if err != nil {
		return Instance{}, err
	}

	var result Instance
	if err := json.Unmarshal(out, &result); err != nil {
		return Instance{}, fmt.Errorf("failed to parse chaos CLI describe output: %w", err)
	}
	return result, nil
}

// run executes one CLI command with a bounded timeout. On failure the CLI's
// stderr is included verbatim so the caller sees the collaborator's message.
func (c *CLIClient) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("chaos CLI %s timed out after %s", args[0], timeout)
		}
		msg := bytes.TrimSpace(stderr.Bytes())
		if len(msg) > 0 {
			return nil, fmt.Errorf("chaos CLI %s failed: %s", args[0], msg)
		}
		return nil, fmt.Errorf("chaos CLI %s failed: %w", args[0], err)
	}
	return stdout.Bytes(), nil
}
