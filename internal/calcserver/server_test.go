// SPDX-License-Identifier: MPL-2.0

package calcserver

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/unitfold/unitfold/internal/testutil"
	"github.com/unitfold/unitfold/pkg/catalog"
	"github.com/unitfold/unitfold/pkg/interpreter"

	"github.com/charmbracelet/log"
	gossh "golang.org/x/crypto/ssh"
)

func startServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()

	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("catalog.Builtin() returned error: %v", err)
	}

	cfg := DefaultConfig()
	cfg.ShutdownTimeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	srv, err := New(cat, cfg, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}
	t.Cleanup(testutil.DeferStop(t, srv))
	return srv
}

func dial(t *testing.T, srv *Server) *gossh.Client {
	t.Helper()

	client, err := gossh.Dial("tcp", srv.Address(), &gossh.ClientConfig{
		User:            "calc",
		HostKeyCallback: gossh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("ssh dial %s: %v", srv.Address(), err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func runCommand(t *testing.T, client *gossh.Client, cmd string) (stdout, stderr string, err error) {
	t.Helper()

	sess, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession() returned error: %v", err)
	}
	defer func() { _ = sess.Close() }()

	var out, errOut bytes.Buffer
	sess.Stdout = &out
	sess.Stderr = &errOut
	err = sess.Run(cmd)
	return out.String(), errOut.String(), err
}

func exitStatus(t *testing.T, err error) int {
	t.Helper()

	if err == nil {
		return 0
	}
	var exitErr *gossh.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ssh.ExitError, got %T: %v", err, err)
	}
	return exitErr.ExitStatus()
}

func TestServerStartStop(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(cat, DefaultConfig(), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}

	if srv.State() != StateCreated {
		t.Errorf("State should be Created, got %s", srv.State())
	}
	if srv.Address() != "" || srv.Port() != 0 {
		t.Error("address should be empty before Start()")
	}

	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("Start() returned error: %v", err)
	}
	if !srv.IsRunning() {
		t.Errorf("State should be Running, got %s", srv.State())
	}
	if srv.Port() == 0 {
		t.Error("port should be assigned")
	}

	if err := srv.Stop(); err != nil {
		t.Fatalf("Stop() returned error: %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}

	// Second Stop is a no-op and the error channel is closed.
	if err := srv.Stop(); err != nil {
		t.Errorf("second Stop() returned error: %v", err)
	}
	if _, ok := <-srv.Err(); ok {
		t.Error("Err() channel should be closed after Stop()")
	}
	if err := srv.Wait(); err != nil {
		t.Errorf("Wait() after Stop() = %v", err)
	}
}

func TestServerDoubleStart(t *testing.T) {
	t.Parallel()

	srv := startServer(t, nil)
	if err := srv.Start(context.Background()); err == nil {
		t.Error("second Start() should fail")
	}
}

func TestServerStartWithCanceledContext(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(cat, DefaultConfig(), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := srv.Start(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Start() error = %v, want context.Canceled", err)
	}
	if srv.State() != StateFailed {
		t.Errorf("State should be Failed, got %s", srv.State())
	}
	if !errors.Is(srv.Wait(), context.Canceled) {
		t.Errorf("Wait() should return the failure cause, got %v", srv.Wait())
	}
}

func TestServerStartWithUsedPort(t *testing.T) {
	t.Parallel()

	first := startServer(t, nil)

	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Port = first.Port()
	second, err := New(cat, cfg, WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatal(err)
	}

	if err := second.Start(context.Background()); err == nil {
		_ = second.Stop()
		t.Fatal("Start() on a used port should fail")
	}
	if second.State() != StateFailed {
		t.Errorf("State should be Failed, got %s", second.State())
	}
}

func TestStopWithoutStart(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(cat, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop() without Start() returned error: %v", err)
	}
	if srv.State() != StateStopped {
		t.Errorf("State should be Stopped, got %s", srv.State())
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Port = 70000
	cfg.MaxLineLength = -1

	_, err := New(nil, cfg)
	if !errors.Is(err, ErrInvalidServerConfig) {
		t.Fatalf("expected ErrInvalidServerConfig, got %v", err)
	}
	var cfgErr *InvalidServerConfigError
	if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %v", err)
	}
}

func TestCommandSession(t *testing.T) {
	t.Parallel()

	srv := startServer(t, nil)
	client := dial(t, srv)

	tests := []struct {
		name       string
		cmd        string
		wantOut    string
		wantErr    string
		wantStatus int
	}{
		{"conversion", "1 км/ч=>м/с", "1 км/ч = 0.278 м/с\n", "", 0},
		{"decomposition", "к_Па", "1000.000 [кг^1 * м^-1 * с^-2]\n", "", 0},
		{"unknown unit", "1 парсек=>м", "", "unit парсек not found", 1},
		{"not coherent", "1 м=>с", "", "units not coherent", 1},
		{"syntax error", "1 м/с/с=>м", "", "error:", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := runCommand(t, client, tt.cmd)
			if got := exitStatus(t, err); got != tt.wantStatus {
				t.Errorf("exit status = %d, want %d (stderr %q)", got, tt.wantStatus, stderr)
			}
			if stdout != tt.wantOut {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantOut)
			}
			if tt.wantErr != "" && !strings.Contains(stderr, tt.wantErr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.wantErr)
			}
		})
	}

	if srv.Evaluated() != 2 {
		t.Errorf("Evaluated() = %d, want 2", srv.Evaluated())
	}
}

func TestCommandSession_LineTooLong(t *testing.T) {
	t.Parallel()

	srv := startServer(t, func(c *Config) { c.MaxLineLength = 16 })
	client := dial(t, srv)

	_, stderr, err := runCommand(t, client, "1 к_м^2*мк_м/с^2=>м^3/с^2")
	if got := exitStatus(t, err); got != 1 {
		t.Errorf("exit status = %d, want 1", got)
	}
	if !strings.Contains(stderr, "exceeds 16") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestShellSession(t *testing.T) {
	t.Parallel()

	srv := startServer(t, func(c *Config) {
		c.Formatter = interpreter.Formatter{Precision: 1, ScientificThreshold: 1e6}
	})
	client := dial(t, srv)

	sess, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sess.Close() }()

	var out, errOut bytes.Buffer
	sess.Stdout = &out
	sess.Stderr = &errOut
	stdin, err := sess.StdinPipe()
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.Shell(); err != nil {
		t.Fatal(err)
	}

	_, _ = io.WriteString(stdin, "1 сут=>с\n\nфут\n1 м=>кг\nexit\n1 км=>м\n")
	_ = stdin.Close()

	// A failed statement marks the session, but lines after it still run.
	if got := exitStatus(t, sess.Wait()); got != 1 {
		t.Errorf("exit status = %d, want 1", got)
	}

	want := "1 сут = 86400.0 с\n0.3 [м^1]\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	if !strings.Contains(errOut.String(), "units not coherent") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestShellSession_CleanExit(t *testing.T) {
	t.Parallel()

	srv := startServer(t, nil)
	client := dial(t, srv)

	sess, err := client.NewSession()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = sess.Close() }()

	var out bytes.Buffer
	sess.Stdout = &out
	sess.Stdin = strings.NewReader("1 ч=>мин\n")
	if err := sess.Shell(); err != nil {
		t.Fatal(err)
	}
	if err := sess.Wait(); err != nil {
		t.Fatalf("Wait() = %v, want clean exit", err)
	}
	if out.String() != "1 ч = 60.000 мин\n" {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	srv := startServer(t, nil)
	a := dial(t, srv)
	b := dial(t, srv)

	if _, _, err := runCommand(t, a, "к_м"); err != nil {
		t.Fatalf("decomposition on a: %v", err)
	}
	// Each session starts from a fresh interpreter, so b sees no state from a.
	stdout, _, err := runCommand(t, b, "1 мин=>с")
	if err != nil {
		t.Fatalf("conversion on b: %v", err)
	}
	if stdout != "1 мин = 60.000 с\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateCreated, "created"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{StateFailed, "failed"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}

	if err := State(42).Validate(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Validate() = %v, want ErrInvalidState", err)
	}
	if !StateFailed.IsTerminal() || StateRunning.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}
}

func TestIsClosedConnError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("something"), false},
		{"closed conn OpError", &net.OpError{Op: "accept", Err: net.ErrClosed}, true},
		{"different OpError", &net.OpError{Op: "read", Err: errors.New("different error")}, false},
	}
	for _, tt := range tests {
		if got := isClosedConnError(tt.err); got != tt.want {
			t.Errorf("%s: isClosedConnError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
