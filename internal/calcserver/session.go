// SPDX-License-Identifier: MPL-2.0

package calcserver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/unitfold/unitfold/pkg/interpreter"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"golang.org/x/term"
)

const prompt = "unitfold> "

// ErrLineTooLong is the sentinel error wrapped by LineTooLongError.
var ErrLineTooLong = errors.New("line too long")

// LineTooLongError is returned for a statement longer than Config.MaxLineLength.
type LineTooLongError struct {
	Length int
	Max    int
}

// Error implements the error interface.
func (e *LineTooLongError) Error() string {
	if e.Length <= 0 {
		return fmt.Sprintf("line exceeds %d bytes", e.Max)
	}
	return fmt.Sprintf("line of %d bytes exceeds %d", e.Length, e.Max)
}

// Unwrap returns ErrLineTooLong for errors.Is() compatibility.
func (e *LineTooLongError) Unwrap() error { return ErrLineTooLong }

// sessionMiddleware owns the session and does not call next.
func (s *Server) sessionMiddleware() wish.Middleware {
	return func(ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			s.active.Add(1)
			defer s.active.Add(-1)

			in := interpreter.New(s.catalog, interpreter.WithFormatter(s.cfg.Formatter))

			if cmd := strings.TrimSpace(sess.RawCommand()); cmd != "" {
				_ = sess.Exit(s.runCommand(sess, in, cmd)) //nolint:errcheck // Terminal operation; error non-critical
				return
			}

			if _, _, isPty := sess.Pty(); isPty {
				_ = sess.Exit(s.runTerminal(sess, in)) //nolint:errcheck // Terminal operation; error non-critical
				return
			}
			_ = sess.Exit(s.runLines(sess, in)) //nolint:errcheck // Terminal operation; error non-critical
		}
	}
}

// runCommand evaluates a single statement passed on the ssh command line.
func (s *Server) runCommand(sess ssh.Session, in *interpreter.Interpreter, line string) int {
	out, err := s.eval(in, line)
	if err != nil {
		wish.Errorf(sess, "error: %v\n", err)
		return 1
	}
	wish.Println(sess, out)
	return 0
}

// runLines reads statements from a session without a PTY, one per line.
// Errors go to stderr and evaluation continues; the exit status is 1 if any
// statement failed.
func (s *Server) runLines(sess ssh.Session, in *interpreter.Interpreter) int {
	scanner := bufio.NewScanner(sess)
	scanner.Buffer(make([]byte, 0, 256), s.cfg.MaxLineLength+1)

	status := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isQuit(line) {
			break
		}
		out, err := s.eval(in, line)
		if err != nil {
			wish.Errorf(sess, "error: %v\n", err)
			status = 1
			continue
		}
		wish.Println(sess, out)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			err = &LineTooLongError{Max: s.cfg.MaxLineLength}
		}
		wish.Errorf(sess, "error: %v\n", err)
		return 1
	}
	return status
}

// runTerminal drives a PTY session through an x/term line editor, which
// echoes input and handles history.
func (s *Server) runTerminal(sess ssh.Session, in *interpreter.Interpreter) int {
	t := term.NewTerminal(sess, prompt)
	if pty, winCh, ok := sess.Pty(); ok {
		_ = t.SetSize(pty.Window.Width, pty.Window.Height) //nolint:errcheck // Cosmetic
		go func() {
			for win := range winCh {
				_ = t.SetSize(win.Width, win.Height) //nolint:errcheck // Cosmetic
			}
		}()
	}

	for {
		line, err := t.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0
			}
			return 1
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isQuit(line) {
			return 0
		}
		out, err := s.eval(in, line)
		if err != nil {
			fmt.Fprintf(t, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(t, out)
	}
}

// eval runs one statement. Conversions print "<src> = <value> <dst>";
// decompositions print the base-unit form and become the session state.
func (s *Server) eval(in *interpreter.Interpreter, line string) (string, error) {
	if len(line) > s.cfg.MaxLineLength {
		return "", &LineTooLongError{Length: len(line), Max: s.cfg.MaxLineLength}
	}
	res, err := in.Eval(line)
	if err != nil {
		s.logger.Debug("statement failed", "statement", line, "error", err)
		return "", err
	}
	s.evaluated.Add(1)
	return res.String(), nil
}

func isQuit(line string) bool {
	return line == "exit" || line == "quit"
}
