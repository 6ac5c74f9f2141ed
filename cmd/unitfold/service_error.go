// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/unitfold/unitfold/internal/issue"
	"github.com/unitfold/unitfold/pkg/catalog"
	"github.com/unitfold/unitfold/pkg/cueutil"
	"github.com/unitfold/unitfold/pkg/interpreter"
	"github.com/unitfold/unitfold/pkg/parser"
	"github.com/unitfold/unitfold/pkg/units"
)

// ServiceError is an error that carries optional rendering information for
// the CLI layer. When the CLI layer receives a ServiceError, it renders the
// styled error message (if present) before the issue help page.
// Always create via newServiceError to enforce the Err-must-be-non-nil invariant.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
	// StyledMessage is the optional pre-rendered styled error text.
	StyledMessage string
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{
		Err:           err,
		IssueID:       issueID,
		StyledMessage: styledMessage,
	}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError maps a failure to its issue page. Errors that already carry
// an ID, in a ServiceError or an ActionableError, keep it.
func classifyError(err error) issue.Id {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.IssueID != 0 {
		return svcErr.IssueID
	}
	if id := issue.IssueOf(err); id != 0 {
		return id
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return issue.FileNotFoundId
	case errors.Is(err, units.ErrNoUnit):
		return issue.UnitNotFoundId
	case errors.Is(err, units.ErrNoUnitPrefix):
		return issue.PrefixNotFoundId
	case errors.Is(err, units.ErrNotCoherent):
		return issue.UnitsNotCoherentId
	case parser.IsSyntaxError(err), errors.Is(err, interpreter.ErrStatementKind):
		return issue.SyntaxErrorId
	case errors.Is(err, catalog.ErrDefinitionCycle):
		return issue.CatalogCycleId
	case isCatalogError(err):
		return issue.CatalogLoadFailedId
	default:
		return 0
	}
}

func isCatalogError(err error) bool {
	for _, sentinel := range []error{
		catalog.ErrEmptyTag,
		catalog.ErrCompositeMultiplier,
		catalog.ErrDuplicateTag,
		catalog.ErrUndefinedReference,
		catalog.ErrInvalidPrefix,
		catalog.ErrUnsupportedFormat,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return cueutil.IsValidationError(err)
}

// isEvaluationIssue reports issues caused by a single statement rather than
// by the environment. Their help pages are shown in verbose mode only.
func isEvaluationIssue(id issue.Id) bool {
	switch id {
	case issue.UnitNotFoundId, issue.PrefixNotFoundId, issue.UnitsNotCoherentId, issue.SyntaxErrorId:
		return true
	default:
		return false
	}
}

// renderServiceError renders a ServiceError in the CLI layer.
// It prints any styled message first, then the optional issue help section.
func renderServiceError(stderr io.Writer, svcErr *ServiceError, style string) {
	if svcErr == nil {
		return
	}

	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}

	if svcErr.IssueID == 0 {
		return
	}

	if catalogEntry := issue.Get(svcErr.IssueID); catalogEntry != nil {
		rendered, renderErr := catalogEntry.Render(style)
		if renderErr != nil {
			slog.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", renderErr)
		} else {
			fmt.Fprint(stderr, rendered)
		}
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors list their suggestions; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
