// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
)

type (
	// ValidationError represents one CUE validation failure with context.
	ValidationError struct {
		// FilePath is the file being validated.
		FilePath string

		// CUEPath is the JSON path to the invalid value (e.g., "units[3].base[0].pow").
		CUEPath string

		// Message is the validation error message.
		Message string
	}

	// ValidationErrors collects every failure reported by a single validation pass.
	ValidationErrors struct {
		FilePath string
		Errors   []*ValidationError
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		if ve.CUEPath != "" {
			lines = append(lines, ve.CUEPath+": "+ve.Message)
		} else {
			lines = append(lines, ve.Message)
		}
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(lines, "\n  "))
}

// Unwrap exposes the individual failures to errors.As.
func (e *ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ve := range e.Errors {
		errs[i] = ve
	}
	return errs
}

// FormatError converts a CUE error into a *ValidationError (one failure) or
// *ValidationErrors (several), with JSON-path prefixes for clear messages.
//
// Error format: <file-path>: <json-path>: <message>
//
// Examples:
//   - units.cue: units[4].base[1].pow: invalid value 0 (out of bound !=0)
//   - config.cue: output.precision: conflicting values 3 and "3"
//
// Non-CUE errors are wrapped with the file path and returned as-is.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	// cueerrors.Errors promotes plain errors, so check the chain first.
	var ce cueerrors.Error
	if !errors.As(err, &ce) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	cueErrs := cueerrors.Errors(err)

	out := make([]*ValidationError, 0, len(cueErrs))
	for _, e := range cueErrs {
		pathStr := formatPath(cueerrors.Path(e))
		msg := e.Error()

		// CUE sometimes includes the path in the message itself
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimPrefix(msg, pathStr)
			msg = strings.TrimPrefix(msg, ":")
			msg = strings.TrimSpace(msg)
		}

		out = append(out, &ValidationError{FilePath: filePath, CUEPath: pathStr, Message: msg})
	}

	if len(out) == 1 {
		return out[0]
	}
	return &ValidationErrors{FilePath: filePath, Errors: out}
}

// IsValidationError reports whether err carries at least one schema failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// formatPath converts a CUE error path to JSON-path notation.
// CUE reports paths as flat slices (["units", "0", "base"]) where numeric
// elements are list indices; the result reads "units[0].base".
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		isIndex := part != ""
		for _, c := range part {
			if c < '0' || c > '9' {
				isIndex = false
				break
			}
		}

		if isIndex && i > 0 {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
		} else {
			if i > 0 {
				result.WriteString(".")
			}
			result.WriteString(part)
		}
	}

	return result.String()
}

// CheckFileSize verifies that data does not exceed the specified maximum size.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
