// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps documents read from disk (5 MiB). Catalog and
// config files are user-supplied.
const DefaultMaxFileSize int64 = 5 << 20

type (
	// Option tunes a single decode call.
	Option func(*settings)

	settings struct {
		name    string
		maxSize int64
		partial bool
	}
)

func newSettings(opts []Option) settings {
	s := settings{maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// displayName is the name used in positions and error messages.
func (s settings) displayName() string {
	if s.name == "" {
		return "<input>"
	}
	return s.name
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(s *settings) { s.maxSize = size }
}

// WithPartial accepts documents whose result is not fully concrete. Config
// files use it: every field is optional and unset ones fall back to defaults.
func WithPartial() Option {
	return func(s *settings) { s.partial = true }
}
