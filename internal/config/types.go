// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unitfold/unitfold/pkg/catalog"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// MaxPrecision is the largest accepted output.precision.
	MaxPrecision = 15
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidCatalogSource is the sentinel error wrapped by InvalidCatalogSourceError.
	ErrInvalidCatalogSource = errors.New("invalid catalog source")
	// ErrInvalidOutputConfig is the sentinel error wrapped by InvalidOutputConfigError.
	ErrInvalidOutputConfig = errors.New("invalid output config")
	// ErrInvalidServerConfig is the sentinel error wrapped by InvalidServerConfigError.
	ErrInvalidServerConfig = errors.New("invalid server config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// CatalogSourcePath is a catalog file listed in catalog.sources.
	CatalogSourcePath string

	// InvalidCatalogSourceError is returned for a blank source path or one
	// whose extension names no catalog format.
	InvalidCatalogSourceError struct {
		Value CatalogSourcePath
	}

	// InvalidOutputConfigError is returned when an OutputConfig has invalid fields.
	InvalidOutputConfigError struct {
		FieldErrors []error
	}

	// InvalidServerConfigError is returned when a ServerConfig has invalid fields.
	InvalidServerConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sections.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`
		Output  OutputConfig  `json:"output" mapstructure:"output"`
		Server  ServerConfig  `json:"server" mapstructure:"server"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// CatalogConfig selects the unit catalog sources.
	CatalogConfig struct {
		// Builtin loads the embedded SI catalog first (default: true).
		Builtin bool `json:"builtin" mapstructure:"builtin"`
		// Sources lists extra catalog files, loaded after the builtin catalog.
		Sources []CatalogSourcePath `json:"sources" mapstructure:"sources"`
	}

	// OutputConfig controls how results are printed.
	OutputConfig struct {
		Precision           int     `json:"precision" mapstructure:"precision"`
		ScientificThreshold float64 `json:"scientific_threshold" mapstructure:"scientific_threshold"`
	}

	// ServerConfig configures the SSH calculator.
	ServerConfig struct {
		Host          string `json:"host" mapstructure:"host"`
		Port          int    `json:"port" mapstructure:"port"`
		MaxLineLength int    `json:"max_line_length" mapstructure:"max_line_length"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme selects the glamour style for issue pages.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle maps the scheme to a glamour style name. "auto" picks dark.
func (cs ColorScheme) GlamourStyle() string {
	if cs == ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// Error implements the error interface for InvalidCatalogSourceError.
func (e *InvalidCatalogSourceError) Error() string {
	return fmt.Sprintf("invalid catalog source %q: want a .cue, .json, .toml, .yaml or .yml file", e.Value)
}

// Unwrap returns ErrInvalidCatalogSource for errors.Is() compatibility.
func (e *InvalidCatalogSourceError) Unwrap() error { return ErrInvalidCatalogSource }

// String returns the string representation of the CatalogSourcePath.
func (p CatalogSourcePath) String() string { return string(p) }

// IsValid returns whether the path is non-blank and names a known format.
func (p CatalogSourcePath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCatalogSourceError{Value: p}}
	}
	if _, err := catalog.FormatFromPath(string(p)); err != nil {
		return false, []error{&InvalidCatalogSourceError{Value: p}}
	}
	return true, nil
}

// IsValid returns whether every source path is valid.
func (c CatalogConfig) IsValid() (bool, []error) {
	var errs []error
	for _, src := range c.Sources {
		if valid, fieldErrs := src.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	return len(errs) == 0, errs
}

// Paths returns the sources as plain strings.
func (c CatalogConfig) Paths() []string {
	paths := make([]string, len(c.Sources))
	for i, src := range c.Sources {
		paths[i] = string(src)
	}
	return paths
}

// IsValid returns whether precision is in [0, MaxPrecision] and the
// threshold is positive.
func (c OutputConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Precision < 0 || c.Precision > MaxPrecision {
		errs = append(errs, fmt.Errorf("precision %d out of range [0, %d]", c.Precision, MaxPrecision))
	}
	if c.ScientificThreshold <= 0 {
		errs = append(errs, fmt.Errorf("scientific_threshold must be positive, got %g", c.ScientificThreshold))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidOutputConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputConfigError.
func (e *InvalidOutputConfigError) Error() string {
	return "invalid output config: " + errors.Join(e.FieldErrors...).Error()
}

// Unwrap returns ErrInvalidOutputConfig for errors.Is() compatibility.
func (e *InvalidOutputConfigError) Unwrap() error { return ErrInvalidOutputConfig }

// Addr returns "host:port".
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsValid returns whether host is set and port and line length are in range.
func (c ServerConfig) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.Host) == "" {
		errs = append(errs, errors.New("host must not be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range [1, 65535]", c.Port))
	}
	if c.MaxLineLength < 16 {
		errs = append(errs, fmt.Errorf("max_line_length %d below 16", c.MaxLineLength))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidServerConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidServerConfigError.
func (e *InvalidServerConfigError) Error() string {
	return "invalid server config: " + errors.Join(e.FieldErrors...).Error()
}

// Unwrap returns ErrInvalidServerConfig for errors.Is() compatibility.
func (e *InvalidServerConfigError) Unwrap() error { return ErrInvalidServerConfig }

// IsValid returns whether the Config has valid fields in every section.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, check := range []func() (bool, []error){
		c.Catalog.IsValid,
		c.Output.IsValid,
		c.Server.IsValid,
		c.UI.ColorScheme.IsValid,
	} {
		if valid, fieldErrs := check(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return "invalid config: " + e.FieldErrors[0].Error()
	}
	return fmt.Sprintf("invalid config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig followed by the section errors, so
// errors.Is() matches both the aggregate and the failing section.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Builtin: true,
			Sources: []CatalogSourcePath{},
		},
		Output: OutputConfig{
			Precision:           3,
			ScientificThreshold: 1000,
		},
		Server: ServerConfig{
			Host:          "127.0.0.1",
			Port:          2323,
			MaxLineLength: 1024,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
