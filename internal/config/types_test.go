// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ColorScheme
		want  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"blue", false},
		{"DARK", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()

			got, errs := tt.value.IsValid()
			if got != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.value, got, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatal("expected validation errors")
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got %v", errs[0])
				}
			}
		})
	}
}

func TestColorScheme_GlamourStyle(t *testing.T) {
	t.Parallel()

	if got := ColorSchemeLight.GlamourStyle(); got != "light" {
		t.Errorf("light GlamourStyle() = %q", got)
	}
	if got := ColorSchemeAuto.GlamourStyle(); got != "dark" {
		t.Errorf("auto GlamourStyle() = %q", got)
	}
}

func TestCatalogSourcePath_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path CatalogSourcePath
		want bool
	}{
		{"units.cue", true},
		{"/etc/unitfold/imperial.json", true},
		{"units.toml", true},
		{"units.yaml", true},
		{"units.yml", true},
		{"units.txt", false},
		{"units", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.path), func(t *testing.T) {
			t.Parallel()

			got, errs := tt.path.IsValid()
			if got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidCatalogSource) {
				t.Errorf("error should wrap ErrInvalidCatalogSource, got %v", errs[0])
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig() should be valid, got %v", errs)
	}

	cfg := DefaultConfig()
	cfg.Output.Precision = 20
	cfg.Server.Port = 0
	cfg.UI.ColorScheme = "neon"
	cfg.Catalog.Sources = []CatalogSourcePath{"units.txt"}

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if len(errs) != 1 {
		t.Fatalf("expected a single aggregated error, got %d", len(errs))
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
	}
	if !errors.Is(cfgErr, ErrInvalidConfig) {
		t.Error("InvalidConfigError should wrap ErrInvalidConfig")
	}
	for _, sentinel := range []error{ErrInvalidOutputConfig, ErrInvalidServerConfig, ErrInvalidColorScheme, ErrInvalidCatalogSource} {
		if !errors.Is(errs[0], sentinel) {
			t.Errorf("aggregate error should match %v", sentinel)
		}
	}
	if len(cfgErr.FieldErrors) != 4 {
		t.Errorf("expected 4 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}

	var sawOutput, sawServer bool
	for _, fe := range cfgErr.FieldErrors {
		sawOutput = sawOutput || errors.Is(fe, ErrInvalidOutputConfig)
		sawServer = sawServer || errors.Is(fe, ErrInvalidServerConfig)
	}
	if !sawOutput || !sawServer {
		t.Errorf("missing section errors: output=%v server=%v", sawOutput, sawServer)
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	if got := DefaultConfig().Server.Addr(); got != "127.0.0.1:2323" {
		t.Errorf("Addr() = %q", got)
	}
}
