// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "dir", "units.cue")
	MustWriteFile(t, path, `units: []`)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `units: []` {
		t.Errorf("content = %q", data)
	}
}

func TestMustSetenvRestores(t *testing.T) {
	const key = "UNITFOLD_TESTUTIL_PROBE"

	t.Run("unset before", func(t *testing.T) {
		t.Cleanup(MustUnsetenv(t, key))
		restore := MustSetenv(t, key, "1")
		if got := os.Getenv(key); got != "1" {
			t.Errorf("%s = %q, want 1", key, got)
		}
		restore()
		if _, ok := os.LookupEnv(key); ok {
			t.Errorf("%s still set after restore", key)
		}
	})

	t.Run("set before", func(t *testing.T) {
		t.Cleanup(MustSetenv(t, key, "orig"))
		MustUnsetenv(t, key)()
		if got := os.Getenv(key); got != "orig" {
			t.Errorf("%s = %q, want orig", key, got)
		}
	})
}

func TestMustChdir(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	before, _ := os.Getwd()

	restore := MustChdir(t, dir)
	if wd, _ := os.Getwd(); wd != dir {
		t.Errorf("Getwd() = %q, want %q", wd, dir)
	}
	restore()
	if wd, _ := os.Getwd(); wd != before {
		t.Errorf("Getwd() after restore = %q, want %q", wd, before)
	}
}

func TestSetHomeDir(t *testing.T) {
	key := homeEnvVar()
	original, had := os.LookupEnv(key)
	dir := t.TempDir()

	restore := SetHomeDir(t, dir)
	if got := os.Getenv(key); got != dir {
		t.Errorf("%s = %q, want %q", key, got, dir)
	}
	if home, err := os.UserHomeDir(); err != nil || home != dir {
		t.Errorf("os.UserHomeDir() = %q, %v; want %q", home, err, dir)
	}

	restore()
	got, ok := os.LookupEnv(key)
	if ok != had || got != original {
		t.Errorf("after restore %s = %q (set=%v), want %q (set=%v)", key, got, ok, original, had)
	}
}
