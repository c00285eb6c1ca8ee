// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "ASRRUN_TESTUTIL_VAR"
	restore := MustUnsetenv(t, key)
	defer restore()

	cleanup := MustSetenv(t, key, "value")
	if got := os.Getenv(key); got != "value" {
		t.Errorf("%s = %q, want value", key, got)
	}

	cleanup()
	if _, ok := os.LookupEnv(key); ok {
		t.Errorf("%s should be unset after cleanup", key)
	}
}

func TestSetConfigHome(t *testing.T) {
	dir := t.TempDir()
	t.Run("subtest", func(t *testing.T) {
		t.Cleanup(SetConfigHome(t, dir))

		var found bool
		for _, key := range []string{"XDG_CONFIG_HOME", "HOME", "APPDATA"} {
			if os.Getenv(key) == dir {
				found = true
			}
		}
		if !found {
			t.Error("SetConfigHome did not set any config root variable")
		}
	})
}

func TestMustWriteFile_CreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data", "train", "text")
	MustWriteFile(t, path, "utt1 こんにちは\n")

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "utt1 こんにちは\n" {
		t.Errorf("content = %q", got)
	}
}

func TestWriteStubPipeline(t *testing.T) {
	t.Parallel()
	SkipOnWindows(t)

	path := WriteStubPipeline(t, t.TempDir(), EchoExitScript(3))

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("stub pipeline is not executable: %v", info.Mode())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "#!/bin/sh\n") || !strings.HasSuffix(string(content), "exit 3\n") {
		t.Errorf("unexpected stub content:\n%s", content)
	}
}
