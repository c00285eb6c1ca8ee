// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncodeDecode_AllFormats(t *testing.T) {
	r := Default()
	r.TestSets = "eval1 eval2"
	r.ASRConfig = `conf/"quoted".yaml`

	for _, format := range []Format{FormatCUE, FormatTOML, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(r, format)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			got, err := Decode(data, format, Recipe{}, "recipe."+string(format))
			if err != nil {
				t.Fatalf("Decode() error = %v\n%s", err, data)
			}
			if got != r {
				t.Errorf("Decode(Encode(r)) = %+v, want %+v", got, r)
			}
		})
	}
}

func TestEncode_FieldOrder(t *testing.T) {
	data, err := Encode(Default(), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	prev := -1
	for _, key := range Keys() {
		idx := strings.Index(text, key+" =")
		if idx < 0 {
			t.Fatalf("key %s missing from TOML:\n%s", key, text)
		}
		if idx < prev {
			t.Errorf("key %s out of order in TOML:\n%s", key, text)
		}
		prev = idx
	}
}

func TestDecode_Overlay(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"cue", FormatCUE, `train_set: "train_fullset"`},
		{"toml", FormatTOML, `train_set = "train_fullset"`},
		{"yaml", FormatYAML, `train_set: train_fullset`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data), tt.format, Default(), "recipe")
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if got.TrainSet != "train_fullset" {
				t.Errorf("TrainSet = %q", got.TrainSet)
			}
			if got.ValidSet != Default().ValidSet {
				t.Errorf("absent keys must keep base values, ValidSet = %q", got.ValidSet)
			}
		})
	}
}

func TestDecode_YAMLScalarsStayVerbatim(t *testing.T) {
	got, err := Decode([]byte("ngpu: 4\nspeed_perturb_factors: 1.0\n"), FormatYAML, Default(), "r.yaml")
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.NGPU != "4" || got.SpeedPerturbFactors != "1.0" {
		t.Errorf("scalars not kept verbatim: ngpu=%q factors=%q", got.NGPU, got.SpeedPerturbFactors)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		format  Format
		data    string
		wantErr error
	}{
		{"toml unknown key", FormatTOML, `batch_size = "32"`, ErrUnknownField},
		{"yaml unknown key", FormatYAML, `batch_size: "32"`, ErrUnknownField},
		{"toml non-string", FormatTOML, `ngpu = 1`, ErrInvalidValue},
		{"cue unknown key", FormatCUE, `batch_size: "32"`, nil},
		{"cue non-string", FormatCUE, `ngpu: 1`, nil},
		{"toml syntax", FormatTOML, `ngpu = `, nil},
		{"unsupported format", Format("json"), `{}`, ErrUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format, Default(), "recipe")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"recipe.cue", FormatCUE, false},
		{"conf/recipe.toml", FormatTOML, false},
		{"recipe.yaml", FormatYAML, false},
		{"recipe.YML", FormatYAML, false},
		{"recipe.json", "", true},
		{"recipe", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipe.toml")
	if err := os.WriteFile(path, []byte("valid_set = \"dev\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path, Default())
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got.ValidSet != "dev" {
		t.Errorf("ValidSet = %q, want dev", got.ValidSet)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.toml"), Default()); err == nil {
		t.Error("expected error for missing file")
	}
}
