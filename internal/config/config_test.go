package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/dig/internal/exit"
)

func TestParse(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "source.json")
	target := filepath.Join(tempDir, "target.yaml")

	if err := os.WriteFile(source, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("a: '***'"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		want    *Config
		wantErr bool
	}{
		{
			name: "find_defaults",
			args: []string{"dig", "find", target},
			want: &Config{
				Command: CommandFind,
				Files:   []string{target},
				Marker:  "***",
				Output:  OutputText,
			},
		},
		{
			name: "dig_with_options",
			args: []string{"dig", "-marker", "*", "-output", "JSON", "-pretty", "-debug", "dig", source, target},
			want: &Config{
				Command: CommandDig,
				Files:   []string{source, target},
				Marker:  "*",
				Output:  OutputJSON,
				Pretty:  true,
				Debug:   true,
			},
		},
		{
			name: "select_with_path",
			args: []string{"dig", "-path", "$.a", "select", source},
			want: &Config{
				Command: CommandSelect,
				Files:   []string{source},
				Marker:  "***",
				Path:    "$.a",
				Output:  OutputText,
			},
		},
		{
			name:    "no_command",
			args:    []string{"dig"},
			wantErr: true,
		},
		{
			name:    "unknown_command",
			args:    []string{"dig", "explode", source},
			wantErr: true,
		},
		{
			name:    "dig_needs_two_files",
			args:    []string{"dig", "dig", source},
			wantErr: true,
		},
		{
			name:    "mark_needs_path",
			args:    []string{"dig", "mark", source},
			wantErr: true,
		},
		{
			name:    "missing_file",
			args:    []string{"dig", "find", filepath.Join(tempDir, "nope.json")},
			wantErr: true,
		},
		{
			name:    "empty_marker",
			args:    []string{"dig", "-marker", "", "find", target},
			wantErr: true,
		},
		{
			name:    "unknown_output",
			args:    []string{"dig", "-output", "xml", "find", target},
			wantErr: true,
		},
		{
			name:    "marker_conflict",
			args:    []string{"dig", "-marker", "*", "-unique-marker", "-path", "$.a", "mark", source},
			wantErr: true,
		},
		{
			name:    "unique_marker_with_find",
			args:    []string{"dig", "-unique-marker", "find", target},
			wantErr: true,
		},
		{
			name:    "unique_marker_with_dig",
			args:    []string{"dig", "-unique-marker", "dig", source, target},
			wantErr: true,
		},
		{
			name:    "unknown_flag",
			args:    []string{"dig", "-nope", "find", target},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, result := Parse(tt.args)
			if tt.wantErr {
				if result == nil || result.ExitCode != exit.CodeError {
					t.Fatalf("Parse() result = %+v, want error", result)
				}
				if !strings.Contains(result.Message, "Usage:") {
					t.Errorf("error message should include usage: %q", result.Message)
				}
				return
			}
			if result != nil {
				t.Fatalf("Parse() unexpected result: %s", result.Message)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseNoArguments(t *testing.T) {
	_, result := Parse(nil)
	if result == nil || result.ExitCode != exit.CodeError {
		t.Fatalf("Parse(nil) = %+v", result)
	}
}

func TestParseHelp(t *testing.T) {
	_, result := Parse([]string{"dig", "-h"})
	if result == nil || result.ExitCode != exit.CodeOK {
		t.Fatalf("Parse(-h) = %+v", result)
	}
	if result.Message != Usage() {
		t.Error("help should print usage")
	}
}

func TestParseUniqueMarker(t *testing.T) {
	source := filepath.Join(t.TempDir(), "source.json")
	if err := os.WriteFile(source, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, result := Parse([]string{"dig", "-unique-marker", "-path", "$.a", "mark", source})
	if result != nil {
		t.Fatalf("Parse() unexpected result: %s", result.Message)
	}
	if !cfg.UniqueMarker || cfg.Marker == "***" || !strings.HasPrefix(cfg.Marker, "*") {
		t.Errorf("Marker = %q, want a generated marker", cfg.Marker)
	}
}

func TestValidateUniqueMarkerCommand(t *testing.T) {
	source := filepath.Join(t.TempDir(), "source.json")
	if err := os.WriteFile(source, []byte(`{"a":1}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		command string
		path    string
		wantErr bool
	}{
		{command: CommandMark, path: "$.a"},
		{command: CommandFind, wantErr: true},
		{command: CommandLocate, wantErr: true},
		{command: CommandCount, wantErr: true},
		{command: CommandSelect, path: "$.a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			cfg := &Config{
				Command:      tt.command,
				Files:        []string{source},
				Marker:       "*generated*",
				UniqueMarker: true,
				Path:         tt.path,
				Output:       OutputText,
			}
			err := cfg.Validate()
			if tt.wantErr != errors.Is(err, ErrUniqueMarkerCommand) {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}
