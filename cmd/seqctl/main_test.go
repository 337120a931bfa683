package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/collection/errors"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	def := `
name: uniq
steps:
  - op: distinct
  - op: sort
  - op: normalize
`
	if err := os.WriteFile(filepath.Join(dir, "uniq.yaml"), []byte(def), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"json", []string{"--definition", "uniq"}, "b\na\nb\n", "[\"a\",\"b\"]\n"},
		{"implode", []string{"--definition", "uniq", "--output", "implode", "--sep", "+"}, "b\na\nb\n", "a+b\n"},
		{"count", []string{"--output", "count"}, "b\na\nb\n", "3\n"},
		{"chars", []string{"--mode", "chars", "--output", "implode", "--sep", "."}, "abc", "a.b.c\n"},
		{"no definition", nil, "x\ny", "[\"x\",\"y\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			args := append([]string{"--dir", dir, "--logging-level", "disabled"}, tt.args...)
			if err := run(context.Background(), args, strings.NewReader(tt.input), &out, io.Discard); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("got %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestRun_InputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	err := run(context.Background(), []string{"--input", path, "--output", "count"}, strings.NewReader(""), &out, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if out.String() != "2\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRun_EnvPrefix(t *testing.T) {
	t.Setenv("SEQCTL_OUTPUT", "count")
	var out bytes.Buffer
	if err := run(context.Background(), nil, strings.NewReader("a\nb\nc"), &out, io.Discard); err != nil {
		t.Fatal(err)
	}
	if out.String() != "3\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(error) bool
	}{
		{"unknown definition", []string{"--definition", "nope", "--dir", "."}, func(err error) bool {
			return errors.IsCode(err, errors.ErrCodeNotFound)
		}},
		{"bad mode", []string{"--mode", "words"}, func(err error) bool {
			return errors.IsConfiguration(err)
		}},
		{"bad output", []string{"--output", "xml"}, func(err error) bool {
			return errors.IsConfiguration(err)
		}},
		{"bad flag", []string{"--bogus"}, func(err error) bool { return err != nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(context.Background(), tt.args, strings.NewReader(""), io.Discard, io.Discard)
			if !tt.check(err) {
				t.Errorf("unexpected error %v", err)
			}
		})
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"--version"}, nil, &out, io.Discard); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "seqctl ") {
		t.Errorf("got %q", out.String())
	}
}
