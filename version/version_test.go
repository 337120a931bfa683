package version

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGetDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
	if info.GoVersion == "" {
		t.Error("expected go version from build info")
	}
}

func TestGetWithLdflags(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0"
	BuildTime = "2024-01-15T10:30:00Z"
	GitCommit = "abc1234def"

	info := Get()
	if info.Version != "1.0.0" {
		t.Errorf("expected '1.0.0', got %q", info.Version)
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected commit truncated to 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2024 {
		t.Errorf("expected build year 2024, got %d", info.BuildDate.Year())
	}
}

func TestGetDirtyVersion(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.0.0-dirty"

	if Get().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestInfoShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.0.0", GitCommit: "abc1234"}, "1.0.0-abc1234"},
		{Info{Version: "1.0.0", GitCommit: "abc1234", IsDirty: true}, "1.0.0-abc1234-dirty"},
	}
	for _, tt := range tests {
		if got := tt.info.Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:   "1.0.0",
		GitCommit: "abc1234",
		GoVersion: "go1.26.0",
		BuildDate: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	want := "1.0.0-abc1234 (built 2024-01-15T10:30:00Z, go1.26.0)"
	if got := info.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := (Info{Version: "dev", GoVersion: "go1.26.0"}).String(); got != "dev (go1.26.0)" {
		t.Errorf("unexpected string without build date: %q", got)
	}
}

func TestInfoFields(t *testing.T) {
	f := Info{Version: "1.0.0", GitCommit: "abc"}.Fields()
	if f["version"] != "1.0.0" || f["git_commit"] != "abc" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestPrint(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.1.0"
	var buf bytes.Buffer
	if err := Print(&buf, "seqctl"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "seqctl 2.1.0") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
