package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func setBuild(t *testing.T, version, commit, branch, buildTime string) {
	t.Helper()
	prev := [5]string{Version, GitCommit, GitBranch, BuildTime, GoVersion}
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime, GoVersion = prev[0], prev[1], prev[2], prev[3], prev[4]
	})
	Version, GitCommit, GitBranch, BuildTime, GoVersion = version, commit, branch, buildTime, "go1.26.0"
}

func TestGetVersionInfo_Ldflags(t *testing.T) {
	setBuild(t, "0.2.0", "abc1234", "main", "2026-01-15T10:30:00Z")

	info := GetVersionInfo()
	if !info.IsRelease || info.GitCommit != "abc1234" || info.GoVersion != "go1.26.0" {
		t.Errorf("unexpected info %+v", info)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestGetVersionInfo_DevAndDirty(t *testing.T) {
	setBuild(t, "dev", "", "", "")
	info := GetVersionInfo()
	if info.IsRelease {
		t.Error("dev is not a release")
	}
	if info.BuildDate.IsZero() {
		t.Error("build date falls back to now")
	}

	setBuild(t, "0.2.0-dirty", "", "", "")
	if GetVersionInfo().IsRelease {
		t.Error("dirty version is not a release")
	}
}

func TestApplyVCS(t *testing.T) {
	info := &Info{}
	applyVCS(info, []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef"},
		{Key: "vcs.modified", Value: "true"},
		{Key: "vcs.time", Value: "2026-03-01T00:00:00Z"},
	})
	if info.GitCommit != "0123456" || !info.IsDirty || info.BuildDate.Month() != time.March {
		t.Errorf("unexpected info %+v", info)
	}

	pinned := &Info{GitCommit: "fixed", BuildTime: "2026-01-01T00:00:00Z"}
	applyVCS(pinned, []debug.BuildSetting{{Key: "vcs.revision", Value: "other"}, {Key: "vcs.time", Value: "2026-03-01T00:00:00Z"}})
	if pinned.GitCommit != "fixed" || !pinned.BuildDate.IsZero() {
		t.Errorf("ldflags values must win over VCS stamp, got %+v", pinned)
	}
}

func TestInfo_Formatting(t *testing.T) {
	info := &Info{Version: "0.2.0", GitCommit: "abc1234", GitBranch: "feature/pager", GoVersion: "go1.26.0",
		BuildDate: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)}

	if got := info.Short(); got != "0.2.0-abc1234" {
		t.Errorf("Short() = %q", got)
	}
	if got := info.UserAgent(); got != "reactivity-go/0.2.0-abc1234" {
		t.Errorf("UserAgent() = %q", got)
	}
	s := info.String()
	for _, want := range []string{"0.2.0", "abc1234", "feature/pager", "built 2026-01-15T10:30:00Z"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}

	info.GitBranch = "main"
	info.IsDirty = true
	if s := info.String(); strings.Contains(s, "main") || !strings.Contains(s, "dirty") {
		t.Errorf("String() = %q", s)
	}
	if got := (&Info{Version: "dev"}).Short(); got != "dev" {
		t.Errorf("Short() without commit = %q", got)
	}
}
