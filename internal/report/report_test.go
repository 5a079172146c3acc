package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maxbolgarin/patchgap/internal/model"
	"github.com/maxbolgarin/patchgap/internal/patchdir"
)

func ptr(s string) *string { return &s }

func newWriter(t *testing.T, cfg Config) (*Writer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	w, err := NewWithWriter(cfg, &buf)
	if err != nil {
		t.Fatalf("NewWithWriter: %v", err)
	}
	return w, &buf
}

func sampleDirs() []patchdir.Dir {
	return []patchdir.Dir{{
		Path: "/patches/app",
		Rel:  "app",
		Patches: []patchdir.Patch{
			{Path: "/patches/app/0001.patch", Commit: model.Commit{ID: ptr("abc"), Title: ptr("Fix a | b"), Author: ptr("Alice")}},
			{Path: "/patches/app/0002.patch", Commit: model.Commit{ID: ptr("def"), ChangeID: ptr("I123")}},
		},
	}}
}

func TestPatchDirsMarkdown(t *testing.T) {
	w, buf := newWriter(t, Config{Sections: "id|title|changedId"})
	if err := w.PatchDirs(sampleDirs()); err != nil {
		t.Fatalf("PatchDirs: %v", err)
	}

	want := strings.Join([]string{
		"",
		"## /patches/app",
		"",
		"| id | title | changedId |",
		"| --- | --- | --- |",
		`| abc | Fix a \| b |  |`,
		"| def |  | I123 |",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchDirsJSON(t *testing.T) {
	w, buf := newWriter(t, Config{Format: FormatJSON})
	if err := w.PatchDirs(sampleDirs()); err != nil {
		t.Fatalf("PatchDirs: %v", err)
	}

	var got []patchdir.Dir
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, buf.String())
	}
	if len(got) != 1 || len(got[0].Patches) != 2 || got[0].Patches[1].Commit.GetChangeID() != "I123" {
		t.Fatalf("unexpected decoded report %+v", got)
	}
}

func TestGapsMarkdown(t *testing.T) {
	w, buf := newWriter(t, Config{Sections: "id|title"})

	gaps := []patchdir.DirGaps{
		{Rel: "complete", Total: 2},
		{
			Rel:   "app",
			Total: 3,
			Missing: []patchdir.Gap{
				{Patch: patchdir.Patch{Path: "app/0002.patch", Commit: model.Commit{ID: ptr("s2"), Title: ptr("Second")}}, Candidates: 1},
			},
		},
	}
	if err := w.Gaps(gaps); err != nil {
		t.Fatalf("Gaps: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "complete") {
		t.Fatalf("directory without gaps must be omitted:\n%s", out)
	}
	for _, want := range []string{
		"## app (1 of 3 missing)",
		"| patch | id | title |",
		"| app/0002.patch | s2 | Second |",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestNumStatMarkdown(t *testing.T) {
	w, buf := newWriter(t, Config{})

	err := w.NumStat("file", map[string]model.NumStat{
		"a.go": {Added: 1, Removed: 1},
		"b.go": {Added: 10},
	})
	if err != nil {
		t.Fatalf("NumStat: %v", err)
	}

	want := strings.Join([]string{
		"| file | added | removed |",
		"| --- | --- | --- |",
		"| b.go | 10 | 0 |",
		"| a.go | 1 | 1 |",
		"| total | 11 | 1 |",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("numstat mismatch (-want +got):\n%s", diff)
	}
}

func TestVerdict(t *testing.T) {
	w, buf := newWriter(t, Config{})
	if err := w.Verdict("a.patch", "b.patch", true, false); err != nil {
		t.Fatalf("Verdict: %v", err)
	}
	if got := buf.String(); got != "a.patch b.patch different\n" {
		t.Fatalf("verdict = %q", got)
	}

	w, buf = newWriter(t, Config{Format: FormatJSON})
	if err := w.Verdict("a", "b", false, true); err != nil {
		t.Fatalf("Verdict: %v", err)
	}
	var got struct {
		Same   bool `json:"same"`
		Robust bool `json:"robust"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !got.Same || got.Robust {
		t.Fatalf("unexpected verdict %+v", got)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{}, false},
		{Config{Format: "JSON"}, false},
		{Config{Format: "xml"}, true},
		{Config{Sections: "id|author"}, false},
		{Config{Sections: "id|unknown"}, true},
	}

	for _, tt := range tests {
		err := tt.cfg.PrepareAndValidate()
		if (err != nil) != tt.wantErr {
			t.Errorf("PrepareAndValidate(%+v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
	}
}

func TestNewWritesFile(t *testing.T) {
	path := t.TempDir() + "/report.md"
	w, err := New(Config{Output: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Verdict("a", "b", false, true); err != nil {
		t.Fatalf("Verdict: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
