package numstat

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maxbolgarin/patchgap/internal/model"
)

var sampleLog = []string{
	"3\t1\tlost/before/marker.go",
	"#####:a1b2c3d:Jane Doe:Fix reader",
	"",
	"10\t2\tlib/reader.rb",
	"1\t0\tREADME.md",
	"#####:d4e5f6a:John Roe:Add writer",
	"",
	"5\t5\tlib/reader.rb",
	"-\t-\tlogo.png",
	"7\t0\tpath with spaces.txt",
	"#####:0f0f0f0:Jane Doe:Tweak",
	"2\t3\tlib/writer.rb",
}

func TestByFile(t *testing.T) {
	got := ByFile(sampleLog, DefaultSeparator)
	want := map[string]model.NumStat{
		"lost/before/marker.go": {Added: 3, Removed: 1},
		"lib/reader.rb":         {Added: 15, Removed: 7},
		"README.md":             {Added: 1},
		"logo.png":              {},
		"lib/writer.rb":         {Added: 2, Removed: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ByFile mismatch (-want +got):\n%s", diff)
	}
}

func TestByAuthor(t *testing.T) {
	got := ByAuthor(sampleLog, DefaultSeparator)
	want := map[string]model.NumStat{
		"Jane Doe": {Added: 13, Removed: 5},
		"John Roe": {Added: 5, Removed: 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ByAuthor mismatch (-want +got):\n%s", diff)
	}
}

func TestByAuthorCustomSeparator(t *testing.T) {
	agg, err := New(Config{Separator: "@@@"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := agg.ByAuthor([]string{
		"@@@:abc:Alice:subject: with colon",
		"4\t1\ta.go",
		"#####:def:Bob:ignored marker",
		"1\t1\tb.go",
	})
	// "#####" is not a marker for this separator and the line is not a record either
	want := map[string]model.NumStat{"Alice": {Added: 5, Removed: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ByAuthor mismatch (-want +got):\n%s", diff)
	}
}

func TestByFileOrderIndependent(t *testing.T) {
	lines := []string{
		"1\t2\ta.go",
		"3\t4\ta.go",
		"5\t6\tb.go",
		"7\t8\ta.go",
		"9\t0\tb.go",
	}
	want := ByFile(lines, DefaultSeparator)

	rnd := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), lines...)
		rnd.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		if diff := cmp.Diff(want, ByFile(shuffled, DefaultSeparator)); diff != "" {
			t.Fatalf("order changed result (-want +got):\n%s", diff)
		}
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		wantPath string
		wantStat model.NumStat
		wantOK   bool
	}{
		{"12\t3\tmain.go", "main.go", model.NumStat{Added: 12, Removed: 3}, true},
		{"12 3 main.go", "main.go", model.NumStat{Added: 12, Removed: 3}, true},
		{"-\t-\timage.png", "image.png", model.NumStat{}, true},
		{"4x\t2\tweird.go", "weird.go", model.NumStat{Added: 4, Removed: 2}, true},
		{"1\t2", "", model.NumStat{}, false},
		{"1\t2\tsrc/{a.go => b.go}", "", model.NumStat{}, false},
		{"#####:abc:Jane:subj", "", model.NumStat{}, false},
		{"", "", model.NumStat{}, false},
	}

	for _, tt := range tests {
		path, stat, ok := ParseLine(tt.line, DefaultSeparator)
		if path != tt.wantPath || stat != tt.wantStat || ok != tt.wantOK {
			t.Errorf("ParseLine(%q) = %q, %+v, %v; want %q, %+v, %v",
				tt.line, path, stat, ok, tt.wantPath, tt.wantStat, tt.wantOK)
		}
	}
}

func TestParseAuthor(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"#####:abc1234:Jane Doe:Fix reader", "Jane Doe"},
		{"#####:abc1234:Jane Doe:Subject: with colon", "Jane Doe"},
		{"#####:abc1234::empty author", ""},
		{"#####:abc1234", ""},
		{"#####", ""},
	}

	for _, tt := range tests {
		if got := ParseAuthor(tt.line, DefaultSeparator); got != tt.want {
			t.Errorf("ParseAuthor(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestSortedAndTotals(t *testing.T) {
	stats := map[string]model.NumStat{
		"b.go": {Added: 1, Removed: 1},
		"a.go": {Added: 2},
		"c.go": {Added: 10, Removed: 5},
	}

	want := []Row{
		{Key: "c.go", NumStat: model.NumStat{Added: 10, Removed: 5}},
		{Key: "a.go", NumStat: model.NumStat{Added: 2}},
		{Key: "b.go", NumStat: model.NumStat{Added: 1, Removed: 1}},
	}
	if diff := cmp.Diff(want, Sorted(stats)); diff != "" {
		t.Fatalf("Sorted mismatch (-want +got):\n%s", diff)
	}

	if got := Totals(stats); got != (model.NumStat{Added: 13, Removed: 6}) {
		t.Fatalf("Totals = %+v", got)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := Config{}
	if err := cfg.PrepareAndValidate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	if cfg.Separator != DefaultSeparator {
		t.Fatalf("separator = %q", cfg.Separator)
	}

	if _, err := New(Config{Separator: "a:b"}); err == nil {
		t.Fatalf("expected error for separator with colon")
	}
}
