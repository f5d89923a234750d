package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name    string
		groups  int
		formats []string
		cached  bool
		want    []string
	}{
		{"fresh", 3, []string{"svg"}, false, []string{"3 groups", "svg", iconFresh}},
		{"cached", 2, []string{"svg", "png"}, true, []string{"2 groups", "svg, png", iconCached}},
		{"no groups", 0, nil, false, []string{iconFresh}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureStdout(t)
			printStats(tt.groups, "groups", tt.formats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output %q missing %q", out.String(), w)
				}
			}
		})
	}
}

func TestStatusLines(t *testing.T) {
	out := captureStdout(t)
	printSuccess("wrote %d files", 2)
	printWarning("careful")
	printInfo("note")
	printFile("chart.svg")
	printKeyValue("Gate", "tcells")

	for _, w := range []string{"wrote 2 files", "careful", "note", "chart.svg", "tcells"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func TestSwatch(t *testing.T) {
	if got := swatch("#0088AA55"); !strings.Contains(got, iconSwatch) {
		t.Errorf("swatch = %q", got)
	}
}
