package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	if got := Short(); got != "flowplot/v1.2.3" {
		t.Errorf("Short() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	tmpl := Template()
	for _, want := range []string{"{{.Name}} version", "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q", want)
		}
	}
}
