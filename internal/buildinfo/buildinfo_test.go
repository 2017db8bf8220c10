package buildinfo

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBuildData(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)

	out := buf.String()
	for _, want := range []string{"Build version:", "Build date:", "Build commit:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}
