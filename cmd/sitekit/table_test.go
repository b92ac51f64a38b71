package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsAndTrimsRows(t *testing.T) {
	out := renderTable(demoColumns, [][]string{
		{"online_quick", "online", "2", "1", "3", "25", "extra"},
		{"gym_example1"},
	})
	for _, want := range []string{"DEMO", "SECONDS", "online_quick", "gym_example1", "25"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	if strings.Contains(out, "extra") {
		t.Fatalf("cells past the last column must be dropped:\n%s", out)
	}
	if got := strings.Count(out, "\n") + 1; got != 6 {
		t.Fatalf("expected header, two rows and borders (6 lines), got %d:\n%s", got, out)
	}
}

func TestRenderTableWithoutColumns(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
