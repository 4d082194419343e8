package main

import "testing"

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable(
		[]string{"Name", "Count"},
		[][]string{{"a", "1"}, {"bb", "100"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	requireContains(t, out, "│ a    │     1 │")
	requireContains(t, out, "│ bb   │   100 │")
	requireContains(t, out, "│ NAME │ COUNT │")
}

func TestRenderTableDefaultsToLeftAlignment(t *testing.T) {
	out := renderTable([]string{"Name", "Count"}, [][]string{{"a", "1"}}, nil)
	requireContains(t, out, "│ a    │ 1     │")
}

func TestRenderPlainUsesTabs(t *testing.T) {
	got := renderPlain([]string{"ID", "Title"}, [][]string{{"1", "Mario"}})
	if got != "ID\tTitle\n1\tMario\n" {
		t.Fatalf("unexpected plain output %q", got)
	}
}
