// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tally_test

import (
	"testing"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/walkers/tally"
)

func TestWalk_HappyPath(t *testing.T) {
	rows := tabtxt.Tokenize("name,qty\nwidget,10\ngadget,2.5\nsprocket,\n", tabtxt.DefaultConfig())
	columns := tally.Walk(rows, tabtxt.DefaultConfig())

	if len(columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(columns))
	}

	name := columns[0]
	if got, want := name.Name, "name"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got, want := name.Rows, 3; got != want {
		t.Fatalf("Rows = %d, want %d", got, want)
	}
	if got, want := name.MinWidth, 6; got != want {
		t.Fatalf("MinWidth = %d, want %d", got, want)
	}
	if got, want := name.MaxWidth, 8; got != want {
		t.Fatalf("MaxWidth = %d, want %d", got, want)
	}
	if name.Numeric != 0 {
		t.Fatalf("Numeric = %d, want 0", name.Numeric)
	}

	qty := columns[1]
	if got, want := qty.Numeric, 2; got != want {
		t.Fatalf("Numeric = %d, want %d", got, want)
	}
	if got, want := qty.Empty, 1; got != want {
		t.Fatalf("Empty = %d, want %d", got, want)
	}
}

func TestWalk_RaggedWiderThanHeader(t *testing.T) {
	rows := tabtxt.Tokenize("a,b\n1,2,3\n", tabtxt.DefaultConfig())
	columns := tally.Walk(rows, tabtxt.DefaultConfig())
	if len(columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(columns))
	}
	if columns[2].Name != "" {
		t.Fatalf("Name = %q, want empty for unnamed overflow column", columns[2].Name)
	}
	if columns[2].Rows != 1 {
		t.Fatalf("Rows = %d, want 1", columns[2].Rows)
	}
}

func TestWalk_NoHeader(t *testing.T) {
	cfg, _ := tabtxt.NewConfig(tabtxt.WithoutHeader())
	rows := tabtxt.Tokenize("1,2\n3,4\n", cfg)
	columns := tally.Walk(rows, cfg)
	if len(columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(columns))
	}
	if got, want := columns[0].Name, "field1"; got != want {
		t.Fatalf("Name = %q, want %q", got, want)
	}
	if got, want := columns[0].Rows, 2; got != want {
		t.Fatalf("Rows = %d, want %d", got, want)
	}
}
