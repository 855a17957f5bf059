// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package renderer_test

import (
	"reflect"
	"testing"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/renderer"
)

func TestRender_Quoting(t *testing.T) {
	r, err := renderer.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := r.RenderString([][]string{
		{"plain", "has,comma", `has"quote`, "has\nnewline", " padded "},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "plain,\"has,comma\",\"has\"\"quote\",\"has\nnewline\",\" padded \"\n"
	if got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	rows := [][]string{
		{"name", "note"},
		{"alpha", "a,b"},
		{"beta", `say "hi"`},
		{"gamma", "two\nlines"},
	}
	r, err := renderer.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	text, err := r.RenderString(rows)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	back := tabtxt.Tokenize(text, tabtxt.DefaultConfig())
	if !reflect.DeepEqual(back, rows) {
		t.Fatalf("round trip = %v, want %v", back, rows)
	}
}

func TestRender_DelimiterConversion(t *testing.T) {
	r, err := renderer.New(renderer.WithDelimiter('\t'), renderer.WithCRLF(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := r.RenderString([][]string{{"a", "b"}, {"c", "d"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "a\tb\r\nc\td\r\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRender_ColumnFilters(t *testing.T) {
	rows := [][]string{
		{"id", "name", "secret"},
		{"1", "alpha", "x"},
		{"2", "beta", "y"},
	}

	r, err := renderer.New(renderer.WithExcludeColumns("secret"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := r.RenderString(rows)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "id,name\n1,alpha\n2,beta\n"; got != want {
		t.Fatalf("exclude: output = %q, want %q", got, want)
	}

	r, err = renderer.New(renderer.WithIncludeColumns("name"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err = r.RenderString(rows)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "name\nalpha\nbeta\n"; got != want {
		t.Fatalf("include: output = %q, want %q", got, want)
	}
}

func TestRender_QuoteAll(t *testing.T) {
	r, err := renderer.New(renderer.WithQuoteAll(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := r.RenderString([][]string{{"a", "b"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "\"a\",\"b\"\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
