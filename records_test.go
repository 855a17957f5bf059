// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package tabtxt_test

import (
	"reflect"
	"testing"

	"github.com/mdhender/tabtxt"
)

func TestRecords_HeaderRow(t *testing.T) {
	records := tabtxt.Parse("a,b,c\n1,2,3\n4,5,6\n", tabtxt.DefaultConfig())
	want := []tabtxt.Record{
		{"a": "1", "b": "2", "c": "3"},
		{"a": "4", "b": "5", "c": "6"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestRecords_RaggedRows(t *testing.T) {
	records := tabtxt.Parse("a,b,c\n1,2\n1,2,3,4\n", tabtxt.DefaultConfig())
	want := []tabtxt.Record{
		{"a": "1", "b": "2", "c": ""},  // short row pads
		{"a": "1", "b": "2", "c": "3"}, // long row truncates
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestRecords_NoHeader(t *testing.T) {
	cfg, err := tabtxt.NewConfig(tabtxt.WithoutHeader())
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	records := tabtxt.Parse("1,2\n3,4\n", cfg)
	want := []tabtxt.Record{
		{"field1": "1", "field2": "2"},
		{"field1": "3", "field2": "4"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestRecords_NoHeaderWidestRow(t *testing.T) {
	cfg, _ := tabtxt.NewConfig(tabtxt.WithoutHeader())
	records := tabtxt.Parse("1,2\n3,4,5\n", cfg)
	want := []tabtxt.Record{
		{"field1": "1", "field2": "2", "field3": ""},
		{"field1": "3", "field2": "4", "field3": "5"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Fatalf("records = %v, want %v", records, want)
	}
}

func TestRecords_DuplicateHeaders(t *testing.T) {
	records := tabtxt.Parse("a,a\n1,2\n", tabtxt.DefaultConfig())
	if len(records) != 1 {
		t.Fatalf("records = %v, want one", records)
	}
	// later duplicate keys silently override earlier ones
	if got, want := records[0]["a"], "2"; got != want {
		t.Fatalf("a = %q, want %q", got, want)
	}
}

func TestRecords_EmptyInput(t *testing.T) {
	if records := tabtxt.Parse("", tabtxt.DefaultConfig()); len(records) != 0 {
		t.Fatalf("records = %v, want none", records)
	}
	// a header row with no data rows is also an empty result
	if records := tabtxt.Parse("a,b,c\n", tabtxt.DefaultConfig()); len(records) != 0 {
		t.Fatalf("records = %v, want none", records)
	}
}

func TestHeaders_Synthesized(t *testing.T) {
	cfg, _ := tabtxt.NewConfig(tabtxt.WithoutHeader())
	headers := tabtxt.Headers([][]string{{"1"}, {"1", "2", "3"}}, cfg)
	want := []string{"field1", "field2", "field3"}
	if !reflect.DeepEqual(headers, want) {
		t.Fatalf("headers = %v, want %v", headers, want)
	}
}
