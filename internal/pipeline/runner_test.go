package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/jbooks/internal/catalog"
	"github.com/dgallion1/jbooks/internal/grid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

const treeFixture = `{
  "genContent": {
    "kind": "document",
    "children": [
      {
        "kind": "section",
        "label": "OP-5",
        "children": [
          {
            "kind": "table",
            "label": "Summary",
            "columns": [
              {"code": "RowText", "label": "Item", "type": "text"},
              {"code": "Py", "label": "PY", "type": "currency"}
            ],
            "rows": [
              {"kind": "data", "cells": [{"columnCode": "RowText", "value": "Maneuver Units"}, {"columnCode": "Py", "value": "5,496,093"}]}
            ]
          }
        ]
      }
    ]
  }
}`

func writeInput(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunner_MissingInputRootIsNotAnError(t *testing.T) {
	r := NewRunner(2, 0, testLogger())
	summary, err := r.Run(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Documents != 0 || summary.Errored != 0 {
		t.Errorf("summary not empty: %+v", summary)
	}
}

func TestRunner_EndToEnd(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeInput(t, in, "DefenseWide/O&M_Agencies/CYBERCOM_OP-5.json", treeFixture)
	writeInput(t, in, "Army/rdte/broken.json", `{"genContent": [not json`)
	writeInput(t, in, "Army/notes.txt", "not a supported format")

	r := NewRunner(2, 0, testLogger())
	summary, err := r.Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Documents != 1 {
		t.Errorf("documents = %d, want 1", summary.Documents)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}
	if summary.Errored != 1 || len(summary.Errors) != 1 {
		t.Fatalf("errored = %d, errors = %v", summary.Errored, summary.Errors)
	}
	if summary.Errors[0].Path != "Army/rdte/broken.json" {
		t.Errorf("error path = %q", summary.Errors[0].Path)
	}

	// Every successfully parsed file has a catalog entry whose referenced
	// output file is readable and holds at least one grid.
	catData, err := os.ReadFile(filepath.Join(out, "catalog.json"))
	if err != nil {
		t.Fatalf("read catalog: %v", err)
	}
	var entries []catalog.Entry
	if err := json.Unmarshal(catData, &entries); err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	e := entries[0]
	if e.Service != "Defense-Wide" || e.Appropriation != "Operation & Maintenance" || e.DisplayLabel != "CYBERCOM OP-5" {
		t.Errorf("entry = %+v", e)
	}
	if e.GridCount < 1 {
		t.Errorf("gridCount = %d", e.GridCount)
	}

	docData, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(e.File)))
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	var d grid.Document
	if err := json.Unmarshal(docData, &d); err != nil {
		t.Fatalf("parse document: %v", err)
	}
	if d.ID != e.ID || len(d.Grids) < 1 {
		t.Errorf("document = id %q, %d grids", d.ID, len(d.Grids))
	}
	if got := d.Grids[0].Rows[0].Cells["Py"]; got != 5496093.0 {
		t.Errorf("Py = %v, want 5496093", got)
	}
	if d.SourceFile != "DefenseWide/O&M_Agencies/CYBERCOM_OP-5.json" {
		t.Errorf("sourceFile = %q", d.SourceFile)
	}
	if d.Type != grid.SourceTree {
		t.Errorf("type = %s", d.Type)
	}
}

func TestRunner_Deterministic(t *testing.T) {
	in := t.TempDir()
	writeInput(t, in, "DefenseWide/O&M_Agencies/CYBERCOM_OP-5.json", treeFixture)
	writeInput(t, in, "DefenseWide/O&M_Agencies/DISA_OP-5.json", treeFixture)
	writeInput(t, in, "DefenseWide/O&M_Agencies/DLA_OP-5.json", treeFixture)

	run := func() ([]byte, map[string][]byte) {
		out := t.TempDir()
		r := NewRunner(3, 0, testLogger())
		if _, err := r.Run(context.Background(), in, out); err != nil {
			t.Fatalf("run: %v", err)
		}
		cat, err := os.ReadFile(filepath.Join(out, "catalog.json"))
		if err != nil {
			t.Fatal(err)
		}
		docs := make(map[string][]byte)
		files, err := os.ReadDir(filepath.Join(out, "documents"))
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range files {
			data, err := os.ReadFile(filepath.Join(out, "documents", f.Name()))
			if err != nil {
				t.Fatal(err)
			}
			docs[f.Name()] = data
		}
		return cat, docs
	}

	cat1, docs1 := run()
	cat2, docs2 := run()
	if !bytes.Equal(cat1, cat2) {
		t.Error("catalog bytes differ between runs")
	}
	if len(docs1) != len(docs2) {
		t.Fatalf("document counts differ: %d vs %d", len(docs1), len(docs2))
	}
	for name, data := range docs1 {
		if !bytes.Equal(data, docs2[name]) {
			t.Errorf("document %s differs between runs", name)
		}
	}
}

func TestRunner_NoTablesIsInformational(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeInput(t, in, "Army/rdte/empty.json", `{"genContent": {"kind": "document", "children": []}}`)

	r := NewRunner(1, 0, testLogger())
	summary, err := r.Run(context.Background(), in, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.NoTables != 1 || summary.Errored != 0 || summary.Documents != 0 {
		t.Errorf("summary = %+v", summary)
	}
}
