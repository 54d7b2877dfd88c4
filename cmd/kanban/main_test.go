package main

import (
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"

	"kanban/internal/domain"
)

func TestSetEnvValueKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := setEnvValue(path, "OTHER", "1"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := setEnvValue(path, "KANBAN_JWT_SECRET", "a"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := setEnvValue(path, "KANBAN_JWT_SECRET", "b"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if values["OTHER"] != "1" || values["KANBAN_JWT_SECRET"] != "b" || len(values) != 2 {
		t.Fatalf("unexpected values %v", values)
	}
}

func TestParseColumnEdits(t *testing.T) {
	got := parseColumnEdits([]string{"col-1=Backlog", "Review"})
	want := []domain.ColumnEdit{{ID: "col-1", Name: "Backlog"}, {Name: "Review"}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected edits %+v", got)
	}
}

func TestParseSubtasksKeepsCompletion(t *testing.T) {
	existing := []domain.Subtask{{ID: "st-1", Title: "old", IsCompleted: true}}
	got := parseSubtasks(existing, []string{"st-1=renamed", "fresh", "x=y"})
	if len(got) != 3 {
		t.Fatalf("expected 3 subtasks, got %d", len(got))
	}
	if got[0] != (domain.Subtask{ID: "st-1", Title: "renamed", IsCompleted: true}) {
		t.Fatalf("unexpected kept subtask %+v", got[0])
	}
	if got[1].ID != "" || got[1].Title != "fresh" || got[2].Title != "x=y" {
		t.Fatalf("unexpected new subtasks %+v", got[1:])
	}
}
