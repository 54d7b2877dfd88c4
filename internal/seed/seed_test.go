package seed

import "testing"

func TestBoardsStatusMatchesColumn(t *testing.T) {
	boards := Boards()
	if len(boards) == 0 {
		t.Fatalf("expected seed boards")
	}
	for _, b := range boards {
		for _, c := range b.Columns {
			for _, task := range c.Tasks {
				if task.Status != c.Name {
					t.Fatalf("task %s status %q in column %q", task.ID, task.Status, c.Name)
				}
			}
		}
	}
}

func TestBoardsReturnsCopies(t *testing.T) {
	a := Boards()
	a[0].Name = "changed"
	b := Boards()
	if b[0].Name == "changed" {
		t.Fatalf("expected independent copies")
	}
}

func TestParseNormalizesNullLists(t *testing.T) {
	boards, err := Parse([]byte(`[{"id":"b","name":"B","columns":[{"id":"c","name":"Todo","tasks":null}]}]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if boards[0].Columns[0].Tasks == nil {
		t.Fatalf("expected empty task list")
	}
	if _, err := Parse([]byte(`{bad`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
