package board

import (
	"math/rand"
	"testing"

	"kanban/internal/domain"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestAddTaskToColumn(t *testing.T) {
	env := newTestEnv(t, []domain.Board{{ID: "b1", Columns: []domain.Column{{ID: "c1", Name: "Todo"}}}})
	task, ok := env.Store.AddTask(env.Ctx, "c1", domain.TaskInput{Title: "X", Status: "Todo"})
	if !ok {
		t.Fatalf("expected task added")
	}
	c := column(t, env.Store, "c1")
	if len(c.Tasks) != 1 || c.Tasks[0].Title != "X" || c.Tasks[0].Status != "Todo" {
		t.Fatalf("unexpected column %+v", c)
	}
	if c.Tasks[0].ID != task.ID || task.ID == "" {
		t.Fatalf("expected generated id returned")
	}
	if c.Tasks[0].Subtasks == nil {
		t.Fatalf("expected empty subtask list")
	}
}

func TestAddTaskAssignsSubtaskIDs(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	task, _ := env.Store.AddTask(env.Ctx, "col-1", domain.TaskInput{
		Title:    "With subtasks",
		Status:   "Todo",
		Subtasks: []domain.Subtask{{ID: "caller", Title: "a"}, {Title: "b", IsCompleted: true}},
	})
	if len(task.Subtasks) != 2 {
		t.Fatalf("expected 2 subtasks, got %d", len(task.Subtasks))
	}
	if task.Subtasks[0].ID == "caller" || task.Subtasks[0].ID == task.Subtasks[1].ID {
		t.Fatalf("expected fresh subtask ids, got %+v", task.Subtasks)
	}
	if !task.Subtasks[1].IsCompleted {
		t.Fatalf("expected completion flag kept")
	}
}

func TestAddTaskFallsBackToStatusName(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	task, ok := env.Store.AddTask(env.Ctx, "unknown-column", domain.TaskInput{Title: "By name", Status: "Doing"})
	if !ok {
		t.Fatalf("expected name match")
	}
	_, _, columnID, _ := env.Store.Task(task.ID)
	if columnID != "col-2" {
		t.Fatalf("expected col-2, got %s", columnID)
	}
	if _, ok := env.Store.AddTask(env.Ctx, "unknown-column", domain.TaskInput{Title: "Lost", Status: "Nowhere"}); ok {
		t.Fatalf("expected no-op when neither id nor name match")
	}
}

func TestAddTaskStatusFollowsColumn(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	task, _ := env.Store.AddTask(env.Ctx, "col-3", domain.TaskInput{Title: "Mismatch", Status: "Todo"})
	if task.Status != "Done" {
		t.Fatalf("expected status Done, got %q", task.Status)
	}
	if len(column(t, env.Store, "col-1").Tasks) != 1 {
		t.Fatalf("expected task not duplicated into the Todo column")
	}
	assertConsistent(t, env.Store.Boards())
}

func TestEditTaskStatusMovesTask(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	if !env.Store.EditTask(env.Ctx, "task-1", domain.TaskUpdate{Status: strPtr("Done")}) {
		t.Fatalf("expected edit applied")
	}
	if len(column(t, env.Store, "col-1").Tasks) != 0 {
		t.Fatalf("expected task removed from Todo")
	}
	done := column(t, env.Store, "col-3")
	if len(done.Tasks) != 1 || done.Tasks[0].ID != "task-1" || done.Tasks[0].Status != "Done" {
		t.Fatalf("unexpected Done column %+v", done)
	}
	if done.Tasks[0].Title != "Build UI for onboarding flow" || len(done.Tasks[0].Subtasks) != 2 {
		t.Fatalf("expected other fields kept: %+v", done.Tasks[0])
	}
}

func TestEditTaskInPlace(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	ok := env.Store.EditTask(env.Ctx, "task-1", domain.TaskUpdate{
		Title:       strPtr("Renamed"),
		Description: strPtr("desc"),
		Status:      strPtr("Todo"),
		Subtasks:    &[]domain.Subtask{{ID: "st-1", Title: "Sign up page", IsCompleted: true}, {Title: "New one"}},
	})
	if !ok {
		t.Fatalf("expected edit applied")
	}
	task, _, columnID, _ := env.Store.Task("task-1")
	if columnID != "col-1" || task.Title != "Renamed" || task.Description != "desc" {
		t.Fatalf("unexpected task %+v in %s", task, columnID)
	}
	if len(task.Subtasks) != 2 || task.Subtasks[0].ID != "st-1" || task.Subtasks[1].ID == "" {
		t.Fatalf("unexpected subtasks %+v", task.Subtasks)
	}
}

func TestEditTaskUnknownStatusIsRejected(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	if env.Store.EditTask(env.Ctx, "task-1", domain.TaskUpdate{Title: strPtr("nope"), Status: strPtr("Archive")}) {
		t.Fatalf("expected update rejected")
	}
	task, _, columnID, ok := env.Store.Task("task-1")
	if !ok || columnID != "col-1" || task.Title != "Build UI for onboarding flow" {
		t.Fatalf("expected task untouched, got %+v in %s", task, columnID)
	}
	if env.Store.EditTask(env.Ctx, "missing", domain.TaskUpdate{Title: strPtr("x")}) {
		t.Fatalf("expected missing task no-op")
	}
}

func TestDeleteTask(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	if !env.Store.DeleteTask(env.Ctx, "task-1") {
		t.Fatalf("expected delete applied")
	}
	if len(column(t, env.Store, "col-1").Tasks) != 0 {
		t.Fatalf("expected Todo empty")
	}
	if env.Store.DeleteTask(env.Ctx, "task-1") {
		t.Fatalf("expected second delete no-op")
	}
}

func TestMoveTask(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	if !env.Store.MoveTask(env.Ctx, "task-1", "col-1", "col-2", nil) {
		t.Fatalf("expected move applied")
	}
	if len(column(t, env.Store, "col-1").Tasks) != 0 {
		t.Fatalf("expected source column empty")
	}
	doing := column(t, env.Store, "col-2")
	if len(doing.Tasks) != 2 || doing.Tasks[1].ID != "task-1" || doing.Tasks[1].Status != "Doing" {
		t.Fatalf("unexpected destination %+v", doing)
	}
}

func TestMoveTaskAtIndex(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	env.Store.MoveTask(env.Ctx, "task-1", "col-1", "col-2", intPtr(0))
	doing := column(t, env.Store, "col-2")
	if doing.Tasks[0].ID != "task-1" || doing.Tasks[1].ID != "task-3" {
		t.Fatalf("expected task-1 first, got %s, %s", doing.Tasks[0].ID, doing.Tasks[1].ID)
	}
	env.Store.MoveTask(env.Ctx, "task-1", "col-2", "col-2", intPtr(99))
	doing = column(t, env.Store, "col-2")
	if doing.Tasks[1].ID != "task-1" {
		t.Fatalf("expected reorder to clamp to the end")
	}
	env.Store.MoveTask(env.Ctx, "task-1", "col-2", "col-1", intPtr(-3))
	if todo := column(t, env.Store, "col-1"); len(todo.Tasks) != 1 || todo.Tasks[0].Status != "Todo" {
		t.Fatalf("expected negative index to clamp to start: %+v", todo)
	}
}

func TestMoveTaskNoops(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	cases := []struct{ task, from, to string }{
		{"task-1", "col-2", "col-3"},
		{"task-1", "missing", "col-3"},
		{"task-1", "col-1", "missing"},
		{"missing", "col-1", "col-2"},
	}
	for _, c := range cases {
		if env.Store.MoveTask(env.Ctx, c.task, c.from, c.to, nil) {
			t.Fatalf("expected no-op for %+v", c)
		}
	}
	if _, _, columnID, _ := env.Store.Task("task-1"); columnID != "col-1" {
		t.Fatalf("expected task-1 still in col-1")
	}
	if env.Persister.saves != 0 {
		t.Fatalf("expected no saves for no-ops")
	}
}

func TestMoveTaskStaysWithinBoard(t *testing.T) {
	boards := fixtureBoards()
	boards[1].Columns = []domain.Column{{ID: "other", Name: "Elsewhere"}}
	env := newTestEnv(t, boards)
	if env.Store.MoveTask(env.Ctx, "task-1", "col-1", "other", nil) {
		t.Fatalf("expected cross-board move to be a no-op")
	}
}

func TestToggleSubtaskTwiceRestores(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	if !env.Store.ToggleSubtask(env.Ctx, "task-1", "st-2") {
		t.Fatalf("expected toggle applied")
	}
	task, _, _, _ := env.Store.Task("task-1")
	if !task.Subtasks[1].IsCompleted || !task.Subtasks[0].IsCompleted {
		t.Fatalf("unexpected subtasks after toggle %+v", task.Subtasks)
	}
	env.Store.ToggleSubtask(env.Ctx, "task-1", "st-2")
	task, _, _, _ = env.Store.Task("task-1")
	if task.Subtasks[1].IsCompleted {
		t.Fatalf("expected original value restored")
	}
	if task.Title != "Build UI for onboarding flow" || task.Status != "Todo" {
		t.Fatalf("expected other fields untouched")
	}
	if env.Store.ToggleSubtask(env.Ctx, "task-1", "missing") {
		t.Fatalf("expected missing subtask no-op")
	}
}

func TestRandomTaskOperationsKeepStatusConsistent(t *testing.T) {
	env := newTestEnv(t, fixtureBoards())
	rng := rand.New(rand.NewSource(42))
	names := []string{"Todo", "Doing", "Done", "Nowhere"}
	for i := 0; i < 500; i++ {
		boards := env.Store.Boards()
		cols := boards[0].Columns
		var taskIDs []string
		taskCol := map[string]string{}
		for _, c := range cols {
			for _, task := range c.Tasks {
				taskIDs = append(taskIDs, task.ID)
				taskCol[task.ID] = c.ID
			}
		}
		switch op := rng.Intn(4); {
		case op == 0 || len(taskIDs) == 0:
			c := cols[rng.Intn(len(cols))]
			env.Store.AddTask(env.Ctx, c.ID, domain.TaskInput{Title: "t", Status: names[rng.Intn(len(names))]})
		case op == 1:
			env.Store.DeleteTask(env.Ctx, taskIDs[rng.Intn(len(taskIDs))])
		case op == 2:
			id := taskIDs[rng.Intn(len(taskIDs))]
			to := cols[rng.Intn(len(cols))]
			env.Store.MoveTask(env.Ctx, id, taskCol[id], to.ID, intPtr(rng.Intn(4)-1))
		default:
			id := taskIDs[rng.Intn(len(taskIDs))]
			env.Store.EditTask(env.Ctx, id, domain.TaskUpdate{Status: strPtr(names[rng.Intn(len(names))])})
		}
		assertConsistent(t, env.Store.Boards())
	}
}
