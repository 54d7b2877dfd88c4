package board

import (
	"context"

	"kanban/internal/domain"
)

// AddTask creates a task with fresh ids for it and its subtasks. The target is
// the column with id columnID; when no column has that id, the first column
// named in.Status is used instead (active board first). The task's status is
// set to the name of the column it lands in.
func (s *Store) AddTask(ctx context.Context, columnID string, in domain.TaskInput) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ci, ok := findColumn(s.boards, columnID)
	if !ok {
		bi, ci, ok = s.columnByStatusLocked(in.Status)
	}
	if !ok {
		return domain.Task{}, false
	}
	next := domain.CloneBoards(s.boards)
	col := &next[bi].Columns[ci]
	t := domain.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      col.Name,
		Subtasks:    s.freshSubtasks(in.Subtasks),
	}
	col.Tasks = append(col.Tasks, t)
	s.commitLocked(ctx, next, s.activeID, &change{"task.created", "task", t.ID, map[string]any{"column_id": col.ID, "title": t.Title}})
	return t.Clone(), true
}

func (s *Store) columnByStatusLocked(status string) (int, int, bool) {
	if status == "" {
		return 0, 0, false
	}
	if active := ResolveActive(s.boards, s.activeID); active != nil {
		bi, _ := findBoard(s.boards, active.ID)
		if ci, ok := columnByName(s.boards[bi], status); ok {
			return bi, ci, true
		}
	}
	for bi, b := range s.boards {
		if ci, ok := columnByName(b, status); ok {
			return bi, ci, true
		}
	}
	return 0, 0, false
}

func (s *Store) freshSubtasks(in []domain.Subtask) []domain.Subtask {
	out := make([]domain.Subtask, 0, len(in))
	for _, st := range in {
		st.ID = s.newID()
		out = append(out, st)
	}
	return out
}

// EditTask applies a partial update. A status naming another column of the
// same board moves the task there (appended). A status that names no column on
// the board rejects the whole update. Subtasks without an id get a fresh one.
func (s *Store) EditTask(ctx context.Context, taskID string, upd domain.TaskUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := findTask(s.boards, taskID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	b := &next[loc.board]
	src := &b.Columns[loc.column]
	t := src.Tasks[loc.task]
	if upd.Title != nil {
		t.Title = *upd.Title
	}
	if upd.Description != nil {
		t.Description = *upd.Description
	}
	if upd.Subtasks != nil {
		subs := make([]domain.Subtask, 0, len(*upd.Subtasks))
		for _, st := range *upd.Subtasks {
			if st.ID == "" {
				st.ID = s.newID()
			}
			subs = append(subs, st)
		}
		t.Subtasks = subs
	}

	payload := map[string]any{}
	if upd.Status != nil && *upd.Status != src.Name {
		di, found := columnByName(*b, *upd.Status)
		if !found {
			s.log.WithField("op", "task.updated").WithField("task_id", taskID).Warnf("no column named %q, update ignored", *upd.Status)
			return false
		}
		dst := &b.Columns[di]
		t.Status = dst.Name
		src.Tasks = removeTask(src.Tasks, loc.task)
		dst.Tasks = append(dst.Tasks, t)
		payload["from_column_id"] = src.ID
		payload["to_column_id"] = dst.ID
	} else {
		t.Status = src.Name
		src.Tasks[loc.task] = t
	}
	payload["title"] = t.Title
	s.commitLocked(ctx, next, s.activeID, &change{"task.updated", "task", taskID, payload})
	return true
}

// DeleteTask removes the task from whichever column holds it.
func (s *Store) DeleteTask(ctx context.Context, taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := findTask(s.boards, taskID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	col := &next[loc.board].Columns[loc.column]
	col.Tasks = removeTask(col.Tasks, loc.task)
	s.commitLocked(ctx, next, s.activeID, &change{"task.deleted", "task", taskID, map[string]any{"column_id": col.ID}})
	return true
}

// MoveTask moves a task from one column to another column of the same board,
// at index when given (clamped) or at the end. The task takes the destination
// column's name as status. from and to may be the same column to reorder.
func (s *Store) MoveTask(ctx context.Context, taskID, fromColumnID, toColumnID string, index *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, fi, ok := findColumn(s.boards, fromColumnID)
	if !ok {
		return false
	}
	ti := -1
	for i, t := range s.boards[bi].Columns[fi].Tasks {
		if t.ID == taskID {
			ti = i
			break
		}
	}
	if ti < 0 {
		return false
	}
	di := -1
	for i, c := range s.boards[bi].Columns {
		if c.ID == toColumnID {
			di = i
			break
		}
	}
	if di < 0 {
		return false
	}
	next := domain.CloneBoards(s.boards)
	cols := next[bi].Columns
	t := cols[fi].Tasks[ti]
	t.Status = cols[di].Name
	cols[fi].Tasks = removeTask(cols[fi].Tasks, ti)
	cols[di].Tasks = insertTask(cols[di].Tasks, t, index)
	payload := map[string]any{"from_column_id": fromColumnID, "to_column_id": toColumnID}
	if index != nil {
		payload["index"] = *index
	}
	s.commitLocked(ctx, next, s.activeID, &change{"task.moved", "task", taskID, payload})
	return true
}

// ToggleSubtask flips the completion flag of one subtask.
func (s *Store) ToggleSubtask(ctx context.Context, taskID, subtaskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, ok := findTask(s.boards, taskID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	t := &next[loc.board].Columns[loc.column].Tasks[loc.task]
	for i := range t.Subtasks {
		if t.Subtasks[i].ID != subtaskID {
			continue
		}
		t.Subtasks[i].IsCompleted = !t.Subtasks[i].IsCompleted
		s.commitLocked(ctx, next, s.activeID, &change{"subtask.toggled", "subtask", subtaskID, map[string]any{"task_id": taskID, "completed": t.Subtasks[i].IsCompleted}})
		return true
	}
	return false
}
