package board

import (
	"context"

	"kanban/internal/domain"
)

// SetActiveBoard points the active board at b. The pointer is kept as an id,
// so a board that is not part of the collection resolves like a deleted one.
func (s *Store) SetActiveBoard(ctx context.Context, b domain.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(ctx, s.boards, b.ID, nil)
}

// SetActiveBoardByID reports false and changes nothing when no board has the id.
func (s *Store) SetActiveBoardByID(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := findBoard(s.boards, id); !ok {
		return false
	}
	s.commitLocked(ctx, s.boards, id, nil)
	return true
}

// AddBoard appends a board with one empty column per name and makes it active.
func (s *Store) AddBoard(ctx context.Context, name string, columnNames []string) domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := domain.Board{ID: s.newID(), Name: name, Columns: make([]domain.Column, 0, len(columnNames))}
	for _, colName := range columnNames {
		b.Columns = append(b.Columns, domain.Column{ID: s.newID(), Name: colName, Tasks: []domain.Task{}})
	}
	next := append(domain.CloneBoards(s.boards), b)
	s.commitLocked(ctx, next, b.ID, &change{"board.created", "board", b.ID, map[string]any{"name": name, "columns": columnNames}})
	return b.Clone()
}

// EditBoard renames the board and replaces its column list. Columns whose id
// already exists on the board keep their tasks; other ids start empty. An empty
// id, an id held by a column of another board, or a repeated id gets a fresh one.
func (s *Store) EditBoard(ctx context.Context, boardID, name string, columns []domain.ColumnEdit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ok := findBoard(s.boards, boardID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	b := &next[bi]
	existing := make(map[string]domain.Column, len(b.Columns))
	for _, c := range b.Columns {
		existing[c.ID] = c
	}
	used := map[string]bool{}
	for i, other := range next {
		if i == bi {
			continue
		}
		for _, c := range other.Columns {
			used[c.ID] = true
		}
	}
	cols := make([]domain.Column, 0, len(columns))
	for _, edit := range columns {
		id := edit.ID
		if id == "" || used[id] {
			id = s.newID()
		}
		used[id] = true
		col := domain.Column{ID: id, Name: edit.Name, Tasks: []domain.Task{}}
		if prev, ok := existing[id]; ok {
			col.Tasks = prev.Tasks
			restatus(col.Tasks, edit.Name)
		}
		cols = append(cols, col)
	}
	b.Name = name
	b.Columns = cols
	s.commitLocked(ctx, next, s.activeID, &change{"board.updated", "board", boardID, map[string]any{"name": name, "columns": len(cols)}})
	return true
}

// DeleteBoard removes the board. If it was active the first remaining board
// becomes active.
func (s *Store) DeleteBoard(ctx context.Context, boardID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ok := findBoard(s.boards, boardID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	next = append(next[:bi], next[bi+1:]...)
	s.commitLocked(ctx, next, s.activeID, &change{"board.deleted", "board", boardID, nil})
	return true
}

// AddColumn appends an empty column to the board.
func (s *Store) AddColumn(ctx context.Context, boardID, columnName string) (domain.Column, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ok := findBoard(s.boards, boardID)
	if !ok {
		return domain.Column{}, false
	}
	next := domain.CloneBoards(s.boards)
	col := domain.Column{ID: s.newID(), Name: columnName, Tasks: []domain.Task{}}
	next[bi].Columns = append(next[bi].Columns, col)
	s.commitLocked(ctx, next, s.activeID, &change{"column.created", "column", col.ID, map[string]any{"board_id": boardID, "name": columnName}})
	return col, true
}

// EditColumn renames a column, looked up by id across all boards. The tasks it
// holds take the new name as their status.
func (s *Store) EditColumn(ctx context.Context, columnID, newName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ci, ok := findColumn(s.boards, columnID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	col := &next[bi].Columns[ci]
	col.Name = newName
	restatus(col.Tasks, newName)
	s.commitLocked(ctx, next, s.activeID, &change{"column.renamed", "column", columnID, map[string]any{"name": newName}})
	return true
}

// DeleteColumn removes a column together with its tasks.
func (s *Store) DeleteColumn(ctx context.Context, columnID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ci, ok := findColumn(s.boards, columnID)
	if !ok {
		return false
	}
	next := domain.CloneBoards(s.boards)
	dropped := len(next[bi].Columns[ci].Tasks)
	cols := next[bi].Columns
	next[bi].Columns = append(cols[:ci:ci], cols[ci+1:]...)
	s.commitLocked(ctx, next, s.activeID, &change{"column.deleted", "column", columnID, map[string]any{"board_id": next[bi].ID, "tasks_dropped": dropped}})
	return true
}
