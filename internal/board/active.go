package board

import "kanban/internal/domain"

// ResolveActive derives the active board from the collection and the id of the
// previously active board: the board with that id, else the first board, else nil.
// The result points into boards.
func ResolveActive(boards []domain.Board, prevID string) *domain.Board {
	if prevID != "" {
		for i := range boards {
			if boards[i].ID == prevID {
				return &boards[i]
			}
		}
	}
	if len(boards) > 0 {
		return &boards[0]
	}
	return nil
}

type taskLoc struct {
	board, column, task int
}

func findTask(boards []domain.Board, taskID string) (taskLoc, bool) {
	for bi, b := range boards {
		for ci, c := range b.Columns {
			for ti, t := range c.Tasks {
				if t.ID == taskID {
					return taskLoc{bi, ci, ti}, true
				}
			}
		}
	}
	return taskLoc{}, false
}

func findColumn(boards []domain.Board, columnID string) (board, column int, ok bool) {
	for bi, b := range boards {
		for ci, c := range b.Columns {
			if c.ID == columnID {
				return bi, ci, true
			}
		}
	}
	return 0, 0, false
}

func findBoard(boards []domain.Board, boardID string) (int, bool) {
	for i, b := range boards {
		if b.ID == boardID {
			return i, true
		}
	}
	return 0, false
}

func columnByName(b domain.Board, name string) (int, bool) {
	for i, c := range b.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

func removeTask(tasks []domain.Task, i int) []domain.Task {
	out := make([]domain.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}

// insertTask places t at index, clamped to the bounds of tasks.
func insertTask(tasks []domain.Task, t domain.Task, index *int) []domain.Task {
	at := len(tasks)
	if index != nil {
		at = *index
		if at < 0 {
			at = 0
		}
		if at > len(tasks) {
			at = len(tasks)
		}
	}
	out := make([]domain.Task, 0, len(tasks)+1)
	out = append(out, tasks[:at]...)
	out = append(out, t)
	return append(out, tasks[at:]...)
}

func restatus(tasks []domain.Task, status string) {
	for i := range tasks {
		tasks[i].Status = status
	}
}
