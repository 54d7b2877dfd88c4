package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"kanban/internal/board"
	"kanban/internal/domain"
	"kanban/internal/mockapi"
)

type boardPath struct {
	BoardID string `path:"board_id"`
}

type columnPath struct {
	ColumnID string `path:"column_id"`
}

type taskPath struct {
	TaskID string `path:"task_id"`
}

func registerState(api huma.API, s *board.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/state",
		Summary:     "Current store state",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body StateResponse `json:"body"`
	}, error) {
		return &struct {
			Body StateResponse `json:"body"`
		}{Body: s.State()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "fetch-boards",
		Method:      http.MethodPost,
		Path:        "/fetch",
		Summary:     "Replace the collection with the remote boards",
		Description: "A fetch requested while another is in flight returns the current state without fetching again.",
		Errors:      []int{http.StatusBadGateway, http.StatusServiceUnavailable},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body StateResponse `json:"body"`
	}, error) {
		if err := s.FetchBoards(ctx); err != nil {
			if errors.Is(err, mockapi.ErrNetwork) {
				return nil, newAPIError(http.StatusBadGateway, "fetch_failed", err.Error(), nil)
			}
			return nil, handleError(err)
		}
		return &struct {
			Body StateResponse `json:"body"`
		}{Body: s.State()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-active-board",
		Method:      http.MethodPut,
		Path:        "/active-board",
		Summary:     "Select the active board",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body ActiveBoardRequest `json:"body"`
	}) (*struct {
		Body domain.Board `json:"body"`
	}, error) {
		if !s.SetActiveBoardByID(ctx, input.Body.BoardID) {
			return nil, notFound("board", input.Body.BoardID)
		}
		active := s.ActiveBoard()
		if active == nil {
			return nil, notFound("board", input.Body.BoardID)
		}
		return &struct {
			Body domain.Board `json:"body"`
		}{Body: *active}, nil
	})
}

func registerBoards(api huma.API, s *board.Store) {
	huma.Register(api, huma.Operation{
		OperationID: "list-boards",
		Method:      http.MethodGet,
		Path:        "/boards",
		Summary:     "List boards",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Board `json:"body"`
	}, error) {
		return &struct {
			Body []domain.Board `json:"body"`
		}{Body: s.Boards()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-board",
		Method:        http.MethodPost,
		Path:          "/boards",
		Summary:       "Create board",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body CreateBoardRequest `json:"body"`
	}) (*struct {
		Body domain.Board `json:"body"`
	}, error) {
		b := s.AddBoard(ctx, input.Body.Name, input.Body.Columns)
		return &struct {
			Body domain.Board `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-board",
		Method:      http.MethodGet,
		Path:        "/boards/{board_id}",
		Summary:     "Get board",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *boardPath) (*struct {
		Body domain.Board `json:"body"`
	}, error) {
		b, ok := s.Board(input.BoardID)
		if !ok {
			return nil, notFound("board", input.BoardID)
		}
		return &struct {
			Body domain.Board `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-board",
		Method:      http.MethodPut,
		Path:        "/boards/{board_id}",
		Summary:     "Rename a board and replace its column set",
		Description: "Columns sent with the id of an existing column keep their tasks. Columns without an id start empty. Columns left out are removed with their tasks.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		BoardID string             `path:"board_id"`
		Body    UpdateBoardRequest `json:"body"`
	}) (*struct {
		Body domain.Board `json:"body"`
	}, error) {
		if !s.EditBoard(ctx, input.BoardID, input.Body.Name, input.Body.edits()) {
			return nil, notFound("board", input.BoardID)
		}
		b, _ := s.Board(input.BoardID)
		return &struct {
			Body domain.Board `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-board",
		Method:        http.MethodDelete,
		Path:          "/boards/{board_id}",
		Summary:       "Delete board",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *boardPath) (*struct{}, error) {
		if !s.DeleteBoard(ctx, input.BoardID) {
			return nil, notFound("board", input.BoardID)
		}
		return &struct{}{}, nil
	})
}

func registerColumns(api huma.API, s *board.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "add-column",
		Method:        http.MethodPost,
		Path:          "/boards/{board_id}/columns",
		Summary:       "Append a column to a board",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		BoardID string        `path:"board_id"`
		Body    ColumnRequest `json:"body"`
	}) (*struct {
		Body ColumnResponse `json:"body"`
	}, error) {
		c, ok := s.AddColumn(ctx, input.BoardID, input.Body.Name)
		if !ok {
			return nil, notFound("board", input.BoardID)
		}
		return &struct {
			Body ColumnResponse `json:"body"`
		}{Body: ColumnResponse{BoardID: input.BoardID, Column: c}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "rename-column",
		Method:      http.MethodPatch,
		Path:        "/columns/{column_id}",
		Summary:     "Rename a column",
		Description: "Tasks in the column take the new name as their status.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ColumnID string        `path:"column_id"`
		Body     ColumnRequest `json:"body"`
	}) (*struct {
		Body ColumnResponse `json:"body"`
	}, error) {
		if !s.EditColumn(ctx, input.ColumnID, input.Body.Name) {
			return nil, notFound("column", input.ColumnID)
		}
		c, boardID, _ := s.Column(input.ColumnID)
		return &struct {
			Body ColumnResponse `json:"body"`
		}{Body: ColumnResponse{BoardID: boardID, Column: c}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-column",
		Method:        http.MethodDelete,
		Path:          "/columns/{column_id}",
		Summary:       "Delete a column and its tasks",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *columnPath) (*struct{}, error) {
		if !s.DeleteColumn(ctx, input.ColumnID) {
			return nil, notFound("column", input.ColumnID)
		}
		return &struct{}{}, nil
	})
}

func taskResponse(s *board.Store, taskID string) (TaskResponse, bool) {
	t, boardID, columnID, ok := s.Task(taskID)
	if !ok {
		return TaskResponse{}, false
	}
	return TaskResponse{BoardID: boardID, ColumnID: columnID, Task: t}, true
}

func registerTasks(api huma.API, s *board.Store) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-task",
		Method:        http.MethodPost,
		Path:          "/columns/{column_id}/tasks",
		Summary:       "Create a task in a column",
		Description:   "When no column has the given id, the task goes to the first column named by status, active board first.",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ColumnID string            `path:"column_id"`
		Body     CreateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		t, ok := s.AddTask(ctx, input.ColumnID, input.Body.input())
		if !ok {
			return nil, notFound("column", input.ColumnID)
		}
		resp, _ := taskResponse(s, t.ID)
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-task",
		Method:      http.MethodGet,
		Path:        "/tasks/{task_id}",
		Summary:     "Get task",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *taskPath) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		resp, ok := taskResponse(s, input.TaskID)
		if !ok {
			return nil, notFound("task", input.TaskID)
		}
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-task",
		Method:      http.MethodPatch,
		Path:        "/tasks/{task_id}",
		Summary:     "Update task fields",
		Description: "A status naming another column of the same board moves the task there.",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string            `path:"task_id"`
		Body   UpdateTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		if _, ok := taskResponse(s, input.TaskID); !ok {
			return nil, notFound("task", input.TaskID)
		}
		if !s.EditTask(ctx, input.TaskID, input.Body.update()) {
			status := ""
			if input.Body.Status != nil {
				status = *input.Body.Status
			}
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "status does not name a column on the task's board", map[string]any{"status": status})
		}
		resp, _ := taskResponse(s, input.TaskID)
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-task",
		Method:        http.MethodDelete,
		Path:          "/tasks/{task_id}",
		Summary:       "Delete task",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *taskPath) (*struct{}, error) {
		if !s.DeleteTask(ctx, input.TaskID) {
			return nil, notFound("task", input.TaskID)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-task",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/move",
		Summary:     "Move a task to a column of the same board",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID string          `path:"task_id"`
		Body   MoveTaskRequest `json:"body"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		current, ok := taskResponse(s, input.TaskID)
		if !ok {
			return nil, notFound("task", input.TaskID)
		}
		if _, _, ok := s.Column(input.Body.ToColumnID); !ok {
			return nil, notFound("column", input.Body.ToColumnID)
		}
		from := input.Body.FromColumnID
		if from == "" {
			from = current.ColumnID
		}
		if !s.MoveTask(ctx, input.TaskID, from, input.Body.ToColumnID, input.Body.Index) {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "task can only move between columns of its board", map[string]any{
				"fromColumnId": from,
				"toColumnId":   input.Body.ToColumnID,
			})
		}
		resp, _ := taskResponse(s, input.TaskID)
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-subtask",
		Method:      http.MethodPost,
		Path:        "/tasks/{task_id}/subtasks/{subtask_id}/toggle",
		Summary:     "Flip a subtask's completion flag",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		TaskID    string `path:"task_id"`
		SubtaskID string `path:"subtask_id"`
	}) (*struct {
		Body TaskResponse `json:"body"`
	}, error) {
		if !s.ToggleSubtask(ctx, input.TaskID, input.SubtaskID) {
			return nil, notFound("subtask", input.SubtaskID)
		}
		resp, _ := taskResponse(s, input.TaskID)
		return &struct {
			Body TaskResponse `json:"body"`
		}{Body: resp}, nil
	})
}
