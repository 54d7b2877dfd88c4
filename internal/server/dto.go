package server

import (
	"kanban/internal/board"
	"kanban/internal/domain"
)

type CreateBoardRequest struct {
	Name    string   `json:"name" minLength:"1"`
	Columns []string `json:"columns,omitempty"`
}

type ColumnEditRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name" minLength:"1"`
}

type UpdateBoardRequest struct {
	Name    string              `json:"name" minLength:"1"`
	Columns []ColumnEditRequest `json:"columns"`
}

type ActiveBoardRequest struct {
	BoardID string `json:"boardId" minLength:"1"`
}

type ColumnRequest struct {
	Name string `json:"name" minLength:"1"`
}

type SubtaskRequest struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted,omitempty"`
}

type CreateTaskRequest struct {
	Title       string           `json:"title" minLength:"1"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status,omitempty"`
	Subtasks    []SubtaskRequest `json:"subtasks,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Subtasks    *[]SubtaskRequest `json:"subtasks,omitempty"`
}

type MoveTaskRequest struct {
	FromColumnID string `json:"fromColumnId,omitempty"`
	ToColumnID   string `json:"toColumnId" minLength:"1"`
	Index        *int   `json:"index,omitempty"`
}

type ColumnResponse struct {
	BoardID string `json:"boardId"`
	domain.Column
}

type TaskResponse struct {
	BoardID  string `json:"boardId"`
	ColumnID string `json:"columnId"`
	domain.Task
}

type StateResponse = board.State

func subtasksFromRequest(in []SubtaskRequest) []domain.Subtask {
	out := make([]domain.Subtask, 0, len(in))
	for _, st := range in {
		out = append(out, domain.Subtask{ID: st.ID, Title: st.Title, IsCompleted: st.IsCompleted})
	}
	return out
}

func (r CreateTaskRequest) input() domain.TaskInput {
	return domain.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Subtasks:    subtasksFromRequest(r.Subtasks),
	}
}

func (r UpdateTaskRequest) update() domain.TaskUpdate {
	upd := domain.TaskUpdate{Title: r.Title, Description: r.Description, Status: r.Status}
	if r.Subtasks != nil {
		subs := subtasksFromRequest(*r.Subtasks)
		upd.Subtasks = &subs
	}
	return upd
}

func (r UpdateBoardRequest) edits() []domain.ColumnEdit {
	out := make([]domain.ColumnEdit, 0, len(r.Columns))
	for _, c := range r.Columns {
		out = append(out, domain.ColumnEdit{ID: c.ID, Name: c.Name})
	}
	return out
}
