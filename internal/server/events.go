package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"kanban/internal/domain"
	"kanban/internal/events"
)

type eventList struct {
	Items []domain.Event `json:"items"`
}

func registerEvents(api huma.API, w events.Writer) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "List recent activity, newest first",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Type       string `query:"type"`
		EntityKind string `query:"entity_kind" enum:"board,column,task,subtask"`
		EntityID   string `query:"entity_id"`
		Limit      int    `query:"limit" default:"50" minimum:"1" maximum:"500"`
	}) (*struct {
		Body eventList `json:"body"`
	}, error) {
		if w.DB == nil {
			return &struct {
				Body eventList `json:"body"`
			}{Body: eventList{Items: []domain.Event{}}}, nil
		}
		items, err := w.Latest(ctx, events.Filter{
			Type:       input.Type,
			EntityKind: input.EntityKind,
			EntityID:   input.EntityID,
			Limit:      input.Limit,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body eventList `json:"body"`
		}{Body: eventList{Items: items}}, nil
	})
}
