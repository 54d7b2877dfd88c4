package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"kanban/internal/board"
	"kanban/internal/domain"
)

// BoardRepo persists the board collection as two documents: the board array
// and the active board id.
type BoardRepo struct {
	KV KV
}

func (r BoardRepo) LoadBoards(ctx context.Context) ([]domain.Board, string, error) {
	raw, err := r.KV.Get(ctx, KeyBoards)
	if errors.Is(err, ErrNotFound) {
		return nil, "", board.ErrNoSnapshot
	}
	if err != nil {
		return nil, "", fmt.Errorf("read boards: %w", err)
	}
	var boards []domain.Board
	if err := json.Unmarshal(raw, &boards); err != nil {
		return nil, "", fmt.Errorf("%w: %v", board.ErrCorruptSnapshot, err)
	}
	if boards == nil {
		return nil, "", fmt.Errorf("%w: boards document is null", board.ErrCorruptSnapshot)
	}
	var activeID string
	raw, err = r.KV.Get(ctx, KeyActiveBoard)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, "", fmt.Errorf("read active board: %w", err)
	default:
		// an unreadable active id just falls back to the first board
		_ = json.Unmarshal(raw, &activeID)
	}
	return boards, activeID, nil
}

func (r BoardRepo) SaveBoards(ctx context.Context, boards []domain.Board, activeBoardID string) error {
	if boards == nil {
		boards = []domain.Board{}
	}
	data, err := json.Marshal(boards)
	if err != nil {
		return fmt.Errorf("encode boards: %w", err)
	}
	var active []byte
	if activeBoardID != "" {
		if active, err = json.Marshal(activeBoardID); err != nil {
			return fmt.Errorf("encode active board: %w", err)
		}
	}
	if s, ok := r.KV.(SQLite); ok {
		values := map[string][]byte{KeyBoards: data}
		if active == nil {
			return s.putAll(ctx, values, KeyActiveBoard)
		}
		values[KeyActiveBoard] = active
		return s.putAll(ctx, values)
	}
	if err := r.KV.Put(ctx, KeyBoards, data); err != nil {
		return fmt.Errorf("write boards: %w", err)
	}
	if active == nil {
		return r.KV.Delete(ctx, KeyActiveBoard)
	}
	if err := r.KV.Put(ctx, KeyActiveBoard, active); err != nil {
		return fmt.Errorf("write active board: %w", err)
	}
	return nil
}

// Clear removes both documents.
func (r BoardRepo) Clear(ctx context.Context) error {
	if err := r.KV.Delete(ctx, KeyBoards); err != nil {
		return err
	}
	return r.KV.Delete(ctx, KeyActiveBoard)
}
