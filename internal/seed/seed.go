package seed

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"kanban/internal/domain"
)

//go:embed data.json
var data []byte

// Boards returns a fresh copy of the built-in dataset.
func Boards() []domain.Board {
	boards, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("seed: embedded dataset is invalid: %v", err))
	}
	return boards
}

// Parse decodes a board collection and normalizes empty lists.
func Parse(raw []byte) ([]domain.Board, error) {
	var boards []domain.Board
	if err := json.Unmarshal(raw, &boards); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}
	if boards == nil {
		boards = []domain.Board{}
	}
	for i := range boards {
		boards[i].Normalize()
	}
	return boards, nil
}
