package mockapi

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"kanban/internal/domain"
	"kanban/internal/seed"
)

const (
	DefaultDelay   = 3 * time.Second
	FailureMessage = "Network error: Failed to fetch data from server."
)

var ErrNetwork = errors.New(FailureMessage)

// Client simulates a board REST API over a fixed dataset.
type Client struct {
	// Delay is applied to every call.
	Delay time.Duration
	// FailureRate is the probability in [0,1] that a call fails with ErrNetwork.
	FailureRate float64
	// Boards returns the dataset served by the client.
	Boards func() []domain.Board
	Rand   func() float64
}

// New returns a client serving the seed dataset.
func New(delay time.Duration, failureRate float64) *Client {
	return &Client{Delay: delay, FailureRate: failureRate, Boards: seed.Boards, Rand: rand.Float64}
}

type DeleteResult struct {
	Success bool   `json:"success"`
	BoardID string `json:"boardId"`
}

func (c *Client) dataset() []domain.Board {
	if c.Boards == nil {
		return seed.Boards()
	}
	return domain.CloneBoards(c.Boards())
}

func (c *Client) simulate(ctx context.Context) error {
	if c.Delay > 0 {
		timer := time.NewTimer(c.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	roll := rand.Float64
	if c.Rand != nil {
		roll = c.Rand
	}
	if c.FailureRate > 0 && roll() < c.FailureRate {
		return ErrNetwork
	}
	return nil
}

// FetchBoards is GET /api/boards.
func (c *Client) FetchBoards(ctx context.Context) ([]domain.Board, error) {
	if err := c.simulate(ctx); err != nil {
		return nil, err
	}
	return c.dataset(), nil
}

// FetchBoardByID is GET /api/boards/:id. Unknown ids yield nil.
func (c *Client) FetchBoardByID(ctx context.Context, id string) (*domain.Board, error) {
	if err := c.simulate(ctx); err != nil {
		return nil, err
	}
	for _, b := range c.dataset() {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

// CreateBoard is POST /api/boards; it echoes the board.
func (c *Client) CreateBoard(ctx context.Context, b domain.Board) (domain.Board, error) {
	if err := c.simulate(ctx); err != nil {
		return domain.Board{}, err
	}
	return b.Clone(), nil
}

// UpdateBoard is PUT /api/boards/:id; it echoes the board.
func (c *Client) UpdateBoard(ctx context.Context, b domain.Board) (domain.Board, error) {
	if err := c.simulate(ctx); err != nil {
		return domain.Board{}, err
	}
	return b.Clone(), nil
}

// DeleteBoard is DELETE /api/boards/:id.
func (c *Client) DeleteBoard(ctx context.Context, id string) (DeleteResult, error) {
	if err := c.simulate(ctx); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Success: true, BoardID: id}, nil
}
