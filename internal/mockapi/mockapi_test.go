package mockapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/sony/gobreaker"

	"kanban/internal/domain"
)

func TestFetchBoardsReturnsDataset(t *testing.T) {
	c := New(0, 0)
	boards, err := c.FetchBoards(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(boards) == 0 || boards[0].ID == "" || boards[0].Name == "" || boards[0].Columns == nil {
		t.Fatalf("unexpected boards %+v", boards)
	}
	boards[0].Name = "mutated"
	again, _ := c.FetchBoards(context.Background())
	if again[0].Name == "mutated" {
		t.Fatalf("expected a fresh copy per call")
	}
}

func TestFetchBoardByID(t *testing.T) {
	c := New(0, 0)
	b, err := c.FetchBoardByID(context.Background(), "board-1")
	if err != nil || b == nil || b.ID != "board-1" {
		t.Fatalf("expected board-1, got %v %v", b, err)
	}
	b, err = c.FetchBoardByID(context.Background(), "nonexistent")
	if err != nil || b != nil {
		t.Fatalf("expected nil board, got %v %v", b, err)
	}
}

func TestEchoEndpoints(t *testing.T) {
	c := New(0, 0)
	in := domain.Board{ID: "test-1", Name: "Test Board", Columns: []domain.Column{}}
	created, err := c.CreateBoard(context.Background(), in)
	if err != nil || created.ID != in.ID || created.Name != in.Name {
		t.Fatalf("create echo: %+v %v", created, err)
	}
	updated, err := c.UpdateBoard(context.Background(), in)
	if err != nil || updated.Name != in.Name {
		t.Fatalf("update echo: %+v %v", updated, err)
	}
	res, err := c.DeleteBoard(context.Background(), "board-1")
	if err != nil || !res.Success || res.BoardID != "board-1" {
		t.Fatalf("delete: %+v %v", res, err)
	}
}

func TestFailureRate(t *testing.T) {
	c := New(0, 1)
	c.Rand = func() float64 { return 0.5 }
	if _, err := c.FetchBoards(context.Background()); err == nil || err.Error() != FailureMessage {
		t.Fatalf("expected network error, got %v", err)
	}
	c.FailureRate = 0.4
	if _, err := c.FetchBoards(context.Background()); err != nil {
		t.Fatalf("expected success above failure rate, got %v", err)
	}
}

func TestDelayHonoursContext(t *testing.T) {
	c := New(time.Hour, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.FetchBoards(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	inner := New(0, 1)
	src := WithBreaker(inner, BreakerConfig{MaxFailures: 2, OpenFor: time.Hour, Logger: logger})
	for i := 0; i < 2; i++ {
		if _, err := src.FetchBoards(context.Background()); !errors.Is(err, ErrNetwork) {
			t.Fatalf("call %d: expected network error, got %v", i, err)
		}
	}
	inner.FailureRate = 0
	if _, err := src.FetchBoards(context.Background()); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	src := WithBreaker(New(0, 0), BreakerConfig{})
	boards, err := src.FetchBoards(context.Background())
	if err != nil || len(boards) == 0 {
		t.Fatalf("expected boards, got %v %v", boards, err)
	}
}
