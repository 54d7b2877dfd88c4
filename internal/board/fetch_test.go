package board

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"kanban/internal/domain"
)

type fakeSource struct {
	calls   atomic.Int32
	release chan struct{}
	boards  []domain.Board
	err     error
}

func (f *fakeSource) FetchBoards(ctx context.Context) ([]domain.Board, error) {
	f.calls.Add(1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return domain.CloneBoards(f.boards), nil
}

func newFetchStore(src Source) (*Store, *memPersister) {
	p := &memPersister{}
	return New(Options{Source: src, Persister: p, Logger: quietLogger()}), p
}

func TestFetchBoardsPopulatesState(t *testing.T) {
	src := &fakeSource{boards: fixtureBoards()}
	s, p := newFetchStore(src)
	if err := s.FetchBoards(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	st := s.State()
	want := normalized(fixtureBoards())
	if !reflect.DeepEqual(st.Boards, want) {
		t.Fatalf("unexpected boards %+v", st.Boards)
	}
	if st.ActiveBoard == nil || st.ActiveBoard.ID != "board-1" {
		t.Fatalf("expected first board active")
	}
	if st.IsLoading || !st.HasFetched || st.Error != nil {
		t.Fatalf("unexpected flags %+v", st)
	}
	if p.saves != 1 {
		t.Fatalf("expected fetched boards persisted")
	}
}

func TestFetchBoardsEmptyResult(t *testing.T) {
	s, _ := newFetchStore(&fakeSource{boards: []domain.Board{}})
	if err := s.FetchBoards(context.Background()); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	st := s.State()
	if st.ActiveBoard != nil || len(st.Boards) != 0 || !st.HasFetched {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestFetchBoardsFailureKeepsBoards(t *testing.T) {
	s, _ := newFetchStore(&fakeSource{err: errors.New("Network error")})
	if err := s.FetchBoards(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	st := s.State()
	if st.Error == nil || *st.Error != "Network error" {
		t.Fatalf("expected error message kept verbatim, got %v", st.Error)
	}
	if st.IsLoading || st.HasFetched || len(st.Boards) != 0 {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestFetchBoardsRetryClearsError(t *testing.T) {
	src := &fakeSource{err: errors.New("Network error")}
	s, _ := newFetchStore(src)
	_ = s.FetchBoards(context.Background())
	src.err = nil
	src.boards = fixtureBoards()
	if err := s.FetchBoards(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if st := s.State(); st.Error != nil || len(st.Boards) != 2 {
		t.Fatalf("expected recovered state, got %+v", st)
	}
}

func TestFetchBoardsSkipsWhileLoading(t *testing.T) {
	src := &fakeSource{release: make(chan struct{}), boards: fixtureBoards()}
	s, _ := newFetchStore(src)
	ch, cancel := s.Subscribe()
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.FetchBoards(context.Background()) }()

	select {
	case st := <-ch:
		if !st.IsLoading || st.Error != nil {
			t.Fatalf("expected loading state, got %+v", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for loading state")
	}
	if err := s.FetchBoards(context.Background()); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if n := src.calls.Load(); n != 1 {
		t.Fatalf("expected one source call, got %d", n)
	}
	if st := s.State(); st.IsLoading || !st.HasFetched {
		t.Fatalf("unexpected final state %+v", st)
	}
}

func TestFetchBoardsWithoutSource(t *testing.T) {
	s := New(Options{Logger: quietLogger()})
	if err := s.FetchBoards(context.Background()); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	if s.State().IsLoading {
		t.Fatalf("expected not loading")
	}
}
