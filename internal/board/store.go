package board

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"kanban/internal/domain"
	"kanban/internal/seed"
)

// Source is the remote boundary the store fetches the full collection from.
type Source interface {
	FetchBoards(ctx context.Context) ([]domain.Board, error)
}

// Persister is the durable local copy of the collection.
// LoadBoards must return ErrNoSnapshot when nothing was saved yet and
// ErrCorruptSnapshot when the saved data cannot be decoded.
type Persister interface {
	LoadBoards(ctx context.Context) ([]domain.Board, string, error)
	SaveBoards(ctx context.Context, boards []domain.Board, activeBoardID string) error
}

// Recorder receives one activity event per applied mutation.
type Recorder interface {
	Record(ctx context.Context, evtType, entityKind, entityID string, payload map[string]any) error
}

var (
	ErrNoSnapshot      = errors.New("no stored boards")
	ErrCorruptSnapshot = errors.New("stored boards are corrupt")
	ErrNoSource        = errors.New("no board source configured")
)

// State is a snapshot of everything the store exposes to views.
type State struct {
	Boards      []domain.Board `json:"boards"`
	ActiveBoard *domain.Board  `json:"activeBoard"`
	IsLoading   bool           `json:"isLoading"`
	Error       *string        `json:"error"`
	HasFetched  bool           `json:"hasFetched"`
}

type Options struct {
	Source    Source
	Persister Persister
	Recorder  Recorder
	// Boards is the collection the store starts with before Load or FetchBoards.
	Boards []domain.Board
	// Seed returns the fallback dataset used when durable storage is empty or corrupt.
	Seed   func() []domain.Board
	NewID  func() string
	Logger logrus.FieldLogger
}

// Store owns the board collection. All mutations go through it and it is safe
// for concurrent use; operations are serialized by one mutex.
type Store struct {
	mu       sync.Mutex
	boards   []domain.Board
	activeID string
	loading  bool
	fetchErr *string
	fetched  bool

	source   Source
	persist  Persister
	recorder Recorder
	seed     func() []domain.Board
	newID    func() string
	log      logrus.FieldLogger

	subs    map[int]chan State
	nextSub int
}

func New(opts Options) *Store {
	s := &Store{
		source:   opts.Source,
		persist:  opts.Persister,
		recorder: opts.Recorder,
		seed:     opts.Seed,
		newID:    opts.NewID,
		log:      opts.Logger,
		subs:     map[int]chan State{},
	}
	if s.seed == nil {
		s.seed = seed.Boards
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.boards = normalized(opts.Boards)
	if active := ResolveActive(s.boards, ""); active != nil {
		s.activeID = active.ID
	}
	return s
}

// Load seeds the collection from durable storage. Missing or corrupt data
// falls back to the seed dataset; other storage failures are returned.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	boards, activeID, err := s.persist.LoadBoards(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSnapshot):
		s.log.WithField("op", "load").Info("no stored boards, using seed dataset")
		boards, activeID = s.seed(), ""
	case errors.Is(err, ErrCorruptSnapshot):
		s.log.WithField("op", "load").WithError(err).Warn("stored boards unreadable, using seed dataset")
		boards, activeID = s.seed(), ""
	default:
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = normalized(boards)
	s.activeID = activeIDOf(ResolveActive(s.boards, activeID))
	s.notifyLocked()
	return nil
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Boards() []domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneBoards(s.boards)
}

func (s *Store) ActiveBoard() *domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := ResolveActive(s.boards, s.activeID); b != nil {
		out := b.Clone()
		return &out
	}
	return nil
}

// Board returns the board with the given id.
func (s *Store) Board(id string) (domain.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.boards {
		if b.ID == id {
			return b.Clone(), true
		}
	}
	return domain.Board{}, false
}

// Column returns the column with the given id and the id of its board.
func (s *Store) Column(id string) (domain.Column, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bi, ci, ok := findColumn(s.boards, id)
	if !ok {
		return domain.Column{}, "", false
	}
	return s.boards[bi].Columns[ci].Clone(), s.boards[bi].ID, true
}

// Task finds a task anywhere in the collection and reports the ids of the
// board and column holding it.
func (s *Store) Task(id string) (task domain.Task, boardID, columnID string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc, found := findTask(s.boards, id)
	if !found {
		return domain.Task{}, "", "", false
	}
	b := s.boards[loc.board]
	c := b.Columns[loc.column]
	return c.Tasks[loc.task].Clone(), b.ID, c.ID, true
}

// Subscribe delivers a snapshot after every state change. Slow readers only
// see the latest snapshot. Call cancel to stop delivery.
func (s *Store) Subscribe() (<-chan State, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	ch := make(chan State, 1)
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

func (s *Store) snapshotLocked() State {
	st := State{
		Boards:     domain.CloneBoards(s.boards),
		IsLoading:  s.loading,
		HasFetched: s.fetched,
	}
	if st.Boards == nil {
		st.Boards = []domain.Board{}
	}
	if s.fetchErr != nil {
		msg := *s.fetchErr
		st.Error = &msg
	}
	if b := ResolveActive(st.Boards, s.activeID); b != nil {
		active := b.Clone()
		st.ActiveBoard = &active
	}
	return st
}

func (s *Store) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	st := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// drop the stale snapshot and replace it
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

type change struct {
	evtType    string
	entityKind string
	entityID   string
	payload    map[string]any
}

// commitLocked installs next as the collection, re-derives the active board
// from activeID, persists, records and notifies.
func (s *Store) commitLocked(ctx context.Context, next []domain.Board, activeID string, c *change) {
	s.boards = next
	s.activeID = activeIDOf(ResolveActive(next, activeID))
	s.saveLocked(ctx)
	if c != nil && s.recorder != nil {
		if err := s.recorder.Record(ctx, c.evtType, c.entityKind, c.entityID, c.payload); err != nil {
			s.log.WithFields(logrus.Fields{"op": c.evtType, "entity_id": c.entityID}).WithError(err).Error("record event")
		}
	}
	s.notifyLocked()
}

func (s *Store) saveLocked(ctx context.Context) {
	if s.persist == nil {
		return
	}
	if err := s.persist.SaveBoards(ctx, domain.CloneBoards(s.boards), s.activeID); err != nil {
		s.log.WithField("op", "save").WithError(err).Error("persist boards")
	}
}

func normalized(in []domain.Board) []domain.Board {
	out := domain.CloneBoards(in)
	if out == nil {
		return []domain.Board{}
	}
	for i := range out {
		out[i].Normalize()
	}
	return out
}

func activeIDOf(b *domain.Board) string {
	if b == nil {
		return ""
	}
	return b.ID
}
