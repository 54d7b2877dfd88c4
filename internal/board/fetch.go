package board

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FetchBoards replaces the collection with the source's. A call made while a
// fetch is in flight returns immediately without touching the source. On
// failure the error message is kept in State.Error and the boards are left as
// they were; the error is also returned.
func (s *Store) FetchBoards(ctx context.Context) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		s.log.WithField("op", "fetch").Debug("fetch already in flight")
		return nil
	}
	if s.source == nil {
		s.mu.Unlock()
		return ErrNoSource
	}
	s.loading = true
	s.fetchErr = nil
	s.notifyLocked()
	s.mu.Unlock()

	s.log.WithField("op", "fetch").Debug("fetching boards")
	boards, err := s.source.FetchBoards(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		msg := err.Error()
		s.fetchErr = &msg
		s.log.WithField("op", "fetch").WithError(err).Warn("fetch boards failed")
		s.notifyLocked()
		return err
	}
	s.fetched = true
	next := normalized(boards)
	s.log.WithFields(logrus.Fields{"op": "fetch", "boards": len(next)}).Info("boards fetched")
	s.commitLocked(ctx, next, "", &change{"boards.fetched", "board", "", map[string]any{"count": len(next)}})
	return nil
}
