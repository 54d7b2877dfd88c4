package mockapi

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"kanban/internal/board"
	"kanban/internal/domain"
)

type BreakerConfig struct {
	Name string
	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32
	// OpenFor is how long the breaker stays open before a trial call.
	OpenFor time.Duration
	Logger  logrus.FieldLogger
}

type breakerSource struct {
	src board.Source
	cb  *gobreaker.CircuitBreaker
}

// WithBreaker guards src with a circuit breaker. While open, fetches fail
// fast with gobreaker.ErrOpenState without calling src.
func WithBreaker(src board.Source, cfg BreakerConfig) board.Source {
	if cfg.Name == "" {
		cfg.Name = "BoardSourceCB"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenFor == 0 {
		cfg.OpenFor = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &breakerSource{
		src: src,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: 1,
			Timeout:     cfg.OpenFor,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("circuit breaker state changed")
			},
		}),
	}
}

func (b *breakerSource) FetchBoards(ctx context.Context) ([]domain.Board, error) {
	res, err := b.cb.Execute(func() (interface{}, error) {
		return b.src.FetchBoards(ctx)
	})
	if err != nil {
		return nil, err
	}
	return res.([]domain.Board), nil
}
