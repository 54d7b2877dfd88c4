// Package auth checks demo credentials and issues and verifies session tokens.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"kanban/internal/domain"
)

const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"

	DefaultTTL        = 24 * time.Hour
	DefaultLoginDelay = 500 * time.Millisecond
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNoSecret           = errors.New("jwt secret not configured")
)

// DemoUser is the single account accepted by Login.
var DemoUser = domain.User{ID: "1", Name: "Demo User", Email: DemoEmail}

type account struct {
	user domain.User
	hash []byte
}

type Config struct {
	Secret     string
	TTL        time.Duration
	LoginDelay time.Duration
	// Cost is the bcrypt cost for stored password hashes.
	Cost int
	Now  func() time.Time
}

type Service struct {
	cfg      Config
	accounts map[string]account
}

// Session is what a successful login hands back and what the CLI keeps.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func New(cfg Config) (*Service, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrNoSecret
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Cost == 0 {
		cfg.Cost = bcrypt.DefaultCost
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cfg.Cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &Service{cfg: cfg, accounts: map[string]account{
		DemoEmail: {user: DemoUser, hash: hash},
	}}, nil
}

// Login checks the credentials after the configured delay and returns a
// signed token for the user.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	if s.cfg.LoginDelay > 0 {
		timer := time.NewTimer(s.cfg.LoginDelay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return Session{}, ctx.Err()
		}
	}
	acc, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, err := s.Issue(acc.user)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: acc.user}, nil
}

// Issue signs an HS256 token for u.
func (s *Service) Issue(u domain.User) (string, error) {
	now := s.cfg.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
		Name:  u.Name,
		Email: u.Email,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(s.cfg.Secret))
}

// Verify parses a token and returns the user it was issued for.
func (s *Service) Verify(token string) (domain.User, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.cfg.Now),
	)
	c := &claims{}
	parsed, err := parser.ParseWithClaims(token, c, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || c.Subject == "" {
		return domain.User{}, ErrInvalidToken
	}
	return domain.User{ID: c.Subject, Name: c.Name, Email: c.Email}, nil
}

// NewSecret returns a random hex secret suitable for HS256.
func NewSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
