package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mini-maxit/modelboard/internal/logger"
	"github.com/mini-maxit/modelboard/internal/repository"
	"github.com/mini-maxit/modelboard/pkg/constants"
	pkgerrors "github.com/mini-maxit/modelboard/pkg/errors"
	"github.com/mini-maxit/modelboard/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
)

// Event is delivered to subscribers whenever a session starts or ends.
type Event struct {
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

type SessionToken struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Service interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	SignIn(ctx context.Context, email, password string) (*SessionToken, error)
	SignOut(ctx context.Context, identity models.Identity) error
	CurrentSession(ctx context.Context, token string) (*models.Session, error)
	CurrentUser(ctx context.Context, token string) (*models.User, error)
	// Identify resolves a bearer token into the caller identity.
	Identify(ctx context.Context, token string) (models.Identity, error)
	// Subscribe registers fn for session change events and returns its unsubscribe func.
	Subscribe(fn func(Event)) func()
}

type Config struct {
	Secret     []byte
	SessionTTL time.Duration
}

type service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      Config
	now      func() time.Time

	mu          sync.RWMutex
	subscribers map[int]func(Event)
	nextSubID   int

	logger *zap.SugaredLogger
}

func NewService(users repository.UserRepository, sessions repository.SessionRepository, cfg Config) Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Duration(constants.DefaultSessionTTLHours) * time.Hour
	}
	return &service{
		users:       users,
		sessions:    sessions,
		cfg:         cfg,
		now:         time.Now,
		subscribers: make(map[int]func(Event)),
		logger:      logger.NewNamedLogger("auth"),
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", pkgerrors.NewValidationError("email", pkgerrors.ErrInvalidEmail)
	}
	return email, nil
}

func (s *service) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < constants.MinPasswordLength {
		return nil, pkgerrors.NewValidationError("password", pkgerrors.ErrPasswordTooWeak)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, pkgerrors.ErrEmailTaken) {
			s.logger.Errorf("Failed to create user %s: %s", email, err)
		}
		return nil, err
	}

	s.logger.Infof("User signed up [UserID: %s]", user.ID)
	return user, nil
}

func (s *service) SignIn(ctx context.Context, email, password string) (*SessionToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, pkgerrors.ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	s.publish(Event{Type: EventSignedIn, UserID: user.ID, SessionID: session.ID, At: now})
	return &SessionToken{Token: signed, ExpiresAt: session.ExpiresAt, User: user}, nil
}

func (s *service) SignOut(ctx context.Context, identity models.Identity) error {
	if !identity.IsAuthenticated() {
		return pkgerrors.ErrUnauthenticated
	}
	if err := s.sessions.Delete(ctx, identity.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.publish(Event{Type: EventSignedOut, UserID: identity.UserID, SessionID: identity.SessionID, At: s.now()})
	return nil
}

func (s *service) parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || claims.ID == "" || claims.Subject == "" {
		return nil, pkgerrors.ErrInvalidToken
	}
	return claims, nil
}

func (s *service) CurrentSession(ctx context.Context, token string) (*models.Session, error) {
	session, _, err := s.resolveSession(ctx, token)
	return session, err
}

func (s *service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	session, _, err := s.resolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			return nil, pkgerrors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Identify(ctx context.Context, token string) (models.Identity, error) {
	session, claims, err := s.resolveSession(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{UserID: session.UserID, Email: claims.Email, SessionID: session.ID}, nil
}

// resolveSession checks the token signature and expiry, then that its session was not revoked.
func (s *service) resolveSession(ctx context.Context, token string) (*models.Session, *Claims, error) {
	if token == "" {
		return nil, nil, pkgerrors.ErrUnauthenticated
	}
	claims, err := s.parse(token)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessions.Get(ctx, claims.ID, s.now())
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != claims.Subject {
		return nil, nil, pkgerrors.ErrInvalidToken
	}
	return session, claims, nil
}

func (s *service) Subscribe(fn func(Event)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *service) publish(event Event) {
	s.mu.RLock()
	subscribers := make([]func(Event), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(event)
	}
}
