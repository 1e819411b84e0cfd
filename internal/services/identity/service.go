package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 7 * 24 * time.Hour

const minPasswordLength = 6

var (
	// ErrEmailTaken is returned when registering an address that already
	// has an account.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidCredentials is returned for any failed login. Unknown
	// email and wrong password are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidInput wraps rejected registration or address fields.
	ErrInvalidInput = errors.New("invalid input")
)

// Store is the persisted user and session set.
type Store interface {
	InsertUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateAddresses(ctx context.Context, userID string, addresses []models.SavedAddress) error
	InsertSession(ctx context.Context, s *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Service owns accounts and sessions. Passwords are stored as bcrypt
// hashes; session tokens are opaque random strings.
type Service struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time
}

// NewService creates the identity service.
func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, logger: log, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Register creates an account and logs it in.
func (s *Service) Register(ctx context.Context, name, email, phone, password string) (*models.User, *models.Session, error) {
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed email address", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil, nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &models.User{
		ID:           generateUserID(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Addresses:    []models.SavedAddress{},
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return nil, nil, fmt.Errorf("failed to insert user: %w", err)
	}

	s.logger.Info("user_registered", fmt.Sprintf("User %s registered", u.Email), "", map[string]interface{}{
		"user_id": u.ID,
	})

	session, err := s.createSession(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return u, session, nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user_logged_in", fmt.Sprintf("User %s logged in", u.Email), "", map[string]interface{}{
		"user_id": u.ID,
	})
	return u, session, nil
}

// Logout closes a session. Unknown tokens are fine.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.store.DeleteSession(ctx, token)
}

// Resolve turns a bearer token into the acting user. Anything that does
// not resolve to a live session is the guest.
func (s *Service) Resolve(ctx context.Context, token string) models.Actor {
	if token == "" {
		return models.Guest()
	}
	session, err := s.store.GetSession(ctx, token)
	if err != nil || s.now().After(session.ExpiresAt) {
		return models.Guest()
	}
	u, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.Guest()
	}
	return u.Actor()
}

// Profile returns the account behind an actor.
func (s *Service) Profile(ctx context.Context, actor models.Actor) (*models.User, error) {
	return s.store.GetUserByID(ctx, actor.ID)
}

// SaveAddresses replaces the user's address book.
func (s *Service) SaveAddresses(ctx context.Context, actor models.Actor, addresses []models.SavedAddress) (*models.User, error) {
	for _, a := range addresses {
		if err := a.Address.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	if addresses == nil {
		addresses = []models.SavedAddress{}
	}
	if err := s.store.UpdateAddresses(ctx, actor.ID, addresses); err != nil {
		return nil, fmt.Errorf("failed to update addresses: %w", err)
	}
	return s.store.GetUserByID(ctx, actor.ID)
}

// EnsureAdmin seeds the administrator account if it does not exist yet.
// Hashing happens here rather than in a migration so the password never
// appears pre-hashed in version control.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	u := &models.User{
		ID:           generateUserID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Admin:        true,
		Addresses:    []models.SavedAddress{},
	}
	if err := s.store.InsertUser(ctx, u); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	s.logger.Info("admin_seeded", fmt.Sprintf("Administrator account %s created", email), "", map[string]interface{}{
		"user_id": u.ID,
	})
	return nil
}

func (s *Service) createSession(ctx context.Context, userID string) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		Token:     generateToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.InsertSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}
	return session, nil
}

func generateUserID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "usr_unknown"
	}
	return "usr_" + hex.EncodeToString(buf)
}

func generateToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
