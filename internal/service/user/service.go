package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"game-market/internal/domain"
	"game-market/internal/invite"
	tokenrepo "game-market/internal/repository/token"
	userrepo "game-market/internal/repository/user"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	// ErrInvalidEmail is returned for addresses the invite rules would reject too.
	ErrInvalidEmail error = domain.Invalidf("invalid email")
)

const dateLayout = "2006-01-02"

// Service handles signup, login and the friend graph of the acting user.
type Service struct {
	repo        userrepo.Repository
	tokens      *tokenManager
	accessTTL   time.Duration
	refreshTTL  time.Duration
	passwordMin int
	now         func() time.Time
}

// New creates a Service with sane defaults.
func New(repo userrepo.Repository, tokens tokenrepo.Repository) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		accessTTL:   48 * time.Hour,
		refreshTTL:  30 * 24 * time.Hour,
		passwordMin: 8,
		now:         time.Now,
	}
}

// SignupInput captures fields expected by the signup endpoint. DateOfBirth
// is optional; without it the user's age is unknown.
type SignupInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"`
}

// Signup registers a new user.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, domain.Invalidf("email required")
	}
	if !invite.ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalidf("name required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, err
	}

	var dob *time.Time
	if raw := strings.TrimSpace(in.DateOfBirth); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, domain.Invalidf("dateOfBirth must be YYYY-MM-DD")
		}
		if parsed.After(s.now()) {
			return nil, domain.Invalidf("dateOfBirth is in the future")
		}
		dob = &parsed
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashed),
		Name:         name,
		DateOfBirth:  dob,
	})
}

// Login validates credentials and returns issued tokens plus the user.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, string, string, error) {
	password = strings.TrimSpace(password)
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", "", ErrInvalidCredentials
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	access, err := s.tokens.Issue(ctx, u.ID, kindAccess, s.accessTTL)
	if err != nil {
		return nil, "", "", err
	}
	refresh, err := s.tokens.Issue(ctx, u.ID, kindRefresh, s.refreshTTL)
	if err != nil {
		return nil, "", "", err
	}
	return u, access, refresh, nil
}

// LookupByToken returns the user bound to a valid access token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.User, error) {
	userID, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}

// AddFriendByEmail links the acting user with the account registered under email.
func (s *Service) AddFriendByEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	friend, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if friend.ID == userID {
		return nil, domain.Invalidf("cannot befriend yourself")
	}
	if err := s.repo.AddFriend(ctx, userID, friend.ID); err != nil {
		return nil, err
	}
	return friend, nil
}

// ListFriends returns the friends of userID.
func (s *Service) ListFriends(ctx context.Context, userID string) ([]domain.UserShortInfo, error) {
	return s.repo.ListFriends(ctx, userID)
}

// PurgeExpiredTokens drops tokens whose lifetime ended.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokens.repo.DeleteExpired(ctx, s.now())
}

// AccessTTLSeconds exposes the access token lifetime in seconds.
func (s *Service) AccessTTLSeconds() int {
	return int(s.accessTTL.Seconds())
}

func validatePassword(p string, minLen int) error {
	trimmed := strings.TrimSpace(p)
	if len(trimmed) < minLen {
		return domain.Invalidf("password must be at least %d characters", minLen)
	}
	hasUpper := false
	hasLower := false
	hasDigit := false
	for _, r := range trimmed {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return domain.Invalidf("password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
