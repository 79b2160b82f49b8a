package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/nextgen/nextgen-api/internal/domain"
	"github.com/nextgen/nextgen-api/internal/platform/auth"
	"github.com/nextgen/nextgen-api/internal/platform/hash"
	"github.com/nextgen/nextgen-api/internal/platform/mailer"
	"github.com/nextgen/nextgen-api/internal/repo/postgres"
	"github.com/nextgen/nextgen-api/pkg/config"
	"github.com/nextgen/nextgen-api/pkg/events"
	"github.com/nextgen/nextgen-api/pkg/logger"
)

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Signin(ctx context.Context, req *domain.SigninRequest) (string, *domain.User, error)
	RequestVerificationCode(ctx context.Context, email string) error
	ConfirmVerificationCode(ctx context.Context, email, providedCode string) error
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}

type authService struct {
	userRepo postgres.UserRepository
	mailer   mailer.Service
	eventBus events.Publisher
	hasher   *hash.Hasher
	config   *config.Config

	// Overridable for tests.
	now     func() time.Time
	newCode func() (string, error)
}

func NewAuthService(
	userRepo postgres.UserRepository,
	mailSvc mailer.Service,
	eventBus events.Publisher,
	hasher *hash.Hasher,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo: userRepo,
		mailer:   mailSvc,
		eventBus: eventBus,
		hasher:   hasher,
		config:   cfg,
		now:      time.Now,
		newCode:  generateVerificationCode,
	}
}

// generateVerificationCode draws uniformly from [0, 1000000) and
// returns the unpadded decimal string: a draw of 42 is "42", not
// "000042". The HMAC is computed over exactly this form, so the
// client must echo the code back verbatim.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to draw verification code: %w", err)
	}
	return n.String(), nil
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// The unique index is the backstop; this check gives the duplicate
	// a friendly error before burning a hash.
	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req.Email, passwordHash, req.FullName)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.UserRegistered, events.UserRegisteredEvent{
			UserID:    user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			CreatedAt: user.CreatedAt,
		}); err != nil {
			logger.WarnContext(ctx, "Failed to publish user.registered", "error", err, "user_id", user.ID)
		}
	}

	return user, nil
}

func (s *authService) Signin(ctx context.Context, req *domain.SigninRequest) (string, *domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to find user: %w", err)
	}
	// Unknown email and wrong password collapse into the same error so
	// signin never confirms whether an account exists.
	if user == nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	match, err := s.hasher.Compare(req.Password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := auth.NewSessionToken(
		user.ID, user.Email, user.IsVerified, user.IsAdmin,
		s.config.Auth.JWTSecret, s.config.Auth.SessionTTL,
	)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create session token: %w", err)
	}

	return token, user, nil
}

func (s *authService) RequestVerificationCode(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}

	code, err := s.newCode()
	if err != nil {
		return err
	}

	// Send first, persist second: a code only becomes active once the
	// transport has accepted the recipient, so a failed send can never
	// leave a stored-but-undelivered code behind.
	accepted, err := s.mailer.SendVerificationCode(user.Email, user.FullName, code)
	if err != nil {
		logger.ErrorContext(ctx, "Verification email send failed", "error", err, "user_id", user.ID)
		return domain.ErrDeliveryFailed
	}
	if !recipientAccepted(accepted, user.Email) {
		return domain.ErrDeliveryFailed
	}

	codeHash := hash.HMAC(code, s.config.Auth.HMACSecret)
	if err := s.userRepo.SetVerificationCode(ctx, user.ID, codeHash, s.now()); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	return nil
}

func (s *authService) ConfirmVerificationCode(ctx context.Context, email, providedCode string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.IsVerified {
		return domain.ErrAlreadyVerified
	}
	if !user.HasActiveCode() {
		return domain.ErrNoActiveCode
	}

	// Strictly greater than the window: a confirmation at exactly
	// 10:00 still passes, 10:01 does not.
	if s.now().Sub(*user.CodeIssuedAt) > s.config.Auth.VerificationCodeTTL {
		return domain.ErrCodeExpired
	}

	if hash.HMAC(providedCode, s.config.Auth.HMACSecret) != *user.CodeHash {
		return domain.ErrCodeMismatch
	}

	if err := s.userRepo.ConsumeVerificationCode(ctx, user.ID); err != nil {
		return err
	}

	if s.eventBus != nil {
		if err := s.eventBus.Publish(ctx, events.UserVerified, events.UserVerifiedEvent{
			UserID:     user.ID,
			Email:      user.Email,
			VerifiedAt: s.now(),
		}); err != nil {
			logger.WarnContext(ctx, "Failed to publish user.verified", "error", err, "user_id", user.ID)
		}
	}

	return nil
}

func (s *authService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func recipientAccepted(accepted []string, email string) bool {
	for _, a := range accepted {
		if a == email {
			return true
		}
	}
	return false
}
