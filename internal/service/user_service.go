package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/marcussmith0/todo-api/internal/domain"
	"github.com/marcussmith0/todo-api/internal/repository"
	"github.com/marcussmith0/todo-api/internal/token"
)

// CredentialsRequest holds the email/password pair used by both signup and
// login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public representation of a user. It deliberately
// carries nothing but the id and email.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

const minPasswordLength = 6

// UserService manages accounts and their bearer tokens.
type UserService interface {
	// Signup creates an account and returns it along with a freshly
	// issued auth token.
	Signup(ctx context.Context, req CredentialsRequest) (*UserResponse, string, error)

	// Login verifies credentials and issues a new auth token. Each login
	// appends a token; earlier tokens stay valid until revoked.
	Login(ctx context.Context, req CredentialsRequest) (*UserResponse, string, error)

	// FindByToken resolves a bearer token to its user. The token must
	// carry a valid signature and still be present in the user's stored
	// token list — a revoked token fails here even though its signature
	// checks out.
	FindByToken(ctx context.Context, tokenString string) (*domain.User, error)

	// RevokeToken removes a token from the user's token list.
	RevokeToken(ctx context.Context, userID, tokenString string) error
}

type userService struct {
	repo  repository.UserRepository
	codec *token.Codec
}

// NewUserService creates a new instance of userService.
func NewUserService(repo repository.UserRepository, codec *token.Codec) UserService {
	return &userService{repo: repo, codec: codec}
}

func validateCredentials(req *CredentialsRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	addr, err := mail.ParseAddress(req.Email)
	if err != nil || addr.Address != req.Email {
		return fmt.Errorf("%w: email is not a valid address", domain.ErrValidation)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}

func (s *userService) Signup(ctx context.Context, req CredentialsRequest) (*UserResponse, string, error) {
	if err := validateCredentials(&req); err != nil {
		return nil, "", err
	}

	// Pre-check for a friendlier error; the unique index on email is the
	// real guarantee.
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, "", domain.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error checking email uniqueness: %v", err)
		return nil, "", errors.New("failed to create user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("%w: password is not usable", domain.ErrValidation)
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Password: string(hash),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", domain.ErrDuplicateEmail
		}
		log.Printf("Error creating user in repository: %v", err)
		return nil, "", errors.New("failed to create user")
	}

	authToken, err := s.issueAuthToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return &UserResponse{ID: user.ID, Email: user.Email}, authToken, nil
}

func (s *userService) Login(ctx context.Context, req CredentialsRequest) (*UserResponse, string, error) {
	req.Email = strings.TrimSpace(req.Email)

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrAuthentication
		}
		log.Printf("Error fetching user by email: %v", err)
		return nil, "", errors.New("failed to log in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, "", domain.ErrAuthentication
	}

	authToken, err := s.issueAuthToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return &UserResponse{ID: user.ID, Email: user.Email}, authToken, nil
}

func (s *userService) issueAuthToken(ctx context.Context, userID string) (string, error) {
	authToken, err := s.codec.Issue(userID, token.PurposeAuth)
	if err != nil {
		log.Printf("Error issuing auth token: %v", err)
		return "", errors.New("failed to issue token")
	}
	err = s.repo.AddToken(ctx, userID, domain.UserToken{
		Purpose: token.PurposeAuth,
		Token:   authToken,
	})
	if err != nil {
		log.Printf("Error persisting auth token: %v", err)
		return "", errors.New("failed to issue token")
	}
	return authToken, nil
}

func (s *userService) FindByToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, domain.ErrAuthentication
	}
	if claims.Purpose != token.PurposeAuth {
		return nil, domain.ErrAuthentication
	}

	user, err := s.repo.FindByIDAndToken(ctx, claims.UserID, tokenString, token.PurposeAuth)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAuthentication
		}
		log.Printf("Error resolving token to user: %v", err)
		return nil, errors.New("failed to resolve token")
	}
	return user, nil
}

func (s *userService) RevokeToken(ctx context.Context, userID, tokenString string) error {
	if err := s.repo.RemoveToken(ctx, userID, tokenString); err != nil {
		log.Printf("Error revoking token: %v", err)
		return errors.New("failed to revoke token")
	}
	return nil
}
