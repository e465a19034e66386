package services

import (
	"fmt"
	"log"
	"time"

	"agromart/internal/models"
	"agromart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// Caller is the identity recovered from a verified credential plus the
// account's current role, loaded fresh on every request.
type Caller struct {
	ID   string
	Role models.Role
}

// AuthService handles business logic for authentication and identity
// resolution.
type AuthService struct {
	accountRepo repositories.AccountRepository
	jwtSecret   []byte
	tokenDurat  time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo repositories.AccountRepository, jwtSecret string) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		jwtSecret:   []byte(jwtSecret),
		tokenDurat:  24 * time.Hour, // Token valid for 24 hours
	}
}

// Register registers a new account, hashing the password and the
// security-question answer before storage.
func (s *AuthService) Register(account *models.Account, password, securityAnswer string) error {
	if existing, err := s.accountRepo.GetByEmail(account.Email); err == nil && existing != nil {
		return fmt.Errorf("%w: %s", ErrEmailTaken, account.Email)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = string(hashedPassword)

	if securityAnswer != "" {
		hashedAnswer, err := bcrypt.GenerateFromPassword([]byte(securityAnswer), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash security answer: %w", err)
		}
		account.SecurityAnswerHash = string(hashedAnswer)
	}

	if !account.Role.Valid() {
		account.Role = models.RoleBuyer
	}

	if err := s.accountRepo.Create(account); err != nil {
		return fmt.Errorf("failed to register account: %w", err)
	}
	return nil
}

// Login authenticates an account by email and returns a signed JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email exists.
		return "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": account.ID,
		"role":    string(account.Role),
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("%w: invalid token", ErrUnauthenticated)
}

// ResolveCaller verifies a bearer credential and loads the account's current
// role from the store. The role in the token claims is ignored for
// authorization: a role change takes effect on the next request, not at the
// next token refresh.
func (s *AuthService) ResolveCaller(tokenString string) (*Caller, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	id, ok := claims["user_id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("%w: token carries no identity", ErrUnauthenticated)
	}

	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}

	return &Caller{ID: account.ID, Role: account.Role}, nil
}

// GetAccount loads an account by id.
func (s *AuthService) GetAccount(id string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}
	return account, nil
}

// UpdateProfile updates the mutable profile fields of an account.
func (s *AuthService) UpdateProfile(id, name, phone, address string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: account %s", ErrNotFound, id)
	}

	if name != "" {
		account.Name = name
	}
	if phone != "" {
		account.Phone = phone
	}
	if address != "" {
		account.Address = address
	}

	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return account, nil
}

// ChangePassword replaces an account's password after verifying the current
// one.
func (s *AuthService) ChangePassword(id, currentPassword, newPassword string) error {
	account, err := s.accountRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("%w: account %s", ErrNotFound, id)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password does not match", ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = string(hashed)

	if err := s.accountRepo.Update(account); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// RecoverPassword resets an account's password after verifying the
// security-question answer. The same generic failure is returned whether the
// email is unknown, no question is configured, or the answer is wrong.
func (s *AuthService) RecoverPassword(email, answer, newPassword string) error {
	account, err := s.accountRepo.GetByEmail(email)
	if err != nil {
		return fmt.Errorf("%w: recovery failed", ErrUnauthenticated)
	}

	if account.SecurityAnswerHash == "" {
		return fmt.Errorf("%w: recovery failed", ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.SecurityAnswerHash), []byte(answer)); err != nil {
		return fmt.Errorf("%w: recovery failed", ErrUnauthenticated)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.Password = string(hashed)

	if err := s.accountRepo.Update(account); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}
