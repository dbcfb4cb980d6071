package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gearnix/internal/identity"
	"gearnix/internal/models"
	"gearnix/internal/repositories"

	"github.com/dgrijalva/jwt-go"
)

// AuthService composes the identity provider with the user profile
// repository: registration delegates the credential to the provider, then
// writes the profile record keyed by the assigned user id. Sessions are
// expiring JWTs; no credential is ever persisted outside the provider.
type AuthService struct {
	provider   identity.Provider
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(provider identity.Provider, userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		provider:   provider,
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// Register creates the user's identity and then their profile record.
func (s *AuthService) Register(email, password, firstName, lastName string) (*models.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	userID, err := s.provider.Register(email, password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		UserID:    userID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("identity created but profile write failed: %w", err)
	}
	return user, nil
}

// Login verifies credentials with the provider and issues a session JWT.
func (s *AuthService) Login(email, password string) (string, error) {
	userID, err := s.provider.Login(email, password)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// GetProfile retrieves the user profile the dashboard displays.
func (s *AuthService) GetProfile(userID string) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
