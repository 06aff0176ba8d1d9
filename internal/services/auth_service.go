package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"majalah/internal/apperrors"
	"majalah/internal/models"
	"majalah/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned on any login failure without revealing
// whether the email exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles business logic for registration, login and token
// verification.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 7 * 24 * time.Hour,
	}
}

// Register creates a new account, hashes the password and returns the user
// with a signed token. Only publisher and subscriber are self-assignable;
// anything else becomes subscriber.
func (s *AuthService) Register(email, password, role, name, avatar string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return nil, "", fmt.Errorf("email and password are required: %w", apperrors.ErrValidation)
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, "", fmt.Errorf("email '%s' already registered: %w", email, apperrors.ErrConflict)
	}

	if strings.ToLower(role) == models.RolePublisher {
		role = models.RolePublisher
	} else {
		role = models.RoleSubscriber
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
		Name:     name,
		Avatar:   avatar,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login authenticates a user and returns the user with a signed token.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// UpdatePassword re-hashes and stores a new password for the user.
func (s *AuthService) UpdatePassword(user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	return nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// Profile returns the caller's own account.
func (s *AuthService) Profile(principal models.Principal) (*models.User, error) {
	return s.userRepo.GetByID(principal.UserID)
}

// PublicProfile returns a user's public identity.
func (s *AuthService) PublicProfile(id string) (models.Profile, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile changes the caller's name, password and avatar. Empty fields
// keep their stored value.
func (s *AuthService) UpdateProfile(principal models.Principal, name, password, avatar string) (*models.User, error) {
	user, err := s.userRepo.GetByID(principal.UserID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}
	if password != "" {
		if err := s.UpdatePassword(user, password); err != nil {
			return nil, err
		}
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateToken parses and validates a JWT token, returning the principal it
// identifies.
func (s *AuthService) ValidateToken(tokenString string) (models.Principal, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return models.Principal{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Principal{}, fmt.Errorf("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return models.Principal{}, fmt.Errorf("invalid token claims")
	}
	return models.Principal{UserID: userID, Role: role}, nil
}
