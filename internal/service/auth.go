package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/repository"
	"github.com/foliokit/folio/internal/validation"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrRegistrationDisabled = errors.New("registration disabled, admin already exists")
	ErrInvalidToken         = errors.New("invalid token")
)

type AuthService struct {
	userRepository repository.UserRepository
	jwtSecret      string
	jwtExpiry      time.Duration
}

func NewAuthService(userRepository repository.UserRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtSecret:      jwtSecret,
		jwtExpiry:      jwtExpiry,
	}
}

// Login checks the credentials and returns the admin user.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Please provide email and password")
	}

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.E(apperr.KindUnauthorized, "Invalid credentials", ErrInvalidCredentials)
		}
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error logging in", fmt.Errorf("failed to get user: %w", err))
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, apperr.E(apperr.KindUnauthorized, "Invalid credentials", ErrInvalidCredentials)
	}

	return user, nil
}

// Register creates the first admin. Once any user exists registration is
// closed and admins can only be added through the CLI.
func (s *AuthService) Register(username, email, password string) (*model.User, error) {
	count, err := s.userRepository.Count()
	if err != nil {
		return nil, apperr.E(apperr.KindPersistenceFailure, "Error creating user", fmt.Errorf("failed to count users: %w", err))
	}
	if count > 0 {
		return nil, registrationClosed(nil)
	}

	user, err := s.newAdmin(username, email, password)
	if err != nil {
		return nil, err
	}

	// A concurrent registration may have won since the count.
	err = s.userRepository.CreateFirst(user)
	if errors.Is(err, repository.ErrUsersExist) {
		return nil, registrationClosed(err)
	}
	if err != nil {
		return nil, createUserError(err)
	}
	return user, nil
}

// CreateAdmin validates and stores a new admin user.
func (s *AuthService) CreateAdmin(username, email, password string) (*model.User, error) {
	user, err := s.newAdmin(username, email, password)
	if err != nil {
		return nil, err
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, createUserError(err)
	}
	return user, nil
}

func (s *AuthService) newAdmin(username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	if username == "" || email == "" || password == "" {
		return nil, apperr.Validation("Please provide all fields")
	}

	err := validation.ValidateUsername(username)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}

	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}

	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, apperr.E(apperr.KindValidation, err.Error(), err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, apperr.E(apperr.KindInternal, "Error creating user", fmt.Errorf("failed to hash password: %w", err))
	}

	return &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}, nil
}

func registrationClosed(err error) error {
	if err == nil {
		err = ErrRegistrationDisabled
	}
	return apperr.E(apperr.KindForbidden, "Registration disabled. Admin already exists.", err)
}

func createUserError(err error) error {
	if errors.Is(err, repository.ErrDuplicateEmail) || errors.Is(err, repository.ErrDuplicateUsername) {
		return apperr.E(apperr.KindConflict, "User already exists", err)
	}
	return apperr.E(apperr.KindPersistenceFailure, "Error creating user", fmt.Errorf("failed to create user: %w", err))
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      now.Add(s.jwtExpiry).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyJWT validates a session token and returns the identity it carries.
// Any failure (malformed, expired, wrong algorithm, bad signature, missing
// subject) is reported as unauthorized.
func (s *AuthService) VerifyJWT(tokenString string) (*model.Identity, error) {
	if tokenString == "" {
		return nil, apperr.E(apperr.KindUnauthorized, "No token, authorization denied", ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperr.E(apperr.KindUnauthorized, "Token is not valid", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperr.E(apperr.KindUnauthorized, "Token is not valid", ErrInvalidToken)
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		return nil, apperr.E(apperr.KindUnauthorized, "Token is not valid", ErrInvalidToken)
	}
	username, _ := claims["username"].(string)
	email, _ := claims["email"].(string)

	return &model.Identity{
		UserID:   userID,
		Username: username,
		Email:    email,
	}, nil
}
