package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Meerkats/config"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
)

type authClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues signed session tokens over bcrypt-hashed credentials.
type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	GetUserFromToken(token string) (*model.User, error)
	InitDemoUsers() ([]dto.UserDTO, error)
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: cfg.Auth.JWTSecret,
		tokenTTL:  cfg.Auth.TokenTTL,
	}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = model.RoleCandidate
	}
	user := model.User{
		Username: req.Username,
		Password: string(hash),
		Role:     role,
		Email:    req.Email,
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to create user")
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.buildAuthResponse(&user)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.buildAuthResponse(user)
}

func (s *authService) GetUserFromToken(tokenString string) (*model.User, error) {
	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.Subject)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// InitDemoUsers seeds one HR reviewer and one candidate account for demo
// environments. Existing accounts are returned unchanged.
func (s *authService) InitDemoUsers() ([]dto.UserDTO, error) {
	demos := []struct {
		username string
		password string
		role     string
		email    string
	}{
		{"hr_demo", "hr_demo_password", model.RoleHR, "hr@example.com"},
		{"candidate_demo", "candidate_demo_password", model.RoleCandidate, "candidate@example.com"},
	}

	users := make([]dto.UserDTO, 0, len(demos))
	for _, demo := range demos {
		user, err := s.userRepo.FindByUsername(demo.username)
		if err == nil {
			users = append(users, toUserDTO(user))
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check demo user: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(demo.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		created := model.User{
			Username: demo.username,
			Password: string(hash),
			Role:     demo.role,
			Email:    demo.email,
		}
		if err := s.userRepo.Create(&created); err != nil {
			return nil, fmt.Errorf("failed to create demo user: %w", err)
		}
		users = append(users, toUserDTO(&created))
	}
	return users, nil
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	claims := authClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &dto.AuthResponse{User: toUserDTO(user), Token: token}, nil
}

func toUserDTO(user *model.User) dto.UserDTO {
	var out dto.UserDTO
	if err := copier.Copy(&out, user); err != nil {
		log.Warn().Err(err).Msg("Failed to copy user to DTO")
	}
	return out
}
