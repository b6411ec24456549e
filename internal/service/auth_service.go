package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"block-builder-backend/internal/authorization"
	"block-builder-backend/internal/models"
	"block-builder-backend/internal/repository"
)

// SessionClaims is the payload of issued session tokens.
type SessionClaims struct {
	UserID uint                   `json:"user_id"`
	OpenID string                 `json:"open_id"`
	Role   authorization.UserRole `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo    repository.UserRepository
	jwtSecret   string
	tokenTTL    time.Duration
	ownerOpenID string
	now         func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string, tokenTTL time.Duration, ownerOpenID string) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 72 * time.Hour
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtSecret:   jwtSecret,
		tokenTTL:    tokenTTL,
		ownerOpenID: strings.TrimSpace(ownerOpenID),
		now:         time.Now,
	}
}

// SignIn records the identity asserted by the login provider and issues a
// session token. The configured owner is promoted to admin unless an explicit
// role is supplied.
func (s *AuthService) SignIn(identity models.UserIdentity) (string, *models.User, error) {
	identity.OpenID = strings.TrimSpace(identity.OpenID)
	if identity.OpenID == "" {
		return "", nil, fmt.Errorf("%w: open id is required", ErrInvalidUser)
	}

	if identity.Role == nil && s.ownerOpenID != "" && identity.OpenID == s.ownerOpenID {
		admin := authorization.RoleAdmin
		identity.Role = &admin
	}
	if identity.Role != nil && !identity.Role.IsValid() {
		return "", nil, fmt.Errorf("%w: unknown role %q", ErrInvalidUser, *identity.Role)
	}
	if identity.LastSignedIn == nil {
		signedIn := s.now().UTC()
		identity.LastSignedIn = &signedIn
	}

	user, err := s.userRepo.Upsert(identity)
	if err != nil {
		return "", nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: user.ID,
		OpenID: user.OpenID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.OpenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Me resolves the user behind a session token.
func (s *AuthService) Me(tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}
