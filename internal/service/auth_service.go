package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lectern/courseport-backend/internal/config"
	"github.com/lectern/courseport-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session expired or logged out")
)

// TokenType distinguishes student vs instructor tokens.
type TokenType string

const (
	TokenTypeStudent    TokenType = "student"
	TokenTypeInstructor TokenType = "instructor"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`
	UserID    int       `json:"user_id,omitempty"` // Student only
	Name      string    `json:"name,omitempty"`    // Student only
	Email     string    `json:"email,omitempty"`   // Student only
}

// AuthService handles authentication, JWT, and the Redis session registry.
// The registry is what makes logout real: a token whose JTI is no longer
// registered is rejected even though its signature is still valid.
type AuthService struct {
	cfg *config.Config
	rdb *redis.Client
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, rdb *redis.Client) *AuthService {
	return &AuthService{cfg: cfg, rdb: rdb}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// VerifyInstructorCredential checks the shared instructor credential pair.
// The username comparison is constant-time; the password is checked
// against the bcrypt hash held in configuration, never a database row.
func (s *AuthService) VerifyInstructorCredential(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.InstructorUsername)) == 1
	if s.cfg.InstructorPasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.InstructorPasswordHash), []byte(password)); err != nil || !usernameOK {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateStudentToken creates a JWT for a student and registers the
// session in Redis. A fresh login overwrites the previous JTI, so older
// tokens stop validating.
func (s *AuthService) GenerateStudentToken(ctx context.Context, student *model.Student) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.Itoa(student.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeStudent,
		UserID:    student.ID,
		Name:      student.Name,
		Email:     student.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.StudentSessionKey(student.ID)
	if err := s.rdb.Set(ctx, sessionKey, jti, s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// GenerateInstructorToken creates a JWT for the instructor. Sessions are
// registered per JTI since the credential pair is shared across devices.
func (s *AuthService) GenerateInstructorToken(ctx context.Context) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   "instructor",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		TokenType: TokenTypeInstructor,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	sessionKey := config.CacheKey.InstructorSessionKey(jti)
	if err := s.rdb.Set(ctx, sessionKey, "1", s.cfg.JWTExpiry).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// ValidateSession checks the claims' JTI against the Redis session
// registry. Rejects tokens issued before a logout or a newer login.
func (s *AuthService) ValidateSession(ctx context.Context, claims *Claims) error {
	switch claims.TokenType {
	case TokenTypeStudent:
		stored, err := s.rdb.Get(ctx, config.CacheKey.StudentSessionKey(claims.UserID)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionExpired
			}
			return fmt.Errorf("check session: %w", err)
		}
		if stored != claims.ID {
			return ErrSessionExpired
		}
		return nil

	case TokenTypeInstructor:
		err := s.rdb.Get(ctx, config.CacheKey.InstructorSessionKey(claims.ID)).Err()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrSessionExpired
			}
			return fmt.Errorf("check session: %w", err)
		}
		return nil

	default:
		return errors.New("unknown token type")
	}
}

// Logout removes the session behind the claims from the registry.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	switch claims.TokenType {
	case TokenTypeStudent:
		return s.rdb.Del(ctx, config.CacheKey.StudentSessionKey(claims.UserID)).Err()
	case TokenTypeInstructor:
		return s.rdb.Del(ctx, config.CacheKey.InstructorSessionKey(claims.ID)).Err()
	default:
		return errors.New("unknown token type")
	}
}

// SessionFromClaims maps validated claims onto the tagged session value
// the core services consume.
func (s *AuthService) SessionFromClaims(claims *Claims) model.Session {
	switch claims.TokenType {
	case TokenTypeInstructor:
		return model.InstructorSession()
	case TokenTypeStudent:
		return model.StudentSession(claims.UserID, claims.Name, claims.Email)
	default:
		return model.Anonymous()
	}
}
