package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/examhall/examhall-backend/internal/config"
	"github.com/examhall/examhall-backend/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenType distinguishes student vs admin tokens.
type TokenType string

const (
	TokenTypeStudent TokenType = "student"
	TokenTypeAdmin   TokenType = "admin"
)

// Claims extends JWT standard claims with app-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	TokenType TokenType `json:"token_type"`

	// Student only
	StudentID  string `json:"student_id,omitempty"`
	RollNumber string `json:"roll_number,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	ExamID     string `json:"exam_id,omitempty"`
	ExamCode   string `json:"exam_code,omitempty"`

	// Admin only
	Username string `json:"username,omitempty"`
}

// StudentUUID parses the student id claim, returning uuid.Nil when absent or malformed.
func (c *Claims) StudentUUID() uuid.UUID {
	id, err := uuid.Parse(c.StudentID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ExamUUID parses the exam id claim, returning uuid.Nil when absent or malformed.
func (c *Claims) ExamUUID() uuid.UUID {
	id, err := uuid.Parse(c.ExamID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// AuthService handles credential checks, JWT issuing and student session tracking.
type AuthService struct {
	cfg       *config.Config
	sessions  SessionRegistry
	adminHash []byte
	now       func() time.Time
}

// NewAuthService creates a new AuthService. When only a plaintext admin password is
// configured it is hashed once here so login never compares plaintext.
func NewAuthService(cfg *config.Config, sessions SessionRegistry) (*AuthService, error) {
	s := &AuthService{cfg: cfg, sessions: sessions, now: time.Now}

	switch {
	case cfg.AdminPasswordHash != "":
		s.adminHash = []byte(cfg.AdminPasswordHash)
	case cfg.AdminPassword != "":
		hash, err := s.HashPassword(cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		s.adminHash = []byte(hash)
	}
	return s, nil
}

// AdminLoginEnabled reports whether any admin password has been configured.
func (s *AuthService) AdminLoginEnabled() bool {
	return len(s.adminHash) > 0
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// LoginAdmin checks the configured admin credentials and issues an admin token.
func (s *AuthService) LoginAdmin(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	if !s.AdminLoginEnabled() {
		return "", time.Time{}, ErrInvalidCredentials
	}
	passErr := bcrypt.CompareHashAndPassword(s.adminHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return s.GenerateAdminToken(username)
}

// GenerateAdminToken creates an admin JWT valid for AdminTokenExpiry.
func (s *AuthService) GenerateAdminToken(username string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.AdminTokenExpiry)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		TokenType: TokenTypeAdmin,
		Username:  username,
	}

	signed, err := s.sign(claims)
	return signed, exp, err
}

// StudentTokenTTL is the exam duration plus the configured grace period.
func (s *AuthService) StudentTokenTTL(exam *model.Exam) time.Duration {
	return time.Duration(exam.DurationMinutes)*time.Minute + s.cfg.StudentTokenGrace
}

// GenerateStudentToken creates a student JWT and registers it as the student's
// current session. Any earlier token of the same student stops being accepted.
func (s *AuthService) GenerateStudentToken(ctx context.Context, student *model.Student, exam *model.Exam) (string, error) {
	jti := uuid.New().String()
	now := s.now()
	ttl := s.StudentTokenTTL(exam)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   student.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TokenType:  TokenTypeStudent,
		StudentID:  student.ID.String(),
		RollNumber: student.RollNumber,
		FullName:   student.FullName,
		ExamID:     exam.ID.String(),
		ExamCode:   exam.ExamCode,
	}

	signed, err := s.sign(claims)
	if err != nil {
		return "", err
	}

	if err := s.sessions.Register(ctx, student.ID, jti, ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

func (s *AuthService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
// Expired tokens yield an error wrapping jwt.ErrTokenExpired.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType == TokenTypeStudent && (claims.StudentUUID() == uuid.Nil || claims.ExamUUID() == uuid.Nil) {
		return nil, errors.New("student token without identity")
	}
	return claims, nil
}

// ValidateStudentSession checks that the token's JTI is the student's current session.
func (s *AuthService) ValidateStudentSession(ctx context.Context, claims *Claims) error {
	current, err := s.sessions.Current(ctx, claims.StudentUUID())
	if err != nil {
		return fmt.Errorf("check session: %w", err)
	}
	if current == "" || current != claims.ID {
		return ErrSessionInvalidated
	}
	return nil
}

// RevokeStudentSession forgets the student's current session.
func (s *AuthService) RevokeStudentSession(ctx context.Context, studentID uuid.UUID) error {
	return s.sessions.Revoke(ctx, studentID)
}
