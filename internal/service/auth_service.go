package service

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/puedeser233-alt/SiteSnapAI/internal/models"
	"github.com/puedeser233-alt/SiteSnapAI/internal/repository"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/bcrypt"
	"github.com/puedeser233-alt/SiteSnapAI/pkg/email"
	jwtPkg "github.com/puedeser233-alt/SiteSnapAI/pkg/jwt"
)

const (
	// Token süreleri
	TokenExpiryReset = 15 * time.Minute
)

type AuthService struct {
	userRepo     *repository.UserRepository
	emailService *email.EmailService
	jwtSecret    []byte
}

func NewAuthService(userRepo *repository.UserRepository, emailService *email.EmailService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		emailService: emailService,
		jwtSecret:    []byte(os.Getenv("JWT_SECRET")),
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	// Email kontrolü
	exists, err := s.userRepo.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.New("email already exists")
	}

	// Şifreyi hashle
	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Plan:     models.PlanFree,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	// Welcome email gönder
	go s.emailService.SendWelcomeEmail(user.Email, user.FullName)

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, fmt.Errorf("token generation failed: %v", err)
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil // Güvenlik için hata dönme
	}

	// Reset token oluştur
	claims := jwt.MapClaims{
		"sub": user.Email,
		"exp": time.Now().Add(TokenExpiryReset).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	resetToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return err
	}

	return s.emailService.SendPasswordResetEmail(user.Email, resetToken)
}

// Reset token ile şifre değiştirme
func (s *AuthService) ResetPassword(token string, newPassword string) error {
	claims, err := jwtPkg.ValidateToken(token)
	if err != nil {
		return errors.New("invalid or expired token")
	}

	email, ok := claims["sub"].(string)
	if !ok {
		return errors.New("invalid token claims")
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return err
	}

	hashedPassword, err := bcrypt.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdatePassword(user.ID, hashedPassword)
}
