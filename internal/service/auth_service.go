package service

import (
	"errors"

	"go-inventory-sku/internal/apperr"
	"go-inventory-sku/internal/model"
	"go-inventory-sku/internal/repository"
	"go-inventory-sku/pkg/jwt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		var nf *apperr.NotFoundError
		if errors.As(err, &nf) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user.ToResponse()}, nil
}

func (s *authService) ValidateToken(token string) (*jwt.Claims, error) {
	return jwt.ValidateToken(token)
}
