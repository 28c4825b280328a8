package service

import (
	"context"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
)

// TokenIssuer signs login tokens
type TokenIssuer interface {
	GenerateToken(userID uint, email, role string) (string, error)
}

// UserData is the public identity returned at login
type UserData struct {
	UserID uint       `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
}

// LoginResult is the login response payload
type LoginResult struct {
	UserData UserData `json:"userData"`
	Token    string   `json:"token"`
}

// AuthService handles registration and login
type AuthService struct {
	store  *repository.Store
	tokens TokenIssuer
}

func NewAuthService(store *repository.Store, tokens TokenIssuer) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Register creates a USER account.
func (s *AuthService) Register(ctx context.Context, in validation.Fields) (*model.User, error) {
	if err := validation.Register().Check(in); err != nil {
		return nil, err
	}
	email := in.String("email")
	if err := RequireAbsent(ctx, s.store.Users, "email", email, "User with this email already exists"); err != nil {
		return nil, err
	}

	hash, err := hashPassword(in.String("password"))
	if err != nil {
		return nil, err
	}
	user := model.User{
		Email:    email,
		Password: hash,
		Name:     in.String("name"),
		Lastname: in.String("lastname"),
		Phone:    in.String("phone"),
		Role:     model.RoleUser,
	}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, in validation.Fields) (*LoginResult, error) {
	if err := validation.Login().Check(in); err != nil {
		return nil, err
	}

	user, ok, err := s.store.Users.FindOne(ctx, "email", in.String("email"))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("User with this email not exist")
	}
	if !passwordMatches(user.Password, in.String("password")) {
		return nil, apperr.Invalid("Password do not match")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperr.Internal("auth.token", err)
	}
	return &LoginResult{
		UserData: UserData{UserID: user.ID, Email: user.Email, Role: user.Role},
		Token:    token,
	}, nil
}
