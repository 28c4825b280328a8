package service

import (
	"context"
	"fmt"

	"shop-service/internal/model"
	"shop-service/internal/repository"
	"shop-service/internal/validation"
	"shop-service/pkg/apperr"
)

var userColumns = validation.Columns{
	"email":    {Name: "email", Kind: validation.KindString},
	"name":     {Name: "name", Kind: validation.KindString},
	"lastname": {Name: "lastname", Kind: validation.KindString},
	"phone":    {Name: "phone", Kind: validation.KindString},
	"role":     {Name: "role", Kind: validation.KindString},
}

// UserService manages accounts on behalf of staff
type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.store.Users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	user, ok, err := s.store.Users.FindByKey(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user_not_found")
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if email == "" {
		return nil, apperr.ValidationFailed([]apperr.Violation{{Field: "email", Message: "Email must be provided"}})
	}
	user, ok, err := s.store.Users.FindOne(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.NotFound("user_not_found")
	}
	return &user, nil
}

// Create adds an account with the role chosen by the caller.
func (s *UserService) Create(ctx context.Context, in validation.Fields) (*model.User, error) {
	if err := validation.User(validation.Create).Check(in); err != nil {
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
		Role:     model.Role(in.String("role")),
	}
	if err := s.store.Users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update writes the supplied fields. A new password is re-hashed and a new
// email must not belong to another account.
func (s *UserService) Update(ctx context.Context, id uint, in validation.Fields) (*model.User, error) {
	if err := validation.User(validation.Update).Check(in); err != nil {
		return nil, err
	}
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Has("email") && in.String("email") != current.Email {
		if err := RequireAbsent(ctx, s.store.Users, "email", in.String("email"), "User with this email already exists"); err != nil {
			return nil, err
		}
	}

	fields := userColumns.Extract(in)
	if in.Has("password") {
		hash, err := hashPassword(in.String("password"))
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if err := s.store.Users.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	deleted, err := s.store.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperr.NotFound(fmt.Sprintf("User with ID %d not found or already deleted.", id))
	}
	return nil
}
