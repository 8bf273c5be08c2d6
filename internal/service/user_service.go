package service

import (
	"context"

	"github.com/RoyceAzure/lab/bookstore/internal/domain/model"
	"github.com/RoyceAzure/lab/bookstore/internal/infra/repository/db"
)

type IUserService interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, userID int) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	GetUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error)
}

type UserService struct {
	store db.UnifiedDB
}

func NewUserService(store db.UnifiedDB) *UserService {
	return &UserService{store: store}
}

func (u *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	user.Active = true
	if user.Role == "" {
		user.Role = model.UserRoleCustomer
	}
	return u.store.CreateUser(ctx, user)
}

func (u *UserService) GetUser(ctx context.Context, userID int) (*model.User, error) {
	return u.store.GetUserByID(ctx, userID)
}

func (u *UserService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return u.store.GetAllUsers(ctx)
}

func (u *UserService) GetUsersByRole(ctx context.Context, role model.UserRole) ([]model.User, error) {
	return u.store.GetUsersByRole(ctx, role)
}

var _ IUserService = (*UserService)(nil)
