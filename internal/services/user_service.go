package services

import (
	"context"
	"errors"
	"strings"

	"github.com/baharkarakas/budgetbox/internal/models"
	repo "github.com/baharkarakas/budgetbox/internal/repository"
)

type UserService struct {
	r repo.Users
}

func NewUserService(r repo.Users) *UserService { return &UserService{r: r} }

// Ensure creates the user unless it already exists. created reports
// whether this call inserted it.
func (s *UserService) Ensure(ctx context.Context, email string) (u models.User, created bool, err error) {
	email = strings.TrimSpace(email)
	u = models.User{Email: email}
	if err := u.Validate(); err != nil {
		return models.User{}, false, err
	}
	if existing, err := s.r.GetByEmail(ctx, email); err == nil {
		return existing, false, nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.User{}, false, storageErr("get user", err)
	}

	u, err = s.r.Create(ctx, email)
	if errors.Is(err, repo.ErrDuplicate) {
		// lost a race with another bootstrap
		u, err = s.r.GetByEmail(ctx, email)
		if err != nil {
			return models.User{}, false, storageErr("get user", err)
		}
		return u, false, nil
	}
	if err != nil {
		return models.User{}, false, storageErr("create user", err)
	}
	return u, true, nil
}

func (s *UserService) Resolve(ctx context.Context, email string) (models.User, error) {
	u, err := s.r.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	if err != nil {
		return models.User{}, storageErr("get user", err)
	}
	return u, nil
}
