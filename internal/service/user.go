package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/nkropachev/eshop/internal/hash"
	"github.com/nkropachev/eshop/internal/models"
	"github.com/nkropachev/eshop/internal/repo"
	"github.com/nkropachev/eshop/internal/transport"
	"github.com/nkropachev/eshop/pkg/tokens"
)

type UserService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewUserService(r *repo.GormRepo, jwtSecret []byte) *UserService {
	return &UserService{Repo: r, JWTSecret: jwtSecret}
}

type LoginResult struct {
	User         *models.User
	Token        string
	RefreshToken string
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.ListUsers(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.Repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, fmt.Errorf("%w: user with email %s already exists", ErrConflict, req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Phone:        req.Phone,
		IsAdmin:      req.IsAdmin,
		Street:       req.Street,
		Apartment:    req.Apartment,
		Zip:          req.Zip,
		City:         req.City,
		Country:      req.Country,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != "" {
		pwHash, err := hash.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone
	user.IsAdmin = req.IsAdmin
	user.Street = req.Street
	user.Apartment = req.Apartment
	user.Zip = req.Zip
	user.City = req.City
	user.Country = req.Country

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *UserService) CountUsers(ctx context.Context) (int64, error) {
	return s.Repo.CountUsers(ctx)
}

// Login verifies the credentials and issues a bearer token carrying the
// user identifier and the admin flag. A wrong email and a wrong password
// fail the same way.
func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrValidation)
	}

	result, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *UserService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(tokens.AccessTokenTTL)
	access, err := tokens.CreateAccessToken(s.JWTSecret, user.ID, user.IsAdmin, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTokenTTL)
	refresh, err := tokens.CreateRefreshToken(s.JWTSecret, user.ID, refreshExp)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.AddRefreshToken(ctx, tokens.Hash(refresh), user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: access, RefreshToken: refresh}, nil
}

// Refresh rotates a session: the presented refresh token is revoked and a
// fresh access/refresh pair is issued.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
	}

	hash := tokens.Hash(refreshToken)
	stored, err := s.Repo.GetRefreshToken(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
		}
		return nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", ErrValidation)
	}

	user, err := s.Repo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid refresh token", ErrValidation)
		}
		return nil, err
	}

	if err := s.Repo.RevokeRefreshToken(ctx, hash); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

// Logout revokes the presented refresh token. Revoking a token that was
// never issued is not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, tokens.Hash(refreshToken))
}

// Register is user creation through the public surface.
func (s *UserService) Register(ctx context.Context, req transport.CreateUserRequest) (*models.User, error) {
	return s.CreateUser(ctx, req)
}
