package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/manjeet0006/FoodShare/domain"
	"github.com/manjeet0006/FoodShare/entities"
	"github.com/manjeet0006/FoodShare/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error)
		Me(ctx context.Context, userID string) (*domain.User, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error)
		GetPublicProfile(ctx context.Context, id string) (*domain.PublicUser, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResponse, error) {
	exists, err := s.userRepository.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:               uuid.New(),
		Email:            req.Email,
		Password:         string(hashed),
		FullName:         req.FullName,
		OrganizationName: req.OrganizationName,
		Phone:            req.Phone,
		Address:          req.Address,
		Role:             req.Role,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return &domain.AuthResponse{Token: token, User: *toDomainUser(user)}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResponse, error) {
	// Wrong email and wrong password answer identically.
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	return &domain.AuthResponse{Token: token, User: *toDomainUser(user)}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (*domain.User, error) {
	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.OrganizationName != "" {
		updates["organization_name"] = req.OrganizationName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	if len(updates) > 0 {
		if err := s.userRepository.UpdateUser(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.Me(ctx, userID)
}

func (s *userService) GetPublicProfile(ctx context.Context, id string) (*domain.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &domain.PublicUser{
		ID:               user.ID.String(),
		FullName:         user.FullName,
		OrganizationName: user.OrganizationName,
	}, nil
}

func toDomainUser(user *entities.User) *domain.User {
	return &domain.User{
		ID:               user.ID.String(),
		Email:            user.Email,
		FullName:         user.FullName,
		OrganizationName: user.OrganizationName,
		Role:             user.Role,
		Phone:            user.Phone,
		Address:          user.Address,
		CreatedAt:        user.CreatedAt,
	}
}
