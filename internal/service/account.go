package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/balasutharsan1247/student-fitness-app/internal"
	"github.com/balasutharsan1247/student-fitness-app/internal/auth"
	"github.com/balasutharsan1247/student-fitness-app/internal/score"
	"github.com/balasutharsan1247/student-fitness-app/internal/storage"
)

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type RegisterRequest struct {
	FirstName    string   `json:"first_name" validate:"required,max=50"`
	LastName     string   `json:"last_name" validate:"required,max=50"`
	Email        string   `json:"email" validate:"required,email"`
	Password     string   `json:"password" validate:"required,min=6,max=72"`
	StudentID    string   `json:"student_id,omitempty" validate:"max=30"`
	University   string   `json:"university,omitempty" validate:"max=100"`
	Department   string   `json:"department,omitempty" validate:"max=100"`
	GraduateType string   `json:"graduate_type,omitempty" validate:"omitempty,oneof=Undergraduate Postgraduate"`
	Year         string   `json:"year,omitempty" validate:"omitempty,oneof=I II III IV"`
	Age          *int     `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
	Gender       string   `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Height       *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FirstName    *string  `json:"first_name,omitempty" validate:"omitempty,min=1,max=50"`
	LastName     *string  `json:"last_name,omitempty" validate:"omitempty,min=1,max=50"`
	University   *string  `json:"university,omitempty" validate:"omitempty,max=100"`
	Department   *string  `json:"department,omitempty" validate:"omitempty,max=100"`
	Year         *string  `json:"year,omitempty" validate:"omitempty,oneof=I II III IV"`
	Age          *int     `json:"age,omitempty" validate:"omitempty,gte=16,lte=100"`
	Gender       *string  `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	Height       *float64 `json:"height,omitempty" validate:"omitempty,gt=0"`
	Weight       *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	TargetWeight *float64 `json:"target_weight,omitempty" validate:"omitempty,gt=0"`
	TargetSteps  *int     `json:"target_steps,omitempty" validate:"omitempty,gt=0"`
	TargetSleep  *float64 `json:"target_sleep,omitempty" validate:"omitempty,gt=0,lte=24"`
	TargetCal    *int     `json:"target_calories,omitempty" validate:"omitempty,gt=0"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=72"`
}

type AuthResult struct {
	Token string         `json:"token"`
	User  *internal.User `json:"user"`
}

type LevelReconciliation struct {
	Points   int `json:"points"`
	OldLevel int `json:"old_level"`
	NewLevel int `json:"new_level"`
}

type AccountService struct {
	users  storage.UserRepository
	tokens TokenIssuer
	logger internal.Logger
	now    func() time.Time
}

func NewAccountService(users storage.UserRepository, tokens TokenIssuer, logger internal.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, logger: logger, now: time.Now}
}

func (s *AccountService) Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	user := &internal.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		StudentID:    req.StudentID,
		University:   req.University,
		Department:   req.Department,
		GraduateType: req.GraduateType,
		Year:         req.Year,
		Age:          req.Age,
		Gender:       req.Gender,
		Height:       req.Height,
		Weight:       req.Weight,
		TargetSteps:  defaultTargetSteps,
		TargetSleep:  8,
		TargetCal:    2000,
		Level:        score.Level(0),
		Badges:       []string{},
		Role:         "student",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, internal.ErrConflict) {
			return nil, fmt.Errorf("%w: email is already registered", internal.ErrConflict)
		}
		return nil, err
	}
	s.logger.Infof("user %s registered", user.ID)
	return s.session(user)
}

func (s *AccountService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	invalid := fmt.Errorf("%w: invalid email or password", internal.ErrUnauthorized)

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, internal.ErrNotFound) {
		return nil, invalid
	}
	if err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, internal.ErrUnauthorized) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", internal.ErrUnauthorized)
	}

	user, err = s.users.UpdateUser(ctx, user.ID, func(u *internal.User) error {
		now := s.now()
		u.LastLogin = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

func (s *AccountService) Me(ctx context.Context, userID string) (*internal.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

func (s *AccountService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*internal.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateUser(ctx, userID, func(u *internal.User) error {
		if req.FirstName != nil {
			u.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			u.LastName = *req.LastName
		}
		if req.University != nil {
			u.University = *req.University
		}
		if req.Department != nil {
			u.Department = *req.Department
		}
		if req.Year != nil {
			u.Year = *req.Year
		}
		if req.Age != nil {
			u.Age = req.Age
		}
		if req.Gender != nil {
			u.Gender = *req.Gender
		}
		if req.Height != nil {
			u.Height = req.Height
		}
		if req.Weight != nil {
			u.Weight = req.Weight
		}
		if req.TargetWeight != nil {
			u.TargetWeight = req.TargetWeight
		}
		if req.TargetSteps != nil {
			u.TargetSteps = *req.TargetSteps
		}
		if req.TargetSleep != nil {
			u.TargetSleep = *req.TargetSleep
		}
		if req.TargetCal != nil {
			u.TargetCal = *req.TargetCal
		}
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user.Public(), nil
}

// UpdatePassword checks the current password, stores the new one and hands
// back a fresh token.
func (s *AccountService) UpdatePassword(ctx context.Context, userID string, req *UpdatePasswordRequest) (*AuthResult, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	user, err := s.users.UpdateUser(ctx, userID, func(u *internal.User) error {
		if err := auth.CheckPassword(u.PasswordHash, req.CurrentPassword); err != nil {
			if errors.Is(err, internal.ErrUnauthorized) {
				return fmt.Errorf("%w: current password is incorrect", internal.ErrUnauthorized)
			}
			return err
		}
		u.PasswordHash = hash
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("user %s changed password", userID)
	return s.session(user)
}

// RecalculateLevel re-derives the user's level from their points.
func (s *AccountService) RecalculateLevel(ctx context.Context, userID string) (*LevelReconciliation, error) {
	res := &LevelReconciliation{}
	_, err := s.users.UpdateUser(ctx, userID, func(u *internal.User) error {
		res.Points = u.Points
		res.OldLevel = u.Level
		res.NewLevel = score.Level(u.Points)
		if res.NewLevel != u.Level {
			u.Level = res.NewLevel
			u.UpdatedAt = s.now()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.OldLevel != res.NewLevel {
		s.logger.Infof("user %s level reconciled %d -> %d", userID, res.OldLevel, res.NewLevel)
	}
	return res, nil
}

// RecalculateAllLevels reconciles every user and returns how many changed.
func (s *AccountService) RecalculateAllLevels(ctx context.Context) (int, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	fixed := 0
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		res, err := s.RecalculateLevel(ctx, u.ID)
		if err != nil {
			return fixed, fmt.Errorf("user %s: %w", u.ID, err)
		}
		if res.OldLevel != res.NewLevel {
			fixed++
		}
	}
	return fixed, nil
}

func (s *AccountService) session(user *internal.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
