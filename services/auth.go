// services/auth.go
package services

import (
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/model"
	"github.com/wordnest/vocab_api/shared"
)

// AuthService keeps several student profiles apart on one install. There is
// no email verification or device management here; this server never leaves
// the household.
type AuthService struct {
	context.DefaultService

	sqlSvc *SqliteService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc *AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid registration request").
			WithData(dto.FormatValidationErrors(err))
	}

	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Username); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("username taken"), "Username is already taken")
	}
	if _, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email); err == nil {
		return nil, shared.NewConflictError(fmt.Errorf("email taken"), "Email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to hash password")
	}

	userID, _ := uuid.NewV7()
	user := &model.User{
		ID:        userID.String(),
		Email:     req.Email,
		Username:  req.Username,
		Password:  string(hash),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := svc.sqlSvc.CreateUser(user); err != nil {
		return nil, shared.NewInternalError(err, "Failed to create user")
	}

	settingsID, _ := uuid.NewV7()
	settings := &model.UserSettings{
		ID:          settingsID.String(),
		UserID:      user.ID,
		DisplayName: req.Username,
		Grade:       1,
		DailyGoal:   10,
		Theme:       "light",
		SpeechRate:  1,
		Level:       1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := svc.sqlSvc.CreateUserSettings(settings); err != nil {
		log.WithError(err).WithField("userID", user.ID).Error("Failed to create default settings")
	}

	return &dto.RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
	}, nil
}

// Refresh issues a fresh token pair for an already-authenticated profile.
func (svc *AuthService) Refresh(userID string) (*dto.TokenPair, error) {
	if _, err := svc.sqlSvc.GetUserByID(userID); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(userID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}
	return pair, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := dto.GetValidator().Struct(req); err != nil {
		return nil, shared.NewBadRequestError(err, "Invalid login request").
			WithData(dto.FormatValidationErrors(err))
	}

	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.NewUnauthorizedError(err, "Invalid credentials")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue token")
	}

	now := time.Now()
	if err := svc.sqlSvc.UpdateLastLogin(user.ID, now); err != nil {
		log.WithError(err).WithField("userID", user.ID).Warn("Failed to stamp last login")
	}

	return &dto.LoginResponse{
		UserID:    user.ID,
		Username:  user.Username,
		TokenPair: *pair,
		LoginAt:   now,
	}, nil
}
