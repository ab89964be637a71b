package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/techagentng/chatrelay/config"
	"github.com/techagentng/chatrelay/db"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/gateway"
	"github.com/techagentng/chatrelay/logger"
	"github.com/techagentng/chatrelay/models"
	"github.com/techagentng/chatrelay/services/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthService interface
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string, expiresAt time.Time) error
	Authenticate(ctx context.Context, token string) (*models.User, *jwt.Claims, error)
	ProviderToken(ctx context.Context, userID string) (string, error)
}

// authService struct
type authService struct {
	Config    *config.Config
	authRepo  db.AuthRepository
	blacklist db.TokenBlacklist
	gateway   gateway.Gateway
}

// NewAuthService instantiate an authService
func NewAuthService(authRepo db.AuthRepository, blacklist db.TokenBlacklist, gw gateway.Gateway, conf *config.Config) AuthService {
	return &authService{
		Config:    conf,
		authRepo:  authRepo,
		blacklist: blacklist,
		gateway:   gw,
	}
}

func (a *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := models.ValidatePassword(req.Password); err != nil {
		return nil, apiError.Validation(err.Error())
	}

	if err := a.authRepo.IsEmailExist(ctx, req.Email); err != nil {
		return nil, apiError.GetUniqueConstraintError(err)
	}
	if err := a.authRepo.IsUsernameExist(ctx, req.Username); err != nil {
		return nil, apiError.GetUniqueConstraintError(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Errorf("register: hashing password: %v", err)
		return nil, apiError.Internal(err)
	}

	user, err := a.authRepo.CreateUser(ctx, &models.User{
		Email:          req.Email,
		Username:       req.Username,
		HashedPassword: string(hashedPassword),
		Identity:       uuid.NewString(),
	})
	if err != nil {
		// lost a race against a concurrent registration
		logger.Warnf("register: creating user %s: %v", req.Email, err)
		return nil, apiError.GetUniqueConstraintError(err)
	}

	return a.issue(user)
}

func (a *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var user *models.User
	var err error
	if req.Email != "" {
		user, err = a.authRepo.FindUserByEmail(ctx, req.Email)
	} else {
		user, err = a.authRepo.FindUserByUsername(ctx, req.Username)
	}
	if err != nil {
		if apiError.KindOf(err) == apiError.KindNotFound {
			return nil, apiError.ErrInvalidCredentials
		}
		logger.Errorf("login: finding user: %v", err)
		return nil, apiError.Internal(err)
	}
	if err := user.VerifyPassword(req.Password); err != nil {
		return nil, apiError.ErrInvalidCredentials
	}

	return a.issue(user)
}

// Logout revokes the session token until it would have expired.
func (a *authService) Logout(ctx context.Context, token string, expiresAt time.Time) error {
	if err := a.blacklist.Add(ctx, token, expiresAt); err != nil {
		logger.Errorf("logout: blacklisting token: %v", err)
		return apiError.Internal(err)
	}
	return nil
}

// Authenticate resolves a bearer session token to its user.
func (a *authService) Authenticate(ctx context.Context, token string) (*models.User, *jwt.Claims, error) {
	claims, err := jwt.ValidateAndGetClaims(token, a.Config.JWTSecret)
	if err != nil {
		logger.Debugf("authenticate: %v", err)
		return nil, nil, apiError.ErrUnauthorized
	}

	revoked, err := a.blacklist.Contains(ctx, token)
	if err != nil {
		logger.Errorf("authenticate: checking blacklist: %v", err)
		return nil, nil, apiError.Internal(err)
	}
	if revoked {
		return nil, nil, apiError.ErrUnauthorized
	}

	user, err := a.authRepo.FindUserByID(ctx, claims.Subject)
	if err != nil {
		if apiError.KindOf(err) == apiError.KindNotFound {
			return nil, nil, apiError.ErrUnauthorized
		}
		return nil, nil, apiError.Internal(err)
	}
	return user, claims, nil
}

func (a *authService) ProviderToken(ctx context.Context, userID string) (string, error) {
	user, err := a.authRepo.FindUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return a.gateway.AccessToken(user.Identity)
}

func (a *authService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := jwt.GenerateSessionToken(user.ID, user.Email, user.Identity, a.Config.JWTSecret, a.Config.SessionTTL)
	if err != nil {
		logger.Errorf("issuing session token: %v", err)
		return nil, apiError.Internal(err)
	}
	providerToken, err := a.gateway.AccessToken(user.Identity)
	if err != nil {
		logger.Errorf("issuing provider token: %v", err)
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token, ProviderToken: providerToken}, nil
}
