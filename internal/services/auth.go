package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dailytaiyari/backend/internal/logger"
	"github.com/dailytaiyari/backend/internal/repos"
	"github.com/dailytaiyari/backend/internal/requestdata"
	"github.com/dailytaiyari/backend/internal/types"
	"github.com/dailytaiyari/backend/internal/utils"
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) error
	LoginUser(ctx context.Context, email, password string) (string, string, error)
	RefreshUser(ctx context.Context) (string, string, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	profileRepo   repos.StudentProfileRepo
	avatarService AvatarService
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.StudentProfileRepo,
	avatarService AvatarService,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		avatarService: avatarService,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RegisterUser creates the user, their student profile and a generated
// avatar in one transaction.
func (as *authService) RegisterUser(ctx context.Context, user *types.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	if user.Email == "" || user.Password == "" {
		return fmt.Errorf("email and password required")
	}

	exists, exErr := as.userRepo.EmailExists(ctx, nil, user.Email)
	if exErr != nil {
		return fmt.Errorf("failed to check email: %w", exErr)
	}
	if exists {
		return fmt.Errorf("email already registered")
	}

	hashed, hErr := utils.HashPassword(user.Password)
	if hErr != nil {
		as.log.Error("Failed to hash password", "error", hErr)
		return fmt.Errorf("failed to hash password: %w", hErr)
	}
	user.Password = hashed

	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user.ID = uuid.New()
		if err := as.avatarService.CreateUserAvatar(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user avatar: %w", err)
		}
		if _, err := as.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		profile := &types.StudentProfile{
			ID:     uuid.New(),
			UserID: user.ID,
		}
		if _, err := as.profileRepo.Create(ctx, tx, profile); err != nil {
			return fmt.Errorf("failed to create student profile: %w", err)
		}
		return nil
	})
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, uErr := as.userRepo.GetByEmail(ctx, nil, email)
	if uErr != nil {
		return "", "", fmt.Errorf("error retrieving user by email: %w", uErr)
	}
	if user == nil {
		return "", "", fmt.Errorf("invalid email or password")
	}
	if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
		return "", "", fmt.Errorf("invalid email or password")
	}

	var accessToken string
	var refreshToken string
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token error: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		userToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, ctErr := as.userTokenRepo.Create(ctx, tx, userToken); ctErr != nil {
			as.log.Warn("Create user token error", "error", ctErr)
			return fmt.Errorf("create user token error: %w", ctErr)
		}
		return nil
	}); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// RefreshUser rotates the refresh token: the old token row is deleted in
// the same transaction that writes the new one.
func (as *authService) RefreshUser(ctx context.Context) (string, string, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return "", "", fmt.Errorf("no request data found in context")
	}
	if rd.RefreshToken == "" {
		return "", "", fmt.Errorf("refresh token not found in request data")
	}

	var accessToken string
	var newRefreshToken string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, ftErr := as.userTokenRepo.GetByRefreshToken(ctx, tx, rd.RefreshToken)
		if ftErr != nil {
			as.log.Warn("Error fetching refresh token", "error", ftErr)
			return fmt.Errorf("error fetching refresh token: %w", ftErr)
		}
		if existing == nil {
			return fmt.Errorf("unknown refresh token")
		}
		if existing.ExpiresAt.Before(time.Now()) {
			if dtErr := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); dtErr != nil {
				return fmt.Errorf("refresh token expired, error deleting: %w", dtErr)
			}
			return fmt.Errorf("refresh token expired")
		}
		user, uErr := as.userRepo.GetByID(ctx, tx, existing.UserID)
		if uErr != nil {
			return fmt.Errorf("failed to load user for refresh: %w", uErr)
		}
		if user == nil {
			return fmt.Errorf("no user found for the given refresh token")
		}
		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("failed to generate new access token: %w", genErr)
		}
		accessToken = tok
		newRefreshToken = uuid.New().String()
		newUserToken := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  tok,
			RefreshToken: newRefreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, newUserToken); cErr != nil {
			return fmt.Errorf("failed to create new user token: %w", cErr)
		}
		if dErr := as.userTokenRepo.DeleteByID(ctx, tx, existing.ID); dErr != nil {
			return fmt.Errorf("failed to remove old refresh token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		as.log.Warn("Failed refresh transaction", "error", err)
		return "", "", err
	}
	return accessToken, newRefreshToken, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil {
		return fmt.Errorf("no request data found in context")
	}
	if rd.TokenString == "" {
		return fmt.Errorf("token string in request data empty")
	}
	return as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByAccessToken(ctx, tx, rd.TokenString)
		if ftErr != nil {
			as.log.Warn("Error finding user token from token string", "error", ftErr)
			return fmt.Errorf("error finding user token: %w", ftErr)
		}
		if found == nil {
			return nil
		}
		if tdErr := as.userTokenRepo.DeleteByID(ctx, tx, found.ID); tdErr != nil {
			return fmt.Errorf("error deleting user token: %w", tdErr)
		}
		return nil
	})
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired JWT token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}

	found, ftErr := as.userTokenRepo.GetByAccessToken(ctx, nil, tokenString)
	if ftErr != nil {
		as.log.Warn("Error fetching user token by access token", "error", ftErr)
		return ctx, fmt.Errorf("failed to fetch user token: %w", ftErr)
	}
	if found == nil {
		return ctx, fmt.Errorf("token has been revoked")
	}

	profile, pErr := as.profileRepo.GetByUserID(ctx, nil, userID)
	if pErr != nil {
		return ctx, fmt.Errorf("failed to load student profile: %w", pErr)
	}
	rd := &requestdata.RequestData{
		TokenString:  tokenString,
		RefreshToken: found.RefreshToken,
		UserID:       userID,
	}
	if profile != nil {
		rd.StudentID = profile.ID
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
