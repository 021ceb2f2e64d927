package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/pong-game/internal/models"
	"github.com/wfunc/pong-game/internal/repository"
	"github.com/wfunc/pong-game/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("用户名已存在")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

// authService 认证服务实现
type authService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	jwtManager *utils.JWTManager
	log        *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	jwtManager *utils.JWTManager,
	log *zap.Logger,
) AuthService {
	return &authService{
		db:         db,
		userRepo:   userRepo,
		jwtManager: jwtManager,
		log:        log,
	}
}

// Register 用户注册
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	// 检查用户名是否已存在
	if existing, _ := s.userRepo.FindByUsername(ctx, req.Username); existing != nil {
		return nil, ErrUserExists
	}

	// 哈希密码
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("密码处理失败: %w", err)
	}

	user := &models.User{
		AuthID:   req.AuthID,
		Username: req.Username,
		Password: hashedPassword,
		Avatar:   req.Avatar,
		Status:   models.StatusOffline,
	}

	// 未提供外部认证ID时，用新用户自身的ID作为认证ID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if user.AuthID == 0 {
			user.AuthID = user.ID
			return tx.Model(user).Update("auth_id", user.AuthID).Error
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("创建用户失败: %w", err)
	}

	s.log.Info("User registered",
		zap.Uint("userID", user.ID),
		zap.Uint("authID", user.AuthID),
		zap.String("username", user.Username))

	return s.buildAuthResponse(user)
}

// Login 用户登录
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(req.Password, user.Password)
	if err != nil || !ok {
		s.log.Warn("Login failed", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	// 更新登录信息
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Error("Failed to update last login", zap.Error(err), zap.Uint("userID", user.ID))
	}

	s.log.Info("User logged in",
		zap.Uint("userID", user.ID),
		zap.String("username", user.Username))

	return s.buildAuthResponse(user)
}

// Logout 用户登出，置为离线状态
func (s *authService) Logout(ctx context.Context, userID uint) error {
	if err := s.userRepo.UpdateStatus(ctx, userID, models.StatusOffline); err != nil {
		s.log.Error("Failed to logout user", zap.Error(err), zap.Uint("userID", userID))
		return fmt.Errorf("登出失败: %w", err)
	}
	return nil
}

// RefreshToken 刷新访问令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("无效的刷新令牌: %w", err)
	}
	if claims.TokenType != "refresh" {
		return nil, errors.New("无效的刷新令牌")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}

	return s.buildAuthResponse(user)
}

// ValidateToken 验证访问令牌
func (s *authService) ValidateToken(ctx context.Context, token string) (*TokenClaims, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "access" {
		return nil, utils.ErrInvalidToken
	}

	return &TokenClaims{
		UserID:   claims.UserID,
		AuthID:   claims.AuthID,
		Username: claims.Username,
	}, nil
}

// buildAuthResponse 生成令牌对并组装认证响应
func (s *authService) buildAuthResponse(user *models.User) (*AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.AuthID, user.Username)
	if err != nil {
		s.log.Error("Failed to generate access token", zap.Error(err), zap.Uint("userID", user.ID))
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.AuthID)
	if err != nil {
		s.log.Error("Failed to generate refresh token", zap.Error(err), zap.Uint("userID", user.ID))
		return nil, fmt.Errorf("生成令牌失败: %w", err)
	}

	return &AuthResponse{
		UserID:       user.ID,
		AuthID:       user.AuthID,
		Username:     user.Username,
		Avatar:       user.Avatar,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.GetTokenExpiry("access")),
	}, nil
}
