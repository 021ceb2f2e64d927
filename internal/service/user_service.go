package service

import (
	"context"
	"fmt"

	"github.com/wfunc/pong-game/internal/models"
	"github.com/wfunc/pong-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// userService 用户服务实现
type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	log      *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	log *zap.Logger,
) UserService {
	return &userService{
		db:       db,
		userRepo: userRepo,
		log:      log,
	}
}

// GetUserByID 根据ID获取用户
func (s *userService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user by ID", zap.Error(err), zap.Uint("userID", userID))
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return user, nil
}

// GetUserByAuthID 根据认证ID获取用户
func (s *userService) GetUserByAuthID(ctx context.Context, authID uint) (*models.User, error) {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		s.log.Error("Failed to get user by auth ID", zap.Error(err), zap.Uint("authID", authID))
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return user, nil
}

// GetUserByUsername 根据用户名获取用户
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return user, nil
}

// GetUserList 获取用户列表
func (s *userService) GetUserList(ctx context.Context, page, pageSize int) ([]*models.User, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	users, err := s.userRepo.GetAll(ctx, pagination)
	if err != nil {
		s.log.Error("Failed to get user list", zap.Error(err))
		return nil, 0, fmt.Errorf("获取用户列表失败: %w", err)
	}
	return users, pagination.Total, nil
}

// SetStatus 更新用户在线状态
func (s *userService) SetStatus(ctx context.Context, userID uint, status string) error {
	if err := s.userRepo.UpdateStatus(ctx, userID, status); err != nil {
		s.log.Error("Failed to update user status",
			zap.Error(err),
			zap.Uint("userID", userID),
			zap.String("status", status))
		return fmt.Errorf("更新用户状态失败: %w", err)
	}
	return nil
}

// SetStatusByAuthID 根据认证ID更新用户在线状态
func (s *userService) SetStatusByAuthID(ctx context.Context, authID uint, status string) error {
	user, err := s.userRepo.FindByAuthID(ctx, authID)
	if err != nil {
		return fmt.Errorf("获取用户失败: %w", err)
	}
	return s.SetStatus(ctx, user.ID, status)
}

// UpdateLastLogin 更新最后登录时间
func (s *userService) UpdateLastLogin(ctx context.Context, userID uint) error {
	if err := s.userRepo.UpdateLastLogin(ctx, userID); err != nil {
		s.log.Error("Failed to update last login", zap.Error(err), zap.Uint("userID", userID))
		return fmt.Errorf("更新登录时间失败: %w", err)
	}
	return nil
}

// BlockUser 拉黑用户
func (s *userService) BlockUser(ctx context.Context, userID, blockedID uint) error {
	if userID == blockedID {
		return fmt.Errorf("不能拉黑自己")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("获取用户失败: %w", err)
	}

	if user.HasBlocked(blockedID) {
		return nil
	}

	user.BlockedIDs = append(user.BlockedIDs, int64(blockedID))
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Error("Failed to block user",
			zap.Error(err),
			zap.Uint("userID", userID),
			zap.Uint("blockedID", blockedID))
		return fmt.Errorf("拉黑用户失败: %w", err)
	}
	return nil
}

// UnblockUser 取消拉黑
func (s *userService) UnblockUser(ctx context.Context, userID, blockedID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("获取用户失败: %w", err)
	}

	if !user.HasBlocked(blockedID) {
		return nil
	}

	filtered := make(models.Int64List, 0, len(user.BlockedIDs))
	for _, id := range user.BlockedIDs {
		if id != int64(blockedID) {
			filtered = append(filtered, id)
		}
	}
	user.BlockedIDs = filtered

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.log.Error("Failed to unblock user",
			zap.Error(err),
			zap.Uint("userID", userID),
			zap.Uint("blockedID", blockedID))
		return fmt.Errorf("取消拉黑失败: %w", err)
	}
	return nil
}

// Leaderboard 获取胜场排行榜
func (s *userService) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	if limit <= 0 {
		limit = 10
	}
	users, err := s.userRepo.Leaderboard(ctx, limit)
	if err != nil {
		s.log.Error("Failed to get leaderboard", zap.Error(err))
		return nil, fmt.Errorf("获取排行榜失败: %w", err)
	}
	return users, nil
}
