package service

import (
	"context"
	"time"

	"github.com/wfunc/pong-game/internal/models"
)

// UserService 用户服务接口
type UserService interface {
	// 用户查询
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	GetUserByAuthID(ctx context.Context, authID uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserList(ctx context.Context, page, pageSize int) ([]*models.User, int64, error)

	// 用户状态
	SetStatus(ctx context.Context, userID uint, status string) error
	SetStatusByAuthID(ctx context.Context, authID uint, status string) error
	UpdateLastLogin(ctx context.Context, userID uint) error

	// 黑名单
	BlockUser(ctx context.Context, userID, blockedID uint) error
	UnblockUser(ctx context.Context, userID, blockedID uint) error

	// 排行榜
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
}

// MatchService 对局服务接口
type MatchService interface {
	// 对局生命周期
	CreateMatch(ctx context.Context, left, right *PlayerInfo) (*models.Match, error)
	GetMatch(ctx context.Context, matchID uint) (*models.Match, error)
	FindLastByPlayer(ctx context.Context, authID uint) (*models.Match, error)
	UpdateMatch(ctx context.Context, match *models.Match) error

	// 比分与结算
	UpdateScore(ctx context.Context, matchID uint, scoreLeft, scoreRight int) error
	EndMatchByScore(ctx context.Context, matchID uint, scoreLeft, scoreRight int) (*models.Match, error)
	EndMatchLeaver(ctx context.Context, matchID uint, leaverAuthID uint) (*models.Match, error)
	MarkFinished(ctx context.Context, matchID uint) error

	// 历史记录
	History(ctx context.Context, authID uint, page, pageSize int) ([]*models.Match, int64, error)
	Recent(ctx context.Context, limit int) ([]*models.Match, error)
}

// AuthService 认证服务接口
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID uint) error
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// PlayerInfo 创建对局时的玩家信息
type PlayerInfo struct {
	UserID   uint
	AuthID   uint
	Username string
	ClientID string
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=20"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
	Avatar          string `json:"avatar"`
	AuthID          uint   `json:"auth_id"` // 外部认证ID，0表示由系统分配
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse 认证响应
type AuthResponse struct {
	UserID       uint      `json:"user_id"`
	AuthID       uint      `json:"auth_id"`
	Username     string    `json:"username"`
	Avatar       string    `json:"avatar"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// TokenClaims 令牌声明
type TokenClaims struct {
	UserID   uint   `json:"user_id"`
	AuthID   uint   `json:"auth_id"`
	Username string `json:"username"`
}
