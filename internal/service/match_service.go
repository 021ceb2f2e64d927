package service

import (
	"context"
	"fmt"

	"github.com/wfunc/pong-game/internal/models"
	"github.com/wfunc/pong-game/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// matchService 对局服务实现
type matchService struct {
	db        *gorm.DB
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
	log       *zap.Logger
}

// NewMatchService 创建对局服务
func NewMatchService(
	db *gorm.DB,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	log *zap.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		userRepo:  userRepo,
		log:       log,
	}
}

// CreateMatch 创建对局，左右玩家由调用方确定
func (s *matchService) CreateMatch(ctx context.Context, left, right *PlayerInfo) (*models.Match, error) {
	match := &models.Match{
		LeftPlayerID:      left.AuthID,
		RightPlayerID:     right.AuthID,
		LeftPlayerName:    left.Username,
		RightPlayerName:   right.Username,
		LeftPlayerClient:  left.ClientID,
		RightPlayerClient: right.ClientID,
		ScoreLimit:        models.DefaultScoreLimit,
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		s.log.Error("Failed to create match",
			zap.Error(err),
			zap.Uint("leftAuthID", left.AuthID),
			zap.Uint("rightAuthID", right.AuthID))
		return nil, fmt.Errorf("创建对局失败: %w", err)
	}

	s.log.Info("Match created",
		zap.Uint("matchID", match.ID),
		zap.String("leftPlayer", left.Username),
		zap.String("rightPlayer", right.Username))

	return match, nil
}

// GetMatch 获取对局
func (s *matchService) GetMatch(ctx context.Context, matchID uint) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("获取对局失败: %w", err)
	}
	return match, nil
}

// FindLastByPlayer 查找玩家最近的一场对局
func (s *matchService) FindLastByPlayer(ctx context.Context, authID uint) (*models.Match, error) {
	match, err := s.matchRepo.FindLastByPlayer(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("获取对局失败: %w", err)
	}
	return match, nil
}

// UpdateMatch 更新对局信息（地图/模式选择等）
func (s *matchService) UpdateMatch(ctx context.Context, match *models.Match) error {
	if err := s.matchRepo.Update(ctx, match); err != nil {
		s.log.Error("Failed to update match", zap.Error(err), zap.Uint("matchID", match.ID))
		return fmt.Errorf("更新对局失败: %w", err)
	}
	return nil
}

// UpdateScore 持久化比分，超过上限的比分直接丢弃
func (s *matchService) UpdateScore(ctx context.Context, matchID uint, scoreLeft, scoreRight int) error {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("获取对局失败: %w", err)
	}

	if match.IsFinished {
		return nil
	}
	if scoreLeft > match.ScoreLimit || scoreRight > match.ScoreLimit {
		return nil
	}

	if err := s.matchRepo.UpdateScore(ctx, matchID, scoreLeft, scoreRight); err != nil {
		s.log.Error("Failed to update score",
			zap.Error(err),
			zap.Uint("matchID", matchID),
			zap.Int("scoreLeft", scoreLeft),
			zap.Int("scoreRight", scoreRight))
		return fmt.Errorf("更新比分失败: %w", err)
	}
	return nil
}

// EndMatchByScore 按比分结算对局，同时更新双方胜负统计
func (s *matchService) EndMatchByScore(ctx context.Context, matchID uint, scoreLeft, scoreRight int) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("获取对局失败: %w", err)
	}

	var winnerAuthID, loserAuthID uint
	switch {
	case scoreLeft >= match.ScoreLimit:
		winnerAuthID, loserAuthID = match.LeftPlayerID, match.RightPlayerID
	case scoreRight >= match.ScoreLimit:
		winnerAuthID, loserAuthID = match.RightPlayerID, match.LeftPlayerID
	default:
		return nil, fmt.Errorf("比分未达到结算条件")
	}

	if err := s.matchRepo.UpdateScore(ctx, matchID, scoreLeft, scoreRight); err != nil {
		return nil, fmt.Errorf("更新比分失败: %w", err)
	}

	if err := s.settle(ctx, match, winnerAuthID, loserAuthID, false); err != nil {
		return nil, err
	}

	return s.matchRepo.FindByID(ctx, matchID)
}

// EndMatchLeaver 玩家离场时判负结算，离场者为败方
func (s *matchService) EndMatchLeaver(ctx context.Context, matchID uint, leaverAuthID uint) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("获取对局失败: %w", err)
	}

	if !match.IsPlayer(leaverAuthID) {
		return nil, fmt.Errorf("不是对局玩家")
	}
	if match.IsDecided() {
		return match, nil
	}

	winnerAuthID := match.Opponent(leaverAuthID)
	if err := s.settle(ctx, match, winnerAuthID, leaverAuthID, true); err != nil {
		return nil, err
	}

	return s.matchRepo.FindByID(ctx, matchID)
}

// settle 写入胜负结果并更新双方统计，重复结算会被数据库条件拦截
func (s *matchService) settle(ctx context.Context, match *models.Match, winnerAuthID, loserAuthID uint, hasLeft bool) error {
	if err := s.matchRepo.Finish(ctx, match.ID, winnerAuthID, loserAuthID, hasLeft); err != nil {
		s.log.Warn("Match already settled",
			zap.Error(err),
			zap.Uint("matchID", match.ID))
		return fmt.Errorf("结算对局失败: %w", err)
	}

	winner, err := s.userRepo.FindByAuthID(ctx, winnerAuthID)
	if err == nil {
		if err := s.userRepo.AddWin(ctx, winner.ID); err != nil {
			s.log.Error("Failed to add win", zap.Error(err), zap.Uint("userID", winner.ID))
		}
	}

	loser, err := s.userRepo.FindByAuthID(ctx, loserAuthID)
	if err == nil {
		if err := s.userRepo.AddLoss(ctx, loser.ID); err != nil {
			s.log.Error("Failed to add loss", zap.Error(err), zap.Uint("userID", loser.ID))
		}
	}

	s.log.Info("Match settled",
		zap.Uint("matchID", match.ID),
		zap.Uint("winnerAuthID", winnerAuthID),
		zap.Uint("loserAuthID", loserAuthID),
		zap.Bool("hasLeft", hasLeft))

	return nil
}

// MarkFinished 标记对局结束，不改变已判定的胜负
func (s *matchService) MarkFinished(ctx context.Context, matchID uint) error {
	match, err := s.matchRepo.FindByID(ctx, matchID)
	if err != nil {
		return fmt.Errorf("获取对局失败: %w", err)
	}

	if match.IsFinished {
		return nil
	}

	match.IsFinished = true
	if err := s.matchRepo.Update(ctx, match); err != nil {
		s.log.Error("Failed to mark match finished", zap.Error(err), zap.Uint("matchID", matchID))
		return fmt.Errorf("更新对局失败: %w", err)
	}
	return nil
}

// History 获取玩家的对局历史（只含已结束对局）
func (s *matchService) History(ctx context.Context, authID uint, page, pageSize int) ([]*models.Match, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	matches, err := s.matchRepo.History(ctx, authID, pagination)
	if err != nil {
		s.log.Error("Failed to get match history", zap.Error(err), zap.Uint("authID", authID))
		return nil, 0, fmt.Errorf("获取对局历史失败: %w", err)
	}
	return matches, pagination.Total, nil
}

// Recent 获取最近结束的对局
func (s *matchService) Recent(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = 10
	}
	matches, err := s.matchRepo.Recent(ctx, limit)
	if err != nil {
		s.log.Error("Failed to get recent matches", zap.Error(err))
		return nil, fmt.Errorf("获取最近对局失败: %w", err)
	}
	return matches, nil
}
