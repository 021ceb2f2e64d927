package repository

import (
	"context"
	"errors"

	"github.com/wfunc/pong-game/internal/models"
	"gorm.io/gorm"
)

// MatchRepository 对局仓储接口
type MatchRepository interface {
	BaseRepository
	Create(ctx context.Context, match *models.Match) error
	Update(ctx context.Context, match *models.Match) error
	FindByID(ctx context.Context, id uint) (*models.Match, error)
	FindLastByPlayer(ctx context.Context, authID uint) (*models.Match, error)
	FindUnfinishedByPlayer(ctx context.Context, authID uint) (*models.Match, error)
	UpdateScore(ctx context.Context, id uint, scoreLeft, scoreRight int) error
	Finish(ctx context.Context, id uint, winnerID, loserID uint, hasLeft bool) error
	History(ctx context.Context, authID uint, pagination *Pagination) ([]*models.Match, error)
	Recent(ctx context.Context, limit int) ([]*models.Match, error)
}

// matchRepo 对局仓储实现
type matchRepo struct {
	*BaseRepo
}

// NewMatchRepository 创建对局仓储
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建对局
func (r *matchRepo) Create(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Create(match).Error
}

// Update 更新对局
func (r *matchRepo) Update(ctx context.Context, match *models.Match) error {
	return r.db.WithContext(ctx).Save(match).Error
}

// FindByID 根据ID查找对局
func (r *matchRepo) FindByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).First(&match, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("对局不存在")
		}
		return nil, err
	}
	return &match, nil
}

// FindLastByPlayer 查找玩家最近的一场对局
func (r *matchRepo) FindLastByPlayer(ctx context.Context, authID uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Where("left_player_id = ? OR right_player_id = ?", authID, authID).
		Order("id DESC").
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("对局不存在")
		}
		return nil, err
	}
	return &match, nil
}

// FindUnfinishedByPlayer 查找玩家未结束的对局
func (r *matchRepo) FindUnfinishedByPlayer(ctx context.Context, authID uint) (*models.Match, error) {
	var match models.Match
	err := r.db.WithContext(ctx).
		Where("(left_player_id = ? OR right_player_id = ?) AND is_finished = ?", authID, authID, false).
		Order("id DESC").
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("对局不存在")
		}
		return nil, err
	}
	return &match, nil
}

// UpdateScore 更新比分
func (r *matchRepo) UpdateScore(ctx context.Context, id uint, scoreLeft, scoreRight int) error {
	return r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"score_left":  scoreLeft,
			"score_right": scoreRight,
		}).Error
}

// Finish 标记对局结束并记录胜负
// 只在 winner_id 尚未写入时生效，保证胜负结算只发生一次
func (r *matchRepo) Finish(ctx context.Context, id uint, winnerID, loserID uint, hasLeft bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ? AND winner_id IS NULL", id).
		Updates(map[string]interface{}{
			"winner_id":   winnerID,
			"loser_id":    loserID,
			"is_finished": true,
			"has_left":    hasLeft,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("对局已结算")
	}
	return nil
}

// History 查询玩家对局历史（分页，最新在前）
func (r *matchRepo) History(ctx context.Context, authID uint, pagination *Pagination) ([]*models.Match, error) {
	var matches []*models.Match
	query := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("(left_player_id = ? OR right_player_id = ?) AND is_finished = ?", authID, authID, true)

	// 获取总数
	var total int64
	query.Count(&total)
	pagination.Total = total

	// 分页查询
	err := query.
		Scopes(Paginate(pagination)).
		Order("id DESC").
		Find(&matches).Error

	return matches, err
}

// Recent 查询最近结束的对局
func (r *matchRepo) Recent(ctx context.Context, limit int) ([]*models.Match, error) {
	if limit <= 0 {
		limit = 20
	}
	var matches []*models.Match
	err := r.db.WithContext(ctx).
		Where("is_finished = ?", true).
		Order("id DESC").
		Limit(limit).
		Find(&matches).Error
	return matches, err
}

// WithTx 使用事务
func (r *matchRepo) WithTx(tx *gorm.DB) BaseRepository {
	return &matchRepo{
		BaseRepo: &BaseRepo{db: tx},
	}
}
