package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wfunc/pong-game/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.User{},
		&models.Match{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// SeedTestUsers 创建测试用户
func SeedTestUsers(t *testing.T, db *gorm.DB) []models.User {
	users := []models.User{
		{
			AuthID:   1001,
			Username: "player1",
			Avatar:   "avatar1.png",
			Status:   models.StatusOnline,
		},
		{
			AuthID:   1002,
			Username: "player2",
			Avatar:   "avatar2.png",
			Status:   models.StatusOnline,
		},
		{
			AuthID:   1003,
			Username: "player3",
			Avatar:   "avatar3.png",
			Status:   models.StatusOffline,
		},
	}
	err := db.Create(&users).Error
	require.NoError(t, err)
	return users
}

// CreateTestMatch 创建测试对局
func CreateTestMatch(leftAuthID, rightAuthID uint) *models.Match {
	return &models.Match{
		LeftPlayerID:     leftAuthID,
		RightPlayerID:    rightAuthID,
		LeftPlayerName:   "player_left",
		RightPlayerName:  "player_right",
		ScoreLimit:       models.DefaultScoreLimit,
		GameMode:         models.ModeNormal,
		InitialBallSpeed: 40,
	}
}
