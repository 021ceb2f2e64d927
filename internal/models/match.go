package models

// 游戏模式
const (
	ModeNormal = "normal"
	ModeHard   = "hard"
)

// DefaultScoreLimit 默认胜利分数
const DefaultScoreLimit = 5

// Match 对局表，一条记录对应一场Pong对局
type Match struct {
	BaseModel
	LeftPlayerID      uint   `gorm:"index;not null" json:"left_player_id"`  // 左侧玩家认证ID
	RightPlayerID     uint   `gorm:"index;not null" json:"right_player_id"` // 右侧玩家认证ID
	LeftPlayerName    string `gorm:"size:50" json:"left_player_name"`
	RightPlayerName   string `gorm:"size:50" json:"right_player_name"`
	LeftPlayerClient  string `gorm:"size:64" json:"-"` // 创建对局时的连接ID
	RightPlayerClient string `gorm:"size:64" json:"-"`
	ScoreLeft         int    `gorm:"default:0" json:"score_left"`
	ScoreRight        int    `gorm:"default:0" json:"score_right"`
	ScoreLimit        int    `gorm:"default:5" json:"score_limit"`
	GameMode          string `gorm:"size:20" json:"game_mode"` // 空值表示尚未选定, normal, hard
	LeftPlayerMap     bool   `gorm:"default:false" json:"left_player_map"`
	RightPlayerMap    bool   `gorm:"default:false" json:"right_player_map"`
	LeftPlayerMode    string `gorm:"size:20" json:"left_player_mode"`
	RightPlayerMode   string `gorm:"size:20" json:"right_player_mode"`
	InitialBallSpeed  float64 `gorm:"default:0" json:"initial_ball_speed"`
	WinnerID          *uint  `json:"winner_id,omitempty"`
	LoserID           *uint  `json:"loser_id,omitempty"`
	IsFinished        bool   `gorm:"default:false" json:"is_finished"`
	HasLeft           bool   `gorm:"default:false" json:"has_left"` // 有玩家中途离场
}

// TableName 指定Match表名
func (Match) TableName() string {
	return "matches"
}

// IsPlayer 检查指定认证ID是否是对局玩家
func (m *Match) IsPlayer(authID uint) bool {
	return authID == m.LeftPlayerID || authID == m.RightPlayerID
}

// Opponent 返回指定玩家的对手认证ID
func (m *Match) Opponent(authID uint) uint {
	if authID == m.LeftPlayerID {
		return m.RightPlayerID
	}
	return m.LeftPlayerID
}

// IsDecided 检查胜负是否已经判定
func (m *Match) IsDecided() bool {
	return m.WinnerID != nil || m.LoserID != nil
}
