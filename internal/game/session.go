package game

import (
	"math/rand"
	"sync"

	"github.com/wfunc/pong-game/internal/game/pong"
)

// Phase 会话所处的生命周期阶段
type Phase int

const (
	PhaseMapSelect Phase = iota
	PhaseModeSelect
	PhaseAwaitingReady
	PhasePlaying
	PhaseTerminal
)

// Session 一场对局的内存态会话
// 持久化字段以数据库记录为准，这里只保存选择流程与结算去重所需的状态
type Session struct {
	mu sync.Mutex

	ID         uint
	LeftAuthID uint
	RightAuthID uint
	LeftName   string
	RightName  string

	// 选图就绪标记
	leftMapReady  bool
	rightMapReady bool

	// 模式偏好与裁决结果
	leftMode  string
	rightMode string
	mode      string

	initialSpeed float64
	scoreLimit   int

	// 最新已知比分，只增不减
	scoreLeft  int
	scoreRight int

	phase    Phase
	hasLeft  bool
	finished bool
	decided  bool
	winnerID uint
	loserID  uint

	rng *rand.Rand
}

// NewSession 创建会话
func NewSession(id, leftAuthID, rightAuthID uint, leftName, rightName string, scoreLimit int, rng *rand.Rand) *Session {
	return &Session{
		ID:          id,
		LeftAuthID:  leftAuthID,
		RightAuthID: rightAuthID,
		LeftName:    leftName,
		RightName:   rightName,
		scoreLimit:  scoreLimit,
		phase:       PhaseMapSelect,
		rng:         rng,
	}
}

// SideOf 返回指定认证ID所在的侧别
func (s *Session) SideOf(authID uint) pong.Side {
	switch authID {
	case s.LeftAuthID:
		return pong.SideLeft
	case s.RightAuthID:
		return pong.SideRight
	default:
		return pong.SideNone
	}
}

// OpponentAuthID 返回指定玩家的对手认证ID
func (s *Session) OpponentAuthID(authID uint) (uint, bool) {
	switch authID {
	case s.LeftAuthID:
		return s.RightAuthID, true
	case s.RightAuthID:
		return s.LeftAuthID, true
	default:
		return 0, false
	}
}

// SetMapReady 标记一侧选图就绪，双方均就绪时返回 true 并推进阶段
func (s *Session) SetMapReady(side pong.Side) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch side {
	case pong.SideLeft:
		s.leftMapReady = true
	case pong.SideRight:
		s.rightMapReady = true
	default:
		return false
	}

	if s.leftMapReady && s.rightMapReady {
		if s.phase == PhaseMapSelect {
			s.phase = PhaseModeSelect
		}
		return true
	}
	return false
}

// ModeResolution 模式裁决结果
type ModeResolution struct {
	// Both 双方偏好是否都已记录
	Both bool
	// Mode 裁决出的模式，仅在 Both 为 true 时有效
	Mode string
	// HasLeft 选择期间是否已有玩家离场
	HasLeft bool
}

// SetModePref 记录一侧的模式偏好
// 双方偏好齐备时完成裁决：一致采用、不一致随机，并推进阶段
func (s *Session) SetModePref(side pong.Side, mode string) ModeResolution {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch side {
	case pong.SideLeft:
		s.leftMode = mode
	case pong.SideRight:
		s.rightMode = mode
	default:
		return ModeResolution{}
	}

	if s.leftMode == "" || s.rightMode == "" {
		return ModeResolution{}
	}

	if s.mode == "" {
		s.mode = pong.ResolveMode(s.leftMode, s.rightMode, s.rng)
		s.initialSpeed = pong.ModeConstants(s.mode).InitialSpeed
	}
	if s.phase == PhaseModeSelect {
		s.phase = PhaseAwaitingReady
	}

	return ModeResolution{
		Both:    true,
		Mode:    s.mode,
		HasLeft: s.hasLeft,
	}
}

// Mode 返回裁决后的模式，未裁决时为空
func (s *Session) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// InitialSpeed 返回按模式确定的初始球速
func (s *Session) InitialSpeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialSpeed == 0 {
		return pong.ModeConstants(pong.ModeNormal).InitialSpeed
	}
	return s.initialSpeed
}

// StartBall 生成随机发球方向并进入对局阶段
func (s *Session) StartBall() pong.Vector {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = PhasePlaying
	return pong.RandomDirection(s.rng)
}

// RecordScore 记录最新比分，比分只增不减以抵御乱序快照
func (s *Session) RecordScore(scoreLeft, scoreRight int) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scoreLeft > s.scoreLeft {
		s.scoreLeft = scoreLeft
	}
	if scoreRight > s.scoreRight {
		s.scoreRight = scoreRight
	}
	return s.scoreLeft, s.scoreRight
}

// Scores 返回当前比分
func (s *Session) Scores() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scoreLeft, s.scoreRight
}

// Outcome 结算结果
type Outcome struct {
	WinnerID uint
	LoserID  uint
	HasLeft  bool
}

// FinishByScore 按比分结算，只有首次调用生效
func (s *Session) FinishByScore() (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.decided {
		return Outcome{}, false
	}

	switch {
	case s.scoreLeft == s.scoreLimit:
		s.winnerID = s.LeftAuthID
		s.loserID = s.RightAuthID
	case s.scoreRight == s.scoreLimit:
		s.winnerID = s.RightAuthID
		s.loserID = s.LeftAuthID
	default:
		return Outcome{}, false
	}

	s.decided = true
	s.finished = true
	s.phase = PhaseTerminal
	return Outcome{WinnerID: s.winnerID, LoserID: s.loserID}, true
}

// ForfeitBy 离场判负：剩余玩家获胜，只有首次调用生效
func (s *Session) ForfeitBy(authID uint) (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.decided {
		return Outcome{}, false
	}

	winner, ok := 0, false
	switch authID {
	case s.LeftAuthID:
		winner, ok = int(s.RightAuthID), true
	case s.RightAuthID:
		winner, ok = int(s.LeftAuthID), true
	}
	if !ok {
		return Outcome{}, false
	}

	s.decided = true
	s.finished = true
	s.hasLeft = true
	s.phase = PhaseTerminal
	s.winnerID = uint(winner)
	s.loserID = authID
	return Outcome{WinnerID: s.winnerID, LoserID: s.loserID, HasLeft: true}, true
}

// MarkFinished 幂等地标记对局结束，不改变胜负
func (s *Session) MarkFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = true
	if s.decided {
		s.phase = PhaseTerminal
	}
}

// Snapshot 会话状态快照
type Snapshot struct {
	ID          uint
	LeftAuthID  uint
	RightAuthID uint
	LeftName    string
	RightName   string
	Mode        string
	ScoreLeft   int
	ScoreRight  int
	ScoreLimit  int
	Phase       Phase
	Finished    bool
	HasLeft     bool
	WinnerID    uint
	LoserID     uint
}

// Snapshot 返回当前会话状态的拷贝
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:          s.ID,
		LeftAuthID:  s.LeftAuthID,
		RightAuthID: s.RightAuthID,
		LeftName:    s.LeftName,
		RightName:   s.RightName,
		Mode:        s.mode,
		ScoreLeft:   s.scoreLeft,
		ScoreRight:  s.scoreRight,
		ScoreLimit:  s.scoreLimit,
		Phase:       s.phase,
		Finished:    s.finished,
		HasLeft:     s.hasLeft,
		WinnerID:    s.winnerID,
		LoserID:     s.loserID,
	}
}

// IsFinished 检查对局是否已结束
func (s *Session) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// IsDecided 检查胜负是否已判定
func (s *Session) IsDecided() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decided
}
