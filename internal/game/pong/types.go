package pong

import "math"

// Status 对局状态码，通过 gameStatus 事件下发给客户端
type Status int

const (
	StatusMap      Status = 0 // 选图阶段
	StatusInit     Status = 1 // 发球准备
	StatusPlay     Status = 2 // 对局进行中
	StatusWin      Status = 3 // 胜利
	StatusLose     Status = 4 // 失败
	StatusLeave    Status = 5 // 对手离场
	StatusFinished Status = 6 // 对局结束确认
)

// Side 球台侧别
type Side int

const (
	SideNone Side = iota
	SideLeft
	SideRight
)

// String 返回侧别名称
func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideRight:
		return "right"
	default:
		return "none"
	}
}

// Opposite 返回对侧
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideNone
	}
}

// Vector 二维方向向量
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Length 向量模长
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Constants 某一模式下的物理常量
type Constants struct {
	PaddleWidth  float64
	PaddleHeight float64
	BallDiameter float64
	InitialSpeed float64
}

// 游戏模式
const (
	ModeNormal = "normal"
	ModeHard   = "hard"
)

// ModeConstants 返回指定模式的物理常量，未知模式按 normal 处理
func ModeConstants(mode string) Constants {
	switch mode {
	case ModeHard:
		return Constants{
			PaddleWidth:  9,
			PaddleHeight: 55,
			BallDiameter: 10,
			InitialSpeed: 50,
		}
	default:
		return Constants{
			PaddleWidth:  18,
			PaddleHeight: 110,
			BallDiameter: 20,
			InitialSpeed: 40,
		}
	}
}

// State 一次模拟步进所需的完整运动学快照
// 字段名与客户端提交的载荷保持一致
type State struct {
	GameID        uint    `json:"gameId"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	BallX         float64 `json:"ballX"`
	BallY         float64 `json:"ballY"`
	BallRadius    float64 `json:"ballRadius"`
	BallDirection Vector  `json:"ballDirection"`
	BallSpeed     float64 `json:"ballSpeed"`
	BallVelocity  float64 `json:"ballVelocity"`
	LeftPaddleX   float64 `json:"leftPaddleX"`
	LeftPaddleY   float64 `json:"leftPaddleY"`
	RightPaddleX  float64 `json:"rightPaddleX"`
	RightPaddleY  float64 `json:"rightPaddleY"`
	PaddleW       float64 `json:"paddleW"`
	PaddleH       float64 `json:"paddleH"`
	LeftPlayerID  uint    `json:"leftPlayerId"`
	RightPlayerID uint    `json:"rightPlayerId"`
	ScoreLeft     int     `json:"scoreLeftPlayer"`
	ScoreRight    int     `json:"scoreRightPlayer"`
	ScoreLimit    int     `json:"scoreLimit"`
	GameStatus    Status  `json:"gameStatus"`
}

// ResetBall 将球归位到球台中心并清零方向
func (s *State) ResetBall() {
	s.BallX = s.Width / 2
	s.BallY = s.Height / 2
	s.BallDirection = Vector{}
}

// LimitReached 检查任一侧是否已达到分数上限
func (s *State) LimitReached() bool {
	return s.ScoreLeft == s.ScoreLimit || s.ScoreRight == s.ScoreLimit
}

// Leader 返回当前领先的一侧，平分时返回 SideNone
func (s *State) Leader() Side {
	switch {
	case s.ScoreLeft > s.ScoreRight:
		return SideLeft
	case s.ScoreRight > s.ScoreLeft:
		return SideRight
	default:
		return SideNone
	}
}
