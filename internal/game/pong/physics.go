package pong

import (
	"math"
	"math/rand"
)

// 物理常量
const (
	// VelocityFactor 每步位移与标量速度的换算系数
	VelocityFactor = 0.125
	// PaddleStep 单次按键的挡板位移
	PaddleStep = 10
	// EdgeZone 挡板近边缘区域宽度，落在该区域且逆向运动的球会额外反转纵向
	EdgeZone = 5
	// SpeedStepBase 加速公式的基准速度
	SpeedStepBase = 40
	// SpeedStepGain 每次击打的加速增量系数
	SpeedStepGain = 15
)

// StepOutcome 单步模拟的结果类别
type StepOutcome int

const (
	// OutcomeAdvance 球正常前进
	OutcomeAdvance StepOutcome = iota
	// OutcomeScore 一方得分，球已归位
	OutcomeScore
	// OutcomeFinished 分数已达上限，对局应当结算
	OutcomeFinished
)

// StepResult 单步模拟的结果
type StepResult struct {
	Outcome StepOutcome
	// ScoredBy 得分侧，仅在 OutcomeScore 时有效
	ScoredBy Side
	// LimitReached 本步得分后是否恰好到达上限
	LimitReached bool
}

// Step 对快照执行一次模拟步进
// 处理顺序与客户端渲染约定一致：墙壁反弹、挡板碰撞、上限检查、
// 出界得分、常规前进。initialSpeed 为得分后球速的复位值。
func Step(s *State, initialSpeed float64) StepResult {
	// 上下墙壁反弹
	if s.BallY-s.BallRadius < 0 || s.BallY+s.BallRadius > s.Height {
		s.BallDirection.Y *= -1
	} else if s.BallX-s.BallRadius < s.LeftPaddleX+s.PaddleW &&
		s.BallY+s.BallRadius > s.LeftPaddleY &&
		s.BallY-s.BallRadius < s.LeftPaddleY+s.PaddleH &&
		s.BallDirection.X < 0 {
		// 左挡板碰撞，仅当球朝左运动时生效
		bouncePaddle(s, s.LeftPaddleY)
	} else if s.BallX+s.BallRadius > s.RightPaddleX &&
		s.BallY+s.BallRadius > s.RightPaddleY &&
		s.BallY-s.BallRadius < s.RightPaddleY+s.PaddleH &&
		s.BallDirection.X > 0 {
		// 右挡板碰撞，仅当球朝右运动时生效
		bouncePaddle(s, s.RightPaddleY)
	}

	// 上一次得分已到上限，本步只负责触发结算
	if s.LimitReached() {
		return StepResult{Outcome: OutcomeFinished}
	}

	// 出界得分
	if s.BallX+s.BallRadius > s.Width || s.BallX-s.BallRadius < 0 {
		var scoredBy Side
		if s.BallX+s.BallRadius > s.Width {
			s.ScoreLeft++
			scoredBy = SideLeft
		} else {
			s.ScoreRight++
			scoredBy = SideRight
		}
		s.BallSpeed = initialSpeed
		s.ResetBall()
		return StepResult{
			Outcome:      OutcomeScore,
			ScoredBy:     scoredBy,
			LimitReached: s.LimitReached(),
		}
	}

	// 常规前进
	s.BallVelocity = VelocityFactor * s.BallSpeed
	s.BallX += s.BallDirection.X * s.BallVelocity
	s.BallY += s.BallDirection.Y * s.BallVelocity
	return StepResult{Outcome: OutcomeAdvance}
}

// bouncePaddle 处理一次挡板碰撞：近边缘逆向球追加纵向反转，
// 横向反转并按当前速度递增球速
func bouncePaddle(s *State, paddleY float64) {
	if s.BallY < paddleY+EdgeZone && s.BallDirection.Y > 0 {
		s.BallDirection.Y *= -1
	} else if s.BallY > paddleY+s.PaddleH-EdgeZone && s.BallDirection.Y < 0 {
		s.BallDirection.Y *= -1
	}
	s.BallDirection.X *= -1
	s.BallSpeed += SpeedStepGain * math.Round(math.Sqrt(s.BallSpeed/SpeedStepBase))
}

// 按键分组
var (
	upKeys   = map[string]bool{"ArrowUp": true, "w": true, "W": true, "z": true, "Z": true}
	downKeys = map[string]bool{"ArrowDown": true, "s": true, "S": true}
)

// ApplyPaddleKey 将一次按键应用到指定侧的挡板，位置钳制在球台范围内
func ApplyPaddleKey(s *State, side Side, key string) {
	var paddleY *float64
	switch side {
	case SideLeft:
		paddleY = &s.LeftPaddleY
	case SideRight:
		paddleY = &s.RightPaddleY
	default:
		return
	}

	switch {
	case upKeys[key]:
		*paddleY -= PaddleStep
		if *paddleY < 0 {
			*paddleY = 0
		}
	case downKeys[key]:
		*paddleY += PaddleStep
		if *paddleY+s.PaddleH > s.Height {
			*paddleY = s.Height - s.PaddleH
		}
	}
}

// RandomDirection 生成随机发球方向：在 [0, 2π) 上均匀取角，
// 拒绝采样直到横向分量绝对值落在 (0.2, 0.9) 区间内
func RandomDirection(rng *rand.Rand) Vector {
	var dir Vector
	for math.Abs(dir.X) <= 0.2 || math.Abs(dir.X) >= 0.9 {
		angle := rng.Float64() * 2 * math.Pi
		dir = Vector{
			X: math.Cos(angle),
			Y: math.Sin(angle),
		}
	}
	return dir
}

// 模式候选列表，偏好不一致时随机选取
var modeChoices = []string{ModeNormal, ModeHard}

// ResolveMode 裁决双方的模式偏好：一致则采用该模式，不一致则随机
func ResolveMode(left, right string, rng *rand.Rand) string {
	if left == right && left != "" {
		return left
	}
	return modeChoices[rng.Intn(len(modeChoices))]
}
