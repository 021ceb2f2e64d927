package websocket

import (
	"encoding/json"

	"github.com/wfunc/pong-game/internal/game/pong"
)

// Message WebSocket消息信封
type Message struct {
	Type      string          `json:"type"`      // 事件名
	Data      json.RawMessage `json:"data"`      // 事件载荷
	Timestamp int64           `json:"timestamp"` // 时间戳
}

// 客户端→服务端事件
const (
	EventJoinRoom       = "join-room"
	EventLeaveQueue     = "leaveQueue"
	EventInviteInit     = "inviteInit"
	EventInviteAccepted = "inviteAccepted"
	EventInviteDeclined = "inviteDeclined"
	EventInitGame       = "initGame"
	EventCheckGame      = "checkGame"
	EventMapSelect      = "mapSelect"
	EventGameMode       = "gameMode"
	EventGameStart      = "gameStart"
	EventPaddleMove     = "paddleMove"
	EventBallMove       = "ballMove"
	EventLeaveGame      = "leaveGame"
	EventGameFinished   = "gameFinished"
)

// 服务端→客户端事件
const (
	EventMatchFound       = "match-found"
	EventInvitation       = "invitation"
	EventMapSelected      = "mapSelected"
	EventModeSelected     = "modeSelected"
	EventGameStatus       = "gameStatus"
	EventGameStatusSelect = "gameStatusSelect"
	EventPaddleUpdate     = "paddleUpdate"
	EventBallUpdate       = "ballUpdate"
	EventScoreUpdate      = "scoreUpdate"
	EventUpdate           = "update"
	EventError            = "error"
)

// UpdatePresence 全局刷新信号的约定值
const UpdatePresence = 28

// JoinRoomPayload 进入匹配队列
type JoinRoomPayload struct {
	UserID uint `json:"userId"`
	AuthID uint `json:"authId"`
}

// LeaveQueuePayload 离开匹配队列
type LeaveQueuePayload struct {
	AuthID uint `json:"authId"`
}

// InviteInitPayload 发起邀请，载荷为被邀请用户ID
type InviteInitPayload struct {
	InvitedID uint `json:"invitedId"`
}

// InviteResolvePayload 接受或拒绝邀请
type InviteResolvePayload struct {
	InvitedID uint `json:"invitedId"`
	InviterID uint `json:"inviterId"`
}

// GameRefPayload 引用某场对局的通用载荷
type GameRefPayload struct {
	AuthID uint `json:"authId"`
	GameID uint `json:"gameId"`
}

// GameModePayload 提交模式偏好
type GameModePayload struct {
	AuthID uint   `json:"authId"`
	GameID uint   `json:"gameId"`
	Mode   string `json:"gameMode"`
}

// PaddleMovePayload 挡板按键，附带客户端当前的运动学快照
type PaddleMovePayload struct {
	pong.State
	AuthID uint   `json:"authId"`
	Key    string `json:"key"`
}

// LeaveGamePayload 主动离开对局
type LeaveGamePayload struct {
	AuthID uint `json:"authId"`
	GameID uint `json:"gameId"`
	Status int  `json:"status"`
}

// GameFinishedPayload 对局结束确认
type GameFinishedPayload struct {
	GameID uint `json:"gameId"`
}

// MatchFoundPayload 匹配成功
type MatchFoundPayload struct {
	GameID uint `json:"gameId"`
}

// GameIDPayload 只携带对局ID的通知
type GameIDPayload struct {
	GameID uint `json:"gameId"`
}

// InvitationPayload 邀请通知，发给被邀请方的个人房间
type InvitationPayload struct {
	InviterID   uint   `json:"inviterId"`
	InviterName string `json:"inviterName"`
}

// InviteAcceptedPayload 邀请被接受的通知
type InviteAcceptedPayload struct {
	User   string `json:"user"`
	GameID uint   `json:"gameId"`
}

// GameSnapshotPayload 对局快照，initGame 的响应
type GameSnapshotPayload struct {
	GameID          uint   `json:"gameId"`
	LeftPlayerID    uint   `json:"leftPlayerId"`
	RightPlayerID   uint   `json:"rightPlayerId"`
	LeftPlayerName  string `json:"leftPlayerName"`
	RightPlayerName string `json:"rightPlayerName"`
	ScoreLeft       int    `json:"scoreLeftPlayer"`
	ScoreRight      int    `json:"scoreRightPlayer"`
	ScoreLimit      int    `json:"scoreLimit"`
	GameMode        string `json:"gameMode"`
	HasLeft         bool   `json:"hasLeft"`
	IsFinished      bool   `json:"isFinished"`
}

// CheckGamePayload 对局恢复检查的响应
type CheckGamePayload struct {
	GameID     uint   `json:"gameId"`
	HasLeft    bool   `json:"hasLeft"`
	IsFinished bool   `json:"isFinished"`
	GameMode   string `json:"gameMode"`
}

// ModeSelectedPayload 模式裁决结果
type ModeSelectedPayload struct {
	GameMode   string `json:"gameMode"`
	ReadyCheck bool   `json:"readyCheck"`
}

// GameStatusPayload 对局状态变化
type GameStatusPayload struct {
	GameID uint        `json:"gameId"`
	Status pong.Status `json:"gameStatus"`
}

// PaddleUpdatePayload 挡板位置广播
type PaddleUpdatePayload struct {
	GameID       uint    `json:"gameId"`
	LeftPaddleY  float64 `json:"leftPaddleY"`
	RightPaddleY float64 `json:"rightPaddleY"`
}

// ScoreUpdatePayload 比分广播
type ScoreUpdatePayload struct {
	GameID     uint `json:"gameId"`
	ScoreLeft  int  `json:"scoreLeftPlayer"`
	ScoreRight int  `json:"scoreRightPlayer"`
}

// UpdatePayload 全局刷新信号
type UpdatePayload struct {
	ToUpdate int `json:"toUpdate"`
}

// ErrorPayload 错误通知
type ErrorPayload struct {
	Message string `json:"message"`
}
