package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wfunc/pong-game/internal/game"
	"github.com/wfunc/pong-game/internal/game/pong"
	"github.com/wfunc/pong-game/internal/models"
	"github.com/wfunc/pong-game/internal/service"
	"go.uber.org/zap"
)

// DefaultScoreWriteDelay 比分广播后延迟落库的时间
const DefaultScoreWriteDelay = 100 * time.Millisecond

// GameHandler 对局消息处理器
// 负责匹配、邀请、选择流程与对局模拟的事件分发
type GameHandler struct {
	hub      *Hub
	users    service.UserService
	matches  service.MatchService
	queue    *game.Queue
	invites  *game.InviteBroker
	registry *game.Registry

	scoreWriteDelay time.Duration
	logger          *zap.Logger
}

// NewGameHandler 创建对局消息处理器
func NewGameHandler(
	hub *Hub,
	users service.UserService,
	matches service.MatchService,
	registry *game.Registry,
	logger *zap.Logger,
) *GameHandler {
	return &GameHandler{
		hub:             hub,
		users:           users,
		matches:         matches,
		queue:           game.NewQueue(),
		invites:         game.NewInviteBroker(),
		registry:        registry,
		scoreWriteDelay: DefaultScoreWriteDelay,
		logger:          logger,
	}
}

// SetScoreWriteDelay 调整比分落库延迟（测试用）
func (g *GameHandler) SetScoreWriteDelay(d time.Duration) {
	g.scoreWriteDelay = d
}

// Queue 返回匹配队列
func (g *GameHandler) Queue() *game.Queue {
	return g.queue
}

// Invites 返回邀请管理器
func (g *GameHandler) Invites() *game.InviteBroker {
	return g.invites
}

// HandleConnect 连接建立：加入个人房间并刷新在线状态
func (g *GameHandler) HandleConnect(client *Client) {
	ctx := context.Background()

	g.hub.JoinRoom(UserRoom(client.UserID), client)

	user, err := g.users.GetUserByAuthID(ctx, client.AuthID)
	if err != nil {
		g.logger.Warn("Connected client has no user record",
			zap.String("clientID", client.ID),
			zap.Uint("authID", client.AuthID))
		return
	}

	// 排队或对局中的重连不改变状态
	if !user.IsBusy() {
		if err := g.users.SetStatus(ctx, user.ID, models.StatusOnline); err != nil {
			g.logger.Error("Failed to set user online", zap.Error(err), zap.Uint("userID", user.ID))
		}
	}

	g.broadcastUpdate()
}

// HandleDisconnect 连接断开级联：清理邀请、出队、离场判负、下线
func (g *GameHandler) HandleDisconnect(client *Client) {
	ctx := context.Background()

	g.invites.RemoveByAuthID(client.AuthID)

	// 席位跟随建立它的连接，其他连接断开不影响排队
	dequeued := g.queue.RemoveByClient(client.ID)

	// 同一认证ID还有其他连接时不下线
	if g.hub.CountByAuthID(client.AuthID) > 0 {
		if dequeued {
			if err := g.users.SetStatusByAuthID(ctx, client.AuthID, models.StatusOnline); err != nil {
				g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("authID", client.AuthID))
			}
		}
		g.broadcastUpdate()
		return
	}

	if session, ok := g.registry.FindByPlayer(client.AuthID); ok {
		g.forfeit(ctx, session, client.AuthID)
		g.maybeRemoveSession(session)
	}

	if err := g.users.SetStatusByAuthID(ctx, client.AuthID, models.StatusOffline); err != nil {
		g.logger.Error("Failed to set user offline",
			zap.Error(err),
			zap.Uint("authID", client.AuthID))
	}

	g.broadcastUpdate()
}

// HandleClientMessage 解析信封并按事件分发
func (g *GameHandler) HandleClientMessage(client *Client, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		g.logger.Warn("Failed to parse client message",
			zap.String("clientID", client.ID),
			zap.Error(err))
		client.SendError("消息格式错误")
		return
	}

	switch msg.Type {
	case EventJoinRoom:
		g.handleJoinRoom(client, msg.Data)
	case EventLeaveQueue:
		g.handleLeaveQueue(client, msg.Data)
	case EventInviteInit:
		g.handleInviteInit(client, msg.Data)
	case EventInviteAccepted:
		g.handleInviteAccepted(client, msg.Data)
	case EventInviteDeclined:
		g.handleInviteDeclined(client, msg.Data)
	case EventInitGame:
		g.handleInitGame(client, msg.Data)
	case EventCheckGame:
		g.handleCheckGame(client, msg.Data)
	case EventMapSelect:
		g.handleMapSelect(client, msg.Data)
	case EventGameMode:
		g.handleGameMode(client, msg.Data)
	case EventGameStart:
		g.handleGameStart(client, msg.Data)
	case EventPaddleMove:
		g.handlePaddleMove(client, msg.Data)
	case EventBallMove:
		g.handleBallMove(client, msg.Data)
	case EventLeaveGame:
		g.handleLeaveGame(client, msg.Data)
	case EventGameFinished:
		g.handleGameFinished(client, msg.Data)
	default:
		g.logger.Debug("Unknown event type",
			zap.String("clientID", client.ID),
			zap.String("type", msg.Type))
	}
}

// handleJoinRoom 进入匹配队列，凑满两人即配对开局
func (g *GameHandler) handleJoinRoom(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload JoinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		client.SendError("消息格式错误")
		return
	}

	user, err := g.users.GetUserByAuthID(ctx, client.AuthID)
	if err != nil {
		client.SendError("用户不存在")
		return
	}

	// 重复排队是无操作
	if g.queue.Contains(client.AuthID) {
		return
	}
	if user.IsBusy() {
		client.SendError("玩家正在排队或对局中")
		return
	}

	g.queue.Enqueue(game.WaitingEntry{
		UserID:   user.ID,
		AuthID:   client.AuthID,
		Username: user.Username,
		ClientID: client.ID,
	})

	if err := g.users.SetStatus(ctx, user.ID, models.StatusInQueue); err != nil {
		g.logger.Error("Failed to set user in queue", zap.Error(err), zap.Uint("userID", user.ID))
	}
	g.broadcastUpdate()

	left, right, ok := g.queue.TryPair()
	if !ok {
		return
	}
	g.createGame(ctx,
		&service.PlayerInfo{UserID: left.UserID, AuthID: left.AuthID, Username: left.Username, ClientID: left.ClientID},
		&service.PlayerInfo{UserID: right.UserID, AuthID: right.AuthID, Username: right.Username, ClientID: right.ClientID},
		true,
	)
}

// handleLeaveQueue 离开匹配队列
func (g *GameHandler) handleLeaveQueue(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload LeaveQueuePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	if !g.queue.Remove(client.AuthID) {
		return
	}

	if err := g.users.SetStatusByAuthID(ctx, client.AuthID, models.StatusOnline); err != nil {
		g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("authID", client.AuthID))
	}
	g.broadcastUpdate()
}

// handleInviteInit 发起邀请，校验失败一律静默
func (g *GameHandler) handleInviteInit(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload InviteInitPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	invited, err := g.users.GetUserByID(ctx, payload.InvitedID)
	if err != nil {
		return
	}
	if invited.ID == client.UserID {
		return
	}
	if !invited.IsOnline() {
		return
	}
	if invited.HasBlocked(client.UserID) {
		return
	}
	if g.invites.Has(client.AuthID, invited.AuthID) {
		return
	}

	g.invites.Add(game.Invitation{
		Inviter: game.Player{UserID: client.UserID, AuthID: client.AuthID, Username: client.Username, ClientID: client.ID},
		Invited: game.Player{UserID: invited.ID, AuthID: invited.AuthID, Username: invited.Username},
	})

	g.hub.SendToUser(invited.ID, EventInvitation, &InvitationPayload{
		InviterID:   client.UserID,
		InviterName: client.Username,
	})

	g.logger.Info("Invitation sent",
		zap.Uint("inviterID", client.UserID),
		zap.Uint("invitedID", invited.ID))
}

// handleInviteAccepted 接受邀请并开局，邀请方作为左侧玩家
func (g *GameHandler) handleInviteAccepted(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload InviteResolvePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	inv, ok := g.invites.Accept(payload.InvitedID, payload.InviterID)
	if !ok {
		return
	}

	// 任一方已在排队或对局中时，过期的邀请作废
	inviter, err := g.users.GetUserByAuthID(ctx, inv.Inviter.AuthID)
	if err != nil || inviter.IsBusy() {
		return
	}
	invited, err := g.users.GetUserByAuthID(ctx, inv.Invited.AuthID)
	if err != nil || invited.IsBusy() {
		return
	}

	inv.Invited.ClientID = client.ID

	match := g.createGame(ctx,
		&service.PlayerInfo{UserID: inv.Inviter.UserID, AuthID: inv.Inviter.AuthID, Username: inv.Inviter.Username, ClientID: inv.Inviter.ClientID},
		&service.PlayerInfo{UserID: inv.Invited.UserID, AuthID: inv.Invited.AuthID, Username: inv.Invited.Username, ClientID: inv.Invited.ClientID},
		false,
	)
	if match == nil {
		return
	}

	g.hub.SendToUser(inv.Inviter.UserID, EventInviteAccepted, &InviteAcceptedPayload{
		User:   inv.Invited.Username,
		GameID: match.ID,
	})
	g.hub.SendToUser(inv.Invited.UserID, EventInviteAccepted, &InviteAcceptedPayload{
		User:   inv.Inviter.Username,
		GameID: match.ID,
	})
}

// handleInviteDeclined 拒绝邀请，静默移除
func (g *GameHandler) handleInviteDeclined(client *Client, data json.RawMessage) {
	var payload InviteResolvePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}
	g.invites.Decline(payload.InvitedID, payload.InviterID)
}

// createGame 建立对局记录与内存会话，并通知双方
// notify 为 true 时向双方连接推送 match-found（匹配队列路径）
func (g *GameHandler) createGame(ctx context.Context, left, right *service.PlayerInfo, notify bool) *models.Match {
	match, err := g.matches.CreateMatch(ctx, left, right)
	if err != nil {
		g.logger.Error("Failed to create match",
			zap.Error(err),
			zap.Uint("leftAuthID", left.AuthID),
			zap.Uint("rightAuthID", right.AuthID))
		return nil
	}

	g.registry.Create(match.ID, left.AuthID, right.AuthID, left.Username, right.Username, match.ScoreLimit)

	for _, p := range []*service.PlayerInfo{left, right} {
		if err := g.users.SetStatus(ctx, p.UserID, models.StatusInGame); err != nil {
			g.logger.Error("Failed to set user in game", zap.Error(err), zap.Uint("userID", p.UserID))
		}
	}

	if notify {
		payload := &MatchFoundPayload{GameID: match.ID}
		g.hub.SendToClient(left.ClientID, EventMatchFound, payload)
		g.hub.SendToClient(right.ClientID, EventMatchFound, payload)
	}

	g.broadcastUpdate()
	return match
}

// handleInitGame 连接加入对局房间并返回快照，会话不存在时返回 -1
func (g *GameHandler) handleInitGame(client *Client, data json.RawMessage) {
	var payload GameRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if !ok {
		client.SendEvent(EventInitGame, -1)
		return
	}

	g.hub.JoinRoom(GameRoom(payload.GameID), client)
	client.MatchID = payload.GameID

	snap := session.Snapshot()
	client.SendEvent(EventInitGame, &GameSnapshotPayload{
		GameID:          snap.ID,
		LeftPlayerID:    snap.LeftAuthID,
		RightPlayerID:   snap.RightAuthID,
		LeftPlayerName:  snap.LeftName,
		RightPlayerName: snap.RightName,
		ScoreLeft:       snap.ScoreLeft,
		ScoreRight:      snap.ScoreRight,
		ScoreLimit:      snap.ScoreLimit,
		GameMode:        snap.Mode,
		HasLeft:         snap.HasLeft,
		IsFinished:      snap.Finished,
	})
}

// handleCheckGame 对局恢复检查，结果广播到对局房间
func (g *GameHandler) handleCheckGame(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload GameRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	match, err := g.matches.GetMatch(ctx, payload.GameID)
	if err != nil {
		return
	}

	g.hub.SendToRoom(GameRoom(payload.GameID), EventCheckGame, &CheckGamePayload{
		GameID:     match.ID,
		HasLeft:    match.HasLeft,
		IsFinished: match.IsFinished,
		GameMode:   match.GameMode,
	})
}

// handleMapSelect 记录选图就绪，双方就绪后广播
func (g *GameHandler) handleMapSelect(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload GameRefPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if !ok {
		return
	}
	side := session.SideOf(client.AuthID)
	if side == pong.SideNone {
		return
	}

	both := session.SetMapReady(side)

	// 选图标记落库，失败只记录不阻断流程
	if match, err := g.matches.GetMatch(ctx, payload.GameID); err == nil {
		if side == pong.SideLeft {
			match.LeftPlayerMap = true
		} else {
			match.RightPlayerMap = true
		}
		if err := g.matches.UpdateMatch(ctx, match); err != nil {
			g.logger.Error("Failed to persist map selection", zap.Error(err), zap.Uint("matchID", match.ID))
		}
	}

	if both {
		g.hub.SendToRoom(GameRoom(payload.GameID), EventMapSelected, &GameIDPayload{GameID: payload.GameID})
	}
}

// handleGameMode 记录模式偏好，双方齐备后裁决并广播
func (g *GameHandler) handleGameMode(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload GameModePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if !ok {
		return
	}
	side := session.SideOf(client.AuthID)
	if side == pong.SideNone {
		return
	}

	res := session.SetModePref(side, payload.Mode)

	if match, err := g.matches.GetMatch(ctx, payload.GameID); err == nil {
		if side == pong.SideLeft {
			match.LeftPlayerMode = payload.Mode
		} else {
			match.RightPlayerMode = payload.Mode
		}
		if res.Both {
			match.GameMode = res.Mode
			match.InitialBallSpeed = pong.ModeConstants(res.Mode).InitialSpeed
		}
		if err := g.matches.UpdateMatch(ctx, match); err != nil {
			g.logger.Error("Failed to persist mode selection", zap.Error(err), zap.Uint("matchID", match.ID))
		}
	}

	if !res.Both {
		return
	}

	room := GameRoom(payload.GameID)
	g.hub.SendToRoom(room, EventModeSelected, &ModeSelectedPayload{
		GameMode:   res.Mode,
		ReadyCheck: true,
	})

	// 选择期间对手已离场，补发离场信号
	if res.HasLeft {
		g.hub.SendToRoom(room, EventGameStatusSelect, &GameStatusPayload{
			GameID: payload.GameID,
			Status: pong.StatusLeave,
		})
	}
}

// handleGameStart 发球：分配随机方向并进入对局
func (g *GameHandler) handleGameStart(client *Client, data json.RawMessage) {
	var state pong.State
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}
	if state.GameStatus != pong.StatusInit {
		return
	}

	session, ok := g.registry.Get(state.GameID)
	if !ok {
		return
	}

	state.BallDirection = session.StartBall()
	state.GameStatus = pong.StatusPlay

	room := GameRoom(state.GameID)
	g.hub.SendToRoom(room, EventGameStart, &state)
	g.hub.SendToRoom(room, EventGameStatus, &GameStatusPayload{
		GameID: state.GameID,
		Status: pong.StatusPlay,
	})
}

// handlePaddleMove 应用一次挡板按键并广播新位置
func (g *GameHandler) handlePaddleMove(client *Client, data json.RawMessage) {
	var payload PaddleMovePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if !ok {
		return
	}
	side := session.SideOf(client.AuthID)
	if side == pong.SideNone {
		return
	}

	pong.ApplyPaddleKey(&payload.State, side, payload.Key)

	g.hub.SendToRoom(GameRoom(payload.GameID), EventPaddleUpdate, &PaddleUpdatePayload{
		GameID:       payload.GameID,
		LeftPaddleY:  payload.LeftPaddleY,
		RightPaddleY: payload.RightPaddleY,
	})
}

// handleBallMove 执行一次模拟步进：前进、得分或触发结算
func (g *GameHandler) handleBallMove(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var state pong.State
	if err := json.Unmarshal(data, &state); err != nil {
		return
	}

	session, ok := g.registry.Get(state.GameID)
	if !ok {
		return
	}
	if session.IsDecided() {
		return
	}

	room := GameRoom(state.GameID)
	result := pong.Step(&state, session.InitialSpeed())

	switch result.Outcome {
	case pong.OutcomeFinished:
		g.finalizeByScore(ctx, session)

	case pong.OutcomeScore:
		// 比分只增不减，以会话记录为准抵御乱序快照
		scoreLeft, scoreRight := session.RecordScore(state.ScoreLeft, state.ScoreRight)
		state.ScoreLeft, state.ScoreRight = scoreLeft, scoreRight

		if !result.LimitReached {
			state.GameStatus = pong.StatusInit
			g.hub.SendToRoom(room, EventGameStatus, &GameStatusPayload{
				GameID: state.GameID,
				Status: pong.StatusInit,
			})
		}

		// 先广播后落库，写入延迟不阻塞比分可见性
		gameID := state.GameID
		time.AfterFunc(g.scoreWriteDelay, func() {
			if err := g.matches.UpdateScore(context.Background(), gameID, scoreLeft, scoreRight); err != nil {
				g.logger.Error("Failed to persist score",
					zap.Error(err),
					zap.Uint("matchID", gameID))
			}
		})

		g.hub.SendToRoom(room, EventBallUpdate, &state)
		g.hub.SendToRoom(room, EventScoreUpdate, &ScoreUpdatePayload{
			GameID:     state.GameID,
			ScoreLeft:  scoreLeft,
			ScoreRight: scoreRight,
		})

	case pong.OutcomeAdvance:
		g.hub.SendToRoom(room, EventBallUpdate, &state)
	}
}

// finalizeByScore 分数达到上限后的结算：落库、统计、双方个人房间通知
func (g *GameHandler) finalizeByScore(ctx context.Context, session *game.Session) {
	outcome, ok := session.FinishByScore()
	if !ok {
		return
	}

	scoreLeft, scoreRight := session.Scores()
	if _, err := g.matches.EndMatchByScore(ctx, session.ID, scoreLeft, scoreRight); err != nil {
		g.logger.Error("Failed to settle match",
			zap.Error(err),
			zap.Uint("matchID", session.ID))
	}

	// 一方可能已经离开对局房间，胜负通知走个人房间
	g.notifyOutcome(ctx, session.ID, outcome.WinnerID, pong.StatusWin)
	g.notifyOutcome(ctx, session.ID, outcome.LoserID, pong.StatusLose)

	for _, authID := range []uint{outcome.WinnerID, outcome.LoserID} {
		if err := g.users.SetStatusByAuthID(ctx, authID, models.StatusOnline); err != nil {
			g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("authID", authID))
		}
	}
	g.broadcastUpdate()
}

// notifyOutcome 将终局状态推送到玩家的个人房间
func (g *GameHandler) notifyOutcome(ctx context.Context, gameID, authID uint, status pong.Status) {
	user, err := g.users.GetUserByAuthID(ctx, authID)
	if err != nil {
		return
	}
	g.hub.SendToRoom(UserRoom(user.ID), EventGameStatus, &GameStatusPayload{
		GameID: gameID,
		Status: status,
	})
}

// handleLeaveGame 主动离场：判负结算并通知剩余玩家
func (g *GameHandler) handleLeaveGame(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload LeaveGamePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if ok {
		g.forfeit(ctx, session, client.AuthID)
	}

	g.hub.LeaveRoom(GameRoom(payload.GameID), client)
	client.MatchID = 0

	if err := g.users.SetStatusByAuthID(ctx, client.AuthID, models.StatusOnline); err != nil {
		g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("authID", client.AuthID))
	}
	g.broadcastUpdate()

	if ok {
		g.maybeRemoveSession(session)
	}
}

// forfeit 离场判负，仅对局玩家可触发，胜负已定时不再改动
func (g *GameHandler) forfeit(ctx context.Context, session *game.Session, leaverAuthID uint) {
	if session.SideOf(leaverAuthID) == pong.SideNone {
		return
	}

	outcome, ok := session.ForfeitBy(leaverAuthID)
	if !ok {
		return
	}

	if _, err := g.matches.EndMatchLeaver(ctx, session.ID, leaverAuthID); err != nil {
		g.logger.Error("Failed to settle forfeit",
			zap.Error(err),
			zap.Uint("matchID", session.ID),
			zap.Uint("leaverAuthID", leaverAuthID))
	}

	// 剩余玩家可能停在对局或选择界面，两个事件都发
	if remaining, err := g.users.GetUserByAuthID(ctx, outcome.WinnerID); err == nil {
		statusPayload := &GameStatusPayload{GameID: session.ID, Status: pong.StatusLeave}
		g.hub.SendToRoom(UserRoom(remaining.ID), EventGameStatus, statusPayload)
		g.hub.SendToRoom(UserRoom(remaining.ID), EventGameStatusSelect, statusPayload)

		if err := g.users.SetStatus(ctx, remaining.ID, models.StatusOnline); err != nil {
			g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("userID", remaining.ID))
		}
	}

	g.logger.Info("Match forfeited",
		zap.Uint("matchID", session.ID),
		zap.Uint("leaverAuthID", leaverAuthID),
		zap.Uint("winnerAuthID", outcome.WinnerID))
}

// handleGameFinished 对局结束确认，幂等且不改变胜负
func (g *GameHandler) handleGameFinished(client *Client, data json.RawMessage) {
	ctx := context.Background()

	var payload GameFinishedPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return
	}

	session, ok := g.registry.Get(payload.GameID)
	if ok {
		session.MarkFinished()
	}

	if err := g.matches.MarkFinished(ctx, payload.GameID); err != nil {
		g.logger.Error("Failed to mark match finished",
			zap.Error(err),
			zap.Uint("matchID", payload.GameID))
	}

	g.hub.LeaveRoom(GameRoom(payload.GameID), client)
	client.MatchID = 0

	if err := g.users.SetStatusByAuthID(ctx, client.AuthID, models.StatusOnline); err != nil {
		g.logger.Error("Failed to reset user status", zap.Error(err), zap.Uint("authID", client.AuthID))
	}
	g.broadcastUpdate()

	if ok {
		g.maybeRemoveSession(session)
	}
}

// maybeRemoveSession 对局已结束且房间已空时回收内存会话
func (g *GameHandler) maybeRemoveSession(session *game.Session) {
	if session.IsFinished() && g.hub.RoomSize(GameRoom(session.ID)) == 0 {
		g.registry.Remove(session.ID)
	}
}

// broadcastUpdate 全局刷新信号
func (g *GameHandler) broadcastUpdate() {
	g.hub.Broadcast(EventUpdate, &UpdatePayload{ToUpdate: UpdatePresence})
}
