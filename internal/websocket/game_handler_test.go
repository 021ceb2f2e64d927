package websocket

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/pong-game/internal/game"
	"github.com/wfunc/pong-game/internal/game/pong"
	"github.com/wfunc/pong-game/internal/models"
	"github.com/wfunc/pong-game/internal/service"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv 对局消息处理的测试环境
type testEnv struct {
	db       *gorm.DB
	hub      *Hub
	handler  *GameHandler
	registry *game.Registry
	services *service.Services
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Match{}))

	log := zap.NewNop()
	services := service.NewServices(db, service.DefaultConfig(), log)
	hub := NewHub(log)
	registry := game.NewRegistryWithRand(rand.New(rand.NewSource(42)))

	handler := NewGameHandler(hub, services.User, services.Match, registry, log)
	handler.SetScoreWriteDelay(time.Millisecond)
	hub.SetHandler(handler)

	return &testEnv{
		db:       db,
		hub:      hub,
		handler:  handler,
		registry: registry,
		services: services,
	}
}

func (e *testEnv) createUser(t *testing.T, authID uint, username string) *models.User {
	t.Helper()
	user := &models.User{AuthID: authID, Username: username}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// connect 创建用户的客户端连接并注册
func (e *testEnv) connect(t *testing.T, user *models.User) *Client {
	t.Helper()
	client := newTestClient(e.hub, user.ID, user.AuthID, user.Username)
	client.ID = client.ID + "-" + time.Now().Format("150405.000000000")
	e.hub.Register(client)
	return client
}

// emit 模拟客户端发送一条事件消息
func (e *testEnv) emit(t *testing.T, client *Client, eventType string, payload interface{}) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	raw, err := json.Marshal(&Message{Type: eventType, Data: data})
	require.NoError(t, err)
	e.handler.HandleClientMessage(client, raw)
}

func (e *testEnv) userStatus(t *testing.T, userID uint) string {
	t.Helper()
	var user models.User
	require.NoError(t, e.db.First(&user, userID).Error)
	return user.Status
}

// pairUp 让两名玩家通过匹配队列各自进入同一场对局
func (e *testEnv) pairUp(t *testing.T, alice, bob *Client) uint {
	t.Helper()
	e.emit(t, alice, EventJoinRoom, &JoinRoomPayload{UserID: alice.UserID, AuthID: alice.AuthID})
	e.emit(t, bob, EventJoinRoom, &JoinRoomPayload{UserID: bob.UserID, AuthID: bob.AuthID})

	found := eventsOfType(drainMessages(t, alice), EventMatchFound)
	require.Len(t, found, 1)
	var payload MatchFoundPayload
	require.NoError(t, json.Unmarshal(found[0].Data, &payload))
	drainMessages(t, bob)

	e.emit(t, alice, EventInitGame, &GameRefPayload{AuthID: alice.AuthID, GameID: payload.GameID})
	e.emit(t, bob, EventInitGame, &GameRefPayload{AuthID: bob.AuthID, GameID: payload.GameID})
	drainMessages(t, alice)
	drainMessages(t, bob)

	return payload.GameID
}

func TestMatchmakingPairsTwoPlayers(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	drainMessages(t, alice)
	drainMessages(t, bob)

	env.emit(t, alice, EventJoinRoom, &JoinRoomPayload{UserID: aliceUser.ID, AuthID: 1001})
	assert.Equal(t, 1, env.handler.Queue().Len())
	assert.Equal(t, models.StatusInQueue, env.userStatus(t, aliceUser.ID))

	env.emit(t, bob, EventJoinRoom, &JoinRoomPayload{UserID: bobUser.ID, AuthID: 1002})
	assert.Equal(t, 0, env.handler.Queue().Len())

	aliceFound := eventsOfType(drainMessages(t, alice), EventMatchFound)
	bobFound := eventsOfType(drainMessages(t, bob), EventMatchFound)
	require.Len(t, aliceFound, 1)
	require.Len(t, bobFound, 1)
	assert.Equal(t, string(aliceFound[0].Data), string(bobFound[0].Data))

	// 先排队的是左侧玩家
	var payload MatchFoundPayload
	require.NoError(t, json.Unmarshal(aliceFound[0].Data, &payload))
	session, ok := env.registry.Get(payload.GameID)
	require.True(t, ok)
	assert.Equal(t, uint(1001), session.LeftAuthID)
	assert.Equal(t, uint(1002), session.RightAuthID)

	assert.Equal(t, models.StatusInGame, env.userStatus(t, aliceUser.ID))
	assert.Equal(t, models.StatusInGame, env.userStatus(t, bobUser.ID))
}

func TestJoinRoomDoubleQueueNoop(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	client := env.connect(t, user)
	drainMessages(t, client)

	env.emit(t, client, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})
	env.emit(t, client, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})

	assert.Equal(t, 1, env.handler.Queue().Len())
	assert.Empty(t, eventsOfType(drainMessages(t, client), EventError))
}

func TestJoinRoomBusyRejected(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	client := env.connect(t, user)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("status", models.StatusInGame).Error)
	drainMessages(t, client)

	env.emit(t, client, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})

	assert.Equal(t, 0, env.handler.Queue().Len())
	assert.Len(t, eventsOfType(drainMessages(t, client), EventError), 1)
}

func TestLeaveQueue(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	client := env.connect(t, user)

	env.emit(t, client, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})
	env.emit(t, client, EventLeaveQueue, &LeaveQueuePayload{AuthID: 1001})

	assert.Equal(t, 0, env.handler.Queue().Len())
	assert.Equal(t, models.StatusOnline, env.userStatus(t, user.ID))
}

func TestInviteFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	drainMessages(t, alice)
	drainMessages(t, bob)

	env.emit(t, alice, EventInviteInit, &InviteInitPayload{InvitedID: bobUser.ID})

	invitations := eventsOfType(drainMessages(t, bob), EventInvitation)
	require.Len(t, invitations, 1)
	var inv InvitationPayload
	require.NoError(t, json.Unmarshal(invitations[0].Data, &inv))
	assert.Equal(t, aliceUser.ID, inv.InviterID)
	assert.Equal(t, "alice", inv.InviterName)

	env.emit(t, bob, EventInviteAccepted, &InviteResolvePayload{
		InvitedID: bobUser.ID,
		InviterID: aliceUser.ID,
	})

	aliceAccepted := eventsOfType(drainMessages(t, alice), EventInviteAccepted)
	bobAccepted := eventsOfType(drainMessages(t, bob), EventInviteAccepted)
	require.Len(t, aliceAccepted, 1)
	require.Len(t, bobAccepted, 1)

	var payload InviteAcceptedPayload
	require.NoError(t, json.Unmarshal(aliceAccepted[0].Data, &payload))
	assert.Equal(t, "bob", payload.User)

	// 邀请方是左侧玩家
	session, ok := env.registry.Get(payload.GameID)
	require.True(t, ok)
	assert.Equal(t, uint(1001), session.LeftAuthID)
	assert.Equal(t, uint(1002), session.RightAuthID)

	assert.Equal(t, 0, env.handler.Invites().Len())
	assert.Equal(t, models.StatusInGame, env.userStatus(t, aliceUser.ID))
	assert.Equal(t, models.StatusInGame, env.userStatus(t, bobUser.ID))
}

func TestStaleInviteAcceptWhileInviterBusy(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	carolUser := env.createUser(t, 1003, "carol")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	carol := env.connect(t, carolUser)
	drainMessages(t, carol)

	env.emit(t, alice, EventInviteInit, &InviteInitPayload{InvitedID: carolUser.ID})
	require.Len(t, eventsOfType(drainMessages(t, carol), EventInvitation), 1)

	// 邀请方随后通过匹配队列进入了别的对局
	env.pairUp(t, alice, bob)
	require.Equal(t, models.StatusInGame, env.userStatus(t, aliceUser.ID))

	// 过期邀请被接受时作废，不产生第二场对局
	env.emit(t, carol, EventInviteAccepted, &InviteResolvePayload{
		InvitedID: carolUser.ID,
		InviterID: aliceUser.ID,
	})

	assert.Empty(t, eventsOfType(drainMessages(t, carol), EventInviteAccepted))
	assert.Equal(t, 0, env.handler.Invites().Len())
	assert.Equal(t, models.StatusOnline, env.userStatus(t, carolUser.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Match{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestInviteBlockedSilent(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	bobUser.BlockedIDs = models.Int64List{int64(aliceUser.ID)}
	require.NoError(t, env.db.Save(bobUser).Error)

	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	drainMessages(t, alice)
	drainMessages(t, bob)

	env.emit(t, alice, EventInviteInit, &InviteInitPayload{InvitedID: bobUser.ID})

	assert.Equal(t, 0, env.handler.Invites().Len())
	assert.Empty(t, eventsOfType(drainMessages(t, bob), EventInvitation))
}

func TestInviteSelfSilent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	client := env.connect(t, user)
	drainMessages(t, client)

	env.emit(t, client, EventInviteInit, &InviteInitPayload{InvitedID: user.ID})

	assert.Equal(t, 0, env.handler.Invites().Len())
}

func TestMapAndModeSelection(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	env.emit(t, alice, EventMapSelect, &GameRefPayload{AuthID: 1001, GameID: gameID})
	assert.Empty(t, eventsOfType(drainMessages(t, bob), EventMapSelected))

	env.emit(t, bob, EventMapSelect, &GameRefPayload{AuthID: 1002, GameID: gameID})
	assert.Len(t, eventsOfType(drainMessages(t, alice), EventMapSelected), 1)
	assert.Len(t, eventsOfType(drainMessages(t, bob), EventMapSelected), 1)

	env.emit(t, alice, EventGameMode, &GameModePayload{AuthID: 1001, GameID: gameID, Mode: pong.ModeHard})
	assert.Empty(t, eventsOfType(drainMessages(t, alice), EventModeSelected))

	env.emit(t, bob, EventGameMode, &GameModePayload{AuthID: 1002, GameID: gameID, Mode: pong.ModeHard})
	selected := eventsOfType(drainMessages(t, alice), EventModeSelected)
	require.Len(t, selected, 1)
	var payload ModeSelectedPayload
	require.NoError(t, json.Unmarshal(selected[0].Data, &payload))
	assert.Equal(t, pong.ModeHard, payload.GameMode)
	assert.True(t, payload.ReadyCheck)

	// 裁决结果已落库
	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.Equal(t, pong.ModeHard, match.GameMode)
	assert.Equal(t, float64(50), match.InitialBallSpeed)
	assert.True(t, match.LeftPlayerMap)
	assert.True(t, match.RightPlayerMap)
}

func TestGameStartAssignsDirection(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	state := pong.State{
		GameID:     gameID,
		Width:      800,
		Height:     600,
		GameStatus: pong.StatusInit,
	}
	env.emit(t, alice, EventGameStart, &state)

	started := eventsOfType(drainMessages(t, bob), EventGameStart)
	require.Len(t, started, 1)
	var broadcast pong.State
	require.NoError(t, json.Unmarshal(started[0].Data, &broadcast))
	assert.Equal(t, pong.StatusPlay, broadcast.GameStatus)
	assert.Greater(t, absFloat(broadcast.BallDirection.X), 0.2)
	assert.Less(t, absFloat(broadcast.BallDirection.X), 0.9)

	// 只有发球准备状态能触发
	env.emit(t, alice, EventGameStart, &pong.State{GameID: gameID, GameStatus: pong.StatusPlay})
	assert.Empty(t, eventsOfType(drainMessages(t, bob), EventGameStart))
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestBallMoveScoring(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	// 球越过右边界且不与右挡板接触，左侧得分
	state := pong.State{
		GameID:        gameID,
		Width:         800,
		Height:        600,
		BallX:         795,
		BallY:         100,
		BallRadius:    10,
		BallDirection: pong.Vector{X: 0.7, Y: 0.3},
		BallSpeed:     55,
		RightPaddleX:  772,
		RightPaddleY:  245,
		PaddleW:       18,
		PaddleH:       110,
		ScoreLimit:    5,
		GameStatus:    pong.StatusPlay,
	}
	env.emit(t, alice, EventBallMove, &state)

	messages := drainMessages(t, bob)
	scoreUpdates := eventsOfType(messages, EventScoreUpdate)
	require.Len(t, scoreUpdates, 1)
	var score ScoreUpdatePayload
	require.NoError(t, json.Unmarshal(scoreUpdates[0].Data, &score))
	assert.Equal(t, 1, score.ScoreLeft)
	assert.Equal(t, 0, score.ScoreRight)

	// 未达上限时回到发球准备状态
	statuses := eventsOfType(messages, EventGameStatus)
	require.Len(t, statuses, 1)
	var status GameStatusPayload
	require.NoError(t, json.Unmarshal(statuses[0].Data, &status))
	assert.Equal(t, pong.StatusInit, status.Status)

	// 球已归位
	ballUpdates := eventsOfType(messages, EventBallUpdate)
	require.Len(t, ballUpdates, 1)
	var ball pong.State
	require.NoError(t, json.Unmarshal(ballUpdates[0].Data, &ball))
	assert.Equal(t, float64(400), ball.BallX)
	assert.Equal(t, float64(300), ball.BallY)
	assert.Equal(t, float64(40), ball.BallSpeed)

	// 延迟落库
	time.Sleep(50 * time.Millisecond)
	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.Equal(t, 1, match.ScoreLeft)
}

func TestBallMoveFinalizesAtLimit(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	session, ok := env.registry.Get(gameID)
	require.True(t, ok)
	session.RecordScore(5, 3)

	// 上限已到，下一次步进触发结算
	state := pong.State{
		GameID:     gameID,
		Width:      800,
		Height:     600,
		BallX:      400,
		BallY:      300,
		BallRadius: 10,
		ScoreLeft:  5,
		ScoreRight: 3,
		ScoreLimit: 5,
		GameStatus: pong.StatusPlay,
	}
	env.emit(t, alice, EventBallMove, &state)

	// 胜负通知走个人房间
	aliceStatuses := eventsOfType(drainMessages(t, alice), EventGameStatus)
	require.NotEmpty(t, aliceStatuses)
	var won GameStatusPayload
	require.NoError(t, json.Unmarshal(aliceStatuses[len(aliceStatuses)-1].Data, &won))
	assert.Equal(t, pong.StatusWin, won.Status)

	bobStatuses := eventsOfType(drainMessages(t, bob), EventGameStatus)
	require.NotEmpty(t, bobStatuses)
	var lost GameStatusPayload
	require.NoError(t, json.Unmarshal(bobStatuses[len(bobStatuses)-1].Data, &lost))
	assert.Equal(t, pong.StatusLose, lost.Status)

	// 数据库已结算且统计更新
	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.True(t, match.IsFinished)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, uint(1001), *match.WinnerID)

	var winner models.User
	require.NoError(t, env.db.First(&winner, aliceUser.ID).Error)
	assert.Equal(t, 1, winner.Wins)

	var loser models.User
	require.NoError(t, env.db.First(&loser, bobUser.ID).Error)
	assert.Equal(t, 1, loser.Losses)

	// 再次提交同样的快照不会二次结算
	env.emit(t, alice, EventBallMove, &state)
	require.NoError(t, env.db.First(&winner, aliceUser.ID).Error)
	assert.Equal(t, 1, winner.Wins)
}

func TestLeaveGameForfeit(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	env.emit(t, bob, EventLeaveGame, &LeaveGamePayload{AuthID: 1002, GameID: gameID})

	// 剩余玩家收到离场通知（对局与选择界面两个事件）
	messages := drainMessages(t, alice)
	leaves := eventsOfType(messages, EventGameStatus)
	require.NotEmpty(t, leaves)
	var status GameStatusPayload
	require.NoError(t, json.Unmarshal(leaves[len(leaves)-1].Data, &status))
	assert.Equal(t, pong.StatusLeave, status.Status)
	assert.NotEmpty(t, eventsOfType(messages, EventGameStatusSelect))

	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.True(t, match.IsFinished)
	assert.True(t, match.HasLeft)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, uint(1001), *match.WinnerID)

	assert.Equal(t, models.StatusOnline, env.userStatus(t, aliceUser.ID))
	assert.Equal(t, models.StatusOnline, env.userStatus(t, bobUser.ID))
}

func TestLeaveGameNonPlayerIgnored(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	carolUser := env.createUser(t, 1003, "carol")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	carol := env.connect(t, carolUser)
	gameID := env.pairUp(t, alice, bob)
	drainMessages(t, alice)
	drainMessages(t, bob)

	// 局外人报别人的对局ID不产生任何判负或离场标记
	env.emit(t, carol, EventLeaveGame, &LeaveGamePayload{AuthID: 1003, GameID: gameID})

	session, ok := env.registry.Get(gameID)
	require.True(t, ok)
	snapshot := session.Snapshot()
	assert.False(t, snapshot.HasLeft)
	assert.False(t, snapshot.Finished)

	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.False(t, match.HasLeft)
	assert.False(t, match.IsFinished)
	assert.Nil(t, match.WinnerID)

	assert.Empty(t, eventsOfType(drainMessages(t, alice), EventGameStatus))
	assert.Equal(t, models.StatusInGame, env.userStatus(t, aliceUser.ID))
	assert.Equal(t, models.StatusInGame, env.userStatus(t, bobUser.ID))
}

func TestLeaveGameAfterScoreFinishNotMarkedLeft(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	session, ok := env.registry.Get(gameID)
	require.True(t, ok)
	session.RecordScore(5, 3)

	state := pong.State{
		GameID:     gameID,
		Width:      800,
		Height:     600,
		BallX:      400,
		BallY:      300,
		BallRadius: 10,
		ScoreLeft:  5,
		ScoreRight: 3,
		ScoreLimit: 5,
		GameStatus: pong.StatusPlay,
	}
	env.emit(t, alice, EventBallMove, &state)
	drainMessages(t, alice)
	drainMessages(t, bob)

	// 正常打满比分后胜者退出，不算中途离场
	env.emit(t, alice, EventLeaveGame, &LeaveGamePayload{AuthID: 1001, GameID: gameID})

	assert.False(t, session.Snapshot().HasLeft)
	assert.Empty(t, eventsOfType(drainMessages(t, bob), EventGameStatus))

	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.False(t, match.HasLeft)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, uint(1001), *match.WinnerID)
}

func TestDisconnectForfeit(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)
	drainMessages(t, alice)

	env.hub.Unregister(bob)

	messages := drainMessages(t, alice)
	leaves := eventsOfType(messages, EventGameStatus)
	require.NotEmpty(t, leaves)
	var status GameStatusPayload
	require.NoError(t, json.Unmarshal(leaves[0].Data, &status))
	assert.Equal(t, pong.StatusLeave, status.Status)

	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.True(t, match.HasLeft)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, uint(1001), *match.WinnerID)

	assert.Equal(t, models.StatusOffline, env.userStatus(t, bobUser.ID))
}

func TestDisconnectCleansQueueAndInvites(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	drainMessages(t, alice)
	drainMessages(t, bob)

	env.emit(t, alice, EventJoinRoom, &JoinRoomPayload{UserID: aliceUser.ID, AuthID: 1001})
	env.emit(t, alice, EventInviteInit, &InviteInitPayload{InvitedID: bobUser.ID})
	require.Equal(t, 1, env.handler.Queue().Len())
	require.Equal(t, 1, env.handler.Invites().Len())

	env.hub.Unregister(alice)

	assert.Equal(t, 0, env.handler.Queue().Len())
	assert.Equal(t, 0, env.handler.Invites().Len())
	assert.Equal(t, models.StatusOffline, env.userStatus(t, aliceUser.ID))
}

func TestQueueSurvivesSecondConnectionDisconnect(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	first := env.connect(t, user)
	second := env.connect(t, user)
	drainMessages(t, first)
	drainMessages(t, second)

	env.emit(t, first, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})
	require.Equal(t, 1, env.handler.Queue().Len())
	require.Equal(t, models.StatusInQueue, env.userStatus(t, user.ID))

	// 席位属于第一条连接，第二条断开不影响排队
	env.hub.Unregister(second)
	assert.Equal(t, 1, env.handler.Queue().Len())
	assert.Equal(t, models.StatusInQueue, env.userStatus(t, user.ID))
}

func TestQueueConnectionDisconnectResetsStatus(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	first := env.connect(t, user)
	second := env.connect(t, user)
	drainMessages(t, first)
	drainMessages(t, second)

	env.emit(t, first, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})
	require.Equal(t, 1, env.handler.Queue().Len())

	// 持有席位的连接断开：出队且状态回到在线，另一条连接可以重新排队
	env.hub.Unregister(first)
	assert.Equal(t, 0, env.handler.Queue().Len())
	assert.Equal(t, models.StatusOnline, env.userStatus(t, user.ID))

	env.emit(t, second, EventJoinRoom, &JoinRoomPayload{UserID: user.ID, AuthID: 1001})
	assert.Equal(t, 1, env.handler.Queue().Len())
	assert.Equal(t, models.StatusInQueue, env.userStatus(t, user.ID))
}

func TestGameFinishedIdempotent(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	session, ok := env.registry.Get(gameID)
	require.True(t, ok)
	session.RecordScore(5, 0)
	env.emit(t, alice, EventBallMove, &pong.State{
		GameID: gameID, Width: 800, Height: 600, BallX: 400, BallY: 300,
		BallRadius: 10, ScoreLeft: 5, ScoreLimit: 5, GameStatus: pong.StatusPlay,
	})

	env.emit(t, alice, EventGameFinished, &GameFinishedPayload{GameID: gameID})
	env.emit(t, bob, EventGameFinished, &GameFinishedPayload{GameID: gameID})
	env.emit(t, bob, EventGameFinished, &GameFinishedPayload{GameID: gameID})

	var match models.Match
	require.NoError(t, env.db.First(&match, gameID).Error)
	assert.True(t, match.IsFinished)
	require.NotNil(t, match.WinnerID)
	assert.Equal(t, uint(1001), *match.WinnerID)

	// 胜负统计只记一次
	var winner models.User
	require.NoError(t, env.db.First(&winner, aliceUser.ID).Error)
	assert.Equal(t, 1, winner.Wins)

	// 双方确认后内存会话被回收
	_, ok = env.registry.Get(gameID)
	assert.False(t, ok)
}

func TestInitGameUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, 1001, "alice")
	client := env.connect(t, user)
	drainMessages(t, client)

	env.emit(t, client, EventInitGame, &GameRefPayload{AuthID: 1001, GameID: 999})

	responses := eventsOfType(drainMessages(t, client), EventInitGame)
	require.Len(t, responses, 1)
	assert.Equal(t, "-1", string(responses[0].Data))
}

func TestCheckGame(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	env.emit(t, alice, EventCheckGame, &GameRefPayload{AuthID: 1001, GameID: gameID})

	checks := eventsOfType(drainMessages(t, bob), EventCheckGame)
	require.Len(t, checks, 1)
	var payload CheckGamePayload
	require.NoError(t, json.Unmarshal(checks[0].Data, &payload))
	assert.Equal(t, gameID, payload.GameID)
	assert.False(t, payload.HasLeft)
	assert.False(t, payload.IsFinished)
}

func TestPaddleMoveBroadcast(t *testing.T) {
	env := newTestEnv(t)
	aliceUser := env.createUser(t, 1001, "alice")
	bobUser := env.createUser(t, 1002, "bob")
	alice := env.connect(t, aliceUser)
	bob := env.connect(t, bobUser)
	gameID := env.pairUp(t, alice, bob)

	payload := PaddleMovePayload{
		State: pong.State{
			GameID:      gameID,
			Height:      600,
			LeftPaddleY: 245,
			PaddleH:     110,
		},
		AuthID: 1001,
		Key:    "ArrowUp",
	}
	env.emit(t, alice, EventPaddleMove, &payload)

	updates := eventsOfType(drainMessages(t, bob), EventPaddleUpdate)
	require.Len(t, updates, 1)
	var update PaddleUpdatePayload
	require.NoError(t, json.Unmarshal(updates[0].Data, &update))
	assert.Equal(t, float64(235), update.LeftPaddleY)
}
