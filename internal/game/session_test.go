package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/pong-game/internal/game/pong"
)

func newTestSession() *Session {
	return NewSession(1, 101, 102, "left", "right", 5, rand.New(rand.NewSource(1)))
}

// TestSession_SideOf 测试侧别解析
func TestSession_SideOf(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, pong.SideLeft, s.SideOf(101))
	assert.Equal(t, pong.SideRight, s.SideOf(102))
	assert.Equal(t, pong.SideNone, s.SideOf(999))

	opponent, ok := s.OpponentAuthID(101)
	require.True(t, ok)
	assert.Equal(t, uint(102), opponent)

	_, ok = s.OpponentAuthID(999)
	assert.False(t, ok)
}

// TestSession_MapSelect 测试选图就绪流程
func TestSession_MapSelect(t *testing.T) {
	s := newTestSession()
	assert.Equal(t, PhaseMapSelect, s.Snapshot().Phase)

	// 单侧就绪不推进
	assert.False(t, s.SetMapReady(pong.SideLeft))
	assert.Equal(t, PhaseMapSelect, s.Snapshot().Phase)

	// 双侧就绪推进到模式选择
	assert.True(t, s.SetMapReady(pong.SideRight))
	assert.Equal(t, PhaseModeSelect, s.Snapshot().Phase)

	// 重复就绪保持幂等
	assert.True(t, s.SetMapReady(pong.SideLeft))
}

// TestSession_ModeSelect_Agreement 测试偏好一致时的模式裁决
func TestSession_ModeSelect_Agreement(t *testing.T) {
	s := newTestSession()
	s.SetMapReady(pong.SideLeft)
	s.SetMapReady(pong.SideRight)

	res := s.SetModePref(pong.SideLeft, pong.ModeHard)
	assert.False(t, res.Both)

	res = s.SetModePref(pong.SideRight, pong.ModeHard)
	require.True(t, res.Both)
	assert.Equal(t, pong.ModeHard, res.Mode)
	assert.Equal(t, pong.ModeHard, s.Mode())
	assert.Equal(t, 50.0, s.InitialSpeed())
	assert.Equal(t, PhaseAwaitingReady, s.Snapshot().Phase)
}

// TestSession_ModeSelect_Disagreement 测试偏好不一致时的随机裁决
func TestSession_ModeSelect_Disagreement(t *testing.T) {
	seen := map[string]bool{}
	for seed := int64(0); seed < 50; seed++ {
		s := NewSession(1, 101, 102, "l", "r", 5, rand.New(rand.NewSource(seed)))
		s.SetModePref(pong.SideLeft, pong.ModeNormal)
		res := s.SetModePref(pong.SideRight, pong.ModeHard)
		require.True(t, res.Both)
		seen[res.Mode] = true
	}
	assert.True(t, seen[pong.ModeNormal])
	assert.True(t, seen[pong.ModeHard])
}

// TestSession_StartBall 测试发球方向生成
func TestSession_StartBall(t *testing.T) {
	s := newTestSession()
	dir := s.StartBall()

	abs := math.Abs(dir.X)
	assert.Greater(t, abs, 0.2)
	assert.Less(t, abs, 0.9)
	assert.InDelta(t, 1.0, dir.Length(), 1e-9)
	assert.Equal(t, PhasePlaying, s.Snapshot().Phase)
}

// TestSession_RecordScore 测试比分单调性
func TestSession_RecordScore(t *testing.T) {
	s := newTestSession()

	left, right := s.RecordScore(1, 0)
	assert.Equal(t, 1, left)
	assert.Equal(t, 0, right)

	// 乱序到达的旧快照不回退比分
	left, right = s.RecordScore(0, 0)
	assert.Equal(t, 1, left)
	assert.Equal(t, 0, right)

	left, right = s.RecordScore(2, 3)
	assert.Equal(t, 2, left)
	assert.Equal(t, 3, right)
}

// TestSession_FinishByScore 测试按比分结算
func TestSession_FinishByScore(t *testing.T) {
	s := newTestSession()
	s.RecordScore(5, 3)

	outcome, ok := s.FinishByScore()
	require.True(t, ok)
	assert.Equal(t, uint(101), outcome.WinnerID)
	assert.Equal(t, uint(102), outcome.LoserID)
	assert.False(t, outcome.HasLeft)
	assert.True(t, s.IsFinished())
	assert.True(t, s.IsDecided())

	// 结算只发生一次
	_, ok = s.FinishByScore()
	assert.False(t, ok)
}

// TestSession_FinishByScore_NotReached 测试未达上限不结算
func TestSession_FinishByScore_NotReached(t *testing.T) {
	s := newTestSession()
	s.RecordScore(3, 2)

	_, ok := s.FinishByScore()
	assert.False(t, ok)
	assert.False(t, s.IsFinished())
}

// TestSession_Forfeit 测试离场判负
func TestSession_Forfeit(t *testing.T) {
	s := newTestSession()

	outcome, ok := s.ForfeitBy(101)
	require.True(t, ok)
	assert.Equal(t, uint(102), outcome.WinnerID)
	assert.Equal(t, uint(101), outcome.LoserID)
	assert.True(t, outcome.HasLeft)
	assert.True(t, s.IsFinished())

	// 判罚只发生一次
	_, ok = s.ForfeitBy(102)
	assert.False(t, ok)

	snap := s.Snapshot()
	assert.Equal(t, uint(102), snap.WinnerID)
	assert.Equal(t, uint(101), snap.LoserID)
	assert.True(t, snap.HasLeft)
}

// TestSession_ForfeitAfterScore 测试已结算对局不再受离场影响
func TestSession_ForfeitAfterScore(t *testing.T) {
	s := newTestSession()
	s.RecordScore(5, 0)
	_, ok := s.FinishByScore()
	require.True(t, ok)

	_, ok = s.ForfeitBy(102)
	assert.False(t, ok)

	snap := s.Snapshot()
	assert.Equal(t, uint(101), snap.WinnerID)
}

// TestSession_MarkFinished 测试幂等的结束确认
func TestSession_MarkFinished(t *testing.T) {
	s := newTestSession()
	s.MarkFinished()
	assert.True(t, s.IsFinished())
	// 胜负未判定
	assert.False(t, s.IsDecided())

	s.MarkFinished()
	assert.True(t, s.IsFinished())
	assert.Equal(t, uint(0), s.Snapshot().WinnerID)
}

// TestSession_NonPlayerForfeit 测试非对局玩家无法触发判负
func TestSession_NonPlayerForfeit(t *testing.T) {
	s := newTestSession()
	_, ok := s.ForfeitBy(999)
	assert.False(t, ok)
	assert.False(t, s.IsFinished())
}

// TestRegistry 测试会话注册表
func TestRegistry(t *testing.T) {
	r := NewRegistryWithRand(rand.New(rand.NewSource(1)))

	s := r.Create(1, 101, 102, "l", "r", 5)
	assert.Equal(t, 1, r.Len())

	found, ok := r.Get(1)
	require.True(t, ok)
	assert.Same(t, s, found)

	_, ok = r.Get(2)
	assert.False(t, ok)

	// 按玩家查找未结束会话
	found, ok = r.FindByPlayer(102)
	require.True(t, ok)
	assert.Same(t, s, found)

	_, ok = r.FindByPlayer(999)
	assert.False(t, ok)

	// 已结束的会话不再命中
	s.MarkFinished()
	_, ok = r.FindByPlayer(102)
	assert.False(t, ok)

	r.Remove(1)
	assert.Equal(t, 0, r.Len())
}
