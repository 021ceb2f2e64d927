package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvitation(inviterUserID, invitedUserID uint) Invitation {
	return Invitation{
		Inviter: Player{UserID: inviterUserID, AuthID: inviterUserID + 100},
		Invited: Player{UserID: invitedUserID, AuthID: invitedUserID + 100},
	}
}

// TestInviteBroker_AddDedup 测试重复邀请去重
func TestInviteBroker_AddDedup(t *testing.T) {
	b := NewInviteBroker()

	assert.True(t, b.Add(newInvitation(1, 2)))
	// 相同配对重复登记被拒绝
	assert.False(t, b.Add(newInvitation(1, 2)))
	assert.Equal(t, 1, b.Len())

	// 不同配对互不影响
	assert.True(t, b.Add(newInvitation(1, 3)))
	assert.True(t, b.Add(newInvitation(3, 2)))
	assert.Equal(t, 3, b.Len())
}

// TestInviteBroker_Accept 测试接受邀请
func TestInviteBroker_Accept(t *testing.T) {
	b := NewInviteBroker()
	b.Add(newInvitation(1, 2)) // 1 邀请 2
	b.Add(newInvitation(1, 3)) // 1 邀请 3
	b.Add(newInvitation(4, 2)) // 4 邀请 2

	// 2 接受 1 的邀请
	inv, ok := b.Accept(2, 1)
	require.True(t, ok)
	assert.Equal(t, uint(1), inv.Inviter.UserID)
	assert.Equal(t, uint(2), inv.Invited.UserID)

	// 邀请者 1 的全部外发邀请被清除，4 对 2 的邀请保留
	assert.False(t, b.Has(101, 102))
	assert.False(t, b.Has(101, 103))
	assert.True(t, b.Has(104, 102))
	assert.Equal(t, 1, b.Len())

	// 再次接受同一邀请无效
	_, ok = b.Accept(2, 1)
	assert.False(t, ok)
}

// TestInviteBroker_Decline 测试拒绝邀请只移除命中的一条
func TestInviteBroker_Decline(t *testing.T) {
	b := NewInviteBroker()
	b.Add(newInvitation(1, 2))
	b.Add(newInvitation(1, 3))

	assert.True(t, b.Decline(2, 1))
	assert.False(t, b.Decline(2, 1))

	// 其余邀请保留
	assert.True(t, b.Has(101, 103))
	assert.Equal(t, 1, b.Len())
}

// TestInviteBroker_RemoveByAuthID 测试断开连接时清理邀请
func TestInviteBroker_RemoveByAuthID(t *testing.T) {
	b := NewInviteBroker()
	b.Add(newInvitation(1, 2)) // authId 101 -> 102
	b.Add(newInvitation(2, 3)) // authId 102 -> 103
	b.Add(newInvitation(4, 5)) // authId 104 -> 105

	// 102 既是被邀请者又是邀请者，两条都应清除
	removed := b.RemoveByAuthID(102)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, b.Len())
	assert.True(t, b.Has(104, 105))
}
