package game

import "sync"

// Player 邀请流程中的玩家信息
type Player struct {
	UserID   uint
	AuthID   uint
	Username string
	ClientID string
}

// Invitation 一条待处理的对局邀请
type Invitation struct {
	Inviter Player
	Invited Player
}

// InviteBroker 进程内的邀请列表
// 同一对 (邀请者, 被邀请者) 最多存在一条待处理邀请
type InviteBroker struct {
	mu          sync.Mutex
	invitations []Invitation
}

// NewInviteBroker 创建邀请管理器
func NewInviteBroker() *InviteBroker {
	return &InviteBroker{}
}

// Add 登记一条邀请，已存在相同配对时返回 false
func (b *InviteBroker) Add(inv Invitation) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, existing := range b.invitations {
		if existing.Inviter.AuthID == inv.Inviter.AuthID &&
			existing.Invited.AuthID == inv.Invited.AuthID {
			return false
		}
	}
	b.invitations = append(b.invitations, inv)
	return true
}

// Accept 接受邀请：返回命中的邀请，并移除该邀请者发出的所有邀请
// 被邀请者来自其他邀请者的邀请保持不变
func (b *InviteBroker) Accept(invitedUserID, inviterUserID uint) (Invitation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched Invitation
	found := false
	for _, inv := range b.invitations {
		if inv.Invited.UserID == invitedUserID && inv.Inviter.UserID == inviterUserID {
			matched = inv
			found = true
			break
		}
	}
	if !found {
		return Invitation{}, false
	}

	kept := b.invitations[:0]
	for _, inv := range b.invitations {
		if inv.Inviter.UserID != inviterUserID {
			kept = append(kept, inv)
		}
	}
	b.invitations = kept
	return matched, true
}

// Decline 拒绝邀请：仅移除命中的那一条
func (b *InviteBroker) Decline(invitedUserID, inviterUserID uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, inv := range b.invitations {
		if inv.Invited.UserID == invitedUserID && inv.Inviter.UserID == inviterUserID {
			b.invitations = append(b.invitations[:i], b.invitations[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByAuthID 移除某认证ID参与的所有邀请，连接断开时调用
func (b *InviteBroker) RemoveByAuthID(authID uint) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	kept := b.invitations[:0]
	for _, inv := range b.invitations {
		if inv.Inviter.AuthID == authID || inv.Invited.AuthID == authID {
			removed++
			continue
		}
		kept = append(kept, inv)
	}
	b.invitations = kept
	return removed
}

// Has 检查指定配对的邀请是否存在
func (b *InviteBroker) Has(inviterAuthID, invitedAuthID uint) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, inv := range b.invitations {
		if inv.Inviter.AuthID == inviterAuthID && inv.Invited.AuthID == invitedAuthID {
			return true
		}
	}
	return false
}

// Len 当前待处理邀请数
func (b *InviteBroker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.invitations)
}
