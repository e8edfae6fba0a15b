package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/palmapernia/tp-django/internal/models"
)

const authStateCacheTTL = 10 * time.Minute

// UserAuthState 用户鉴权快照
// 仅用于服务端 Redis 缓存，校验 Token 时避免每次查库
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	IsStaff      bool   `json:"is_staff"`
	IsSuperuser  bool   `json:"is_superuser"`
	UpdatedAt    int64  `json:"updated_at"`
}

func userAuthStateKey(userID uint) string {
	return fmt.Sprintf("auth:user:%d", userID)
}

// BuildUserAuthState 从用户模型构建鉴权快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Username:     user.Username,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		IsStaff:      user.IsStaff,
		IsSuperuser:  user.IsSuperuser,
		UpdatedAt:    time.Now().Unix(),
	}
}

// GetUserAuthState 读取用户鉴权快照
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	if userID == 0 {
		return nil, false, nil
	}
	var state UserAuthState
	hit, err := GetJSON(ctx, userAuthStateKey(userID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetUserAuthState 写入用户鉴权快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil || state.UserID == 0 {
		return nil
	}
	return SetJSON(ctx, userAuthStateKey(state.UserID), state, authStateCacheTTL)
}

// DelUserAuthState 删除用户鉴权快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	if userID == 0 {
		return nil
	}
	return Del(ctx, userAuthStateKey(userID))
}
