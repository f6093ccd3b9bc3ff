package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsBanned(t *testing.T) {
	s := &UserAuctionStats{UserId: 7}
	require.False(t, s.IsBanned(1000))

	s.BannedUntil = 2000
	require.True(t, s.IsBanned(1999))
	// 封禁到期即恢复
	require.False(t, s.IsBanned(2000))
}

func TestBanDue(t *testing.T) {
	const threshold = int64(3)

	s := &UserAuctionStats{UserId: 7, TotalFailed: 2}
	require.False(t, s.BanDue(1000, threshold))

	s.TotalFailed = 3
	require.True(t, s.BanDue(1000, threshold))

	// 已处于封禁期时不重复触发
	s.BannedUntil = 5000
	require.False(t, s.BanDue(1000, threshold))

	// 封禁过期后再次达到阈值会重新封禁
	require.True(t, s.BanDue(5000, threshold))
}
