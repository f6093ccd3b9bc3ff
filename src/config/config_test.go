package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFillDefaults(t *testing.T) {
	c := &AuctionCfg{}
	c.FillDefaults()

	require.Equal(t, int64(24*60*60), c.BidExtendWindow)
	require.Equal(t, int64(48*60*60), c.PaymentWindow)
	require.Equal(t, int64(30*60), c.OutbidThrottle)
	require.Equal(t, int64(3), c.BanThreshold)
	require.Equal(t, int64(30*24*60*60), c.BanDuration)
	require.Equal(t, int64(5*60), c.AutoEndInterval)
	require.Equal(t, int64(10*60), c.UnpaidOrderInterval)
	require.Equal(t, int64(60*60), c.PaymentFailInterval)
}

func TestFillDefaultsKeepsOverrides(t *testing.T) {
	c := &AuctionCfg{BidExtendWindow: 3600, BanThreshold: 5}
	c.FillDefaults()

	require.Equal(t, int64(3600), c.BidExtendWindow)
	require.Equal(t, int64(5), c.BanThreshold)
	// 未配置的字段仍取缺省值
	require.Equal(t, int64(48*60*60), c.PaymentWindow)
}
