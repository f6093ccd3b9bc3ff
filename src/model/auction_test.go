package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasyAuction/src/errdef"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// 标准测试拍卖: 起拍价 10000, 加价幅度 1000, 一口价 50000
func newActiveAuction() *Auction {
	return &Auction{
		Id:           1,
		VariantId:    100,
		Quantity:     2,
		StartPrice:   d(10000),
		BuyOutPrice:  d(50000),
		CurrentBid:   d(10000),
		MinIncrement: d(1000),
		StartTime:    1000,
		Status:       AuctionStatusActive,
	}
}

func TestCheckTerms(t *testing.T) {
	tests := []struct {
		name         string
		startPrice   decimal.Decimal
		buyOutPrice  decimal.Decimal
		minIncrement decimal.Decimal
		wantErr      bool
	}{
		{"valid", d(10000), d(50000), d(1000), false},
		{"zero start price", d(0), d(50000), d(1000), true},
		{"negative start price", d(-1), d(50000), d(1000), true},
		{"zero min increment", d(10000), d(50000), d(0), true},
		{"buy out equals start price", d(10000), d(10000), d(1000), true},
		{"buy out below start price", d(10000), d(9999), d(1000), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckTerms(tt.startPrice, tt.buyOutPrice, tt.minIncrement)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errdef.IsValidation(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMinAcceptableBid(t *testing.T) {
	a := newActiveAuction()
	// 无人出价时最低可接受价就是起拍价, 出 10000 即可成为领先者
	require.True(t, d(10000).Equal(a.MinAcceptableBid()))

	a.CurrentBid = d(12000)
	a.LastBidTime = 2000
	a.LeaderId = 7
	// 有出价后必须至少当前价加一个幅度
	require.True(t, d(13000).Equal(a.MinAcceptableBid()))
}

func TestCheckBid(t *testing.T) {
	t.Run("first bid at start price accepted", func(t *testing.T) {
		a := newActiveAuction()
		require.NoError(t, a.CheckBid(7, d(10000)))
	})

	t.Run("first bid below start price rejected", func(t *testing.T) {
		a := newActiveAuction()
		err := a.CheckBid(7, d(9999))
		require.True(t, errdef.IsValidation(err))
	})

	t.Run("bid below current plus increment rejected", func(t *testing.T) {
		a := newActiveAuction()
		a.CurrentBid = d(12000)
		a.LastBidTime = 2000
		a.LeaderId = 7
		err := a.CheckBid(8, d(12500))
		require.True(t, errdef.IsValidation(err))
	})

	t.Run("bid at current plus increment accepted", func(t *testing.T) {
		a := newActiveAuction()
		a.CurrentBid = d(12000)
		a.LastBidTime = 2000
		a.LeaderId = 7
		require.NoError(t, a.CheckBid(8, d(13000)))
	})

	t.Run("leader cannot outbid self", func(t *testing.T) {
		a := newActiveAuction()
		a.CurrentBid = d(12000)
		a.LastBidTime = 2000
		a.LeaderId = 7
		err := a.CheckBid(7, d(13000))
		require.True(t, errdef.IsValidation(err))
	})

	t.Run("bid reaching buy out price redirected", func(t *testing.T) {
		a := newActiveAuction()
		err := a.CheckBid(7, d(50000))
		require.True(t, errdef.IsValidation(err))
	})

	t.Run("bid on ended auction rejected", func(t *testing.T) {
		a := newActiveAuction()
		a.Status = AuctionStatusEnded
		err := a.CheckBid(7, d(13000))
		require.True(t, errdef.IsInvalidState(err))
	})
}

func TestCheckBuyOut(t *testing.T) {
	a := newActiveAuction()
	require.NoError(t, a.CheckBuyOut())

	a.Status = AuctionStatusCancelled
	require.True(t, errdef.IsInvalidState(a.CheckBuyOut()))
}

func TestCheckUpdate(t *testing.T) {
	a := newActiveAuction()
	require.NoError(t, a.CheckUpdate())

	// 有出价后不再允许改条款
	a.LastBidTime = 2000
	require.True(t, errdef.IsInvalidState(a.CheckUpdate()))

	a = newActiveAuction()
	a.Status = AuctionStatusEnded
	require.True(t, errdef.IsInvalidState(a.CheckUpdate()))
}

func TestCheckRelist(t *testing.T) {
	a := newActiveAuction()
	require.True(t, errdef.IsInvalidState(a.CheckRelist()))

	a.Status = AuctionStatusPaymentFailed
	require.NoError(t, a.CheckRelist())
}

func TestAutoEndDue(t *testing.T) {
	const window = int64(24 * 60 * 60)

	a := newActiveAuction()
	// 无出价的拍卖不会自动结束
	require.False(t, a.AutoEndDue(a.StartTime+10*window, window))

	a.LastBidTime = 100000
	require.False(t, a.AutoEndDue(100000+window-1, window))
	// 恰好到达窗口边界时到期
	require.True(t, a.AutoEndDue(100000+window, window))
	require.True(t, a.AutoEndDue(100000+window+1, window))

	a.Status = AuctionStatusEnded
	require.False(t, a.AutoEndDue(100000+window+1, window))
}

func TestPaymentOverdue(t *testing.T) {
	a := newActiveAuction()
	a.Status = AuctionStatusEnded
	a.WinnerId = 7
	a.PaymentDeadline = 200000

	require.False(t, a.PaymentOverdue(199999))
	require.True(t, a.PaymentOverdue(200000))

	// 已关联订单的拍卖交给未支付订单巡检处理
	a.OrderId = 55
	require.False(t, a.PaymentOverdue(200001))

	a.OrderId = 0
	a.Status = AuctionStatusPaymentFailed
	require.False(t, a.PaymentOverdue(200001))
}
