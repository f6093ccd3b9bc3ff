package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

// 路由表回归: 每个对外入口都必须挂在引擎上, 防止处理器写完却没注册
func TestRouteTable(t *testing.T) {
	r := NewRouter(nil)

	registered := make(map[string]bool)
	for _, info := range r.Routes() {
		registered[info.Method+" "+info.Path] = true
	}

	expected := []string{
		http.MethodGet + " /api/v1/auctions",
		http.MethodPost + " /api/v1/auctions",
		http.MethodGet + " /api/v1/auctions/:id",
		http.MethodPut + " /api/v1/auctions/:id",
		http.MethodPost + " /api/v1/auctions/:id/end",
		http.MethodPost + " /api/v1/auctions/:id/cancel",
		http.MethodPost + " /api/v1/auctions/:id/relist",
		http.MethodPost + " /api/v1/auctions/:id/fail",
		http.MethodGet + " /api/v1/auctions/:id/bids",
		http.MethodPost + " /api/v1/auctions/:id/bids",
		http.MethodPost + " /api/v1/auctions/:id/buyout",
		http.MethodGet + " /api/v1/auction-failures",
		http.MethodGet + " /api/v1/variants/:id/stock",
		http.MethodGet + " /api/v1/user/bids",
		http.MethodGet + " /api/v1/user/stats",
		http.MethodGet + " /api/v1/user/auctions/pending-payment",
		http.MethodGet + " /api/v1/user/auctions/ended-unlinked",
		http.MethodPost + " /api/v1/orders/link",
		http.MethodPost + " /api/v1/orders/unlink",
		http.MethodPost + " /api/v1/orders/paid",
	}
	for _, route := range expected {
		require.Truef(t, registered[route], "route %s is not registered", route)
	}
	require.Len(t, registered, len(expected))
}
