package v1

import (
	"github.com/ProjectsTask/EasySwapBase/errcode"
	"github.com/ProjectsTask/EasySwapBase/xhttp"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuction/src/common/utils"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
	"github.com/ProjectsTask/EasyAuction/src/service/v1"
	"github.com/ProjectsTask/EasyAuction/src/types/v1"
)

// UserEndedUnlinkedHandler 查询当前用户已得标且未挂到订单的拍卖
// 订单子系统用它组装结算单
func UserEndedUnlinkedHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := userIdFromHeader(c)
		if !ok {
			return
		}

		auctions, err := service.QueryEndedUnlinked(c.Request.Context(), svcCtx, userId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionListResp{Result: auctions, Count: int64(len(auctions))})
	}
}

// UserPendingPaymentHandler 查询当前用户待支付的得标拍卖
func UserPendingPaymentHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := userIdFromHeader(c)
		if !ok {
			return
		}

		auctions, err := service.QueryPendingPayment(c.Request.Context(), svcCtx, userId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionListResp{Result: auctions, Count: int64(len(auctions))})
	}
}

// LinkOrderHandler 把一批得标拍卖关联到结算订单 (订单子系统调用)
// 任一拍卖不可关联时整批回滚
func LinkOrderHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := userIdFromHeader(c)
		if !ok {
			return
		}

		var req types.LinkOrderReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		if err := service.LinkAuctionsToOrder(c.Request.Context(), svcCtx, userId, req.OrderId, req.AuctionIds); err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, struct {
			Result string `json:"result"`
		}{Result: "ok"})
	}
}

// UnlinkOrderHandler 解除订单与拍卖的关联 (订单取消时调用)
func UnlinkOrderHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}

		var req types.UnlinkOrderReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		if err := service.UnlinkAuctionsFromOrder(c.Request.Context(), svcCtx, req.OrderId); err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, struct {
			Result string `json:"result"`
		}{Result: "ok"})
	}
}

// OrderPaidHandler 订单支付完成信号 (订单子系统调用)
func OrderPaidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}

		var req types.OrderPaidReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		order, err := service.MarkOrderPaid(c.Request.Context(), svcCtx, req.OrderId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, struct {
			Result interface{} `json:"result"`
		}{Result: order})
	}
}
