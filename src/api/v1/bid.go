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

// PlaceBidHandler 出价
// 1. 校验出价人身份与金额
// 2. 事务内锁行写入出价并条件更新当前价
// 3. 被超越的前领先者收到限流后的通知
func PlaceBidHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		bidderId, ok := userIdFromHeader(c)
		if !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		var req types.PlaceBidReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		auction, err := service.PlaceBid(c.Request.Context(), svcCtx, auctionId, bidderId, req.Amount)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// BuyOutHandler 一口价买断
func BuyOutHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		buyerId, ok := userIdFromHeader(c)
		if !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.BuyOutAuction(c.Request.Context(), svcCtx, auctionId, buyerId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// AuctionBidsHandler 分页查询拍卖的出价历史, 按金额降序
func AuctionBidsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}
		page, pageSize := pageParams(c)

		bids, count, err := service.QueryAuctionBids(c.Request.Context(), svcCtx, auctionId, page, pageSize)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.BidListResp{Result: bids, Count: count})
	}
}

// UserStatsHandler 查询当前用户的拍卖统计与封禁状态
func UserStatsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := userIdFromHeader(c)
		if !ok {
			return
		}

		stats, err := service.GetUserStats(c.Request.Context(), svcCtx, userId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.UserStatsResp{Result: stats})
	}
}

// UserBidsHandler 分页查询当前用户的出价历史
func UserBidsHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId, ok := userIdFromHeader(c)
		if !ok {
			return
		}
		page, pageSize := pageParams(c)

		bids, count, err := service.QueryUserBids(c.Request.Context(), svcCtx, userId, page, pageSize)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.BidListResp{Result: bids, Count: count})
	}
}
