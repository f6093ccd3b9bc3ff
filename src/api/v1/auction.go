package v1

import (
	"strconv"

	"github.com/ProjectsTask/EasySwapBase/errcode"
	"github.com/ProjectsTask/EasySwapBase/xhttp"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuction/src/common/utils"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
	"github.com/ProjectsTask/EasyAuction/src/service/v1"
	"github.com/ProjectsTask/EasyAuction/src/types/v1"
)

// CreateAuctionHandler 创建拍卖 (管理端)
// 1. 解析并校验条款参数
// 2. 事务内预占库存并落库
func CreateAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorId, ok := userIdFromHeader(c)
		if !ok {
			return
		}

		var req types.CreateAuctionReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		auction, err := service.CreateAuction(c.Request.Context(), svcCtx, operatorId, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// UpdateAuctionHandler 修改拍卖条款 (管理端, 仅限无出价时)
func UpdateAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		var req types.UpdateAuctionReq
		if err := c.BindJSON(&req); err != nil {
			xhttp.Error(c, errcode.ErrInvalidParams)
			return
		}
		if err := utils.Verify(&req); err != nil {
			xhttp.Error(c, errcode.NewCustomErr(err.Error()))
			return
		}

		auction, err := service.UpdateAuction(c.Request.Context(), svcCtx, auctionId, req)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// EndAuctionHandler 手动结束拍卖 (管理端)
func EndAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.EndAuction(c.Request.Context(), svcCtx, auctionId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// CancelAuctionHandler 取消竞拍中的拍卖 (管理端)
func CancelAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.CancelAuction(c.Request.Context(), svcCtx, auctionId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// RelistAuctionHandler 重新上架支付失败的拍卖 (管理端)
func RelistAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorId, ok := userIdFromHeader(c)
		if !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.RelistAuction(c.Request.Context(), svcCtx, auctionId, operatorId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// FailAuctionHandler 强制判定支付失败 (管理端)
// 赢家明确弃拍时无需等待支付窗口巡检, 立即回收库存并计入弃拍
func FailAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.FailAuctionPayment(c.Request.Context(), svcCtx, auctionId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// GetAuctionHandler 查询单个拍卖详情
func GetAuctionHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		auctionId, ok := pathId(c, "id")
		if !ok {
			return
		}

		auction, err := service.GetAuction(c.Request.Context(), svcCtx, auctionId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionResp{Result: auction})
	}
}

// AuctionListHandler 分页查询拍卖列表, 可按状态过滤
func AuctionListHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status uint8
		if raw := c.Query("status"); raw != "" {
			parsed, err := strconv.ParseUint(raw, 10, 8)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			status = uint8(parsed)
		}
		page, pageSize := pageParams(c)

		auctions, count, err := service.ListAuctions(c.Request.Context(), svcCtx, status, page, pageSize)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.AuctionListResp{Result: auctions, Count: count})
	}
}

// VariantStockHandler 查询变体当前可用库存 (管理端上架前核对)
func VariantStockHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}
		variantId, ok := pathId(c, "id")
		if !ok {
			return
		}

		stock, err := service.GetVariantStock(c.Request.Context(), svcCtx, variantId)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.StockResp{Result: stock})
	}
}

// AuctionFailuresHandler 分页查询弃拍记录 (管理端), 可按用户过滤
func AuctionFailuresHandler(svcCtx *svc.ServerCtx) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := userIdFromHeader(c); !ok {
			return
		}

		var userId int64
		if raw := c.Query("user_id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				xhttp.Error(c, errcode.ErrInvalidParams)
				return
			}
			userId = parsed
		}
		page, pageSize := pageParams(c)

		failures, count, err := service.ListFailures(c.Request.Context(), svcCtx, userId, page, pageSize)
		if err != nil {
			respondErr(c, err)
			return
		}
		xhttp.OkJson(c, types.FailureListResp{Result: failures, Count: count})
	}
}
