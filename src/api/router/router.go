package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ProjectsTask/EasyAuction/src/api/middleware"
	v1 "github.com/ProjectsTask/EasyAuction/src/api/v1"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
)

func NewRouter(svcCtx *svc.ServerCtx) *gin.Engine {
	// 强制控制台颜色输出，使日志更易读
	gin.ForceConsoleColor()
	// 设置 Gin 为发布模式 (ReleaseMode)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()                        // 新建一个gin引擎实例
	r.Use(middleware.RecoverMiddleware()) // 使用自定义的恢复中间件，处理 Panic
	r.Use(middleware.RLog())              // 使用请求日志中间件，记录API访问日志

	r.Use(cors.New(cors.Config{ // 使用cors中间件，配置跨域访问策略
		AllowAllOrigins:  true,                                                         // 允许所有源
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}, // 允许的方法
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "X-CSRF-Token", "Authorization", "AccessToken", "Token", "X-User-Id"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Access-Control-Allow-Origin", "Access-Control-Allow-Headers", "X-GW-Error-Code", "X-GW-Error-Message"},
		AllowCredentials: true,
		MaxAge:           1 * time.Hour,
	}))
	loadV1(r, svcCtx) // 加载 v1 版本的路由分组

	return r
}

// loadV1 注册 v1 路由
// 管理端 / 出价端 / 订单子系统三组入口, 身份统一走 X-User-Id 头
func loadV1(r *gin.Engine, svcCtx *svc.ServerCtx) {
	api := r.Group("/api/v1")

	auctions := api.Group("/auctions")
	{
		auctions.GET("", v1.AuctionListHandler(svcCtx))           // 拍卖列表
		auctions.POST("", v1.CreateAuctionHandler(svcCtx))        // 创建拍卖
		auctions.GET("/:id", v1.GetAuctionHandler(svcCtx))        // 拍卖详情
		auctions.PUT("/:id", v1.UpdateAuctionHandler(svcCtx))     // 修改条款
		auctions.POST("/:id/end", v1.EndAuctionHandler(svcCtx))   // 手动结束
		auctions.POST("/:id/cancel", v1.CancelAuctionHandler(svcCtx))
		auctions.POST("/:id/relist", v1.RelistAuctionHandler(svcCtx))
		auctions.POST("/:id/fail", v1.FailAuctionHandler(svcCtx)) // 强制判定支付失败
		auctions.GET("/:id/bids", v1.AuctionBidsHandler(svcCtx)) // 出价历史
		auctions.POST("/:id/bids", v1.PlaceBidHandler(svcCtx))   // 出价
		auctions.POST("/:id/buyout", v1.BuyOutHandler(svcCtx))   // 一口价买断
	}

	api.GET("/auction-failures", v1.AuctionFailuresHandler(svcCtx)) // 弃拍记录
	api.GET("/variants/:id/stock", v1.VariantStockHandler(svcCtx))  // 变体库存

	user := api.Group("/user")
	{
		user.GET("/bids", v1.UserBidsHandler(svcCtx))
		user.GET("/stats", v1.UserStatsHandler(svcCtx))
		user.GET("/auctions/pending-payment", v1.UserPendingPaymentHandler(svcCtx))
		user.GET("/auctions/ended-unlinked", v1.UserEndedUnlinkedHandler(svcCtx))
	}

	orders := api.Group("/orders")
	{
		orders.POST("/link", v1.LinkOrderHandler(svcCtx))
		orders.POST("/unlink", v1.UnlinkOrderHandler(svcCtx))
		orders.POST("/paid", v1.OrderPaidHandler(svcCtx))
	}
}
