package svc

import (
	"context"

	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/ProjectsTask/EasySwapBase/stores/gdb"
	"github.com/ProjectsTask/EasySwapBase/stores/xkv"
	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"

	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/dao"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
)

// NewServiceContext 初始化服务上下文
// 该函数负责初始化拍卖服务所需的所有基础设施组件
func NewServiceContext(c *config.Config) (*ServerCtx, error) {
	var err error

	// 1. 初始化日志系统 (Zap Logger)
	_, err = xzap.SetUp(*c.Log)
	if err != nil {
		return nil, err
	}

	// 2. 构造 Redis 配置
	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}

	// 3. 初始化 Redis 客户端 (xkv Store)
	store := xkv.NewStore(kvConf)

	// 4. 初始化数据库连接 (GORM)
	db, err := gdb.NewDB(c.DB)
	if err != nil {
		return nil, err
	}

	// 5. 初始化数据访问层 (DAO)
	dao := dao.New(context.Background(), db, store)

	// 6. 初始化通知投递器
	// 被超价通知走共享 Redis 限流, 多实例部署下窗口依然成立
	notifier := notify.NewThrottled(notify.NewLogDispatcher(), store, c.Auction.OutbidThrottle)

	// 7. 组装 ServerCtx 对象
	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(dao),
		WithNotifier(notifier),
	)
	serverCtx.C = c

	return serverCtx, nil
}
