package svc

import (
	"github.com/ProjectsTask/EasySwapBase/stores/xkv"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/dao"
	"github.com/ProjectsTask/EasyAuction/src/service/notify"
)

// ServerCtx 服务上下文, 承载全部基础设施依赖
type ServerCtx struct {
	C        *config.Config
	DB       *gorm.DB
	Dao      *dao.Dao
	KvStore  *xkv.Store
	Notifier notify.Dispatcher
}

// CtxConfig 服务上下文配置构建器
// 用于使用 Option 模式构建 ServerCtx
type CtxConfig struct {
	db       *gorm.DB
	dao      *dao.Dao
	KvStore  *xkv.Store
	notifier notify.Dispatcher
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 创建新的服务上下文
// 使用 Option 模式初始化 DB, KVStore, Dao 等组件
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:       c.db,
		KvStore:  c.KvStore,
		Dao:      c.dao,
		Notifier: c.notifier,
	}
}

func WithKv(kv *xkv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithNotifier(notifier notify.Dispatcher) CtxOption {
	return func(conf *CtxConfig) {
		conf.notifier = notifier
	}
}
