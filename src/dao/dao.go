package dao

import (
	"context"

	"github.com/ProjectsTask/EasySwapBase/stores/xkv"
	"gorm.io/gorm"
)

// Dao 数据访问对象
// 封装了数据库 (GORM) 和 Redis (KvStore) 的操作
// 所有的数据库交互逻辑应在此层实现, 避免在 Service 层直接操作 DB
// 涉及 "状态变更 + 库存变更" 的复合操作必须在同一个事务内完成
type Dao struct {
	ctx context.Context

	DB      *gorm.DB   // 关系型数据库连接实例 (MySQL)
	KvStore *xkv.Store // 键值存储实例 (Redis), 用于通知限流等跨实例共享状态
}

// New 创建一个新的 Dao 实例
func New(ctx context.Context, db *gorm.DB, kvStore *xkv.Store) *Dao {
	return &Dao{
		ctx:     ctx,
		DB:      db,
		KvStore: kvStore,
	}
}
