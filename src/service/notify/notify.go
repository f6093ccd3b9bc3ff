package notify

import (
	"context"

	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventKind 通知事件类型, 同时作为下游投递的模板标识
type EventKind string

const (
	EventOutbid                  EventKind = "outbid"                    // 出价被超
	EventAuctionWon              EventKind = "auction_won"               // 得标
	EventAuctionLost             EventKind = "auction_lost"              // 参拍未得标
	EventPaymentDeadlineExceeded EventKind = "payment_deadline_exceeded" // 支付超时
	EventUserBanned              EventKind = "user_banned"               // 被封禁
	EventAuctionRelisted         EventKind = "auction_relisted"          // 拍卖重新上架
	EventAuctionCancelled        EventKind = "auction_cancelled"         // 拍卖取消
)

// Event 带类型标签的通知事件
// Data 为模板渲染载荷, 由投递实现决定如何使用
type Event struct {
	Id        string                 `json:"id"`
	Kind      EventKind              `json:"kind"`
	Recipient int64                  `json:"recipient"`
	Data      map[string]interface{} `json:"data"`
}

// NewEvent 构造事件并分配唯一 ID
func NewEvent(kind EventKind, recipient int64, data map[string]interface{}) *Event {
	return &Event{
		Id:        uuid.NewString(),
		Kind:      kind,
		Recipient: recipient,
		Data:      data,
	}
}

// Dispatcher 通知投递接口
// 投递发生在状态变更事务提交之后, 属于尽力而为:
// 任何投递失败只记录日志, 不允许回灌到业务错误里
type Dispatcher interface {
	Dispatch(ctx context.Context, event *Event) error
}

// LogDispatcher 把事件写入日志的投递实现
// 真实的邮件/站内信通道归通知子系统所有, 接入时替换这一个实现即可
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (d *LogDispatcher) Dispatch(ctx context.Context, event *Event) error {
	xzap.WithContext(ctx).Info("dispatch notification",
		zap.String("event_id", event.Id),
		zap.String("kind", string(event.Kind)),
		zap.Int64("recipient", event.Recipient),
		zap.Any("data", event.Data))
	return nil
}

// Send 尽力而为投递: 吞掉错误并记日志
func Send(ctx context.Context, dispatcher Dispatcher, event *Event) {
	if dispatcher == nil {
		return
	}
	if err := dispatcher.Dispatch(ctx, event); err != nil {
		xzap.WithContext(ctx).Warn("failed on dispatch notification",
			zap.String("kind", string(event.Kind)),
			zap.Int64("recipient", event.Recipient),
			zap.Error(err))
	}
}
