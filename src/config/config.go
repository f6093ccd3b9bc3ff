package config

import (
	logging "github.com/ProjectsTask/EasySwapBase/logger"
	"github.com/ProjectsTask/EasySwapBase/stores/gdb"
	"github.com/spf13/viper"
)

// Config 定义了应用程序的全局配置结构
type Config struct {
	Api     *Api             `toml:"api" mapstructure:"api" json:"api"`             // HTTP 服务配置
	Monitor *Monitor         `toml:"monitor" mapstructure:"monitor" json:"monitor"` // 监控相关配置
	Log     *logging.LogConf `toml:"log" mapstructure:"log" json:"log"`             // 日志配置
	Kv      *KvConf          `toml:"kv" mapstructure:"kv" json:"kv"`                // KV存储配置 (Redis)
	DB      *gdb.Config      `toml:"db" mapstructure:"db" json:"db"`                // 数据库配置 (MySQL)
	Auction *AuctionCfg      `toml:"auction" mapstructure:"auction" json:"auction"` // 拍卖规则配置
}

// Api HTTP 服务配置
type Api struct {
	Port string `toml:"port" mapstructure:"port" json:"port"` // 监听端口, 如 ":9100"
}

// Monitor 定义监控配置
type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"` // 是否开启 Pprof
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`       // Pprof 监听端口
}

// KvConf 定义 Key-Value 存储配置
type KvConf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"` // Redis 列表（可能支持多实例）
}

// Redis 定义 Redis 连接配置
type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"` // Redis 主机地址
	Type string `toml:"type" mapstructure:"type" json:"type"` // Redis 类型 (node, cluster)
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"` // Redis 密码
}

// AuctionCfg 拍卖核心的规则窗口与巡检周期, 单位统一为秒
// 不配置时使用 FillDefaults 的缺省值
type AuctionCfg struct {
	BidExtendWindow     int64 `toml:"bid_extend_window" mapstructure:"bid_extend_window" json:"bid_extend_window"`             // 每次出价后的防狙击顺延窗口
	PaymentWindow       int64 `toml:"payment_window" mapstructure:"payment_window" json:"payment_window"`                      // 结束后的支付窗口
	OutbidThrottle      int64 `toml:"outbid_throttle" mapstructure:"outbid_throttle" json:"outbid_throttle"`                   // 同一用户被超价通知的限流窗口
	BanThreshold        int64 `toml:"ban_threshold" mapstructure:"ban_threshold" json:"ban_threshold"`                         // 触发封禁的累计弃拍次数
	BanDuration         int64 `toml:"ban_duration" mapstructure:"ban_duration" json:"ban_duration"`                            // 封禁时长
	AutoEndInterval     int64 `toml:"auto_end_interval" mapstructure:"auto_end_interval" json:"auto_end_interval"`             // 自动结束巡检周期
	UnpaidOrderInterval int64 `toml:"unpaid_order_interval" mapstructure:"unpaid_order_interval" json:"unpaid_order_interval"` // 未支付订单巡检周期
	PaymentFailInterval int64 `toml:"payment_fail_interval" mapstructure:"payment_fail_interval" json:"payment_fail_interval"` // 支付超时巡检周期
}

// FillDefaults 填充缺省规则
func (c *AuctionCfg) FillDefaults() {
	if c.BidExtendWindow <= 0 {
		c.BidExtendWindow = 24 * 60 * 60
	}
	if c.PaymentWindow <= 0 {
		c.PaymentWindow = 48 * 60 * 60
	}
	if c.OutbidThrottle <= 0 {
		c.OutbidThrottle = 30 * 60
	}
	if c.BanThreshold <= 0 {
		c.BanThreshold = 3
	}
	if c.BanDuration <= 0 {
		c.BanDuration = 30 * 24 * 60 * 60
	}
	if c.AutoEndInterval <= 0 {
		c.AutoEndInterval = 5 * 60
	}
	if c.UnpaidOrderInterval <= 0 {
		c.UnpaidOrderInterval = 10 * 60
	}
	if c.PaymentFailInterval <= 0 {
		c.PaymentFailInterval = 60 * 60
	}
}

// UnmarshalCmdConfig 加载并解析由命令行入口预先定位的配置文件
func UnmarshalCmdConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	if c.Auction == nil {
		c.Auction = &AuctionCfg{}
	}
	c.Auction.FillDefaults()

	return &c, nil
}
