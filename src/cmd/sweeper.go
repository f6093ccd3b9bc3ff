package cmd

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof" // 引入 pprof 用于性能分析
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
	"github.com/ProjectsTask/EasyAuction/src/service/sweeper"
)

// SweeperCmd 定义了 "sweeper" 子命令
// 运行拍卖后台巡检: 到期自动结束 / 支付超时弃拍 / 未支付订单取消
var SweeperCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "run auction background sweeps.",
	Long:  "run auction background sweeps.",
	Run: func(cmd *cobra.Command, args []string) {
		// 使用 WaitGroup 等待所有 goroutine 完成
		wg := &sync.WaitGroup{}
		wg.Add(1)

		// 创建一个带有取消功能的 Context, 用于优雅退出
		ctx, cancel := context.WithCancel(context.Background())

		// 退出信号通知 chan, 用于接收服务启动或运行过程中的错误
		onSweepExit := make(chan error, 1)

		// 启动一个 goroutine 来运行主服务逻辑
		go func() {
			defer wg.Done()

			// 1. 读取和解析配置文件 (config.toml)
			cfg, err := config.UnmarshalCmdConfig()
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to unmarshal config", zap.Error(err))
				onSweepExit <- err
				return
			}

			// 2. 初始化服务上下文 (日志/DB/Redis/通知)
			serverCtx, err := svc.NewServiceContext(cfg)
			if err != nil {
				xzap.WithContext(ctx).Error("Failed to create service context", zap.Error(err))
				onSweepExit <- err
				return
			}

			xzap.WithContext(ctx).Info("sweeper start", zap.Any("auction", cfg.Auction))

			// 3. 初始化并启动巡检服务
			s := sweeper.New(ctx, cfg, serverCtx.Dao, serverCtx.Notifier, nil)
			s.Start()

			// 4. 如果配置开启了 Pprof, 启动 HTTP 服务进行性能监控
			if cfg.Monitor != nil && cfg.Monitor.PprofEnable {
				http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", cfg.Monitor.PprofPort), nil)
			}
		}()

		// 信号通知 chan, 用于接收系统信号
		onSignal := make(chan os.Signal)
		// 监听 SIGINT (Ctrl+C) 和 SIGTERM (kill) 信号, 实现优雅退出
		signal.Notify(onSignal, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-onSignal: // 收到系统信号
			switch sig {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM:
				cancel() // 取消 Context, 通知所有巡检循环退出
				xzap.WithContext(ctx).Info("Exit by signal", zap.String("signal", sig.String()))
			}
		case err := <-onSweepExit: // 收到服务内部错误
			cancel()
			xzap.WithContext(ctx).Error("Exit by error", zap.Error(err))
		}

		// 等待所有 goroutine 退出
		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(SweeperCmd)
}
