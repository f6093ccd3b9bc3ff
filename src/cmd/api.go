package cmd

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // 引入 pprof 用于性能分析

	"github.com/spf13/cobra"

	"github.com/ProjectsTask/EasyAuction/src/api/router"
	"github.com/ProjectsTask/EasyAuction/src/app"
	"github.com/ProjectsTask/EasyAuction/src/config"
	"github.com/ProjectsTask/EasyAuction/src/service/svc"
)

// ApiCmd 定义了 "api" 子命令, 启动拍卖 HTTP 服务
var ApiCmd = &cobra.Command{
	Use:   "api",
	Short: "run auction http api server.",
	Long:  "run auction http api server.",
	Run: func(cmd *cobra.Command, args []string) {
		// 1. 读取和解析配置文件 (config.toml)
		c, err := config.UnmarshalCmdConfig()
		if err != nil {
			panic(err)
		}

		// 2. 初始化服务上下文, 包含 DB, Redis 等连接
		serverCtx, err := svc.NewServiceContext(c)
		if err != nil {
			panic(err)
		}

		// 3. 初始化 Gin 路由实例
		r := router.NewRouter(serverCtx)
		// 创建应用程序实例，并将路由和服务上下文注入
		platform, err := app.NewPlatform(c, r, serverCtx)
		if err != nil {
			panic(err)
		}

		// 4. 如果配置开启了 Pprof, 启动 HTTP 服务进行性能监控
		if c.Monitor != nil && c.Monitor.PprofEnable {
			go http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", c.Monitor.PprofPort), nil)
		}

		// 5. 启动 HTTP 服务 (阻塞)
		platform.Start()
	},
}

func init() {
	rootCmd.AddCommand(ApiCmd)
}
