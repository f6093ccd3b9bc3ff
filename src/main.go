package main

import (
	"github.com/ProjectsTask/EasyAuction/src/cmd"
)

// main 是程序的入口函数
// 通过子命令选择运行形态: api 启动 HTTP 服务, sweeper 启动后台巡检
func main() {
	cmd.Execute()
}
