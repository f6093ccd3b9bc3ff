package cmd

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cfgFile 配置文件路径, 由 --conf 指定
var cfgFile string

// rootCmd 根命令, 具体运行形态由子命令决定
var rootCmd = &cobra.Command{
	Use:   "easyauction",
	Short: "timed auction core service.",
	Long:  "timed auction core service: run `api` for the http server, `sweeper` for the background sweeps.",
}

// Execute 解析命令行参数并执行对应子命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "conf", "", "conf file path (default ./config/config.toml)")
}

// initConfig 定位并读取配置文件
// 优先使用 --conf 指定的路径, 其次在 ./config 与用户主目录下查找
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		viper.AddConfigPath("./config")
		viper.AddConfigPath(home)
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.AutomaticEnv() // 环境变量覆盖, 如 EAUC_API_PORT
	viper.SetEnvPrefix("EAUC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}
