package middleware

import (
	"github.com/ProjectsTask/EasySwapBase/errcode"
	"github.com/ProjectsTask/EasySwapBase/logger/xzap"
	"github.com/ProjectsTask/EasySwapBase/xhttp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoverMiddleware 捕获 handler 链中的 panic
// 记录日志并返回统一的 unexpected 错误, 避免单个请求拖垮进程
func RecoverMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				xzap.WithContext(c.Request.Context()).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path))
				xhttp.Error(c, errcode.ErrUnexpected)
				c.Abort()
			}
		}()
		c.Next()
	}
}
