package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Cors 跨域中间件
// 桌面端插件与浏览器共用同一套 API，放开来源校验
// extraHeaders 追加允许的请求头（如配置的鉴权 Token 头名称）
func Cors(extraHeaders ...string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: append([]string{
			"Origin", "Content-Length", "Content-Type",
			"Authorization", "Token", "Accept", "X-Requested-With",
		}, extraHeaders...),
		ExposeHeaders: []string{"Content-Disposition", DefaultTraceIDHeader},
		MaxAge:        12 * time.Hour,
	})
}
