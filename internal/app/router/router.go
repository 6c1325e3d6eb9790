package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	foodhandler "snaptrack_backend/internal/feature/fooddetection/transport/handler"
)

// NewRouter はルーティングを設定したgin.Engineを返します。
// allowedOrigins が空の場合はすべてのオリジンを許可します。
func NewRouter(health gin.HandlerFunc, food *foodhandler.FoodDetectionHandler, maxImageSize int64, allowedOrigins []string) *gin.Engine {
	r := gin.Default()
	if maxImageSize > 0 {
		// マルチパートをメモリに保持する上限
		r.MaxMultipartMemory = maxImageSize
	}

	// CORS追加
	r.Use(newCORS(allowedOrigins))

	// 導通確認用
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	v1 := r.Group("/v1")
	{
		// 画像から食品を検出
		v1.POST("/food/detect", food.Detect)
	}

	return r
}

func newCORS(allowedOrigins []string) gin.HandlerFunc {
	if len(allowedOrigins) == 0 {
		return cors.Default()
	}
	return cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}
