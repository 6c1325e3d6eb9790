// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snaptrack_backend/internal/api"
)

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを返します。
// GETでは生成モデル経路が設定済みかどうかも返します。キャッシュは常に無効です。
func NewHealth(generativeAvailable bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, api.HealthResponse{
				Status:              "ok",
				GenerativeAvailable: generativeAvailable,
			})
		}
	}
}
