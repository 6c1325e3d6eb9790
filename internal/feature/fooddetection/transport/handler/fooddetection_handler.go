// Package handler はfooddetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"snaptrack_backend/internal/api"
	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
)

const (
	// FormField は画像ファイルを受け取るマルチパートのフィールド名です。
	FormField = "file"
	// GenerativeParam は生成経路を使うかどうかを指定するクエリパラメータです（省略時true）。
	GenerativeParam = "generative"
)

// allowedMIMETypes はアップロードを受け付ける画像形式です。
var allowedMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// FoodDetectionUsecase は食品検出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type FoodDetectionUsecase interface {
	Detect(ctx context.Context, imageData []byte, generative bool) (*entity.ResultEnvelope, error)
}

// FoodDetectionHandler は食品検出のHTTPリクエストを処理します。
type FoodDetectionHandler struct {
	uc           FoodDetectionUsecase
	maxImageSize int64
}

// NewFoodDetectionHandler はFoodDetectionHandlerの新しいインスタンスを生成します。
func NewFoodDetectionHandler(uc FoodDetectionUsecase, maxImageSize int64) *FoodDetectionHandler {
	return &FoodDetectionHandler{uc: uc, maxImageSize: maxImageSize}
}

// Detect は画像をアップロードして食品を検出します。
//
// エンドポイント: POST /v1/food/detect?generative=true|false
// Content-Type: multipart/form-data
// フィールド: file（PNG/JPEG/GIF/WEBP）
func (h *FoodDetectionHandler) Detect(c *gin.Context) {
	generative := true
	if c.Query(GenerativeParam) != "" {
		if err := runtime.BindQueryParameter("form", true, false, GenerativeParam, c.Request.URL.Query(), &generative); err != nil {
			slog.Warn("クエリパラメータの解析に失敗", "error", err, "remote_addr", c.ClientIP())
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid generative parameter"})
			return
		}
	}

	file, err := c.FormFile(FormField)
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "No file selected"})
		return
	}
	if h.maxImageSize > 0 && file.Size > h.maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, api.ErrorResponse{Error: "File is too large"})
		return
	}

	f, err := file.Open()
	if err != nil {
		slog.Error("画像ファイルのオープンに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read image"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("画像ファイルのクローズに失敗", "error", err)
		}
	}()

	imageData, err := io.ReadAll(f)
	if err != nil {
		slog.Error("画像データの読み取りに失敗", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to read image"})
		return
	}

	if mt := mimetype.Detect(imageData); !mimetype.EqualsAny(mt.String(), allowedMIMETypes...) {
		slog.Warn("未対応の画像形式", "mime", mt.String(), "filename", file.Filename)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid file type. Please upload an image (PNG, JPG, JPEG, GIF, WEBP)"})
		return
	}

	result, err := h.uc.Detect(c.Request.Context(), imageData, generative)
	if err != nil {
		slog.Error("食品検出に失敗", "error", err)
		c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "Error detecting food items"})
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func toResponse(r *entity.ResultEnvelope) api.FoodDetectionResponse {
	items := make([]api.DetectionItemResponse, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, api.DetectionItemResponse{
			Description: it.Description,
			Confidence:  it.Confidence,
			Type:        string(it.SignalType),
		})
	}
	out := api.FoodDetectionResponse{
		Success: true,
		Items:   items,
		Count:   len(items),
		Source:  string(r.Source),
	}
	if r.Source == entity.SourceGenerative {
		text := r.FullText
		out.FullText = &text
	}
	return out
}
