// Package api はHTTPインターフェースのリクエスト・レスポンス型を定義します。
package api

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetectionItemResponse は検出された食品1件のレスポンスです。
type DetectionItemResponse struct {
	Description string  `json:"description"`
	Confidence  float64 `json:"confidence"`
	Type        string  `json:"type"`
}

// FoodDetectionResponse は食品検出結果のレスポンスです。
type FoodDetectionResponse struct {
	Success  bool                    `json:"success"`
	Items    []DetectionItemResponse `json:"items"`
	Count    int                     `json:"count"`
	Source   string                  `json:"source"`
	FullText *string                 `json:"full_text,omitempty"`
}

// HealthResponse はヘルスチェックのレスポンスです。
type HealthResponse struct {
	Status              string `json:"status"`
	GenerativeAvailable bool   `json:"generative_available"`
}
