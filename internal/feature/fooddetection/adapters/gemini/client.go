// Package gemini はGoogle Gemini APIを使用した画像説明クライアントを提供します。
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/genai"

	"snaptrack_backend/internal/feature/fooddetection/domain"
	"snaptrack_backend/internal/feature/fooddetection/usecase"
	"snaptrack_backend/internal/shared/ratelimiter"
)

const providerName = "gemini"

// Config はGeminiクライアントの接続設定です。
type Config struct {
	APIKey     string       // Gemini API キー（Vertex AI 利用時は空）
	VertexAI   bool         // Vertex AI バックエンドを使用するか
	Project    string       // Vertex AI のプロジェクトID
	Location   string       // Vertex AI のロケーション
	HTTPClient *http.Client // nilの場合はgenaiのデフォルト

	// Limiter は生成リクエストごとに待機します。nilの場合は制限なし
	Limiter ratelimiter.Limiter
}

// GeminiDescriberFactory はモデル名ごとにGeminiDescriberを生成します。
type GeminiDescriberFactory struct {
	client  *genai.Client
	limiter ratelimiter.Limiter
}

// GeminiDescriber は特定のGeminiモデルで画像の説明文を生成します。
type GeminiDescriber struct {
	client  *genai.Client
	model   string
	limiter ratelimiter.Limiter
}

// コンパイル時にインターフェース実装を検証します。
var (
	_ usecase.DescriberFactory = (*GeminiDescriberFactory)(nil)
	_ usecase.Describer        = (*GeminiDescriber)(nil)
)

// NewGeminiDescriberFactory はgenaiクライアントを生成してGeminiDescriberFactoryを返します。
func NewGeminiDescriberFactory(ctx context.Context, cfg Config) (*GeminiDescriberFactory, error) {
	cc := &genai.ClientConfig{HTTPClient: cfg.HTTPClient}
	if cfg.VertexAI {
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	} else {
		if cfg.APIKey == "" {
			return nil, domain.NewProviderError(providerName, domain.ErrProviderUnavailable, fmt.Errorf("API key is required"))
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiDescriberFactory{client: client, limiter: cfg.Limiter}, nil
}

// NewDescriber は指定モデルが利用可能かを確認してGeminiDescriberを返します。
func (f *GeminiDescriberFactory) NewDescriber(ctx context.Context, model string) (usecase.Describer, error) {
	if model == "" {
		return nil, domain.NewProviderError(providerName, domain.ErrProviderUnavailable, fmt.Errorf("model name is empty"))
	}
	if _, err := f.client.Models.Get(ctx, model, nil); err != nil {
		return nil, domain.NewProviderError(providerName, domain.ErrProviderUnavailable, fmt.Errorf("model %s: %w", model, err))
	}
	return &GeminiDescriber{client: f.client, model: model, limiter: f.limiter}, nil
}

// Describe は指示文と画像を送信し、モデルの回答テキストを返します。
func (g *GeminiDescriber) Describe(ctx context.Context, imageData []byte, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", domain.NewProviderError(providerName, domain.ErrProviderCallFailed, fmt.Errorf("rate limit wait: %w", err))
		}
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, buildContents(imageData, prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", domain.NewProviderError(providerName, domain.ErrProviderCallFailed, fmt.Errorf("model %s: %w", g.model, err))
	}
	return resp.Text(), nil
}

// buildContents は指示文と画像のインラインデータから1件のユーザーコンテンツを組み立てます。
func buildContents(imageData []byte, prompt string) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageData, mimetype.Detect(imageData).String()),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
