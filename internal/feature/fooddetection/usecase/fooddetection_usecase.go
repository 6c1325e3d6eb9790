// Package usecase はfooddetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"snaptrack_backend/internal/feature/fooddetection/domain"
	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
)

const (
	// DescriptionPrompt は生成モデルに渡す固定の指示文です。
	DescriptionPrompt = `You are a food recognition assistant. Look at the image and identify the food.
Answer in exactly this format:

MAIN ITEM: <a detailed description of the main food item, including visible toppings, fillings and preparation>
ADDITIONAL ITEMS: <other food items or sides, one per line, or None>
DETAILED DESCRIPTION: <a short narrative description of the whole plate>

Example: MAIN ITEM: Cheeseburger with lettuce, tomato and pickles on a sesame bun`

	generativeProvider = "gemini"
)

// SignalSource は画像からラベリングシグナルを取得するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SignalSource interface {
	// FetchSignals は画像バイト列に対する全シグナル種別の生レスポンスを返します。
	FetchSignals(ctx context.Context, imageData []byte) (*entity.SignalSet, error)
}

// Describer は特定のモデルで画像の説明文を生成します。
type Describer interface {
	Describe(ctx context.Context, imageData []byte, prompt string) (string, error)
}

// DescriberFactory は名前付きモデルに対するDescriberを生成します。
// 指定モデルが利用できない場合はエラーを返します。
type DescriberFactory interface {
	NewDescriber(ctx context.Context, model string) (Describer, error)
}

// Options は起動時に一度だけ決まる不変の設定です。
type Options struct {
	// GenerativeAvailable は生成モデルの認証情報・設定が揃っているかどうかです。
	GenerativeAvailable bool
	// Models は試行順に並べたモデル名です（primary, secondary, tertiary）。
	Models []string
	// Prompt が空の場合は DescriptionPrompt を使用します。
	Prompt string
}

// fooddetectionUsecase は生成経路とシグナル集約経路のフォールバックを制御します。
type fooddetectionUsecase struct {
	signals   SignalSource
	describer DescriberFactory
	opts      Options
}

// NewFoodDetectionUsecase はfooddetectionUsecaseの新しいインスタンスを生成します。
// describer がnilの場合、生成経路は常に利用不可として扱われます。
func NewFoodDetectionUsecase(signals SignalSource, describer DescriberFactory, opts Options) *fooddetectionUsecase {
	if opts.Prompt == "" {
		opts.Prompt = DescriptionPrompt
	}
	opts.Models = append([]string(nil), opts.Models...)
	return &fooddetectionUsecase{signals: signals, describer: describer, opts: opts}
}

// Detect は画像から食品を検出します。
// generative が true かつ生成経路が利用可能な場合は生成経路を試し、失敗した場合はシグナル集約経路に切り替えます。
// シグナル集約経路の失敗はリクエスト全体の失敗として返します。
func (u *fooddetectionUsecase) Detect(ctx context.Context, imageData []byte, generative bool) (*entity.ResultEnvelope, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	if !generative {
		return u.detectBySignals(ctx, imageData)
	}

	return orElse(ctx,
		func(ctx context.Context) (*entity.ResultEnvelope, error) {
			return u.detectGenerative(ctx, imageData)
		},
		func(ctx context.Context) (*entity.ResultEnvelope, error) {
			return u.detectBySignals(ctx, imageData)
		},
		func(err error) {
			slog.Warn("generative path failed; falling back to signal aggregation", "error", err)
		},
	)
}

// detectGenerative は設定されたモデルを順に試し、最初に得られた回答を解析します。
func (u *fooddetectionUsecase) detectGenerative(ctx context.Context, imageData []byte) (*entity.ResultEnvelope, error) {
	if !u.opts.GenerativeAvailable || u.describer == nil {
		return nil, domain.NewProviderError(generativeProvider, domain.ErrProviderUnavailable, nil)
	}

	text, model, err := attemptInOrder(ctx, "model", u.opts.Models, func(ctx context.Context, model string) (string, error) {
		d, err := u.describer.NewDescriber(ctx, model)
		if err != nil {
			return "", err
		}
		text, err := d.Describe(ctx, imageData, u.opts.Prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", domain.NewProviderError(generativeProvider, domain.ErrProviderCallFailed, domain.ErrEmptyAnswer)
		}
		return text, nil
	})
	if err != nil {
		return nil, err
	}

	items := ParseGenerativeText(text)
	slog.Info("food detected by generative model", "model", model, "items", len(items))
	return &entity.ResultEnvelope{
		Items:    items,
		Source:   entity.SourceGenerative,
		FullText: text,
	}, nil
}

// detectBySignals はラベリングシグナルを取得して集約します。
func (u *fooddetectionUsecase) detectBySignals(ctx context.Context, imageData []byte) (*entity.ResultEnvelope, error) {
	if u.signals == nil {
		return nil, domain.NewProviderError(labelingProvider, domain.ErrProviderUnavailable, nil)
	}
	set, err := u.signals.FetchSignals(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("signal source failed: %w", err)
	}
	items, err := AggregateSignals(set)
	if err != nil {
		return nil, fmt.Errorf("signal aggregation failed: %w", err)
	}
	slog.Info("food detected by signal aggregation", "items", len(items))
	return &entity.ResultEnvelope{
		Items:  items,
		Source: entity.SourceSignalAggregation,
	}, nil
}
