// Package entity はfooddetectionフィーチャーのドメインモデルを定義します。
package entity

// SignalType は検出結果の出所（どのシグナル・解析段階から得られたか）を表します。
type SignalType string

const (
	SignalWebBestGuess         SignalType = "web_best_guess"
	SignalWebEntity            SignalType = "web_entity"
	SignalObject               SignalType = "object"
	SignalLabel                SignalType = "label"
	SignalGenerativeMain       SignalType = "generative_main"
	SignalGenerativeAdditional SignalType = "generative_additional"
	SignalGenerativeParsed     SignalType = "generative_parsed"
	SignalGenerativeFull       SignalType = "generative_full"
)

// DetectionItem は画像から検出された食品1件を表します。
type DetectionItem struct {
	Description string     // 食品の説明（大文字小文字は保持）
	Confidence  float64    // 信頼度（0.0 ~ 100.0）
	SignalType  SignalType // 出所
}

// Source は結果を生成した経路を表します。
type Source string

const (
	SourceGenerative        Source = "generative"
	SourceSignalAggregation Source = "signal_aggregation"
)

// ResultEnvelope はパイプライン全体の最終結果です。
type ResultEnvelope struct {
	Items    []DetectionItem
	Source   Source
	FullText string // 生成経路の場合のみ設定される
}
