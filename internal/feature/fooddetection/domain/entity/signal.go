package entity

// RawLabel はラベリングプロバイダーが返す (ラベル, スコア) の組です。
// best guess ラベルではスコアは使われません。
type RawLabel struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// SignalResponse は1種類のシグナルに対するプロバイダーの生レスポンスです。
type SignalResponse struct {
	Type   SignalType `json:"type"`
	Labels []RawLabel `json:"labels"`
	Error  string     `json:"error,omitempty"` // プロバイダーがレスポンス内で報告したエラー
}

// SignalSet は1画像分のシグナルレスポンスをまとめたものです。
type SignalSet struct {
	BestGuess   SignalResponse `json:"best_guess"`
	WebEntities SignalResponse `json:"web_entities"`
	Objects     SignalResponse `json:"objects"`
	Labels      SignalResponse `json:"labels"`
}

// SignalOrder は正規化を行う固定順です。
var SignalOrder = []SignalType{SignalWebBestGuess, SignalWebEntity, SignalObject, SignalLabel}

// Ordered はSignalOrderの順でレスポンスを返します。各レスポンスのTypeは格納位置に合わせて設定されます。
func (s *SignalSet) Ordered() []SignalResponse {
	out := []SignalResponse{s.BestGuess, s.WebEntities, s.Objects, s.Labels}
	for i, t := range SignalOrder {
		out[i].Type = t
	}
	return out
}

// HasError はいずれかのシグナルがエラーを含むかどうかを返します。
func (s *SignalSet) HasError() bool {
	for _, r := range s.Ordered() {
		if r.Error != "" {
			return true
		}
	}
	return false
}
