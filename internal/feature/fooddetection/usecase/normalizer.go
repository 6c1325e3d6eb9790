package usecase

import (
	"fmt"
	"math"
	"strings"

	"snaptrack_backend/internal/feature/fooddetection/domain"
	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
)

const (
	// BestGuessConfidence はスコアを持たない best guess ラベルに与える固定信頼度です。
	BestGuessConfidence = 95.0
	// MinSignalScore はシグナルを採用するためのスコア下限（この値を超える必要がある）です。
	MinSignalScore = 0.5
	// MinWebEntityLength はweb entityの説明に必要な最小文字数（この値を超える必要がある）です。
	MinWebEntityLength = 2

	labelingProvider = "vision"
)

// genericLabels は汎用すぎるため label シグナルから除外する語です。
var genericLabels = map[string]struct{}{
	"food":       {},
	"dish":       {},
	"cuisine":    {},
	"meal":       {},
	"ingredient": {},
}

// seenSet は大文字小文字を区別せずに出力済みの説明を記録します。
type seenSet map[string]struct{}

// add は説明が未登録なら登録してtrueを返します。
func (s seenSet) add(description string) bool {
	key := strings.ToLower(description)
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

// NormalizeSignal は1種類のシグナルの生レスポンスをDetectionItemのリストに変換します。
// seen に登録済みの説明（先に処理したシグナルの出力）は抑制され、新たに出力した説明は seen に追加されます。
// レスポンスがエラーを含む場合は ErrProviderResponseError を返します。
func NormalizeSignal(resp entity.SignalResponse, seen map[string]struct{}) ([]entity.DetectionItem, error) {
	if resp.Error != "" {
		return nil, domain.NewProviderError(labelingProvider, domain.ErrProviderResponseError,
			fmt.Errorf("%s: %s", resp.Type, resp.Error))
	}

	set := seenSet(seen)
	items := make([]entity.DetectionItem, 0, len(resp.Labels))
	for _, l := range resp.Labels {
		desc := strings.TrimSpace(l.Text)
		if desc == "" || !accepts(resp.Type, desc, l.Score) {
			continue
		}
		if !set.add(desc) {
			continue
		}
		conf := BestGuessConfidence
		if resp.Type != entity.SignalWebBestGuess {
			conf = scoreToConfidence(l.Score)
		}
		items = append(items, entity.DetectionItem{
			Description: desc,
			Confidence:  conf,
			SignalType:  resp.Type,
		})
	}
	return items, nil
}

// accepts はシグナル種別ごとの採用ルールを適用します。
func accepts(t entity.SignalType, desc string, score float32) bool {
	switch t {
	case entity.SignalWebBestGuess:
		return true
	case entity.SignalWebEntity:
		return score > MinSignalScore && len([]rune(desc)) > MinWebEntityLength
	case entity.SignalObject:
		return score > MinSignalScore
	case entity.SignalLabel:
		if _, generic := genericLabels[strings.ToLower(desc)]; generic {
			return false
		}
		return score > MinSignalScore
	default:
		return false
	}
}

// scoreToConfidence は0~1のスコアを小数第2位で丸めた0~100の信頼度に変換します。
func scoreToConfidence(score float32) float64 {
	return clampConfidence(math.Round(float64(score)*100*100) / 100)
}

func clampConfidence(c float64) float64 {
	switch {
	case math.IsNaN(c) || c < 0:
		return 0
	case c > 100:
		return 100
	default:
		return c
	}
}
