package usecase

import (
	"cmp"
	"slices"

	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
)

// AggregateSignals は1画像分のシグナルを固定順に正規化し、重複を除いて信頼度の降順に並べます。
// 同じ信頼度の項目は最初に出現した順を保ちます。いずれかのシグナルがエラーを含む場合は部分結果を返さずに失敗します。
func AggregateSignals(set *entity.SignalSet) ([]entity.DetectionItem, error) {
	if set == nil {
		return []entity.DetectionItem{}, nil
	}

	seen := make(map[string]struct{})
	items := make([]entity.DetectionItem, 0)
	for _, resp := range set.Ordered() {
		normalized, err := NormalizeSignal(resp, seen)
		if err != nil {
			return nil, err
		}
		items = append(items, normalized...)
	}

	slices.SortStableFunc(items, func(a, b entity.DetectionItem) int {
		return cmp.Compare(b.Confidence, a.Confidence)
	})
	return items, nil
}
