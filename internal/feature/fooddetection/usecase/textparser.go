package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"snaptrack_backend/internal/feature/fooddetection/domain/entity"
)

const (
	MainItemConfidence       = 95.0
	AdditionalItemConfidence = 90.0
	ParsedSentenceConfidence = 90.0
	FullTextConfidence       = 85.0

	// 主項目と説明文はこの長さ（rune数）を超える必要があります。
	minMainItemLength = 10
	minSentenceLength = 30
	// 追加項目はこの長さ以上が必要です。
	minAdditionalItemLength = 5

	// MaxFullTextLength はフォールバック時に残す本文の最大文字数です。
	MaxFullTextLength = 300
)

var (
	mainItemMarker        = regexp.MustCompile(`(?i)MAIN ITEM:`)
	additionalItemsMarker = regexp.MustCompile(`(?i)ADDITIONAL ITEMS:`)
	detailedMarker        = regexp.MustCompile(`(?i)DETAILED DESCRIPTION:`)

	// listPrefix は箇条書きの先頭記号（-, *, •, 1. , 1) ）に一致します。
	listPrefix = regexp.MustCompile(`^(?:[-*•]+\s*|\d+[.)]\s+)`)

	cueWords         = []string{"with", "and", "on", "topped", "served", "includes"}
	genericFoodTerms = []string{"burger", "cheeseburger", "food", "dish", "meal"}
)

type section int

const (
	sectionNone section = iota
	sectionMain
	sectionAdditional
)

// ParseGenerativeText は生成モデルの回答からDetectionItemを抽出します。
// タグ付きセクション、説明文、本文全体の順に試し、最初に1件以上得られた段階の結果を返します。
// 結果は出現順のままで、信頼度による並べ替えは行いません。
func ParseGenerativeText(text string) []entity.DetectionItem {
	if items := parseTaggedSections(text); len(items) > 0 {
		return items
	}
	if items := parseDescriptiveSentence(text); len(items) > 0 {
		return items
	}
	return parseFullText(text)
}

// parseTaggedSections は MAIN ITEM: / ADDITIONAL ITEMS: セクションを読み取ります。
// DETAILED DESCRIPTION: 以降は項目化しません。
func parseTaggedSections(text string) []entity.DetectionItem {
	var (
		state      = sectionNone
		main       []string
		additional []string
	)

scan:
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == "" || isExampleLine(line):
			continue
		case detailedMarker.MatchString(line):
			break scan
		case mainItemMarker.MatchString(line):
			state = sectionMain
			if seed := textAfter(mainItemMarker, line); seed != "" {
				main = append(main, seed)
			}
		case additionalItemsMarker.MatchString(line):
			state = sectionAdditional
			if first := textAfter(additionalItemsMarker, line); first != "" && !isNone(first) {
				additional = append(additional, first)
			}
		case state == sectionMain:
			if s := cleanSectionText(line); s != "" {
				main = append(main, s)
			}
		case state == sectionAdditional:
			if s := cleanSectionText(line); s != "" {
				additional = append(additional, s)
			}
		}
	}

	seen := make(seenSet)
	items := make([]entity.DetectionItem, 0, 1+len(additional))
	if desc := strings.Join(main, " "); utf8.RuneCountInString(desc) > minMainItemLength && seen.add(desc) {
		items = append(items, entity.DetectionItem{
			Description: desc,
			Confidence:  MainItemConfidence,
			SignalType:  entity.SignalGenerativeMain,
		})
	}
	for _, desc := range additional {
		if isNone(desc) || utf8.RuneCountInString(desc) < minAdditionalItemLength || !seen.add(desc) {
			continue
		}
		items = append(items, entity.DetectionItem{
			Description: desc,
			Confidence:  AdditionalItemConfidence,
			SignalType:  entity.SignalGenerativeAdditional,
		})
	}
	return items
}

// parseDescriptiveSentence は接続語を含む最も長い説明文を1件だけ返します。
func parseDescriptiveSentence(text string) []entity.DetectionItem {
	best := ""
	for _, s := range strings.Split(text, ".") {
		s = strings.Join(strings.Fields(s), " ")
		if utf8.RuneCountInString(s) <= minSentenceLength {
			continue
		}
		lower := strings.ToLower(s)
		if !containsAny(lower, cueWords) || isGenericOnly(lower) {
			continue
		}
		if utf8.RuneCountInString(s) > utf8.RuneCountInString(best) {
			best = s
		}
	}
	if best == "" {
		return nil
	}
	return []entity.DetectionItem{{
		Description: best + ".",
		Confidence:  ParsedSentenceConfidence,
		SignalType:  entity.SignalGenerativeParsed,
	}}
}

// parseFullText は本文の先頭 MaxFullTextLength 文字を1件として返します。
func parseFullText(text string) []entity.DetectionItem {
	desc := strings.TrimSpace(text)
	if desc == "" {
		return nil
	}
	if r := []rune(desc); len(r) > MaxFullTextLength {
		desc = string(r[:MaxFullTextLength]) + "..."
	}
	return []entity.DetectionItem{{
		Description: desc,
		Confidence:  FullTextConfidence,
		SignalType:  entity.SignalGenerativeFull,
	}}
}

// textAfter はマーカー以降の文字列を整形して返します。
func textAfter(marker *regexp.Regexp, line string) string {
	loc := marker.FindStringIndex(line)
	if loc == nil {
		return ""
	}
	return cleanSectionText(line[loc[1]:])
}

// cleanSectionText はMarkdownの強調記号と箇条書き記号を取り除きます。
func cleanSectionText(s string) string {
	s = strings.Trim(s, "* \t")
	s = listPrefix.ReplaceAllString(s, "")
	return strings.Trim(s, "* \t")
}

func isNone(s string) bool {
	return strings.EqualFold(strings.TrimRight(s, "."), "none")
}

func isExampleLine(line string) bool {
	lower := strings.ToLower(strings.TrimLeft(line, "*(- \t"))
	return strings.HasPrefix(lower, "example") || strings.HasPrefix(lower, "e.g.")
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// isGenericOnly は5語未満で、かつ汎用語をすべて含む文のときだけtrueを返します。
func isGenericOnly(lower string) bool {
	if len(strings.Fields(lower)) >= 5 {
		return false
	}
	for _, t := range genericFoodTerms {
		if !strings.Contains(lower, t) {
			return false
		}
	}
	return true
}
