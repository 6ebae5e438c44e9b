package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Language codes
const (
	LangEnglish  = "en"
	LangHebrew   = "he"
	LangArabic   = "ar"
	LangRussian  = "ru"
	LangChinese  = "zh"
	LangJapanese = "ja"
	LangKorean   = "ko"
)

// Language represents a detected language
type Language struct {
	Code       string
	Name       string
	Confidence float64
}

var scriptTables = []struct {
	code   string
	tables []*unicode.RangeTable
}{
	{LangHebrew, []*unicode.RangeTable{unicode.Hebrew}},
	{LangArabic, []*unicode.RangeTable{unicode.Arabic}},
	{LangRussian, []*unicode.RangeTable{unicode.Cyrillic}},
	{LangKorean, []*unicode.RangeTable{unicode.Hangul}},
	{LangJapanese, []*unicode.RangeTable{unicode.Hiragana, unicode.Katakana}},
	{LangChinese, []*unicode.RangeTable{unicode.Han}},
}

const (
	scriptThreshold = 0.1  // share of letters needed to call a script dominant
	mixedThreshold  = 0.01 // any visible presence in otherwise latin text
	kanaThreshold   = 0.05 // kana share that turns Han text into Japanese
)

// DetectLanguage guesses the language of text from the scripts its letters use.
// Latin-only or empty text is reported as English.
func DetectLanguage(text string) Language {
	text = strings.TrimSpace(text)
	total := 0
	counts := make(map[string]int, len(scriptTables))
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		total++
		for _, s := range scriptTables {
			if unicode.In(r, s.tables...) {
				counts[s.code]++
				break
			}
		}
	}
	if total == 0 {
		return named(LangEnglish, 0)
	}

	best, bestRatio := LangEnglish, 0.0
	for _, threshold := range []float64{scriptThreshold, mixedThreshold} {
		for _, s := range scriptTables {
			ratio := float64(counts[s.code]) / float64(total)
			if ratio > threshold && ratio > bestRatio {
				best, bestRatio = s.code, ratio
			}
		}
		if best != LangEnglish {
			break
		}
	}

	// Japanese mixes kanji with kana
	if best == LangChinese || best == LangJapanese {
		kana := float64(counts[LangJapanese]) / float64(total)
		if kana > kanaThreshold {
			return named(LangJapanese, float64(counts[LangJapanese]+counts[LangChinese])/float64(total))
		}
		return named(LangChinese, bestRatio)
	}

	return named(best, bestRatio)
}

func named(code string, confidence float64) Language {
	return Language{
		Code:       code,
		Name:       display.English.Languages().Name(language.Make(code)),
		Confidence: confidence,
	}
}
