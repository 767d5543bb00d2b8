package seo

import (
	"strings"
	"unicode"
)

// Checklist is the result of one evaluation of content against target
// keywords. It is computed locally and deterministically: the model may
// request it any number of times without side effects.
type Checklist struct {
	KeywordDensity     float64  `json:"keyword_density"`     // percent of words matching a target keyword
	ReadabilityScore   float64  `json:"readability_score"`   // 0-100, higher reads easier
	OptimizationAdvice []string `json:"optimization_advice"`
}

// Evaluate scores content against a comma-separated keyword string.
func Evaluate(content, keywords string) Checklist {
	text := stripHTML(content)
	words := strings.Fields(text)

	targets := splitKeywords(keywords)
	density := keywordDensity(words, targets)
	readability := readabilityScore(text, words)

	var advice []string
	if len(targets) == 0 {
		advice = append(advice, "no target keywords configured")
	} else if density < 0.5 {
		advice = append(advice, "target keywords barely appear: work them into headings and the opening paragraph")
	} else if density > 4.0 {
		advice = append(advice, "keyword density is high enough to read as stuffing: vary the phrasing")
	} else {
		advice = append(advice, "keyword usage looks balanced")
	}

	switch {
	case readability < 40:
		advice = append(advice, "sentences run long: split them and prefer shorter words")
	case readability > 80:
		advice = append(advice, "reads very easily: consider whether the depth matches the audience")
	}

	return Checklist{
		KeywordDensity:     density,
		ReadabilityScore:   readability,
		OptimizationAdvice: advice,
	}
}

func splitKeywords(keywords string) []string {
	var targets []string
	for _, k := range strings.Split(keywords, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			targets = append(targets, k)
		}
	}
	return targets
}

func keywordDensity(words []string, targets []string) float64 {
	if len(words) == 0 || len(targets) == 0 {
		return 0
	}

	matches := 0
	for _, w := range words {
		lw := strings.ToLower(strings.TrimFunc(w, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		}))
		for _, target := range targets {
			if lw == target || (strings.Contains(target, " ") && strings.Contains(lw, target)) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(words)) * 100
}

// readabilityScore approximates a Flesch reading-ease score from average
// sentence length and average syllables per word.
func readabilityScore(text string, words []string) float64 {
	if len(words) == 0 {
		return 0
	}

	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	score := 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// stripHTML drops tags so density and readability operate on prose. The
// pipeline controls the HTML vocabulary, so a scanner is sufficient here.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
