package generator

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyOutput is returned when the model produced nothing usable.
var ErrEmptyOutput = errors.New("model returned empty text")

var (
	headingRe = regexp.MustCompile(`(?m)^#{1,6}\s+.*$`)
	labelRe   = regexp.MustCompile(`(?i)^(review|corrected text)\s*:\s*`)
)

// PostProcess cleans model output into plain review text: headings and
// leading labels are dropped, wrapping quotes removed and whitespace collapsed.
// When targetWords is set the text is cut at a sentence boundary near 1.5x the
// target.
func PostProcess(raw string, targetWords int) (string, error) {
	text := headingRe.ReplaceAllString(raw, "")
	text = strings.TrimSpace(text)
	text = labelRe.ReplaceAllString(text, "")
	text = strings.Trim(text, "\"“”' \n")
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", ErrEmptyOutput
	}
	if targetWords > 0 {
		text = limitWords(text, targetWords+targetWords/2)
	}
	return text, nil
}

// limitWords keeps at most max words, backing up to the last sentence end when
// one exists in the kept part.
func limitWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	cut := strings.Join(words[:max], " ")
	if i := strings.LastIndexAny(cut, ".!?"); i > len(cut)/2 {
		return cut[:i+1]
	}
	return cut
}
