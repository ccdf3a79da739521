package editor

import (
	"regexp"
	"strings"
)

// DefaultTitle is the placeholder shown for notes whose content yields no
// usable title.
const DefaultTitle = "无标题笔记"

// maxTitleLength is the title truncation limit in runes, so multi-byte
// glyphs are never split.
const maxTitleLength = 30

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`\s+`)

	// sentence terminators, both ASCII and CJK punctuation
	sentenceEndPattern       = regexp.MustCompile(`[.!?。！？，\n]`)
	trailingSentencePattern  = regexp.MustCompile(`[.!?。！？\n]$`)
	trailingTruncatedPattern = regexp.MustCompile(`[,，.。!！?？]$`)
)

// StripTags removes markup elements from content, replacing each with a
// single space, and collapses the remaining whitespace.
func StripTags(content string) string {
	text := tagPattern.ReplaceAllString(content, " ")
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

// DeriveTitle produces a note title from rich content when the user left the
// title empty. The derivation strips markup, takes the first sentence, drops
// its terminating punctuation, truncates to 30 runes (removing a stray
// punctuation character left at the cut) and appends an ellipsis when the
// result is shorter than the full sentence. Content with no extractable text
// yields [DefaultTitle].
func DeriveTitle(content string) string {
	text := StripTags(content)
	if text == "" {
		return DefaultTitle
	}

	firstSentence := text
	if loc := sentenceEndPattern.FindStringIndex(text); loc != nil {
		firstSentence = strings.TrimSpace(text[:loc[1]])
	}
	firstSentence = trailingSentencePattern.ReplaceAllString(firstSentence, "")

	runes := []rune(firstSentence)
	title := firstSentence
	if len(runes) > maxTitleLength {
		title = string(runes[:maxTitleLength])
	}
	title = trailingTruncatedPattern.ReplaceAllString(title, "")

	if title == "" {
		return DefaultTitle
	}

	if len([]rune(title)) < len(runes) {
		return title + "..."
	}

	return title
}
