package code_translator

import (
	"regexp"
	"strings"
)

var (
	// the info string runs up to the first whitespace, so "golang" or "python3" is dropped whole
	fencedBlockRE      = regexp.MustCompile("```[\\w+#.-]*\\s*([\\s\\S]*?)```")
	translatedMarkerRE = regexp.MustCompile(`(?i)TRANSLATED CODE.*?:([\s\S]*?)(?:\n\n|$)`)
)

// ExtractCode pulls the translated code out of a model response.
// The first fenced block wins; otherwise the text following a "TRANSLATED CODE:" marker up to the
// next blank line; otherwise the whole response. It never fails.
func ExtractCode(response, targetLanguage string) string {
	if m := fencedBlockRE.FindStringSubmatch(response); m != nil {
		return strings.TrimSpace(m[1])
	}

	if m := translatedMarkerRE.FindStringSubmatch(response); m != nil {
		if marked := strings.TrimSpace(m[1]); marked != "" {
			return marked
		}
	}

	return strings.TrimSpace(response)
}
