package indexer

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Tokens outside this length range carry little signal and are dropped.
const (
	minTokenLen = 3
	maxTokenLen = 32
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// stripTags flattens markup to its text content, separating the text of
// adjacent elements with spaces. Script and style bodies survive like
// visible text; the length filter discards most of that noise.
func stripTags(doc string) string {
	z := html.NewTokenizer(strings.NewReader(doc))
	var sb strings.Builder
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			sb.WriteString(z.Token().Data)
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}

// Tokenize reduces a raw HTML page to the lowercase words worth indexing
// and their occurrence counts: markup stripped, punctuation replaced by
// spaces, tokens kept only when their length is within bounds.
func Tokenize(doc string) map[string]int {
	text := nonWord.ReplaceAllString(stripTags(doc), " ")
	text = strings.ToLower(text)
	counts := make(map[string]int)
	for _, tok := range strings.Fields(text) {
		if len(tok) < minTokenLen || len(tok) > maxTokenLen {
			continue
		}
		counts[tok]++
	}
	return counts
}

// sortedTokens returns the keys of counts in lexical order so storage
// writes happen in a reproducible sequence.
func sortedTokens(counts map[string]int) []string {
	toks := make([]string, 0, len(counts))
	for t := range counts {
		toks = append(toks, t)
	}
	sort.Strings(toks)
	return toks
}
