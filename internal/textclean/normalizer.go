package textclean

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	urlExpr     = regexp.MustCompile(`https?://\S+`)
	emailExpr   = regexp.MustCompile(`\S+@\S+`)
	mentionExpr = regexp.MustCompile(`@\w+`)
	hashtagExpr = regexp.MustCompile(`#(\w+)`)
	tagExpr     = regexp.MustCompile(`<[^>]+>`)
	symbolExpr  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	spaceExpr   = regexp.MustCompile(`\s+`)
)

// Normalizer cleans raw document text into plain, whitespace-normalized
// words. Cleaning is deterministic: the same input always yields the same
// output.
type Normalizer struct {
	keepHashtagText bool
}

// New builds a normalizer. keepHashtagText keeps the word of a #hashtag
// (dropping only the marker); when false the whole tag is removed.
func New(keepHashtagText bool) *Normalizer {
	return &Normalizer{keepHashtagText: keepHashtagText}
}

// Clean runs the cleaning pipeline. Stage order is significant: HTML markup
// first (URLs often live inside attributes), then URLs, emails, mentions and
// hashtags, then remaining punctuation and symbols, then whitespace.
// Empty or whitespace-only input yields "".
func (n *Normalizer) Clean(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	text = stripMarkup(text)
	text = urlExpr.ReplaceAllString(text, " ")
	text = emailExpr.ReplaceAllString(text, " ")
	text = mentionExpr.ReplaceAllString(text, " ")
	if n.keepHashtagText {
		text = hashtagExpr.ReplaceAllString(text, " $1 ")
	} else {
		text = hashtagExpr.ReplaceAllString(text, " ")
	}
	text = symbolExpr.ReplaceAllString(text, " ")
	text = spaceExpr.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// stripMarkup extracts text content from HTML fragments. Tags are padded
// with a space first so adjacent elements do not glue their words together;
// the trailing whitespace pass collapses the extra spacing.
func stripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	padded := strings.ReplaceAll(text, "<", " <")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(padded))
	if err != nil {
		// Parser failure is rare; fall back to dropping tag-shaped runs.
		return tagExpr.ReplaceAllString(text, " ")
	}

	return doc.Text()
}
