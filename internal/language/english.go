package language

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// English enriches with tokenization, stopword removal, and dictionary
// lemmatization.
type English struct {
	lemmatizer *golem.Lemmatizer
	stops      map[string]struct{}
}

// NewEnglish loads the English lemma dictionary.
func NewEnglish() (*English, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("load english lemma dictionary: %w", err)
	}
	return &English{
		lemmatizer: lemmatizer,
		stops:      stopSet(englishStopwords),
	}, nil
}

func (c *English) Code() string { return "en" }

func (c *English) Tokenize(text string) []string {
	return tokenize(text)
}

func (c *English) RemoveStopwords(tokens []string) []string {
	return filterStopwords(tokens, c.stops)
}

func (c *English) Lemmatize(tokens []string) []string {
	return lemmatizeAll(c.lemmatizer, tokens)
}

func lemmatizeAll(lemmatizer *golem.Lemmatizer, tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	lemmas := make([]string, 0, len(tokens))
	for _, token := range tokens {
		lemmas = append(lemmas, lemmatizer.Lemma(token))
	}
	return lemmas
}
