package language

import (
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/fr"
)

// French enriches with tokenization, stopword removal, and dictionary
// lemmatization.
type French struct {
	lemmatizer *golem.Lemmatizer
	stops      map[string]struct{}
}

// NewFrench loads the French lemma dictionary.
func NewFrench() (*French, error) {
	lemmatizer, err := golem.New(fr.New())
	if err != nil {
		return nil, fmt.Errorf("load french lemma dictionary: %w", err)
	}
	return &French{
		lemmatizer: lemmatizer,
		stops:      stopSet(frenchStopwords),
	}, nil
}

func (c *French) Code() string { return "fr" }

func (c *French) Tokenize(text string) []string {
	return tokenize(text)
}

func (c *French) RemoveStopwords(tokens []string) []string {
	return filterStopwords(tokens, c.stops)
}

func (c *French) Lemmatize(tokens []string) []string {
	return lemmatizeAll(c.lemmatizer, tokens)
}
