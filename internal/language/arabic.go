package language

// Arabic enriches with tokenization and stopword removal. No lemma
// dictionary ships for Arabic, so the lemmatization stage yields nothing and
// documents keep their filtered tokens only.
type Arabic struct {
	stops map[string]struct{}
}

// NewArabic builds the Arabic capability.
func NewArabic() *Arabic {
	return &Arabic{stops: stopSet(arabicStopwords)}
}

func (c *Arabic) Code() string { return "ar" }

func (c *Arabic) Tokenize(text string) []string {
	return tokenize(text)
}

func (c *Arabic) RemoveStopwords(tokens []string) []string {
	return filterStopwords(tokens, c.stops)
}

func (c *Arabic) Lemmatize([]string) []string {
	return nil
}
