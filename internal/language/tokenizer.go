package language

import (
	"strings"
	"unicode"
)

// tokenize splits cleaned text into lowercase word tokens. Only tokens made
// entirely of letters are kept; numbers and leftovers carry no value for the
// downstream lexical analysis.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		word := current.String()
		current.Reset()
		if len([]rune(word)) < 2 || !lettersOnly(word) {
			return
		}
		tokens = append(tokens, word)
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			current.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()

	return tokens
}

func lettersOnly(word string) bool {
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// filterStopwords keeps the tokens absent from the stop set, preserving
// order.
func filterStopwords(tokens []string, stops map[string]struct{}) []string {
	if len(tokens) == 0 {
		return nil
	}
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := stops[token]; ok {
			continue
		}
		kept = append(kept, token)
	}
	return kept
}

func stopSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
