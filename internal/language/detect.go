package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const (
	// minDetectRunes guards against classifying fragments too short to
	// carry a language signal.
	minDetectRunes = 10
	// maxDetectRunes caps how much text the detector looks at; the opening
	// of a document is enough to classify it.
	maxDetectRunes = 500
)

// Detector performs best-effort language detection on cleaned text.
type Detector struct{}

// NewDetector builds a detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect returns an ISO 639-1 code and a confidence in [0,1]. Detection
// never fails: undetectable or too-short input yields the Unknown code.
func (d *Detector) Detect(text string) (string, float64) {
	trimmed := strings.TrimSpace(text)
	runes := []rune(trimmed)
	if len(runes) < minDetectRunes {
		return Unknown, 0
	}
	if len(runes) > maxDetectRunes {
		trimmed = string(runes[:maxDetectRunes])
	}

	info := whatlanggo.Detect(trimmed)
	code := info.Lang.Iso6391()
	if code == "" {
		return Unknown, 0
	}

	return code, info.Confidence
}
