package ports

// LanguageDetector guesses the ISO 639-1 language code of a text snippet.
// Detection failure returns ok=false; callers fall back to a default.
type LanguageDetector interface {
	Detect(text string) (code string, ok bool)
}

// DurationProber extracts the duration in seconds from an MP4 payload.
type DurationProber interface {
	DurationSeconds(data []byte) (int, error)
}
