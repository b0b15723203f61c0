package translate

import "context"

// Translator maps a batch of texts to a target language. The returned slice
// is index-aligned with the input and always the same length.
type Translator interface {
	TranslateBatch(ctx context.Context, texts []string, targetLang, sourceLang string) ([]string, error)
}
