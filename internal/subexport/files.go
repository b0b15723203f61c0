package subexport

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"astrasub/internal/cue"
	"astrasub/internal/services"
)

// FileResult records the outcome of writing one format/language pair.
// A skipped pair carries the reason; a single bad pair never aborts the rest.
type FileResult struct {
	Language string
	Format   Format
	Path     string
	Skipped  bool
	Reason   string
}

// WriteFiles serializes every language track in sets to every requested
// format under outputDir, using the {base}_{language}.{ext} naming
// convention. Failures are isolated per pair and reported in the results.
func WriteFiles(outputDir, base string, sets map[string]cue.Set, formats []Format) ([]FileResult, error) {
	if strings.TrimSpace(base) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "export", "write files", "base name is required", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrExport, "export", "write files", "create output directory", err)
	}

	results := make([]FileResult, 0, len(sets)*len(formats))
	for _, lang := range sortedLanguages(sets) {
		set := sets[lang]
		for _, format := range formats {
			result := FileResult{Language: lang, Format: format}
			content, err := Export(set, format)
			if err != nil {
				result.Skipped = true
				result.Reason = err.Error()
				results = append(results, result)
				continue
			}
			path := filepath.Join(outputDir, FileName(base, lang, format))
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				result.Skipped = true
				result.Reason = fmt.Sprintf("write %s: %v", path, err)
				results = append(results, result)
				continue
			}
			result.Path = path
			results = append(results, result)
		}
	}
	return results, nil
}

func sortedLanguages(sets map[string]cue.Set) []string {
	langs := make([]string, 0, len(sets))
	for lang := range sets {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
