package scoring

import (
	"unicode/utf8"

	"astrasub/internal/cue"
)

// Options configures the scorer. Zero values fall back to the defaults below.
type Options struct {
	// MsPerWord is the estimated reading time per word. The default of 300ms
	// corresponds to roughly 200 words per minute.
	MsPerWord int64
	// MinComfortableChars and MaxComfortableChars bound the character count
	// band considered comfortable to read on screen.
	MinComfortableChars int
	MaxComfortableChars int
}

const (
	DefaultMsPerWord           = 300
	DefaultMinComfortableChars = 8
	DefaultMaxComfortableChars = 84
)

func (o Options) withDefaults() Options {
	if o.MsPerWord <= 0 {
		o.MsPerWord = DefaultMsPerWord
	}
	if o.MinComfortableChars <= 0 {
		o.MinComfortableChars = DefaultMinComfortableChars
	}
	if o.MaxComfortableChars <= 0 {
		o.MaxComfortableChars = DefaultMaxComfortableChars
	}
	return o
}

// Readability scores how comfortably a cue can be read in its display time:
// 1.0 means the cue is on screen at least as long as a viewer needs.
func Readability(c cue.Cue, msPerWord int64) float32 {
	if msPerWord <= 0 {
		msPerWord = DefaultMsPerWord
	}
	words := c.WordCount()
	if words == 0 {
		return 0
	}
	required := int64(words) * msPerWord
	score := float64(c.DurationMs()) / float64(required)
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return float32(score)
}

// Quality blends confidence, readability, and length fitness with equal
// weight.
func Quality(c cue.Cue, readability float32, opts Options) float32 {
	opts = opts.withDefaults()
	return (c.Confidence + readability + lengthFitness(c.Text, opts)) / 3
}

func lengthFitness(text string, opts Options) float32 {
	length := utf8.RuneCountInString(text)
	if length >= opts.MinComfortableChars && length <= opts.MaxComfortableChars {
		return 1.0
	}
	return 0.5
}

// Apply returns a scored clone of the set; the input is never mutated.
func Apply(set cue.Set, opts Options) cue.Set {
	opts = opts.withDefaults()
	scored := set.Clone()
	for i := range scored {
		readability := Readability(scored[i], opts.MsPerWord)
		scored[i].ReadabilityScore = readability
		scored[i].QualityScore = Quality(scored[i], readability, opts)
	}
	return scored
}

// Report carries aggregate quality metrics for one cue set.
type Report struct {
	CueCount         int     `json:"cue_count"`
	TotalWords       int     `json:"total_words"`
	MeanReadability  float32 `json:"mean_readability"`
	MeanQuality      float32 `json:"mean_quality"`
	MeanConfidence   float32 `json:"mean_confidence"`
	AvgCueDurationMs int64   `json:"avg_cue_duration_ms"`
	GapVarianceMsSq  float64 `json:"gap_variance_ms_sq"`
}

// Aggregate computes set-level metrics from an already-scored set. An empty
// set yields a zero-valued report rather than failing on division by zero.
func Aggregate(set cue.Set) Report {
	report := Report{CueCount: len(set)}
	if len(set) == 0 {
		return report
	}

	var readability, quality, confidence float64
	var totalDuration int64
	for _, c := range set {
		readability += float64(c.ReadabilityScore)
		quality += float64(c.QualityScore)
		confidence += float64(c.Confidence)
		totalDuration += c.DurationMs()
		report.TotalWords += c.WordCount()
	}
	n := float64(len(set))
	report.MeanReadability = float32(readability / n)
	report.MeanQuality = float32(quality / n)
	report.MeanConfidence = float32(confidence / n)
	report.AvgCueDurationMs = totalDuration / int64(len(set))
	report.GapVarianceMsSq = gapVariance(set)
	return report
}

// gapVariance measures timing consistency as the variance of inter-cue gaps.
func gapVariance(set cue.Set) float64 {
	if len(set) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(set)-1)
	for i := 1; i < len(set); i++ {
		gaps = append(gaps, float64(set[i].StartMs-set[i-1].EndMs))
	}
	mean := 0.0
	for _, g := range gaps {
		mean += g
	}
	mean /= float64(len(gaps))
	variance := 0.0
	for _, g := range gaps {
		d := g - mean
		variance += d * d
	}
	return variance / float64(len(gaps))
}
