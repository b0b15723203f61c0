package subexport

import (
	"fmt"
	"strings"

	"astrasub/internal/cue"
	"astrasub/internal/services"
	"astrasub/internal/textutil"
	"astrasub/internal/timecode"
)

// Format re-exports the timecode format identifiers for caller convenience.
type Format = timecode.Format

const (
	FormatSRT  = timecode.FormatSRT
	FormatVTT  = timecode.FormatVTT
	FormatASS  = timecode.FormatASS
	FormatTTML = timecode.FormatTTML
)

// Export serializes a cue set in the requested format. The set must be
// well-formed; a malformed set is a fatal error for the current run.
func Export(set cue.Set, format Format) (string, error) {
	if err := cue.ValidateSet(set); err != nil {
		return "", err
	}
	switch format {
	case FormatSRT:
		return exportSRT(set), nil
	case FormatVTT:
		return exportVTT(set), nil
	case FormatASS:
		return exportASS(set), nil
	case FormatTTML:
		return exportTTML(set), nil
	default:
		return "", services.Wrap(services.ErrExport, "export", "serialize", fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// FileName composes the output file name for one language track:
// {base}_{language}.{ext}. The base comes from user-supplied media names,
// so it is sanitized for filesystem use.
func FileName(base, lang string, format Format) string {
	if strings.TrimSpace(lang) == "" {
		lang = cue.DefaultLanguage
	}
	return fmt.Sprintf("%s_%s.%s", textutil.SanitizeFileName(base), textutil.SanitizeToken(lang), string(format))
}

func exportSRT(set cue.Set) string {
	var sb strings.Builder
	for i, c := range set {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(timecode.Encode(c.StartMs, timecode.FormatSRT))
		sb.WriteString(" --> ")
		sb.WriteString(timecode.Encode(c.EndMs, timecode.FormatSRT))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(c.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func exportVTT(set cue.Set) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for _, c := range set {
		sb.WriteString(timecode.Encode(c.StartMs, timecode.FormatVTT))
		sb.WriteString(" --> ")
		sb.WriteString(timecode.Encode(c.EndMs, timecode.FormatVTT))
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(c.Text))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

const assHeader = `[Script Info]
Title: astrasub export
ScriptType: v4.00+
WrapStyle: 0
ScaledBorderAndShadow: yes

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,48,&H00FFFFFF,&H000000FF,&H00000000,&H64000000,0,0,0,0,100,100,0,0,1,2,1,2,30,30,30,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
`

func exportASS(set cue.Set) string {
	var sb strings.Builder
	sb.WriteString(assHeader)
	for _, c := range set {
		sb.WriteString("Dialogue: 0,")
		sb.WriteString(timecode.Encode(c.StartMs, timecode.FormatASS))
		sb.WriteString(",")
		sb.WriteString(timecode.Encode(c.EndMs, timecode.FormatASS))
		sb.WriteString(",Default,,0,0,0,,")
		sb.WriteString(escapeASSText(c.Text))
		sb.WriteString("\n")
	}
	return sb.String()
}

// escapeASSText keeps the dialogue line on a single row: literal newlines
// become ASS line breaks and brace override blocks are neutralized.
func escapeASSText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", `\N`)
	text = strings.ReplaceAll(text, "{", "(")
	text = strings.ReplaceAll(text, "}", ")")
	return text
}

func exportTTML(set cue.Set) string {
	lang := cue.DefaultLanguage
	if len(set) > 0 && strings.TrimSpace(set[0].Language) != "" {
		lang = set[0].Language
	}

	var sb strings.Builder
	sb.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n")
	sb.WriteString(fmt.Sprintf("<tt xmlns=\"http://www.w3.org/ns/ttml\" xml:lang=%q>\n", lang))
	sb.WriteString("  <head>\n")
	sb.WriteString("    <styling>\n")
	sb.WriteString("      <style xml:id=\"default\" tts:fontFamily=\"sansSerif\" tts:textAlign=\"center\" xmlns:tts=\"http://www.w3.org/ns/ttml#styling\"/>\n")
	sb.WriteString("    </styling>\n")
	sb.WriteString("  </head>\n")
	sb.WriteString("  <body>\n")
	sb.WriteString("    <div>\n")
	for _, c := range set {
		sb.WriteString(fmt.Sprintf("      <p begin=%q end=%q style=\"default\">%s</p>\n",
			timecode.Encode(c.StartMs, timecode.FormatTTML),
			timecode.Encode(c.EndMs, timecode.FormatTTML),
			escapeXMLText(c.Text)))
	}
	sb.WriteString("    </div>\n")
	sb.WriteString("  </body>\n")
	sb.WriteString("</tt>\n")
	return sb.String()
}

// escapeXMLText escapes characters that would break the TTML document.
func escapeXMLText(text string) string {
	text = strings.TrimSpace(text)
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(text)
}
