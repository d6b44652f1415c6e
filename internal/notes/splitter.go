package notes

import "strings"

const (
	// ThoughtsStartMarker and ThoughtsEndMarker delimit the model's analysis
	// section in raw output. The gateway asks for them; the splitter parses
	// them. Frontends display the thoughts but they are never persisted.
	ThoughtsStartMarker = "===ROSETTA_MODEL_THOUGHTS_START==="
	ThoughtsEndMarker   = "===ROSETTA_MODEL_THOUGHTS_END==="

	// MissingThoughtsPlaceholder is returned as the thoughts segment when the
	// model did not emit the markers (or emitted them out of order).
	MissingThoughtsPlaceholder = "(No separate thoughts section provided by the model or delimiters not found.)"
)

// Split separates raw model output into a thoughts segment and a note
// segment. When both markers are present and correctly ordered, thoughts is
// the text strictly between them and the note is everything strictly after
// the end marker. Otherwise the entire output is treated as the note.
func Split(raw string) (thoughts, note string) {
	start := strings.Index(raw, ThoughtsStartMarker)
	end := strings.Index(raw, ThoughtsEndMarker)

	if start == -1 || end == -1 || start >= end {
		return MissingThoughtsPlaceholder, strings.TrimSpace(raw)
	}

	thoughts = strings.TrimSpace(raw[start+len(ThoughtsStartMarker) : end])
	note = strings.TrimSpace(raw[end+len(ThoughtsEndMarker):])
	return thoughts, note
}

// SanitizeNote strips markdown emphasis markers from the note text. Only the
// note is sanitized; thoughts keep their original formatting.
func SanitizeNote(note string) string {
	return strings.TrimSpace(strings.ReplaceAll(note, "**", ""))
}
