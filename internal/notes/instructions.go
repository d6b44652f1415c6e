package notes

import (
	_ "embed"
)

// Static instruction blocks prepended to every dynamic request before it is
// sent to the model. The wording is part of the service's clinical contract;
// change with care.

//go:embed prompts/system_instruction.txt
var systemInstruction string

//go:embed prompts/operational_instructions.txt
var operationalInstructions string

// thoughtsPreamble instructs the model to emit its analysis between the
// sentinel markers before the note itself. The splitter depends on the exact
// marker lines, so the preamble is built from the same constants.
const thoughtsPreamble = "IMPORTANT PREAMBLE: Before generating the medical note based on the user's request that follows, " +
	"first provide your analytical thoughts, reasoning, and implications of the given patient information and selected options. " +
	"This 'thoughts' section should explain your high-level interpretation and any critical considerations before you proceed to construct the note. " +
	"Delimit this entire 'thoughts' section clearly with the following markers:\n" +
	ThoughtsStartMarker + "\n" +
	"[Your analytical thoughts and implications here]\n" +
	ThoughtsEndMarker + "\n\n" +
	"After the '" + ThoughtsEndMarker + "' marker, then proceed to generate the complete medical note as requested by the main prompt below.\n\n"
