package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rosetta-md/rosetta-api/internal/logger"
)

const (
	// TemplateNameCustom is the sentinel template_name meaning the user pasted
	// their own template or example note into template_content.
	TemplateNameCustom = "custom_from_input"

	// templateErrorPrefix marks template_content that carries a load error
	// instead of an actual template.
	templateErrorPrefix = "(Error loading template"

	// ReformatMarker is the literal phrase the frontend embeds in patient_data
	// to signal a reformat-only request against an existing note. Matching on
	// free text is fragile (clinical text containing the phrase would misfire)
	// but is the established frontend contract.
	ReformatMarker = "(No new clinical information provided"

	closingSentinel = "--- END OF DYNAMIC REQUEST FROM FRONTEND ---"

	noOptionsLine = "- (Using default behaviors as per core instructions for non-specified options)"
)

// ErrNoInput is returned when a request carries neither patient input nor a
// reference to an existing note.
var ErrNoInput = errors.New("no patient data or file content provided for a new note")

// Request is the structured generation request received from the frontend.
type Request struct {
	PatientData          string          `json:"patient_data"`
	FileContent          string          `json:"file_content"`
	TemplateName         string          `json:"template_name"`
	TemplateContent      string          `json:"template_content"`
	Options              map[string]bool `json:"options"`
	ServiceAbbreviation  string          `json:"service_abbreviation"`
	ExistingNoteFilename string          `json:"existing_note_filename"`
}

// InputData returns the effective patient input: file_content wins over
// patient_data when both are present. Note the composed prompt's Patient
// Information block still quotes patient_data verbatim; only validation and
// mode decisions use this value.
func (r *Request) InputData() string {
	if r.FileContent != "" {
		return r.FileContent
	}
	return r.PatientData
}

// IsReformat reports whether this is a reformat-only request for an existing
// note. The signal is carried in patient_data, not in file_content.
func (r *Request) IsReformat() bool {
	return strings.Contains(r.PatientData, ReformatMarker)
}

// Compose builds the full dynamic request text sent to the model gateway.
// existingNote is the stored content of req.ExistingNoteFilename and is
// ignored when no existing note is referenced. Construction order is fixed;
// the model is sensitive to it.
func Compose(req *Request, existingNote string) (string, error) {
	if req.InputData() == "" && req.ExistingNoteFilename == "" {
		return "", ErrNoInput
	}
	if req.InputData() == "" && req.ExistingNoteFilename != "" && !req.IsReformat() {
		// An update with no new information and no reformat signal is odd but
		// allowed; the model simply receives empty new input.
		logger.Warn("Update request for existing note with empty new input and no reformat signal", logger.Fields{
			"existing_note": req.ExistingNoteFilename,
		})
	}

	dynamic := composeDynamicRequest(req)

	if req.ExistingNoteFilename == "" {
		return dynamic, nil
	}
	if req.IsReformat() {
		return strings.Join([]string{reformatEnvelope(existingNote), dynamic}, "\n\n"), nil
	}
	return strings.Join([]string{updateEnvelope(existingNote), dynamic}, "\n\n"), nil
}

func composeDynamicRequest(req *Request) string {
	parts := []string{
		fmt.Sprintf("Patient Information:\n---\n%s\n---", req.PatientData),
		templateInstruction(req),
	}
	parts = append(parts, optionInstructions(req.Options)...)

	return strings.Join(parts, "\n") + "\n\n" + closingSentinel
}

// templateInstruction emits exactly one of four template framings.
func templateInstruction(req *Request) string {
	switch {
	case req.TemplateName == TemplateNameCustom:
		return "User-Provided Custom Template/Example Note Guidance:\n" +
			"The following text is provided by the user. It might be a blank template OR an example of a previously filled note.\n" +
			"- If it appears to be a blank template (e.g., with placeholders like `***` or `@PLACEHOLDER@`), FILL IT using the new patient information.\n" +
			"- If it appears to be an example of a filled note, USE ITS OVERALL STRUCTURE, SECTION HEADINGS, AND FORMATTING STYLE AS A GUIDE when generating the new note for the provided patient information. Adapt the content to the new patient's details while preserving the demonstrated organizational style.\n" +
			"- Ensure all PII from any provided example is removed if generating a new note; only use the new patient's PII (which should also be ultimately redacted if requested by other options).\n" +
			"User-provided template/example content:\n" +
			"---\n" +
			req.TemplateContent + "\n" +
			"---"
	case strings.HasPrefix(req.TemplateContent, templateErrorPrefix):
		return fmt.Sprintf("Note on Predefined Template (%s):\n%s\n", req.TemplateName, req.TemplateContent) +
			"Proceed with generation based on patient data and selected options, without a specific template structure for this selection."
	case req.TemplateContent != "":
		return fmt.Sprintf("Predefined Template to Use (%s):\n", req.TemplateName) +
			"--- (Fill the following template with the patient information) ---\n" +
			req.TemplateContent + "\n" +
			"--- (End of predefined template) ---"
	default:
		return "No specific template provided or loaded. Generate note based on standard structure and selected options."
	}
}

// optionInstructions renders the User-Selected Options block. Recognized
// selected options appear in catalog order; the by-problem structural block
// follows the flat fragment list when active.
func optionInstructions(options map[string]bool) []string {
	lines := []string{"\nUser-Selected Options for this request:"}
	selected := false

	for _, opt := range Catalog {
		if options[opt.ID] {
			lines = append(lines, opt.Instruction)
			selected = true
		}
	}

	if options["formatByProblem"] {
		lines = append(lines, ByProblemBlock(options["genSHN"], options["genVSHN"])...)
	}

	if !selected {
		lines = append(lines, noOptionsLine)
	}
	return lines
}

func reformatEnvelope(existingNote string) string {
	return "You are REFORMATTING an existing medical note based on newly selected user options.\n" +
		"The 'EXISTING NOTE CONTENT' is provided below.\n" +
		"Your task is to re-write this entire existing content according to ALL instructions and 'User-Selected Options' (detailed in the 'Dynamic Request from Frontend' section that follows the existing content).\n" +
		"Pay close attention to formatting requests like SHN, VSHN, A&P By Problem, etc.\n\n" +
		fmt.Sprintf("EXISTING NOTE CONTENT:\n---\n%s\n---\n\n", existingNote) +
		"NOW, APPLY THE FOLLOWING DYNAMIC REQUEST (CONTAINING OPTIONS AND FORMATTING INSTRUCTIONS) TO THE ABOVE EXISTING CONTENT:"
}

func updateEnvelope(existingNote string) string {
	return "You are UPDATING an existing medical note. The 'EXISTING NOTE CONTENT' is provided below.\n" +
		"1. The 'Dynamic Request from Frontend' (which follows the existing content) contains NEW 'Patient Information'. Integrate this new information into the existing content, making necessary modifications and additions.\n" +
		"2. When integrating, especially in structured sections like 'Objective', ensure that proper formatting, including line breaks for distinct items (e.g., HEENT, Heart, Lungs), is maintained or re-established throughout the section.\n" +
		"3. After integration, apply all other instructions and 'User-Selected Options' from the 'Dynamic Request from Frontend' to the ENTIRE resulting note (e.g., SHN/VSHN conversion, A&P by Problem, etc.).\n\n" +
		fmt.Sprintf("EXISTING NOTE CONTENT:\n---\n%s\n---\n\n", existingNote) +
		"NOW, PROCESS THE FOLLOWING DYNAMIC REQUEST (CONTAINING NEW PATIENT INFO AND OPTIONS) AND APPLY IT TO THE ABOVE EXISTING CONTENT:"
}
