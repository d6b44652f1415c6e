package prompt

// Option pairs a frontend checkbox identifier with the instruction fragment
// emitted into the composed prompt when the checkbox is selected.
type Option struct {
	ID          string
	Instruction string
}

// Catalog is the full set of recognized options, in emission order.
// Go maps do not preserve insertion order, so the catalog itself fixes the
// order fragments appear in the prompt; the frontend's option map is only
// consulted for which entries are selected. New options are added here as
// data without touching the composer.
var Catalog = []Option{
	{"genSHN", "- Output Format: Generate SHN (Short-hand Notation). Rephrase full note using standard clinical abbreviations while maintaining clarity."},
	{"genVSHN", "- Output Format: Generate VSHN (Very Short-hand Notation). Distill into ultra-concise, rapid-style shorthand. Omit non-critical detail. Use standard medical abbreviations where appropriate. Avoid uncommon abbreviations or excessive capitalization. DO NOT use underscores (_) to connect words; instead, use terse phrasing or standard abbreviations."},
	{"formatByProblem", "- A&P Structure: Format the Assessment & Plan section 'By Problem'. (Detailed instructions for 'By Problem' A&P will be appended if this is selected)."},
	{"incPathophys", "- Reasoning Detail: Include full pathophysiologic reasoning in the Assessment & Plan."},
	{"incGuidelines", "- Reasoning Detail: Include guideline recommendations if relevant."},
	{"formatSOAP", "- Documentation Type: Use SOAP format (if no overriding template is provided)."},
	{"formatHnP", "- Documentation Type: Use Full H&P format (if no overriding template is provided)."},
	{"formatDischarge", "- Documentation Type: Use Discharge summary format (if no overriding template is provided)."},
	{"formatPreOp", "- Documentation Type: Use Pre-op note format (if no overriding template is provided)."},
	{"specAnesthesia", "- Context: Anesthesia. Tailor questions, assessment, and plan accordingly."},
	{"specDerm", "- Context: Dermatology. Tailor questions, assessment, and plan accordingly."},
	{"specFM", "- Context: Family Medicine. Tailor questions, assessment, and plan accordingly."},
	{"specIM", "- Context: Internal Medicine. Tailor questions, assessment, and plan accordingly."},
	{"specNeuro", "- Context: Neurology. Tailor questions, assessment, and plan accordingly."},
	{"specOBGYN", "- Context: OBGYN. Tailor questions, assessment, and plan accordingly."},
	{"specPeds", "- Context: Pediatrics. Tailor questions, assessment, and plan accordingly."},
	{"specPsych", "- Context: Psychiatry. Tailor questions, assessment, and plan accordingly."},
	{"specSurgeryGen", "- Context: Surgery (General). Tailor questions, assessment, and plan accordingly."},
	{"incMissingData", "- Output Feature: Include a checklist of missing objective data that would be relevant."},
	{"genHistoryQuestions", "- Output Feature: Generate comprehensive history questions relevant to the patient's presentation. These should cover aspects of HPI (History of Present Illness), ROS (Review of Systems), PMH (Past Medical History), SHx (Social History), FHx (Family History), Medications, and Allergies as appropriate. Questions should be integrated into their respective sections within the note; if these sections do not exist, create them. Phrase questions naturally for a patient interview."},
	{"genPEManeuvers", "- Assistance Request: Suggest relevant physical exam maneuvers based on the provided patient information, including potential findings and reasoning."},
	{"genROSTemplate", "- Output Feature: Generate a Review of Systems (ROS) question template. These questions should be relevant to the patient's presentation (from input or existing note) and should be formatted to appear after the Subjective section of the main note."},
	{"genChartReview", "- Output Feature: Generate a 'Chart Review Checklist'. This checklist MUST be placed at the VERY BEGINNING of the entire note, before any other content (including Impression). The style should be concise, like a hurried checklist, but each item must be accurate, thoughtful, and include a brief explanation for why that piece of information is needed from the chart. This checklist takes precedence in placement over the standard note structure."},
	{"confirmDeidentified", "- Redaction: Confirm data is de-identified (this is a primary instruction; ensure PII is removed)."},
	{"removeDates", "- Redaction: Remove specific dates and convert to relative time where appropriate (e.g., 'yesterday', 'last week')."},
	{"stripNonStandardAbbr", "- Output Feature: Include all abbreviations from the input, including non-standard ones."},
}

var catalogIndex = func() map[string]string {
	m := make(map[string]string, len(Catalog))
	for _, opt := range Catalog {
		m[opt.ID] = opt.Instruction
	}
	return m
}()

// InstructionFor returns the instruction fragment for an option identifier.
// Unknown identifiers report false and are ignored by the composer.
func InstructionFor(id string) (string, bool) {
	instruction, ok := catalogIndex[id]
	return instruction, ok
}

// ByProblemBlock returns the secondary structural instruction block appended
// when the formatByProblem option is selected. When a shorthand notation
// option is also active, a refinement note follows the block; VSHN wins over
// SHN when both are set.
func ByProblemBlock(shn, vshn bool) []string {
	lines := []string{
		"\nDetailed Instructions for 'Assessment & Plan By Problem' (if A&P By Problem option is selected):",
		"Structure the Assessment and Plan (A&P) section 'By Problem'. For EACH problem identified, strictly follow this format:\n",
		"#Problem Name (e.g., #Hypertension)",
		"Assessment: [Concisely define the problem based on available lab/history/physical exam/presentation details. Include likely or possible etiologies for this patient. Describe the patient's current state or status regarding this problem.]",
		"Plan:",
		"- [Specific action/recommendation 1 for this problem]",
		"- [Specific action/recommendation 2 for this problem]",
		"  - [Sub-point or further detail for action 2, if any, indented]",
		"- [Continue with more hyphenated plan items as needed for THIS problem, grouped logically as an attending physician would.]\n",
		"General Rules for 'By Problem' A&P:",
		"- Each problem MUST start with a '#' followed by the problem name.",
		"- The 'Assessment:' part for each problem should be a comprehensive but concise paragraph.",
		"- The 'Plan:' part for each problem MUST use hyphenated lists for actionable items.",
		"- Ensure clinical reasoning is evident in the grouping and content of plan items.",
	}
	if vshn {
		lines = append(lines, "\nIMPORTANT FOR VSHN + By Problem: After structuring the A&P 'By Problem', apply VSHN principles (ultra-concise, rapid-style shorthand) to the ENTIRE note, including the content within each problem's Assessment and Plan. Strive for maximum brevity while retaining the problem-oriented structure.")
	} else if shn {
		lines = append(lines, "\nIMPORTANT FOR SHN + By Problem: After structuring the A&P 'By Problem', apply SHN principles (standard clinical abbreviations) to the ENTIRE note, including the content within each problem's Assessment and Plan, while maintaining clarity.")
	}
	return lines
}
