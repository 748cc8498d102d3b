package service

import "strings"

// promptSections is the fixed report outline the model is instructed to
// follow. The report package's extractor is built around these ten headings,
// but tolerates the variations the model introduces in practice.
const promptSections = `Your analysis should be well-structured in markdown format with the following sections:

# Contract Analysis

## 1. Executive Summary
Provide a concise summary of the contract including type, parties, purpose, and key terms.

## 2. Key Clauses
List and analyze the most important clauses in bullet points. Include:
- What the clause covers
- Any notable provisions, limitations, or exceptions
- For each key clause, include 2-3 sub-bullet points with analysis

## 3. Parties Involved
List all parties to the contract with relevant details about each.

## 4. Obligations
Detail the main obligations of each party in the contract.

## 5. Rights and Benefits
Outline the rights and benefits granted to each party.

## 6. Payment Terms
Describe all payment terms including amounts, schedules, and conditions.

## 7. Termination Conditions
Explain how the contract can be terminated and any consequences of termination.

## 8. Risks & Red Flags
Identify potential issues or concerns in bullet points that might:
- Create legal liability
- Benefit one party significantly more than others
- Contain vague or ambiguous language
- Have missing elements that are typically included

## 9. Important Dates & Durations
List key dates, deadlines, and time periods in the contract.

## 10. Suggestions
Provide recommendations to improve the contract or address the identified risks.
`

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// textAnalysisPrompt builds the prompt for a plain-text contract
func textAnalysisPrompt(text string) string {
	var b strings.Builder
	b.WriteString("You are a legal document analyzer. Analyze the following contract and provide a detailed report.\n")
	b.WriteString(promptSections)
	b.WriteString("\nHere is the contract to analyze:\n\n")
	b.WriteString(text)
	return b.String()
}

// binaryAnalysisPrompt builds the prompt that accompanies an inline binary
// payload (PDF or image). DOCX payloads are forwarded with a PDF MIME type
// for model compatibility, so the prompt calls that out.
func binaryAnalysisPrompt(mimeType string) string {
	var b strings.Builder
	b.WriteString("You are a legal document analyzer. Analyze the following contract image or PDF and provide a detailed report.\n")
	if mimeType == docxMimeType {
		b.WriteString("NOTE: This is a DOCX file being sent with a PDF MIME type for compatibility. Please analyze the content as a DOCX file.\n")
	}
	b.WriteString(promptSections)
	b.WriteString("\nIf there are parts of the document that you cannot read or interpret, please note this clearly in your analysis.\n")
	return b.String()
}
