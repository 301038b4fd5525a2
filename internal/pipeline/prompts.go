package pipeline

import (
	"fmt"
	"strings"

	"github.com/ppiankov/syllogix/internal/llm"
)

// AnalysisPrompt asks for the structure of the user's question
func AnalysisPrompt(query string) string {
	return fmt.Sprintf(`Analyze the following question before any reasoning happens.
Identify its main topic, the kind of reasoning it calls for, the key terms a
categorical syllogism would need, and any implicit assumptions.

Question: %s`, query)
}

// EvidencePrompt asks for short, premise-shaped facts
func EvidencePrompt(query string, analysis *llm.QueryAnalysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Gather the facts needed to answer: %s\n\n", query)
	fmt.Fprintf(&b, "Main topic: %s\n", analysis.MainTopic)
	if len(analysis.KeyTerms) > 0 {
		fmt.Fprintf(&b, "Key terms: %s\n", strings.Join(analysis.KeyTerms, ", "))
	}
	if len(analysis.Assumptions) > 0 {
		fmt.Fprintf(&b, "Assumptions: %s\n", strings.Join(analysis.Assumptions, "; "))
	}
	b.WriteString(`
Each fact must be one plain sentence that could serve as a premise, such as
"All men are mortal" or "Socrates is a man". Rate relevance from 0 to 1 and
confidence as high, medium, low or uncertain.`)
	return b.String()
}

// PropositionPrompt asks for categorical propositions and the premise choice
func PropositionPrompt(query string, evidence *llm.EvidenceCollection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nEvidence:\n", query)
	for _, item := range evidence.EvidenceItems {
		fmt.Fprintf(&b, "- %s\n", item.Fact)
	}
	b.WriteString(`
Rewrite the evidence as one to four categorical propositions.
Quantifier is one of All, No, Some, Some...not or Statistical.
Use plural class names for terms and reuse the exact same wording for a term
that appears in more than one proposition, so the middle term links the premises.
A singular subject becomes a class of one: "Socrates is a man" is
{"quantifier": "All", "subject": "Socrates", "predicate": "men"}.
Copy the evidence sentence each proposition came from into source_evidence.
Pick the major premise (contains the predicate of the answer) and the minor
premise (contains its subject) by index.`)
	return b.String()
}
