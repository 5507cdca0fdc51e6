package synthesis

// Source names where the final answer text came from.
type Source string

const (
	SourceGrounded     Source = "grounded_synthesis"
	SourceErrorNarrate Source = "error_narration"
	SourceTemplate     Source = "template_fallback"
	SourceNoResults    Source = "no_results_synthesis"
	SourceGeneral      Source = "general_knowledge"
	SourceApology      Source = "default_apology"
)

// Apology is the last-resort answer when every generation path failed.
const Apology = "My apologies, I couldn't generate a suitable response."

// Output is one synthesized answer. Text is never empty. Err holds the
// generation failure that forced a template or the apology.
type Output struct {
	Text   string
	Source Source
	Err    error
}

// OK reports whether the text came from the LLM.
func (o Output) OK() bool {
	return o.Err == nil
}
