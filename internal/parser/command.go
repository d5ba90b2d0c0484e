package parser

// Command is the immutable result of interpreting one message. It is
// built once per message and carries everything a handler needs: the
// classified intent, its extracted entities, the detected language, and
// the untouched raw text.
type Command struct {
	Intent   Intent
	Entities Entities
	Lang     Language
	Raw      string
}

// Parse runs the full interpretation pipeline on a single message:
// language detection, intent classification, and entity extraction.
func Parse(text string) Command {
	lang := DetectLanguage(text)
	intent, entities := Classify(text, lang)
	return Command{
		Intent:   intent,
		Entities: entities,
		Lang:     lang,
		Raw:      text,
	}
}
