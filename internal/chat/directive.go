package chat

import "regexp"

// The model can instruct the app to synthesize a UI mockup instead of
// replying with text. The wire grammar is:
//
//	[generate_ui_image: <prompt>]
//
// The directive is expected to be the entire reply with no other content.
// This is a contract with the system instruction; changing either side breaks
// the other.
var imageDirectiveRe = regexp.MustCompile(`\[generate_ui_image:\s*(.*)\]`)

// ParseImageDirective extracts the synthesis prompt from a model reply.
// Returns false when the reply is an ordinary message.
func ParseImageDirective(reply string) (prompt string, ok bool) {
	m := imageDirectiveRe.FindStringSubmatch(reply)
	if m == nil {
		return "", false
	}
	return m[1], true
}
