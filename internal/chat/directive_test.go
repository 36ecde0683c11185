package chat

import "testing"

func TestParseImageDirective(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		wantPrompt string
		wantOK     bool
	}{
		{
			name:       "simple directive",
			reply:      "[generate_ui_image: a red button]",
			wantPrompt: "a red button",
			wantOK:     true,
		},
		{
			name:       "whitespace after colon",
			reply:      "[generate_ui_image:    dark dashboard with charts]",
			wantPrompt: "dark dashboard with charts",
			wantOK:     true,
		},
		{
			name:   "ordinary reply",
			reply:  "Let's talk about your idea.",
			wantOK: false,
		},
		{
			name:   "mentions the command without brackets",
			reply:  "I could generate_ui_image for you",
			wantOK: false,
		},
		{
			name:       "empty prompt",
			reply:      "[generate_ui_image: ]",
			wantPrompt: "",
			wantOK:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, ok := ParseImageDirective(tt.reply)
			if ok != tt.wantOK {
				t.Fatalf("ParseImageDirective(%q) ok = %v, want %v", tt.reply, ok, tt.wantOK)
			}
			if prompt != tt.wantPrompt {
				t.Fatalf("ParseImageDirective(%q) prompt = %q, want %q", tt.reply, prompt, tt.wantPrompt)
			}
		})
	}
}
