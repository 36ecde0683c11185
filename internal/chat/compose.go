package chat

import (
	"fmt"
	"strings"
)

// composeTurn builds the outgoing user message from free text, the staged
// attachments, and the active help area. The content carries the help-area
// tag prefix; downstream matching (plan detection) runs against this full
// tagged text. Returns false when there is nothing to send: empty text, no
// images and no URL.
//
// On success the tray has been cleared, regardless of what later happens to
// the send.
func composeTurn(input string, tray *Tray, area HelpArea) (Message, bool) {
	if strings.TrimSpace(input) == "" && tray.Empty() {
		return Message{}, false
	}
	images, url := tray.Take()
	return Message{
		Role:    RoleUser,
		Content: fmt.Sprintf(helpAreaTagFormat, area) + input,
		Images:  images,
		URL:     url,
	}, true
}
