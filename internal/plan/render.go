package plan

import (
	"bytes"

	"github.com/yuin/goldmark"
)

// RenderHTML converts the finalized plan Markdown to an HTML fragment for
// export and for the plan preview endpoint.
func RenderHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
