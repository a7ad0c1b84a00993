package wordcount

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// CountDOM parses the whole payload as an HTML document, extracts the
// visible text, and counts it under the canonical rule. It requires
// the document resident in memory and exists for payloads that are not
// well-formed XML; CountXMLReader is the streaming-safe path.
func CountDOM(payload []byte) (int, error) {
	doc, err := html.Parse(bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	var sb strings.Builder
	collectText(doc, &sb)
	return CountText(sb.String()), nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteByte(' ')
		return
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
