package wordcount

import (
	"encoding/xml"
	"io"
	"log/slog"
)

// CountXMLReader streams a CFR XML document and returns its word
// count. Markup is discarded; only character data is counted. The
// decoder and counter together hold one token plus one partial word,
// never the document, so a full title (tens of megabytes) streams in
// constant memory.
func CountXMLReader(r io.Reader) (int, error) {
	dec := xml.NewDecoder(r)
	// CFR XML carries DTD constructs and entities the strict decoder
	// rejects.
	dec.Strict = false

	var c Counter
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			_, _ = c.Write([]byte(t))
		}
	}
	return c.Total(), nil
}

// CountOrZero counts words from the reader, degrading to 0 on any
// parse or read failure. Word counts are best-effort analytics; a
// broken document must not fail the request.
func CountOrZero(r io.Reader, title string) int {
	n, err := CountXMLReader(r)
	if err != nil {
		slog.Warn("word count failed, defaulting to 0", "title", title, "error", err)
		return 0
	}
	return n
}
