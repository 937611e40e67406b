package ogc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// xmlNode is a generic element tree. Capabilities documents come in
// several namespace dialects per protocol version, so all matching is
// done on local element names and attribute names only.
type xmlNode struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []xmlNode  `xml:",any"`
}

func parseTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		return nil, &Error{Kind: KindMalformedDocument, Msg: "xml parse failed", Err: err}
	}
	return &root, nil
}

// charsetReader accepts the latin-1 family encodings some legacy map
// servers still declare. Everything else must be UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "iso8859-1", "latin1", "windows-1252":
		return &latin1Reader{r: input}, nil
	}
	return nil, fmt.Errorf("unsupported charset %q", charset)
}

// latin1Reader re-encodes latin-1 bytes as UTF-8. Each input byte maps
// to the rune of the same value and expands to at most two bytes.
type latin1Reader struct {
	r       io.Reader
	pending []byte
}

func (l *latin1Reader) Read(p []byte) (int, error) {
	if len(l.pending) > 0 {
		n := copy(p, l.pending)
		l.pending = l.pending[n:]
		return n, nil
	}

	buf := make([]byte, 512)
	n, err := l.r.Read(buf)
	out := make([]byte, 0, n*2)
	for _, b := range buf[:n] {
		out = utf8Append(out, rune(b))
	}

	m := copy(p, out)
	if m < len(out) {
		// Deliver the remainder (and any error) on later calls.
		l.pending = out[m:]
		return m, nil
	}
	return m, err
}

func utf8Append(dst []byte, r rune) []byte {
	if r < 0x80 {
		return append(dst, byte(r))
	}
	return append(dst, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
}

func (n *xmlNode) local() string {
	return n.XMLName.Local
}

// attr returns an attribute by local name; the exact case is tried
// first, then a case-insensitive match (servers disagree on "version"
// vs "Version").
func (n *xmlNode) attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

// childText returns the trimmed text of the first direct child with the
// given local name, or "".
func (n *xmlNode) childText(local string) string {
	for i := range n.Nodes {
		if n.Nodes[i].local() == local {
			return strings.TrimSpace(n.Nodes[i].Content)
		}
	}
	return ""
}

// children returns all direct children with the given local name.
func (n *xmlNode) children(local string) []*xmlNode {
	var out []*xmlNode
	for i := range n.Nodes {
		if n.Nodes[i].local() == local {
			out = append(out, &n.Nodes[i])
		}
	}
	return out
}

// findFirst returns the first element with the given local name in a
// depth-first walk that includes the node itself.
func (n *xmlNode) findFirst(local string) *xmlNode {
	if n.local() == local {
		return n
	}
	for i := range n.Nodes {
		if found := n.Nodes[i].findFirst(local); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every element with the given local name, document order.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	n.walk(func(e *xmlNode) {
		if e.local() == local {
			out = append(out, e)
		}
	})
	return out
}

func (n *xmlNode) walk(fn func(*xmlNode)) {
	fn(n)
	for i := range n.Nodes {
		n.Nodes[i].walk(fn)
	}
}
