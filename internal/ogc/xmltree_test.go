package ogc

import (
	"bytes"
	"io"
	"testing"
)

func TestParseTreeLatin1Declaration(t *testing.T) {
	// "Gewässer" with the latin-1 byte 0xE4 for ä.
	raw := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><Root><Title>Gew`), 0xE4)
	raw = append(raw, []byte(`sser</Title></Root>`)...)

	root, err := parseTree(raw)
	if err != nil {
		t.Fatalf("parseTree() error = %v", err)
	}
	if got := root.childText("Title"); got != "Gewässer" {
		t.Errorf("Title = %q, want Gewässer", got)
	}
}

func TestCharsetReaderUnsupported(t *testing.T) {
	if _, err := charsetReader("shift_jis", bytes.NewReader(nil)); err == nil {
		t.Error("charsetReader() accepted an unsupported charset")
	}
}

func TestLatin1ReaderSmallDestination(t *testing.T) {
	src := make([]byte, 300)
	for i := range src {
		src[i] = 0xE4 // expands to two UTF-8 bytes each
	}

	r := &latin1Reader{r: bytes.NewReader(src)}
	out, err := io.ReadAll(io.LimitReader(r, 1<<20))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != 600 {
		t.Fatalf("decoded %d bytes, want 600", len(out))
	}
	for i := 0; i < len(out); i += 2 {
		if out[i] != 0xC3 || out[i+1] != 0xA4 {
			t.Fatalf("byte pair at %d = %x %x, want c3 a4", i, out[i], out[i+1])
		}
	}
}

func TestXMLNodeAttrCaseFallback(t *testing.T) {
	root, err := parseTree([]byte(`<Root Version="1.1.1" exact="yes"/>`))
	if err != nil {
		t.Fatalf("parseTree() error = %v", err)
	}
	if got := root.attr("version"); got != "1.1.1" {
		t.Errorf("attr(version) = %q, want case-insensitive fallback to 1.1.1", got)
	}
	if got := root.attr("exact"); got != "yes" {
		t.Errorf("attr(exact) = %q, want yes", got)
	}
}

func TestXMLNodeFindAllDocumentOrder(t *testing.T) {
	doc := `<Root><A><Item>1</Item></A><Item>2</Item><B><C><Item>3</Item></C></B></Root>`
	root, err := parseTree([]byte(doc))
	if err != nil {
		t.Fatalf("parseTree() error = %v", err)
	}
	items := root.findAll("Item")
	if len(items) != 3 {
		t.Fatalf("findAll() = %d nodes, want 3", len(items))
	}
	for i, want := range []string{"1", "2", "3"} {
		if items[i].Content != want {
			t.Errorf("items[%d] = %q, want %q", i, items[i].Content, want)
		}
	}
}
