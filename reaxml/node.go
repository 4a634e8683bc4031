package reaxml

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Node is a permissive view of one XML element: attributes, trimmed
// character data and ordered children. REAXML feeds put the same payload
// sometimes in an attribute and sometimes in the element body, so struct-tag
// decoding is not an option.
type Node struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*Node
}

func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	n.Name = start.Name.Local
	if len(start.Attr) > 0 {
		n.Attrs = make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			n.Attrs[a.Name.Local] = a.Value
		}
	}
	var text strings.Builder
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			child := &Node{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		case xml.EndElement:
			n.Text = strings.TrimSpace(text.String())
			return nil
		}
	}
	n.Text = strings.TrimSpace(text.String())
	return nil
}

// decodeDocument parses a whole document and returns its root element.
func decodeDocument(doc []byte) (*Node, error) {
	d := xml.NewDecoder(bytes.NewReader(doc))
	d.Strict = false
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			root := &Node{}
			if err := root.UnmarshalXML(d, start); err != nil {
				return nil, err
			}
			return root, nil
		}
	}
}

// Child returns the first child with the given name, or nil. Single
// occurrences and repeated occurrences look the same in the tree; All is the
// list-normalized view.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// All returns every child with the given name, in document order.
func (n *Node) All(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the named attribute, or "".
func (n *Node) Attr(key string) string {
	if n == nil {
		return ""
	}
	return n.Attrs[key]
}
