package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// decodeXMLDocument reads an XML document into nested maps keyed by element
// name. Leaf elements become their trimmed text, so an empty element is "".
// Repeated sibling elements collapse into a []any in document order.
// Attributes, comments and processing instructions are ignored.
func decodeXMLDocument(r io.Reader) (map[string]any, error) {
	decoder := xml.NewDecoder(r)

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("document has no root element")
		}
		if err != nil {
			return nil, err
		}
		if se, ok := token.(xml.StartElement); ok {
			value, err := readElementValue(decoder)
			if err != nil {
				return nil, fmt.Errorf("element <%s>: %w", se.Name.Local, err)
			}
			return map[string]any{se.Name.Local: value}, nil
		}
	}
}

// readElementValue consumes tokens up to and including the end of the
// current element.
func readElementValue(decoder *xml.Decoder) (any, error) {
	var text strings.Builder
	var children map[string]any

	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.ErrUnexpectedEOF
			}
			return nil, err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			child, err := readElementValue(decoder)
			if err != nil {
				return nil, fmt.Errorf("element <%s>: %w", t.Name.Local, err)
			}
			if children == nil {
				children = make(map[string]any)
			}
			addChild(children, t.Name.Local, child)
		case xml.EndElement:
			if children != nil {
				return children, nil
			}
			return strings.TrimSpace(text.String()), nil
		}
	}
}

// addChild stores value under name, turning a repeated name into a list.
// Element values are always strings or maps, so an existing []any can only
// come from an earlier repeat.
func addChild(children map[string]any, name string, value any) {
	existing, ok := children[name]
	if !ok {
		children[name] = value
		return
	}
	if list, ok := existing.([]any); ok {
		children[name] = append(list, value)
		return
	}
	children[name] = []any{existing, value}
}
