package signature

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"wxpay/entity"
)

const rootElement = "xml"

var ErrMalformedXML = errors.New("malformed xml")

// ToXML wraps params in an <xml> root, one child per key in key order.
// Digit-only values are written as text, everything else as CDATA.
func ToXML(params entity.Params) string {
	var b strings.Builder
	b.WriteString("<" + rootElement + ">")
	for _, k := range sortedKeys(params) {
		v := params[k]
		b.WriteString("<" + k + ">")
		if isDigits(v) {
			b.WriteString(v)
		} else {
			// "]]>" would close the section early
			b.WriteString("<![CDATA[" + strings.ReplaceAll(v, "]]>", "]]]]><![CDATA[>") + "]]>")
		}
		b.WriteString("</" + k + ">")
	}
	b.WriteString("</" + rootElement + ">")
	return b.String()
}

// FromXML reads the direct children of the root element into a flat map of
// tag name to text content. Anything but whitespace, comments and processing
// instructions outside the single root element is rejected.
func FromXML(text string) (entity.Params, error) {
	decoder := xml.NewDecoder(strings.NewReader(text))
	params := entity.Params{}

	depth := 0
	closed := false
	field := ""
	var value strings.Builder
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			if !closed {
				return nil, fmt.Errorf("%w: no root element", ErrMalformedXML)
			}
			return params, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
		if depth == 0 {
			if err = checkOutsideRoot(token, closed); err != nil {
				return nil, err
			}
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				field = t.Name.Local
				value.Reset()
			}
		case xml.CharData:
			if depth == 2 {
				value.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				params[field] = value.String()
			}
			depth--
			if depth == 0 {
				closed = true
			}
		}
	}
}

func checkOutsideRoot(token xml.Token, closed bool) error {
	switch t := token.(type) {
	case xml.StartElement:
		if closed {
			return fmt.Errorf("%w: element <%s> after root", ErrMalformedXML, t.Name.Local)
		}
	case xml.CharData:
		if len(bytes.TrimSpace(t)) > 0 {
			return fmt.Errorf("%w: text outside root element", ErrMalformedXML)
		}
	case xml.Directive:
		if closed {
			return fmt.Errorf("%w: directive after root", ErrMalformedXML)
		}
	}
	return nil
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, c := range value {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
