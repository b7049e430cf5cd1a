package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/desertthunder/clickwheel/internal/models"
	"gopkg.in/yaml.v3"
)

// decodeJSON reads a JSON catalog token by token into a YAML node tree, so object key
// order survives and both formats share one walker.
func decodeJSON(data []byte) (*models.Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", models.ErrInvalidCatalog)
	}

	t := &jsonTree{dec: json.NewDecoder(bytes.NewReader(data)), data: data}
	t.dec.UseNumber()

	top, err := t.value()
	if err != nil {
		return nil, fmt.Errorf("%w: line %d: %v", models.ErrInvalidCatalog, t.line(), err)
	}
	if _, err := t.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: line %d: unexpected data after top-level value", models.ErrInvalidCatalog, t.line())
	}

	return decodeNode(top)
}

type jsonTree struct {
	dec  *json.Decoder
	data []byte
}

// line is the 1-based line of the next token.
func (t *jsonTree) line() int {
	off := int(t.dec.InputOffset())
	for off < len(t.data) && strings.IndexByte(" \t\r\n,:", t.data[off]) >= 0 {
		off++
	}
	return 1 + bytes.Count(t.data[:off], []byte("\n"))
}

func (t *jsonTree) value() (*yaml.Node, error) {
	line := t.line()
	tok, err := t.dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return t.object(line)
		case '[':
			return t.array(line)
		}
		return nil, fmt.Errorf("unexpected %q", v)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: v, Line: line}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String(), Line: line}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v), Line: line}, nil
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line}, nil
	}
}

func (t *jsonTree) object(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
	for t.dec.More() {
		keyLine := t.line()
		tok, err := t.dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string")
		}

		val, err := t.value()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Style: yaml.DoubleQuotedStyle, Value: key, Line: keyLine}, val)
	}

	if _, err := t.dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}

func (t *jsonTree) array(line int) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
	for t.dec.More() {
		val, err := t.value()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, val)
	}

	if _, err := t.dec.Token(); err != nil {
		return nil, err
	}
	return n, nil
}
