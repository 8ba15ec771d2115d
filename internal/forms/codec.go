package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/verisage-dev/verisage/internal/model"
)

// DecodeYAML reads a flat YAML mapping into a form, keeping key order.
func DecodeYAML(data []byte) (model.Form, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return model.Form{}, fmt.Errorf("parsing form yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return model.Form{}, errors.New("parsing form yaml: empty document")
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return model.Form{}, fmt.Errorf("parsing form yaml: line %d: expected a mapping", m.Line)
	}

	fields := make([]Field, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := m.Content[i], m.Content[i+1]
		if v.Kind != yaml.ScalarNode || v.Tag == "!!null" {
			continue
		}
		fields = append(fields, Field{
			Key:     k.Value,
			Value:   v.Value,
			Numeric: v.Tag == "!!int" || v.Tag == "!!float",
		})
	}
	return FromFields(fields)
}

// EncodeYAML writes a form as a flat YAML mapping.
func EncodeYAML(f model.Form) ([]byte, error) {
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, fld := range ToFields(f) {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fld.Key}
		val := &yaml.Node{}
		if fld.Numeric {
			val.Kind = yaml.ScalarNode
			val.Tag = numberTag(fld.Value)
			val.Value = fld.Value
		} else if err := val.Encode(fld.Value); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", fld.Key, err)
		}
		m.Content = append(m.Content, key, val)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encoding form yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding form yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func numberTag(s string) string {
	d, err := decimal.NewFromString(s)
	if err == nil && d.Exponent() >= 0 {
		return "!!int"
	}
	return "!!float"
}

// DecodeJSON reads a flat JSON object into a form, keeping key order.
// Nested objects and arrays are ignored.
func DecodeJSON(r io.Reader) (model.Form, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return model.Form{}, fmt.Errorf("parsing form json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return model.Form{}, errors.New("parsing form json: expected an object")
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return model.Form{}, fmt.Errorf("parsing form json: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return model.Form{}, fmt.Errorf("parsing form json: unexpected token %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return model.Form{}, fmt.Errorf("parsing form json: field %s: %w", key, err)
		}
		fld, ok, err := jsonField(key, raw)
		if err != nil {
			return model.Form{}, err
		}
		if ok {
			fields = append(fields, fld)
		}
	}
	if _, err := dec.Token(); err != nil {
		return model.Form{}, fmt.Errorf("parsing form json: %w", err)
	}
	return FromFields(fields)
}

func jsonField(key string, raw json.RawMessage) (Field, bool, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Field{}, false, nil
	}
	switch raw[0] {
	case 'n', '{', '[':
		return Field{}, false, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Field{}, false, fmt.Errorf("parsing form json: field %s: %w", key, err)
		}
		return Field{Key: key, Value: s}, true, nil
	case 't', 'f':
		return Field{Key: key, Value: string(raw)}, true, nil
	default:
		return Field{Key: key, Value: string(raw), Numeric: true}, true, nil
	}
}

// EncodeJSON writes a form as a flat JSON object. Amounts are emitted as
// JSON numbers with their exact decimal text.
func EncodeJSON(f model.Form) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range ToFields(f) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fld.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if fld.Numeric {
			buf.WriteString(fld.Value)
			continue
		}
		val, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
