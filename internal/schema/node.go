// Package schema compiles respMSL blocks into JSON Schema documents.
//
// respMSL is the indentation- and bullet-based notation users write after
// a `::::` delimiter in a chat turn to describe the shape of the model's
// structured output. A block like
//
//	DishName: Name of the dish expressed humorously
//	Ingredients:
//	 - IngredientName: Describe the raw material concretely
//	 - Quantity: Also specify the unit
//	CookingSteps:
//	 - First, gather the ingredients.
//	 - Cook while paying attention to the heat.
//
// compiles into a JSON Schema object with a string property, an array of
// objects, and an array of strings. Compilation is a pure function of the
// input text; a failed compile yields an error and no schema.
package schema

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Kind describes the shape a compiled node serializes to.
type Kind int

const (
	// KindObject is the synthetic root holding top-level properties.
	KindObject Kind = iota
	// KindString is a plain string property, optionally described.
	KindString
	// KindEnum is a string property restricted to a fixed value set.
	KindEnum
	// KindStringArray is an array whose elements are free-form strings.
	KindStringArray
	// KindObjectArray is an array of objects sharing one property set.
	KindObjectArray

	// kindPending marks a bare key whose array kind has not been decided
	// yet. It never survives a successful compile.
	kindPending
)

// Node is one compiled schema node. Exactly one of Description, Enum or
// Children is populated, matching the Kind. The root node is always a
// KindObject whose Children are the top-level properties.
type Node struct {
	Key         string
	Kind        Kind
	Description string
	Enum        []string
	Children    []*Node
}

// Child returns the child with the given key, or nil.
func (n *Node) Child(key string) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	return nil
}

// addChild attaches a child, replacing an earlier sibling with the same
// key in place. Declaration order of surviving keys is preserved.
func (n *Node) addChild(child *Node) {
	for i, c := range n.Children {
		if c.Key == child.Key {
			n.Children[i] = child
			return
		}
	}
	n.Children = append(n.Children, child)
}

// MarshalJSON serializes the node to its JSON Schema form. Properties are
// emitted in source declaration order so that identical input always
// produces byte-identical output.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) encode(buf *bytes.Buffer) error {
	switch n.Kind {
	case KindObject:
		return encodeObject(buf, n.Children)
	case KindString:
		buf.WriteString(`{"type":"string"`)
		if n.Description != "" {
			buf.WriteString(`,"description":`)
			if err := encodeString(buf, n.Description); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case KindEnum:
		buf.WriteString(`{"type":"string","enum":[`)
		for i, v := range n.Enum {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeString(buf, v); err != nil {
				return err
			}
		}
		buf.WriteString(`]}`)
		return nil
	case KindStringArray:
		buf.WriteString(`{"type":"array","items":{"type":"string"}}`)
		return nil
	case KindObjectArray:
		buf.WriteString(`{"type":"array","items":`)
		if err := encodeObject(buf, n.Children); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	default:
		return &ParseError{Kind: ErrMalformedLine, Message: "unresolved node kind"}
	}
}

func encodeObject(buf *bytes.Buffer, children []*Node) error {
	buf.WriteString(`{"type":"object","properties":{`)
	for i, c := range children {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := encodeString(buf, c.Key); err != nil {
			return err
		}
		buf.WriteByte(':')
		if err := c.encode(buf); err != nil {
			return err
		}
	}
	buf.WriteString(`}}`)
	return nil
}

func encodeString(buf *bytes.Buffer, s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
