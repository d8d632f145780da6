package store

import (
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindList
	KindMap
)

// Value is the tagged variant held by a store entry. The store does not
// interpret values; it only round-trips them and renders them for display.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
	list []Value
	m    []MapEntry
}

// MapEntry is one ordered key/value pair inside a KindMap value.
type MapEntry struct {
	Key   string
	Value Value
}

// StringValue returns a Value holding s.
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// BoolValue returns a Value holding b.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns a Value holding i.
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }

// ListValue returns a Value holding the given items.
func ListValue(items ...Value) Value { return Value{kind: KindList, list: items} }

// MapValue returns a Value holding the given ordered entries.
func MapValue(entries ...MapEntry) Value { return Value{kind: KindMap, m: entries} }

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// AsString returns the held string. It is only meaningful for KindString.
func (v Value) AsString() string { return v.str }

// AsBool returns the held bool. It is only meaningful for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the held integer. It is only meaningful for KindInt.
func (v Value) AsInt() int64 { return v.i }

// Raw returns the value as plain Go data (string, bool, int64, []any,
// or map[string]any). Map ordering is lost; Raw exists for callers that
// hand values to schema validation or viper, not for display.
func (v Value) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindList:
		out := make([]any, len(v.list))
		for i, item := range v.list {
			out[i] = item.Raw()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.m))
		for _, e := range v.m {
			out[e.Key] = e.Value.Raw()
		}
		return out
	}
	return nil
}

// Pretty renders the value for display. Strings are quoted, bools and
// integers render bare, and composites render as indented YAML-shaped
// structure (possibly multi-line). The rendering is deterministic and is
// shared by every command that prints a value.
func (v Value) Pretty() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		node := v.toNode()
		out, err := yaml.Marshal(node)
		if err != nil {
			return fmt.Sprintf("%v", v.Raw())
		}
		return strings.TrimRight(string(out), "\n")
	}
}

// valueFromNode converts a decoded YAML node into a Value. Scalars that are
// neither bool nor integer fall back to the string variant, so unknown
// shapes still round-trip as text.
func valueFromNode(node *yaml.Node) Value {
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, c := range node.Content {
			items = append(items, valueFromNode(c))
		}
		return ListValue(items...)
	case yaml.MappingNode:
		entries := make([]MapEntry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			entries = append(entries, MapEntry{
				Key:   node.Content[i].Value,
				Value: valueFromNode(node.Content[i+1]),
			})
		}
		return MapValue(entries...)
	case yaml.ScalarNode:
		switch node.Tag {
		case "!!bool":
			if b, err := strconv.ParseBool(node.Value); err == nil {
				return BoolValue(b)
			}
		case "!!int":
			if i, err := strconv.ParseInt(node.Value, 10, 64); err == nil {
				return IntValue(i)
			}
		}
		return StringValue(node.Value)
	}
	return StringValue(node.Value)
}

// toNode converts a Value back into a YAML node for encoding.
func (v Value) toNode() *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}
	case KindInt:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.i, 10)}
	case KindList:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.list {
			node.Content = append(node.Content, item.toNode())
		}
		return node
	case KindMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range v.m {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
				e.Value.toNode())
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	}
}
