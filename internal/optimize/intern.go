package optimize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/lkoehl/jsmanifest/internal/errs"
)

// passthroughFields are top-level metadata fields that are never
// interned.
var passthroughFields = map[string]bool{
	"version":   true,
	"generated": true,
	"rootPath":  true,
}

// Interned is the result of string interning: the manifest-shaped
// document with string leaves replaced by table references, plus the
// deduplicated string table. Marshaling appends the table as a
// top-level "stringTable" array.
type Interned struct {
	doc   *docValue
	Table []string
}

// Intern performs a structure-preserving deep transform of v's JSON
// form: every string value becomes a {"$ref": n} reference into an
// append-only deduplicated table. Index assignment follows the first
// occurrence in field declaration order. Object keys and the
// top-level version/generated/rootPath fields pass through verbatim.
// The transform is lossless; Resolve reverses it.
func Intern(v any) (*Interned, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errs.Internal(err)
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, errs.Internal(err)
	}
	if doc.kind != docObject {
		return nil, errs.Internal(fmt.Errorf("interning expects an object manifest, got %v", doc.kind))
	}

	in := &interner{index: make(map[string]int), table: []string{}}
	out := &docValue{kind: docObject, members: make([]docMember, 0, len(doc.members))}
	for _, m := range doc.members {
		if passthroughFields[m.key] {
			out.members = append(out.members, m)
			continue
		}
		out.members = append(out.members, docMember{key: m.key, value: in.walk(m.value)})
	}

	return &Interned{doc: out, Table: in.table}, nil
}

// MarshalJSON serializes the interned manifest with the string table
// appended as the final top-level field.
func (im *Interned) MarshalJSON() ([]byte, error) {
	items := make([]*docValue, len(im.Table))
	for i, s := range im.Table {
		items[i] = &docValue{kind: docString, str: s}
	}
	members := make([]docMember, 0, len(im.doc.members)+1)
	members = append(members, im.doc.members...)
	members = append(members, docMember{
		key:   "stringTable",
		value: &docValue{kind: docArray, items: items},
	})
	full := &docValue{kind: docObject, members: members}
	return full.MarshalJSON()
}

// Resolve reconstructs the pre-interning JSON document by replacing
// every reference with its table entry.
func (im *Interned) Resolve() (json.RawMessage, error) {
	resolved, err := resolveValue(im.doc, im.Table)
	if err != nil {
		return nil, err
	}
	return resolved.MarshalJSON()
}

type interner struct {
	table []string
	index map[string]int
}

func (in *interner) walk(v *docValue) *docValue {
	switch v.kind {
	case docString:
		return in.ref(v.str)
	case docObject:
		out := &docValue{kind: docObject, members: make([]docMember, 0, len(v.members))}
		for _, m := range v.members {
			out.members = append(out.members, docMember{key: m.key, value: in.walk(m.value)})
		}
		return out
	case docArray:
		out := &docValue{kind: docArray, items: make([]*docValue, 0, len(v.items))}
		for _, item := range v.items {
			out.items = append(out.items, in.walk(item))
		}
		return out
	default:
		return v
	}
}

// ref returns a {"$ref": n} object for s, assigning a new table index
// on first encounter.
func (in *interner) ref(s string) *docValue {
	idx, ok := in.index[s]
	if !ok {
		idx = len(in.table)
		in.table = append(in.table, s)
		in.index[s] = idx
	}
	return &docValue{kind: docObject, members: []docMember{{
		key:   "$ref",
		value: &docValue{kind: docNumber, num: json.Number(strconv.Itoa(idx))},
	}}}
}

func resolveValue(v *docValue, table []string) (*docValue, error) {
	if idx, ok := refIndex(v); ok {
		if idx < 0 || idx >= len(table) {
			return nil, errs.Internal(fmt.Errorf("string reference %d outside table of %d entries", idx, len(table)))
		}
		return &docValue{kind: docString, str: table[idx]}, nil
	}

	switch v.kind {
	case docObject:
		out := &docValue{kind: docObject, members: make([]docMember, 0, len(v.members))}
		for _, m := range v.members {
			resolved, err := resolveValue(m.value, table)
			if err != nil {
				return nil, err
			}
			out.members = append(out.members, docMember{key: m.key, value: resolved})
		}
		return out, nil
	case docArray:
		out := &docValue{kind: docArray, items: make([]*docValue, 0, len(v.items))}
		for _, item := range v.items {
			resolved, err := resolveValue(item, table)
			if err != nil {
				return nil, err
			}
			out.items = append(out.items, resolved)
		}
		return out, nil
	default:
		return v, nil
	}
}

// refIndex reports whether v is a reference object, i.e. exactly
// {"$ref": <integer>}.
func refIndex(v *docValue) (int, bool) {
	if v.kind != docObject || len(v.members) != 1 || v.members[0].key != "$ref" {
		return 0, false
	}
	ref := v.members[0].value
	if ref.kind != docNumber {
		return 0, false
	}
	idx, err := strconv.Atoi(ref.num.String())
	if err != nil {
		return 0, false
	}
	return idx, true
}

// docValue is an order-preserving JSON document node. encoding/json
// loses object member order when decoding into maps; this model keeps
// it, so interning traversal order matches struct field declaration
// order exactly.
type docKind int

const (
	docNull docKind = iota
	docBool
	docNumber
	docString
	docArray
	docObject
)

type docMember struct {
	key   string
	value *docValue
}

type docValue struct {
	kind    docKind
	str     string
	num     json.Number
	boolean bool
	items   []*docValue
	members []docMember
}

func decodeDocument(data []byte) (*docValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (*docValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeToken(dec, tok)
}

func decodeToken(dec *json.Decoder, tok json.Token) (*docValue, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			v := &docValue{kind: docObject}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				v.members = append(v.members, docMember{key: key, value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return v, nil
		case '[':
			v := &docValue{kind: docArray}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				v.items = append(v.items, item)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return v, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return &docValue{kind: docString, str: t}, nil
	case json.Number:
		return &docValue{kind: docNumber, num: t}, nil
	case bool:
		return &docValue{kind: docBool, boolean: t}, nil
	case nil:
		return &docValue{kind: docNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func (v *docValue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *docValue) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case docObject:
		buf.WriteByte('{')
		for i, m := range v.members {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(m.key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := m.value.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case docArray:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case docString:
		s, err := json.Marshal(v.str)
		if err != nil {
			return err
		}
		buf.Write(s)
	case docNumber:
		buf.WriteString(v.num.String())
	case docBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case docNull:
		buf.WriteString("null")
	}
	return nil
}
