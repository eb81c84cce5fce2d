package kdbxcore

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"sort"
)

// timeFieldSet indexes KnownTimeFields for O(1) membership checks.
var timeFieldSet = func() map[string]bool {
	m := make(map[string]bool, len(KnownTimeFields))
	for _, f := range KnownTimeFields {
		m[f] = true
	}
	return m
}()

// xmlNode is a generic, order-preserving XML element tree: the shape the
// codec's dispatch functions walk, independent of any Go struct tags.
type xmlNode struct {
	Name     string
	Attrs    map[string]string
	Text     string
	Children []*xmlNode
}

func (n *xmlNode) attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// parseXMLTree decodes data into a generic element tree rooted at the
// document's single top-level element.
func parseXMLTree(data []byte) (*xmlNode, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, NewDatabaseIntegrityError("xml", io.ErrUnexpectedEOF)
		}
		if err != nil {
			return nil, NewDatabaseIntegrityError("xml", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeXMLNode(dec, start)
		}
	}
}

func decodeXMLNode(dec *xml.Decoder, start xml.StartElement) (*xmlNode, error) {
	node := &xmlNode{
		Name:  start.Name.Local,
		Attrs: map[string]string{},
	}
	for _, a := range start.Attr {
		node.Attrs[a.Name.Local] = a.Value
	}

	var text bytes.Buffer
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, NewDatabaseIntegrityError("xml", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeXMLNode(dec, t)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			node.Text = text.String()
			return node, nil
		}
	}
}

func getText(n *xmlNode) string {
	return n.Text
}

// ParseXML parses a plaintext KDBX XML document, consulting innerCipher to
// recover protected field values in document order, and returns the root
// Group and Meta.
func ParseXML(data []byte, innerCipher Cipher) (Group, Meta, error) {
	root, err := parseXMLTree(data)
	if err != nil {
		return Group{}, Meta{}, err
	}
	if root.Name != "KeePassFile" {
		return Group{}, Meta{}, NewDatabaseIntegrityError("xml", ErrMissingText)
	}

	group := NewGroup()
	meta := NewMeta()
	for _, child := range root.Children {
		switch child.Name {
		case "Meta":
			meta = parseMeta(child)
		case "Root":
			g, err := parseRoot(child, innerCipher)
			if err != nil {
				return Group{}, Meta{}, err
			}
			group = g
		default:
			return Group{}, Meta{}, NewDatabaseIntegrityError("KeePassFile", ErrMissingText)
		}
	}
	return group, meta, nil
}

func parseMeta(n *xmlNode) Meta {
	meta := NewMeta()
	for _, child := range n.Children {
		switch child.Name {
		case "RecycleBinUUID":
			meta.RecycleBinUUID = getText(child)
		default:
			meta.UnhandledFields[child.Name] = getText(child)
		}
	}
	return meta
}

func parseRoot(n *xmlNode, inner Cipher) (Group, error) {
	for _, child := range n.Children {
		if child.Name == "Group" {
			return parseGroup(child, inner)
		}
	}
	return NewGroup(), nil
}

func parseGroup(n *xmlNode, inner Cipher) (Group, error) {
	g := NewGroup()
	for _, child := range n.Children {
		switch child.Name {
		case "UUID":
			g.UUID = getText(child)
		case "Name":
			g.Name = getText(child)
		case "Group":
			sub, err := parseGroup(child, inner)
			if err != nil {
				return Group{}, err
			}
			g.Children = append(g.Children, Node{Group: &sub})
		case "Entry":
			e, err := parseEntry(child, inner)
			if err != nil {
				return Group{}, err
			}
			g.Children = append(g.Children, Node{Entry: &e})
		case "Times":
			times, expires, err := parseTimes(child, &g.UnhandledFields)
			if err != nil {
				return Group{}, err
			}
			g.Times = times
			g.Expires = expires
		default:
			g.UnhandledFields[child.Name] = getText(child)
		}
	}
	return g, nil
}

func parseEntry(n *xmlNode, inner Cipher) (Entry, error) {
	e := NewEntry()
	for _, child := range n.Children {
		switch child.Name {
		case "UUID":
			e.UUID = getText(child)
		case "Times":
			times, expires, err := parseTimes(child, &e.UnhandledFields)
			if err != nil {
				return Entry{}, err
			}
			e.Times = times
			e.Expires = expires
		case "String":
			key, val, err := getKVPair(child, inner)
			if err != nil {
				return Entry{}, err
			}
			e.Fields.Set(key, val)
		case "AutoType":
			at, err := parseAutoType(child)
			if err != nil {
				return Entry{}, err
			}
			e.AutoType = at
		case "History":
			history, err := parseHistory(child, inner)
			if err != nil {
				return Entry{}, err
			}
			e.History = history
		default:
			e.UnhandledFields[child.Name] = getText(child)
		}
	}
	return e, nil
}

func parseHistory(n *xmlNode, inner Cipher) ([]Entry, error) {
	var out []Entry
	for _, child := range n.Children {
		if child.Name != "Entry" {
			return nil, NewDatabaseIntegrityError("History", ErrMissingText)
		}
		e, err := parseEntry(child, inner)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func getKVPair(n *xmlNode, inner Cipher) (string, Value, error) {
	var key string
	var haveKey, haveVal bool
	var val Value

	for _, child := range n.Children {
		switch child.Name {
		case "Key":
			key = getText(child)
			haveKey = true
		case "Value":
			v, err := parseValue(child, inner)
			if err != nil {
				return "", nil, err
			}
			val = v
			haveVal = true
		default:
			return "", nil, NewDatabaseIntegrityError("String value", ErrMissingText)
		}
	}

	if !haveKey || !haveVal {
		return "", nil, NewDatabaseIntegrityError("String value", ErrMissingText)
	}
	return key, val, nil
}

func parseValue(n *xmlNode, inner Cipher) (Value, error) {
	if binary, ok := n.attr("Binary"); ok && binary == "True" {
		text := getText(n)
		if text == "" {
			return BytesValue{}, nil
		}
		data, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, NewDatabaseIntegrityError("binary value", err)
		}
		return BytesValue{Data: data}, nil
	}
	if protected, ok := n.attr("Protected"); ok && protected == "True" {
		text := getText(n)
		if text == "" {
			return ProtectedValue{Plaintext: NewSecureBytes(nil)}, nil
		}
		encBytes, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, NewDatabaseIntegrityError("protected value", err)
		}
		plain, err := inner.Decrypt(encBytes)
		if err != nil {
			return nil, NewDatabaseIntegrityError("protected value", err)
		}
		return ProtectedValue{Plaintext: NewSecureBytes(plain)}, nil
	}
	return UnprotectedValue{Text: getText(n)}, nil
}

func parseAutoType(n *xmlNode) (*AutoType, error) {
	at := &AutoType{UnhandledFields: map[string]string{}}
	for _, child := range n.Children {
		switch child.Name {
		case "Enabled":
			at.Enabled = getText(child) == "True"
		case "DefaultSequence":
			seq := getText(child)
			at.Sequence = &seq
		case "Association":
			assoc := Association{}
			for _, f := range child.Children {
				switch f.Name {
				case "Window":
					w := getText(f)
					assoc.Window = &w
				case "KeystrokeSequence":
					s := getText(f)
					assoc.Sequence = &s
				}
			}
			at.Associations = append(at.Associations, assoc)
		default:
			at.UnhandledFields[child.Name] = getText(child)
		}
	}
	return at, nil
}

func parseTimes(n *xmlNode, unhandled *map[string]string) (Times, bool, error) {
	times := Times{}
	expires := false
	for _, child := range n.Children {
		switch {
		case timeFieldSet[child.Name]:
			ts, err := parseTimestamp(getText(child))
			if err != nil {
				return nil, false, err
			}
			times[child.Name] = ts
		case child.Name == "Expires":
			expires = getText(child) == "True"
		default:
			// e.g. UsageCount: preserved on the enclosing entity rather than dropped
			if *unhandled == nil {
				*unhandled = map[string]string{}
			}
			(*unhandled)[child.Name] = getText(child)
		}
	}
	return times, expires, nil
}

// WriteXML serializes db as a pretty-printed KDBX XML document, invoking
// innerCipher to re-encrypt protected values in the same document order a
// matching ParseXML call would consume them.
func WriteXML(db *Database, innerCipher Cipher) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")

	if err := writeStart(enc, "KeePassFile"); err != nil {
		return nil, err
	}
	if err := writeMeta(enc, &db.Meta); err != nil {
		return nil, err
	}
	if err := writeStart(enc, "Root"); err != nil {
		return nil, err
	}
	if err := writeGroup(enc, &db.Root, innerCipher); err != nil {
		return nil, err
	}
	if err := writeEnd(enc, "Root"); err != nil {
		return nil, err
	}
	if err := writeEnd(enc, "KeePassFile"); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, NewDatabaseIntegrityError("xml", err)
	}
	return buf.Bytes(), nil
}

func writeStart(enc *xml.Encoder, name string) error {
	return enc.EncodeToken(xml.StartElement{Name: xml.Name{Local: name}})
}

func writeEnd(enc *xml.Encoder, name string) error {
	return enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func writeSimpleElement(enc *xml.Encoder, name, text string) error {
	if err := writeStart(enc, name); err != nil {
		return err
	}
	if err := enc.EncodeToken(xml.CharData([]byte(text))); err != nil {
		return err
	}
	return writeEnd(enc, name)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func writeUnhandledFields(enc *xml.Encoder, fields map[string]string) error {
	for _, name := range sortedKeys(fields) {
		if err := writeSimpleElement(enc, name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

func writeMeta(enc *xml.Encoder, m *Meta) error {
	if err := writeStart(enc, "Meta"); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "RecycleBinUUID", m.RecycleBinUUID); err != nil {
		return err
	}
	if err := writeUnhandledFields(enc, m.UnhandledFields); err != nil {
		return err
	}
	return writeEnd(enc, "Meta")
}

func writeTimes(enc *xml.Encoder, times Times, expires bool) error {
	if err := writeStart(enc, "Times"); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "Expires", boolText(expires)); err != nil {
		return err
	}
	keys := make([]string, 0, len(times))
	for k := range times {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writeSimpleElement(enc, k, encodeTimestamp(times[k])); err != nil {
			return err
		}
	}
	return writeEnd(enc, "Times")
}

func boolText(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func writeGroup(enc *xml.Encoder, g *Group, inner Cipher) error {
	if err := writeStart(enc, "Group"); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "UUID", g.UUID); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "Name", g.Name); err != nil {
		return err
	}
	if err := writeUnhandledFields(enc, g.UnhandledFields); err != nil {
		return err
	}
	if err := writeTimes(enc, g.Times, g.Expires); err != nil {
		return err
	}
	for _, child := range g.Children {
		if child.Group != nil {
			if err := writeGroup(enc, child.Group, inner); err != nil {
				return err
			}
		}
		if child.Entry != nil {
			if err := writeEntry(enc, child.Entry, inner); err != nil {
				return err
			}
		}
	}
	return writeEnd(enc, "Group")
}

func writeEntry(enc *xml.Encoder, e *Entry, inner Cipher) error {
	if err := writeStart(enc, "Entry"); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "UUID", e.UUID); err != nil {
		return err
	}
	if err := writeUnhandledFields(enc, e.UnhandledFields); err != nil {
		return err
	}

	for _, name := range e.Fields.Keys() {
		val, _ := e.Fields.Get(name)
		if err := writeStart(enc, "String"); err != nil {
			return err
		}
		if err := writeSimpleElement(enc, "Key", name); err != nil {
			return err
		}
		if err := writeValue(enc, val, inner); err != nil {
			return err
		}
		if err := writeEnd(enc, "String"); err != nil {
			return err
		}
	}

	if e.AutoType != nil {
		if err := writeAutoType(enc, e.AutoType); err != nil {
			return err
		}
	}

	if len(e.History) > 0 {
		if err := writeStart(enc, "History"); err != nil {
			return err
		}
		for i := range e.History {
			if err := writeEntry(enc, &e.History[i], inner); err != nil {
				return err
			}
		}
		if err := writeEnd(enc, "History"); err != nil {
			return err
		}
	}

	if err := writeTimes(enc, e.Times, e.Expires); err != nil {
		return err
	}
	return writeEnd(enc, "Entry")
}

func writeValue(enc *xml.Encoder, v Value, inner Cipher) error {
	switch val := v.(type) {
	case BytesValue:
		start := xml.StartElement{
			Name: xml.Name{Local: "Value"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "Binary"}, Value: "True"}},
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		if len(val.Data) > 0 {
			if err := enc.EncodeToken(xml.CharData([]byte(base64.StdEncoding.EncodeToString(val.Data)))); err != nil {
				return err
			}
		}
		return writeEnd(enc, "Value")
	case ProtectedValue:
		start := xml.StartElement{
			Name: xml.Name{Local: "Value"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "Protected"}, Value: "True"}},
		}
		if err := enc.EncodeToken(start); err != nil {
			return err
		}
		plain := val.Plaintext.Bytes()
		if len(plain) > 0 {
			ciphertext, err := inner.Encrypt(plain)
			if err != nil {
				return NewDatabaseIntegrityError("protected value", err)
			}
			if err := enc.EncodeToken(xml.CharData([]byte(base64.StdEncoding.EncodeToString(ciphertext)))); err != nil {
				return err
			}
		}
		return writeEnd(enc, "Value")
	case UnprotectedValue:
		return writeSimpleElement(enc, "Value", val.Text)
	default:
		return writeSimpleElement(enc, "Value", "")
	}
}

func writeAutoType(enc *xml.Encoder, at *AutoType) error {
	if err := writeStart(enc, "AutoType"); err != nil {
		return err
	}
	if err := writeSimpleElement(enc, "Enabled", boolText(at.Enabled)); err != nil {
		return err
	}
	if at.Sequence != nil {
		if err := writeSimpleElement(enc, "DefaultSequence", *at.Sequence); err != nil {
			return err
		}
	}
	if err := writeUnhandledFields(enc, at.UnhandledFields); err != nil {
		return err
	}
	for _, assoc := range at.Associations {
		if err := writeStart(enc, "Association"); err != nil {
			return err
		}
		if assoc.Window != nil {
			if err := writeSimpleElement(enc, "Window", *assoc.Window); err != nil {
				return err
			}
		}
		if assoc.Sequence != nil {
			if err := writeSimpleElement(enc, "KeystrokeSequence", *assoc.Sequence); err != nil {
				return err
			}
		}
		if err := writeEnd(enc, "Association"); err != nil {
			return err
		}
	}
	return writeEnd(enc, "AutoType")
}
