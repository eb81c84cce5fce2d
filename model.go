package kdbxcore

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"
)

// NewUUID generates a fresh identifier in the format this codec expects
// for Group.UUID and Entry.UUID: Base64 of 16 random bytes, matching the
// wire representation a KDBX document uses for <UUID> text.
func NewUUID() string {
	id := uuid.New()
	return base64.StdEncoding.EncodeToString(id[:])
}

// KnownTimeFields are the fixed set of Times map keys recognized by the
// codec.
var KnownTimeFields = []string{
	"LastModificationTime",
	"CreationTime",
	"LastAccessTime",
	"ExpiryTime",
	"LocationChanged",
}

// Database is the root aggregate: one Meta and one root Group.
type Database struct {
	Meta Meta
	Root Group
}

// Meta carries database-wide metadata. UnhandledFields preserves any
// child element of <Meta> this codec does not specifically recognize,
// keyed by element name, so that round-tripping never loses data.
type Meta struct {
	RecycleBinUUID  string
	UnhandledFields map[string]string
}

// NewMeta returns an empty Meta ready for population.
func NewMeta() Meta {
	return Meta{UnhandledFields: map[string]string{}}
}

// Node tags a Group child as either a nested Group or an Entry, preserving
// their document order.
type Node struct {
	Group *Group
	Entry *Entry
}

// Times is a mapping from one of KnownTimeFields to a calendar timestamp
// with second resolution.
type Times map[string]time.Time

// Group is identified by UUID and holds an ordered sequence of child
// Nodes (Groups and Entries interleaved in document order).
type Group struct {
	UUID            string
	Name            string
	Children        []Node
	Times           Times
	Expires         bool
	UnhandledFields map[string]string
}

// NewGroup returns an empty Group with a freshly generated UUID, ready
// for population.
func NewGroup() Group {
	return Group{
		UUID:            NewUUID(),
		Times:           Times{},
		UnhandledFields: map[string]string{},
	}
}

// Entry is identified by UUID and holds an insertion-ordered set of
// string fields, an optional AutoType record, and an ordered History of
// prior snapshots (also Entries).
type Entry struct {
	UUID            string
	Fields          FieldList
	AutoType        *AutoType
	History         []Entry
	Times           Times
	Expires         bool
	UnhandledFields map[string]string
}

// NewEntry returns an empty Entry with a freshly generated UUID, ready
// for population.
func NewEntry() Entry {
	return Entry{
		UUID:            NewUUID(),
		Fields:          NewFieldList(),
		Times:           Times{},
		UnhandledFields: map[string]string{},
	}
}

// FieldList is an insertion-ordered map from field name (e.g. "Title",
// "UserName", "Password") to Value. Iteration order matches the order
// fields were first Set, which on parse is document order — observable
// because it governs inner-cipher keystream consumption.
type FieldList struct {
	order  []string
	values map[string]Value
}

// NewFieldList returns an empty, ready-to-use FieldList.
func NewFieldList() FieldList {
	return FieldList{values: map[string]Value{}}
}

// Set inserts or overwrites the value for name. A new name is appended to
// the iteration order; an existing name keeps its original position.
func (f *FieldList) Set(name string, v Value) {
	if f.values == nil {
		f.values = map[string]Value{}
	}
	if _, ok := f.values[name]; !ok {
		f.order = append(f.order, name)
	}
	f.values[name] = v
}

// Get returns the value for name and whether it was present.
func (f FieldList) Get(name string) (Value, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Keys returns the field names in insertion order.
func (f FieldList) Keys() []string {
	return f.order
}

// Len returns the number of fields.
func (f FieldList) Len() int {
	return len(f.order)
}

// Value is a closed tagged union over a visible string, a protected
// secret, and an opaque binary payload — the Go rendition of the format's
// three field-value variants.
type Value interface {
	isValue()
}

// UnprotectedValue is a visible string field value.
type UnprotectedValue struct {
	Text string
}

func (UnprotectedValue) isValue() {}

// ProtectedValue is a secret field value held in a SecureBytes, which is
// never printed and is overwritten by its Zero method. The plaintext is not
// zeroed automatically when the value is released.
type ProtectedValue struct {
	Plaintext *SecureBytes
}

func (ProtectedValue) isValue() {}

// BytesValue is an opaque binary payload, round-tripped as Base64 text
// with no inner-cipher protection.
type BytesValue struct {
	Data []byte
}

func (BytesValue) isValue() {}

// AutoType describes an entry's auto-type behavior.
type AutoType struct {
	Enabled         bool
	Sequence        *string
	Associations    []Association
	UnhandledFields map[string]string
}

// Association pairs a target window title with the keystroke sequence to
// send it, both optional.
type Association struct {
	Window   *string
	Sequence *string
}
