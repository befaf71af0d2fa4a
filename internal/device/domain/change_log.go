package domain

// ChangeType classifies a modified directory entry.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "C"
	ChangeUpdated ChangeType = "U"
	ChangeDeleted ChangeType = "D"
)

// ModifiedAttribute is one attribute modification of an updated entry.
type ModifiedAttribute struct {
	ID     string
	Op     string
	Values []string
}

// ModifiedObject is an entry touched by a write operation.
type ModifiedObject struct {
	DN         string
	Type       ChangeType
	Attributes []ModifiedAttribute
}

// ChangeLog collects what a persist, merge or remove did to the directory.
type ChangeLog struct {
	Level   ChangeLogLevel
	Objects []*ModifiedObject
}

// NewChangeLog returns an empty change log recording at level.
func NewChangeLog(level ChangeLogLevel) *ChangeLog {
	return &ChangeLog{Level: level}
}

// Record adds an entry and returns it so attribute changes can be appended.
// It returns nil when recording is disabled.
func (c *ChangeLog) Record(dn string, t ChangeType) *ModifiedObject {
	if c == nil || c.Level == ChangeLogOff {
		return nil
	}
	obj := &ModifiedObject{DN: dn, Type: t}
	c.Objects = append(c.Objects, obj)
	return obj
}

// Verbose reports whether attribute modifications are recorded.
func (c *ChangeLog) Verbose() bool {
	return c != nil && c.Level == ChangeLogVerbose
}

// IsEmpty reports whether nothing was recorded.
func (c *ChangeLog) IsEmpty() bool {
	return c == nil || len(c.Objects) == 0
}

// Count returns how many entries of type t were recorded.
func (c *ChangeLog) Count(t ChangeType) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, o := range c.Objects {
		if o.Type == t {
			n++
		}
	}
	return n
}

// Find returns the recorded entry with the given DN.
func (c *ChangeLog) Find(dn string) (*ModifiedObject, bool) {
	if c == nil {
		return nil, false
	}
	for _, o := range c.Objects {
		if o.DN == dn {
			return o, true
		}
	}
	return nil, false
}
