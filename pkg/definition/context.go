package definition

import (
	"fmt"
)

// Context maps variable names to collected answers, in the order the
// answers were collected. Conditions of later variables are looked up
// against the answers stored so far.
type Context struct {
	keys   []string
	values map[string]Value
	frozen bool
}

// NewContext creates an empty, writable context
func NewContext() *Context {
	return &Context{values: make(map[string]Value)}
}

// Set stores an answer. Overwriting a key keeps its original position but
// the new value must carry the same tag as the old one.
func (c *Context) Set(name string, v Value) error {
	if c.frozen {
		return fmt.Errorf("context is frozen, cannot set %q", name)
	}
	if !v.IsSupported() {
		return fmt.Errorf("cannot store %s value under %q", v.Kind(), name)
	}
	if existing, ok := c.values[name]; ok {
		if existing.Kind() != v.Kind() {
			return fmt.Errorf("%q already holds a %s value, refusing %s", name, existing.Kind(), v.Kind())
		}
		c.values[name] = v
		return nil
	}
	c.keys = append(c.keys, name)
	c.values[name] = v
	return nil
}

// Get returns the answer stored under name
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Matches reports whether name was collected and equals expected.
// Absent names never match.
func (c *Context) Matches(name string, expected Value) bool {
	v, ok := c.values[name]
	if !ok {
		return false
	}
	return v.Equal(expected)
}

// Keys returns the collected names in collection order
func (c *Context) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

func (c *Context) Len() int { return len(c.keys) }

// Freeze makes the context read-only
func (c *Context) Freeze() { c.frozen = true }

func (c *Context) Frozen() bool { return c.frozen }

// Data returns the answers as plain Go values for template execution.
func (c *Context) Data() map[string]interface{} {
	data := make(map[string]interface{}, len(c.keys))
	for _, k := range c.keys {
		data[k] = c.values[k].Interface()
	}
	return data
}
