package internal

import "sort"

// Context maps variable names to values.
//
// A Context is not synchronised. Populate it before rendering; renders only
// read it, so one Context may back any number of concurrent renders as long as
// nobody writes to it meanwhile.
type Context struct {
	values map[string]Value
}

// NewContext creates an empty context
func NewContext() *Context {
	return &Context{values: make(map[string]Value)}
}

// NewContextWithCapacity creates an empty context sized for n variables
func NewContextWithCapacity(n int) *Context {
	return &Context{values: make(map[string]Value, n)}
}

// Set inserts or replaces a variable. Setting the zero Value removes name.
func (c *Context) Set(name string, v Value) {
	if !v.IsValid() {
		delete(c.values, name)
		return
	}
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	c.values[name] = v
}

// SetString stores s as borrowed text
func (c *Context) SetString(name, s string) { c.Set(name, StringValue(s)) }

// SetInt stores an integer
func (c *Context) SetInt(name string, i int64) { c.Set(name, IntValue(i)) }

// SetFloat stores a float
func (c *Context) SetFloat(name string, f float64) { c.Set(name, FloatValue(f)) }

// SetBool stores a boolean
func (c *Context) SetBool(name string, b bool) { c.Set(name, BoolValue(b)) }

// Get looks a variable up. A nil context holds nothing.
func (c *Context) Get(name string) (Value, bool) {
	if c == nil {
		return Value{}, false
	}
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether the variable is set
func (c *Context) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Delete removes a variable
func (c *Context) Delete(name string) {
	if c != nil {
		delete(c.values, name)
	}
}

// Len returns the number of variables
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return len(c.values)
}

// Names returns the variable names in sorted order
func (c *Context) Names() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy. Text payloads are shared; they are
// immutable.
func (c *Context) Clone() *Context {
	out := NewContextWithCapacity(c.Len())
	if c != nil {
		for k, v := range c.values {
			out.values[k] = v
		}
	}
	return out
}
