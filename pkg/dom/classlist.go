package dom

import (
	"slices"
	"strings"
)

// ClassList is an ordered set of class names.
type ClassList struct {
	names []string
}

// ParseClassList splits a class attribute value on whitespace.
func ParseClassList(s string) *ClassList {
	c := &ClassList{}
	c.Add(strings.Fields(s)...)
	return c
}

// Add appends names that are not present yet.
func (c *ClassList) Add(names ...string) {
	for _, n := range names {
		if n != "" && !c.Contains(n) {
			c.names = append(c.names, n)
		}
	}
}

// Remove deletes names; absent names are ignored.
func (c *ClassList) Remove(names ...string) {
	c.names = slices.DeleteFunc(c.names, func(n string) bool {
		return slices.Contains(names, n)
	})
}

// Contains reports whether name is present.
func (c *ClassList) Contains(name string) bool {
	return slices.Contains(c.names, name)
}

// Toggle adds name if absent and removes it otherwise. It returns whether
// the name is present afterwards.
func (c *ClassList) Toggle(name string) bool {
	if c.Contains(name) {
		c.Remove(name)
		return false
	}
	c.Add(name)
	return true
}

// Len returns the number of classes.
func (c *ClassList) Len() int { return len(c.names) }

// Values returns a copy of the class names in insertion order.
func (c *ClassList) Values() []string { return slices.Clone(c.names) }

// String renders the list as a class attribute value.
func (c *ClassList) String() string { return strings.Join(c.names, " ") }
