package simplify

import (
	"strings"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// FilterMode selects how a [Filter] decides.
type FilterMode int

const (
	// ModeAlways holds for every element.
	ModeAlways FilterMode = iota
	// ModeNever holds for no element.
	ModeNever
	// ModeAttribute holds when the attribute is nonzero.
	ModeAttribute
	// ModeNotAttribute holds when the attribute is zero.
	ModeNotAttribute
)

func (m FilterMode) String() string {
	switch m {
	case ModeAlways:
		return "always"
	case ModeNever:
		return "never"
	case ModeAttribute:
		return "attribute"
	case ModeNotAttribute:
		return "not-attribute"
	}
	return "unknown"
}

// Filter is a predicate over the attributes of a node or link.
type Filter struct {
	Mode      FilterMode
	Attribute string
}

// Always returns a filter that holds for every element.
func Always() Filter { return Filter{Mode: ModeAlways} }

// Never returns a filter that holds for no element.
func Never() Filter { return Filter{Mode: ModeNever} }

// Attribute returns a filter that holds when name is nonzero.
func Attribute(name string) Filter { return Filter{Mode: ModeAttribute, Attribute: name} }

// NotAttribute returns a filter that holds when name is zero.
func NotAttribute(name string) Filter { return Filter{Mode: ModeNotAttribute, Attribute: name} }

// ParseFilter turns a filter setting into a Filter. "none", "-1" and the
// empty string disable the filter and yield fallback; anything else names an
// attribute whose truthiness gates inclusion.
func ParseFilter(s string, fallback Filter) Filter {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "none", "-1":
		return fallback
	}
	return Attribute(s)
}

// Match evaluates the filter against an element's attributes.
func (f Filter) Match(attrs network.Attributes) bool {
	switch f.Mode {
	case ModeAlways:
		return true
	case ModeAttribute:
		return attrs.Get(f.Attribute).Truthy()
	case ModeNotAttribute:
		return !attrs.Get(f.Attribute).Truthy()
	}
	return false
}

// Validate checks that an attribute filter names an attribute of domain d.
func (f Filter) Validate(net *network.Network, d network.Domain) error {
	if f.Mode != ModeAttribute && f.Mode != ModeNotAttribute {
		return nil
	}
	if !net.HasAttribute(d, f.Attribute) {
		return errors.New(errors.ErrCodeConfiguration,
			"filter attribute %q is not a %s attribute of the network", f.Attribute, d)
	}
	return nil
}

func (f Filter) String() string {
	switch f.Mode {
	case ModeAttribute:
		return f.Attribute
	case ModeNotAttribute:
		return "!" + f.Attribute
	}
	return f.Mode.String()
}
