package network

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/netprune/pkg/errors"
)

// Domain identifies the element type an attribute belongs to.
type Domain int

const (
	// DomainNode holds node attributes (ui1..ui3 and node extra attributes).
	DomainNode Domain = iota
	// DomainLink holds link attributes (length, lanes, vdf, ul1..ul3, ...).
	DomainLink
	// DomainSegment holds transit segment attributes (dwt, ttf, us1..us3, ...).
	DomainSegment
)

// Domains lists every domain in a fixed order.
var Domains = []Domain{DomainNode, DomainLink, DomainSegment}

var domainNames = map[Domain]string{
	DomainNode:    "NODE",
	DomainLink:    "LINK",
	DomainSegment: "TRANSIT_SEGMENT",
}

// String returns NODE, LINK or TRANSIT_SEGMENT.
func (d Domain) String() string {
	if s, ok := domainNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Domain(%d)", int(d))
}

// ParseDomain parses a domain name case-insensitively. "SEGMENT" is accepted
// as a short form of TRANSIT_SEGMENT.
func ParseDomain(s string) (Domain, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NODE":
		return DomainNode, nil
	case "LINK":
		return DomainLink, nil
	case "TRANSIT_SEGMENT", "SEGMENT":
		return DomainSegment, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown attribute domain %q", s)
}

// Standard attribute names.
const (
	AttrLength          = "length"
	AttrType            = "type"
	AttrLanes           = "num_lanes"
	AttrVDF             = "volume_delay_func"
	AttrData1           = "data1"
	AttrData2           = "data2"
	AttrData3           = "data3"
	AttrDwellTime       = "dwell_time"
	AttrDwellFactor     = "factor_dwell_time_by_length"
	AttrTTF             = "transit_time_func"
	AttrAllowBoardings  = "allow_boardings"
	AttrAllowAlightings = "allow_alightings"
)

// standardDefaults are the built-in attributes of each domain with the value
// a new element receives when the attribute is not given.
var standardDefaults = map[Domain]Attributes{
	DomainNode: {
		AttrData1: Number(0),
		AttrData2: Number(0),
		AttrData3: Number(0),
	},
	DomainLink: {
		AttrLength: Number(0),
		AttrType:   Number(1),
		AttrLanes:  Number(1),
		AttrVDF:    Number(1),
		AttrData1:  Number(0),
		AttrData2:  Number(0),
		AttrData3:  Number(0),
	},
	DomainSegment: {
		AttrDwellTime:       Number(0.01),
		AttrDwellFactor:     Bool(false),
		AttrTTF:             Number(0),
		AttrData1:           Number(0),
		AttrData2:           Number(0),
		AttrData3:           Number(0),
		AttrAllowBoardings:  Bool(true),
		AttrAllowAlightings: Bool(true),
	},
}

// StandardAttributes returns the built-in attribute names of a domain in
// sorted order.
func StandardAttributes(d Domain) []string {
	return standardDefaults[d].Names()
}

// IsStandard reports whether name is a built-in attribute of d.
func IsStandard(d Domain, name string) bool {
	_, ok := standardDefaults[d][name]
	return ok
}

// ExtraAttribute is a user-declared attribute on one domain. Every element of
// the domain carries it; elements added without it receive Default.
type ExtraAttribute struct {
	Name        string
	Domain      Domain
	Default     Value
	Description string
}

// DeclareExtra declares a custom attribute and back-fills its default on all
// existing elements of the domain.
//
// Returns an INVALID_INPUT error if the name is malformed, and
// ErrDuplicateAttribute if the name is already a standard or extra attribute
// of the same domain.
func (n *Network) DeclareExtra(x ExtraAttribute) error {
	if err := errors.ValidateAttributeName(x.Name); err != nil {
		return err
	}
	if n.HasAttribute(x.Domain, x.Name) {
		return fmt.Errorf("%w: %s %s", ErrDuplicateAttribute, x.Domain, x.Name)
	}
	n.extras = append(n.extras, x)

	fill := func(a Attributes) {
		if _, ok := a[x.Name]; !ok {
			a[x.Name] = x.Default
		}
	}
	switch x.Domain {
	case DomainNode:
		for _, nd := range n.Nodes() {
			fill(nd.Attrs)
		}
	case DomainLink:
		for _, l := range n.Links() {
			fill(l.Attrs)
		}
	case DomainSegment:
		for _, s := range n.TransitSegments() {
			fill(s.Attrs)
		}
	}
	return nil
}

// ExtraAttributes returns the declared extra attributes in declaration order.
func (n *Network) ExtraAttributes() []ExtraAttribute { return slices.Clone(n.extras) }

// HasAttribute reports whether name is a standard or declared extra
// attribute of d.
func (n *Network) HasAttribute(d Domain, name string) bool {
	if IsStandard(d, name) {
		return true
	}
	for _, x := range n.extras {
		if x.Domain == d && x.Name == name {
			return true
		}
	}
	return false
}

// AttributeNames returns all standard and extra attribute names of d,
// standard names first.
func (n *Network) AttributeNames(d Domain) []string {
	names := StandardAttributes(d)
	for _, x := range n.extras {
		if x.Domain == d {
			names = append(names, x.Name)
		}
	}
	return names
}

// withDefaults returns attrs completed with the standard and extra defaults
// of d. attrs itself is not modified.
func (n *Network) withDefaults(d Domain, attrs Attributes) Attributes {
	out := attrs.Clone()
	for name, v := range standardDefaults[d] {
		if _, ok := out[name]; !ok {
			out[name] = v
		}
	}
	for _, x := range n.extras {
		if x.Domain != d {
			continue
		}
		if _, ok := out[x.Name]; !ok {
			out[x.Name] = x.Default
		}
	}
	return out
}
