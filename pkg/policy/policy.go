package policy

import (
	"cmp"
	"maps"
	"slices"

	"github.com/matzehuels/netprune/pkg/aggregate"
	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// defaults are the built-in functions of each domain.
var defaults = map[network.Domain]map[string]aggregate.Func{
	network.DomainNode: {
		network.AttrData1: aggregate.First,
		network.AttrData2: aggregate.First,
		network.AttrData3: aggregate.First,
	},
	network.DomainLink: {
		network.AttrLength: aggregate.Sum,
		network.AttrType:   aggregate.First,
		network.AttrLanes:  aggregate.First,
		network.AttrVDF:    aggregate.First,
		network.AttrData1:  aggregate.Zero,
		network.AttrData2:  aggregate.AvgByLength,
		network.AttrData3:  aggregate.Avg,
	},
	network.DomainSegment: {
		network.AttrDwellTime:       aggregate.Sum,
		network.AttrDwellFactor:     aggregate.And,
		network.AttrTTF:             aggregate.Force,
		network.AttrData1:           aggregate.AvgByLength,
		network.AttrData2:           aggregate.Zero,
		network.AttrData3:           aggregate.Zero,
		network.AttrAllowBoardings:  aggregate.First,
		network.AttrAllowAlightings: aggregate.First,
	},
}

// Policy maps (domain, attribute) pairs to aggregation functions. It is
// immutable once built and safe to share.
type Policy struct {
	funcs map[network.Domain]map[string]aggregate.Func
	rules []Rule
}

// Entry is one resolved (domain, attribute, function) assignment.
type Entry struct {
	Domain    network.Domain
	Attribute string
	Func      aggregate.Func
}

// Build assembles the policy for net from the built-in defaults, the
// network's extra attributes, and rules.
func Build(net *network.Network, rules []Rule) (*Policy, error) {
	p := &Policy{
		funcs: make(map[network.Domain]map[string]aggregate.Func, len(network.Domains)),
		rules: slices.Clone(rules),
	}
	for _, d := range network.Domains {
		p.funcs[d] = maps.Clone(defaults[d])
	}
	for _, x := range net.ExtraAttributes() {
		p.funcs[x.Domain][x.Name] = aggregate.Avg
	}
	for _, r := range rules {
		targets, err := resolve(net, r.Attribute)
		if err != nil {
			return nil, err
		}
		f, err := aggregate.Parse(r.Function)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownFunction, err, "rule %q", r.String())
		}
		for _, t := range targets {
			p.funcs[t.domain][t.attr] = f
		}
	}
	return p, nil
}

// Compile parses rule text and builds the policy for net.
func Compile(net *network.Network, text string) (*Policy, error) {
	rules, err := ParseRules(text)
	if err != nil {
		return nil, err
	}
	return Build(net, rules)
}

// Func returns the function for attr in domain d, or first when none is
// configured.
func (p *Policy) Func(d network.Domain, attr string) aggregate.Func {
	if f, ok := p.funcs[d][attr]; ok {
		return f
	}
	return aggregate.First
}

// Domain returns a copy of the assignments of one domain.
func (p *Policy) Domain(d network.Domain) map[string]aggregate.Func {
	return maps.Clone(p.funcs[d])
}

// Rules returns the user rules the policy was built from.
func (p *Policy) Rules() []Rule { return slices.Clone(p.rules) }

// Entries returns every assignment, ordered by domain then attribute name.
func (p *Policy) Entries() []Entry {
	var out []Entry
	for _, d := range network.Domains {
		for attr, f := range p.funcs[d] {
			out = append(out, Entry{Domain: d, Attribute: attr, Func: f})
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(a.Domain, b.Domain); c != 0 {
			return c
		}
		return cmp.Compare(a.Attribute, b.Attribute)
	})
	return out
}

// Merge combines the attributes of two elements of domain d over the union
// of their names. Values missing on one side read as Number(0).
func (p *Policy) Merge(d network.Domain, a, b network.Attributes, lenA, lenB float64) (network.Attributes, error) {
	names := a.Names()
	for _, name := range b.Names() {
		if _, ok := a[name]; !ok {
			names = append(names, name)
		}
	}
	out := make(network.Attributes, len(names))
	for _, name := range names {
		v, err := p.Func(d, name).Apply(name, a.Get(name), b.Get(name), lenA, lenB)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}
