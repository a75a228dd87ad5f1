package policy

import (
	"regexp"
	"strings"

	"github.com/matzehuels/netprune/pkg/errors"
	"github.com/matzehuels/netprune/pkg/network"
)

// DefaultRules is the rule text the CLI starts from.
const DefaultRules = `vdf: force
length: sum
type: first
lanes: avg
ul1: avg
ul2: force
ul3: avg
dwt: sum
dwfac: force
ttf: force
us1: avg_by_length
us2: avg
us3: avg
ui1: avg
ui2: avg
ui3: avg`

// Rule is one "attribute: function" pair as written by the user.
type Rule struct {
	Attribute string `json:"attribute" toml:"attribute"`
	Function  string `json:"function" toml:"function"`
}

func (r Rule) String() string { return r.Attribute + ": " + r.Function }

var ruleSeparator = regexp.MustCompile("\n|,")

// ParseRules splits rule text into rules. Names are not resolved here; see
// [Build].
func ParseRules(text string) ([]Rule, error) {
	text = strings.NewReplacer(" ", "", "\t", "", "\r", "").Replace(text)
	var rules []Rule
	for _, part := range ruleSeparator.Split(text, -1) {
		if part == "" {
			continue
		}
		fields := strings.Split(part, ":")
		if len(fields) != 2 {
			return nil, errors.New(errors.ErrCodeSyntax,
				"separate attribute name from function with exactly one colon ':' [%s]", part)
		}
		rules = append(rules, Rule{Attribute: fields[0], Function: fields[1]})
	}
	return rules, nil
}

// target is one (domain, attribute) a rule name resolves to.
type target struct {
	domain network.Domain
	attr   string
}

// aliases are the short attribute names accepted in rules.
var aliases = map[string]target{
	"lanes": {network.DomainLink, network.AttrLanes},
	"vdf":   {network.DomainLink, network.AttrVDF},
	"ul1":   {network.DomainLink, network.AttrData1},
	"ul2":   {network.DomainLink, network.AttrData2},
	"ul3":   {network.DomainLink, network.AttrData3},
	"us1":   {network.DomainSegment, network.AttrData1},
	"us2":   {network.DomainSegment, network.AttrData2},
	"us3":   {network.DomainSegment, network.AttrData3},
	"ui1":   {network.DomainNode, network.AttrData1},
	"ui2":   {network.DomainNode, network.AttrData2},
	"ui3":   {network.DomainNode, network.AttrData3},
	"dwt":   {network.DomainSegment, network.AttrDwellTime},
	"dwfac": {network.DomainSegment, network.AttrDwellFactor},
	"ttf":   {network.DomainSegment, network.AttrTTF},
	"noali": {network.DomainSegment, network.AttrAllowAlightings},
	"noboa": {network.DomainSegment, network.AttrAllowBoardings},
}

var suffixes = map[string]network.Domain{
	"_l": network.DomainLink,
	"_s": network.DomainSegment,
	"_n": network.DomainNode,
}

// resolve maps a rule attribute name to the attributes it applies to. Exact
// names win over aliases, and aliases over domain suffixes.
func resolve(net *network.Network, name string) ([]target, error) {
	var out []target
	for _, d := range network.Domains {
		if net.HasAttribute(d, name) {
			out = append(out, target{d, name})
		}
	}
	if len(out) > 0 {
		return out, nil
	}
	if t, ok := aliases[name]; ok {
		return []target{t}, nil
	}
	for suffix, d := range suffixes {
		base, found := strings.CutSuffix(name, suffix)
		if found && base != "" && net.HasAttribute(d, base) {
			return []target{{d, base}}, nil
		}
	}
	return nil, errors.New(errors.ErrCodeUnknownAttribute, "attribute %q not recognized", name)
}
