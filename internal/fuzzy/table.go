package fuzzy

import "fmt"

// Term is one of the seven linguistic terms used on every input and
// output dimension of the rule table.
type Term int

const (
	NegativeBig Term = iota
	NegativeMedium
	NegativeSmall
	Zero
	PositiveSmall
	PositiveMedium
	PositiveBig

	TermCount = 7
)

var termNames = map[string]Term{
	"NB": NegativeBig,
	"NM": NegativeMedium,
	"NS": NegativeSmall,
	"ZE": Zero,
	"PS": PositiveSmall,
	"PM": PositiveMedium,
	"PB": PositiveBig,
}

func (t Term) String() string {
	for name, term := range termNames {
		if term == t {
			return name
		}
	}
	return fmt.Sprintf("Term(%d)", int(t))
}

// ParseTerm converts the short linguistic notation (NB, NM, NS, ZE,
// PS, PM, PB) into a Term.
func ParseTerm(name string) (Term, error) {
	term, ok := termNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown linguistic term: %s", name)
	}
	return term, nil
}

// Rule maps one (error, errorRate) term pair to the gain adjustment
// terms of its consequent.
type Rule struct {
	Error     Term `json:"error"`
	ErrorRate Term `json:"errorRate"`
	DeltaKp   Term `json:"deltaKp"`
	DeltaKi   Term `json:"deltaKi"`
	DeltaKd   Term `json:"deltaKd"`
}

// RuleTable is the full 49-rule mapping together with the numeric
// domains of its input and output dimensions. Tables are constructed
// once and shared read-only between all inference calls.
type RuleTable struct {
	ErrorDomain     Domain `json:"errorDomain"`
	ErrorRateDomain Domain `json:"errorRateDomain"`
	DeltaKpDomain   Domain `json:"deltaKpDomain"`
	DeltaKiDomain   Domain `json:"deltaKiDomain"`
	DeltaKdDomain   Domain `json:"deltaKdDomain"`

	Rules []Rule `json:"rules"`
}

// The consequent matrices of the default table, indexed
// [error term][error-rate term].
var (
	defaultDeltaKp = [TermCount][TermCount]Term{
		{PositiveBig, PositiveBig, PositiveMedium, PositiveMedium, PositiveSmall, Zero, Zero},
		{PositiveBig, PositiveBig, PositiveMedium, PositiveSmall, PositiveSmall, Zero, NegativeSmall},
		{PositiveMedium, PositiveMedium, PositiveMedium, PositiveSmall, Zero, NegativeSmall, NegativeSmall},
		{PositiveMedium, PositiveMedium, PositiveSmall, Zero, NegativeSmall, NegativeMedium, NegativeMedium},
		{PositiveSmall, PositiveSmall, Zero, NegativeSmall, NegativeSmall, NegativeMedium, NegativeMedium},
		{PositiveSmall, Zero, NegativeSmall, NegativeMedium, NegativeMedium, NegativeMedium, NegativeBig},
		{Zero, Zero, NegativeMedium, NegativeMedium, NegativeMedium, NegativeBig, NegativeBig},
	}

	defaultDeltaKi = [TermCount][TermCount]Term{
		{NegativeBig, NegativeBig, NegativeMedium, NegativeMedium, NegativeSmall, Zero, Zero},
		{NegativeBig, NegativeBig, NegativeMedium, NegativeSmall, NegativeSmall, Zero, Zero},
		{NegativeBig, NegativeMedium, NegativeSmall, NegativeSmall, Zero, PositiveSmall, PositiveSmall},
		{NegativeMedium, NegativeMedium, NegativeSmall, Zero, PositiveSmall, PositiveMedium, PositiveMedium},
		{NegativeMedium, NegativeSmall, Zero, PositiveSmall, PositiveSmall, PositiveMedium, PositiveBig},
		{Zero, Zero, PositiveSmall, PositiveSmall, PositiveMedium, PositiveBig, PositiveBig},
		{Zero, Zero, PositiveSmall, PositiveMedium, PositiveMedium, PositiveBig, PositiveBig},
	}

	defaultDeltaKd = [TermCount][TermCount]Term{
		{PositiveSmall, NegativeSmall, NegativeBig, NegativeBig, NegativeBig, NegativeMedium, PositiveSmall},
		{PositiveSmall, NegativeSmall, NegativeBig, NegativeMedium, NegativeMedium, NegativeSmall, Zero},
		{Zero, NegativeSmall, NegativeMedium, NegativeMedium, NegativeSmall, NegativeSmall, Zero},
		{Zero, NegativeSmall, NegativeSmall, NegativeSmall, NegativeSmall, NegativeSmall, Zero},
		{Zero, Zero, Zero, Zero, Zero, Zero, Zero},
		{PositiveBig, NegativeSmall, PositiveSmall, PositiveSmall, PositiveSmall, PositiveSmall, PositiveBig},
		{PositiveBig, PositiveMedium, PositiveMedium, PositiveMedium, PositiveSmall, PositiveSmall, PositiveBig},
	}
)

// DefaultRuleTable builds the gain scheduling table commonly used for
// fuzzy PID self tuning, over the domains of the grain temperature
// scenario: error in [-10, 10] °C and error rate in [-0.5, 0.5] °C/h
// (expressed per second here).
func DefaultRuleTable() *RuleTable {
	table := &RuleTable{
		ErrorDomain:     Domain{Min: -10, Max: 10},
		ErrorRateDomain: Domain{Min: -0.5 / 3600, Max: 0.5 / 3600},
		DeltaKpDomain:   Domain{Min: -0.3, Max: 0.3},
		DeltaKiDomain:   Domain{Min: -0.06, Max: 0.06},
		DeltaKdDomain:   Domain{Min: -3, Max: 3},
	}
	for e := 0; e < TermCount; e++ {
		for r := 0; r < TermCount; r++ {
			table.Rules = append(table.Rules, Rule{
				Error:     Term(e),
				ErrorRate: Term(r),
				DeltaKp:   defaultDeltaKp[e][r],
				DeltaKi:   defaultDeltaKi[e][r],
				DeltaKd:   defaultDeltaKd[e][r],
			})
		}
	}
	return table
}
