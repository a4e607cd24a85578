package fuzzy

import "fmt"

// Engine performs Mamdani-style inference over a RuleTable: rule
// firing strengths are the minimum of the antecedent memberships, and
// each output dimension is defuzzified as the firing-strength-weighted
// centroid of the consequent terms.
type Engine struct {
	table *RuleTable

	errorTerms     [TermCount]Membership
	errorRateTerms [TermCount]Membership
	deltaKpTerms   [TermCount]Membership
	deltaKiTerms   [TermCount]Membership
	deltaKdTerms   [TermCount]Membership
}

func NewEngine(table *RuleTable) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("rule table must not be nil")
	}
	if len(table.Rules) <= 0 {
		return nil, fmt.Errorf("rule table must contain at least one rule")
	}
	if table.ErrorDomain.Max <= table.ErrorDomain.Min {
		return nil, fmt.Errorf("error domain is empty")
	}
	if table.ErrorRateDomain.Max <= table.ErrorRateDomain.Min {
		return nil, fmt.Errorf("error rate domain is empty")
	}

	return &Engine{
		table:          table,
		errorTerms:     table.ErrorDomain.Partition(),
		errorRateTerms: table.ErrorRateDomain.Partition(),
		deltaKpTerms:   table.DeltaKpDomain.Partition(),
		deltaKiTerms:   table.DeltaKiDomain.Partition(),
		deltaKdTerms:   table.DeltaKdDomain.Partition(),
	}, nil
}

// Infer evaluates all rules for the given error and error rate and
// returns the defuzzified gain adjustments. Inputs outside the table
// domains are clamped to the nearest bound. When no rule fires at all
// the adjustment is zero.
func (e *Engine) Infer(err float64, errRate float64) (deltaKp float64, deltaKi float64, deltaKd float64) {
	err = clampToDomain(err, e.table.ErrorDomain)
	errRate = clampToDomain(errRate, e.table.ErrorRateDomain)

	var kpNum, kiNum, kdNum, weightSum float64
	for _, rule := range e.table.Rules {
		strength := min(
			e.errorTerms[rule.Error].Grade(err),
			e.errorRateTerms[rule.ErrorRate].Grade(errRate),
		)
		if strength <= 0 {
			continue
		}
		weightSum += strength
		kpNum += strength * e.deltaKpTerms[rule.DeltaKp].Centroid()
		kiNum += strength * e.deltaKiTerms[rule.DeltaKi].Centroid()
		kdNum += strength * e.deltaKdTerms[rule.DeltaKd].Centroid()
	}

	if weightSum <= 0 {
		return 0, 0, 0
	}
	return kpNum / weightSum, kiNum / weightSum, kdNum / weightSum
}

func clampToDomain(value float64, domain Domain) float64 {
	if value < domain.Min {
		return domain.Min
	}
	if value > domain.Max {
		return domain.Max
	}
	return value
}
