package configuration

type FuzzySetConfig struct {
	ID string `json:"id"`

	// domains default to the grain temperature scenario bounds when
	// omitted
	ErrorDomain     *DomainConfig `json:"errorDomain,omitempty"`
	ErrorRateDomain *DomainConfig `json:"errorRateDomain,omitempty"`
	DeltaKpDomain   *DomainConfig `json:"deltaKpDomain,omitempty"`
	DeltaKiDomain   *DomainConfig `json:"deltaKiDomain,omitempty"`
	DeltaKdDomain   *DomainConfig `json:"deltaKdDomain,omitempty"`

	// consequent matrices as 7 rows of 7 linguistic terms, rows
	// indexed by the error term, columns by the error-rate term;
	// empty selects the built-in default matrix
	DeltaKp []TermRow `json:"deltaKp,omitempty"`
	DeltaKi []TermRow `json:"deltaKi,omitempty"`
	DeltaKd []TermRow `json:"deltaKd,omitempty"`
}

type DomainConfig struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
