package fuzzy

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestMembershipGradeAtPeak(t *testing.T) {
	// GIVEN
	m := Membership{Left: -1, Peak: 0, Right: 1}

	// WHEN
	grade := m.Grade(0)

	// THEN
	assert.Equal(t, 1.0, grade)
}

func TestMembershipGradeOnSlopes(t *testing.T) {
	// GIVEN
	m := Membership{Left: -1, Peak: 0, Right: 1}

	// WHEN / THEN
	assert.Equal(t, 0.5, m.Grade(-0.5))
	assert.Equal(t, 0.5, m.Grade(0.5))
}

func TestMembershipGradeOutsideSupport(t *testing.T) {
	// GIVEN
	m := Membership{Left: -1, Peak: 0, Right: 1}

	// WHEN / THEN
	assert.Equal(t, 0.0, m.Grade(-2))
	assert.Equal(t, 0.0, m.Grade(2))
	assert.Equal(t, 0.0, m.Grade(-1))
	assert.Equal(t, 0.0, m.Grade(1))
}

func TestMembershipCentroid(t *testing.T) {
	// GIVEN
	m := Membership{Left: 0, Peak: 1, Right: 2}

	// WHEN
	centroid := m.Centroid()

	// THEN
	assert.Equal(t, 1.0, centroid)
}

func TestDomainPartitionCoversDomain(t *testing.T) {
	// GIVEN
	d := Domain{Min: -10, Max: 10}

	// WHEN
	terms := d.Partition()

	// THEN
	// peaks are evenly spaced from Min to Max
	assert.Equal(t, -10.0, terms[NegativeBig].Peak)
	assert.Equal(t, 0.0, terms[Zero].Peak)
	assert.Equal(t, 10.0, terms[PositiveBig].Peak)

	// every point of the domain has a positive grade in some term
	for x := -10.0; x <= 10.0; x += 0.25 {
		covered := false
		for _, term := range terms {
			if term.Grade(x) > 0 {
				covered = true
				break
			}
		}
		assert.True(t, covered, "x = %f is not covered", x)
	}
}

func TestParseTerm(t *testing.T) {
	// GIVEN
	names := []string{"NB", "NM", "NS", "ZE", "PS", "PM", "PB"}

	// WHEN / THEN
	for i, name := range names {
		term, err := ParseTerm(name)
		assert.NoError(t, err)
		assert.Equal(t, Term(i), term)
	}

	_, err := ParseTerm("XL")
	assert.Error(t, err)
}
