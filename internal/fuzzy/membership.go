package fuzzy

// Membership is a triangular membership function parameterized by its
// three breakpoints. Grade is zero outside [Left, Right] and one at Peak.
type Membership struct {
	Left  float64 `json:"left"`
	Peak  float64 `json:"peak"`
	Right float64 `json:"right"`
}

func (m Membership) Grade(x float64) float64 {
	if x <= m.Left || x >= m.Right {
		// the peaks of the outermost terms sit on the domain bounds,
		// inputs are clamped to the domain before evaluation
		if x == m.Peak {
			return 1
		}
		return 0
	}
	if x == m.Peak {
		return 1
	}
	if x < m.Peak {
		return (x - m.Left) / (m.Peak - m.Left)
	}
	return (m.Right - x) / (m.Right - m.Peak)
}

// Centroid returns the center of gravity of the triangle.
func (m Membership) Centroid() float64 {
	return (m.Left + m.Peak + m.Right) / 3
}

// Domain is a bounded numeric range partitioned into the seven
// linguistic terms.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Partition lays out one triangular membership function per linguistic
// term, with peaks evenly spaced across the domain and each triangle
// reaching the peaks of its neighbours.
func (d Domain) Partition() [TermCount]Membership {
	var result [TermCount]Membership
	step := (d.Max - d.Min) / float64(TermCount-1)
	for i := 0; i < TermCount; i++ {
		peak := d.Min + float64(i)*step
		result[i] = Membership{
			Left:  peak - step,
			Peak:  peak,
			Right: peak + step,
		}
	}
	return result
}
