package fm

// NumOperators is the fixed operator count this engine uses. The spec
// allows an implementer to pick 5 or 6 operators as long as all 32
// algorithm topologies remain internally consistent; this engine keeps
// the full DX7-style six.
const NumOperators = 6

// Algorithm is one of the 32 fixed modulation-matrix topologies. Matrix[i][j]
// is the weight with which operator j modulates operator i (spec §4.4).
// Carriers have no outgoing modulation edge and sum into the voice mixer.
type Algorithm struct {
	Matrix   [NumOperators][NumOperators]float64
	Carriers [NumOperators]bool
	// Order lists operator indices such that every operator appears after
	// every operator that modulates it, so a single pass through Order
	// always has modulator outputs ready before their consumers read them.
	Order [NumOperators]int
}

// Algorithms is the static table of 32 topologies, immutable after
// package init and shared across every engine instance (spec §5: static
// lookup tables may be shared across instances).
var Algorithms [32]Algorithm

func init() {
	// Compositions of NumOperators=6 into consecutive chain groups give
	// exactly 2^(N-1) = 32 distinct groupings, each a different routing
	// topology: a bitmask over the 5 internal boundaries selects where a
	// chain breaks. Mask 0 (no breaks) is the single chain of all six
	// operators; mask 31 (every boundary cut) is six independent carriers,
	// i.e. all-parallel additive; a mask that cuts only at boundary 2
	// yields two parallel stacks of depth three, and a mask cutting at
	// boundaries 1 and 3 yields three parallel stacks of depth two —
	// covering every canonical topology the spec requires except the
	// one-to-many star, which is special-cased below at index 16.
	for mask := 0; mask < 32; mask++ {
		Algorithms[mask] = buildFromMask(mask)
	}
	Algorithms[16] = buildStar(5, []int{0, 1, 2, 3, 4})
}

// buildFromMask builds the algorithm for a 5-bit boundary mask: bit i set
// means operators i and i+1 belong to different chains. Each resulting
// group [a, a+1, ..., b] is wired as a modulates a+1 modulates ... modulates
// b, with b (the highest index in the group) the carrier.
func buildFromMask(mask int) Algorithm {
	var algo Algorithm
	start := 0
	groups := make([][]int, 0, NumOperators)
	for i := 0; i < NumOperators-1; i++ {
		if mask&(1<<uint(i)) != 0 {
			groups = append(groups, consecutive(start, i))
			start = i + 1
		}
	}
	groups = append(groups, consecutive(start, NumOperators-1))

	for _, g := range groups {
		for k := 0; k < len(g)-1; k++ {
			algo.Matrix[g[k+1]][g[k]] = 1.0
		}
		algo.Carriers[g[len(g)-1]] = true
	}
	algo.Order = topoOrder(algo.Matrix)
	return algo
}

// buildStar wires modulator to modulate every operator listed in carriers
// directly (the DX7 "piano" layout: one modulator feeding many carriers).
func buildStar(modulator int, carriers []int) Algorithm {
	var algo Algorithm
	for _, c := range carriers {
		algo.Matrix[c][modulator] = 1.0
		algo.Carriers[c] = true
	}
	algo.Order = topoOrder(algo.Matrix)
	return algo
}

func consecutive(a, b int) []int {
	out := make([]int, 0, b-a+1)
	for i := a; i <= b; i++ {
		out = append(out, i)
	}
	return out
}

// topoOrder returns an operator visiting order consistent with matrix: any
// operator with an incoming edge from j appears after j. Built once at
// init time with a simple Kahn's-algorithm pass; never invoked from the
// audio path.
func topoOrder(matrix [NumOperators][NumOperators]float64) [NumOperators]int {
	inDegree := [NumOperators]int{}
	for i := 0; i < NumOperators; i++ {
		for j := 0; j < NumOperators; j++ {
			if matrix[i][j] != 0 {
				inDegree[i]++
			}
		}
	}
	var order [NumOperators]int
	visited := [NumOperators]bool{}
	pos := 0
	for pos < NumOperators {
		progressed := false
		for i := 0; i < NumOperators; i++ {
			if visited[i] || inDegree[i] > 0 {
				continue
			}
			visited[i] = true
			order[pos] = i
			pos++
			progressed = true
			for k := 0; k < NumOperators; k++ {
				if matrix[k][i] != 0 {
					inDegree[k]--
				}
			}
		}
		if !progressed {
			// A cycle beyond simple self-feedback shouldn't occur from
			// buildFromMask/buildStar; fall back to index order so init
			// never hangs.
			for i := 0; i < NumOperators; i++ {
				if !visited[i] {
					order[pos] = i
					pos++
				}
			}
			break
		}
	}
	return order
}
