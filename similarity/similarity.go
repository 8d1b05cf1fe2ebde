package similarity

// winklerScaling is the standard Winkler prefix scaling factor.
const winklerScaling = 0.1

// winklerMaxPrefix caps the common-prefix length rewarded by Jaro-Winkler.
const winklerMaxPrefix = 4

// Levenshtein returns the edit distance between a and b: the minimum number
// of single-rune insertions, deletions, and substitutions needed to turn one
// into the other. Symmetric in its arguments; zero for identical strings.
func Levenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two-row variant of the classic DP matrix.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Jaro returns the Jaro similarity of a and b in [0,1]. Identical strings
// score 1.0; if either string is empty, or no characters match within the
// search window, the similarity is 0.
func Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	window := maxInt(len(ra), len(rb))/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(ra))
	bMatched := make([]bool, len(rb))

	matches := 0
	for i, c := range ra {
		lo := maxInt(0, i-window)
		hi := minInt(len(rb)-1, i+window)
		for j := lo; j <= hi; j++ {
			if bMatched[j] || rb[j] != c {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Count transpositions among matched characters, in order.
	transpositions := 0
	j := 0
	for i, ok := range aMatched {
		if !ok {
			continue
		}
		for !bMatched[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	t := float64(transpositions)
	return (m/float64(len(ra)) + m/float64(len(rb)) + (m-t/2)/m) / 3
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b: the Jaro
// similarity boosted by up to four runes of common prefix.
func JaroWinkler(a, b string) float64 {
	j := Jaro(a, b)
	return j + winklerScaling*float64(commonPrefixLen(a, b, winklerMaxPrefix))*(1-j)
}

// commonPrefixLen counts the runes shared at the start of a and b, up to max.
func commonPrefixLen(a, b string, max int) int {
	ra := []rune(a)
	rb := []rune(b)
	n := 0
	for n < max && n < len(ra) && n < len(rb) && ra[n] == rb[n] {
		n++
	}
	return n
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
