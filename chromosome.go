package polyld

import "strings"

// CompareChrom orders chromosome names the way the sorted-input contract
// requires: plain lexical order, matching `sort -k1,1`.
func CompareChrom(a, b string) int {
	return strings.Compare(a, b)
}

// compareSiteKey orders (chromosome, position) pairs lexically by
// chromosome, then ascending by position, matching `sort -k1,1 -k2,2n`.
func compareSiteKey(chromA string, posA int, chromB string, posB int) int {
	if c := CompareChrom(chromA, chromB); c != 0 {
		return c
	}
	switch {
	case posA < posB:
		return -1
	case posA > posB:
		return 1
	}

	return 0
}
