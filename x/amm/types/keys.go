package types

// SortAssets returns the two asset identifiers in canonical order under the
// lexicographic total order, plus whether the inputs were swapped. The
// canonical (low, high) ordering is what makes one pair per unordered asset
// combination possible.
func SortAssets(assetA, assetB string) (low, high string, swapped bool) {
	if assetA > assetB {
		return assetB, assetA, true
	}
	return assetA, assetB, false
}

// PairKey builds the registry key for a canonical asset pair. Valid denoms
// cannot contain '|', so the key is collision-free.
func PairKey(assetLow, assetHigh string) string {
	return assetLow + "|" + assetHigh
}
