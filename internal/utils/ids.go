package utils

// LowestAvailableID returns the smallest positive integer missing from ids.
// ids must be sorted ascending and hold positive values.
func LowestAvailableID(ids []int) int {
	for i, id := range ids {
		if id != i+1 {
			return i + 1
		}
	}
	return len(ids) + 1
}
