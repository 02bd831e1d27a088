package strategy

// RotationOffset computes the index of the bucket visited first for the
// next allocation.
//
// The offset advances by one with every completed assignment so that each
// bucket takes the lead position equally often across participants. It is a
// pure function, unit-testable independent of storage.
//
// Parameters:
//   - completed: Number of prior committed assignments under the active
//     condition or group key
//   - bucketCount: Number of stratification buckets
//
// Returns:
//   - int: Offset in [0, bucketCount), or 0 when bucketCount <= 0
func RotationOffset(completed, bucketCount int) int {
	if bucketCount <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}

	return completed % bucketCount
}
