package utils

// BatchSize is the maximum number of offer objects the POS gateway accepts
// in one create/update call.
const BatchSize = 300

// GenerateBatch splits items into chunks of at most size elements. A size
// below 1 yields the whole slice as a single batch.
func GenerateBatch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size < 1 {
		return [][]T{items}
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
