package deepcopy

// Merge composes trees ordered from strongest to weakest, returning a new
// tree that keeps explicit entries from stronger trees while filling missing
// keys from weaker ones. Nested maps merge recursively; every other value is
// atomic and the strongest occurrence wins. The inputs are never mutated.
func Merge(trees ...map[string]any) map[string]any {
	if len(trees) == 0 {
		return map[string]any{}
	}

	merged := Clone(trees[len(trees)-1])
	if merged == nil {
		merged = map[string]any{}
	}
	for i := len(trees) - 2; i >= 0; i-- {
		merged = mergeTree(trees[i], merged)
	}
	return merged
}

func mergeTree(strong, weak map[string]any) map[string]any {
	if strong == nil {
		return weak
	}
	result := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		result[key] = value
	}
	for key, value := range strong {
		strongChild, strongIsMap := value.(map[string]any)
		weakChild, weakIsMap := result[key].(map[string]any)
		if strongIsMap && weakIsMap {
			result[key] = mergeTree(Clone(strongChild), weakChild)
			continue
		}
		result[key] = Clone(value)
	}
	return result
}
