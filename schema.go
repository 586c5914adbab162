package reactive

import (
	"fmt"
	"sort"
	"strings"
)

// PathDescriptor describes one subscribable dotted path and the inferred kind
// of the value currently stored there.
type PathDescriptor struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
}

// Schema flattens the namespace's current data tree into sorted path
// descriptors. Arrays are atomic leaves, matching what the mutation pipeline
// observes, so they appear as a single descriptor rather than per element.
// UI consumers use this to discover paths worth subscribing to.
func (s *State) Schema() []PathDescriptor {
	descriptors := derivePathDescriptors(s.data, "")
	if descriptors == nil {
		descriptors = []PathDescriptor{}
	}
	return descriptors
}

func derivePathDescriptors(value any, prefix string) []PathDescriptor {
	if value == nil {
		if prefix == "" {
			return nil
		}
		return []PathDescriptor{{Path: prefix, Kind: "nil"}}
	}

	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []PathDescriptor{{Path: prefix, Kind: "map[string]any"}}
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var descriptors []PathDescriptor
		for _, key := range keys {
			descriptors = append(descriptors, derivePathDescriptors(typed[key], joinPath(prefix, key))...)
		}
		return descriptors
	case []any:
		elementKind := "any"
		if len(typed) > 0 {
			elementKind = kindName(typed[0])
		}
		return []PathDescriptor{{Path: prefix, Kind: "[]" + elementKind}}
	default:
		if prefix == "" {
			return nil
		}
		return []PathDescriptor{{Path: prefix, Kind: kindName(typed)}}
	}
}

func kindName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}
