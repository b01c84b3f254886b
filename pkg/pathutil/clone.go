package pathutil

// DeepClone copies decoded data. Maps and slices are copied recursively;
// every other value is returned as-is.
func DeepClone(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return DeepCloneMap(val)
	case []interface{}:
		return deepCloneSlice(val)
	default:
		return v
	}
}

// DeepCloneMap creates a deep copy of a map.
func DeepCloneMap(source map[string]interface{}) map[string]interface{} {
	if source == nil {
		return nil
	}
	result := make(map[string]interface{}, len(source))
	for k, v := range source {
		result[k] = DeepClone(v)
	}
	return result
}

// deepCloneSlice creates a deep copy of a slice.
func deepCloneSlice(source []interface{}) []interface{} {
	if source == nil {
		return nil
	}
	result := make([]interface{}, len(source))
	for i, v := range source {
		result[i] = DeepClone(v)
	}
	return result
}
