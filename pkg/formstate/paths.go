package formstate

import (
	"sort"
	"strconv"
	"strings"
)

func flatten(prefix string, values map[string]any, dest map[string]any) {
	for key, value := range values {
		key = cleanPath(key)
		if key == "" {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flatten(path, nested, dest)
			continue
		}
		dest[path] = deepCopy(value)
	}
}

// subtreeOf returns the entries stored below path, keyed by their suffix.
func subtreeOf(values map[string]any, path string) map[string]any {
	prefix := path + "."
	var out map[string]any
	for key, value := range values {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[strings.TrimPrefix(key, prefix)] = value
	}
	return out
}

func expand(flat map[string]any) map[string]any {
	root := make(map[string]any)
	keys := make([]string, 0, len(flat))
	for key := range flat {
		keys = append(keys, key)
	}
	// Shorter paths first so a parent scalar never overwrites its children.
	sort.Slice(keys, func(i, j int) bool {
		return strings.Count(keys[i], ".") < strings.Count(keys[j], ".")
	})

	for _, key := range keys {
		segments := strings.Split(key, ".")
		node := root
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node[segment].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[segment] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = deepCopy(flat[key])
	}
	for key, child := range root {
		root[key] = listify(child)
	}
	return root
}

// listify turns maps keyed only by indexes into slices.
func listify(value any) any {
	node, ok := value.(map[string]any)
	if !ok {
		return value
	}
	for key, child := range node {
		node[key] = listify(child)
	}
	if len(node) == 0 {
		return node
	}

	maxIdx := -1
	for key := range node {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			return node
		}
		if idx > maxIdx {
			maxIdx = idx
		}
	}
	list := make([]any, maxIdx+1)
	for key, child := range node {
		idx, _ := strconv.Atoi(key)
		list[idx] = child
	}
	return list
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}
