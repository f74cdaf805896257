package filter

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseQuery expands bracketed query keys into nested maps.
//
//	price[gte]=10            => {"price": {"gte": "10"}}
//	category[in][]=a&...[]=b => {"category": {"in": ["a", "b"]}}
//	category[in][1]=b&...[0]=a => {"category": {"in": ["a", "b"]}}
//	q=beach                  => {"q": "beach"}
//
// Keys with malformed brackets are kept verbatim as plain keys. Repeated
// plain keys become a list of strings.
func ParseQuery(values url.Values) map[string]any {
	result := make(map[string]any)
	keys := lo.Keys(values)
	sort.Strings(keys)
	for _, key := range keys {
		vals := values[key]
		if len(vals) == 0 {
			continue
		}
		path, appendMode, ok := splitKey(key)
		if !ok {
			setLeaf(result, key, vals, false)
			continue
		}
		node := result
		for _, seg := range path[:len(path)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		setLeaf(node, path[len(path)-1], vals, appendMode)
	}
	for k, v := range result {
		result[k] = listify(v)
	}
	return result
}

func setLeaf(node map[string]any, leaf string, vals []string, appendMode bool) {
	if appendMode {
		list, _ := node[leaf].([]any)
		for _, v := range vals {
			list = append(list, v)
		}
		node[leaf] = list
		return
	}
	if len(vals) == 1 {
		node[leaf] = vals[0]
		return
	}
	node[leaf] = lo.ToAnySlice(vals)
}

// splitKey splits "a[b][c][]" into ["a","b","c"] with appendMode set.
func splitKey(key string) (path []string, appendMode bool, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 {
		return []string{key}, false, open < 0 && key != ""
	}
	path = append(path, key[:open])
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return nil, false, false
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, false, false
		}
		seg := rest[1:end]
		rest = rest[end+1:]
		if seg == "" {
			if rest != "" {
				return nil, false, false
			}
			appendMode = true
			break
		}
		if strings.ContainsAny(seg, "[") {
			return nil, false, false
		}
		path = append(path, seg)
	}
	return path, appendMode, true
}

// listify turns maps whose keys are all non-negative integers into lists
// ordered by index.
func listify(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = listify(item)
		}
		if len(val) == 0 {
			return val
		}
		indexes := make([]int, 0, len(val))
		byIndex := make(map[int]any, len(val))
		for k, item := range val {
			i, err := strconv.Atoi(k)
			if err != nil || i < 0 {
				return val
			}
			indexes = append(indexes, i)
			byIndex[i] = item
		}
		sort.Ints(indexes)
		return lo.Map(indexes, func(i int, _ int) any { return byIndex[i] })
	case []any:
		for i, item := range val {
			val[i] = listify(item)
		}
		return val
	default:
		return v
	}
}
