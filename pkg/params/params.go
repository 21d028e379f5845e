package params

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
)

// Params is an immutable view over parsed request parameters.
type Params struct {
	values map[string]any
}

// Parse converts url.Values into a parameter tree.
func Parse(values url.Values) Params {
	root := make(map[string]any)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		base, path := splitName(name)
		if base == "" {
			continue
		}
		for _, value := range values[name] {
			insert(root, append([]string{base}, path...), value)
		}
	}
	return Params{values: normalize(root).(map[string]any)}
}

// FromMap wraps an already structured parameter map. Nested maps with
// integer keys are normalised into lists.
func FromMap(values map[string]any) Params {
	if values == nil {
		return Params{values: map[string]any{}}
	}
	copied := make(map[string]any, len(values))
	for key, value := range values {
		copied[key] = value
	}
	return Params{values: normalize(copied).(map[string]any)}
}

// Get returns the raw value for name.
func (p Params) Get(name string) (any, bool) {
	if p.values == nil {
		return nil, false
	}
	value, ok := p.values[name]
	return value, ok
}

// Has reports whether name was submitted.
func (p Params) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// String returns a scalar parameter, or fallback when absent or not scalar.
func (p Params) String(name, fallback string) string {
	value, ok := p.Get(name)
	if !ok {
		return fallback
	}
	str, err := scalarString(value)
	if err != nil {
		return fallback
	}
	return str
}

// Int returns an integer parameter, or fallback when absent or unparsable.
func (p Params) Int(name string, fallback int) int {
	value, ok := p.Get(name)
	if !ok {
		return fallback
	}
	return ToInt(value, fallback)
}

// Strings returns a list parameter. A scalar becomes a single element list and
// map values are returned in key order.
func (p Params) Strings(name string) []string {
	value, ok := p.Get(name)
	if !ok {
		return nil
	}
	return ToStrings(value)
}

// Map returns a map parameter keyed by the bracket segment names.
func (p Params) Map(name string) map[string]any {
	value, ok := p.Get(name)
	if !ok {
		return nil
	}
	if m, isMap := value.(map[string]any); isMap {
		return m
	}
	return nil
}

// StringMap returns a map parameter with scalar values stringified. Entries
// holding nested structures are dropped.
func (p Params) StringMap(name string) map[string]string {
	return ToStringMap(p.Map(name))
}

// Rows returns the map entries of a list parameter, skipping non-map items.
func (p Params) Rows(name string) []map[string]any {
	value, ok := p.Get(name)
	if !ok {
		return nil
	}
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case map[string]any:
		if !allIndexKeys(v) {
			items = []any{v}
			break
		}
		for _, key := range sortedKeys(v) {
			items = append(items, v[key])
		}
	default:
		return nil
	}
	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if row, isMap := item.(map[string]any); isMap {
			rows = append(rows, row)
		}
	}
	return rows
}

// All returns a copy of the top level parameter map.
func (p Params) All() map[string]any {
	out := make(map[string]any, len(p.values))
	for key, value := range p.values {
		out[key] = value
	}
	return out
}

// DecodeRow decodes a row into out using mapstructure tags with weak typing,
// so "2" populates an int field and a scalar populates a slice.
func DecodeRow(row map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("params: decoder: %w", err)
	}
	if err := decoder.Decode(row); err != nil {
		return fmt.Errorf("params: decode row: %w", err)
	}
	return nil
}

// ToInt converts a parameter value into an int. Strings are read as base 10:
// "010" is 10 and "2.7" is 2. When the whole string is not a number its
// leading decimal digits are used, so "0x10" is 0 and "3abc" is 3.
func ToInt(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return clampInt(v)
	}
	str, err := scalarString(value)
	if err != nil {
		return fallback
	}
	str = strings.TrimSpace(str)
	if str == "" {
		return fallback
	}
	if n, err := strconv.Atoi(str); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(str, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return clampInt(f)
	}
	return decimalPrefix(str, fallback)
}

func decimalPrefix(str string, fallback int) int {
	end := 0
	if end < len(str) && (str[end] == '-' || str[end] == '+') {
		end++
	}
	digits := end
	for end < len(str) && str[end] >= '0' && str[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	n, err := strconv.Atoi(str[:end])
	if err != nil {
		if str[0] == '-' {
			return math.MinInt
		}
		return math.MaxInt
	}
	return n
}

func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// ToIndexed keys the entries of a list parameter by their submitted index.
// Lists use their positions, maps keep their keys and a scalar is entry "0".
// Entries holding nested structures are dropped.
func ToIndexed(value any) map[string]string {
	out := map[string]string{}
	switch v := value.(type) {
	case nil:
	case []any:
		for idx, item := range v {
			if str, err := scalarString(item); err == nil {
				out[strconv.Itoa(idx)] = str
			}
		}
	case []string:
		for idx, item := range v {
			out[strconv.Itoa(idx)] = item
		}
	case map[string]any:
		for key, item := range v {
			if str, err := scalarString(item); err == nil {
				out[key] = str
			}
		}
	default:
		if str, err := scalarString(v); err == nil {
			out["0"] = str
		}
	}
	return out
}

// ToStrings flattens a parameter value into a list of strings.
func ToStrings(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, err := scalarString(item); err == nil {
				out = append(out, str)
			}
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case map[string]any:
		keys := sortedKeys(v)
		out := make([]string, 0, len(keys))
		for _, key := range keys {
			if str, err := scalarString(v[key]); err == nil {
				out = append(out, str)
			}
		}
		return out
	default:
		str, err := scalarString(v)
		if err != nil {
			return nil
		}
		return []string{str}
	}
}

// ToStringMap converts a map parameter into string values.
func ToStringMap(values map[string]any) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if str, err := scalarString(value); err == nil {
			out[key] = str
		}
	}
	return out
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case map[string]any, []any, []string:
		return "", fmt.Errorf("params: %T is not scalar", v)
	}
	return cast.ToStringE(value)
}

// splitName turns "a[b][]" into ("a", ["b", ""]).
func splitName(name string) (string, []string) {
	open := strings.IndexByte(name, '[')
	if open <= 0 {
		return strings.TrimSpace(name), nil
	}
	base := strings.TrimSpace(name[:open])
	rest := name[open:]

	var path []string
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return base, path
}

func insert(node map[string]any, path []string, value string) {
	key := path[0]
	if len(path) == 1 {
		node[key] = value
		return
	}

	next := path[1]
	if next == "" {
		list, _ := node[key].([]any)
		if len(path) == 2 {
			node[key] = append(list, value)
			return
		}
		child := make(map[string]any)
		insert(child, path[2:], value)
		node[key] = append(list, child)
		return
	}

	child, ok := node[key].(map[string]any)
	if !ok {
		child = make(map[string]any)
		node[key] = child
	}
	insert(child, path[1:], value)
}

func normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			v[key] = normalize(child)
		}
		if len(v) == 0 || !sequentialKeys(v) {
			return v
		}
		keys := sortedKeys(v)
		list := make([]any, 0, len(keys))
		for _, key := range keys {
			list = append(list, v[key])
		}
		return list
	case []any:
		for i, child := range v {
			v[i] = normalize(child)
		}
		return v
	case string, []byte:
		return v
	default:
		rv := reflect.ValueOf(v)
		if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
			list := make([]any, rv.Len())
			for i := range list {
				list[i] = normalize(rv.Index(i).Interface())
			}
			return list
		}
		return v
	}
}

// sequentialKeys reports whether the keys are exactly 0..len-1.
func sequentialKeys(m map[string]any) bool {
	for i := 0; i < len(m); i++ {
		if _, ok := m[strconv.Itoa(i)]; !ok {
			return false
		}
	}
	return true
}

func allIndexKeys(m map[string]any) bool {
	for key := range m {
		n, err := strconv.Atoi(key)
		if err != nil || n < 0 {
			return false
		}
	}
	return true
}

// sortedKeys orders integer keys numerically and the rest lexically.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}
