package rte

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/louisbranch/scormrte/internal/services/rte/domain/errcode"
	"github.com/louisbranch/scormrte/internal/services/rte/domain/lifecycle"
	"github.com/louisbranch/scormrte/internal/services/rte/logsink"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// legacyArrayKey marks a collection in snapshots written by older hosts:
// {"objectives": {"childArray": [...]}}.
const legacyArrayKey = "childArray"

const loadVerb = "Load"

// ErrLoadAfterInitialize is returned when state is loaded into an instance
// content has already initialized. The instance is left untouched.
var ErrLoadAfterInitialize = errors.New("load is only allowed before Initialize")

// Load seeds the model from a snapshot-shaped tree. Keys are applied in
// schema order, collections may be arrays or legacy childArray objects, and
// empty values are skipped. Read-only elements are skipped silently; other
// element failures are joined into the returned error while loading goes on.
// A tree without a "cmi" or "adl" key is read as the contents of "cmi".
func (a *API) Load(tree map[string]any) error {
	if a.machine.State() != lifecycle.NotInitialized {
		a.sink.Log(loadVerb, "", ErrLoadAfterInitialize.Error(), logsink.LevelWarning)
		return ErrLoadAfterInitialize
	}

	var errs []error
	roots := a.model.Roots()
	hasRoot := false
	for _, root := range roots {
		if _, ok := tree[root]; ok {
			hasRoot = true
		}
	}
	if !hasRoot {
		a.loadValue("cmi", tree, &errs)
	} else {
		for _, root := range roots {
			if v, ok := tree[root]; ok {
				a.loadValue(root, v, &errs)
			}
		}
		for _, key := range sortedKeys(tree) {
			if !slices.Contains(roots, key) {
				errs = append(errs, fmt.Errorf("load %s: unknown namespace", key))
			}
		}
	}
	return errors.Join(errs...)
}

// LoadJSON seeds the model from a JSON snapshot. Numbers keep their literal
// text.
func (a *API) LoadJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("load json: invalid document")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return errors.New("load json: document must be an object")
	}
	tree, _ := fromJSON(doc).(map[string]any)
	return a.Load(tree)
}

// LoadYAML seeds the model from a YAML snapshot.
func (a *API) LoadYAML(data []byte) error {
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("load yaml: %w", err)
	}
	return a.Load(tree)
}

func (a *API) loadValue(path string, value any, errs *[]error) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		if items, ok := v[legacyArrayKey].([]any); ok {
			a.loadItems(path, items, errs)
			return
		}
		for _, key := range a.model.Order(path, sortedKeys(v)) {
			a.loadValue(path+"."+key, v[key], errs)
		}
	case []any:
		a.loadItems(path, v, errs)
	case string:
		a.loadLeaf(path, v, errs)
	case bool:
		a.loadLeaf(path, strconv.FormatBool(v), errs)
	case int:
		a.loadLeaf(path, strconv.Itoa(v), errs)
	case float64:
		a.loadLeaf(path, strconv.FormatFloat(v, 'f', -1, 64), errs)
	default:
		a.loadLeaf(path, fmt.Sprint(v), errs)
	}
}

func (a *API) loadItems(path string, items []any, errs *[]error) {
	for i, item := range items {
		a.loadValue(path+"."+strconv.Itoa(i), item, errs)
	}
}

func (a *API) loadLeaf(path, value string, errs *[]error) {
	if value == "" {
		return
	}
	err := a.model.Set(path, value, lifecycle.NotInitialized)
	switch errcode.KindOf(err) {
	case errcode.NoError:
		a.sink.Log(loadVerb, path, "loaded: "+value, logsink.LevelDebug)
	case errcode.ReadOnlyElement, errcode.ElementIsKeyword:
		a.sink.Log(loadVerb, path, "skipped read only element", logsink.LevelDebug)
	default:
		a.sink.Log(loadVerb, path, err.Error(), logsink.LevelError)
		*errs = append(*errs, fmt.Errorf("load %s: %w", path, err))
	}
}

func fromJSON(r gjson.Result) any {
	switch {
	case r.IsObject():
		out := map[string]any{}
		r.ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = fromJSON(value)
			return true
		})
		return out
	case r.IsArray():
		values := r.Array()
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = fromJSON(v)
		}
		return out
	}
	switch r.Type {
	case gjson.Null:
		return nil
	case gjson.String:
		return r.String()
	default:
		return r.Raw
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
