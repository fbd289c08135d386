package sync

import (
	"errors"
	"sort"

	"github.com/tidwall/gjson"
)

var ErrNotJSONObject = errors.New("document is not a JSON object")

// TopLevelKeys returns the top-level keys of a JSON object document.
func TopLevelKeys(doc []byte) ([]string, error) {
	if !gjson.ValidBytes(doc) {
		return nil, ErrNotJSONObject
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, ErrNotJSONObject
	}

	var keys []string
	root.ForEach(func(key, _ gjson.Result) bool {
		keys = append(keys, key.String())
		return true
	})
	return keys, nil
}

// MissingModels returns the model IDs present in pricing but absent from
// general, excluding reserved keys, sorted lexicographically.
func MissingModels(pricing, general []byte, reserved map[string]bool) ([]string, error) {
	pricingKeys, err := TopLevelKeys(pricing)
	if err != nil {
		return nil, err
	}
	generalKeys, err := TopLevelKeys(general)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(generalKeys))
	for _, key := range generalKeys {
		if !reserved[key] {
			present[key] = true
		}
	}

	var missing []string
	seen := make(map[string]bool, len(pricingKeys))
	for _, key := range pricingKeys {
		if reserved[key] || present[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, key)
	}
	sort.Strings(missing)
	return missing, nil
}
