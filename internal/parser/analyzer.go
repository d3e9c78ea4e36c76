package parser

import (
	"fmt"
	"sort"

	"tariffwatch/internal/model"
)

// Attribute keys recognized across source sensors.
const (
	attrData          = "data"
	attrRawToday      = "raw_today"
	attrRawTomorrow   = "raw_tomorrow"
	attrTomorrowValid = "tomorrow_valid"
	attrStartTime     = "start_time"
	attrEndTime       = "end_time"
	attrPricePerKWh   = "price_per_kwh"
	attrHour          = "hour"
	attrPrice         = "price"
)

// Classify inspects a source attribute snapshot and decides which known
// format it carries. Checks run in strict priority order and the first
// match wins: an EPEX-style "data" array beats an hourly "raw_today"
// array when both are present. Only the first array element is inspected;
// malformed later elements are a per-element parse concern, not a
// classification concern.
func Classify(attrs map[string]any) model.Classification {
	if first, ok := firstEntry(attrs, attrData); ok {
		if hasKeys(first, attrStartTime, attrEndTime) && hasAnyKey(first, attrPricePerKWh, attrPrice) {
			return model.Classification{
				Shape:  model.ShapeEpex,
				Reason: fmt.Sprintf("%q array with start/end/price entries", attrData),
			}
		}
	}

	if first, ok := firstEntry(attrs, attrRawToday); ok {
		if hasKeys(first, attrHour, attrPrice) {
			return model.Classification{
				Shape:  model.ShapeHourly,
				Reason: fmt.Sprintf("%q array with hour/price entries", attrRawToday),
			}
		}
	}

	return model.Classification{
		Shape:   model.ShapeUnknown,
		Reason:  "attributes match no known price source format",
		Details: diagnose(attrs),
	}
}

// firstEntry resolves a candidate array attribute and returns its first
// element as a mapping, when all of that holds.
func firstEntry(attrs map[string]any, name string) (map[string]any, bool) {
	v, ok := resolveValue(attrs, name)
	if !ok {
		return nil, false
	}
	list, ok := listValue(v)
	if !ok || len(list) == 0 {
		return nil, false
	}
	return mapValue(list[0])
}

func hasKeys(entry map[string]any, names ...string) bool {
	for _, name := range names {
		if _, ok := ResolveKey(entry, name); !ok {
			return false
		}
	}
	return true
}

func hasAnyKey(entry map[string]any, names ...string) bool {
	for _, name := range names {
		if _, ok := ResolveKey(entry, name); ok {
			return true
		}
	}
	return false
}

// diagnose collects enough context for a human to see why classification
// failed: every top-level key, plus element type and first-element keys
// for the candidate arrays that do exist.
func diagnose(attrs map[string]any) map[string]any {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	details := map[string]any{"keys": keys}

	for _, name := range []string{attrData, attrRawToday} {
		v, ok := resolveValue(attrs, name)
		if !ok {
			continue
		}
		info := map[string]any{"type": fmt.Sprintf("%T", v)}
		if list, ok := listValue(v); ok {
			info["length"] = len(list)
			if len(list) > 0 {
				info["element_type"] = fmt.Sprintf("%T", list[0])
				if first, ok := mapValue(list[0]); ok {
					entryKeys := make([]string, 0, len(first))
					for k := range first {
						entryKeys = append(entryKeys, k)
					}
					sort.Strings(entryKeys)
					info["entry_keys"] = entryKeys
				}
			}
		}
		details[name] = info
	}
	return details
}
