package rating

import (
	"fmt"
	"math"
)

// Item is a rated film as far as aggregation is concerned.
//
// A nil Rating is counted as 0. A nil Director marks the item as not yet
// watched; such items are left out of Average and Histogram.
type Item struct {
	Rating   *float64
	Director *string
}

// NewItem builds an item with both fields present.
func NewItem(rating float64, director string) Item {
	return Item{Rating: &rating, Director: &director}
}

// HasDirector reports whether the item takes part in aggregation.
func (i Item) HasDirector() bool {
	return i.Director != nil
}

// Value returns the rating, substituting 0 when it is absent.
func (i Item) Value() float64 {
	if i.Rating == nil {
		return 0
	}
	return *i.Rating
}

// Field names read by ItemFromMap.
const (
	FieldRating   = "rating"
	FieldDirector = "director"
)

// ItemFromMap reads the rating and director fields of a data record.
//
// A missing or null rating leaves Rating nil. Any numeric rating is accepted;
// other types are reported as invalid input instead of being coerced to 0.
// A director is present when the key exists with a non-null value.
func ItemFromMap(m map[string]any) (Item, error) {
	var item Item

	if raw, ok := m[FieldRating]; ok && raw != nil {
		v, err := toFloat(raw)
		if err != nil {
			return Item{}, err
		}
		item.Rating = &v
	}

	if raw, ok := m[FieldDirector]; ok && raw != nil {
		var d string
		if s, isString := raw.(string); isString {
			d = s
		} else {
			d = fmt.Sprint(raw)
		}
		item.Director = &d
	}

	return item, nil
}

// ItemsFrom converts a template value into items. It accepts []Item,
// []map[string]any and []any whose elements are Item or map[string]any.
// A nil value yields no items.
func ItemsFrom(v any) ([]Item, error) {
	switch list := v.(type) {
	case nil:
		return nil, nil
	case []Item:
		return list, nil
	case []map[string]any:
		items := make([]Item, 0, len(list))
		for i, m := range list {
			item, err := ItemFromMap(m)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	case []any:
		items := make([]Item, 0, len(list))
		for i, elem := range list {
			switch e := elem.(type) {
			case Item:
				items = append(items, e)
			case map[string]any:
				item, err := ItemFromMap(e)
				if err != nil {
					return nil, fmt.Errorf("item %d: %w", i, err)
				}
				items = append(items, item)
			default:
				typeName := fmt.Sprintf("%T", elem)
				return nil, invalidInput(fmt.Sprintf("item %d: expected a mapping, got %s", i, typeName), typeName)
			}
		}
		return items, nil
	default:
		typeName := fmt.Sprintf("%T", v)
		return nil, invalidInput("rated items: expected a list, got "+typeName, typeName)
	}
}

func toFloat(raw any) (float64, error) {
	switch n := raw.(type) {
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float32:
		return toFloat(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, invalidInput("rating field must be a finite number", "float64")
		}
		return n, nil
	default:
		typeName := fmt.Sprintf("%T", raw)
		return 0, invalidInput("rating field must be numeric, got "+typeName, typeName)
	}
}
