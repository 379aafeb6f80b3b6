package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// decode unmarshals data into out and then requires every non-pointer,
// non-omitempty field to be present and non-null, recursively. Unknown keys
// are ignored. A body such as {"detail": "Event not found"} therefore fails
// instead of yielding a zero-valued Event.
func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}

	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return checkRequired(reflect.TypeOf(out).Elem(), raw, "$")
}

func checkRequired(t reflect.Type, v any, path string) error {
	if t.Kind() == reflect.Pointer {
		if v == nil {
			return nil
		}
		return checkRequired(t.Elem(), v, path)
	}
	if v == nil {
		return fmt.Errorf("%s: null where %s expected", path, t)
	}
	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return nil
		}
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected array", path)
		}
		for i, item := range items {
			if err := checkRequired(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}

	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected object", path)
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, opts, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			fv, present := obj[name]
			optional := f.Type.Kind() == reflect.Pointer || strings.Contains(opts, "omitempty")
			if !present {
				if optional {
					continue
				}
				return fmt.Errorf("%s: missing key %q", path, name)
			}
			if optional && fv == nil {
				continue
			}
			if err := checkRequired(f.Type, fv, path+"."+name); err != nil {
				return err
			}
		}
	}
	return nil
}
