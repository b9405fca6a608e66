package dto

import "encoding/json"

// marshalWithExtras encodes v and then adds every extra key that v does not
// already define. Known fields always win over stored extras.
func marshalWithExtras(v interface{}, extras map[string]interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil || len(extras) == 0 {
		return data, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range extras {
		if _, ok := fields[key]; ok {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}
