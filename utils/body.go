package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
)

// MaxBodyBytes bounds every request body the API decodes.
const MaxBodyBytes = 1 << 20

var ErrBadJSON = errors.New("invalid JSON body")

// ReadBody returns the raw request body. An empty body reads as "{}".
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return []byte("{}"), nil
	}
	return body, nil
}

// DecodeObject parses body as a JSON object keyed by field name.
func DecodeObject(body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%w: expected an object", ErrBadJSON)
	}
	return fields, nil
}

// MergeJSON overlays patch onto the JSON form of dst and decodes the result
// back into dst. Objects merge key by key; arrays and scalars are replaced.
func MergeJSON(dst any, patch []byte) error {
	base, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	var current map[string]any
	if err := json.Unmarshal(base, &current); err != nil {
		return err
	}
	var overlay map[string]any
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	if overlay == nil {
		return fmt.Errorf("%w: expected an object", ErrBadJSON)
	}

	merged, err := json.Marshal(mergeMaps(current, overlay))
	if err != nil {
		return err
	}
	// decode into a zeroed value so old slice elements do not leak through
	v := reflect.ValueOf(dst).Elem()
	v.Set(reflect.Zero(v.Type()))
	if err := json.Unmarshal(merged, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJSON, err)
	}
	return nil
}

func mergeMaps(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		sub, isObj := v.(map[string]any)
		cur, wasObj := dst[k].(map[string]any)
		if isObj && wasObj {
			dst[k] = mergeMaps(cur, sub)
			continue
		}
		dst[k] = v
	}
	return dst
}
