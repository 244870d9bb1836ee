package upstream

import (
	"bytes"
	"encoding/json"
	"unicode"
	"unicode/utf8"
)

// The backend answers some endpoint families with an envelope and others with
// a bare array or object. Both shapes are decoded here so nothing downstream
// has to care.
type envelope struct {
	Success  *bool           `json:"success"`
	Exitoso  *bool           `json:"exitoso"`
	Message  string          `json:"message"`
	Mensaje  string          `json:"mensaje"`
	Data     json.RawMessage `json:"data"`
	Registro json.RawMessage `json:"registro"`
}

func parseBody(b []byte) *Result {
	res := &Result{Success: true}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return res
	}

	if b[0] == '{' {
		var env envelope
		if err := json.Unmarshal(b, &env); err == nil && (env.Success != nil || env.Exitoso != nil) {
			ok := false
			if env.Success != nil {
				ok = *env.Success
			} else {
				ok = *env.Exitoso
			}
			res.Success = ok
			res.Message = env.Message
			if res.Message == "" {
				res.Message = env.Mensaje
			}
			res.Data = env.Data
			if len(res.Data) == 0 {
				res.Data = env.Registro
			}
			return res
		}
	}

	// bare payload
	res.Data = b
	return res
}

// canonicalKeys are Spanish or PascalCase spellings the backend emits
// interchangeably, mapped once to the names the entity structs use.
var canonicalKeys = map[string]string{
	"nombre":        "name",
	"descripcion":   "description",
	"activo":        "active",
	"estado":        "active",
	"fechacreacion": "createdAt",
	"valor":         "value",
	"documento":     "document",
	"correo":        "email",
	"telefono":      "phone",
	"direccion":     "address",
	"precio":        "price",
	"cantidad":      "quantity",
	"total":         "total",
	"idrol":         "roleId",
	"rol":           "role",
}

// NormalizeKeys rewrites object keys recursively: first rune lowered, then the
// canonical alias applied. Arrays are walked element by element.
func NormalizeKeys(raw json.RawMessage) json.RawMessage {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	out, err := json.Marshal(normalizeValue(v))
	if err != nil {
		return raw
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[normalizeKey(k)] = normalizeValue(val)
		}
		return m
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	default:
		return v
	}
}

func normalizeKey(k string) string {
	if k == "" {
		return k
	}
	r, size := utf8.DecodeRuneInString(k)
	lowered := string(unicode.ToLower(r)) + k[size:]
	if canon, ok := canonicalKeys[lower(lowered)]; ok {
		return canon
	}
	return lowered
}

func lower(s string) string {
	b := make([]rune, 0, len(s))
	for _, r := range s {
		b = append(b, unicode.ToLower(r))
	}
	return string(b)
}

// DecodeList unmarshals a normalized payload into a slice, accepting either a
// JSON array or a single object.
func DecodeList[T any](raw json.RawMessage) ([]T, error) {
	raw = NormalizeKeys(raw)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var one T
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, err
	}
	return []T{one}, nil
}

// DecodeOne unmarshals a normalized payload into a single value.
func DecodeOne[T any](raw json.RawMessage) (*T, error) {
	raw = NormalizeKeys(raw)
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
