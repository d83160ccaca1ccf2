package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ValueKind is the closed set of value types a column can declare. A kind is
// resolved once from its name when the column is created and never rebuilt
// from free-form type strings afterwards.
type ValueKind string

// Supported value kinds.
const (
	KindString  ValueKind = "string"
	KindInt     ValueKind = "int"
	KindInt64   ValueKind = "int64"
	KindFloat64 ValueKind = "float64"
	KindBool    ValueKind = "bool"
	KindTime    ValueKind = "time"
	KindUUID    ValueKind = "uuid"
	KindBytes   ValueKind = "bytes"
)

// ValueKinds lists every supported kind.
var ValueKinds = []ValueKind{
	KindString, KindInt, KindInt64, KindFloat64,
	KindBool, KindTime, KindUUID, KindBytes,
}

// ErrUnknownValueKind is returned when a kind name is not recognized.
var ErrUnknownValueKind = errors.New("unknown value kind")

// ParseValueKind resolves a kind by name.
func ParseValueKind(name string) (ValueKind, error) {
	for _, k := range ValueKinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownValueKind, name)
}

// Valid reports whether k is one of ValueKinds.
func (k ValueKind) Valid() bool {
	_, err := ParseValueKind(string(k))
	return err == nil
}

// Matches reports whether the runtime type of v is exactly the type k
// declares. A nil value never matches, and neither does a NaN or infinite
// float64: neither has a JSON form.
func (k ValueKind) Matches(v any) bool {
	switch v := v.(type) {
	case string:
		return k == KindString
	case int:
		return k == KindInt
	case int64:
		return k == KindInt64
	case float64:
		return k == KindFloat64 && !math.IsNaN(v) && !math.IsInf(v, 0)
	case bool:
		return k == KindBool
	case time.Time:
		return k == KindTime
	case uuid.UUID:
		return k == KindUUID
	case []byte:
		return k == KindBytes
	default:
		return false
	}
}

// Encode renders v as a JSON document field. v must match k.
func (k ValueKind) Encode(v any) (json.RawMessage, error) {
	if !k.Matches(v) {
		return nil, fmt.Errorf("%w: %T is not %s", ErrTypeMismatch, v, k)
	}
	if t, ok := v.(time.Time); ok {
		return json.Marshal(t.Format(time.RFC3339Nano))
	}
	return json.Marshal(v)
}

// Decode reads a JSON document field written by Encode.
func (k ValueKind) Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding %s value: %w", k, err)
	}
	switch k {
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case KindInt, KindInt64:
		if n, ok := v.(json.Number); ok {
			i, err := strconv.ParseInt(n.String(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("decoding %s value: %w", k, err)
			}
			if k == KindInt {
				return int(i), nil
			}
			return i, nil
		}
	case KindFloat64:
		if n, ok := v.(json.Number); ok {
			return n.Float64()
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindTime:
		if s, ok := v.(string); ok {
			return time.Parse(time.RFC3339Nano, s)
		}
	case KindUUID:
		if s, ok := v.(string); ok {
			return uuid.Parse(s)
		}
	case KindBytes:
		if s, ok := v.(string); ok {
			return base64.StdEncoding.DecodeString(s)
		}
	}
	return nil, fmt.Errorf("%w: stored value %s is not %s", ErrTypeMismatch, raw, k)
}

// Parse converts command-line text into a value of kind k.
func (k ValueKind) Parse(text string) (any, error) {
	switch k {
	case KindString:
		return text, nil
	case KindInt:
		return strconv.Atoi(text)
	case KindInt64:
		return strconv.ParseInt(text, 10, 64)
	case KindFloat64:
		return strconv.ParseFloat(text, 64)
	case KindBool:
		return strconv.ParseBool(text)
	case KindTime:
		return time.Parse(time.RFC3339Nano, text)
	case KindUUID:
		return uuid.Parse(text)
	case KindBytes:
		return base64.StdEncoding.DecodeString(text)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownValueKind, string(k))
	}
}

// Column is a named, typed, sparse attribute applicable to any node.
type Column struct {
	Name string    `json:"name"`
	Kind ValueKind `json:"type"`
}
