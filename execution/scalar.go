package execution

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// BuiltinScalars serialize the scalars every schema has, plus DateTime.
var BuiltinScalars = map[string]SerializeFn{
	"Int":      serializeInt,
	"Float":    serializeFloat,
	"String":   serializeString,
	"Boolean":  serializeBoolean,
	"ID":       serializeID,
	"DateTime": serializeDateTime,
}

func serializeInt(value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := v.Int()
		if i > math.MaxInt32 || i < math.MinInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", i)
		}
		return i, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt32 {
			return nil, fmt.Errorf("Int cannot represent non 32-bit signed integer value: %d", u)
		}
		return int64(u), nil
	}
	if n, ok := value.(json.Number); ok {
		return n.Int64()
	}
	return nil, fmt.Errorf("Int cannot represent %T", value)
}

func serializeFloat(value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	}
	return nil, fmt.Errorf("Float cannot represent %T", value)
}

func serializeString(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	}
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.String {
		return v.String(), nil
	}
	return nil, fmt.Errorf("String cannot represent %T", value)
}

func serializeBoolean(value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Bool {
		return v.Bool(), nil
	}
	return nil, fmt.Errorf("Boolean cannot represent %T", value)
}

func serializeID(value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent %T", value)
}

func serializeDateTime(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Format(time.RFC3339), nil
	case string:
		return v, nil
	}
	return nil, fmt.Errorf("DateTime cannot represent %T", value)
}

// unwrap will return the value associated with a pointer type, or nil if the pointer is nil
func unwrap(v interface{}) interface{} {
	i := reflect.ValueOf(v)
	for i.Kind() == reflect.Ptr && !i.IsNil() {
		i = i.Elem()
	}
	if i.Kind() == reflect.Invalid || (i.Kind() == reflect.Ptr && i.IsNil()) {
		return nil
	}
	return i.Interface()
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	value := reflect.ValueOf(v)
	switch value.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return value.IsNil()
	}
	return false
}
