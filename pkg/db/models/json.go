package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONList is a list stored in a JSON encoded text column.
type JSONList[T any] []T

var (
	_ driver.Valuer = JSONList[string](nil)
	_ sql.Scanner   = (*JSONList[string])(nil)
)

// Value implements driver.Valuer.
func (l JSONList[T]) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	bts, err := json.Marshal([]T(l))
	if err != nil {
		return nil, err
	}
	return string(bts), nil
}

// Scan implements sql.Scanner.
func (l *JSONList[T]) Scan(src any) error {
	var bts []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		bts = []byte(v)
	case []byte:
		bts = v
	default:
		return fmt.Errorf("cannot scan %T into JSONList", src)
	}

	var out []T
	if err := json.Unmarshal(bts, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalJSON encodes a nil list as an empty array.
func (l JSONList[T]) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(l))
}
