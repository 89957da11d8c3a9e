package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexBool булев флаг, который бэкенд в разных версиях отдаёт как bool,
// число или строку ("1", "true"). Отсутствие и null трактуются как false.
type FlexBool bool

// UnmarshalJSON разбирает bool, число и строку; нераспознанное значение
// считается false, а не ошибкой декодирования.
func (f *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = false
		return nil
	}
	switch data[0] {
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexBool(v)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.ToLower(strings.TrimSpace(s))
		*f = s == "true" || s == "1"
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			*f = false
			return nil
		}
		*f = n != 0
	}
	return nil
}

// MarshalJSON кодирует значение как обычный bool.
func (f FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(f))
}

// Bool возвращает значение в виде встроенного типа.
func (f FlexBool) Bool() bool { return bool(f) }
