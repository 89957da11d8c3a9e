// Package dates разбирает метки времени, приходящие от бэкенда.
// Сервер отдаёт ISO-8601 с дробными секундами или без, а для старых записей
// встречается несколько фиксированных форматов, поэтому разбор идёт по
// цепочке до первого успеха.
package dates

import "time"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05.000000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
}

// Parse пытается разобрать серверную метку времени.
// Полный провал цепочки не ошибка: вторым значением возвращается false,
// вызывающий код трактует это как "даты нет".
func Parse(s string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
