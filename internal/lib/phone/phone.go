// Package phone содержит функции нормализации, форматирования и проверки
// номера телефона, вводимого пользователем на экране авторизации.
package phone

import "strings"

// countryPrefix цифра кода страны, с которой должен начинаться полный номер.
const countryPrefix = '7'

// Normalize удаляет из строки все символы, кроме цифр.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format приводит номер к виду +7 (999) 123-45-67.
// Форматирование применяется только к номерам ровно из 11 цифр с кодом
// страны, любой другой вход возвращается без изменений: это best-effort
// отображение, а не валидация.
func Format(raw string) string {
	digits := Normalize(raw)
	if len(digits) != 11 || digits[0] != countryPrefix {
		return raw
	}
	var b strings.Builder
	b.Grow(18)
	b.WriteByte('+')
	b.WriteByte(digits[0])
	b.WriteString(" (")
	b.WriteString(digits[1:4])
	b.WriteString(") ")
	b.WriteString(digits[4:7])
	b.WriteByte('-')
	b.WriteString(digits[7:9])
	b.WriteByte('-')
	b.WriteString(digits[9:11])
	return b.String()
}

// IsValid сообщает, достаточно ли в номере цифр для отправки кода.
// Порог в 10 цифр сознательно мягче, чем требование Format (ровно 11 цифр
// с кодом страны): так ведёт себя действующий контракт с бэкендом, и это
// расхождение сохранено намеренно.
func IsValid(raw string) bool {
	return len(Normalize(raw)) >= 10
}
