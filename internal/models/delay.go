package models

import "time"

// DelayRecord сырая запись о переносе заседания в том виде,
// в котором её отдаёт сервер. Это единственный источник истины:
// представление DelayView всегда пересчитывается из сырого списка.
type DelayRecord struct {
	ID         int    `json:"id"`
	CaseID     int    `json:"case"`
	CaseNumber string `json:"case_number"`
	CourtName  string `json:"court_name"`
	Date       string `json:"date"` // серверная метка времени заседания
	Reason     string `json:"reason"`
	CreatedAt  string `json:"created_at"`
}

// DelayView производное представление переноса для отображения.
// Никогда не мутируется отдельно от сырого списка.
type DelayView struct {
	ID         int
	CaseID     int
	CaseNumber string
	CourtName  string
	Reason     string
	HearingAt  time.Time
	HasDate    bool // false, если серверную дату не удалось разобрать
}
