package models

// KeywordSubscription подписка на ключевое слово для подбора судебной практики.
type KeywordSubscription struct {
	ID        int    `json:"id"`
	Keyword   string `json:"keyword"`
	CreatedAt string `json:"created_at"`
}

// SubscriptionsPayload три коллекции подписок, которые бэкенд отдаёт одним
// ответом. Применяются к хранилищу атомарно: либо обновляются все три,
// либо ни одна.
type SubscriptionsPayload struct {
	Cases     []CaseRecord          `json:"cases"`
	Companies []CompanyRecord       `json:"companies"`
	Keywords  []KeywordSubscription `json:"keywords"`
}
