package models

// CaseRecord представляет отслеживаемое судебное дело.
// Дела судов общей юрисдикции и арбитражные дела - одна сущность,
// различаются только флагом IsSou.
type CaseRecord struct {
	ID        int      `json:"id"`
	Title     string   `json:"title"`
	Name      string   `json:"name"`
	Value     string   `json:"value"` // номер дела, например А40-12345/2024
	IsSou     FlexBool `json:"is_sou"`
	Status    string   `json:"status"`
	CompanyID *int     `json:"company_id"`
	CourtName string   `json:"court_name"`
	City      string   `json:"city"`
	LastEvent string   `json:"last_event"`
	Favorites bool     `json:"favorites"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// DisplayTitle возвращает первый непустой из заголовка, имени и номера дела.
func (c CaseRecord) DisplayTitle() string {
	switch {
	case c.Title != "":
		return c.Title
	case c.Name != "":
		return c.Name
	default:
		return c.Value
	}
}

// IsGeneralJurisdiction сообщает, рассматривается ли дело в суде общей юрисдикции.
func (c CaseRecord) IsGeneralJurisdiction() bool {
	return c.IsSou.Bool()
}
