package models

// OkvedEntry код вида деятельности компании из справочника ОКВЭД.
type OkvedEntry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CompanyRecord представляет отслеживаемую компанию.
type CompanyRecord struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	INN       string       `json:"inn"`
	OGRN      string       `json:"ogrn"`
	Okveds    []OkvedEntry `json:"okveds"`
	CreatedAt string       `json:"created_at"`
}
