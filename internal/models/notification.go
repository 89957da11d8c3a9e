package models

// NotificationType тип уведомления: о деле или о компании.
type NotificationType string

// Возможные типы уведомлений.
const (
	NotificationCase    NotificationType = "case"
	NotificationCompany NotificationType = "company"
)

// NotificationRecord представляет уведомление о событии по подписке.
// Поле Read существует только на клиенте, сервер его не присылает.
type NotificationRecord struct {
	ID            int              `json:"id"`
	TextHeader    string           `json:"text_header"`
	TextSubHeader string           `json:"text_sub_header"`
	Text          string           `json:"text"`
	Type          NotificationType `json:"type"`
	Meta          string           `json:"meta"`
	HasDocument   bool             `json:"has_document"`
	Document      *string          `json:"document"`
	CaseID        int              `json:"case"`
	CompanyID     *int             `json:"company"`
	IsSou         FlexBool         `json:"is_sou"`
	Read          bool             `json:"is_read"`
	CreatedAt     string           `json:"created_at"`
}
