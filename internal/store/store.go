// Package store реализует реактивный контейнер клиентских коллекций:
// дела, компании, ключевые слова, уведомления, переносы заседаний и чат.
// Контейнер создаётся один раз при старте и передаётся зависимым по ссылке,
// скрытых синглтонов нет. Подписчики уведомляются синхронно после каждой
// мутации.
package store

import (
	"sort"
	"sync"

	"github.com/mait00/legaltrackswift-sub002/internal/lib/dates"
	"github.com/mait00/legaltrackswift-sub002/internal/models"
)

// Slice именует независимо обновляемую часть контейнера.
type Slice int

// Срезы контейнера.
const (
	SliceSubscriptions Slice = iota
	SliceNotifications
	SliceDelays
	SliceMessages
)

// Filter индекс активного фильтра списка. Чисто вьюшное состояние:
// смена фильтра никогда не запускает запрос.
type Filter int

// Возможные фильтры списка подписок.
const (
	FilterAll Filter = iota
	FilterGeneralJurisdiction
	FilterArbitration
	FilterCompanies
)

// Observer получает имя среза, который только что изменился.
type Observer func(Slice)

// Store контейнер коллекций. Все мутации и чтения сериализуются мьютексом;
// уведомления подписчикам уходят уже после освобождения мьютекса, чтобы
// подписчик мог читать контейнер.
type Store struct {
	mu sync.Mutex

	cases     []models.CaseRecord
	companies []models.CompanyRecord
	keywords  []models.KeywordSubscription

	notifications []models.NotificationRecord
	delaysRaw     []models.DelayRecord
	delays        []models.DelayView // производный список, пересчитывается из delaysRaw
	messages      []models.Message

	filter Filter

	// busy счётчики запросов в полёте по срезам. Счётчик, а не флаг:
	// перекрывающиеся запросы одного среза не затирают занятость друг друга.
	busy map[Slice]int

	observers []Observer
}

// New создаёт пустой контейнер.
func New() *Store {
	return &Store{busy: make(map[Slice]int)}
}

// Subscribe регистрирует подписчика. Подписка не снимается: состав
// подписчиков фиксируется при старте приложения.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Store) notify(slice Slice) {
	s.mu.Lock()
	obs := make([]Observer, len(s.observers))
	copy(obs, s.observers)
	s.mu.Unlock()
	for _, fn := range obs {
		fn(slice)
	}
}

// BeginFetch отмечает начало запроса для среза.
func (s *Store) BeginFetch(slice Slice) {
	s.mu.Lock()
	s.busy[slice]++
	s.mu.Unlock()
	s.notify(slice)
}

// EndFetch отмечает завершение запроса для среза.
func (s *Store) EndFetch(slice Slice) {
	s.mu.Lock()
	if s.busy[slice] > 0 {
		s.busy[slice]--
	}
	s.mu.Unlock()
	s.notify(slice)
}

// IsFetching сообщает, есть ли у среза запросы в полёте.
func (s *Store) IsFetching(slice Slice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy[slice] > 0
}

// Busy сообщает, идёт ли хоть один запрос. Сводный вид для потребителей,
// которым нужен прежний глобальный индикатор.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.busy {
		if n > 0 {
			return true
		}
	}
	return false
}

// SetSubscriptions заменяет дела, компании и ключевые слова атомарно:
// либо обновляются все три коллекции, либо ни одна.
func (s *Store) SetSubscriptions(p models.SubscriptionsPayload) {
	cases := dedupCases(p.Cases)
	companies := dedupCompanies(p.Companies)
	keywords := dedupKeywords(p.Keywords)

	s.mu.Lock()
	s.cases = cases
	s.companies = companies
	s.keywords = keywords
	s.mu.Unlock()
	s.notify(SliceSubscriptions)
}

// UpsertCase вставляет дело или заменяет существующее с тем же id целиком.
// Слияния полей нет: от прежней версии не остаётся ничего.
func (s *Store) UpsertCase(c models.CaseRecord) {
	s.mu.Lock()
	replaced := false
	for i := range s.cases {
		if s.cases[i].ID == c.ID {
			s.cases[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		s.cases = append(s.cases, c)
	}
	s.mu.Unlock()
	s.notify(SliceSubscriptions)
}

// RemoveSubscription убирает запись из соответствующей коллекции после
// успешного снятия подписки на сервере.
func (s *Store) RemoveSubscription(id int, subType string) {
	s.mu.Lock()
	switch subType {
	case "case":
		s.cases = deleteByID(s.cases, id, func(c models.CaseRecord) int { return c.ID })
	case "company":
		s.companies = deleteByID(s.companies, id, func(c models.CompanyRecord) int { return c.ID })
	case "keyword":
		s.keywords = deleteByID(s.keywords, id, func(k models.KeywordSubscription) int { return k.ID })
	}
	s.mu.Unlock()
	s.notify(SliceSubscriptions)
}

// SetNotifications заменяет список уведомлений, сохраняя локальные отметки
// о прочтении для уже известных id.
func (s *Store) SetNotifications(list []models.NotificationRecord) {
	list = dedupNotifications(list)
	s.mu.Lock()
	read := make(map[int]bool, len(s.notifications))
	for _, n := range s.notifications {
		if n.Read {
			read[n.ID] = true
		}
	}
	for i := range list {
		if read[list[i].ID] {
			list[i].Read = true
		}
	}
	s.notifications = list
	s.mu.Unlock()
	s.notify(SliceNotifications)
}

// MarkNotificationRead помечает уведомление прочитанным. Чисто локальное
// состояние, на сервер не уходит.
func (s *Store) MarkNotificationRead(id int) {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			break
		}
	}
	s.mu.Unlock()
	s.notify(SliceNotifications)
}

// SetDelays заменяет сырой список переносов и пересчитывает производный.
// Производный список нигде больше не пишется, расхождение с сырым невозможно.
func (s *Store) SetDelays(raw []models.DelayRecord) {
	views := buildDelayViews(raw)
	s.mu.Lock()
	s.delaysRaw = raw
	s.delays = views
	s.mu.Unlock()
	s.notify(SliceDelays)
}

// SetMessages заменяет историю чата.
func (s *Store) SetMessages(list []models.Message) {
	s.mu.Lock()
	s.messages = list
	s.mu.Unlock()
	s.notify(SliceMessages)
}

// SetFilter меняет активный фильтр списка подписок.
func (s *Store) SetFilter(f Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.notify(SliceSubscriptions)
}

// Filter возвращает активный фильтр.
func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Cases возвращает копию списка дел.
func (s *Store) Cases() []models.CaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CaseRecord(nil), s.cases...)
}

// FilteredCases возвращает проекцию списка дел по активному фильтру.
// Проекция вычисляется при чтении и нигде не хранится, поэтому разойтись
// с исходной коллекцией не может.
func (s *Store) FilteredCases() []models.CaseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.filter {
	case FilterGeneralJurisdiction:
		return filterCases(s.cases, true)
	case FilterArbitration:
		return filterCases(s.cases, false)
	case FilterCompanies:
		// вкладка компаний, дела на ней не показываются
		return nil
	default:
		return append([]models.CaseRecord(nil), s.cases...)
	}
}

// Companies возвращает копию списка компаний.
func (s *Store) Companies() []models.CompanyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CompanyRecord(nil), s.companies...)
}

// Keywords возвращает копию списка ключевых слов.
func (s *Store) Keywords() []models.KeywordSubscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.KeywordSubscription(nil), s.keywords...)
}

// Notifications возвращает копию списка уведомлений.
func (s *Store) Notifications() []models.NotificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.NotificationRecord(nil), s.notifications...)
}

// DelaysRaw возвращает копию сырого списка переносов.
func (s *Store) DelaysRaw() []models.DelayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DelayRecord(nil), s.delaysRaw...)
}

// Delays возвращает копию производного списка переносов.
func (s *Store) Delays() []models.DelayView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DelayView(nil), s.delays...)
}

// Messages возвращает копию истории чата.
func (s *Store) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message(nil), s.messages...)
}

// Clear опустошает все коллекции. Вызывается при логауте.
func (s *Store) Clear() {
	s.mu.Lock()
	s.cases = nil
	s.companies = nil
	s.keywords = nil
	s.notifications = nil
	s.delaysRaw = nil
	s.delays = nil
	s.messages = nil
	s.filter = FilterAll
	s.mu.Unlock()
	for _, slice := range []Slice{SliceSubscriptions, SliceNotifications, SliceDelays, SliceMessages} {
		s.notify(slice)
	}
}

func filterCases(list []models.CaseRecord, generalJurisdiction bool) []models.CaseRecord {
	out := make([]models.CaseRecord, 0, len(list))
	for _, c := range list {
		if c.IsGeneralJurisdiction() == generalJurisdiction {
			out = append(out, c)
		}
	}
	return out
}

// buildDelayViews чистая проекция сырых переносов: разбор даты заседания и
// сортировка по возрастанию, записи без даты в конце.
func buildDelayViews(raw []models.DelayRecord) []models.DelayView {
	views := make([]models.DelayView, 0, len(raw))
	for _, d := range raw {
		v := models.DelayView{
			ID:         d.ID,
			CaseID:     d.CaseID,
			CaseNumber: d.CaseNumber,
			CourtName:  d.CourtName,
			Reason:     d.Reason,
		}
		v.HearingAt, v.HasDate = dates.Parse(d.Date)
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].HasDate != views[j].HasDate {
			return views[i].HasDate
		}
		return views[i].HearingAt.Before(views[j].HearingAt)
	})
	return views
}

// deleteByID убирает запись с данным id, сохраняя порядок остальных.
func deleteByID[T any](list []T, id int, key func(T) int) []T {
	out := list[:0]
	for _, item := range list {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}

// Дедупликация по серверному id: повторная запись с тем же id замещает
// прежнюю (last-write-wins), позиция остаётся за первым вхождением.

func dedupCases(list []models.CaseRecord) []models.CaseRecord {
	idx := make(map[int]int, len(list))
	out := make([]models.CaseRecord, 0, len(list))
	for _, c := range list {
		if i, ok := idx[c.ID]; ok {
			out[i] = c
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func dedupCompanies(list []models.CompanyRecord) []models.CompanyRecord {
	idx := make(map[int]int, len(list))
	out := make([]models.CompanyRecord, 0, len(list))
	for _, c := range list {
		if i, ok := idx[c.ID]; ok {
			out[i] = c
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func dedupKeywords(list []models.KeywordSubscription) []models.KeywordSubscription {
	idx := make(map[int]int, len(list))
	out := make([]models.KeywordSubscription, 0, len(list))
	for _, k := range list {
		if i, ok := idx[k.ID]; ok {
			out[i] = k
			continue
		}
		idx[k.ID] = len(out)
		out = append(out, k)
	}
	return out
}

func dedupNotifications(list []models.NotificationRecord) []models.NotificationRecord {
	idx := make(map[int]int, len(list))
	out := make([]models.NotificationRecord, 0, len(list))
	for _, n := range list {
		if i, ok := idx[n.ID]; ok {
			out[i] = n
			continue
		}
		idx[n.ID] = len(out)
		out = append(out, n)
	}
	return out
}
