package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mait00/legaltrackswift-sub002/internal/models"
	"github.com/mait00/legaltrackswift-sub002/internal/store"
)

func intPtr(v int) *int { return &v }

func samplePayload() models.SubscriptionsPayload {
	return models.SubscriptionsPayload{
		Cases: []models.CaseRecord{
			{ID: 1, Title: "Дело А", IsSou: false},
			{ID: 2, Title: "Дело Б", IsSou: true},
			{ID: 3, Title: "Дело В", IsSou: false},
		},
		Companies: []models.CompanyRecord{
			{ID: 10, Name: "ООО Ромашка", INN: "7701234567"},
		},
		Keywords: []models.KeywordSubscription{
			{ID: 100, Keyword: "банкротство"},
		},
	}
}

func TestSetSubscriptions_Idempotent(t *testing.T) {
	s := store.New()
	p := samplePayload()

	s.SetSubscriptions(p)
	once := s.Cases()

	s.SetSubscriptions(p)
	twice := s.Cases()

	assert.Equal(t, once, twice)
	assert.Len(t, s.Companies(), 1)
	assert.Len(t, s.Keywords(), 1)
}

func TestSetSubscriptions_DuplicateIDLastWriteWins(t *testing.T) {
	s := store.New()
	p := models.SubscriptionsPayload{
		Cases: []models.CaseRecord{
			{ID: 1, Title: "первая версия", Status: "active"},
			{ID: 2, Title: "другое дело"},
			{ID: 1, Title: "вторая версия"},
		},
	}
	s.SetSubscriptions(p)

	cases := s.Cases()
	require.Len(t, cases, 2)
	// позиция за первым вхождением, содержимое за последним
	assert.Equal(t, 1, cases[0].ID)
	assert.Equal(t, "вторая версия", cases[0].Title)
	assert.Empty(t, cases[0].Status, "no field of the prior version survives")
}

func TestUpsertCase_ReplacesWhole(t *testing.T) {
	s := store.New()
	s.SetSubscriptions(models.SubscriptionsPayload{Cases: []models.CaseRecord{
		{ID: 1, Title: "старое", Status: "active", CompanyID: intPtr(5)},
	}})

	s.UpsertCase(models.CaseRecord{ID: 1, Title: "новое"})

	cases := s.Cases()
	require.Len(t, cases, 1)
	assert.Equal(t, "новое", cases[0].Title)
	assert.Empty(t, cases[0].Status)
	assert.Nil(t, cases[0].CompanyID)
}

func TestFilteredCases_PureProjection(t *testing.T) {
	s := store.New()
	s.SetSubscriptions(samplePayload())

	s.SetFilter(store.FilterGeneralJurisdiction)
	sou := s.FilteredCases()
	require.Len(t, sou, 1)
	assert.Equal(t, 2, sou[0].ID)

	s.SetFilter(store.FilterArbitration)
	assert.Len(t, s.FilteredCases(), 2)

	s.SetFilter(store.FilterCompanies)
	assert.Empty(t, s.FilteredCases())

	s.SetFilter(store.FilterAll)
	assert.Len(t, s.FilteredCases(), 3)

	// смена фильтра не трогает исходную коллекцию
	assert.Len(t, s.Cases(), 3)
}

func TestBusyRefCount_OverlappingFetches(t *testing.T) {
	s := store.New()

	s.BeginFetch(store.SliceNotifications)
	s.BeginFetch(store.SliceNotifications)
	assert.True(t, s.IsFetching(store.SliceNotifications))

	// завершение первого запроса не затирает занятость второго
	s.EndFetch(store.SliceNotifications)
	assert.True(t, s.IsFetching(store.SliceNotifications))
	assert.True(t, s.Busy())

	s.EndFetch(store.SliceNotifications)
	assert.False(t, s.IsFetching(store.SliceNotifications))
	assert.False(t, s.Busy())
}

func TestBusy_PerSliceIndependence(t *testing.T) {
	s := store.New()
	s.BeginFetch(store.SliceDelays)

	assert.True(t, s.IsFetching(store.SliceDelays))
	assert.False(t, s.IsFetching(store.SliceNotifications))
	assert.True(t, s.Busy())
}

func TestSetDelays_DerivedListRecomputed(t *testing.T) {
	s := store.New()
	s.SetDelays([]models.DelayRecord{
		{ID: 1, CaseNumber: "А40-1/2024", Date: "2025-05-20T10:00:00Z"},
		{ID: 2, CaseNumber: "А40-2/2024", Date: "мусор"},
		{ID: 3, CaseNumber: "А40-3/2024", Date: "2025-04-01T09:30:00Z"},
	})

	views := s.Delays()
	require.Len(t, views, 3)
	// по возрастанию даты, записи без даты в конце
	assert.Equal(t, 3, views[0].ID)
	assert.Equal(t, 1, views[1].ID)
	assert.Equal(t, 2, views[2].ID)
	assert.False(t, views[2].HasDate)

	// производный список пересчитывается при каждой замене сырого
	s.SetDelays([]models.DelayRecord{{ID: 9, Date: "2025-01-01T00:00:00Z"}})
	views = s.Delays()
	require.Len(t, views, 1)
	assert.Equal(t, 9, views[0].ID)
	assert.Len(t, s.DelaysRaw(), 1)
}

func TestSetNotifications_KeepsLocalReadMarks(t *testing.T) {
	s := store.New()
	s.SetNotifications([]models.NotificationRecord{
		{ID: 1, Type: models.NotificationCase},
		{ID: 2, Type: models.NotificationCompany, CompanyID: intPtr(10)},
	})
	s.MarkNotificationRead(1)

	// повторная загрузка с сервера, где is_read не присылается
	s.SetNotifications([]models.NotificationRecord{
		{ID: 1, Type: models.NotificationCase},
		{ID: 2, Type: models.NotificationCompany, CompanyID: intPtr(10)},
		{ID: 3, Type: models.NotificationCase},
	})

	list := s.Notifications()
	require.Len(t, list, 3)
	assert.True(t, list[0].Read)
	assert.False(t, list[1].Read)
	assert.False(t, list[2].Read)
}

func TestRemoveSubscription(t *testing.T) {
	s := store.New()
	s.SetSubscriptions(samplePayload())

	s.RemoveSubscription(2, "case")
	assert.Len(t, s.Cases(), 2)

	s.RemoveSubscription(10, "company")
	assert.Empty(t, s.Companies())

	s.RemoveSubscription(100, "keyword")
	assert.Empty(t, s.Keywords())
}

func TestObservers_NotifiedSynchronously(t *testing.T) {
	s := store.New()
	var seen []store.Slice
	s.Subscribe(func(slice store.Slice) {
		seen = append(seen, slice)
	})

	s.SetSubscriptions(samplePayload())
	s.SetDelays(nil)

	require.Len(t, seen, 2)
	assert.Equal(t, store.SliceSubscriptions, seen[0])
	assert.Equal(t, store.SliceDelays, seen[1])
}

func TestObserver_CanReadStoreDuringNotify(t *testing.T) {
	s := store.New()
	var got int
	s.Subscribe(func(slice store.Slice) {
		if slice == store.SliceSubscriptions {
			got = len(s.Cases())
		}
	})

	s.SetSubscriptions(samplePayload())
	assert.Equal(t, 3, got)
}

func TestClear(t *testing.T) {
	s := store.New()
	s.SetSubscriptions(samplePayload())
	s.SetNotifications([]models.NotificationRecord{{ID: 1}})
	s.SetDelays([]models.DelayRecord{{ID: 1, Date: "2025-01-01T00:00:00Z"}})
	s.SetMessages([]models.Message{{ID: 1, Text: "привет"}})
	s.SetFilter(store.FilterCompanies)

	s.Clear()

	assert.Empty(t, s.Cases())
	assert.Empty(t, s.Companies())
	assert.Empty(t, s.Keywords())
	assert.Empty(t, s.Notifications())
	assert.Empty(t, s.DelaysRaw())
	assert.Empty(t, s.Delays())
	assert.Empty(t, s.Messages())
	assert.Equal(t, store.FilterAll, s.Filter())
}
