package macreport

import (
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Elto-Analytics/ChargeMacReporter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ns(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

var null = sql.NullString{}

// fakeStore feeds canned rows to the reporter and records the query it was
// handed.
type fakeStore struct {
	tables    map[string]bool
	rows      []ChargeSessionRow
	macRows   []macCountRow
	err       error
	gotQuery  string
	gotParams map[string]interface{}
}

func (f *fakeStore) HasTable(name string) bool { return f.tables[name] }

func (f *fakeStore) Select(dest interface{}, query string, params map[string]interface{}) error {
	f.gotQuery = query
	f.gotParams = params
	if f.err != nil {
		return f.err
	}
	switch d := dest.(type) {
	case *[]ChargeSessionRow:
		*d = f.rows
	case *[]macCountRow:
		*d = f.macRows
	}
	return nil
}

func testReporter(store *fakeStore) *Reporter {
	logger := log.New(os.Stdout, "test: ", 0)
	return NewReporter(store, "https://elto.example.com/Charge/detail?id=", logger)
}

func allTables() map[string]bool {
	return map[string]bool{
		TableCharges:        true,
		TableSessions:       true,
		TableMacLeaderboard: true,
	}
}

func TestSearchTableUnavailable(t *testing.T) {
	r := testReporter(&fakeStore{tables: map[string]bool{}})

	res, err := r.Search("", nil, nil, "aabb")

	require.NoError(t, err)
	assert.Equal(t, models.SearchTableUnavailable, res.State)
}

func TestSearchInputTooShort(t *testing.T) {
	store := &fakeStore{
		tables: allTables(),
		rows:   []ChargeSessionRow{{ID: "1", MAC: ns("aabbccddeeff")}},
	}
	r := testReporter(store)

	for _, q := range []string{"", "a", " a ", "\t"} {
		res, err := r.Search("", nil, nil, q)

		require.NoError(t, err)
		assert.Equal(t, models.SearchInputTooShort, res.State, "query %q", q)
	}
	// The guard must fire before any fetch.
	assert.Empty(t, store.gotQuery)
}

func TestSearchNoDataForFilters(t *testing.T) {
	r := testReporter(&fakeStore{tables: allTables()})

	res, err := r.Search("", nil, nil, "aabb")

	require.NoError(t, err)
	assert.Equal(t, models.SearchNoDataForFilters, res.State)
}

func TestSearchNoMatchForMac(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{ID: "1", MAC: ns("112233445566")},
			{ID: "2", MAC: null},
		},
	})

	res, err := r.Search("", nil, nil, "ffee")

	require.NoError(t, err)
	assert.Equal(t, models.SearchNoMatchForMac, res.State)
}

func TestSearchStoreError(t *testing.T) {
	r := testReporter(&fakeStore{tables: allTables(), err: errors.New("connection reset")})

	_, err := r.Search("", nil, nil, "aabb")

	assert.ErrorContains(t, err, "connection reset")
}

func TestSearchMatchesStrippedSubstring(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{ID: "1", MAC: ns("AA-BB-CC-DD-EE-FF")},
			{ID: "2", MAC: ns("112233445566")},
		},
	})

	// Query and stored value differ in case, separators and prefix but
	// share the same stripped form.
	res, err := r.Search("", nil, nil, "0xBB:cc")

	require.NoError(t, err)
	require.Equal(t, models.SearchOK, res.State)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", res.OKRows[0].MAC)
}

func TestSearchFullResult(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{
				ID:          "100",
				Site:        ns("Lyon"),
				ChargePoint: ns("PDC-1"),
				StartTime:   ns("2025-03-02 10:00:00"),
				EndTime:     ns("2025-03-02 11:00:00"),
				EnergyKWh:   ns("42.5"),
				MAC:         ns("aabbccddeeff"),
				Vehicle:     ns("Bus 12"),
				SOCStart:    ns("40"),
				SOCEnd:      ns("80"),
				SessState:   ns("0"),
			},
			{
				ID:        "101",
				Site:      ns("Lyon"),
				StartTime: ns("2025-03-03 09:00:00"),
				MAC:       ns("aabbccddeeff"),
				SessState: ns("1"),
			},
			{
				ID:        "102",
				Site:      ns("Paris"),
				StartTime: ns("2025-03-04 08:00:00"),
				MAC:       ns("aabbcc000000"),
				// No session row joined: counts as ok.
				SessState: null,
			},
		},
	})

	res, err := r.Search("", nil, nil, "aabbcc")

	require.NoError(t, err)
	require.Equal(t, models.SearchOK, res.State)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.OKCount)
	assert.Equal(t, 1, res.NotOKCount)
	assert.Equal(t, res.Total, res.OKCount+res.NotOKCount)
	assert.InDelta(t, 66.7, res.SuccessRate, 0.001)

	require.Len(t, res.OKRows, 2)
	// Newest first.
	assert.Equal(t, "Paris", res.OKRows[0].Site)
	assert.Equal(t, "Lyon", res.OKRows[1].Site)

	row := res.OKRows[1]
	assert.Equal(t, "PDC-1", row.ChargePoint)
	assert.Equal(t, "40% → 80%", row.SOCEvolution)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", row.MAC)
	assert.Equal(t, "Bus 12", row.Vehicle)
	require.NotNil(t, row.EnergyKWh)
	assert.Equal(t, 42.5, *row.EnergyKWh)
	assert.Equal(t, "https://elto.example.com/Charge/detail?id=100", row.DetailLink)

	require.Len(t, res.NotOKRows, 1)
	assert.Equal(t, "https://elto.example.com/Charge/detail?id=101", res.NotOKRows[0].DetailLink)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", res.NotOKRows[0].MAC)
}

func TestSearchSessionSideWinsMerge(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{
				ID:          "1",
				Site:        ns("Charge Site"),
				ChargePoint: ns("PDC-A"),
				StartTime:   ns("2025-01-01 08:00:00"),
				EndTime:     null, // charge side never saw the end
				EnergyKWh:   ns("10"),
				MAC:         ns("aabbccddeeff"),
				SOCEnd:      ns("70"),

				SessSite:      ns("Session Site"),
				SessEndTime:   ns("2025-01-01 09:30:00"),
				SessEnergyKWh: ns("12.5"),
				SessSOCEnd:    ns("75"),
				SessState:     ns("0"),
			},
		},
	})

	res, err := r.Search("", nil, nil, "aabb")

	require.NoError(t, err)
	require.Equal(t, models.SearchOK, res.State)
	require.Len(t, res.OKRows, 1)

	row := res.OKRows[0]
	assert.Equal(t, "Session Site", row.Site)
	// Charge side still supplies what the session row lacks.
	assert.Equal(t, "PDC-A", row.ChargePoint)
	require.NotNil(t, row.EndTime)
	assert.Equal(t, time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC), row.EndTime.UTC())
	require.NotNil(t, row.EnergyKWh)
	assert.Equal(t, 12.5, *row.EnergyKWh)
}

func TestSearchMalformedFieldsBecomeAbsent(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{
				ID:        "1",
				StartTime: ns("not a timestamp"),
				EndTime:   ns("also wrong"),
				EnergyKWh: ns("n/a"),
				SOCStart:  ns("forty"),
				SOCEnd:    ns("80"),
				MAC:       ns("aabbccddeeff"),
				SessState: ns("garbage"), // unparseable state counts as ok
			},
		},
	})

	res, err := r.Search("", nil, nil, "aabb")

	require.NoError(t, err)
	require.Equal(t, models.SearchOK, res.State)
	require.Len(t, res.OKRows, 1)

	row := res.OKRows[0]
	assert.Nil(t, row.StartTime)
	assert.Nil(t, row.EndTime)
	assert.Nil(t, row.EnergyKWh)
	assert.Equal(t, "", row.SOCEvolution)
}

func TestSearchRowsWithoutStartTimeSortLast(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		rows: []ChargeSessionRow{
			{ID: "no-start-1", MAC: ns("aabbccddeeff"), StartTime: null},
			{ID: "old", MAC: ns("aabbccddeeff"), StartTime: ns("2025-01-01 00:00:00")},
			{ID: "no-start-2", MAC: ns("aabbccddeeff"), StartTime: null},
			{ID: "new", MAC: ns("aabbccddeeff"), StartTime: ns("2025-06-01 00:00:00")},
		},
	})

	res, err := r.Search("", nil, nil, "aabb")

	require.NoError(t, err)
	require.Len(t, res.OKRows, 4)
	require.NotNil(t, res.OKRows[0].StartTime)
	require.NotNil(t, res.OKRows[1].StartTime)
	assert.True(t, res.OKRows[0].StartTime.After(*res.OKRows[1].StartTime))
	assert.Nil(t, res.OKRows[2].StartTime)
	assert.Nil(t, res.OKRows[3].StartTime)
}

func TestSearchPredicateUsesPrefixedNamedParams(t *testing.T) {
	store := &fakeStore{tables: allTables()}
	r := testReporter(store)
	debut := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err := r.Search("Lyon,Paris", &debut, nil, "aabb")

	require.NoError(t, err)
	assert.Contains(t, store.gotQuery, "c.start_time >= @date_debut")
	assert.Contains(t, store.gotQuery, "c.site IN (@site_0,@site_1)")
	assert.Equal(t, "Lyon", store.gotParams["site_0"])
	assert.Equal(t, "Paris", store.gotParams["site_1"])
	// Raw values never end up in the SQL text.
	assert.NotContains(t, store.gotQuery, "Lyon")
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 0.0, successRate(0, 0))
	assert.Equal(t, 100.0, successRate(3, 3))
	assert.Equal(t, 50.0, successRate(1, 2))
	assert.InDelta(t, 66.7, successRate(2, 3), 0.001)
}

func TestTopUnidentifiedMacs(t *testing.T) {
	r := testReporter(&fakeStore{
		tables: allTables(),
		macRows: []macCountRow{
			{Mac: ns("aabbccddeeff"), ChargeCount: 40},
			{Mac: ns("112233445566"), ChargeCount: 25},
			{Mac: ns("bad"), ChargeCount: 3},
		},
	})

	res, err := r.TopUnidentifiedMacs()

	require.NoError(t, err)
	require.Equal(t, models.LeaderboardOK, res.State)
	require.Len(t, res.Entries, 3)

	// Rank follows fetch order, 1-based.
	for i, entry := range res.Entries {
		assert.Equal(t, i+1, entry.Rank)
	}
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", res.Entries[0].MAC)
	assert.Equal(t, int64(40), res.Entries[0].ChargeCount)
	// Short values display uppercased, unformatted.
	assert.Equal(t, "BAD", res.Entries[2].MAC)
}

func TestTopUnidentifiedMacsTableUnavailable(t *testing.T) {
	r := testReporter(&fakeStore{tables: map[string]bool{TableCharges: true}})

	res, err := r.TopUnidentifiedMacs()

	require.NoError(t, err)
	assert.Equal(t, models.LeaderboardTableUnavailable, res.State)
}

func TestTopUnidentifiedMacsNoData(t *testing.T) {
	r := testReporter(&fakeStore{tables: allTables()})

	res, err := r.TopUnidentifiedMacs()

	require.NoError(t, err)
	assert.Equal(t, models.LeaderboardNoData, res.State)
}
