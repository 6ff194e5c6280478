package macreport

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Elto-Analytics/ChargeMacReporter/internal/models"
)

// Store tables. Their schemas are an external contract owned by the KPI
// pipeline; this service only reads them.
const (
	TableCharges        = "kpi_charges_mac"
	TableSessions       = "kpi_sessions"
	TableMacLeaderboard = "kpi_mac_id"
)

// Querier is the read-only data-fetch collaborator. All variable input
// must go through the params map as named parameters.
type Querier interface {
	HasTable(name string) bool
	Select(dest interface{}, query string, params map[string]interface{}) error
}

// Reporter answers the MAC-address report queries. It holds no per-request
// state; a single instance serves concurrent requests.
type Reporter struct {
	store   Querier
	baseURL string
	logger  *log.Logger
}

func NewReporter(store Querier, chargeDetailBaseURL string, logger *log.Logger) *Reporter {
	return &Reporter{
		store:   store,
		baseURL: chargeDetailBaseURL,
		logger:  logger,
	}
}

// ChargeSessionRow is one fetched row of the charge/session-quality left
// join, both sides kept separate so the merge stays explicit and
// inspectable. Loosely-typed store columns arrive as nullable strings and
// are coerced afterwards, one field at a time.
type ChargeSessionRow struct {
	ID          string         `gorm:"column:id"`
	Site        sql.NullString `gorm:"column:site"`
	ChargePoint sql.NullString `gorm:"column:charge_point"`
	StartTime   sql.NullString `gorm:"column:start_time"`
	EndTime     sql.NullString `gorm:"column:end_time"`
	EnergyKWh   sql.NullString `gorm:"column:energy_kwh"`
	MAC         sql.NullString `gorm:"column:mac"`
	Vehicle     sql.NullString `gorm:"column:vehicle"`
	SOCStart    sql.NullString `gorm:"column:soc_start"`
	SOCEnd      sql.NullString `gorm:"column:soc_end"`

	SessSite        sql.NullString `gorm:"column:s_site"`
	SessChargePoint sql.NullString `gorm:"column:s_charge_point"`
	SessEndTime     sql.NullString `gorm:"column:s_end_time"`
	SessEnergyKWh   sql.NullString `gorm:"column:s_energy_kwh"`
	SessSOCEnd      sql.NullString `gorm:"column:s_soc_end"`
	SessState       sql.NullString `gorm:"column:s_state"`
}

const searchQuery = `
SELECT
    c.id,
    c.site,
    c.charge_point,
    c.start_time,
    c.end_time,
    c.energy_kwh,
    c.mac_address AS mac,
    c.vehicle,
    c.soc_start,
    c.soc_end,
    s.site            AS s_site,
    s.charge_point    AS s_charge_point,
    s.end_time        AS s_end_time,
    s.energy_kwh      AS s_energy_kwh,
    s.soc_end         AS s_soc_end,
    s.state           AS s_state
FROM ` + TableCharges + ` c
LEFT JOIN ` + TableSessions + ` s ON c.id = s.id
WHERE %s
`

// Search runs the MAC substring search over the filtered charge records.
// The four empty outcomes (missing table, too-short query, no rows for the
// filters, no MAC match) come back as result states so the caller can
// render distinct messaging; the error return is reserved for store
// failures.
func (r *Reporter) Search(sites string, dateDebut, dateFin *time.Time, macQuery string) (models.SearchResult, error) {
	res := models.SearchResult{MacQuery: macQuery}

	if !r.store.HasTable(TableCharges) {
		r.logger.Printf("Table %s not available, skipping search", TableCharges)
		res.State = models.SearchTableUnavailable
		return res, nil
	}
	if len(strings.TrimSpace(macQuery)) < 2 {
		res.State = models.SearchInputTooShort
		return res, nil
	}

	macNorm := StripMAC(macQuery)

	where, params := BuildConditions(sites, dateDebut, dateFin, "c.")
	var rows []ChargeSessionRow
	if err := r.store.Select(&rows, fmt.Sprintf(searchQuery, where), params); err != nil {
		return res, fmt.Errorf("search charges: %w", err)
	}
	if len(rows) == 0 {
		res.State = models.SearchNoDataForFilters
		return res, nil
	}

	var records []models.ChargeRecord
	for _, row := range rows {
		rec := mergeRecord(row)
		if rec.MAC == nil || !strings.Contains(StripMAC(*rec.MAC), macNorm) {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		res.State = models.SearchNoMatchForMac
		return res, nil
	}

	var okRows, nokRows []models.DisplayRow
	for _, rec := range records {
		if rec.OK {
			okRows = append(okRows, r.displayRow(rec))
		} else {
			nokRows = append(nokRows, r.displayRow(rec))
		}
	}
	sortByStartDesc(okRows)
	sortByStartDesc(nokRows)

	res.State = models.SearchOK
	res.Total = len(records)
	res.OKCount = len(okRows)
	res.NotOKCount = res.Total - res.OKCount
	res.SuccessRate = successRate(res.OKCount, res.Total)
	res.OKRows = okRows
	res.NotOKRows = nokRows
	return res, nil
}

// mergeRecord folds the two sides of a joined row into one record. The
// session-quality side wins for site, charge point, end time, energy and
// SOC-end; the charge side supplies everything else. An absent or
// unparseable state indicator counts as ok.
func mergeRecord(row ChargeSessionRow) models.ChargeRecord {
	rec := models.ChargeRecord{
		ID:          row.ID,
		Site:        pickString(row.SessSite, row.Site),
		ChargePoint: pickString(row.SessChargePoint, row.ChargePoint),
		StartTime:   coerceTime(row.StartTime),
		EndTime:     pickTime(row.SessEndTime, row.EndTime),
		EnergyKWh:   pickFloat(row.SessEnergyKWh, row.EnergyKWh),
		MAC:         coerceString(row.MAC),
		Vehicle:     coerceString(row.Vehicle),
		SOCStart:    coerceFloat(row.SOCStart),
		SOCEnd:      pickFloat(row.SessSOCEnd, row.SOCEnd),
	}
	state := coerceFloat(row.SessState)
	rec.OK = state == nil || *state == 0
	return rec
}

func (r *Reporter) displayRow(rec models.ChargeRecord) models.DisplayRow {
	return models.DisplayRow{
		Site:         deref(rec.Site),
		ChargePoint:  deref(rec.ChargePoint),
		StartTime:    rec.StartTime,
		EndTime:      rec.EndTime,
		SOCEvolution: FormatSOCTransition(rec.SOCStart, rec.SOCEnd),
		MAC:          FormatMAC(deref(rec.MAC)),
		Vehicle:      deref(rec.Vehicle),
		EnergyKWh:    rec.EnergyKWh,
		DetailLink:   r.baseURL + rec.ID,
	}
}

// sortByStartDesc orders newest first; rows without a start time sink to
// the end without disturbing the relative order of the rest.
func sortByStartDesc(rows []models.DisplayRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].StartTime, rows[j].StartTime
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.After(*b)
	})
}

func successRate(ok, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(ok)/float64(total)*1000) / 10
}

type macCountRow struct {
	Mac         sql.NullString `gorm:"column:mac"`
	ChargeCount int64          `gorm:"column:nombre_de_charges"`
}

const leaderboardQuery = `
SELECT mac_address AS mac, nombre_de_charges
FROM ` + TableMacLeaderboard + `
ORDER BY nombre_de_charges DESC
LIMIT 10
`

// TopUnidentifiedMacs returns the ten most frequent MAC addresses lacking
// vehicle identification. The store's descending-count order is
// authoritative; ranks are assigned in fetch order, ties included.
func (r *Reporter) TopUnidentifiedMacs() (models.LeaderboardResult, error) {
	var res models.LeaderboardResult

	if !r.store.HasTable(TableMacLeaderboard) {
		r.logger.Printf("Table %s not available, skipping leaderboard", TableMacLeaderboard)
		res.State = models.LeaderboardTableUnavailable
		return res, nil
	}

	var rows []macCountRow
	if err := r.store.Select(&rows, leaderboardQuery, nil); err != nil {
		return res, fmt.Errorf("top unidentified macs: %w", err)
	}
	if len(rows) == 0 {
		res.State = models.LeaderboardNoData
		return res, nil
	}

	res.State = models.LeaderboardOK
	res.Entries = make([]models.MacLeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		res.Entries = append(res.Entries, models.MacLeaderboardEntry{
			Rank:        i + 1,
			MAC:         FormatMAC(row.Mac.String),
			ChargeCount: row.ChargeCount,
		})
	}
	return res, nil
}
