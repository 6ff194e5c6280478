package models

type LeaderboardState string

const (
	LeaderboardOK               LeaderboardState = "ok"
	LeaderboardTableUnavailable LeaderboardState = "table_unavailable"
	LeaderboardNoData           LeaderboardState = "no_data"
)

// MacLeaderboardEntry is one row of the most-frequent unidentified MACs.
// Rank is 1-based and follows the store's descending charge-count order.
type MacLeaderboardEntry struct {
	Rank        int    `json:"rank"`
	MAC         string `json:"mac"`
	ChargeCount int64  `json:"nombre_de_charges"`
}

type LeaderboardResult struct {
	State   LeaderboardState      `json:"state"`
	Entries []MacLeaderboardEntry `json:"entries"`
}
