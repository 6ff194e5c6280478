package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/Elto-Analytics/ChargeMacReporter/internal/macreport"
	"github.com/Elto-Analytics/ChargeMacReporter/internal/models"
	"github.com/gin-gonic/gin"
)

// MacAddress serves the MAC-address report routes. The reporter and
// counter are injected by main; handlers keep no other state.
type MacAddress struct {
	Reporter *macreport.Reporter
	Counter  *macreport.ResultCounter
	Logger   *log.Logger
}

func (h *MacAddress) Register(router *gin.Engine) {
	router.GET("/mac-address", h.getTab)
	router.GET("/mac-address/search", h.search)
	router.GET("/mac-address/top10", h.top10)
}

func (h *MacAddress) getTab(c *gin.Context) {
	c.HTML(http.StatusOK, "mac_address.html", gin.H{})
}

func (h *MacAddress) search(c *gin.Context) {
	macQuery := c.Query("mac_query")
	dateDebut := parseDate(c.Query("date_debut"))
	dateFin := parseDate(c.Query("date_fin"))

	result, err := h.Reporter.Search(c.Query("sites"), dateDebut, dateFin, macQuery)
	if err != nil {
		h.Logger.Printf("Error searching MAC records: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.Counter.Count(result.State)

	switch result.State {
	case models.SearchTableUnavailable:
		c.HTML(http.StatusOK, "mac_search.html", gin.H{
			"error":     "Table " + macreport.TableCharges + " non disponible",
			"mac_query": macQuery,
		})
	case models.SearchInputTooShort:
		c.HTML(http.StatusOK, "mac_search.html", gin.H{
			"prompt":    "Saisissez au moins 2 caractères d'une adresse MAC",
			"mac_query": macQuery,
		})
	case models.SearchNoDataForFilters:
		c.HTML(http.StatusOK, "mac_search.html", gin.H{
			"no_data":   true,
			"mac_query": macQuery,
		})
	case models.SearchNoMatchForMac:
		c.HTML(http.StatusOK, "mac_search.html", gin.H{
			"no_results": true,
			"mac_query":  macQuery,
		})
	default:
		c.HTML(http.StatusOK, "mac_search.html", gin.H{
			"mac_query":    result.MacQuery,
			"total":        result.Total,
			"ok_count":     result.OKCount,
			"nok_count":    result.NotOKCount,
			"success_rate": result.SuccessRate,
			"ok_rows":      result.OKRows,
			"nok_rows":     result.NotOKRows,
		})
	}
}

// top10 accepts the same site/date filters as search for symmetry with the
// dashboard form; the aggregate table is already filtered upstream.
func (h *MacAddress) top10(c *gin.Context) {
	result, err := h.Reporter.TopUnidentifiedMacs()
	if err != nil {
		h.Logger.Printf("Error fetching MAC leaderboard: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch result.State {
	case models.LeaderboardTableUnavailable:
		c.HTML(http.StatusOK, "mac_top10.html", gin.H{
			"error": "Table " + macreport.TableMacLeaderboard + " non disponible",
		})
	case models.LeaderboardNoData:
		c.HTML(http.StatusOK, "mac_top10.html", gin.H{"no_data": true})
	default:
		c.HTML(http.StatusOK, "mac_top10.html", gin.H{"rows": result.Entries})
	}
}

// parseDate reads a yyyy-mm-dd query value; anything else is an absent
// filter.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
