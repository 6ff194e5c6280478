package macreport

import (
	"fmt"
	"strings"
	"time"
)

// BuildConditions turns the optional site and date filters into a WHERE
// fragment plus its named parameters. The fragment always starts from the
// tautology "1=1" so an empty filter set stays valid SQL. Clauses are
// appended in a fixed order: start date, end date, site membership.
//
// The end date is inclusive: the clause binds an exclusive upper bound of
// end+1 day at midnight, which avoids the truncation pitfalls of "<=" on
// timestamp columns. Site values are each bound as their own parameter,
// never spliced into the SQL text.
//
// prefix qualifies the filtered columns ("c." when the predicate targets
// one side of a join); pass "" for an unqualified table.
func BuildConditions(sites string, dateDebut, dateFin *time.Time, prefix string) (string, map[string]interface{}) {
	conditions := []string{"1=1"}
	params := map[string]interface{}{}

	if dateDebut != nil {
		conditions = append(conditions, prefix+"start_time >= @date_debut")
		params["date_debut"] = *dateDebut
	}
	if dateFin != nil {
		conditions = append(conditions, prefix+"start_time < @date_fin_excl")
		d := dateFin.AddDate(0, 0, 1)
		params["date_fin_excl"] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	}
	if sites != "" {
		var placeholders []string
		for _, site := range strings.Split(sites, ",") {
			site = strings.TrimSpace(site)
			if site == "" {
				continue
			}
			name := fmt.Sprintf("site_%d", len(placeholders))
			placeholders = append(placeholders, "@"+name)
			params[name] = site
		}
		if len(placeholders) > 0 {
			conditions = append(conditions, fmt.Sprintf("%ssite IN (%s)", prefix, strings.Join(placeholders, ",")))
		}
	}

	return strings.Join(conditions, " AND "), params
}
