package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fincontext/internal/common"
	"github.com/dmitrijs2005/fincontext/internal/logging"
	"github.com/dmitrijs2005/fincontext/internal/search"
	"github.com/dmitrijs2005/fincontext/internal/server/models"
)

// Querier is the slice of the search client used by the stats service.
type Querier interface {
	Query(ctx context.Context, esql string) (*search.QueryResult, error)
}

// StatsService computes the per-user dashboard aggregates with ES|QL. The
// aggregation itself runs inside the search engine; this service only builds
// the queries and unpacks the single-row results.
type StatsService struct {
	es     Querier
	index  string
	logger logging.Logger
}

func NewStatsService(es Querier, index string, logger logging.Logger) *StatsService {
	return &StatsService{
		es:     es,
		index:  index,
		logger: logger.With("module", "stats_service"),
	}
}

// ForUser returns total spend, total income and the top spend category for
// username. A user with no indexed transactions gets zero values, not an
// error.
func (s *StatsService) ForUser(ctx context.Context, username string) (*models.Stats, error) {

	user := escapeESQLString(username)
	stats := &models.Stats{}

	spendQuery := fmt.Sprintf(
		`FROM %s | WHERE Username == "%s" AND Type == "Debit" | STATS total = SUM(Amount)`,
		s.index, user)
	spend, err := s.es.Query(ctx, spendQuery)
	if err != nil {
		s.logger.Error(ctx, "spend query failed", "username", username, "error", err.Error())
		return nil, common.ErrorInternal
	}
	stats.TotalSpend = firstFloat(spend)

	incomeQuery := fmt.Sprintf(
		`FROM %s | WHERE Username == "%s" AND Type == "Credit" | STATS total = SUM(Amount)`,
		s.index, user)
	income, err := s.es.Query(ctx, incomeQuery)
	if err != nil {
		s.logger.Error(ctx, "income query failed", "username", username, "error", err.Error())
		return nil, common.ErrorInternal
	}
	stats.TotalIncome = firstFloat(income)

	topQuery := fmt.Sprintf(
		`FROM %s | WHERE Username == "%s" AND Type == "Debit" | STATS total = SUM(Amount) BY Category | SORT total DESC | LIMIT 1`,
		s.index, user)
	top, err := s.es.Query(ctx, topQuery)
	if err != nil {
		s.logger.Error(ctx, "top category query failed", "username", username, "error", err.Error())
		return nil, common.ErrorInternal
	}
	stats.TopCategory = topCategory(top)

	return stats, nil
}

// escapeESQLString makes a value safe to embed in a double-quoted ES|QL
// string literal.
func escapeESQLString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// firstFloat unpacks a single-aggregate result; missing or null means zero.
func firstFloat(res *search.QueryResult) float64 {
	if res == nil || len(res.Values) == 0 || len(res.Values[0]) == 0 {
		return 0
	}
	f, ok := res.Values[0][0].(float64)
	if !ok {
		return 0
	}
	return f
}

// topCategory unpacks the category column of the BY-grouped result. The
// STATS ... BY shape puts the aggregate first and the group key second.
func topCategory(res *search.QueryResult) string {
	if res == nil || len(res.Values) == 0 || len(res.Values[0]) < 2 {
		return ""
	}
	name, ok := res.Values[0][1].(string)
	if !ok {
		return ""
	}
	return name
}
