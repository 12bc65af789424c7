// internal/assistant/classifier/classifier.go
package classifier

import (
	"strconv"
	"strings"
	"time"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/logger"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

// Confidence weights. The exact values are an implementation choice; the
// ordering they must preserve is: a query matching domain + intent keyword +
// two entities + timeframe scores >= 0.8, a bare domain keyword scores < 0.5.
const (
	domainMatchWeight   = 0.40
	domainHintWeight    = 0.30
	unknownDomainWeight = 0.20
	intentMatchWeight   = 0.15
	entityWeight        = 0.15
	timeframeWeight     = 0.15
	maxScoredEntities   = 3
)

// Classifier turns free-text CRM questions into a QueryClassification.
// All pattern tables are package-level and read-only, so a single Classifier
// is safe for concurrent use.
type Classifier struct {
	logger logger.Logger
}

func New(log logger.Logger) *Classifier {
	return &Classifier{
		logger: log.WithFields(map[string]interface{}{"component": "classifier"}),
	}
}

// Parse classifies text against the pattern tables. It never fails: the worst
// case is domain=unknown with confidence below 0.5. The caller validates text
// length at the boundary; now is injected so identical (text, now) pairs
// always yield identical classifications.
func (c *Classifier) Parse(text string, explicitContext models.QueryDomain, now time.Time) *models.QueryClassification {
	lower := strings.ToLower(strings.TrimSpace(text))

	domain, domainMatched := classifyDomain(lower, explicitContext)
	intent, intentMatched := detectIntent(lower)
	entities := extractEntities(lower)
	filters := deriveFilters(lower, entities)
	timeframe := extractTimeframe(lower, now)

	cl := &models.QueryClassification{
		Domain:      domain,
		Intent:      intent,
		Entities:    entities,
		Filters:     filters,
		Timeframe:   timeframe,
		Aggregation: aggregationFor(intent),
		Confidence:  confidence(domain, domainMatched, intentMatched, entities, timeframe),
	}

	c.logger.Debug("query classified", map[string]interface{}{
		"domain":      cl.Domain,
		"intent":      cl.Intent,
		"filterCount": len(cl.Filters),
		"confidence":  cl.Confidence,
	})

	return cl
}

// classifyDomain returns the winning domain and whether a pattern actually
// matched. The explicit context hint breaks ties between matching families
// and fills in when no family matches at all.
func classifyDomain(lower string, hint models.QueryDomain) (models.QueryDomain, bool) {
	matched := make(map[models.QueryDomain]bool, len(domainPriority))
	for _, domain := range domainPriority {
		for _, p := range domainPatterns[domain] {
			if p.MatchString(lower) {
				matched[domain] = true
				break
			}
		}
	}

	if len(matched) == 0 {
		if hint != "" && hint != models.DomainUnknown {
			return hint, false
		}
		return models.DomainUnknown, false
	}

	if len(matched) > 1 && matched[hint] {
		return hint, true
	}

	for _, domain := range domainPriority {
		if matched[domain] {
			return domain, true
		}
	}
	return models.DomainUnknown, false
}

func detectIntent(lower string) (models.QueryIntent, bool) {
	for _, intent := range intentOrder {
		for _, p := range intentPatterns[intent] {
			if p.MatchString(lower) {
				return intent, true
			}
		}
	}
	return models.IntentList, false
}

func extractEntities(lower string) models.Entities {
	var entities models.Entities

	for _, st := range leadStatusPatterns {
		if st.pattern.MatchString(lower) {
			entities.LeadStatus = st.status
			break
		}
	}

	for _, a := range countryAliases {
		if strings.Contains(lower, a.alias) {
			entities.Country = a.key
			break
		}
	}

	if amount, ok := extractBudgetAmount(lower); ok {
		entities.BudgetAmount = &amount
	}

	return entities
}

func extractBudgetAmount(lower string) (int, bool) {
	match := amountBeforeCurrency.FindStringSubmatch(lower)
	if match == nil {
		match = amountAfterBudget.FindStringSubmatch(lower)
	}
	if match == nil {
		return 0, false
	}

	digits := strings.NewReplacer(".", "", ",", "").Replace(match[1])
	amount, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// deriveFilters expands entities into typed filters in fixed insertion order
// (status, country, budget) so downstream placeholder indices are stable.
func deriveFilters(lower string, entities models.Entities) []models.Filter {
	filters := make([]models.Filter, 0, 3)

	if entities.LeadStatus != "" {
		lo, hi := entities.LeadStatus.ScoreRange()
		filters = append(filters, models.Filter{
			Field:    "lead_score",
			Operator: models.OperatorBetween,
			Value:    [2]int{lo, hi},
		})
	}

	if entities.Country != "" {
		filters = append(filters, models.Filter{
			Field:    "country",
			Operator: models.OperatorEq,
			Value:    countryDisplay[entities.Country],
		})
	}

	if entities.BudgetAmount != nil {
		filters = append(filters, models.Filter{
			Field:    "budget_max",
			Operator: budgetOperator(lower),
			Value:    *entities.BudgetAmount,
		})
	}

	return filters
}

// budgetOperator picks lte for "unter"-style qualifiers; everything else,
// including a bare amount, reads as a floor.
func budgetOperator(lower string) models.FilterOperator {
	for _, q := range budgetBelowQualifiers {
		if strings.Contains(lower, q) {
			return models.OperatorLte
		}
	}
	for _, q := range budgetAboveQualifiers {
		if strings.Contains(lower, q) {
			return models.OperatorGte
		}
	}
	return models.OperatorGte
}

func extractTimeframe(lower string, now time.Time) *models.Timeframe {
	if m := relativeTimeframeDE.FindStringSubmatch(lower); m != nil {
		return relativeTimeframe(m[1], germanPeriod(m[2]), now)
	}
	if m := relativeTimeframeEN.FindStringSubmatch(lower); m != nil {
		return relativeTimeframe(m[1], englishPeriod(m[2]), now)
	}
	if todayPattern.MatchString(lower) {
		return absoluteDay(now)
	}
	if yesterdayPattern.MatchString(lower) {
		return absoluteDay(now.AddDate(0, 0, -1))
	}
	return nil
}

func relativeTimeframe(countStr string, period models.TimePeriod, now time.Time) *models.Timeframe {
	count := 1
	if countStr != "" {
		if n, err := strconv.Atoi(countStr); err == nil && n > 0 {
			count = n
		}
	}

	var length time.Duration
	switch period {
	case models.PeriodDay:
		length = 24 * time.Hour
	case models.PeriodWeek:
		length = 7 * 24 * time.Hour
	case models.PeriodMonth:
		length = 30 * 24 * time.Hour
	}

	return &models.Timeframe{
		Type:   models.TimeframeRelative,
		Period: period,
		Count:  count,
		Start:  now.Add(-time.Duration(count) * length),
		End:    now,
	}
}

func absoluteDay(day time.Time) *models.Timeframe {
	y, m, d := day.Date()
	return &models.Timeframe{
		Type:  models.TimeframeAbsolute,
		Start: time.Date(y, m, d, 0, 0, 0, 0, day.Location()),
		End:   time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), day.Location()),
	}
}

func germanPeriod(raw string) models.TimePeriod {
	switch {
	case strings.HasPrefix(raw, "tag"):
		return models.PeriodDay
	case strings.HasPrefix(raw, "woche"):
		return models.PeriodWeek
	default:
		return models.PeriodMonth
	}
}

func englishPeriod(raw string) models.TimePeriod {
	switch {
	case strings.HasPrefix(raw, "day"):
		return models.PeriodDay
	case strings.HasPrefix(raw, "week"):
		return models.PeriodWeek
	default:
		return models.PeriodMonth
	}
}

func aggregationFor(intent models.QueryIntent) models.AggregationKind {
	switch intent {
	case models.IntentCount:
		return models.AggregationCount
	case models.IntentSum:
		return models.AggregationSum
	}
	return ""
}

func confidence(domain models.QueryDomain, domainMatched, intentMatched bool, entities models.Entities, tf *models.Timeframe) float64 {
	var score float64
	switch {
	case domainMatched:
		score = domainMatchWeight
	case domain != models.DomainUnknown:
		score = domainHintWeight
	default:
		score = unknownDomainWeight
	}

	if intentMatched {
		score += intentMatchWeight
	}

	entityCount := 0
	if entities.LeadStatus != "" {
		entityCount++
	}
	if entities.Country != "" {
		entityCount++
	}
	if entities.BudgetAmount != nil {
		entityCount++
	}
	if entityCount > maxScoredEntities {
		entityCount = maxScoredEntities
	}
	score += float64(entityCount) * entityWeight

	if tf != nil {
		score += timeframeWeight
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}
