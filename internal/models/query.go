// internal/models/query.go
package models

import "time"

// QueryDomain identifies which SQL template family applies to a classified query.
type QueryDomain string

const (
	DomainLeads     QueryDomain = "leads"
	DomainBookings  QueryDomain = "bookings"
	DomainRevenue   QueryDomain = "revenue"
	DomainContacts  QueryDomain = "contacts"
	DomainAnalytics QueryDomain = "analytics"
	DomainUnknown   QueryDomain = "unknown"
)

// QueryIntent determines the statement shape: row list, scalar aggregate or
// multi-metric projection.
type QueryIntent string

const (
	IntentList    QueryIntent = "list"
	IntentCount   QueryIntent = "count"
	IntentSum     QueryIntent = "sum"
	IntentAnalyze QueryIntent = "analyze"
)

// AggregationKind is derived from intent for count/sum queries, otherwise empty.
type AggregationKind string

const (
	AggregationCount AggregationKind = "count"
	AggregationSum   AggregationKind = "sum"
)

type FilterOperator string

const (
	OperatorEq      FilterOperator = "eq"
	OperatorGte     FilterOperator = "gte"
	OperatorLte     FilterOperator = "lte"
	OperatorBetween FilterOperator = "between"
	OperatorLike    FilterOperator = "like"
)

// VisualizationType tells the caller how to render results, independent of the SQL.
type VisualizationType string

const (
	VisualizationTable   VisualizationType = "table"
	VisualizationChart   VisualizationType = "chart"
	VisualizationMetrics VisualizationType = "metrics"
	VisualizationList    VisualizationType = "list"
)

// Lead score bands. Single source of truth for classifier, builder and tests.
const (
	HotLeadMinScore  = 70
	HotLeadMaxScore  = 100
	WarmLeadMinScore = 40
	WarmLeadMaxScore = 69
	ColdLeadMinScore = 0
	ColdLeadMaxScore = 39
)

type LeadStatus string

const (
	LeadStatusHot  LeadStatus = "hot"
	LeadStatusWarm LeadStatus = "warm"
	LeadStatusCold LeadStatus = "cold"
)

// ScoreRange returns the closed lead score band for the status.
func (s LeadStatus) ScoreRange() (int, int) {
	switch s {
	case LeadStatusHot:
		return HotLeadMinScore, HotLeadMaxScore
	case LeadStatusWarm:
		return WarmLeadMinScore, WarmLeadMaxScore
	case LeadStatusCold:
		return ColdLeadMinScore, ColdLeadMaxScore
	}
	return 0, 0
}

// Entities holds the structured values extracted from query text.
// Country is the canonical lowercase key ("deutschland", "österreich", ...).
type Entities struct {
	Country      string     `json:"country,omitempty"`
	LeadStatus   LeadStatus `json:"leadStatus,omitempty"`
	BudgetAmount *int       `json:"budgetAmount,omitempty"`
}

// Filter is a typed, coerced condition derived from entities. Value is a
// scalar for eq/gte/lte/like and a [2]int range for between. Filters never
// carry raw user substrings.
type Filter struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    interface{}    `json:"value"`
}

type TimeframeType string

const (
	TimeframeRelative TimeframeType = "relative"
	TimeframeAbsolute TimeframeType = "absolute"
)

type TimePeriod string

const (
	PeriodDay   TimePeriod = "day"
	PeriodWeek  TimePeriod = "week"
	PeriodMonth TimePeriod = "month"
)

// Timeframe is resolved against the "now" instant injected into the
// classifier so classification stays deterministic. Period and Count are only
// set for relative timeframes.
type Timeframe struct {
	Type   TimeframeType `json:"type"`
	Period TimePeriod    `json:"period,omitempty"`
	Count  int           `json:"count,omitempty"`
	Start  time.Time     `json:"start"`
	End    time.Time     `json:"end"`
}

// QueryClassification is the structured interpretation of a free-text query.
type QueryClassification struct {
	Domain      QueryDomain     `json:"domain"`
	Intent      QueryIntent     `json:"intent"`
	Entities    Entities        `json:"entities"`
	Filters     []Filter        `json:"filters"`
	Timeframe   *Timeframe      `json:"timeframe,omitempty"`
	Aggregation AggregationKind `json:"aggregation,omitempty"`
	Confidence  float64         `json:"confidence"`
}

// BuiltQuery is a parameterized, tenant-scoped statement ready for an
// external query client. SQL contains exactly len(Params) positional
// placeholders, in parameter order.
type BuiltQuery struct {
	SQL               string            `json:"sql"`
	Params            []interface{}     `json:"params"`
	Tables            []string          `json:"tables"`
	VisualizationType VisualizationType `json:"visualizationType"`
	ExpectedColumns   []string          `json:"expectedColumns"`
}
