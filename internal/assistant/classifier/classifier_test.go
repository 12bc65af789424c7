// internal/assistant/classifier/classifier_test.go
package classifier

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/common/logger"
	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

var testNow = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestClassifier(t *testing.T) *Classifier {
	return New(logger.NewTestLogger(t))
}

// ==========================
// Domain Classification Tests
// ==========================

func TestParse_DomainClassification(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		context        models.QueryDomain
		expectedDomain models.QueryDomain
	}{
		{
			name:           "german leads keyword",
			text:           "Zeige mir alle Leads",
			expectedDomain: models.DomainLeads,
		},
		{
			name:           "english leads keyword",
			text:           "show me all leads",
			expectedDomain: models.DomainLeads,
		},
		{
			name:           "german bookings keyword",
			text:           "Alle Buchungen von heute",
			expectedDomain: models.DomainBookings,
		},
		{
			name:           "german revenue keyword",
			text:           "Umsatz der letzten 30 Tage",
			expectedDomain: models.DomainRevenue,
		},
		{
			name:           "german contacts keyword",
			text:           "Kontakte aus Österreich",
			expectedDomain: models.DomainContacts,
		},
		{
			name:           "analytics keyword",
			text:           "Zeige mir die Statistik",
			expectedDomain: models.DomainAnalytics,
		},
		{
			name:           "no keyword falls back to unknown",
			text:           "Zeige mir etwas",
			expectedDomain: models.DomainUnknown,
		},
		{
			name:           "context hint fills in when nothing matches",
			text:           "Zeige mir die neuesten Einträge",
			context:        models.DomainBookings,
			expectedDomain: models.DomainBookings,
		},
		{
			name:           "context hint breaks ties between matching families",
			text:           "Umsatz aus Buchungen",
			context:        models.DomainRevenue,
			expectedDomain: models.DomainRevenue,
		},
		{
			name:           "priority order wins without a hint",
			text:           "Leads und Buchungen",
			expectedDomain: models.DomainLeads,
		},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Parse(tt.text, tt.context, testNow)
			assert.Equal(t, tt.expectedDomain, cl.Domain)
		})
	}
}

// ==========================
// Intent Detection Tests
// ==========================

func TestParse_IntentDetection(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedIntent models.QueryIntent
		expectedAgg    models.AggregationKind
	}{
		{
			name:           "german count phrase",
			text:           "Wie viele Leads haben wir?",
			expectedIntent: models.IntentCount,
			expectedAgg:    models.AggregationCount,
		},
		{
			name:           "english count phrase",
			text:           "how many bookings this month",
			expectedIntent: models.IntentCount,
			expectedAgg:    models.AggregationCount,
		},
		{
			name:           "revenue keyword implies sum",
			text:           "Umsatz der letzten Woche",
			expectedIntent: models.IntentSum,
			expectedAgg:    models.AggregationSum,
		},
		{
			name:           "analyze keyword",
			text:           "Analysiere die Lead Performance",
			expectedIntent: models.IntentAnalyze,
			expectedAgg:    "",
		},
		{
			name:           "zeige defaults to list",
			text:           "Zeige mir alle Kontakte",
			expectedIntent: models.IntentList,
			expectedAgg:    "",
		},
		{
			name:           "count beats list when both present",
			text:           "Zeige mir wie viele Leads es gibt",
			expectedIntent: models.IntentCount,
			expectedAgg:    models.AggregationCount,
		},
		{
			name:           "no keyword defaults to list",
			text:           "alle Kontakte aus Deutschland",
			expectedIntent: models.IntentList,
			expectedAgg:    "",
		},
	}

	c := newTestClassifier(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := c.Parse(tt.text, "", testNow)
			assert.Equal(t, tt.expectedIntent, cl.Intent)
			assert.Equal(t, tt.expectedAgg, cl.Aggregation)
		})
	}
}

// ==========================
// Entity Extraction Tests
// ==========================

func TestParse_EntityExtraction(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("country canonicalization german", func(t *testing.T) {
		cl := c.Parse("Leads aus Deutschland", "", testNow)
		assert.Equal(t, "deutschland", cl.Entities.Country)
	})

	t.Run("country canonicalization english alias", func(t *testing.T) {
		cl := c.Parse("leads from Germany", "", testNow)
		assert.Equal(t, "deutschland", cl.Entities.Country)
	})

	t.Run("umlaut country", func(t *testing.T) {
		cl := c.Parse("Kontakte aus Österreich", "", testNow)
		assert.Equal(t, "österreich", cl.Entities.Country)
	})

	t.Run("ascii spelling of umlaut country", func(t *testing.T) {
		cl := c.Parse("Kontakte aus Oesterreich", "", testNow)
		assert.Equal(t, "österreich", cl.Entities.Country)
	})

	t.Run("hot lead status german", func(t *testing.T) {
		cl := c.Parse("Zeige mir heiße Leads", "", testNow)
		assert.Equal(t, models.LeadStatusHot, cl.Entities.LeadStatus)
	})

	t.Run("hot lead status english", func(t *testing.T) {
		cl := c.Parse("show hot leads", "", testNow)
		assert.Equal(t, models.LeadStatusHot, cl.Entities.LeadStatus)
	})

	t.Run("cold lead status", func(t *testing.T) {
		cl := c.Parse("kalte Leads anzeigen", "", testNow)
		assert.Equal(t, models.LeadStatusCold, cl.Entities.LeadStatus)
	})

	t.Run("budget amount before currency", func(t *testing.T) {
		cl := c.Parse("Leads mit Budget über 2000 Euro", "", testNow)
		require.NotNil(t, cl.Entities.BudgetAmount)
		assert.Equal(t, 2000, *cl.Entities.BudgetAmount)
	})

	t.Run("budget amount with thousands separator", func(t *testing.T) {
		cl := c.Parse("Leads mit Budget über 2.000 Euro", "", testNow)
		require.NotNil(t, cl.Entities.BudgetAmount)
		assert.Equal(t, 2000, *cl.Entities.BudgetAmount)
	})

	t.Run("no entities in plain query", func(t *testing.T) {
		cl := c.Parse("Zeige mir alle Leads", "", testNow)
		assert.Empty(t, cl.Entities.Country)
		assert.Empty(t, cl.Entities.LeadStatus)
		assert.Nil(t, cl.Entities.BudgetAmount)
	})
}

// ==========================
// Filter Derivation Tests
// ==========================

func TestParse_FilterDerivation(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("status country and budget in fixed order", func(t *testing.T) {
		cl := c.Parse("Heiße Leads aus Deutschland mit Budget über 2000 Euro", "", testNow)

		require.Len(t, cl.Filters, 3)
		assert.Equal(t, models.Filter{
			Field:    "lead_score",
			Operator: models.OperatorBetween,
			Value:    [2]int{models.HotLeadMinScore, models.HotLeadMaxScore},
		}, cl.Filters[0])
		assert.Equal(t, models.Filter{
			Field:    "country",
			Operator: models.OperatorEq,
			Value:    "Germany",
		}, cl.Filters[1])
		assert.Equal(t, models.Filter{
			Field:    "budget_max",
			Operator: models.OperatorGte,
			Value:    2000,
		}, cl.Filters[2])
	})

	t.Run("warm status maps to middle band", func(t *testing.T) {
		cl := c.Parse("warme Leads", "", testNow)
		require.Len(t, cl.Filters, 1)
		assert.Equal(t, [2]int{models.WarmLeadMinScore, models.WarmLeadMaxScore}, cl.Filters[0].Value)
	})

	t.Run("below qualifier flips budget operator", func(t *testing.T) {
		cl := c.Parse("Leads mit Budget unter 1500 Euro", "", testNow)
		require.Len(t, cl.Filters, 1)
		assert.Equal(t, models.OperatorLte, cl.Filters[0].Operator)
		assert.Equal(t, 1500, cl.Filters[0].Value)
	})

	t.Run("bare budget amount reads as floor", func(t *testing.T) {
		cl := c.Parse("Leads mit Budget 3000", "", testNow)
		require.Len(t, cl.Filters, 1)
		assert.Equal(t, models.OperatorGte, cl.Filters[0].Operator)
		assert.Equal(t, 3000, cl.Filters[0].Value)
	})

	t.Run("filters never carry raw user text", func(t *testing.T) {
		cl := c.Parse("Heiße Leads aus Deutschland mit Budget über 2000 Euro", "", testNow)
		for _, f := range cl.Filters {
			switch v := f.Value.(type) {
			case string:
				assert.NotContains(t, "Heiße Leads aus Deutschland mit Budget über 2000 Euro", v)
			case int, [2]int:
				// typed scalars are fine
			default:
				t.Fatalf("unexpected filter value type %T", v)
			}
		}
	})
}

// ==========================
// Timeframe Tests
// ==========================

func TestParse_Timeframe(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("german relative with count", func(t *testing.T) {
		cl := c.Parse("Umsatz der letzten 30 Tage", "", testNow)

		require.NotNil(t, cl.Timeframe)
		assert.Equal(t, models.TimeframeRelative, cl.Timeframe.Type)
		assert.Equal(t, models.PeriodDay, cl.Timeframe.Period)
		assert.Equal(t, 30, cl.Timeframe.Count)
		assert.Equal(t, testNow.Add(-30*24*time.Hour), cl.Timeframe.Start)
		assert.Equal(t, testNow, cl.Timeframe.End)
	})

	t.Run("bare letzte Woche defaults count to one", func(t *testing.T) {
		cl := c.Parse("Leads der letzten Woche", "", testNow)

		require.NotNil(t, cl.Timeframe)
		assert.Equal(t, models.PeriodWeek, cl.Timeframe.Period)
		assert.Equal(t, 1, cl.Timeframe.Count)
		assert.Equal(t, testNow.Add(-7*24*time.Hour), cl.Timeframe.Start)
	})

	t.Run("english relative months", func(t *testing.T) {
		cl := c.Parse("revenue for the last 3 months", "", testNow)

		require.NotNil(t, cl.Timeframe)
		assert.Equal(t, models.PeriodMonth, cl.Timeframe.Period)
		assert.Equal(t, 3, cl.Timeframe.Count)
		assert.Equal(t, testNow.Add(-3*30*24*time.Hour), cl.Timeframe.Start)
	})

	t.Run("heute covers the whole current day", func(t *testing.T) {
		cl := c.Parse("Buchungen von heute", "", testNow)

		require.NotNil(t, cl.Timeframe)
		assert.Equal(t, models.TimeframeAbsolute, cl.Timeframe.Type)
		assert.Equal(t, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), cl.Timeframe.Start)
		assert.Equal(t, time.Date(2025, 3, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), cl.Timeframe.End)
	})

	t.Run("gestern resolves to the previous day", func(t *testing.T) {
		cl := c.Parse("Buchungen von gestern", "", testNow)

		require.NotNil(t, cl.Timeframe)
		assert.Equal(t, models.TimeframeAbsolute, cl.Timeframe.Type)
		assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), cl.Timeframe.Start)
	})

	t.Run("no timeframe when nothing temporal is mentioned", func(t *testing.T) {
		cl := c.Parse("Zeige mir alle Leads", "", testNow)
		assert.Nil(t, cl.Timeframe)
	})
}

// ==========================
// Confidence Tests
// ==========================

func TestParse_Confidence(t *testing.T) {
	c := newTestClassifier(t)

	t.Run("rich query scores high", func(t *testing.T) {
		cl := c.Parse("Zeige mir alle heißen Leads aus Deutschland der letzten Woche", "", testNow)
		assert.GreaterOrEqual(t, cl.Confidence, 0.8)
	})

	t.Run("vague query scores low", func(t *testing.T) {
		cl := c.Parse("Zeige mir etwas", "", testNow)
		assert.Equal(t, models.DomainUnknown, cl.Domain)
		assert.Less(t, cl.Confidence, 0.5)
	})

	t.Run("bare domain keyword scores below half", func(t *testing.T) {
		cl := c.Parse("Leads", "", testNow)
		assert.Less(t, cl.Confidence, 0.5)
	})

	t.Run("hint only domain scores lower than matched domain", func(t *testing.T) {
		matched := c.Parse("Zeige mir alle Buchungen", "", testNow)
		hinted := c.Parse("Zeige mir die neuesten Einträge", models.DomainBookings, testNow)
		assert.Greater(t, matched.Confidence, hinted.Confidence)
	})

	t.Run("confidence never exceeds one", func(t *testing.T) {
		cl := c.Parse("Wie viele heiße Leads aus Deutschland mit Budget über 2000 Euro der letzten 7 Tage", "", testNow)
		assert.LessOrEqual(t, cl.Confidence, 1.0)
	})
}

// ==========================
// Determinism Tests
// ==========================

func TestParse_Deterministic(t *testing.T) {
	c := newTestClassifier(t)
	text := "Wie viele heiße Leads aus Deutschland der letzten 2 Wochen"

	first, err := json.Marshal(c.Parse(text, "", testNow))
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		next, err := json.Marshal(c.Parse(text, "", testNow))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(next))
	}
}

func TestParse_CaseAndWhitespaceInsensitive(t *testing.T) {
	c := newTestClassifier(t)

	a := c.Parse("ZEIGE MIR ALLE LEADS AUS DEUTSCHLAND", "", testNow)
	b := c.Parse("  zeige mir alle leads aus deutschland  ", "", testNow)

	assert.Equal(t, a.Domain, b.Domain)
	assert.Equal(t, a.Intent, b.Intent)
	assert.Equal(t, a.Entities, b.Entities)
	assert.Equal(t, a.Confidence, b.Confidence)
}
