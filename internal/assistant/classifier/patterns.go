// internal/assistant/classifier/patterns.go
package classifier

import (
	"regexp"

	"github.com/dercryptomuslim/umrahcheck-crm-dashboard-sub001/internal/models"
)

// Domain pattern families, German and English, evaluated case-insensitively.
// domainPriority fixes the winner when several families match and no explicit
// context is supplied.
var domainPriority = []models.QueryDomain{
	models.DomainLeads,
	models.DomainBookings,
	models.DomainRevenue,
	models.DomainContacts,
	models.DomainAnalytics,
}

var domainPatterns = map[models.QueryDomain][]*regexp.Regexp{
	models.DomainLeads: {
		regexp.MustCompile(`(?i)\blead(s|en)?\b`),
		regexp.MustCompile(`(?i)interessent`),
		regexp.MustCompile(`(?i)\bprospects?\b`),
	},
	models.DomainBookings: {
		regexp.MustCompile(`(?i)buchung`),
		regexp.MustCompile(`(?i)\bbookings?\b`),
		regexp.MustCompile(`(?i)reservierung`),
		regexp.MustCompile(`(?i)\breservations?\b`),
	},
	models.DomainRevenue: {
		regexp.MustCompile(`(?i)umsatz|umsätze`),
		regexp.MustCompile(`(?i)\brevenue\b`),
		regexp.MustCompile(`(?i)einnahmen`),
	},
	models.DomainContacts: {
		regexp.MustCompile(`(?i)kontakt`),
		regexp.MustCompile(`(?i)\bcontacts?\b`),
		regexp.MustCompile(`(?i)\bkunden?\b`),
		regexp.MustCompile(`(?i)\bcustomers?\b`),
	},
	models.DomainAnalytics: {
		regexp.MustCompile(`(?i)statistik`),
		regexp.MustCompile(`(?i)\banalytics\b`),
		regexp.MustCompile(`(?i)übersicht`),
		regexp.MustCompile(`(?i)\boverview\b`),
		regexp.MustCompile(`(?i)\bdashboard\b`),
	},
}

// Intent keyword families. Evaluation order matters: list keywords like
// "zeige" appear in almost every query, so the aggregate families are checked
// first and list wins only as the fallback family.
var intentOrder = []models.QueryIntent{
	models.IntentCount,
	models.IntentSum,
	models.IntentAnalyze,
	models.IntentList,
}

var intentPatterns = map[models.QueryIntent][]*regexp.Regexp{
	models.IntentCount: {
		regexp.MustCompile(`(?i)wie viele`),
		regexp.MustCompile(`(?i)\bhow many\b`),
		regexp.MustCompile(`(?i)anzahl`),
	},
	models.IntentSum: {
		regexp.MustCompile(`(?i)summe`),
		regexp.MustCompile(`(?i)\btotal\b`),
		regexp.MustCompile(`(?i)umsatz`),
		regexp.MustCompile(`(?i)einnahmen`),
	},
	models.IntentAnalyze: {
		regexp.MustCompile(`(?i)analysier`),
		regexp.MustCompile(`(?i)\banaly[sz]e\b`),
		regexp.MustCompile(`(?i)statistik`),
		regexp.MustCompile(`(?i)performance`),
		regexp.MustCompile(`(?i)auswertung`),
	},
	models.IntentList: {
		regexp.MustCompile(`(?i)zeige?\b`),
		regexp.MustCompile(`(?i)\bshow\b`),
		regexp.MustCompile(`(?i)\blist(e|en)?\b`),
		regexp.MustCompile(`(?i)anzeigen`),
	},
}

type countryAlias struct {
	alias string // matched as lowercase substring
	key   string // canonical internal key
}

// Ordered so extraction stays deterministic when a query names two countries:
// the first alias in the table wins.
var countryAliases = []countryAlias{
	{"deutschland", "deutschland"},
	{"germany", "deutschland"},
	{"österreich", "österreich"},
	{"oesterreich", "österreich"},
	{"austria", "österreich"},
	{"schweiz", "schweiz"},
	{"switzerland", "schweiz"},
	{"türkei", "türkei"},
	{"tuerkei", "türkei"},
	{"turkey", "türkei"},
	{"frankreich", "frankreich"},
	{"france", "frankreich"},
	{"niederlande", "niederlande"},
	{"netherlands", "niederlande"},
	{"belgien", "belgien"},
	{"belgium", "belgien"},
}

// countryDisplay maps canonical keys to the display-cased names stored in the
// contacts.country column.
var countryDisplay = map[string]string{
	"deutschland": "Germany",
	"österreich":  "Austria",
	"schweiz":     "Switzerland",
	"türkei":      "Turkey",
	"frankreich":  "France",
	"niederlande": "Netherlands",
	"belgien":     "Belgium",
}

var leadStatusPatterns = []struct {
	status  models.LeadStatus
	pattern *regexp.Regexp
}{
	{models.LeadStatusHot, regexp.MustCompile(`(?i)heiß|heiss|\bhot\b`)},
	{models.LeadStatusWarm, regexp.MustCompile(`(?i)\bwarm`)},
	{models.LeadStatusCold, regexp.MustCompile(`(?i)kalt|\bcold\b`)},
}

// Budget extraction: the first number adjacent to a currency or budget
// keyword. Thousands separators (2.000 / 2,000) are tolerated.
var (
	amountBeforeCurrency = regexp.MustCompile(`(?i)(\d+(?:[.,]\d{3})*)\s*(?:€|euro\b|eur\b)`)
	amountAfterBudget    = regexp.MustCompile(`(?i)budget\D{0,24}?(\d+(?:[.,]\d{3})*)`)

	// Qualifiers are matched as padded substrings rather than \b groups
	// because Go's \b is ASCII-only and fails next to umlauts.
	budgetBelowQualifiers = []string{"unter ", "under ", "below ", "weniger als", "höchstens", "maximal"}
	budgetAboveQualifiers = []string{"über", "ueber", "over ", "above", "mehr als", "mindestens"}
)

// Timeframe patterns. Relative forms bind an optional count and a period;
// a bare "letzte Woche"/"last week" defaults the count to 1.
var (
	relativeTimeframeDE = regexp.MustCompile(`(?i)letzte[nrs]?\s*(\d+)?\s*(tag(?:e|en)?|woche(?:n)?|monat(?:e|en)?)`)
	relativeTimeframeEN = regexp.MustCompile(`(?i)(?:last|past)\s*(\d+)?\s*(day(?:s)?|week(?:s)?|month(?:s)?)`)
	todayPattern        = regexp.MustCompile(`(?i)heute|\btoday\b`)
	yesterdayPattern    = regexp.MustCompile(`(?i)gestern|\byesterday\b`)
)
