// Package model contains domain models passed between layers.
package model

// Column names of the shared qualifying results schema.
const (
	ColDriverNumber  = "DriverNumber"
	ColBroadcastName = "BroadcastName"
	ColTeamName      = "TeamName"
	ColPosition      = "Position"
	ColQ1            = "Q1"
	ColQ2            = "Q2"
	ColQ3            = "Q3"
	ColYear          = "Year"
	ColEventName     = "EventName"
	ColWetSession    = "WetSession"
)

// RequiredColumns lists the columns every unified table must carry, in report order.
var RequiredColumns = []string{
	ColDriverNumber,
	ColBroadcastName,
	ColTeamName,
	ColPosition,
	ColQ1,
	ColQ2,
	ColQ3,
	ColYear,
	ColEventName,
	ColWetSession,
}

// QualifyingRecord is one driver's result in one qualifying session.
type QualifyingRecord struct {
	DriverNumber  string
	BroadcastName string // driver identity
	TeamName      string
	Position      Float // 1-based rank, missing when no time was set
	Q1            string
	Q2            string
	Q3            string
	Year          int
	EventName     string
	WetSession    bool

	// Derived by time normalization.
	Q1Seconds Float
	Q2Seconds Float
	Q3Seconds Float
}
