package domain

import "time"

// Domain contains core models shared across packages.

// Record is the persisted (date, headline) tuple. Date and Time are
// pre-formatted in the target's timezone so the ledger file stays a plain
// diffable text artifact.
type Record struct {
	Date     string `json:"date"`
	Time     string `json:"time"`
	Headline string `json:"headline"`
}

// NewRecord formats a record for the given wall-clock instant and location.
func NewRecord(headline string, at time.Time, loc *time.Location) Record {
	if loc == nil {
		loc = time.UTC
	}
	local := at.In(loc)
	return Record{
		Date:     local.Format("2006-01-02"),
		Time:     local.Format("3:04PM"),
		Headline: headline,
	}
}
