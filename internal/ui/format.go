package ui

import (
	"time"

	"github.com/welfaredesk/distress-console/internal/api"
)

// eastAfrica is the display time zone for all case timestamps. The front
// office operates in Nairobi regardless of where the console runs.
var eastAfrica = loadEastAfrica()

func loadEastAfrica() *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		// EAT has no DST; a fixed offset is an exact substitute when the
		// tz database is unavailable.
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

// formatTimestamp renders a timestamp in East Africa time. One rule for
// every timestamp shown: receiving dates and note times must match.
func formatTimestamp(t time.Time) string {
	return t.In(eastAfrica).Format("02 Jan 2006 15:04")
}

// formatReceived renders an optional receiving date, empty when absent.
func formatReceived(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimestamp(*t)
}

// caseRow is a list-view row with display defaults applied.
type caseRow struct {
	id              int64
	referenceNumber string
	senderName      string
	receivingDate   string
	subject         string
	status          string
	stage           string
}

// rowFromCase normalizes a server record for tabular display. Missing status
// and stage get workflow defaults so the table never shows blanks for them.
func rowFromCase(c api.Case) caseRow {
	row := caseRow{
		id:              c.ID,
		referenceNumber: c.ReferenceNumber,
		senderName:      c.SenderName,
		receivingDate:   formatReceived(c.ReceivingDate),
		subject:         c.Subject,
		status:          c.Status,
		stage:           c.Stage,
	}
	if row.status == "" {
		row.status = api.DefaultStatus
	}
	if row.stage == "" {
		row.stage = api.DefaultStage
	}
	return row
}
