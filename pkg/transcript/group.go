package transcript

import (
	"sort"
	"time"

	"github.com/xhad/infuse/internal/models"
)

// GroupPairs groups messages for rendering. A user message is paired
// with the immediately following assistant message only when the roles
// match that exact pattern; anything else becomes a singleton group.
// No message is ever dropped and no group waits on an assumed partner.
func GroupPairs(msgs []models.ChatMessage) [][]models.ChatMessage {
	groups := make([][]models.ChatMessage, 0, (len(msgs)+1)/2)
	for i := 0; i < len(msgs); {
		if msgs[i].Role == models.RoleUser && i+1 < len(msgs) && msgs[i+1].Role == models.RoleAssistant {
			groups = append(groups, []models.ChatMessage{msgs[i], msgs[i+1]})
			i += 2
			continue
		}
		groups = append(groups, []models.ChatMessage{msgs[i]})
		i++
	}
	return groups
}

// GroupByDate partitions records into calendar-date buckets in the
// viewer's local time zone, newest date first. Order inside a bucket
// is preserved. Two records belong together only when their localized
// date strings are identical, not when they fall within 24 hours.
func GroupByDate(records []models.QARecord) []models.DateGroup {
	buckets := make(map[string]*models.DateGroup)
	var dates []string

	for _, rec := range records {
		date := rec.Timestamp.In(time.Local).Format("2006-01-02")
		g, ok := buckets[date]
		if !ok {
			g = &models.DateGroup{Date: date}
			buckets[date] = g
			dates = append(dates, date)
		}
		g.Records = append(g.Records, rec)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	out := make([]models.DateGroup, 0, len(dates))
	for _, d := range dates {
		out = append(out, *buckets[d])
	}
	return out
}
