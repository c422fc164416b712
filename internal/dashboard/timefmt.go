package dashboard

import "time"

// NowLabel labels the soonest forecast hour.
const NowLabel = "Now"

// dateTimeLayout renders like en-US {month: short, day: numeric, hour: numeric},
// e.g. "Oct 19, 3 PM".
const dateTimeLayout = "Jan 2, 3 PM"

// TimeFormatter renders forecast timestamps in a fixed display location.
type TimeFormatter struct {
	loc *time.Location
}

// NewTimeFormatter creates a formatter for loc. A nil loc means time.Local.
func NewTimeFormatter(loc *time.Location) *TimeFormatter {
	if loc == nil {
		loc = time.Local
	}
	return &TimeFormatter{loc: loc}
}

// Format renders t as a short label such as "Oct 19, 3 PM".
func (f *TimeFormatter) Format(t time.Time) string {
	return t.In(f.loc).Format(dateTimeLayout)
}

// HourLabels returns n labels for the forecast horizon starting at now:
// index 0 is "Now", index i is now plus i hours.
func (f *TimeFormatter) HourLabels(now time.Time, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		if i == 0 {
			labels[i] = NowLabel
			continue
		}
		labels[i] = f.Format(now.Add(time.Duration(i) * time.Hour))
	}
	return labels
}
