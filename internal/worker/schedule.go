package worker

import (
	"fmt"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"SUN": time.Sunday,
	"MON": time.Monday,
	"TUE": time.Tuesday,
	"WED": time.Wednesday,
	"THU": time.Thursday,
	"FRI": time.Friday,
	"SAT": time.Saturday,
}

// WeeklySchedule fires at one time of day on selected weekdays.
type WeeklySchedule struct {
	expr   string
	days   [7]bool
	hour   int
	minute int
	loc    *time.Location
}

// ParseWeeklySchedule parses "<days> HH:MM" where days is "*", a weekday
// ("MON"), a range ("MON-FRI") or a comma list of those ("MON,WED-THU").
// A bare "HH:MM" runs every day.
func ParseWeeklySchedule(expr string, loc *time.Location) (*WeeklySchedule, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &WeeklySchedule{expr: expr, loc: loc}

	fields := strings.Fields(expr)
	var dayExpr, clock string
	switch len(fields) {
	case 1:
		dayExpr, clock = "*", fields[0]
	case 2:
		dayExpr, clock = fields[0], fields[1]
	default:
		return nil, fmt.Errorf("schedule %q: want \"<days> HH:MM\"", expr)
	}

	at, err := time.Parse("15:04", clock)
	if err != nil {
		return nil, fmt.Errorf("schedule %q: invalid time %q", expr, clock)
	}
	s.hour, s.minute = at.Hour(), at.Minute()

	if err := s.parseDays(strings.ToUpper(dayExpr)); err != nil {
		return nil, fmt.Errorf("schedule %q: %w", expr, err)
	}
	return s, nil
}

func (s *WeeklySchedule) parseDays(expr string) error {
	if expr == "*" {
		for i := range s.days {
			s.days[i] = true
		}
		return nil
	}

	for _, part := range strings.Split(expr, ",") {
		from, to, isRange := strings.Cut(part, "-")
		start, ok := weekdays[from]
		if !ok {
			return fmt.Errorf("unknown day %q", from)
		}
		end := start
		if isRange {
			if end, ok = weekdays[to]; !ok {
				return fmt.Errorf("unknown day %q", to)
			}
		}
		// Ranges may wrap, e.g. FRI-MON.
		for d := start; ; d = (d + 1) % 7 {
			s.days[d] = true
			if d == end {
				break
			}
		}
	}
	return nil
}

// Next returns the first fire time strictly after t.
func (s *WeeklySchedule) Next(t time.Time) time.Time {
	t = t.In(s.loc)
	for i := 0; i <= 7; i++ {
		d := t.AddDate(0, 0, i)
		candidate := time.Date(d.Year(), d.Month(), d.Day(), s.hour, s.minute, 0, 0, s.loc)
		if candidate.After(t) && s.days[candidate.Weekday()] {
			return candidate
		}
	}
	// Unreachable: parsing guarantees at least one day.
	return t.Add(24 * time.Hour)
}

func (s *WeeklySchedule) String() string {
	return s.expr
}
