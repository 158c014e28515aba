package nyutai

import (
	"sort"
	"time"
)

// Visit is a single stay derived from a Record.
type Visit struct {
	Entrance time.Time
	Exit     time.Time
	Exited   bool

	// Duration is Exit - Entrance truncated to the minute, zero while the
	// student is still present.
	Duration time.Duration
}

func (v Visit) Day() int {
	return v.Entrance.Day()
}

type MonthLog struct {
	Month  time.Month
	Visits []Visit
}

type YearLog struct {
	Year   int
	Months []MonthLog
}

// AttendanceLog is one student's visits grouped by year and month, both
// ascending, with visits in entrance order.
type AttendanceLog struct {
	Student Student
	Years   []YearLog
	Total   time.Duration
}

func (l AttendanceLog) VisitCount() int {
	n := 0
	for _, year := range l.Years {
		for _, month := range year.Months {
			n += len(month.Visits)
		}
	}
	return n
}

// BuildAttendanceLog groups the student's records. The bool is false when none
// of the records belong to the student. Records whose entrance time is missing
// or unreadable are skipped; an unreadable exit time is treated as not exited.
func BuildAttendanceLog(student Student, records []Record, loc *time.Location) (AttendanceLog, bool) {
	report := AttendanceLog{
		Student: student,
		Years:   []YearLog{},
	}

	visits := []Visit{}
	matched := false

	for _, record := range records {
		if record.UserID != student.ID {
			continue
		}
		matched = true

		if record.EntranceTime == nil || *record.EntranceTime == "" {
			continue
		}

		entrance, err := ParseTimestamp(*record.EntranceTime, loc)
		if err != nil {
			continue
		}

		visit := Visit{Entrance: entrance}

		if record.ExitTime != nil && *record.ExitTime != "" {
			exit, err := ParseTimestamp(*record.ExitTime, loc)
			if err == nil {
				visit.Exit = exit
				visit.Exited = true
				if d := exit.Sub(entrance); d > 0 {
					visit.Duration = d.Truncate(time.Minute)
				}
			}
		}

		visits = append(visits, visit)
	}

	if !matched {
		return AttendanceLog{}, false
	}

	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].Entrance.Before(visits[j].Entrance)
	})

	// visits are sorted so a new year or month always starts a new group
	for _, visit := range visits {
		year, month := visit.Entrance.Year(), visit.Entrance.Month()

		if n := len(report.Years); n == 0 || report.Years[n-1].Year != year {
			report.Years = append(report.Years, YearLog{Year: year})
		}
		y := &report.Years[len(report.Years)-1]

		if n := len(y.Months); n == 0 || y.Months[n-1].Month != month {
			y.Months = append(y.Months, MonthLog{Month: month})
		}
		m := &y.Months[len(y.Months)-1]

		m.Visits = append(m.Visits, visit)
		report.Total += visit.Duration
	}

	return report, true
}
