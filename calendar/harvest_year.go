package calendar

import "time"

// DefaultSeparator joins the two year tokens of a harvest-year label.
const DefaultSeparator = "/"

// HarvestYear is an agricultural accounting period (ano-safra) labelled by
// the two-digit years it starts and ends in, e.g. "23/24".
type HarvestYear struct {
	Label     string `json:"anoSafra" yaml:"anoSafra"`
	StartYear string `json:"inicio" yaml:"inicio"`
	EndYear   string `json:"fim" yaml:"fim"`
}

// SameSpan reports whether both harvest-years cover the same two years,
// regardless of the separator used in their labels.
func (hy HarvestYear) SameSpan(other HarvestYear) bool {
	return hy.StartYear == other.StartYear && hy.EndYear == other.EndYear
}

// HarvestYearStatus is a HarvestYear flagged with whether it is the
// harvest-year in progress at the time it was computed.
type HarvestYearStatus struct {
	HarvestYear `yaml:",inline"`
	IsCurrent   bool `json:"isAtual" yaml:"isAtual"`
}

// Classification bundles the semester and harvest-year of a single date.
//
// SpanStart is the four-digit calendar year the harvest-year starts in.
// The two-digit tokens of HarvestYear repeat every century; SpanStart does not.
type Classification struct {
	Date        time.Time   `json:"date" yaml:"date"`
	Half        Half        `json:"semestre" yaml:"semestre"`
	HarvestYear HarvestYear `json:"safra" yaml:"safra"`
	SpanStart   int         `json:"anoInicio" yaml:"anoInicio"`
}

// TwoDigitYear returns the last two digits of t's year, zero padded
// (2024 -> "24", 2000 -> "00").
func TwoDigitYear(t time.Time) string {
	return t.Format("06")
}

// HarvestYearOf computes the harvest-year containing date.
//
// Harvest-years turn over at the start of the second semester:
//   - March 15, 2024 (semester 1): "23/24"
//   - September 1, 2024 (semester 2): "24/25"
//
// The separator is used verbatim and may be empty.
func HarvestYearOf(date time.Time, separator string) HarvestYear {
	return harvestYearForHalf(CurrentHalf(date), date, separator)
}

// Classify returns the semester and harvest-year of date in one pass.
func Classify(date time.Time, separator string) Classification {
	half := CurrentHalf(date)
	return Classification{
		Date:        civilDay(date),
		Half:        half,
		HarvestYear: harvestYearForHalf(half, date, separator),
		SpanStart:   spanStartForHalf(half, date),
	}
}

// spanStartForHalf mirrors harvestYearForHalf with full years.
func spanStartForHalf(half Half, date time.Time) int {
	if half == Semester1 {
		return date.Year() - 1
	}
	return date.Year()
}

func harvestYearForHalf(half Half, date time.Time, separator string) HarvestYear {
	current := TwoDigitYear(date)
	previous := TwoDigitYear(date.AddDate(-1, 0, 0))
	next := TwoDigitYear(date.AddDate(1, 0, 0))

	switch half {
	case Semester1:
		return newHarvestYear(previous, current, separator)
	case Semester2:
		return newHarvestYear(current, next, separator)
	default:
		return newHarvestYear(current, current, separator)
	}
}

func newHarvestYear(start, end, separator string) HarvestYear {
	return HarvestYear{
		Label:     start + separator + end,
		StartYear: start,
		EndYear:   end,
	}
}
