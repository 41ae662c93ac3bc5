package workflow

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Frequency is how often orders created from a workflow repeat. The
// vocabulary is closed for labelling purposes, but unknown values are kept
// as they are and labelled by capitalising their first letter.
type Frequency string

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Biweekly  Frequency = "biweekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
	OneTime   Frequency = "one-time"
)

// OneTimeLabel is shown for non-recurring orders.
const OneTimeLabel = "One-Time Order"

var frequencyLabels = map[Frequency]string{
	Daily:     "Daily",
	Weekly:    "Weekly",
	Biweekly:  "Bi-Weekly",
	Monthly:   "Monthly",
	Quarterly: "Quarterly",
	Yearly:    "Yearly",
	OneTime:   OneTimeLabel,
}

// IsEmpty reports whether no frequency is set.
func (f Frequency) IsEmpty() bool {
	return strings.TrimSpace(string(f)) == ""
}

// IsRecurring reports whether the frequency is set and is not OneTime.
func (f Frequency) IsRecurring() bool {
	return !f.IsEmpty() && f != OneTime
}

// Label returns the human readable name. An empty frequency reads as OneTimeLabel.
func (f Frequency) Label() string {
	if f.IsEmpty() {
		return OneTimeLabel
	}
	if label, ok := frequencyLabels[f]; ok {
		return label
	}
	r, size := utf8.DecodeRuneInString(string(f))
	return string(unicode.ToUpper(r)) + string(f)[size:]
}
