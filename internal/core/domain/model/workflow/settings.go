package workflow

// Settings is the workflow section of a template, or the custom data of a
// workflow. It is stored as a JSON document.
type Settings struct {
	Frequency     Frequency `json:"frequency,omitempty"`
	CustomAllowed bool      `json:"custom_allowed,omitempty"`
}

// IsEmpty reports whether nothing is configured.
func (s Settings) IsEmpty() bool {
	return s == Settings{}
}

// IsNotEmpty is the negation of IsEmpty, usable as a presence test.
func (s Settings) IsNotEmpty() bool {
	return !s.IsEmpty()
}
