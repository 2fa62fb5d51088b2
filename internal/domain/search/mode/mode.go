package mode

// Mode selects how retained hits are projected into the output.
type Mode string

// Projection mode constants.
const (
	// Full emits title, reranker score, content and metadata.
	Full Mode = "full"
	// Titles emits only the document title.
	Titles Mode = "titles"
)

// FromTitlesOnly maps the boolean tool flag onto a Mode.
func FromTitlesOnly(titlesOnly bool) Mode {
	if titlesOnly {
		return Titles
	}
	return Full
}

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Full || m == Titles
}
