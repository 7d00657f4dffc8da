package formats

// Status is the verdict a detector reaches on the bytes it was shown.
type Status int

const (
	// NoMatch means the buffer is not (or can no longer be) this format.
	NoMatch Status = iota
	// NeedMoreData means the buffer is consistent with the format so far but too
	// short to extract the dimensions.
	NeedMoreData
	// Resolved means the format was identified and the dimensions extracted.
	Resolved
)

func (s Status) String() string {
	switch s {
	case NoMatch:
		return "no-match"
	case NeedMoreData:
		return "need-more-data"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Outcome captures a detector verdict. Format, Width and Height are only set
// when Status is Resolved.
type Outcome struct {
	Status Status
	Format string
	Width  uint32
	Height uint32
}

var (
	noMatch  = Outcome{Status: NoMatch}
	needMore = Outcome{Status: NeedMoreData}
)

// resolved builds a Resolved outcome. Zero dimensions are treated as a corrupt
// header and reported as NoMatch.
func resolved(format string, width, height uint32) Outcome {
	if width == 0 || height == 0 {
		return noMatch
	}
	return Outcome{Status: Resolved, Format: format, Width: width, Height: height}
}
