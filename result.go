package fastimage

import (
	"fmt"
	"time"
)

type source struct {
	kind     SourceKind
	locator  string
	resolved string
	size     *uint64
}

// assemble turns a terminal Sniffer into an ImageInfo or the error matching
// its state.
func assemble(s *Sniffer, src source, start time.Time) (*ImageInfo, error) {
	switch s.State() {
	case StateResolved:
	case StateTruncated:
		return nil, newError(KindTruncatedData, src.locator, s.Consumed(),
			fmt.Errorf("data ended after %d bytes, before the header was complete", s.Consumed())).since(start)
	default:
		return nil, newError(KindUnsupportedFormat, src.locator, s.Consumed(),
			fmt.Errorf("no known image header in the first %d bytes", s.Len())).since(start)
	}

	out := s.Outcome()
	format := Format(out.Format)
	info := &ImageInfo{
		Width:         out.Width,
		Height:        out.Height,
		Format:        format,
		MIMEType:      format.MIME(),
		Source:        src.kind,
		Locator:       src.locator,
		Size:          src.size,
		Transferred:   s.Consumed(),
		ElapsedMillis: elapsedMillis(start),
	}
	if src.resolved != "" && src.resolved != src.locator {
		info.ResolvedLocator = src.resolved
	}
	return info, nil
}
