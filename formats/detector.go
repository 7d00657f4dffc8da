package formats

// Format names reported in Outcome.Format.
const (
	BMP  = "bmp"
	GIF  = "gif"
	JPEG = "jpeg"
	PNG  = "png"
	PSD  = "psd"
	TIFF = "tiff"
	WEBP = "webp"
	SVG  = "svg"
)

// Detector inspects a buffer prefix and decides whether it holds an image of
// one particular format. Implementations never retain or modify buf.
type Detector interface {
	Name() string
	Detect(buf []byte) Outcome
}

// detectorFunc adapts a plain function to the Detector interface.
type detectorFunc struct {
	name string
	fn   func([]byte) Outcome
}

func (d detectorFunc) Name() string              { return d.name }
func (d detectorFunc) Detect(buf []byte) Outcome { return d.fn(buf) }

var registry = []Detector{
	detectorFunc{BMP, detectBMP},
	detectorFunc{GIF, detectGIF},
	detectorFunc{PNG, detectPNG},
	detectorFunc{PSD, detectPSD},
	detectorFunc{TIFF, detectTIFF},
	detectorFunc{WEBP, detectWebP},
	detectorFunc{JPEG, detectJPEG},
	svgDetector{},
}

// Detectors returns the detector set in evaluation order.
func Detectors() []Detector {
	out := make([]Detector, len(registry))
	copy(out, registry)
	return out
}

// Detect runs every detector in order against buf and returns the first
// outcome that is not NoMatch. If all detectors reject the buffer the result
// is NoMatch.
func Detect(buf []byte) Outcome {
	for _, d := range registry {
		if out := d.Detect(buf); out.Status != NoMatch {
			return out
		}
	}
	return noMatch
}

// matchSignature compares the start of buf with sig. A buffer shorter than sig
// that agrees with it so far reports NeedMoreData.
func matchSignature(buf, sig []byte) Status {
	n := len(sig)
	if len(buf) < n {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		if buf[i] != sig[i] {
			return NoMatch
		}
	}
	if len(buf) < len(sig) {
		return NeedMoreData
	}
	return Resolved
}
