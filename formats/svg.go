package formats

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// svgDetector sniffs SVG documents. Unlike the binary formats there is no
// fixed signature: the prolog may hold an XML declaration, a DOCTYPE and
// comments before the root element, so the buffer is tokenized instead.
type svgDetector struct{}

func (svgDetector) Name() string { return SVG }

func (svgDetector) Detect(buf []byte) Outcome {
	if st := matchSignature(buf, utf8BOM); st == NeedMoreData {
		return needMore
	} else if st == Resolved {
		buf = buf[len(utf8BOM):]
	}

	trimmed := bytes.TrimLeft(buf, " \t\r\n")
	if len(trimmed) == 0 {
		return needMore
	}
	if trimmed[0] != '<' {
		return noMatch
	}

	z := html.NewTokenizer(bytes.NewReader(trimmed))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				// The root element has not been fully seen yet
				return needMore
			}
			return noMatch

		case html.CommentToken, html.DoctypeToken:
			// Covers comments, DOCTYPE and the XML declaration, which the
			// tokenizer reports as a bogus comment.
			continue

		case html.TextToken:
			text := bytes.TrimSpace(z.Text())
			switch {
			case len(text) == 0:
			case len(text) == 1 && text[0] == '<':
				// A '<' at the very end of the input is tokenized as text
				return needMore
			default:
				return noMatch
			}

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "svg" {
				return noMatch
			}
			attrs := make(map[string]string)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				attrs[string(key)] = string(val)
			}
			return svgDimensions(attrs)

		default:
			return noMatch
		}
	}
}

// svgDimensions resolves width and height from the root element attributes,
// falling back to the viewBox when a length is missing or not absolute.
func svgDimensions(attrs map[string]string) Outcome {
	width, hasWidth := parseLength(attrs["width"])
	height, hasHeight := parseLength(attrs["height"])

	vbWidth, vbHeight, hasViewBox := parseViewBox(attrs["viewbox"])

	switch {
	case hasWidth && hasHeight:
	case hasWidth && hasViewBox:
		height = width * vbHeight / vbWidth
	case hasHeight && hasViewBox:
		width = height * vbWidth / vbHeight
	case hasViewBox:
		width, height = vbWidth, vbHeight
	default:
		return noMatch
	}

	return resolved(SVG, roundDimension(width), roundDimension(height))
}

// parseLength accepts unitless and px lengths. Relative units and percentages
// cannot be resolved without a viewport and are reported as absent.
func parseLength(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimSuffix(v, "px")
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseViewBox returns the width and height of a "min-x min-y width height"
// list separated by whitespace and/or commas.
func parseViewBox(v string) (float64, float64, bool) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if len(fields) != 4 {
		return 0, 0, false
	}
	w, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || w <= 0 || math.IsInf(w, 0) {
		return 0, 0, false
	}
	h, err := strconv.ParseFloat(fields[3], 64)
	if err != nil || h <= 0 || math.IsInf(h, 0) {
		return 0, 0, false
	}
	return w, h, true
}

func roundDimension(f float64) uint32 {
	r := math.Round(f)
	if r <= 0 || r > math.MaxUint32 {
		return 0
	}
	return uint32(r)
}
