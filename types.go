package fastimage

import (
	"strings"

	filetype "gopkg.in/h2non/filetype.v1"

	"fastimage/formats"
)

// Format represents a supported image format.
type Format string

const (
	FormatUnknown Format = ""
	FormatBMP     Format = formats.BMP
	FormatGIF     Format = formats.GIF
	FormatJPEG    Format = formats.JPEG
	FormatPNG     Format = formats.PNG
	FormatPSD     Format = formats.PSD
	FormatTIFF    Format = formats.TIFF
	FormatWebP    Format = formats.WEBP
	FormatSVG     Format = formats.SVG
)

// Formats lists every supported format.
var Formats = []Format{
	FormatBMP, FormatGIF, FormatJPEG, FormatPNG, FormatPSD, FormatTIFF, FormatWebP, FormatSVG,
}

// extensions maps a format to the extension filetype registers it under.
var extensions = map[Format]string{
	FormatBMP:  "bmp",
	FormatGIF:  "gif",
	FormatJPEG: "jpg",
	FormatPNG:  "png",
	FormatPSD:  "psd",
	FormatTIFF: "tif",
	FormatWebP: "webp",
	FormatSVG:  "svg",
}

// svgMIME is used because filetype has no SVG matcher.
const svgMIME = "image/svg+xml"

// ParseFormat returns the format named by s, ignoring case. "jpg" and "tif"
// are accepted as aliases.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "jpg":
		return FormatJPEG, true
	case "tif":
		return FormatTIFF, true
	}
	f := Format(s)
	if _, ok := extensions[f]; !ok {
		return FormatUnknown, false
	}
	return f, true
}

// MIME returns the media type of the format.
func (f Format) MIME() string {
	if f == FormatSVG {
		return svgMIME
	}
	ext, ok := extensions[f]
	if !ok {
		return ""
	}
	return filetype.Types[ext].MIME.Value
}

// Extension returns the conventional file extension, without the dot.
func (f Format) Extension() string {
	return extensions[f]
}

func (f Format) String() string {
	return string(f)
}

// SourceKind tells whether an image was read from disk or over the network.
type SourceKind string

const (
	SourceLocal  SourceKind = "local"
	SourceRemote SourceKind = "remote"
)

// ImageInfo is the result of a successful analysis.
type ImageInfo struct {
	// Width and Height are the image dimensions in pixels.
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`

	Format   Format     `json:"format"`
	MIMEType string     `json:"mimeType"`
	Source   SourceKind `json:"source"`

	// Locator is the path or URL exactly as supplied by the caller.
	Locator string `json:"locator"`

	// ResolvedLocator is the absolute path or the URL after redirects. It is
	// empty when it equals Locator.
	ResolvedLocator string `json:"resolvedLocator,omitempty"`

	// Size is the total size of the resource in bytes, when known: the file
	// size for local sources, the Content-Length for remote ones.
	Size *uint64 `json:"size,omitempty"`

	// Transferred is the number of bytes consumed before a decision was made.
	Transferred uint64 `json:"transferred"`

	// ElapsedMillis is the wall-clock duration of the analysis.
	ElapsedMillis float64 `json:"time"`
}

// TotalSize returns Size and whether it is known.
func (info *ImageInfo) TotalSize() (uint64, bool) {
	if info.Size == nil {
		return 0, false
	}
	return *info.Size, true
}

// Location returns ResolvedLocator when set and Locator otherwise.
func (info *ImageInfo) Location() string {
	if info.ResolvedLocator != "" {
		return info.ResolvedLocator
	}
	return info.Locator
}
