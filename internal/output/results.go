package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"fastimage"
)

// Format selects how analysis results are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat parses a string into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid output format %q: must be table or json", s)
	}
}

// jsonResult is the JSON shape of one batch entry
type jsonResult struct {
	*fastimage.ImageInfo
	Locator string     `json:"locator"`
	Error   *jsonError `json:"error,omitempty"`
}

type jsonError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode,omitempty"`
}

// Results renders batch results in the requested format
func (p *Printer) Results(format Format, results []fastimage.BatchResult) error {
	if format == FormatJSON {
		return p.resultsJSON(results)
	}
	return p.resultsTable(results)
}

func (p *Printer) resultsJSON(results []fastimage.BatchResult) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		entry := jsonResult{ImageInfo: r.Info, Locator: r.Locator}
		if r.Err != nil {
			entry.Error = newJSONError(r.Err)
		}
		out = append(out, entry)
	}

	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func newJSONError(err error) *jsonError {
	e := &jsonError{Code: fastimage.KindOf(err).Code(), Message: err.Error()}
	var fe *fastimage.Error
	if errors.As(err, &fe) {
		e.StatusCode = fe.StatusCode
	}
	return e
}

func (p *Printer) resultsTable(results []fastimage.BatchResult) error {
	t := NewTable(p.out, []string{"", "Locator", "Format", "Dimensions", "Read", "Size", "Time"})
	for _, r := range results {
		if r.Err != nil {
			t.AddRow([]string{p.StatusBadge(false), r.Locator, fastimage.KindOf(r.Err).Code(), "-", "-", "-", "-"})
			continue
		}
		info := r.Info
		t.AddRow([]string{
			p.StatusBadge(true),
			info.Locator,
			string(info.Format),
			p.Bold(fmt.Sprintf("%dx%d", info.Width, info.Height)),
			HumanBytes(info.Transferred),
			totalSize(info),
			fmt.Sprintf("%.1fms", info.ElapsedMillis),
		})
	}
	if err := t.Render(); err != nil {
		return err
	}

	for _, r := range results {
		if r.Err != nil {
			p.Error("%s: %v", r.Locator, r.Err)
		}
	}
	return nil
}

func totalSize(info *fastimage.ImageInfo) string {
	size, ok := info.TotalSize()
	if !ok {
		return "unknown"
	}
	return HumanBytes(size)
}

// HumanBytes formats a byte count with a binary unit
func HumanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatUint(n, 10) + " B"
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
