package fastimage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AnalyzeLocal reads a file incrementally until its format and dimensions are
// known. The file is closed as soon as a decision is reached.
func (a *Analyzer) AnalyzeLocal(ctx context.Context, path string) (*ImageInfo, error) {
	start := time.Now()
	if path == "" {
		return nil, newError(KindInvalidLocator, path, 0, fmt.Errorf("empty path")).since(start)
	}

	ctx, cancel := withTimeout(ctx, a.opts.LocalTimeout)
	defer cancel()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, newError(KindFilesystem, path, 0, fmt.Errorf("failed to resolve path: %w", err)).since(start)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, newError(KindFilesystem, path, 0, fmt.Errorf("failed to open file: %w", err)).since(start)
	}
	defer file.Close()

	// Get file size
	fileInfo, err := file.Stat()
	if err != nil {
		return nil, newError(KindFilesystem, path, 0, fmt.Errorf("failed to get file info: %w", err)).since(start)
	}
	if fileInfo.IsDir() {
		return nil, newError(KindFilesystem, path, 0, fmt.Errorf("%s is a directory", absPath)).since(start)
	}
	fileSize := uint64(fileInfo.Size())

	sniffer := NewSniffer(a.opts.MaxBufferSize)
	sniffer.OnTerminal(func(State) {
		file.Close()
	})

	if err := feed(ctx, file, sniffer, a.opts.ChunkSize); err != nil {
		return nil, newError(KindFilesystem, path, sniffer.Consumed(), fmt.Errorf("failed to read file: %w", err)).since(start)
	}

	a.logger.Debug("local sniff finished",
		"locator", path,
		"state", sniffer.State().String(),
		"transferred", sniffer.Consumed(),
		"size", fileSize,
	)

	return assemble(sniffer, source{
		kind:     SourceLocal,
		locator:  path,
		resolved: absPath,
		size:     &fileSize,
	}, start)
}
