package fastimage

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastimage/internal/fixtures"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestAnalyzeLocal_Formats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		data   []byte
		format Format
		width  uint32
		height uint32
	}{
		{"tiny.gif", []byte{'G', 'I', 'F', '8', '9', 'a', 0x01, 0x00, 0x01, 0x00}, FormatGIF, 1, 1},
		{"image.png", fixtures.PNG(10, 20), FormatPNG, 10, 20},
		{"image.bmp", fixtures.BMP(640, -480), FormatBMP, 640, 480},
		{"image.psd", fixtures.PSD(300, 200), FormatPSD, 300, 200},
		{"image.tif", fixtures.TIFF(binary.LittleEndian, 1024, 768, 0), FormatTIFF, 1024, 768},
		{"image.webp", fixtures.WebPVP8L(128, 64), FormatWebP, 128, 64},
		{"image.jpg", fixtures.JPEG(800, 600, 0xC0, fixtures.APP(0, 14), fixtures.APP(1, 9000)), FormatJPEG, 800, 600},
		{"image.svg", fixtures.SVG(`width="120" height="40"`), FormatSVG, 120, 40},
	}

	a := New(Options{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name, tt.data)

			info, err := a.AnalyzeLocal(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, tt.format, info.Format)
			assert.Equal(t, tt.format.MIME(), info.MIMEType)
			assert.NotEmpty(t, info.MIMEType)
			assert.Equal(t, tt.width, info.Width)
			assert.Equal(t, tt.height, info.Height)
			assert.Equal(t, SourceLocal, info.Source)
			assert.Equal(t, path, info.Locator)
			assert.Empty(t, info.ResolvedLocator)

			size, ok := info.TotalSize()
			require.True(t, ok)
			assert.Equal(t, uint64(len(tt.data)), size)
			assert.LessOrEqual(t, info.Transferred, size)
			assert.GreaterOrEqual(t, info.ElapsedMillis, float64(0))
		})
	}
}

func TestAnalyzeLocal_StopsReadingAfterHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "large.png", fixtures.Pad(fixtures.PNG(4000, 3000), 1<<20))

	a := New(Options{ChunkSize: 256})
	info, err := a.AnalyzeLocal(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, uint64(256), info.Transferred)
	assert.Equal(t, uint32(4000), info.Width)
	assert.Equal(t, uint32(3000), info.Height)
}

func TestAnalyzeLocal_RelativePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "img.gif", fixtures.GIF(3, 5))
	t.Chdir(dir)

	info, err := New(Options{}).AnalyzeLocal(context.Background(), "img.gif")
	require.NoError(t, err)

	assert.Equal(t, "img.gif", info.Locator)
	assert.Equal(t, filepath.Join(dir, "img.gif"), info.ResolvedLocator)
	assert.Equal(t, info.ResolvedLocator, info.Location())
}

func TestAnalyzeLocal_Errors(t *testing.T) {
	dir := t.TempDir()
	a := New(Options{})

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"missing file", filepath.Join(dir, "does-not-exist.png"), ErrFilesystem},
		{"directory", dir, ErrFilesystem},
		{"empty path", "", ErrInvalidLocator},
		{"empty file", writeFile(t, dir, "empty.bin", nil), ErrUnsupportedFormat},
		{"text file", writeFile(t, dir, "notes.txt", []byte("hello, world")), ErrUnsupportedFormat},
		{"jpeg cut before frame", writeFile(t, dir, "cut.jpg",
			fixtures.JPEG(10, 10, 0xC0, fixtures.APP(1, 200))[:120]), ErrTruncatedData},
		{"gif cut in header", writeFile(t, dir, "cut.gif", fixtures.GIF(1, 1)[:8]), ErrTruncatedData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := a.AnalyzeLocal(context.Background(), tt.path)
			require.Error(t, err)
			assert.Nil(t, info)
			assert.ErrorIs(t, err, tt.wantErr)

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.path, e.Locator)
		})
	}
}

func TestAnalyzeLocal_TransferredOnTruncation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cut.gif", fixtures.GIF(1, 1)[:8])

	_, err := New(Options{}).AnalyzeLocal(context.Background(), path)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, KindTruncatedData, e.Kind)
	assert.Equal(t, uint64(8), e.Transferred)
}

func TestAnalyzeLocal_SmallBufferCap(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "blank.txt", append([]byte("    \n\n\t"), make([]byte, 57)...))

	_, err := New(Options{MaxBufferSize: 4}).AnalyzeLocal(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestAnalyzeLocal_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "image.png", fixtures.PNG(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).AnalyzeLocal(ctx, path)
	assert.ErrorIs(t, err, ErrFilesystem)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeLocal_Concurrent(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.webp", fixtures.WebPVP8X(1920, 1080))
	bad := writeFile(t, dir, "bad.bin", []byte("plain text, not an image"))

	a := New(Options{ChunkSize: 1})

	var (
		wg      sync.WaitGroup
		info    *ImageInfo
		goodErr error
		badErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		info, goodErr = a.AnalyzeLocal(context.Background(), good)
	}()
	go func() {
		defer wg.Done()
		_, badErr = a.AnalyzeLocal(context.Background(), bad)
	}()
	wg.Wait()

	require.NoError(t, goodErr)
	assert.Equal(t, FormatWebP, info.Format)
	assert.Equal(t, uint32(1920), info.Width)
	assert.Equal(t, uint32(1080), info.Height)
	assert.ErrorIs(t, badErr, ErrUnsupportedFormat)
}
