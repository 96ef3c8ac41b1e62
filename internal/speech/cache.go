package speech

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"golang.org/x/text/unicode/norm"

	"fanki/internal/fileutil"
	"fanki/internal/logging"
)

// ErrDisabled is returned on a cache miss when no synthesizer is configured.
var ErrDisabled = errors.New("speech synthesis disabled")

// FileName returns the cache file name for text: tts_<md5>.ogg over the
// NFC-normalised UTF-8 bytes.
func FileName(text string) string {
	sum := md5.Sum([]byte(norm.NFC.String(text)))
	return "tts_" + hex.EncodeToString(sum[:]) + ".ogg"
}

// Cache stores synthesized clips in a single directory keyed by content hash.
type Cache struct {
	dir    string
	synth  Synthesizer
	logger *slog.Logger
}

// NewCache returns a cache rooted at dir. A nil synth serves hits only.
func NewCache(dir string, synth Synthesizer, logger *slog.Logger) *Cache {
	return &Cache{
		dir:    dir,
		synth:  synth,
		logger: logging.NewComponentLogger(logger, "speech"),
	}
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Resolve returns the path of the clip for text, synthesizing it on a miss.
// The clip is written atomically so an interrupted run never leaves a
// truncated file that later runs would treat as a hit.
func (c *Cache) Resolve(ctx context.Context, text string) (string, error) {
	if text == "" {
		return "", errors.New("resolve speech: empty text")
	}
	path := filepath.Join(c.dir, FileName(text))
	if fileutil.IsRegularFile(path) {
		c.logger.Debug("speech cache hit",
			logging.String(logging.FieldEventType, "speech_cache_hit"),
			logging.String("file", filepath.Base(path)),
		)
		return path, nil
	}
	if c.synth == nil {
		return "", ErrDisabled
	}

	stream, err := c.synth.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	if err := fileutil.WriteFileAtomic(path, stream); err != nil {
		return "", fmt.Errorf("store speech clip: %w", err)
	}
	c.logger.Debug("speech synthesized",
		logging.String(logging.FieldEventType, "speech_synthesized"),
		logging.String("file", filepath.Base(path)),
	)
	return path, nil
}
