package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AssetPrefix marks a field value as a reference into the deck's assets directory.
const AssetPrefix = "assets/"

// Kind is the media category of an asset.
type Kind int

const (
	KindNone Kind = iota
	KindAudio
	KindImage
	KindVideo
)

var (
	audioExtensions = []string{".mp3", ".ogg", ".wav", ".flac", ".m4a"}
	imageExtensions = []string{".jpg", ".png", ".gif", ".tiff", ".svg", ".tif", ".jpeg", ".webp"}
	videoExtensions = []string{".avi", ".ogv", ".mpg", ".mpeg", ".mov", ".mp4", ".mkv", ".flv", ".swf"}
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	default:
		return "none"
	}
}

// CanonicalExt is the extension every asset of this kind is converted to.
func (k Kind) CanonicalExt() string {
	switch k {
	case KindAudio:
		return ".ogg"
	case KindImage:
		return ".webp"
	case KindVideo:
		return ".mp4"
	default:
		return ""
	}
}

// KindOf classifies a file name by extension, ignoring case.
func KindOf(name string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return KindNone
	}
	switch {
	case contains(audioExtensions, ext):
		return KindAudio
	case contains(imageExtensions, ext):
		return KindImage
	case contains(videoExtensions, ext):
		return KindVideo
	}
	return KindNone
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// Asset is a classified reference to a media file on disk.
type Asset struct {
	Ref  string // value as written in the card, e.g. assets/cat.png
	Path string // absolute path under the deck directory
	Kind Kind
}

// Classify resolves value against deckDir. It reports false when value is
// literal text: no assets/ prefix, an unrecognised extension, a path that
// escapes the assets directory, or a file that does not exist.
func Classify(deckDir, value string) (Asset, bool) {
	if !strings.HasPrefix(value, AssetPrefix) {
		return Asset{}, false
	}
	kind := KindOf(value)
	if kind == KindNone {
		return Asset{}, false
	}

	assetsDir := filepath.Join(deckDir, strings.TrimSuffix(AssetPrefix, "/"))
	path := filepath.Join(deckDir, filepath.FromSlash(value))
	if rel, err := filepath.Rel(assetsDir, path); err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return Asset{}, false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return Asset{}, false
	}
	return Asset{Ref: value, Path: path, Kind: kind}, true
}

// Embeds reports whether an asset of kind placed in field renders as media.
// Images embed in any field; audio only in *_audio fields and video only in
// *_video fields.
func Embeds(field string, kind Kind) bool {
	switch kind {
	case KindImage:
		return true
	case KindAudio:
		return strings.HasSuffix(field, "_audio")
	case KindVideo:
		return strings.HasSuffix(field, "_video")
	default:
		return false
	}
}

// Markup returns the field content that embeds fileName, a basename inside
// the package media set.
func Markup(kind Kind, fileName string) string {
	switch kind {
	case KindAudio:
		return SoundTag(fileName)
	case KindImage:
		return fmt.Sprintf(`<img src="%s">`, fileName)
	default:
		return fileName
	}
}

// SoundTag formats the package-native audio reference.
func SoundTag(fileName string) string {
	return "[sound:" + fileName + "]"
}
