package media

import (
	"mime"
	"path/filepath"
	"strings"
)

// videoTypes maps common video extensions to their MIME type. The builtin
// mime table has no video entries.
var videoTypes = map[string]string{
	".3g2":  "video/3gpp2",
	".3gp":  "video/3gpp",
	".asf":  "video/x-ms-asf",
	".avi":  "video/x-msvideo",
	".f4v":  "video/mp4",
	".flv":  "video/x-flv",
	".h261": "video/h261",
	".h263": "video/h263",
	".h264": "video/h264",
	".m1v":  "video/mpeg",
	".m2ts": "video/mp2t",
	".m2v":  "video/mpeg",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".mk3d": "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".mp4v": "video/mp4",
	".mpe":  "video/mpeg",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".mpg4": "video/mp4",
	".mts":  "video/mp2t",
	".ogv":  "video/ogg",
	".qt":   "video/quicktime",
	".ts":   "video/mp2t",
	".vob":  "video/x-ms-vob",
	".webm": "video/webm",
	".wmv":  "video/x-ms-wmv",
}

// TypeByExtension returns the MIME type for path's extension, or "" if it is
// unknown.
func TypeByExtension(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	return mime.TypeByExtension(ext)
}

// IsVideo reports whether path names a video file by its extension. File
// contents are never inspected.
func IsVideo(path string) bool {
	return strings.HasPrefix(TypeByExtension(path), "video/")
}

// Matcher builds an accept predicate that admits video files plus any of the
// extra extensions (with or without the leading dot, case-insensitive).
func Matcher(extra []string) func(string) bool {
	if len(extra) == 0 {
		return IsVideo
	}

	exts := make(map[string]bool, len(extra))
	for _, e := range extra {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}

	return func(path string) bool {
		if exts[strings.ToLower(filepath.Ext(path))] {
			return true
		}
		return IsVideo(path)
	}
}
