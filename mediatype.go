package dirshare

import (
	"mime"
	"path/filepath"
	"strings"
)

// textExtensions are source-code and config extensions forced to
// text/plain so browsers render them inline instead of downloading,
// regardless of what the platform MIME table says.
var textExtensions = map[string]bool{
	".py": true, ".tcl": true, ".rb": true, ".sh": true, ".bat": true,
	".psh": true, ".c": true, ".cpp": true, ".cxx": true, ".scala": true,
	".kt": true, ".kts": true, ".gradle": true, ".sbt": true, ".hpp": true,
	".hxx": true, ".groovy": true, ".js": true, ".csv": true, ".json": true,
	".m": true, ".jl": true, ".php": true, ".go": true, ".rs": true,
	".toml": true, ".yaml": true, ".yml": true, ".ini": true, ".cfg": true,
	".conf": true, ".log": true, ".md": true, ".org": true, ".desktop": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpeg": true, ".jpg": true, ".tiff": true,
	".bmp": true, ".ico": true, ".gif": true,
}

var mediaAVExtensions = map[string]bool{
	".mpg": true, ".mp4": true, ".mkv": true, ".avi": true, ".webm": true,
	".ogg": true, ".mp3": true, ".mid": true, ".midi": true, ".oga": true,
	".opus": true, ".3gp": true, ".3g2": true,
}

func lowerExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// ContentTypeFor determines the Content-Type for a file name. The
// source-code allow-list wins over the platform table; unknown extensions
// fall back to application/octet-stream.
func ContentTypeFor(name string) string {
	ext := lowerExt(name)
	if textExtensions[ext] {
		return "text/plain; charset=utf-8"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// IsImage reports whether the file name belongs to the inline-preview
// image set.
func IsImage(name string) bool {
	return imageExtensions[lowerExt(name)]
}

// IsMediaAV reports whether the file name is audio/video that should go
// through range-aware delivery even without a Range header.
func IsMediaAV(name string) bool {
	return mediaAVExtensions[lowerExt(name)]
}

// IsPDF reports whether the file name is a PDF document.
func IsPDF(name string) bool {
	return lowerExt(name) == ".pdf"
}
