package chat

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/respmsl/resp-cli/internal/gemini"
)

// Attachment notation inside a prompt: [[path/to/file]].
var attachmentRe = regexp.MustCompile(`\[\[(.+?)\]\]`)

// Mime types the API accepts as inline binary data.
var binaryMIMETypes = map[string]bool{
	"image/png": true, "image/jpeg": true, "image/webp": true,
	"image/heic": true, "image/heif": true,
	"audio/wav": true, "audio/mp3": true, "audio/aiff": true,
	"audio/aac": true, "audio/ogg": true, "audio/flac": true,
}

// Mime types the API accepts as inline text data.
var textMIMETypes = map[string]bool{
	"application/pdf":          true,
	"application/x-javascript": true, "text/javascript": true,
	"application/x-python": true, "text/x-python": true,
	"text/html": true, "text/css": true, "text/md": true,
	"text/csv": true, "text/xml": true, "text/rtf": true,
	"text/plain": true,
}

// Extension fallbacks for types the platform mime table often misses.
var extMIMETypes = map[string]string{
	".md":   "text/md",
	".py":   "text/x-python",
	".js":   "text/javascript",
	".json": "text/javascript", // API rejects application/json
	".csv":  "text/csv",
	".rtf":  "text/rtf",
	".txt":  "text/plain",
	".heic": "image/heic",
	".heif": "image/heif",
	".wav":  "audio/wav",
	".mp3":  "audio/mp3",
	".aiff": "audio/aiff",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
}

// ExtractAttachments expands every [[path]] notation in a prompt into an
// inline data part. Unreadable files and unsupported mime types are
// skipped with a warning rather than failing the turn.
func ExtractAttachments(prompt string) (parts []gemini.Part, warnings []string) {
	for _, match := range attachmentRe.FindAllStringSubmatch(prompt, -1) {
		filename := expandUser(match[1])
		info, err := os.Stat(filename)
		if err != nil || info.IsDir() {
			warnings = append(warnings, fmt.Sprintf("file not found: %s", filename))
			continue
		}

		mimeType := guessMIMEType(filename)
		if mimeType == "" {
			warnings = append(warnings, fmt.Sprintf("unknown file type: %s", filename))
			continue
		}

		part, err := loadAttachment(filename, mimeType)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		parts = append(parts, part)
	}
	return parts, warnings
}

func loadAttachment(filename, mimeType string) (gemini.Part, error) {
	switch {
	case binaryMIMETypes[mimeType]:
		data, err := os.ReadFile(filename)
		if err != nil {
			return gemini.Part{}, fmt.Errorf("cannot read %s: %v", filename, err)
		}
		return gemini.Part{InlineData: &gemini.InlineData{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}}, nil
	case textMIMETypes[mimeType]:
		content, err := readTextFile(filename)
		if err != nil {
			return gemini.Part{}, fmt.Errorf("cannot read %s: %v", filename, err)
		}
		return gemini.Part{InlineData: &gemini.InlineData{
			MIMEType: mimeType,
			Data:     content,
		}}, nil
	default:
		return gemini.Part{}, fmt.Errorf("unsupported mime type %s: %s", mimeType, filename)
	}
}

// readTextFile reads a text attachment. JSON files are compacted to a
// single line so they survive prompt formatting.
func readTextFile(filename string) (string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	content := string(data)
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		var parsed any
		if err := json.Unmarshal(data, &parsed); err == nil {
			if compact, err := json.Marshal(parsed); err == nil {
				content = string(compact)
			}
		}
	}
	return content, nil
}

// guessMIMEType resolves a file's mime type from its extension, applying
// the remappings the API requires (json as javascript, x-wav as wav,
// mpeg as mp3).
func guessMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType := extMIMETypes[ext]
	if mimeType == "" {
		mimeType = mime.TypeByExtension(ext)
		if i := strings.IndexByte(mimeType, ';'); i >= 0 {
			mimeType = strings.TrimSpace(mimeType[:i])
		}
	}
	switch {
	case strings.Contains(mimeType, "json"):
		mimeType = "text/javascript"
	case strings.Contains(mimeType, "x-wav"):
		mimeType = "audio/wav"
	case strings.Contains(mimeType, "audio/mpeg"):
		mimeType = "audio/mp3"
	}
	return mimeType
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
