package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

var allowedExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".pdf":  {},
	".docx": {},
}

// AttachmentStore writes uploaded files under a directory and hands back an
// opaque reference string; tickets keep only the reference.
type AttachmentStore struct {
	dir string
}

// NewAttachmentStore builds a store rooted at dir.
func NewAttachmentStore(dir string) *AttachmentStore {
	return &AttachmentStore{dir: dir}
}

// Save validates the extension against the allow-list, sanitizes the base
// name and stores the content under a unique key. The returned reference is
// the stored filename.
func (s *AttachmentStore) Save(filename string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", apperrors.NewValidationError("file type not allowed",
			map[string]any{"extension": ext})
	}

	reference := uuid.NewString() + "_" + SanitizeFilename(filepath.Base(filename))

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}
	dst, err := os.Create(filepath.Join(s.dir, reference))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		return "", err
	}
	return reference, nil
}

// SanitizeFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
