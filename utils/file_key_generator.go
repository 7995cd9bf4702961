package utils

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileKeyGenerator struct {
	prefix     string
	maxNameLen int
}

func NewFileKeyGenerator(prefix string) *FileKeyGenerator {
	return &FileKeyGenerator{
		prefix:     prefix,
		maxNameLen: 50,
	}
}

// GenerateFileKey builds a date-partitioned object key with a short uuid,
// so uploads of the same filename never collide.
func (fkg *FileKeyGenerator) GenerateFileKey(filename string) string {
	now := time.Now()
	uid := uuid.New().String()[:8]
	cleanName := fkg.cleanFilename(filename)

	return fmt.Sprintf("%s/%s/%s_%s", fkg.prefix, now.Format("2006/01/02"), uid, cleanName)
}

func (fkg *FileKeyGenerator) cleanFilename(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	baseName := strings.TrimSuffix(filename, filepath.Ext(filename))

	baseName = strings.ReplaceAll(baseName, " ", "_")
	safePattern := regexp.MustCompile(`[^\p{L}\p{N}_\-.]`)
	baseName = safePattern.ReplaceAllString(baseName, "_")
	baseName = regexp.MustCompile(`[_\-.]{2,}`).ReplaceAllString(baseName, "_")
	baseName = strings.Trim(baseName, "_-.")

	if len(baseName) > fkg.maxNameLen {
		runes := []rune(baseName)
		if len(runes) > fkg.maxNameLen {
			runes = runes[:fkg.maxNameLen]
		}
		baseName = string(runes)
	}
	if baseName == "" {
		baseName = "document"
	}
	return baseName + ext
}
