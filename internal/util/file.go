package util

import (
	"strings"

	"github.com/natefinch/atomic"
)

// WriteStringToFileAtomic writes content to the file at path, replacing
// any previous content in a single atomic rename.
func WriteStringToFileAtomic(content string, path string) error {
	reader := strings.NewReader(content)
	return atomic.WriteFile(path, reader)
}
