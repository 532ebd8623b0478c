package utils

import (
	"os"
	"strings"
)

// IsFile tests wether given path exists and is a file
func IsFile(filePath string) bool {
	file, err := os.Stat(filePath)

	if err != nil {
		return false
	}

	return !file.IsDir()
}

// IsDirectory tests wether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	dir, err := os.Stat(dirPath)

	if err != nil {
		return false
	}

	return dir.IsDir()
}

// FileSize returns the size of given file in bytes or -1 if it doesn't exist
func FileSize(filePath string) int64 {
	file, err := os.Stat(filePath)

	if err != nil || file.IsDir() {
		return -1
	}

	return file.Size()
}

// IsTileImage tests wether given file name looks like a tile image
func IsTileImage(name string) bool {
	lower := strings.ToLower(name)

	return strings.HasSuffix(lower, ".png") ||
		strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg")
}
