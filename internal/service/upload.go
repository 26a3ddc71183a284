package service

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

const baseDir = "media"

func InArray[T comparable](val T, array []T) bool {
	for _, v := range array {
		if val == v {
			return true
		}
	}
	return false
}

// Upload stores a site photo under the media folder and returns its path.
func Upload(file *multipart.FileHeader, folder string) (path string, err error) {
	targetPath := filepath.Join(baseDir, folder)
	if file == nil {
		return "", nil
	}

	expectedContentType := []string{
		"image/jpeg",
		"image/png",
	}

	incomeContentType := file.Header.Get("Content-Type")
	if !InArray(incomeContentType, expectedContentType) {
		return "", fmt.Errorf("invalid file type, expected: %v, got: %s", expectedContentType, incomeContentType)
	}

	if _, err := os.Stat(targetPath); errors.Is(err, os.ErrNotExist) {
		err = os.MkdirAll(targetPath, os.ModePerm)
		if err != nil {
			return "", err
		}
	}

	filePath := filepath.Join(targetPath, time.Now().Format(time.RFC3339)+"-"+file.Filename)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			log.Println("file upload src.Close() error:", closeErr)
		}
	}()

	out, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil {
			log.Println("file upload out.Close() error:", closeErr)
		}
	}()

	if _, err = io.Copy(out, src); err != nil {
		return "", err
	}

	return filePath, nil
}
