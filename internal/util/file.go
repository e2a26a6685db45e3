package util

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType 按文件头嗅探 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) {
			return mimeType, nil
		}
	}

	return mimeType, fmt.Errorf("%w: %s", ErrFileType, mimeType)
}
