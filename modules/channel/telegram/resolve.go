package telegram

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const fileIDPrefix = "tg://file_id/"

// FileRef returns the tg://file_id/ reference for a Telegram file_id, the
// form media blocks carry until a consumer downloads them.
func FileRef(fileID string) string {
	return fileIDPrefix + fileID
}

// IsFileRef reports whether a block URL is an unresolved Telegram file reference.
func IsFileRef(url string) bool {
	return strings.HasPrefix(url, fileIDPrefix)
}

// FetchFile resolves a tg://file_id/ reference (or a bare file_id) and
// downloads the file. It returns the Bot API file path, the raw bytes, and a
// best-effort MIME type. The file path is stable per file and safe to log;
// the download URL embeds the bot token and is not returned.
func (t *Telegram) FetchFile(ctx context.Context, ref string) (string, []byte, string, error) {
	fileID := strings.TrimPrefix(ref, fileIDPrefix)

	file, err := t.client.GetFile(ctx, fileID)
	if err != nil {
		return "", nil, "", fmt.Errorf("telegram: resolve file %s: %w", fileID, err)
	}

	data, err := t.client.DownloadFile(ctx, file.FilePath)
	if err != nil {
		return file.FilePath, nil, "", err
	}

	return file.FilePath, data, guessImageMIME(file.FilePath), nil
}

// guessImageMIME infers a MIME type from the file extension.
func guessImageMIME(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return ""
	}
}
