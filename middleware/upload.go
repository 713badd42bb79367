package middleware

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxAudioBytes = 25 * 1024 * 1024

	audioBytesKey    = "audio_bytes"
	audioFilenameKey = "audio_filename"
	audioURLKey      = "audio_url"
)

// Extended list of audio MIME types including webm. video/webm is allowed
// because WebM can be audio-only, and application/octet-stream because
// some browsers fall back to it for unknown types.
var allowedAudioMimes = map[string]bool{
	"audio/mpeg":               true,
	"audio/wav":                true,
	"audio/wave":               true,
	"audio/webm":               true,
	"audio/mp4":                true,
	"audio/ogg":                true,
	"audio/opus":               true,
	"audio/flac":               true,
	"audio/x-m4a":              true,
	"audio/mp3":                true,
	"audio/x-wav":              true,
	"audio/x-flac":             true,
	"video/webm":               true,
	"application/octet-stream": true,
}

var allowedAudioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".webm": true,
	".ogg":  true,
	".m4a":  true,
	".opus": true,
	".flac": true,
	".mp4":  true,
}

// AudioStore persists uploaded audio and returns a stable reference URL.
type AudioStore interface {
	Save(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

// AudioUpload accepts a single multipart "file" field, enforces the size
// cap and the MIME/extension allow-list (either match is enough, since
// client-reported MIME types are unreliable), and stashes the bytes in
// the request context. When a store is configured the bytes are also
// persisted under a collision-resistant name and the reference URL is
// stashed alongside.
func AudioUpload(store AudioStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
			c.Abort()
			return
		}

		if fileHeader.Size > maxAudioBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 25MB)"})
			c.Abort()
			return
		}

		mimeType := fileHeader.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedAudioMimes[mimeType] && !allowedAudioExts[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Invalid file type. Only audio files are allowed. Received: %s", mimeType),
			})
			c.Abort()
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			c.Abort()
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxAudioBytes+1))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read upload"})
			c.Abort()
			return
		}
		if len(data) > maxAudioBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File too large (max 25MB)"})
			c.Abort()
			return
		}

		c.Set(audioBytesKey, data)
		c.Set(audioFilenameKey, fileHeader.Filename)

		if store != nil {
			objectName := uuid.New().String() + ext
			url, err := store.Save(c.Request.Context(), objectName, data, mimeType)
			if err != nil {
				log.Printf("Audio upload storage error: %v", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to store audio file"})
				c.Abort()
				return
			}
			c.Set(audioURLKey, url)
		}

		c.Next()
	}
}

// UploadedAudio reads the bytes and filename the upload gate stashed.
func UploadedAudio(c *gin.Context) ([]byte, string, bool) {
	v, ok := c.Get(audioBytesKey)
	if !ok {
		return nil, "", false
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, "", false
	}
	name := c.GetString(audioFilenameKey)
	return data, name, true
}

// UploadedAudioURL reads the stored reference URL, nil in memory-only mode.
func UploadedAudioURL(c *gin.Context) *string {
	v, ok := c.Get(audioURLKey)
	if !ok {
		return nil
	}
	url, ok := v.(string)
	if !ok {
		return nil
	}
	return &url
}
