package middleware

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	url string
	err error

	savedName string
	savedData []byte
}

func (s *stubStore) Save(_ context.Context, objectName string, data []byte, _ string) (string, error) {
	s.savedName = objectName
	s.savedData = data
	return s.url, s.err
}

func audioRequest(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAudioUpload_NoFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", AudioUpload(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "No audio file provided")
}

func TestAudioUpload_RejectsUnknownType(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/upload", AudioUpload(nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, "document.pdf", "application/pdf", []byte("%PDF")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid file type")
}

func TestAudioUpload_AcceptsByExtension(t *testing.T) {
	// Unknown MIME but a known audio extension passes the allow-list.
	gin.SetMode(gin.TestMode)
	var gotBytes []byte
	var gotName string
	r := gin.New()
	r.POST("/upload", AudioUpload(nil), func(c *gin.Context) {
		data, name, ok := UploadedAudio(c)
		require.True(t, ok)
		gotBytes, gotName = data, name
		assert.Nil(t, UploadedAudioURL(c))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, "memo.mp3", "application/x-unknown", []byte("ID3 audio bytes")))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("ID3 audio bytes"), gotBytes)
	assert.Equal(t, "memo.mp3", gotName)
}

func TestAudioUpload_StoresWhenConfigured(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{url: "http://cdn.example.com/audio/abc.webm"}
	var gotURL *string
	r := gin.New()
	r.POST("/upload", AudioUpload(store), func(c *gin.Context) {
		gotURL = UploadedAudioURL(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, "memo.webm", "audio/webm", []byte("webm bytes")))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotURL)
	assert.Equal(t, "http://cdn.example.com/audio/abc.webm", *gotURL)
	assert.Equal(t, []byte("webm bytes"), store.savedData)
	assert.Contains(t, store.savedName, ".webm")
}

func TestAudioUpload_StoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &stubStore{err: errors.New("bucket unavailable")}
	r := gin.New()
	r.POST("/upload", AudioUpload(store), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, audioRequest(t, "memo.webm", "audio/webm", []byte("webm bytes")))

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to store audio file")
}
