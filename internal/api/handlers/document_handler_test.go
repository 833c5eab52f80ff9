package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oluseyi-dev/docdex/internal/services"
)

type handlerObjectClient struct {
	objects map[string][]byte
	fail    bool
}

func (c *handlerObjectClient) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	if c.fail {
		return "", fmt.Errorf("upload rejected")
	}
	c.objects[key] = data
	return "https://" + bucket + "/" + key, nil
}

func (c *handlerObjectClient) DeleteFile(ctx context.Context, bucket, key string) error {
	delete(c.objects, key)
	return nil
}

func (c *handlerObjectClient) GetFile(ctx context.Context, bucket, key string) ([]byte, error) {
	data, ok := c.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return data, nil
}

func (c *handlerObjectClient) ListKeys(ctx context.Context, bucket, prefix string) ([]string, error) {
	return nil, nil
}

func (c *handlerObjectClient) GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	data, err := c.GetFile(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func multipartUpload(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = io.Copy(fw, strings.NewReader(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadStoresDocument(t *testing.T) {
	client := &handlerObjectClient{objects: map[string][]byte{}}
	h := NewDocumentHandler(services.NewDocumentService(client, "corpus", "docs"))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "file", "notes.txt", "document body"))

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, strings.HasPrefix(body["key"], "docs/"))
	assert.True(t, strings.HasSuffix(body["key"], "/notes.txt"))
	assert.Equal(t, []byte("document body"), client.objects[body["key"]])
}

func TestUploadMissingFileField(t *testing.T) {
	client := &handlerObjectClient{objects: map[string][]byte{}}
	h := NewDocumentHandler(services.NewDocumentService(client, "corpus", "docs"))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "wrong-field", "notes.txt", "document body"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadNonMultipartBody(t *testing.T) {
	client := &handlerObjectClient{objects: map[string][]byte{}}
	h := NewDocumentHandler(services.NewDocumentService(client, "corpus", "docs"))

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", strings.NewReader("plain body"))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadStorageFailure(t *testing.T) {
	client := &handlerObjectClient{objects: map[string][]byte{}, fail: true}
	h := NewDocumentHandler(services.NewDocumentService(client, "corpus", "docs"))

	rec := httptest.NewRecorder()
	h.Upload(rec, multipartUpload(t, "file", "notes.txt", "document body"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
