package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3ImageHost_Upload(t *testing.T) {
	var gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	host, err := NewS3ImageHost(context.Background(), S3Config{
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "pois-images",
		PublicURL: "https://cdn.example.com/",
	})
	require.NoError(t, err)

	url, err := host.Upload(context.Background(), "pois/p1/abc-tower.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/pois-images/pois/p1/abc-tower.jpg", url)
	assert.Equal(t, "/pois-images/pois/p1/abc-tower.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Contains(t, gotBody, "jpeg-bytes")
}

func TestS3ImageHost_UploadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	t.Cleanup(srv.Close)

	host, err := NewS3ImageHost(context.Background(), S3Config{
		Endpoint: srv.URL, Region: "us-east-1", AccessKey: "a", SecretKey: "b", Bucket: "pois-images",
	})
	require.NoError(t, err)

	_, err = host.Upload(context.Background(), "k", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
	assert.Equal(t, srv.URL+"/pois-images/k", host.URL("k"))
}
