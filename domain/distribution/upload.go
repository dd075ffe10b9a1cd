package distribution

import (
	"fmt"
	"path"
	"strings"
)

// UploadRequest contains the parameters needed to store one local file
type UploadRequest struct {
	LocalPath   string // Full path to the local file
	Bucket      string // Target bucket
	Key         string // Object key inside the bucket
	ContentType string // MIME type of the file
}

// UploadResult contains the result of a successful upload
type UploadResult struct {
	Bucket    string
	Key       string
	PublicURL string // https://<host>/<bucket>/<key>
	Size      int64  // Size of the uploaded object in bytes
}

// MIME type constants for common media formats
const (
	MimeTypeMP3 = "audio/mpeg"
	MimeTypeM4A = "audio/mp4"
)

// DefaultPublicHost serves objects of public Cloud Storage buckets
const DefaultPublicHost = "storage.googleapis.com"

// DefaultKeyPrefix groups every upload of this service under one folder
const DefaultKeyPrefix = "audio"

// ObjectKey joins the namespace prefix and file name into an object key
func ObjectKey(prefix, fileName string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return fileName
	}
	return path.Join(prefix, fileName)
}

// PublicURL returns the stable retrieval URL of an object
func PublicURL(host, bucket, key string) string {
	if host == "" {
		host = DefaultPublicHost
	}
	return fmt.Sprintf("https://%s/%s/%s", host, bucket, key)
}

// ContentTypeFor guesses the MIME type from the file extension
func ContentTypeFor(fileName string) string {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".mp3":
		return MimeTypeMP3
	case ".m4a":
		return MimeTypeM4A
	default:
		return "application/octet-stream"
	}
}
