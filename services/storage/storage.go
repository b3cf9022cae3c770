package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperr "Abuze/pkg/errors"

	"github.com/rs/xid"
)

// Buckets known to the hub. Uploads outside this set are rejected.
const (
	BucketAvatars    = "avatars"
	BucketPostImages = "post-images"
)

var buckets = []string{BucketAvatars, BucketPostImages}

var ErrUnknownBucket = apperr.New(apperr.ErrCodeValidation, "unknown storage bucket")

// Store keeps uploaded blobs on disk, one directory per bucket, and hands
// out public URLs served by the HTTP layer under /files.
type Store struct {
	root    string
	baseURL string
}

// New creates the bucket directories under root. baseURL is the externally
// reachable prefix of the server, without a trailing slash.
func New(root, baseURL string) (*Store, error) {
	for _, bucket := range buckets {
		if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", bucket, err)
		}
	}
	return &Store{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// Save writes the blob into a bucket under a generated name and returns its
// public URL. The original filename only contributes its extension.
func (s *Store) Save(bucket, filename string, r io.Reader) (string, error) {
	if !validBucket(bucket) {
		return "", ErrUnknownBucket
	}

	name := xid.New().String() + sanitizeExt(filename)
	path := filepath.Join(s.root, bucket, name)

	f, err := os.Create(path)
	if err != nil {
		return "", apperr.Wrap(err, apperr.ErrCodeInternalError, "error creating blob file")
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", apperr.Wrap(err, apperr.ErrCodeInternalError, "error writing blob")
	}

	return fmt.Sprintf("%s/files/%s/%s", s.baseURL, bucket, name), nil
}

// Root returns the directory the HTTP layer should serve under /files.
func (s *Store) Root() string {
	return s.root
}

func validBucket(bucket string) bool {
	for _, b := range buckets {
		if b == bucket {
			return true
		}
	}
	return false
}

// sanitizeExt keeps a short alphanumeric extension and drops anything else,
// so user-supplied filenames can never influence the stored path.
func sanitizeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
