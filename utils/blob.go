package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

var ErrBlobStorageDisabled = errors.New("blob storage is not configured")

// BlobStore keeps uploaded files and addresses them by public URL.
type BlobStore interface {
	Upload(ctx context.Context, objectPath string, r io.Reader, contentType string) (string, error)
	DeleteByURL(ctx context.Context, publicURL string) error
}

// SupabaseStore is a BlobStore on a single Supabase Storage bucket.
type SupabaseStore struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewSupabaseStore(supabaseURL, key, bucket string) *SupabaseStore {
	base := strings.TrimRight(supabaseURL, "/")
	return &SupabaseStore{
		client:  storage.NewClient(base+"/storage/v1", key, nil),
		baseURL: base,
		bucket:  bucket,
	}
}

func (s *SupabaseStore) Upload(_ context.Context, objectPath string, r io.Reader, contentType string) (string, error) {
	upsert := true
	opts := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}
	if _, err := s.client.UploadFile(s.bucket, objectPath, r, opts); err != nil {
		return "", fmt.Errorf("supabase upload %s: %w", objectPath, err)
	}
	return s.client.GetPublicUrl(s.bucket, objectPath).SignedURL, nil
}

func (s *SupabaseStore) DeleteByURL(_ context.Context, publicURL string) error {
	objectPath, err := ObjectPathFromURL(publicURL, s.bucket)
	if err != nil {
		return err
	}
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("supabase remove %s: %w", objectPath, err)
	}
	return nil
}

// ObjectPathFromURL extracts the in-bucket path from a public object URL.
func ObjectPathFromURL(publicURL, bucket string) (string, error) {
	u, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("parse blob url: %w", err)
	}
	marker := "/object/public/" + bucket + "/"
	i := strings.Index(u.Path, marker)
	if i < 0 {
		return "", fmt.Errorf("url %q is not in bucket %q", publicURL, bucket)
	}
	p := u.Path[i+len(marker):]
	if p == "" {
		return "", fmt.Errorf("url %q has no object path", publicURL)
	}
	return p, nil
}

// NewObjectPath builds folder/20060102-<uuid><ext>.
func NewObjectPath(folder, ext string) string {
	name := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.NewString(), ext)
	if folder == "" {
		return name
	}
	return path.Join(folder, name)
}

// DisabledStore rejects uploads and ignores deletes.
type DisabledStore struct{}

func (DisabledStore) Upload(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrBlobStorageDisabled
}

func (DisabledStore) DeleteByURL(context.Context, string) error { return nil }
