package utils

import (
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// SupabaseUploader stores finished export files in a Supabase bucket.
type SupabaseUploader struct {
	client *storage.Client
	bucket string
}

func NewSupabaseUploader(supabaseURL, supabaseKey, bucket string) *SupabaseUploader {
	return &SupabaseUploader{
		client: storage.NewClient(strings.TrimRight(supabaseURL, "/")+"/storage/v1", supabaseKey, nil),
		bucket: bucket,
	}
}

// Upload writes data at objectPath, replacing any existing object, and
// returns its public URL.
func (u *SupabaseUploader) Upload(objectPath string, data io.Reader, contentType string) (string, error) {
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := u.client.UploadFile(u.bucket, objectPath, data, options); err != nil {
		return "", fmt.Errorf("upload %s: %w", objectPath, err)
	}

	publicURL := u.client.GetPublicUrl(u.bucket, objectPath)
	return publicURL.SignedURL, nil
}
