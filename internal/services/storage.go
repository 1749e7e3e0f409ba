package services

import (
	"bytes"
	"fmt"
	"sort"

	storage_go "github.com/supabase-community/storage-go"

	"vision-relay/internal/config"
)

// ObjectStore is the slice of the storage provider the relay needs: put a
// rendered page, enumerate a folder, sign a member, delete a member.
type ObjectStore interface {
	Upload(objectPath string, data []byte) error
	List(folder string) ([]string, error)
	SignURL(objectPath string, ttlSeconds int) (string, error)
	Remove(objectPath string) error
}

// SupabaseStore implements ObjectStore against one storage bucket.
type SupabaseStore struct {
	client *storage_go.Client
	bucket string
}

func NewSupabaseStore(cfg config.StorageConfig) *SupabaseStore {
	return &SupabaseStore{
		client: storage_go.NewClient(cfg.URL, cfg.Key, nil),
		bucket: cfg.BucketName,
	}
}

// Upload stores data at objectPath with content type image/png. Upsert is
// off: inside one session the uuid prefix makes paths unique, so a
// collision is a bug worth surfacing.
func (s *SupabaseStore) Upload(objectPath string, data []byte) error {
	contentType := "image/png"
	upsert := false
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}
	return nil
}

// List returns the object names directly under folder, sorted by name so
// page order matches label order.
func (s *SupabaseStore) List(folder string) ([]string, error) {
	objects, err := s.client.ListFiles(s.bucket, folder+"/", storage_go.FileSearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folder, err)
	}

	names := make([]string, 0, len(objects))
	for _, object := range objects {
		names = append(names, object.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *SupabaseStore) SignURL(objectPath string, ttlSeconds int) (string, error) {
	resp, err := s.client.CreateSignedUrl(s.bucket, objectPath, ttlSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s: %w", objectPath, err)
	}
	return resp.SignedURL, nil
}

func (s *SupabaseStore) Remove(objectPath string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{objectPath}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectPath, err)
	}
	return nil
}

// ObjectPath builds the storage path for one rendered page.
func ObjectPath(folder, label string) string {
	return fmt.Sprintf("%s/page_%s.png", folder, label)
}

// FolderURLs lists a folder and signs every member with the standard TTL,
// preserving listing order.
func FolderURLs(store ObjectStore, folder string) ([]string, error) {
	names, err := store.List(folder)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(names))
	for _, name := range names {
		signed, err := store.SignURL(folder+"/"+name, config.SignedURLTTL)
		if err != nil {
			return nil, err
		}
		urls = append(urls, signed)
	}
	return urls, nil
}
