package services

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"vision-relay/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init("error")
	os.Exit(m.Run())
}

// fakeStore is an in-memory ObjectStore that records every call.
type fakeStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	uploads    []string
	signTTLs   []int
	removed    []string
	removeErrs map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		objects:    make(map[string][]byte),
		removeErrs: make(map[string]error),
	}
}

func (s *fakeStore) Upload(objectPath string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[objectPath]; exists {
		return fmt.Errorf("object %s already exists", objectPath)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[objectPath] = buf
	s.uploads = append(s.uploads, objectPath)
	return nil
}

func (s *fakeStore) List(folder string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefix := folder + "/"
	var names []string
	for objectPath := range s.objects {
		if strings.HasPrefix(objectPath, prefix) {
			names = append(names, strings.TrimPrefix(objectPath, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *fakeStore) SignURL(objectPath string, ttlSeconds int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[objectPath]; !exists {
		return "", fmt.Errorf("object %s not found", objectPath)
	}
	s.signTTLs = append(s.signTTLs, ttlSeconds)
	return fmt.Sprintf("https://demo.supabase.co/storage/v1/object/sign/pages/%s?token=fake", objectPath), nil
}

func (s *fakeStore) Remove(objectPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.removeErrs[objectPath]; err != nil {
		return err
	}
	if _, exists := s.objects[objectPath]; !exists {
		return fmt.Errorf("object %s not found", objectPath)
	}
	delete(s.objects, objectPath)
	s.removed = append(s.removed, objectPath)
	return nil
}
