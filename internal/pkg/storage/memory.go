package storage

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore 内存存储，用于测试
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	// FailAfter 第 N 次 Put 之后返回错误，0 表示不失败
	FailAfter int
	puts      int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

var errInjected = errors.New("injected put failure")

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	if s.FailAfter > 0 && s.puts > s.FailAfter {
		return "", errInjected
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return "/media/" + key, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

// Has 对象是否存在
func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Len 当前对象数量
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
