package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store 图片存储，key 为文件名
type Store interface {
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// LocalStore 存储在本地目录，由 /media/ 静态路由对外提供
type LocalStore struct {
	dir    string
	prefix string
}

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/media/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{dir: dir, prefix: urlPrefix}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	name := filepath.Base(key)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalStore) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	// 先写临时文件再改名，避免读到半截图片
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write media: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename media: %w", err)
	}
	return nil
}

// Delete 文件不存在视为成功
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.prefix + filepath.Base(key)
}

// MemoryStore 内存实现，用于测试
type MemoryStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{files: make(map[string][]byte)} }

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = bytes.Clone(data)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *MemoryStore) URL(key string) string {
	if key == "" {
		return ""
	}
	return "/media/" + key
}

// Has 是否存在
func (s *MemoryStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok
}

// Keys 当前所有 key
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for k := range s.files {
		out = append(out, k)
	}
	return out
}
