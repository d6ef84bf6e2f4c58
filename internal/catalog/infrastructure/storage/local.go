package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalImageStore 将图片写入本地媒体目录
type LocalImageStore struct {
	root string
}

func NewLocalImageStore(root string) *LocalImageStore {
	return &LocalImageStore{root: root}
}

func (s *LocalImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}
	// 防止同名覆盖
	stored := uuid.NewString()[:8] + "-" + filepath.Base(name)
	if err := os.WriteFile(filepath.Join(s.root, stored), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return "/media/" + stored, nil
}
