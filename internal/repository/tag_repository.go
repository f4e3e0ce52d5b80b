package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/photogram/internal/model"
)

type TagRepository interface {
	// FindOrCreate 原子的 find-or-insert，name 精确匹配
	FindOrCreate(ctx context.Context, name string) (*model.Tag, error)
	GetByID(ctx context.Context, id uint) (*model.Tag, error)
	GetByName(ctx context.Context, name string) (*model.Tag, error)
}

type tagRepository struct{ db *gorm.DB }

func NewTagRepository(db *gorm.DB) TagRepository { return &tagRepository{db: db} }

func (r *tagRepository) FindOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	var tag *model.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, []string{name})
		if err != nil {
			return err
		}
		tag = &tags[0]
		return nil
	})
	return tag, err
}

func (r *tagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// findOrCreateTags 在调用方事务内逐个 INSERT ... ON CONFLICT (name) DO NOTHING 后回查，
// 并发创建同名标签时只会落一行
func findOrCreateTags(tx *gorm.DB, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&model.Tag{Name: name}).Error; err != nil {
			return nil, err
		}
		var t model.Tag
		if err := tx.Where("name = ?", name).First(&t).Error; err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// ParseTagNames 逗号分隔 -> 去空白、去空、去重（保留首次出现顺序）
func ParseTagNames(raw string) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
