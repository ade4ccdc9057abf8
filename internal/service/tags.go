package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"TapTrack/internal/model"
	apperrors "TapTrack/pkg/errors"
)

// TagResolver 把实体卡号解析为员工身份，只读
type TagResolver struct {
	db *gorm.DB
}

func NewTagResolver(db *gorm.DB) *TagResolver {
	return &TagResolver{db: db}
}

// Resolve 点查卡号绑定；未知卡直接面向用户报错，不重试
func (s *TagResolver) Resolve(ctx context.Context, tagUID string) (*model.TagBinding, error) {
	var binding model.TagBinding
	err := s.db.WithContext(ctx).
		Where("tag_uid = ?", tagUID).
		First(&binding).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.TagNotFound.WithMessage(
			fmt.Sprintf("No employee linked to tag UID %s", tagUID))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tag %s: %w", tagUID, err)
	}

	return &binding, nil
}
