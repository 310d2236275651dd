package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// TerminationFilter 列表查询条件
type TerminationFilter struct {
	OpportunityID string
	Status        model.TerminationStatus
	Limit         int
	Offset        int
}

// TerminationRepository 终止请求存储
type TerminationRepository interface {
	Create(ctx context.Context, t *model.TerminationRequest) error
	GetByID(ctx context.Context, id string) (*model.TerminationRequest, error)
	List(ctx context.Context, filter TerminationFilter) ([]*model.TerminationRequest, int64, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type terminationRepository struct {
	db *gorm.DB
}

// NewTerminationRepository 创建终止请求存储
func NewTerminationRepository(db *gorm.DB) TerminationRepository {
	return &terminationRepository{db: db}
}

func (r *terminationRepository) Create(ctx context.Context, t *model.TerminationRequest) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *terminationRepository) GetByID(ctx context.Context, id string) (*model.TerminationRequest, error) {
	var t model.TerminationRequest
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *terminationRepository) List(ctx context.Context, filter TerminationFilter) ([]*model.TerminationRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.TerminationRequest{})

	if filter.OpportunityID != "" {
		query = query.Where("opportunity_id = ? OR opportunity_display_id = ?", filter.OpportunityID, filter.OpportunityID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var list []*model.TerminationRequest
	if err := query.Order("modified_at DESC").Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// UpdateFields 原子更新给定字段集合
// 保存协议要求全部字段变更落在同一次写入里
func (r *terminationRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.TerminationRequest{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *terminationRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.TerminationRequest{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
