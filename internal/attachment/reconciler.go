// Package attachment 附件暂存与合并
//
// 编辑会话期间的新增与删除先记入暂存区,保存时才写入存储;
// 合并视图始终等于已存附件去掉删除标记再加上待上传项
package attachment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

const tempIDPrefix = "temp_"

var (
	// ErrAttachmentRequired 创建流程至少需要一个附件
	ErrAttachmentRequired = errors.New("at least one attachment is required")
	// ErrNonPDFAttachment 创建流程仅接受 PDF 附件
	ErrNonPDFAttachment = errors.New("only PDF attachments are allowed")
	// ErrRetractionAttachmentRequired 撤回时必须保留证明附件
	ErrRetractionAttachmentRequired = errors.New("retracting a termination requires at least one attachment")
	// ErrEffectiveDateAttachmentRequired 修改生效日期必须附带附件
	ErrEffectiveDateAttachmentRequired = errors.New("changing the termination effective date requires at least one attachment")
)

// Pending 待上传附件
type Pending struct {
	TempID   string `json:"tempId"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Content  []byte `json:"-"`
}

// Ref 合并视图中的附件条目
type Ref struct {
	ID       string `json:"ID"`
	ParentID string `json:"up__ID,omitempty"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Pending  bool   `json:"pending"`
}

// Reconciler 单次编辑会话的附件暂存区
// 非并发安全,每个会话各持一份
type Reconciler struct {
	existing []model.Attachment
	pending  []Pending
	deleted  map[string]struct{}
}

// NewReconciler 以已存附件快照创建暂存区
func NewReconciler(existing []model.Attachment) *Reconciler {
	return &Reconciler{
		existing: existing,
		deleted:  make(map[string]struct{}),
	}
}

// AddPending 登记一个待上传附件并分配临时 ID
func (r *Reconciler) AddPending(filename, mimeType string, content []byte) Pending {
	p := Pending{
		TempID:   newTempID(),
		Filename: filename,
		MimeType: mimeType,
		Content:  content,
	}
	r.pending = append(r.pending, p)
	return p
}

func newTempID() string {
	return fmt.Sprintf("%s%d_%s", tempIDPrefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// MarkForDeletion 标记删除
// key 可以是待上传项的临时 ID、已存附件的 ID 或父子复合键;
// 待上传项直接移出暂存区,不留痕迹;
// 已存附件的简单键与复合键同时登记,返回是否命中
func (r *Reconciler) MarkForDeletion(key string) bool {
	if strings.HasPrefix(key, tempIDPrefix) {
		for i, p := range r.pending {
			if p.TempID == key {
				r.pending = append(r.pending[:i], r.pending[i+1:]...)
				return true
			}
		}
		return false
	}
	for i := range r.existing {
		a := &r.existing[i]
		if a.ID == key || a.CompoundKey() == key {
			r.deleted[a.ID] = struct{}{}
			r.deleted[a.CompoundKey()] = struct{}{}
			return true
		}
	}
	return false
}

// IsDeleted 附件是否被标记删除
func (r *Reconciler) IsDeleted(a *model.Attachment) bool {
	if _, ok := r.deleted[a.ID]; ok {
		return true
	}
	_, ok := r.deleted[a.CompoundKey()]
	return ok
}

// Merge 合并视图
// 结果为已存附件过滤删除标记,再追加全部待上传项;
// 不修改任何输入,可重复调用
func (r *Reconciler) Merge() []Ref {
	refs := make([]Ref, 0, len(r.existing)+len(r.pending))
	for i := range r.existing {
		a := &r.existing[i]
		if r.IsDeleted(a) {
			continue
		}
		refs = append(refs, Ref{
			ID:       a.ID,
			ParentID: a.ParentID,
			Filename: a.Filename,
			MimeType: a.MimeType,
			Size:     a.Size,
		})
	}
	for _, p := range r.pending {
		refs = append(refs, Ref{
			ID:       p.TempID,
			Filename: p.Filename,
			MimeType: p.MimeType,
			Size:     int64(len(p.Content)),
			Pending:  true,
		})
	}
	return refs
}

// PendingUploads 全部待上传项,按登记顺序
func (r *Reconciler) PendingUploads() []Pending {
	return r.pending
}

// DeletedExisting 被标记删除的已存附件,按快照顺序
func (r *Reconciler) DeletedExisting() []model.Attachment {
	out := make([]model.Attachment, 0, len(r.deleted))
	for i := range r.existing {
		if r.IsDeleted(&r.existing[i]) {
			out = append(out, r.existing[i])
		}
	}
	return out
}

// HasPendingUploads 是否存在待上传项
func (r *Reconciler) HasPendingUploads() bool {
	return len(r.pending) > 0
}

// HasDeletions 是否存在删除标记
func (r *Reconciler) HasDeletions() bool {
	return len(r.deleted) > 0
}

// HasStagedChanges 暂存区是否有任何变更
func (r *Reconciler) HasStagedChanges() bool {
	return r.HasPendingUploads() || r.HasDeletions()
}

// Reset 保存成功后清空暂存区并换上新的快照
func (r *Reconciler) Reset(existing []model.Attachment) {
	r.existing = existing
	r.pending = nil
	r.deleted = make(map[string]struct{})
}

// ValidateCreateAttachments 创建流程的附件规则
// 至少一个附件且全部为 PDF
func ValidateCreateAttachments(pending []Pending) error {
	if len(pending) == 0 {
		return ErrAttachmentRequired
	}
	for _, p := range pending {
		if p.MimeType != model.MimeTypePDF {
			return ErrNonPDFAttachment
		}
	}
	return nil
}

// RequiresAttachment 保存前置校验
// 撤回流程与修改生效日期都要求合并视图非空,
// 在任何上传或删除发生之前执行
func RequiresAttachment(oldStatus, newStatus model.TerminationStatus, oldEffective, newEffective *model.Date, mergedCount int) error {
	if mergedCount > 0 {
		return nil
	}
	if newStatus == model.StatusRetracted && oldStatus != model.StatusRetracted {
		return ErrRetractionAttachmentRequired
	}
	if effectiveDateChanged(oldEffective, newEffective) {
		return ErrEffectiveDateAttachmentRequired
	}
	return nil
}

func effectiveDateChanged(old, new *model.Date) bool {
	switch {
	case old == nil && new == nil:
		return false
	case old == nil || new == nil:
		return true
	default:
		return !old.Equal(*new)
	}
}
