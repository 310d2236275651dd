package lookup

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/metrics"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// Resolver 目录实体解析器
// 解析结果进程内缓存,同一会话内同一 ID 至多一次出站请求;
// 缓存只增不改,仅显式清空
type Resolver struct {
	client DirectoryClient
	logger *logrus.Logger

	mu    sync.RWMutex
	cache map[string]*model.EntityReference
}

// NewResolver 创建解析器
func NewResolver(client DirectoryClient, logger *logrus.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger,
		cache:  make(map[string]*model.EntityReference),
	}
}

func cacheKey(kind Kind, id string) string {
	return string(kind) + "_" + id
}

// Resolve 按 ID 解析目录实体
// 先查缓存,再按 ID 直取,失败时退回列表扫描;
// 任何一步失败都不报错,返回 nil 表示无法解析,
// 调用方应退回展示原始 ID
func (r *Resolver) Resolve(ctx context.Context, kind Kind, id string) *model.EntityReference {
	if id == "" {
		return nil
	}

	key := cacheKey(kind, id)
	r.mu.RLock()
	cached, ok := r.cache[key]
	r.mu.RUnlock()
	if ok {
		metrics.RecordLookupCache(string(kind), true)
		return cached
	}
	metrics.RecordLookupCache(string(kind), false)

	if ref, err := r.client.FetchByID(ctx, kind, id); err == nil && ref != nil && ref.ID != "" {
		r.store(key, ref)
		return ref
	} else if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"id":   id,
		}).Debug("Direct lookup failed, falling back to list scan")
	}

	refs, err := r.client.FetchList(ctx, kind, "")
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"kind": kind,
			"id":   id,
		}).Warn("Directory list fallback failed")
		return nil
	}
	for _, ref := range refs {
		if ref.ID == id || ref.DisplayID == id {
			r.store(key, ref)
			return ref
		}
	}
	return nil
}

// Search 按名称或邮箱搜索目录实体
// 拉取列表后在本地按格式化名称与邮箱过滤,命中项顺带写入缓存
func (r *Resolver) Search(ctx context.Context, kind Kind, query, accountID string) ([]*model.EntityReference, error) {
	refs, err := r.client.FetchList(ctx, kind, accountID)
	if err != nil {
		return nil, err
	}

	for _, ref := range refs {
		if ref.ID != "" {
			r.store(cacheKey(kind, ref.ID), ref)
		}
	}

	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return refs, nil
	}
	filtered := make([]*model.EntityReference, 0, len(refs))
	for _, ref := range refs {
		if strings.Contains(strings.ToLower(ref.FormattedName), query) ||
			strings.Contains(strings.ToLower(ref.EMail), query) {
			filtered = append(filtered, ref)
		}
	}
	return filtered, nil
}

func (r *Resolver) store(key string, ref *model.EntityReference) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.cache[key]; !exists {
		r.cache[key] = ref
	}
}

// ClearCache 清空缓存
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache = make(map[string]*model.EntityReference)
}

// CacheSize 当前缓存条目数
func (r *Resolver) CacheSize() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
