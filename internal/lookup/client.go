// Package lookup 销售服务云目录查询
//
// 联系人与员工数据来自外部 OData 接口,响应外层包装在不同租户间
// 不一致,解码时按 value、results、裸数组的顺序兼容
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/config"
	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// Kind 目录实体类型
type Kind string

const (
	// KindContactPerson 外部联系人
	KindContactPerson Kind = "contactPerson"
	// KindEmployee 内部员工
	KindEmployee Kind = "employee"
)

// Valid 是否为已知类型
func (k Kind) Valid() bool {
	return k == KindContactPerson || k == KindEmployee
}

// HTTPError 目录服务返回的非 2xx 响应
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("directory request failed (%d): %s", e.StatusCode, e.Body)
}

// DirectoryClient 目录服务客户端
type DirectoryClient interface {
	FetchByID(ctx context.Context, kind Kind, id string) (*model.EntityReference, error)
	FetchList(ctx context.Context, kind Kind, accountID string) ([]*model.EntityReference, error)
}

// httpDirectoryClient 基于 HTTP 的目录客户端实现
type httpDirectoryClient struct {
	cfg    config.DirectoryConfig
	client *http.Client
	logger *logrus.Logger
}

// NewDirectoryClient 创建目录客户端
func NewDirectoryClient(cfg config.DirectoryConfig, logger *logrus.Logger) DirectoryClient {
	return &httpDirectoryClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
		logger: logger,
	}
}

// directoryEntity 目录接口的实体负载
// 员工接口的展示 ID 在 employeeDisplayId 字段,邮箱可能嵌在工作地址里
type directoryEntity struct {
	ID                string `json:"id"`
	DisplayID         string `json:"displayId"`
	EmployeeDisplayID string `json:"employeeDisplayId"`
	FormattedName     string `json:"formattedName"`
	EMail             string `json:"eMail"`
	WorkplaceAddress  *struct {
		EMail string `json:"eMail"`
	} `json:"workplaceAddress"`
}

func (e *directoryEntity) normalize() *model.EntityReference {
	ref := &model.EntityReference{
		ID:            e.ID,
		DisplayID:     e.DisplayID,
		FormattedName: e.FormattedName,
		EMail:         e.EMail,
	}
	if e.EmployeeDisplayID != "" {
		ref.DisplayID = e.EmployeeDisplayID
	}
	if ref.EMail == "" && e.WorkplaceAddress != nil {
		ref.EMail = e.WorkplaceAddress.EMail
	}
	return ref
}

func (c *httpDirectoryClient) baseURL(kind Kind) string {
	if kind == KindEmployee {
		return c.cfg.EmployeeBaseURL
	}
	return c.cfg.ContactPersonBaseURL
}

// FetchByID 按 ID 直接取单个实体
func (c *httpDirectoryClient) FetchByID(ctx context.Context, kind Kind, id string) (*model.EntityReference, error) {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL(kind), url.PathEscape(id))
	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	entity, err := decodeEntity(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", kind, err)
	}
	return entity.normalize(), nil
}

// FetchList 拉取实体列表
// 联系人按客户 ID 过滤并限制页大小,员工接口不支持过滤参数
func (c *httpDirectoryClient) FetchList(ctx context.Context, kind Kind, accountID string) ([]*model.EntityReference, error) {
	endpoint := c.baseURL(kind)
	if kind == KindContactPerson {
		params := url.Values{}
		params.Set("$top", fmt.Sprintf("%d", c.pageSize()))
		if accountID != "" {
			params.Set("$filter", fmt.Sprintf("accountId eq '%s'", accountID))
		}
		endpoint += "?" + params.Encode()
	}

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	entities, err := decodeEntityList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s list response: %w", kind, err)
	}

	refs := make([]*model.EntityReference, 0, len(entities))
	for i := range entities {
		refs = append(refs, entities[i].normalize())
	}
	return refs, nil
}

func (c *httpDirectoryClient) pageSize() int {
	if c.cfg.PageSize <= 0 {
		return 200
	}
	return c.cfg.PageSize
}

func (c *httpDirectoryClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// decodeEntity 解码单实体响应,兼容 {value:{...}} 包装与裸对象
func decodeEntity(body []byte) (*directoryEntity, error) {
	var wrapped struct {
		Value *directoryEntity `json:"value"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Value != nil && wrapped.Value.ID != "" {
		return wrapped.Value, nil
	}
	var entity directoryEntity
	if err := json.Unmarshal(body, &entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// decodeEntityList 解码列表响应
// 依次尝试 value 数组、results 数组、裸数组
func decodeEntityList(body []byte) ([]directoryEntity, error) {
	trimmed := firstNonSpace(body)
	if trimmed == '[' {
		var list []directoryEntity
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var wrapped struct {
		Value   []directoryEntity `json:"value"`
		Results []directoryEntity `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Value != nil {
		return wrapped.Value, nil
	}
	if wrapped.Results != nil {
		return wrapped.Results, nil
	}
	return nil, nil
}

func firstNonSpace(body []byte) byte {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}
