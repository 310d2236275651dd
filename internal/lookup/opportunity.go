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

// Opportunity 商机
type Opportunity struct {
	ID              string      `json:"id"`
	DisplayID       string      `json:"displayId"`
	Name            string      `json:"name,omitempty"`
	AccountID       string      `json:"accountId,omitempty"`
	ContractEndDate *model.Date `json:"contractEndDate,omitempty"`
}

// OpportunityClient 商机查询客户端
type OpportunityClient interface {
	FindByDisplayID(ctx context.Context, displayID string) (*Opportunity, error)
}

type httpOpportunityClient struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewOpportunityClient 创建商机客户端
func NewOpportunityClient(cfg config.DirectoryConfig, logger *logrus.Logger) OpportunityClient {
	return &httpOpportunityClient{
		baseURL: cfg.OpportunityBaseURL,
		client:  &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
	}
}

// FindByDisplayID 按展示 ID 查找商机
// 未命中返回 nil 而非错误,由调用方决定如何提示
func (c *httpOpportunityClient) FindByDisplayID(ctx context.Context, displayID string) (*Opportunity, error) {
	params := url.Values{}
	params.Set("$top", "10")
	params.Set("$filter", fmt.Sprintf("displayId eq '%s'", displayID))
	endpoint := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create opportunity request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opportunity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read opportunity response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var wrapped struct {
		Value []Opportunity `json:"value"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode opportunity response: %w", err)
	}
	if len(wrapped.Value) == 0 {
		c.logger.WithField("displayId", displayID).Debug("Opportunity not found")
		return nil, nil
	}
	return &wrapped.Value[0], nil
}
