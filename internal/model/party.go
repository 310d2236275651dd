package model

import (
	"encoding/json"
	"fmt"
)

// EntityReference 目录服务中的联系人或员工
type EntityReference struct {
	ID            string `json:"id"`
	DisplayID     string `json:"displayId,omitempty"`
	FormattedName string `json:"formattedName,omitempty"`
	EMail         string `json:"eMail,omitempty"`
}

// PartyRef 请求方或责任人引用
// 取值可以是未解析的原始 ID 字符串,也可以是已解析的目录实体;
// 解析失败时保留原始 ID,不视为错误
type PartyRef struct {
	Raw    string
	Entity *EntityReference
}

// IsZero 既无原始 ID 也无实体
func (p PartyRef) IsZero() bool {
	return p.Raw == "" && p.Entity == nil
}

// Resolved 已解析为目录实体
func (p PartyRef) Resolved() bool {
	return p.Entity != nil
}

// HasContactID 外部联系人 ID 可用
// 实体引用取 id 字段,原始引用取字符串本身
func (p PartyRef) HasContactID() bool {
	if p.Entity != nil {
		return p.Entity.ID != ""
	}
	return p.Raw != ""
}

// HasEmployeeDisplayID 员工展示 ID 可用
func (p PartyRef) HasEmployeeDisplayID() bool {
	if p.Entity != nil {
		return p.Entity.DisplayID != ""
	}
	return p.Raw != ""
}

// BackendID 写入存储的标识
func (p PartyRef) BackendID() string {
	if p.Entity != nil {
		return p.Entity.ID
	}
	return p.Raw
}

// DisplayName 展示名,未解析时退回原始 ID
func (p PartyRef) DisplayName() string {
	if p.Entity != nil && p.Entity.FormattedName != "" {
		return p.Entity.FormattedName
	}
	return p.Raw
}

// MarshalJSON 已解析时输出实体对象,否则输出原始字符串
func (p PartyRef) MarshalJSON() ([]byte, error) {
	if p.Entity != nil {
		return json.Marshal(p.Entity)
	}
	return json.Marshal(p.Raw)
}

// UnmarshalJSON 同时接受字符串与实体对象两种形式
func (p *PartyRef) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = PartyRef{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*p = PartyRef{Raw: raw}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		var entity EntityReference
		if err := json.Unmarshal(data, &entity); err != nil {
			return err
		}
		*p = PartyRef{Entity: &entity}
		return nil
	}
	return fmt.Errorf("invalid party reference: %s", string(data))
}
