package model

import (
	"errors"
	"time"
)

// TerminationStatus 终止请求状态
type TerminationStatus string

const (
	// StatusInProcess 处理中
	StatusInProcess TerminationStatus = "InProcess"
	// StatusRetracted 已撤回
	StatusRetracted TerminationStatus = "Retracted"
	// StatusCompleted 已完成
	StatusCompleted TerminationStatus = "Completed"
)

// Valid 是否为已知状态
func (s TerminationStatus) Valid() bool {
	switch s {
	case StatusInProcess, StatusRetracted, StatusCompleted:
		return true
	}
	return false
}

// 业务场景代码
const (
	// ScenarioEUDataAct 欧盟数据法案场景,适用 60 天通知期规则
	ScenarioEUDataAct = "Z07"
)

// 创建时写入的固定字段值
const (
	SourceBTPApp            = "BTP-Termination-App"
	TerminationTypeStandard = "Standard"
	RenewalTypeAuto         = "Auto"
)

// TerminationRequest 终止请求
type TerminationRequest struct {
	ID                       string            `gorm:"primaryKey;type:varchar(64)" json:"ID"`
	DisplayID                string            `gorm:"type:varchar(64);uniqueIndex" json:"displayId"`
	Source                   string            `gorm:"type:varchar(64)" json:"source"`
	OpportunityID            string            `gorm:"type:varchar(64);not null;index" json:"opportunityId"`
	OpportunityDisplayID     string            `gorm:"type:varchar(64);index" json:"opportunityDisplayId"`
	SubscriptionContractID   string            `gorm:"type:varchar(64)" json:"subscriptionContractId,omitempty"`
	BusinessScenario         string            `gorm:"type:varchar(16)" json:"businessScenario"`
	TerminationOrigin        string            `gorm:"type:varchar(64)" json:"terminationOrigin"`
	TerminationType          string            `gorm:"type:varchar(32)" json:"terminationType"`
	RenewalType              string            `gorm:"type:varchar(32)" json:"renewalType"`
	RenewalRiskReason        string            `gorm:"type:varchar(255)" json:"renewalRiskReason,omitempty"`
	Status                   TerminationStatus `gorm:"type:varchar(32);not null;index" json:"status"`
	TerminationRequester     string            `gorm:"type:varchar(64)" json:"terminationRequester"`
	TerminationResponsible   string            `gorm:"type:varchar(64)" json:"terminationResponsible"`
	TerminationReceiptDate   *Date             `gorm:"type:date" json:"terminationReceiptDate"`
	TerminationEffectiveDate *Date             `gorm:"type:date" json:"terminationEffectiveDate"`
	ContractEndDate          *Date             `gorm:"type:date" json:"contractEndDate"`
	RetractionReason         string            `gorm:"type:varchar(255)" json:"retractionReason,omitempty"`
	RetractionReceivedDate   *Date             `gorm:"type:date" json:"retractionReceivedDate,omitempty"`
	CreatedBy                string            `gorm:"type:varchar(64)" json:"createdBy"`
	CreatedAt                time.Time         `json:"createdAt"`
	ModifiedAt               time.Time         `gorm:"autoUpdateTime;index" json:"modifiedAt"`

	Attachments []Attachment `gorm:"foreignKey:ParentID;references:ID" json:"attachments,omitempty"`
}

// TableName 指定表名
func (TerminationRequest) TableName() string {
	return "termination_requests"
}

// Validate 落库前的完整性检查
func (t *TerminationRequest) Validate() error {
	if t.ID == "" {
		return errors.New("termination ID is required")
	}
	if t.OpportunityID == "" {
		return errors.New("opportunity ID is required")
	}
	if !t.Status.Valid() {
		return errors.New("invalid termination status")
	}
	return nil
}

// IsRetracted 是否处于撤回流程
func (t *TerminationRequest) IsRetracted() bool {
	return t.Status == StatusRetracted
}

// TerminationDraft 编辑中的终止请求快照
// 校验引擎只依赖这份快照,不触达存储
type TerminationDraft struct {
	Status                   TerminationStatus
	BusinessScenario         string
	TerminationOrigin        string
	TerminationRequester     PartyRef
	TerminationResponsible   PartyRef
	TerminationReceiptDate   *Date
	TerminationEffectiveDate *Date
	ContractEndDate          *Date
	RetractionReason         string
	RetractionReceivedDate   *Date
}
