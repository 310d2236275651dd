// Package validation 终止请求的字段与日期规则校验
//
// 校验只读取草稿快照,不访问存储与网络,每次整体重算,
// 结果覆盖上一次的全部字段状态
package validation

import "github.com/Srikar1995/cloudrunway-develop/internal/model"

// ValueState 字段校验状态
type ValueState string

const (
	// ValueStateNone 无错误
	ValueStateNone ValueState = "None"
	// ValueStateError 校验失败
	ValueStateError ValueState = "Error"
)

// FieldError 单个字段的校验结果
type FieldError struct {
	ValueState     ValueState `json:"valueState"`
	ValueStateText string     `json:"valueStateText"`
}

// FieldErrorMap 字段名到校验结果的映射,只登记失败字段
type FieldErrorMap map[string]FieldError

// HasErrors 是否存在校验失败的字段
func (m FieldErrorMap) HasErrors() bool {
	return len(m) > 0
}

// Messages 全部错误文本,按字段名排序不保证
func (m FieldErrorMap) Messages() []string {
	msgs := make([]string, 0, len(m))
	for _, fe := range m {
		msgs = append(msgs, fe.ValueStateText)
	}
	return msgs
}

// 字段名,与请求负载的 JSON 键一致
const (
	FieldTerminationOrigin        = "terminationOrigin"
	FieldTerminationRequester     = "terminationRequester"
	FieldTerminationResponsible   = "terminationResponsible"
	FieldTerminationReceiptDate   = "terminationReceiptDate"
	FieldTerminationEffectiveDate = "terminationEffectiveDate"
	FieldRetractionReason         = "retractionReason"
	FieldRetractionReceivedDate   = "retractionReceivedDate"
)

const mandatoryFieldMessage = "This field is mandatory"

// ValidateMandatoryFields 必填字段校验
// 基础必填集合固定为来源、请求方、责任人、收到日期、生效日期;
// 目标状态为已撤回时追加撤回原因与撤回收到日期
func ValidateMandatoryFields(draft *model.TerminationDraft) FieldErrorMap {
	errs := FieldErrorMap{}

	if draft.TerminationOrigin == "" {
		errs.add(FieldTerminationOrigin)
	}
	if !draft.TerminationRequester.HasContactID() {
		errs.add(FieldTerminationRequester)
	}
	if !draft.TerminationResponsible.HasEmployeeDisplayID() {
		errs.add(FieldTerminationResponsible)
	}
	if draft.TerminationReceiptDate == nil || draft.TerminationReceiptDate.IsZero() {
		errs.add(FieldTerminationReceiptDate)
	}
	if draft.TerminationEffectiveDate == nil || draft.TerminationEffectiveDate.IsZero() {
		errs.add(FieldTerminationEffectiveDate)
	}

	if draft.Status == model.StatusRetracted {
		if draft.RetractionReason == "" {
			errs.add(FieldRetractionReason)
		}
		if draft.RetractionReceivedDate == nil || draft.RetractionReceivedDate.IsZero() {
			errs.add(FieldRetractionReceivedDate)
		}
	}

	return errs
}

func (m FieldErrorMap) add(field string) {
	m[field] = FieldError{
		ValueState:     ValueStateError,
		ValueStateText: mandatoryFieldMessage,
	}
}

func (m FieldErrorMap) addMessage(field, message string) {
	m[field] = FieldError{
		ValueState:     ValueStateError,
		ValueStateText: message,
	}
}

// Validate 完整校验,必填字段加日期规则
func Validate(draft *model.TerminationDraft) FieldErrorMap {
	errs := ValidateMandatoryFields(draft)
	ApplyDateRules(draft, errs)
	return errs
}
