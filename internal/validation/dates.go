package validation

import (
	"fmt"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

// NoticePeriodDays 欧盟数据法案场景的最短通知期
const NoticePeriodDays = 60

const (
	receiptDateFutureMessage = "Termination receipt date must not be in the future"
	noticePeriodMessage      = "EU Data Act terminations require a notice period of at least 60 days between receipt date and effective date"
)

// RuleResult 单条日期规则的结果
type RuleResult struct {
	IsValid      bool
	ErrorMessage string
}

func valid() RuleResult {
	return RuleResult{IsValid: true}
}

func invalid(msg string) RuleResult {
	return RuleResult{IsValid: false, ErrorMessage: msg}
}

// ValidateReceiptDateNotFuture 收到日期不得晚于当天
// 日期缺失视为通过,缺失由必填校验负责
func ValidateReceiptDateNotFuture(receiptDate *model.Date) RuleResult {
	if receiptDate == nil || receiptDate.IsZero() {
		return valid()
	}
	if receiptDate.After(model.Today()) {
		return invalid(receiptDateFutureMessage)
	}
	return valid()
}

// ValidateNoticePeriod 生效日期距收到日期至少 60 天
// 仅欧盟数据法案场景适用,由调用方按业务场景决定是否执行
func ValidateNoticePeriod(receiptDate, effectiveDate *model.Date) RuleResult {
	if receiptDate == nil || receiptDate.IsZero() || effectiveDate == nil || effectiveDate.IsZero() {
		return valid()
	}
	if receiptDate.DaysUntil(*effectiveDate) < NoticePeriodDays {
		return invalid(noticePeriodMessage)
	}
	return valid()
}

// ValidateEffectiveDateRange 生效日期区间校验
// 下界为收到日期加通知期,上界为合同结束日期,两端闭区间
func ValidateEffectiveDateRange(effectiveDate, receiptDate, contractEndDate *model.Date) RuleResult {
	if effectiveDate == nil || effectiveDate.IsZero() ||
		receiptDate == nil || receiptDate.IsZero() ||
		contractEndDate == nil || contractEndDate.IsZero() {
		return valid()
	}
	minDate := receiptDate.AddDays(NoticePeriodDays)
	if effectiveDate.Before(minDate) {
		return invalid(noticePeriodMessage)
	}
	if effectiveDate.After(*contractEndDate) {
		return invalid(fmt.Sprintf("Termination effective date must not exceed the contract end date (%s)", contractEndDate.String()))
	}
	return valid()
}

// ApplyDateRules 按固定顺序执行日期规则,结果写入 errs
// 同一字段后执行的规则覆盖先执行的结果
func ApplyDateRules(draft *model.TerminationDraft, errs FieldErrorMap) {
	if r := ValidateReceiptDateNotFuture(draft.TerminationReceiptDate); !r.IsValid {
		errs.addMessage(FieldTerminationReceiptDate, r.ErrorMessage)
	}

	if draft.BusinessScenario == model.ScenarioEUDataAct {
		if r := ValidateNoticePeriod(draft.TerminationReceiptDate, draft.TerminationEffectiveDate); !r.IsValid {
			errs.addMessage(FieldTerminationEffectiveDate, r.ErrorMessage)
		}
	}

	if r := ValidateEffectiveDateRange(draft.TerminationEffectiveDate, draft.TerminationReceiptDate, draft.ContractEndDate); !r.IsValid {
		errs.addMessage(FieldTerminationEffectiveDate, r.ErrorMessage)
	}
}
