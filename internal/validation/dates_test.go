package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

func datePtr(s string) *model.Date {
	d := model.MustParseDate(s)
	return &d
}

func TestValidateReceiptDateNotFuture(t *testing.T) {
	today := model.Today()
	tomorrow := today.AddDays(1)
	yesterday := today.AddDays(-1)

	assert.True(t, ValidateReceiptDateNotFuture(&today).IsValid, "today is not in the future")
	assert.True(t, ValidateReceiptDateNotFuture(&yesterday).IsValid)

	result := ValidateReceiptDateNotFuture(&tomorrow)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestValidateReceiptDateNotFuture_EmptyIsValid(t *testing.T) {
	assert.True(t, ValidateReceiptDateNotFuture(nil).IsValid)

	var zero model.Date
	assert.True(t, ValidateReceiptDateNotFuture(&zero).IsValid)
}

func TestValidateReceiptDateNotFuture_TimeOfDayIgnored(t *testing.T) {
	// 当天晚些时候的时间戳仍算当天
	lateToday := model.NewDate(time.Now().Add(2 * time.Hour))
	if lateToday.Equal(model.Today()) {
		assert.True(t, ValidateReceiptDateNotFuture(&lateToday).IsValid)
	}
}

func TestValidateNoticePeriod(t *testing.T) {
	receipt := datePtr("2025-01-01")

	// 58 天不足通知期
	result := ValidateNoticePeriod(receipt, datePtr("2025-02-28"))
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "60 days")

	// 恰好 60 天通过
	assert.True(t, ValidateNoticePeriod(receipt, datePtr("2025-03-02")).IsValid)

	// 超过 60 天通过
	assert.True(t, ValidateNoticePeriod(receipt, datePtr("2025-06-30")).IsValid)
}

func TestValidateNoticePeriod_MissingDates(t *testing.T) {
	assert.True(t, ValidateNoticePeriod(nil, datePtr("2025-03-02")).IsValid)
	assert.True(t, ValidateNoticePeriod(datePtr("2025-01-01"), nil).IsValid)
}

func TestValidateEffectiveDateRange(t *testing.T) {
	receipt := datePtr("2025-01-01")
	contractEnd := datePtr("2025-12-31")

	// 区间内通过
	assert.True(t, ValidateEffectiveDateRange(datePtr("2025-06-30"), receipt, contractEnd).IsValid)

	// 恰好在下界与上界
	assert.True(t, ValidateEffectiveDateRange(datePtr("2025-03-02"), receipt, contractEnd).IsValid)
	assert.True(t, ValidateEffectiveDateRange(datePtr("2025-12-31"), receipt, contractEnd).IsValid)

	// 早于下界
	result := ValidateEffectiveDateRange(datePtr("2025-02-01"), receipt, contractEnd)
	assert.False(t, result.IsValid)

	// 晚于合同结束日期
	result = ValidateEffectiveDateRange(datePtr("2026-01-15"), receipt, contractEnd)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.ErrorMessage, "2025-12-31")
}

func TestValidateEffectiveDateRange_MissingContractEnd(t *testing.T) {
	assert.True(t, ValidateEffectiveDateRange(datePtr("2026-06-30"), datePtr("2025-01-01"), nil).IsValid)
}

func TestApplyDateRules_NoticePeriodOnlyForEUDataAct(t *testing.T) {
	draft := validDraft()
	draft.TerminationReceiptDate = datePtr("2025-01-01")
	draft.TerminationEffectiveDate = datePtr("2025-02-28")
	draft.ContractEndDate = nil

	// 非欧盟数据法案场景不检查通知期
	draft.BusinessScenario = "Z01"
	errs := FieldErrorMap{}
	ApplyDateRules(draft, errs)
	assert.NotContains(t, errs, FieldTerminationEffectiveDate)

	draft.BusinessScenario = model.ScenarioEUDataAct
	errs = FieldErrorMap{}
	ApplyDateRules(draft, errs)
	assert.Contains(t, errs, FieldTerminationEffectiveDate)
}

func TestApplyDateRules_RangeRuleOverridesNoticePeriod(t *testing.T) {
	draft := validDraft()
	draft.BusinessScenario = model.ScenarioEUDataAct
	draft.TerminationReceiptDate = datePtr("2025-01-01")
	draft.TerminationEffectiveDate = datePtr("2026-06-30")
	draft.ContractEndDate = datePtr("2025-12-31")

	errs := FieldErrorMap{}
	ApplyDateRules(draft, errs)

	// 后执行的区间规则覆盖同字段的结果
	assert.Contains(t, errs[FieldTerminationEffectiveDate].ValueStateText, "contract end date")
}

func TestValidate_CombinesMandatoryAndDateRules(t *testing.T) {
	draft := validDraft()
	draft.TerminationOrigin = ""
	future := model.Today().AddDays(5)
	draft.TerminationReceiptDate = &future
	draft.TerminationEffectiveDate = nil
	draft.ContractEndDate = nil

	errs := Validate(draft)

	assert.Contains(t, errs, FieldTerminationOrigin)
	assert.Contains(t, errs, FieldTerminationReceiptDate)
	assert.Contains(t, errs, FieldTerminationEffectiveDate)
	assert.Contains(t, errs[FieldTerminationReceiptDate].ValueStateText, "future")
}
