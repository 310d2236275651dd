package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Srikar1995/cloudrunway-develop/internal/model"
)

func validDraft() *model.TerminationDraft {
	receipt := model.MustParseDate("2025-01-01")
	effective := model.MustParseDate("2025-06-30")
	contractEnd := model.MustParseDate("2025-12-31")
	return &model.TerminationDraft{
		Status:                   model.StatusInProcess,
		TerminationOrigin:        "Customer",
		TerminationRequester:     model.PartyRef{Raw: "CP-100"},
		TerminationResponsible:   model.PartyRef{Raw: "E-200"},
		TerminationReceiptDate:   &receipt,
		TerminationEffectiveDate: &effective,
		ContractEndDate:          &contractEnd,
	}
}

func TestValidateMandatoryFields_AllPresent(t *testing.T) {
	errs := ValidateMandatoryFields(validDraft())

	assert.False(t, errs.HasErrors())
	assert.Empty(t, errs)
}

func TestValidateMandatoryFields_MissingFields(t *testing.T) {
	draft := validDraft()
	draft.TerminationOrigin = ""
	draft.TerminationRequester = model.PartyRef{}
	draft.TerminationReceiptDate = nil

	errs := ValidateMandatoryFields(draft)

	assert.Len(t, errs, 3)
	assert.Contains(t, errs, FieldTerminationOrigin)
	assert.Contains(t, errs, FieldTerminationRequester)
	assert.Contains(t, errs, FieldTerminationReceiptDate)
	assert.NotContains(t, errs, FieldTerminationResponsible)
	assert.Equal(t, ValueStateError, errs[FieldTerminationOrigin].ValueState)
	assert.NotEmpty(t, errs[FieldTerminationOrigin].ValueStateText)
}

func TestValidateMandatoryFields_RequesterEntityReference(t *testing.T) {
	draft := validDraft()

	// id 字段非空的实体引用视为有效
	draft.TerminationRequester = model.PartyRef{Entity: &model.EntityReference{ID: "uuid-1", FormattedName: "Maria Ericsson"}}
	errs := ValidateMandatoryFields(draft)
	assert.NotContains(t, errs, FieldTerminationRequester)

	// id 为空的实体引用无效
	draft.TerminationRequester = model.PartyRef{Entity: &model.EntityReference{FormattedName: "Maria Ericsson"}}
	errs = ValidateMandatoryFields(draft)
	assert.Contains(t, errs, FieldTerminationRequester)
}

func TestValidateMandatoryFields_ResponsibleUsesEmployeeDisplayID(t *testing.T) {
	draft := validDraft()

	draft.TerminationResponsible = model.PartyRef{Entity: &model.EntityReference{ID: "uuid-2", DisplayID: "E-4711"}}
	errs := ValidateMandatoryFields(draft)
	assert.NotContains(t, errs, FieldTerminationResponsible)

	// 仅有内部 id 而无员工展示 ID 时无效
	draft.TerminationResponsible = model.PartyRef{Entity: &model.EntityReference{ID: "uuid-2"}}
	errs = ValidateMandatoryFields(draft)
	assert.Contains(t, errs, FieldTerminationResponsible)
}

func TestValidateMandatoryFields_RetractedFlow(t *testing.T) {
	draft := validDraft()
	draft.Status = model.StatusRetracted

	errs := ValidateMandatoryFields(draft)
	assert.Len(t, errs, 2)
	assert.Contains(t, errs, FieldRetractionReason)
	assert.Contains(t, errs, FieldRetractionReceivedDate)

	retractionDate := model.MustParseDate("2025-02-01")
	draft.RetractionReason = "Customer decided to stay"
	draft.RetractionReceivedDate = &retractionDate
	errs = ValidateMandatoryFields(draft)
	assert.Empty(t, errs)
}

func TestValidateMandatoryFields_RetractionFieldsIgnoredInProcess(t *testing.T) {
	draft := validDraft()
	draft.Status = model.StatusInProcess
	draft.RetractionReason = ""
	draft.RetractionReceivedDate = nil

	errs := ValidateMandatoryFields(draft)
	assert.NotContains(t, errs, FieldRetractionReason)
	assert.NotContains(t, errs, FieldRetractionReceivedDate)
}
