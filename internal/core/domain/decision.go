package domain

// DecisionStatus is the lifecycle state of a decision
type DecisionStatus string

const (
	DecisionDraft               DecisionStatus = "DRAFT"
	DecisionPendingConfirmation DecisionStatus = "PENDING_CONFIRMATION"
	DecisionApproved            DecisionStatus = "APPROVED"
	DecisionRejected            DecisionStatus = "REJECTED"
	DecisionActive              DecisionStatus = "ACTIVE"
	DecisionInactive            DecisionStatus = "INACTIVE"
)

// DecisionStatuses lists every status in lifecycle order.
var DecisionStatuses = []DecisionStatus{
	DecisionDraft,
	DecisionPendingConfirmation,
	DecisionApproved,
	DecisionRejected,
	DecisionActive,
	DecisionInactive,
}

var decisionStatusNames = map[DecisionStatus][3]string{
	DecisionDraft:               {"Draft", "Черновик", "Долбоор"},
	DecisionPendingConfirmation: {"Pending Confirmation", "Ожидает подтверждения", "Ырастоону күтүүдө"},
	DecisionApproved:            {"Approved", "Утвержден", "Бекитилген"},
	DecisionRejected:            {"Rejected", "Отклонен", "Четке кагылган"},
	DecisionActive:              {"Active", "Активен", "Активдүү"},
	DecisionInactive:            {"Inactive", "Неактивен", "Активдүү эмес"},
}

// Valid reports whether s is a known status.
func (s DecisionStatus) Valid() bool {
	_, ok := decisionStatusNames[s]
	return ok
}

// IsFinal reports whether a decision in this status is immutable.
func (s DecisionStatus) IsFinal() bool {
	switch s {
	case DecisionActive, DecisionInactive, DecisionRejected:
		return true
	}
	return false
}

// LocalizedName returns the display name of the status.
func (s DecisionStatus) LocalizedName(lang string) string {
	names, ok := decisionStatusNames[s]
	if !ok {
		return string(s)
	}
	return LocalizedName(lang, names[0], names[1], names[2])
}
