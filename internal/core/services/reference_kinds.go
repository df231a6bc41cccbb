package services

import (
	"regexp"
	"strings"

	"statefin-backend/internal/adapters/persistence/models"
	"statefin-backend/internal/adapters/persistence/repositories"
	"statefin-backend/internal/pkg/validation"
)

var (
	currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	kgPhonePattern      = regexp.MustCompile(`^\+996\d{9}$`)
)

func upperCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Reference services, one per type
type (
	CurrencyService           = ReferenceService[models.Currency, *models.Currency]
	CreditPurposeService      = ReferenceService[models.CreditPurpose, *models.CreditPurpose]
	DecisionTypeService       = ReferenceService[models.DecisionType, *models.DecisionType]
	DecisionMakingBodyService = ReferenceService[models.DecisionMakingBody, *models.DecisionMakingBody]
	FloatingRateTypeService   = ReferenceService[models.FloatingRateType, *models.FloatingRateType]
	RepaymentOrderService     = ReferenceService[models.RepaymentOrder, *models.RepaymentOrder]
	NotaryOfficeService       = ReferenceService[models.NotaryOffice, *models.NotaryOffice]
)

// NewCurrencyService: code is [A-Z]{3}, upper-cased on input, and unique
func NewCurrencyService(store repositories.Store) *CurrencyService {
	return NewReferenceService[models.Currency](store, ReferenceKind[*models.Currency]{
		Name: "Currency",
		Keys: []ReferenceKey[*models.Currency]{{
			Column:    "code",
			Field:     "code",
			Value:     func(c *models.Currency) string { return c.Code },
			Normalize: upperCode,
		}},
		Validate: func(in *ReferenceInput, create bool, errs validation.Errors) {
			if create && in.Code == nil {
				errs.Add("code", "code is required")
			}
			errs.Optional(in.Code, func(v string) {
				errs.Required("code", v)
				errs.Pattern("code", upperCode(v), currencyCodePattern, "code must be 3 uppercase letters")
			})
			errs.Optional(in.Symbol, func(v string) {
				errs.MaxLen("symbol", v, 5)
			})
		},
		Apply: func(c *models.Currency, in *ReferenceInput) {
			if in.Code != nil {
				c.Code = upperCode(*in.Code)
			}
			if in.Symbol != nil {
				c.Symbol = strings.TrimSpace(*in.Symbol)
			}
		},
	})
}

func NewCreditPurposeService(store repositories.Store) *CreditPurposeService {
	return NewReferenceService[models.CreditPurpose](store, ReferenceKind[*models.CreditPurpose]{
		Name: "Credit purpose",
	})
}

// NewDecisionTypeService: a type used by a decision cannot be deleted
func NewDecisionTypeService(store repositories.Store) *DecisionTypeService {
	return NewReferenceService[models.DecisionType](store, ReferenceKind[*models.DecisionType]{
		Name:  "Decision type",
		Usage: repositories.DecisionUsage("decision_type_id"),
	})
}

// NewDecisionMakingBodyService: a body used by a decision cannot be deleted
func NewDecisionMakingBodyService(store repositories.Store) *DecisionMakingBodyService {
	return NewReferenceService[models.DecisionMakingBody](store, ReferenceKind[*models.DecisionMakingBody]{
		Name:  "Decision making body",
		Usage: repositories.DecisionUsage("decision_making_body_id"),
	})
}

func NewFloatingRateTypeService(store repositories.Store) *FloatingRateTypeService {
	return NewReferenceService[models.FloatingRateType](store, ReferenceKind[*models.FloatingRateType]{
		Name: "Floating rate type",
	})
}

func NewRepaymentOrderService(store repositories.Store) *RepaymentOrderService {
	return NewReferenceService[models.RepaymentOrder](store, ReferenceKind[*models.RepaymentOrder]{
		Name: "Repayment order",
		Validate: func(in *ReferenceInput, _ bool, errs validation.Errors) {
			errs.Optional(in.Code, func(v string) {
				errs.MaxLen("code", v, 20)
			})
		},
		Apply: func(r *models.RepaymentOrder, in *ReferenceInput) {
			if in.Code != nil {
				r.Code = strings.TrimSpace(*in.Code)
			}
			if in.OrderPriority != nil {
				r.OrderPriority = *in.OrderPriority
			}
		},
	})
}

func NewNotaryOfficeService(store repositories.Store) *NotaryOfficeService {
	return NewReferenceService[models.NotaryOffice](store, ReferenceKind[*models.NotaryOffice]{
		Name: "Notary office",
		Validate: func(in *ReferenceInput, _ bool, errs validation.Errors) {
			errs.Optional(in.Address, func(v string) {
				errs.MaxLen("address", v, 500)
			})
			errs.Optional(in.ContactPhone, func(v string) {
				errs.Pattern("contactPhone", v, kgPhonePattern, "contactPhone must look like +996XXXXXXXXX")
			})
			errs.Optional(in.ContactEmail, func(v string) {
				errs.MaxLen("contactEmail", v, 100)
				errs.Email("contactEmail", v)
			})
			errs.Optional(in.RegistrationNumberFormat, func(v string) {
				errs.MaxLen("registrationNumberFormat", v, 50)
			})
		},
		Apply: func(n *models.NotaryOffice, in *ReferenceInput) {
			if in.Address != nil {
				n.Address = *in.Address
			}
			if in.ContactPhone != nil {
				n.ContactPhone = *in.ContactPhone
			}
			if in.ContactEmail != nil {
				n.ContactEmail = strings.TrimSpace(*in.ContactEmail)
			}
			if in.RegistrationNumberFormat != nil {
				n.RegistrationNumberFormat = *in.RegistrationNumberFormat
			}
		},
	})
}
