package models

import (
	"time"

	"statefin-backend/internal/core/domain"
)

// ============================================================
// Multilingual reference tables
// ============================================================

// Reference is implemented by every multilingual reference entity
type Reference interface {
	TableName() string
	Base() *ReferenceBase
}

// ReferenceBase holds the columns shared by all reference tables.
// name_ru is the business key.
type ReferenceBase struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	NameEn      string                 `gorm:"size:100;not null" json:"nameEn"`
	NameRu      string                 `gorm:"size:100;not null;uniqueIndex" json:"nameRu"`
	NameKg      string                 `gorm:"size:100;not null" json:"nameKg"`
	Description string                 `gorm:"size:500" json:"description,omitempty"`
	Status      domain.ReferenceStatus `gorm:"size:20;not null;default:'ACTIVE';index" json:"status"`
	Version     uint                   `gorm:"not null" json:"version"`
	CreatedAt   time.Time              `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime" json:"updatedAt"`
	CreatedBy   string                 `gorm:"size:50" json:"createdBy,omitempty"`
	UpdatedBy   string                 `gorm:"size:50" json:"updatedBy,omitempty"`

	// Filled per response
	LocalizedName string `gorm:"-" json:"localizedName,omitempty"`
	Referenced    *bool  `gorm:"-" json:"referenced,omitempty"`
}

// Localize sets LocalizedName for the requested language
func (b *ReferenceBase) Localize(lang string) {
	b.LocalizedName = domain.LocalizedName(lang, b.NameEn, b.NameRu, b.NameKg)
}

// IsActive reports whether the entity is ACTIVE
func (b *ReferenceBase) IsActive() bool {
	return b.Status == domain.ReferenceActive
}

// Currency is keyed additionally by its ISO-like code
type Currency struct {
	ReferenceBase
	Code   string `gorm:"uniqueIndex;size:3;not null" json:"code"`
	Symbol string `gorm:"size:5" json:"symbol,omitempty"`
}

func (Currency) TableName() string       { return "currencies" }
func (c *Currency) Base() *ReferenceBase { return &c.ReferenceBase }

// SearchColumns adds code and symbol to free-text search
func (Currency) SearchColumns() []string { return []string{"code", "symbol"} }

// CreditPurpose is the purpose a credit is granted for
type CreditPurpose struct {
	ReferenceBase
}

func (CreditPurpose) TableName() string       { return "credit_purposes" }
func (c *CreditPurpose) Base() *ReferenceBase { return &c.ReferenceBase }

// DecisionType classifies decisions
type DecisionType struct {
	ReferenceBase
}

func (DecisionType) TableName() string       { return "decision_types" }
func (d *DecisionType) Base() *ReferenceBase { return &d.ReferenceBase }

// DecisionMakingBody is the body that issues decisions
type DecisionMakingBody struct {
	ReferenceBase
}

func (DecisionMakingBody) TableName() string       { return "decision_making_bodies" }
func (d *DecisionMakingBody) Base() *ReferenceBase { return &d.ReferenceBase }

// FloatingRateType is a floating interest rate basis
type FloatingRateType struct {
	ReferenceBase
}

func (FloatingRateType) TableName() string       { return "floating_rate_types" }
func (f *FloatingRateType) Base() *ReferenceBase { return &f.ReferenceBase }

// RepaymentOrder is an ordering rule for applying repayments
type RepaymentOrder struct {
	ReferenceBase
	Code          string `gorm:"size:20" json:"code,omitempty"`
	OrderPriority int    `json:"orderPriority"`
}

func (RepaymentOrder) TableName() string       { return "repayment_orders" }
func (r *RepaymentOrder) Base() *ReferenceBase { return &r.ReferenceBase }

func (RepaymentOrder) SearchColumns() []string { return []string{"code"} }

// NotaryOffice is a notary that registers collateral documents
type NotaryOffice struct {
	ReferenceBase
	Address                  string `gorm:"size:500" json:"address,omitempty"`
	ContactPhone             string `gorm:"size:20" json:"contactPhone,omitempty"`
	ContactEmail             string `gorm:"size:100" json:"contactEmail,omitempty"`
	RegistrationNumberFormat string `gorm:"size:50" json:"registrationNumberFormat,omitempty"`
}

func (NotaryOffice) TableName() string       { return "notary_offices" }
func (n *NotaryOffice) Base() *ReferenceBase { return &n.ReferenceBase }

func (NotaryOffice) SearchColumns() []string { return []string{"address"} }
