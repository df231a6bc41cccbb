package models

import (
	"time"

	"statefin-backend/internal/core/domain"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// Decision represents decisions table
type Decision struct {
	ID                   string                `gorm:"primaryKey;type:varchar(36)" json:"id"`
	NameEn               string                `gorm:"size:100;not null" json:"nameEn"`
	NameRu               string                `gorm:"size:100;not null" json:"nameRu"`
	NameKg               string                `gorm:"size:100;not null" json:"nameKg"`
	Date                 time.Time             `gorm:"type:date;not null" json:"date"`
	Number               string                `gorm:"uniqueIndex;size:50;not null" json:"number"`
	DecisionMakingBodyID uint                  `gorm:"not null;index" json:"decisionMakingBodyId"`
	DecisionTypeID       uint                  `gorm:"not null;index" json:"decisionTypeId"`
	Description          string                `gorm:"size:1000" json:"description,omitempty"`
	Status               domain.DecisionStatus `gorm:"size:30;not null;default:'DRAFT';index" json:"status"`
	DocumentPackageID    *string               `gorm:"type:varchar(36)" json:"documentPackageId,omitempty"`
	Version              uint                  `gorm:"not null" json:"version"`
	CreatedAt            time.Time             `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt            time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`
	CreatedBy            string                `gorm:"size:50" json:"createdBy,omitempty"`
	UpdatedBy            string                `gorm:"size:50" json:"updatedBy,omitempty"`

	DecisionMakingBody *DecisionMakingBody `gorm:"foreignKey:DecisionMakingBodyID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DecisionType       *DecisionType       `gorm:"foreignKey:DecisionTypeID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}

func (Decision) TableName() string {
	return "decisions"
}

// IsFinalState reports whether the decision can no longer change
func (d *Decision) IsFinalState() bool {
	return d.Status.IsFinal()
}

// DecisionResponse DTO
type DecisionResponse struct {
	ID                       string                `json:"id"`
	NameEn                   string                `json:"nameEn"`
	NameRu                   string                `json:"nameRu"`
	NameKg                   string                `json:"nameKg"`
	LocalizedName            string                `json:"localizedName"`
	Date                     string                `json:"date"`
	Number                   string                `json:"number"`
	DecisionMakingBodyID     uint                  `json:"decisionMakingBodyId"`
	DecisionMakingBodyNameEn string                `json:"decisionMakingBodyNameEn,omitempty"`
	DecisionMakingBodyNameRu string                `json:"decisionMakingBodyNameRu,omitempty"`
	DecisionMakingBodyNameKg string                `json:"decisionMakingBodyNameKg,omitempty"`
	DecisionTypeID           uint                  `json:"decisionTypeId"`
	DecisionTypeNameEn       string                `json:"decisionTypeNameEn,omitempty"`
	DecisionTypeNameRu       string                `json:"decisionTypeNameRu,omitempty"`
	DecisionTypeNameKg       string                `json:"decisionTypeNameKg,omitempty"`
	Description              string                `json:"description,omitempty"`
	Status                   domain.DecisionStatus `json:"status"`
	StatusName               string                `json:"statusName"`
	DocumentPackageID        *string               `json:"documentPackageId,omitempty"`
	Version                  uint                  `json:"version"`
	CreatedAt                time.Time             `json:"createdAt"`
	UpdatedAt                time.Time             `json:"updatedAt"`
	CreatedBy                string                `json:"createdBy,omitempty"`
	UpdatedBy                string                `json:"updatedBy,omitempty"`
}

// ToResponse flattens the decision and its preloaded body and type
func (d *Decision) ToResponse(lang string) *DecisionResponse {
	resp := &DecisionResponse{
		ID:                   d.ID,
		NameEn:               d.NameEn,
		NameRu:               d.NameRu,
		NameKg:               d.NameKg,
		LocalizedName:        domain.LocalizedName(lang, d.NameEn, d.NameRu, d.NameKg),
		Date:                 d.Date.Format(DateLayout),
		Number:               d.Number,
		DecisionMakingBodyID: d.DecisionMakingBodyID,
		DecisionTypeID:       d.DecisionTypeID,
		Description:          d.Description,
		Status:               d.Status,
		StatusName:           d.Status.LocalizedName(lang),
		DocumentPackageID:    d.DocumentPackageID,
		Version:              d.Version,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		CreatedBy:            d.CreatedBy,
		UpdatedBy:            d.UpdatedBy,
	}
	if b := d.DecisionMakingBody; b != nil {
		resp.DecisionMakingBodyNameEn = b.NameEn
		resp.DecisionMakingBodyNameRu = b.NameRu
		resp.DecisionMakingBodyNameKg = b.NameKg
	}
	if t := d.DecisionType; t != nil {
		resp.DecisionTypeNameEn = t.NameEn
		resp.DecisionTypeNameRu = t.NameRu
		resp.DecisionTypeNameKg = t.NameKg
	}
	return resp
}
