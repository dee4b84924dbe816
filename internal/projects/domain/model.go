package domain

import "time"

// Project statuses. The transition is one-way: active → invalid.
// Invalid projects keep their number and still count as sequence
// siblings; they are never reactivated.
const (
	StatusActive  = "active"
	StatusInvalid = "invalid"
)

// Project is one engagement record. ProjectNo, Type, TypeCode and the
// creation metadata are immutable once assigned; the descriptive
// fields are editable while the project is active.
type Project struct {
	ID               int64      `json:"id"`
	ProjectNo        string     `json:"project_no"`
	Name             string     `json:"project_name"`
	Type             string     `json:"project_type"`
	TypeCode         string     `json:"type_code"`
	Status           string     `json:"status"`
	Manager          string     `json:"manager"`
	ExecutionPartner string     `json:"business_execution_partner"`
	Department       string     `json:"department"`
	EstimatedFee     float64    `json:"estimated_fee"`
	ProjectDate      *time.Time `json:"project_date,omitempty"`
	BaseDate         *time.Time `json:"base_date,omitempty"`
	Client           string     `json:"client"`
	EvaluationObject string     `json:"evaluation_object"`
	EvaluationScope  string     `json:"evaluation_scope"`
	Purpose          string     `json:"purpose"`
	RelatedContract  string     `json:"related_contract_no"`
	Remark           string     `json:"remark"`
	CreatedBy        string     `json:"created_by"`
	CreatedAt        time.Time  `json:"created_date"`
	UpdatedAt        time.Time  `json:"updated_date"`
}

// EditableFields is the subset of Project a caller may change after
// creation. Number, type and status are deliberately absent.
type EditableFields struct {
	Name             string
	Manager          string
	ExecutionPartner string
	Department       string
	EstimatedFee     float64
	ProjectDate      *time.Time
	BaseDate         *time.Time
	Client           string
	EvaluationObject string
	EvaluationScope  string
	Purpose          string
	RelatedContract  string
	Remark           string
}
