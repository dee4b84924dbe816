package http

import (
	"fmt"
	"time"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
	"github.com/hlzx-oa/project-registry/internal/projects/service"
)

// Handler bundles the dependencies for project HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

const dateLayout = "2006-01-02"

type createReq struct {
	ProjectType      string  `json:"project_type" binding:"required"`
	ProjectName      string  `json:"project_name" binding:"required"`
	Manager          string  `json:"manager" binding:"required"`
	ExecutionPartner string  `json:"business_execution_partner" binding:"required"`
	Department       string  `json:"department"`
	EstimatedFee     float64 `json:"estimated_fee"`
	ProjectDate      string  `json:"project_date"`
	BaseDate         string  `json:"base_date"`
	Client           string  `json:"client" binding:"required"`
	EvaluationObject string  `json:"evaluation_object" binding:"required"`
	EvaluationScope  string  `json:"evaluation_scope" binding:"required"`
	Purpose          string  `json:"purpose" binding:"required"`
	RelatedContract  string  `json:"related_contract_no"`
	Remark           string  `json:"remark"`
}

type editReq struct {
	ProjectName      string  `json:"project_name" binding:"required"`
	Manager          string  `json:"manager" binding:"required"`
	ExecutionPartner string  `json:"business_execution_partner" binding:"required"`
	Department       string  `json:"department"`
	EstimatedFee     float64 `json:"estimated_fee"`
	ProjectDate      string  `json:"project_date"`
	BaseDate         string  `json:"base_date"`
	Client           string  `json:"client" binding:"required"`
	EvaluationObject string  `json:"evaluation_object"`
	EvaluationScope  string  `json:"evaluation_scope"`
	Purpose          string  `json:"purpose"`
	RelatedContract  string  `json:"related_contract_no"`
	Remark           string  `json:"remark"`
}

func (r createReq) fields() (domain.EditableFields, error) {
	return buildFields(r.ProjectName, r.Manager, r.ExecutionPartner, r.Department,
		r.EstimatedFee, r.ProjectDate, r.BaseDate, r.Client,
		r.EvaluationObject, r.EvaluationScope, r.Purpose, r.RelatedContract, r.Remark)
}

func (r editReq) fields() (domain.EditableFields, error) {
	return buildFields(r.ProjectName, r.Manager, r.ExecutionPartner, r.Department,
		r.EstimatedFee, r.ProjectDate, r.BaseDate, r.Client,
		r.EvaluationObject, r.EvaluationScope, r.Purpose, r.RelatedContract, r.Remark)
}

func buildFields(name, manager, partner, department string, fee float64,
	projectDate, baseDate, client, object, scope, purpose, contract, remark string) (domain.EditableFields, error) {

	f := domain.EditableFields{
		Name:             name,
		Manager:          manager,
		ExecutionPartner: partner,
		Department:       department,
		EstimatedFee:     fee,
		Client:           client,
		EvaluationObject: object,
		EvaluationScope:  scope,
		Purpose:          purpose,
		RelatedContract:  contract,
		Remark:           remark,
	}

	var err error
	if f.ProjectDate, err = parseDate(projectDate); err != nil {
		return f, fmt.Errorf("project_date: %w", err)
	}
	if f.BaseDate, err = parseDate(baseDate); err != nil {
		return f, fmt.Errorf("base_date: %w", err)
	}
	return f, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	return &t, nil
}
