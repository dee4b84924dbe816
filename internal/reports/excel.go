package reports

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

const sheetName = "项目列表"

var headers = []string{
	"序号", "项目号", "项目名称", "委托方", "评估类型", "状态",
	"项目负责人", "业务执行合伙人", "关联合同号", "所属部门",
	"预计收费金额", "立项日期", "评估基准日", "评估对象", "评估范围",
	"经济行为目的", "备注", "创建人", "创建时间",
}

// BuildWorkbook renders the register (expected newest-first) as a
// styled worksheet. The leading ordinal runs in reverse so the newest
// row carries the highest number, matching how the register is read.
func BuildWorkbook(projects []domain.Project) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D7E4BC"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
		widths[col] = displayWidth(h)
	}

	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, p := range projects {
		values := []any{
			len(projects) - i,
			p.ProjectNo, p.Name, p.Client, p.Type, p.Status,
			p.Manager, p.ExecutionPartner, p.RelatedContract, p.Department,
			p.EstimatedFee, formatDate(p.ProjectDate), formatDate(p.BaseDate),
			p.EvaluationObject, p.EvaluationScope,
			p.Purpose, p.Remark, p.CreatedBy,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
			if w := displayWidth(fmt.Sprint(v)); w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col := range headers {
		name, _ := excelize.ColumnNumberToName(col + 1)
		w := widths[col] + 2
		if w > 50 {
			w = 50
		}
		if err := f.SetColWidth(sheetName, name, name, float64(w)); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Filename returns the dated attachment name for an export.
func Filename(now time.Time) string {
	return fmt.Sprintf("项目列表_导出_%s.xlsx", now.Format("20060102"))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006/01/02")
}

// displayWidth approximates rendered cell width; CJK runes take two
// columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r > 0x7F {
			w += 2
		} else {
			w++
		}
	}
	return w
}
