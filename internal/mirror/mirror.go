package mirror

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"TapTrack/pkg/logger"
)

// 表头列集合，镜像表唯一的固定结构
var headerColumns = []interface{}{"Full Name", "Employee ID", "Clock In", "Clock Out", "Date"}

// ValuesAPI 镜像表的最小值操作面，生产实现走 Google Sheets，测试用内存假表
type ValuesAPI interface {
	Get(ctx context.Context, rangeA1 string) ([][]interface{}, error)
	Update(ctx context.Context, rangeA1 string, values [][]interface{}) error
	Append(ctx context.Context, rangeA1 string, values [][]interface{}) error
	Clear(ctx context.Context, rangeA1 string) error
}

// Row 从镜像表读出的一行，已在边界处解析为强类型
// EmployeeID 为 0 表示该行没有可用的员工号，调用方应跳过
type Row struct {
	FullName     string
	EmployeeID   int64
	ClockInTime  string
	ClockOutTime string
	Status       string
	Type         string
	Date         string
}

// Mirror 镜像表访问层；写入方是扫卡路径，读取方是同步任务，清理方是重置任务
type Mirror struct {
	values    ValuesAPI
	sheetName string
}

func New(values ValuesAPI, sheetName string) *Mirror {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &Mirror{values: values, sheetName: sheetName}
}

func (m *Mirror) rangeOf(cells string) string {
	return m.sheetName + "!" + cells
}

// EnsureHeader 表头缺失或有空单元格时重写为规范列集
// 任何数据操作前都先走一遍，镜像表是人工可编辑的，表头随时可能被破坏
func (m *Mirror) EnsureHeader(ctx context.Context) error {
	rows, err := m.values.Get(ctx, m.rangeOf("A1:E1"))
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}

	var current []interface{}
	if len(rows) > 0 {
		current = rows[0]
	}

	if headerIntact(current) {
		return nil
	}

	if err := m.values.Update(ctx, m.rangeOf("A1:E1"), [][]interface{}{headerColumns}); err != nil {
		return fmt.Errorf("failed to restore header row: %w", err)
	}

	logger.Logger.Info("Mirror header row restored")
	return nil
}

func headerIntact(row []interface{}) bool {
	if len(row) < len(headerColumns) {
		return false
	}
	for _, cell := range row[:len(headerColumns)] {
		if strings.TrimSpace(cellString(cell)) == "" {
			return false
		}
	}
	return true
}

// Upsert 按员工号在数据区内定位，存在则原地覆盖五个字段，不存在则追加
// 幂等：相同值重复调用只会留下一行
func (m *Mirror) Upsert(ctx context.Context, fullName string, employeeID int64, clockIn, clockOut, date string) error {
	if err := m.EnsureHeader(ctx); err != nil {
		return err
	}

	rowIndex, err := m.findRowByEmployeeID(ctx, employeeID)
	if err != nil {
		return err
	}

	values := [][]interface{}{{fullName, strconv.FormatInt(employeeID, 10), clockIn, clockOut, date}}

	if rowIndex > 0 {
		cells := fmt.Sprintf("A%d:E%d", rowIndex, rowIndex)
		if err := m.values.Update(ctx, m.rangeOf(cells), values); err != nil {
			return fmt.Errorf("failed to update mirror row %d: %w", rowIndex, err)
		}
		return nil
	}

	if err := m.values.Append(ctx, m.rangeOf("A2:E"), values); err != nil {
		return fmt.Errorf("failed to append mirror row: %w", err)
	}
	return nil
}

// findRowByEmployeeID 返回 1 起始的表内行号，未找到返回 0
func (m *Mirror) findRowByEmployeeID(ctx context.Context, employeeID int64) (int, error) {
	rows, err := m.values.Get(ctx, m.rangeOf("A2:E"))
	if err != nil {
		return 0, fmt.Errorf("failed to scan mirror rows: %w", err)
	}

	want := strconv.FormatInt(employeeID, 10)
	for i, row := range rows {
		if len(row) > 1 && strings.TrimSpace(cellString(row[1])) == want {
			return i + 2, nil // 表头占第 1 行
		}
	}
	return 0, nil
}

// ReadAll 读出全部数据行并在边界处解析；时间字段在这里就完成归一化
func (m *Mirror) ReadAll(ctx context.Context) ([]Row, error) {
	raw, err := m.values.Get(ctx, m.rangeOf("A2:G"))
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror rows: %w", err)
	}

	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, parseRow(r))
	}
	return rows, nil
}

// parseRow 宽容解析：单元格可能缺失，员工号解析失败记 0
func parseRow(r []interface{}) Row {
	row := Row{
		FullName:     strings.TrimSpace(cellAt(r, 0)),
		ClockInTime:  NormalizeClock(cellAt(r, 2)),
		ClockOutTime: NormalizeClock(cellAt(r, 3)),
		Status:       strings.TrimSpace(cellAt(r, 4)),
		Type:         strings.TrimSpace(cellAt(r, 5)),
		Date:         strings.TrimSpace(cellAt(r, 6)),
	}

	if id, err := strconv.ParseInt(strings.TrimSpace(cellAt(r, 1)), 10, 64); err == nil {
		row.EmployeeID = id
	}

	return row
}

// Clear 清掉表头以下的所有数据行，返回清理的行数
func (m *Mirror) Clear(ctx context.Context) (int64, error) {
	if err := m.EnsureHeader(ctx); err != nil {
		return 0, err
	}

	rows, err := m.values.Get(ctx, m.rangeOf("A:A"))
	if err != nil {
		return 0, fmt.Errorf("failed to count mirror rows: %w", err)
	}

	rowCount := len(rows)
	if rowCount <= 1 {
		return 0, nil // 只有表头，无需清理
	}

	if err := m.values.Clear(ctx, m.rangeOf("A2:Z")); err != nil {
		return 0, fmt.Errorf("failed to clear mirror rows: %w", err)
	}

	return int64(rowCount - 1), nil
}

func cellAt(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return cellString(row[idx])
}

func cellString(cell interface{}) string {
	switch v := cell.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
