package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"TapTrack/internal/mirror"
	"TapTrack/internal/model"
)

// AttendanceService 扫卡状态机：NotStarted -> ClockedIn -> ClockedOut，当天封口
// 所有写入都走条件写，两台终端同时扫同一张卡也只会有一方赢
type AttendanceService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func NewAttendance(db *gorm.DB, loc *time.Location) *AttendanceService {
	return &AttendanceService{
		db:  db,
		loc: loc,
		now: time.Now,
	}
}

// SetClock 注入测试时钟
func (s *AttendanceService) SetClock(now func() time.Time) {
	s.now = now
}

// Process 对一次已通过防抖的扫卡做出打卡决策并落库
//  1. 当天无记录：插入上班卡（ON CONFLICT DO NOTHING 决定归属）
//  2. 有记录且未下班：条件更新写入下班时间
//  3. 已下班：不再变更，原样返回
func (s *AttendanceService) Process(ctx context.Context, employeeID int64, fullName string) (*model.AttendanceRecord, model.AttendanceAction, error) {
	now := s.now().In(s.loc)
	date := now.Format(model.DateLayout)
	clock := now.Format(model.ClockLayout)

	attempt := &model.AttendanceRecord{
		EmployeeID:  employeeID,
		Date:        date,
		FullName:    fullName,
		ClockInTime: clock,
		Status:      model.DefaultStatus,
		Type:        model.DefaultType,
	}

	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(attempt)
	if res.Error != nil {
		return nil, "", fmt.Errorf("failed to create attendance record: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return attempt, model.ActionClockedIn, nil
	}

	// 当天已有记录，尝试封口；条件带在 WHERE 里，重复请求只有一个生效
	update := s.db.WithContext(ctx).
		Model(&model.AttendanceRecord{}).
		Where("employee_id = ? AND date = ? AND (clockout_time IS NULL OR clockout_time = '')", employeeID, date).
		Update("clockout_time", clock)
	if update.Error != nil {
		return nil, "", fmt.Errorf("failed to update attendance record: %w", update.Error)
	}

	record, err := s.fetch(ctx, employeeID, date)
	if err != nil {
		return nil, "", err
	}

	if update.RowsAffected == 1 {
		return record, model.ActionClockedOut, nil
	}
	return record, model.ActionAlreadyClockedOut, nil
}

// Today 查询某员工当天的记录，可能为 nil
func (s *AttendanceService) Today(ctx context.Context, employeeID int64) (*model.AttendanceRecord, error) {
	date := s.now().In(s.loc).Format(model.DateLayout)
	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance record: %w", err)
	}
	return &record, nil
}

// UpsertFromMirror 把一行镜像数据按 last-write-wins 回写数据库
// 日期为空时落到配置时区的今天，状态/类型为空时取默认值
func (s *AttendanceService) UpsertFromMirror(ctx context.Context, row mirror.Row) error {
	if row.EmployeeID == 0 {
		return nil
	}

	date := row.Date
	if date == "" {
		date = s.now().In(s.loc).Format(model.DateLayout)
	}
	status := row.Status
	if status == "" {
		status = model.DefaultStatus
	}
	kind := row.Type
	if kind == "" {
		kind = model.DefaultType
	}

	record := &model.AttendanceRecord{
		EmployeeID:   row.EmployeeID,
		Date:         date,
		FullName:     row.FullName,
		ClockInTime:  row.ClockInTime,
		ClockOutTime: row.ClockOutTime,
		Status:       status,
		Type:         kind,
	}

	// 镜像里姓名列可能为空，空值不覆盖库中已有姓名
	assign := []string{"clockin_time", "clockout_time", "status", "type"}
	if row.FullName != "" {
		assign = append(assign, "full_name")
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns(assign),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance for employee %d: %w", row.EmployeeID, err)
	}
	return nil
}

func (s *AttendanceService) fetch(ctx context.Context, employeeID int64, date string) (*model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&record).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance record: %w", err)
	}
	return &record, nil
}
