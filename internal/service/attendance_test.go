package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"TapTrack/internal/mirror"
	"TapTrack/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存库限制单连接，避免连接池各自拿到独立的空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.TagBinding{}, &model.AttendanceRecord{}))
	return db
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProcessFullDayLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)
	ctx := context.Background()

	morning := time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)
	svc.SetClock(fixedClock(morning))

	record, action, err := svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, model.ActionClockedIn, action)
	assert.Equal(t, "2025-03-10", record.Date)
	assert.Equal(t, "08:55:00", record.ClockInTime)
	assert.Empty(t, record.ClockOutTime)

	evening := time.Date(2025, 3, 10, 17, 2, 11, 0, time.UTC)
	svc.SetClock(fixedClock(evening))

	record, action, err = svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, model.ActionClockedOut, action)
	assert.Equal(t, "08:55:00", record.ClockInTime, "clock-in must survive the clock-out tap")
	assert.Equal(t, "17:02:11", record.ClockOutTime)

	later := time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC)
	svc.SetClock(fixedClock(later))

	record, action, err = svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, model.ActionAlreadyClockedOut, action)
	assert.Equal(t, "17:02:11", record.ClockOutTime, "a closed day must not change")
}

func TestProcessNewDayStartsFresh(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)
	ctx := context.Background()

	day1 := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.SetClock(fixedClock(day1))
	_, _, err := svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)

	svc.SetClock(fixedClock(day1.Add(8 * time.Hour)))
	_, _, err = svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)

	day2 := day1.AddDate(0, 0, 1)
	svc.SetClock(fixedClock(day2))

	record, action, err := svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, model.ActionClockedIn, action)
	assert.Equal(t, "2025-03-11", record.Date)
	assert.Empty(t, record.ClockOutTime)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Where("employee_id = ?", 1001).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestProcessUsesConfiguredTimezone(t *testing.T) {
	db := newTestDB(t)
	loc := time.FixedZone("SAST", 2*60*60)
	svc := NewAttendance(db, loc)

	// UTC 23:30，配置时区已是次日 01:30
	svc.SetClock(fixedClock(time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC)))

	record, action, err := svc.Process(context.Background(), 1001, "Ann Smith")
	require.NoError(t, err)
	assert.Equal(t, model.ActionClockedIn, action)
	assert.Equal(t, "2025-03-11", record.Date)
	assert.Equal(t, "01:30:00", record.ClockInTime)
}

func TestTodayReturnsNilWithoutRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)

	record, err := svc.Today(context.Background(), 1001)
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestUpsertFromMirrorInsertsNewRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)

	err := svc.UpsertFromMirror(context.Background(), mirror.Row{
		FullName:     "Ann Smith",
		EmployeeID:   1001,
		ClockInTime:  "08:55:00",
		ClockOutTime: "17:02:11",
		Status:       "Late",
		Type:         "Remote",
		Date:         "2025-03-10",
	})
	require.NoError(t, err)

	var record model.AttendanceRecord
	require.NoError(t, db.Where("employee_id = ? AND date = ?", 1001, "2025-03-10").First(&record).Error)
	assert.Equal(t, "Ann Smith", record.FullName)
	assert.Equal(t, "08:55:00", record.ClockInTime)
	assert.Equal(t, "17:02:11", record.ClockOutTime)
	assert.Equal(t, "Late", record.Status)
	assert.Equal(t, "Remote", record.Type)
}

func TestUpsertFromMirrorLastWriteWins(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)
	ctx := context.Background()

	svc.SetClock(fixedClock(time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)))
	_, _, err := svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)

	// 表格里被人工改成了 09:15
	err = svc.UpsertFromMirror(ctx, mirror.Row{
		FullName:    "Ann Smith",
		EmployeeID:  1001,
		ClockInTime: "09:15:00",
		Date:        "2025-03-10",
	})
	require.NoError(t, err)

	var record model.AttendanceRecord
	require.NoError(t, db.Where("employee_id = ? AND date = ?", 1001, "2025-03-10").First(&record).Error)
	assert.Equal(t, "09:15:00", record.ClockInTime)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "the upsert must not duplicate the day row")
}

func TestUpsertFromMirrorKeepsNameWhenBlank(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)
	ctx := context.Background()

	svc.SetClock(fixedClock(time.Date(2025, 3, 10, 8, 55, 0, 0, time.UTC)))
	_, _, err := svc.Process(ctx, 1001, "Ann Smith")
	require.NoError(t, err)

	err = svc.UpsertFromMirror(ctx, mirror.Row{
		EmployeeID:  1001,
		ClockInTime: "09:15:00",
		Date:        "2025-03-10",
	})
	require.NoError(t, err)

	var record model.AttendanceRecord
	require.NoError(t, db.Where("employee_id = ? AND date = ?", 1001, "2025-03-10").First(&record).Error)
	assert.Equal(t, "Ann Smith", record.FullName, "a blank mirror name must not erase the stored one")
}

func TestUpsertFromMirrorSkipsZeroEmployee(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)

	err := svc.UpsertFromMirror(context.Background(), mirror.Row{
		FullName:    "No Badge",
		ClockInTime: "08:00:00",
		Date:        "2025-03-10",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpsertFromMirrorDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := NewAttendance(db, time.UTC)
	svc.SetClock(fixedClock(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)))

	err := svc.UpsertFromMirror(context.Background(), mirror.Row{
		FullName:    "Ann Smith",
		EmployeeID:  1001,
		ClockInTime: "08:55:00",
	})
	require.NoError(t, err)

	var record model.AttendanceRecord
	require.NoError(t, db.Where("employee_id = ?", 1001).First(&record).Error)
	assert.Equal(t, "2025-03-10", record.Date, "a blank date lands on today")
	assert.Equal(t, model.DefaultStatus, record.Status)
	assert.Equal(t, model.DefaultType, record.Type)
}
