package schedule

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"TapTrack/internal/mirror"
	"TapTrack/internal/model"
	"TapTrack/internal/service"
)

// fakeSheet 内存假表，第一行视为表头
type fakeSheet struct {
	grid    [][]interface{}
	readErr error
}

func (f *fakeSheet) Get(ctx context.Context, rangeA1 string) ([][]interface{}, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}

	cells := rangeA1
	if i := strings.Index(cells, "!"); i >= 0 {
		cells = cells[i+1:]
	}

	switch cells {
	case "A1:E1":
		if len(f.grid) == 0 {
			return nil, nil
		}
		return [][]interface{}{f.grid[0]}, nil
	case "A:A":
		return f.grid, nil
	default: // A2:G 等数据区
		if len(f.grid) <= 1 {
			return nil, nil
		}
		return f.grid[1:], nil
	}
}

func (f *fakeSheet) Update(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	if len(f.grid) == 0 {
		f.grid = append(f.grid, values[0])
	} else {
		f.grid[0] = values[0]
	}
	return nil
}

func (f *fakeSheet) Append(ctx context.Context, rangeA1 string, values [][]interface{}) error {
	f.grid = append(f.grid, values...)
	return nil
}

func (f *fakeSheet) Clear(ctx context.Context, rangeA1 string) error {
	if len(f.grid) > 1 {
		f.grid = f.grid[:1]
	}
	return nil
}

func headerRow() []interface{} {
	return []interface{}{"Full Name", "Employee ID", "Clock In", "Clock Out", "Date"}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.AttendanceRecord{}))
	return db
}

func TestSyncMirrorFoldsRowsIntoDatabase(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAttendance(db, time.UTC)

	sheet := &fakeSheet{grid: [][]interface{}{
		headerRow(),
		{"Ann Smith", "1001", "8:55", "17:2:11", "OnTime", "Work", "2025-03-10"},
		{"Bob Jones", "1002", "09:10:00", "", "", "", "2025-03-10"},
	}}

	s := NewSyncScheduler(svc, mirror.New(sheet, "Sheet1"))
	require.NoError(t, s.SyncMirror(context.Background()))

	var records []model.AttendanceRecord
	require.NoError(t, db.Order("employee_id").Find(&records).Error)
	require.Len(t, records, 2)

	assert.Equal(t, "08:55:00", records[0].ClockInTime, "times are normalized before the write")
	assert.Equal(t, "17:02:11", records[0].ClockOutTime)
	assert.Equal(t, "09:10:00", records[1].ClockInTime)
	assert.Empty(t, records[1].ClockOutTime)
}

func TestSyncMirrorSkipsRowsWithoutEmployeeID(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAttendance(db, time.UTC)

	sheet := &fakeSheet{grid: [][]interface{}{
		headerRow(),
		{"No Badge", "", "08:00:00", "", "", "", "2025-03-10"},
		{"Bad ID", "abc", "08:00:00", "", "", "", "2025-03-10"},
		{"Ann Smith", "1001", "08:55:00", "", "", "", "2025-03-10"},
	}}

	s := NewSyncScheduler(svc, mirror.New(sheet, "Sheet1"))
	require.NoError(t, s.SyncMirror(context.Background()))

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncMirrorIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAttendance(db, time.UTC)

	sheet := &fakeSheet{grid: [][]interface{}{
		headerRow(),
		{"Ann Smith", "1001", "08:55:00", "", "", "", "2025-03-10"},
	}}

	s := NewSyncScheduler(svc, mirror.New(sheet, "Sheet1"))
	require.NoError(t, s.SyncMirror(context.Background()))
	require.NoError(t, s.SyncMirror(context.Background()))

	var count int64
	require.NoError(t, db.Model(&model.AttendanceRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSyncMirrorPropagatesReadFailure(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewAttendance(db, time.UTC)

	sheet := &fakeSheet{readErr: errors.New("quota exceeded")}

	s := NewSyncScheduler(svc, mirror.New(sheet, "Sheet1"))
	assert.Error(t, s.SyncMirror(context.Background()))
}

func TestResetMirrorClearsDataRows(t *testing.T) {
	sheet := &fakeSheet{grid: [][]interface{}{
		headerRow(),
		{"Ann Smith", "1001", "08:55:00", "", "2025-03-10"},
		{"Bob Jones", "1002", "09:10:00", "", "2025-03-10"},
	}}

	s := NewResetScheduler(mirror.New(sheet, "Sheet1"))
	require.NoError(t, s.ResetMirror(context.Background(), "daily"))

	require.Len(t, sheet.grid, 1)
	assert.Equal(t, headerRow(), sheet.grid[0])
}

func TestResetMirrorHeaderOnlyIsNoop(t *testing.T) {
	sheet := &fakeSheet{grid: [][]interface{}{headerRow()}}

	s := NewResetScheduler(mirror.New(sheet, "Sheet1"))
	require.NoError(t, s.ResetMirror(context.Background(), "hourly"))

	assert.Len(t, sheet.grid, 1)
}
