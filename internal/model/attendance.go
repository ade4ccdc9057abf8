package model

// 考勤动作枚举，跟随扫卡状态机的三个出口
type AttendanceAction string

const (
	ActionClockedIn         AttendanceAction = "clocked in"
	ActionClockedOut        AttendanceAction = "clocked out"
	ActionAlreadyClockedOut AttendanceAction = "already clocked out"
)

const (
	// DateLayout 考勤日期格式，固定时区下的日历日
	DateLayout = "2006-01-02"
	// ClockLayout 打卡时间格式，整秒精度
	ClockLayout = "15:04:05"

	DefaultStatus = "OnTime"
	DefaultType   = "Work"
)

// AttendanceRecord 考勤记录，(employee_id, date) 上最多一条
// 打卡时间存为 HH:MM:SS 文本，空串表示尚未发生
type AttendanceRecord struct {
	BaseModel
	EmployeeID   int64  `gorm:"not null;uniqueIndex:idx_attendance_employee_date" json:"employee_id"`
	Date         string `gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_employee_date" json:"date"`
	FullName     string `gorm:"type:varchar(128)" json:"full_name"`
	ClockInTime  string `gorm:"column:clockin_time;type:varchar(8)" json:"clockin_time"`
	ClockOutTime string `gorm:"column:clockout_time;type:varchar(8)" json:"clockout_time"`
	Status       string `gorm:"type:varchar(32);not null;default:'OnTime'" json:"status"`
	Type         string `gorm:"type:varchar(32);not null;default:'Work'" json:"type"`
}

// TableName 指定表名
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
