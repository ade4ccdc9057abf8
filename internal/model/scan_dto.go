package model

// ScanRequest 扫卡入口请求体
type ScanRequest struct {
	TagUID string `json:"tag_uid"`
}

// ScanResponse 扫卡响应，保持扁平结构给终端直接格式化
type ScanResponse struct {
	OK           bool    `json:"ok"`
	EmployeeID   int64   `json:"employee_id"`
	OwnerName    string  `json:"owner_name"`
	ClockInTime  *string `json:"clockin_time"`
	ClockOutTime *string `json:"clockout_time"`
	Date         string  `json:"date"`
	Action       string  `json:"action"`
}

// NewScanResponse 从考勤记录构造响应，空时间以 null 下发
func NewScanResponse(binding *TagBinding, record *AttendanceRecord, action AttendanceAction) *ScanResponse {
	resp := &ScanResponse{
		OK:         true,
		EmployeeID: binding.EmployeeID,
		OwnerName:  binding.OwnerName,
		Date:       record.Date,
		Action:     string(action),
	}
	if record.ClockInTime != "" {
		t := record.ClockInTime
		resp.ClockInTime = &t
	}
	if record.ClockOutTime != "" {
		t := record.ClockOutTime
		resp.ClockOutTime = &t
	}
	return resp
}
