package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 扫卡入口错误。
var (
	TagRequired        = Definition{Code: "TAG_REQUIRED", Message: "tag_uid required"}
	TagNotFound        = Definition{Code: "TAG_NOT_FOUND", Message: "No employee linked to tag UID"}
	ScanCooldownActive = Definition{Code: "SCAN_COOLDOWN_ACTIVE", Message: "Tag scanned too recently"}
	ScanRateLimited    = Definition{Code: "SCAN_RATE_LIMITED", Message: "Too many scan requests"}
)

// 存储层错误。
var (
	AttendanceStoreFailed = Definition{Code: "ATTENDANCE_STORE_FAILED", Message: "Failed to persist attendance record"}
	MirrorUnavailable     = Definition{Code: "MIRROR_UNAVAILABLE", Message: "Attendance mirror unavailable"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	TagRequired.Code:           TagRequired,
	TagNotFound.Code:           TagNotFound,
	ScanCooldownActive.Code:    ScanCooldownActive,
	ScanRateLimited.Code:       ScanRateLimited,
	AttendanceStoreFailed.Code: AttendanceStoreFailed,
	MirrorUnavailable.Code:     MirrorUnavailable,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}

// WithMessage 在保留错误码的同时替换展示信息，用于携带标签号等细节。
func (d Definition) WithMessage(msg string) Definition {
	return Definition{Code: d.Code, Message: msg}
}
