package model

// TagBinding 实体卡与员工的绑定关系，录入流程在本服务之外，这里只读
type TagBinding struct {
	BaseModel
	TagUID     string `gorm:"type:varchar(64);not null;uniqueIndex" json:"tag_uid"`
	EmployeeID int64  `gorm:"not null;index" json:"employee_id"`
	OwnerName  string `gorm:"type:varchar(128);not null" json:"owner_name"`
}

// TableName 指定表名
func (TagBinding) TableName() string {
	return "tag_bindings"
}
