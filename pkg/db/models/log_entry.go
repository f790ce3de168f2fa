package models

import (
	"time"

	"github.com/angelmondragon/storefront-admin/pkg/enums"
)

// LogEntry records one add/change/delete performed through the admin.
type LogEntry struct {
	ID            uint             `gorm:"column:id;primaryKey"`
	ActionTime    time.Time        `gorm:"column:action_time;autoCreateTime"`
	StaffID       *uint            `gorm:"column:staff_id;index"`
	ObjectType    string           `gorm:"column:object_type;size:100;not null;index:idx_logentry_object"`
	ObjectID      string           `gorm:"column:object_id;not null;index:idx_logentry_object"`
	ObjectRepr    string           `gorm:"column:object_repr;size:200;not null"`
	ActionFlag    enums.ActionFlag `gorm:"column:action_flag;not null"`
	ChangeMessage string           `gorm:"column:change_message;not null;default:''"`
}

func (LogEntry) TableName() string {
	return "admin_logentry"
}
