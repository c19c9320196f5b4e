package model

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records aggregate mutations and business-rule outcomes.
type AuditLog struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	TraceID     string         `gorm:"index:idx_audit_trace;size:36" json:"trace_id"`
	CharacterID string         `gorm:"index:idx_audit_char;size:8" json:"character_id"`
	Action      string         `gorm:"size:64;not null" json:"action"`
	Detail      datatypes.JSON `json:"detail"`
	Error       string         `gorm:"type:text" json:"error"`
	CreatedAt   time.Time      `gorm:"index:idx_audit_created;autoCreateTime:milli" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
