package models

import "gorm.io/datatypes"

// AuditLog is an append-only record of a security-relevant user action.
// Changes holds a JSON object describing what the action touched.
type AuditLog struct {
	Base
	UserID       string         `gorm:"type:uuid;not null;index:idx_audit_logs_user_action,priority:1" json:"user_id"`
	Action       string         `gorm:"size:32;not null;index:idx_audit_logs_user_action,priority:2" json:"action"`
	ResourceType string         `gorm:"size:32;not null" json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	IPAddress    string         `gorm:"size:64" json:"ip_address"`
	Changes      datatypes.JSON `json:"changes,omitempty"`
}
