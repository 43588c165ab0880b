package services

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"finview/internal/logger"
	"finview/internal/models"
)

// Audit actions.
const (
	AuditActionRegister      = "REGISTER"
	AuditActionLogin         = "LOGIN"
	AuditActionGoogleLogin   = "GOOGLE_LOGIN"
	AuditActionUpdateProfile = "UPDATE_PROFILE"
	AuditActionResetPassword = "RESET_PASSWORD"
	AuditActionSaveBudget    = "SAVE_BUDGET"
)

// auditService writes audit rows synchronously. It never returns an error:
// a failed write is logged and the caller's request carries on.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records one audit event.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encodeChanges(action, changes),
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Get().Errorw("audit write failed",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

func encodeChanges(action string, changes map[string]interface{}) datatypes.JSON {
	if len(changes) == 0 {
		return nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		logger.Get().Warnw("audit changes not serializable", "action", action, "error", err)
		return datatypes.JSON(`{}`)
	}
	return datatypes.JSON(data)
}
