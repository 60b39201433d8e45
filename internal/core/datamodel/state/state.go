package state

import "time"

// PortalState is the relational row holding one serialized portal snapshot.
type PortalState struct {
	Key       string    `gorm:"column:state_key;primaryKey"`
	Revision  int64     `gorm:"column:revision;not null"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (PortalState) TableName() string {
	return "portal_states"
}
