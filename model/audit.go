package model

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountId *uint     `gorm:"index" json:"accountId"`
	Username  string    `gorm:"size:50" json:"username"`
	Action    string    `gorm:"size:50;not null;index" json:"action"`
	Entity    string    `gorm:"size:50;index" json:"entity"`
	EntityId  *uint     `json:"entityId"`
	Metadata  string    `gorm:"type:text" json:"metadata"`
	IP        string    `gorm:"size:64" json:"ip"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type AuditFilter struct {
	Pagination
	DateRange
	Entity   string `query:"entity"`
	EntityId *uint  `query:"entityId"`
	Action   string `query:"action"`
}
