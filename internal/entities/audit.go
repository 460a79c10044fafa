package entities

import "time"

type LoginAction string

const (
	LoginActionLogin    LoginAction = "login"
	LoginActionLogout   LoginAction = "logout"
	LoginActionRegister LoginAction = "register"
	LoginActionMigrate  LoginAction = "password_migrate"
)

type LoginStatus string

const (
	LoginStatusSuccess LoginStatus = "success"
	LoginStatusFailed  LoginStatus = "failed"
)

// LoginEvent records a single authentication-related action for auditing.
// Old events are pruned by the cleanup task after the configured retention.
type LoginEvent struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"index" json:"user_id"`
	Username  string      `gorm:"size:100" json:"usuario"`
	Action    LoginAction `gorm:"index;size:50" json:"action"`
	Status    LoginStatus `gorm:"size:20" json:"status"`
	IPAddress string      `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent string      `gorm:"size:500" json:"user_agent,omitempty"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
}
