package storage

// AppSetting stores key-value application settings
type AppSetting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// TableName specifies the table name for AppSetting
func (AppSetting) TableName() string {
	return "app_settings"
}

// CommandRecord journals one menu command forwarded to the page
type CommandRecord struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ID        string `gorm:"uniqueIndex" json:"id"`
	Command   string `gorm:"index" json:"command"`
	Function  string `json:"function"`
	Status    string `gorm:"index" json:"status"` // delivered, unhandled, failed, timeout, throttled
	Detail    string `json:"detail"`
	CreatedAt string `json:"created_at"`
}

// TableName specifies the table name for CommandRecord
func (CommandRecord) TableName() string {
	return "command_records"
}
