package model

import "github.com/haierkeys/note-review-service/pkg/timex"

const TableNameBackupConfig = "backup_config"

// BackupConfig mapped from table <backup_config>
type BackupConfig struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID            int64      `gorm:"column:uid;not null;index:idx_uid" json:"uid" form:"uid"`
	VaultID        int64      `gorm:"column:vault_id;not null;default:0" json:"vaultId" form:"vaultId"`
	Type           string     `gorm:"column:type;not null" json:"type" form:"type"`
	StorageIds     string     `gorm:"column:storage_ids" json:"storageIds" form:"storageIds"`
	GitRepoURL     string     `gorm:"column:git_repo_url" json:"gitRepoUrl" form:"gitRepoUrl"`
	GitUsername    string     `gorm:"column:git_username" json:"gitUsername" form:"gitUsername"`
	GitPassword    string     `gorm:"column:git_password" json:"gitPassword" form:"gitPassword"`
	GitBranch      string     `gorm:"column:git_branch" json:"gitBranch" form:"gitBranch"`
	IsEnabled      int64      `gorm:"column:is_enabled;not null;default:0" json:"isEnabled" form:"isEnabled"`
	CronStrategy   string     `gorm:"column:cron_strategy" json:"cronStrategy" form:"cronStrategy"`
	CronExpression string     `gorm:"column:cron_expression" json:"cronExpression" form:"cronExpression"`
	RetentionDays  int        `gorm:"column:retention_days;default:0" json:"retentionDays" form:"retentionDays"`
	LastRunTime    timex.Time `gorm:"column:last_run_time;type:datetime;default:NULL" json:"lastRunTime" form:"lastRunTime"`
	NextRunTime    timex.Time `gorm:"column:next_run_time;type:datetime;default:NULL" json:"nextRunTime" form:"nextRunTime"`
	LastStatus     int        `gorm:"column:last_status;default:0" json:"lastStatus" form:"lastStatus"`
	LastMessage    string     `gorm:"column:last_message" json:"lastMessage" form:"lastMessage"`
	CreatedAt      timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt      timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName BackupConfig's table name
func (*BackupConfig) TableName() string {
	return TableNameBackupConfig
}

const TableNameBackupHistory = "backup_history"

// BackupHistory mapped from table <backup_history>
type BackupHistory struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID       int64      `gorm:"column:uid;not null;index:idx_uid_config,priority:1" json:"uid" form:"uid"`
	ConfigID  int64      `gorm:"column:config_id;not null;index:idx_uid_config,priority:2" json:"configId" form:"configId"`
	StorageID int64      `gorm:"column:storage_id;default:0" json:"storageId" form:"storageId"`
	Type      string     `gorm:"column:type" json:"type" form:"type"`
	StartTime timex.Time `gorm:"column:start_time;type:datetime;default:NULL" json:"startTime" form:"startTime"`
	EndTime   timex.Time `gorm:"column:end_time;type:datetime;default:NULL" json:"endTime" form:"endTime"`
	Status    int        `gorm:"column:status;default:0" json:"status" form:"status"`
	FileSize  int64      `gorm:"column:file_size;default:0" json:"fileSize" form:"fileSize"`
	FileCount int64      `gorm:"column:file_count;default:0" json:"fileCount" form:"fileCount"`
	Message   string     `gorm:"column:message" json:"message" form:"message"`
	FilePath  string     `gorm:"column:file_path" json:"filePath" form:"filePath"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName BackupHistory's table name
func (*BackupHistory) TableName() string {
	return TableNameBackupHistory
}
