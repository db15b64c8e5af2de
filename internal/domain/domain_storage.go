package domain

import "time"

// Storage 用户配置的对象存储后端, 备份归档与同步的上传目标
type Storage struct {
	ID   int64
	UID  int64
	Type string

	// S3 系后端的接入参数
	Endpoint        string
	Region          string
	AccountID       string
	BucketName      string
	AccessKeyID     string
	AccessKeySecret string

	CustomPath      string
	AccessURLPrefix string

	// WebDAV 凭据
	User     string
	Password string

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
