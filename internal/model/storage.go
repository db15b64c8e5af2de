package model

import "github.com/haierkeys/note-review-service/pkg/timex"

const TableNameStorage = "storage"

// Storage mapped from table <storage>
// 用户自定义的云存储连接配置，备份任务按 ID 引用
type Storage struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID             int64      `gorm:"column:uid;not null" json:"uid" form:"uid"`
	Type            string     `gorm:"column:type;not null" json:"type" form:"type"`
	Endpoint        string     `gorm:"column:endpoint" json:"endpoint" form:"endpoint"`
	Region          string     `gorm:"column:region" json:"region" form:"region"`
	AccountID       string     `gorm:"column:account_id" json:"accountId" form:"accountId"`
	BucketName      string     `gorm:"column:bucket_name" json:"bucketName" form:"bucketName"`
	AccessKeyID     string     `gorm:"column:access_key_id" json:"accessKeyId" form:"accessKeyId"`
	AccessKeySecret string     `gorm:"column:access_key_secret" json:"accessKeySecret" form:"accessKeySecret"`
	CustomPath      string     `gorm:"column:custom_path" json:"customPath" form:"customPath"`
	AccessURLPrefix string     `gorm:"column:access_url_prefix" json:"accessUrlPrefix" form:"accessUrlPrefix"`
	User            string     `gorm:"column:user" json:"user" form:"user"`
	Password        string     `gorm:"column:password" json:"password" form:"password"`
	IsDeleted       int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted" form:"isDeleted"`
	CreatedAt       timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt       timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Storage's table name
func (*Storage) TableName() string {
	return TableNameStorage
}
