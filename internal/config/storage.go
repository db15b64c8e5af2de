// Package config 定义跨层共享的配置结构
package config

// StorageConfig Storage backend availability configuration
// StorageConfig 存储后端可用性配置
type StorageConfig struct {
	LocalFS      StorageLocalFSConfig `yaml:"local-fs"`
	AliyunOSS    StorageBaseConfig    `yaml:"aliyun-oss"`
	AwsS3        StorageBaseConfig    `yaml:"aws-s3"`
	CloudflareR2 StorageBaseConfig    `yaml:"cloudflare-r2"`
	MinIO        StorageBaseConfig    `yaml:"minio"`
	WebDAV       StorageBaseConfig    `yaml:"webdav"`
}

// StorageLocalFSConfig Local file system storage configuration
// StorageLocalFSConfig 本地文件系统存储配置
type StorageLocalFSConfig struct {
	// IsEnabled 是否允许用户配置本地存储
	IsEnabled bool `yaml:"is-enable" default:"true"`
	// HttpfsIsEnable 是否通过 HTTP 暴露本地存储文件
	HttpfsIsEnable bool `yaml:"httpfs-is-enable" default:"true"`
	// SavePath 本地存储根目录
	SavePath string `yaml:"save-path" default:"storage/uploads"`
}

// StorageBaseConfig Cloud storage backend switch
// StorageBaseConfig 云存储后端开关
type StorageBaseConfig struct {
	// IsEnabled 是否允许用户配置该类型的存储
	IsEnabled bool `yaml:"is-enable" default:"true"`
}
