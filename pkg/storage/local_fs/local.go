package local_fs

import (
	"github.com/haierkeys/note-review-service/pkg/fileurl"
)

type Config struct {
	IsEnabled      bool   `yaml:"is-enable" default:"true"`
	IsUserEnabled  bool   `yaml:"is-user-enable"`
	HttpfsIsEnable bool   `yaml:"httpfs-is-enable" default:"true"`
	SavePath       string `yaml:"save-path" default:"storage/uploads"`
}

type LocalFS struct {
	Config *Config
}

// NewClient 本地文件存储客户端
func NewClient(conf *Config) (*LocalFS, error) {
	return &LocalFS{Config: conf}, nil
}

// getSavePath 返回带结尾分隔符的本地存储根路径
func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
}
