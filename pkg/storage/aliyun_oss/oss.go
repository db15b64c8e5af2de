package aliyun_oss

import (
	"sync"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Config struct {
	IsEnabled       bool   `yaml:"is-enable"`
	IsUserEnabled   bool   `yaml:"is-user-enable"`
	Endpoint        string `yaml:"endpoint"`
	BucketName      string `yaml:"bucket-name"`
	AccessKeyID     string `yaml:"access-key-id"`
	AccessKeySecret string `yaml:"access-key-secret"`
	CustomPath      string `yaml:"custom-path"`
}

type OSS struct {
	Client *oss.Client
	Bucket *oss.Bucket
	Config *Config
	logger *zap.Logger
}

// Option 配置选项函数类型
type Option func(*OSS)

// WithLogger 设置日志器
func WithLogger(logger *zap.Logger) Option {
	return func(o *OSS) {
		o.logger = logger
	}
}

var (
	clients   = make(map[string]*OSS)
	clientsMu sync.Mutex
)

// NewClient 创建阿里云 OSS 存储实例，相同连接参数复用已有客户端
func NewClient(conf *Config, opts ...Option) (*OSS, error) {
	cacheKey := conf.Endpoint + "|" + conf.BucketName + "|" + conf.AccessKeyID

	clientsMu.Lock()
	defer clientsMu.Unlock()

	if p := clients[cacheKey]; p != nil {
		for _, opt := range opts {
			opt(p)
		}
		return p, nil
	}

	client, err := oss.New(conf.Endpoint, conf.AccessKeyID, conf.AccessKeySecret)
	if err != nil {
		return nil, errors.Wrap(err, "aliyun_oss")
	}

	p := &OSS{
		Client: client,
		Config: conf,
		logger: zap.NewNop(), // 默认空日志器
	}
	for _, opt := range opts {
		opt(p)
	}
	clients[cacheKey] = p
	return p, nil
}
