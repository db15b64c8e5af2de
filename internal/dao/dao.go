// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/note-review-service/internal/model"
	"github.com/haierkeys/note-review-service/pkg/fileurl"
	"github.com/haierkeys/note-review-service/pkg/util"
	"github.com/haierkeys/note-review-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置，由应用层配置映射而来
type DatabaseConfig struct {
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	TablePrefix     string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	Replicas        []string
	RunMode         string
}

// DBKeyer 为写操作提供目标库键
type DBKeyer interface {
	GetKey(uid int64) string
}

// Dao 数据访问入口，持有主库连接与按键隔离的用户库连接
// sqlite 按键拆分文件，mysql 按键拆分数据库，其他类型共用主库按 uid 列隔离
type Dao struct {
	db            *gorm.DB
	ctx           context.Context
	config        *DatabaseConfig
	logger        *zap.Logger
	writeQueueMgr *writequeue.Manager

	mu       sync.Mutex
	keyDBs   map[string]*gorm.DB
	migrated map[string]struct{}
}

// Option Dao 可选依赖
type Option func(*Dao)

// WithConfig 注入数据库配置，用于打开按键隔离的用户库
func WithConfig(c *DatabaseConfig) Option {
	return func(d *Dao) {
		d.config = c
	}
}

// WithLogger 注入日志器
func WithLogger(l *zap.Logger) Option {
	return func(d *Dao) {
		d.logger = l
	}
}

// WithWriteQueueManager 注入写队列管理器，同一用户的写操作串行化
func WithWriteQueueManager(m *writequeue.Manager) Option {
	return func(d *Dao) {
		d.writeQueueMgr = m
	}
}

// New 创建 Dao 实例
func New(db *gorm.DB, ctx context.Context, options ...Option) *Dao {
	d := &Dao{
		db:       db,
		ctx:      ctx,
		logger:   zap.NewNop(),
		keyDBs:   make(map[string]*gorm.DB),
		migrated: make(map[string]struct{}),
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// DB 返回主库连接
func (d *Dao) DB() *gorm.DB {
	return d.db
}

// Context 返回 Dao 的基础上下文
func (d *Dao) Context() context.Context {
	return d.ctx
}

// Logger 返回 Dao 的日志实例
func (d *Dao) Logger() *zap.Logger {
	return d.logger
}

// UseKey 返回指定键的数据库连接，键为空时返回主库
func (d *Dao) UseKey(key string) *gorm.DB {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.useKeyLocked(key)
}

func (d *Dao) useKeyLocked(key string) *gorm.DB {
	if key == "" {
		return d.db
	}
	if db, ok := d.keyDBs[key]; ok {
		return db
	}
	// 未注入配置时无法打开新库，退回主库
	if d.config == nil {
		d.keyDBs[key] = d.db
		return d.db
	}

	var db *gorm.DB
	var err error

	switch d.config.Type {
	case "sqlite":
		c := *d.config
		c.Path = c.Path + "_" + key
		db, err = openEngine(&c, d.logger)
	case "mysql":
		name := d.config.Name + "_" + key
		charset := d.config.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		err = d.db.Exec(fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` DEFAULT CHARACTER SET %s", name, charset)).Error
		if err == nil {
			c := *d.config
			c.Name = name
			db, err = openEngine(&c, d.logger)
		}
	default:
		db = d.db
	}

	if err != nil || db == nil {
		if err != nil {
			d.logger.Error("open keyed database failed", zap.String("key", key), zap.Error(err))
		}
		db = d.db
	}

	d.keyDBs[key] = db
	return db
}

// UseWithOnceFunc 返回指定键的连接，并保证 onceFn（建表迁移）对每个 onceKey 只执行一次
// key 省略时使用主库
func (d *Dao) UseWithOnceFunc(onceFn func(g *gorm.DB), onceKey string, key ...string) *gorm.DB {
	k := ""
	if len(key) > 0 {
		k = key[0]
	}

	d.mu.Lock()
	db := d.useKeyLocked(k)
	if _, ok := d.migrated[onceKey]; !ok {
		if d.config == nil || d.config.AutoMigrate {
			onceFn(db)
		}
		d.migrated[onceKey] = struct{}{}
	}
	d.mu.Unlock()
	return db
}

// ExecuteWrite 执行写操作
// 注入写队列管理器时，同一用户的写操作按 FIFO 串行执行
func (d *Dao) ExecuteWrite(ctx context.Context, uid int64, keyer DBKeyer, fn func(db *gorm.DB) error) error {
	run := func() error {
		return fn(d.UseKey(keyer.GetKey(uid)))
	}
	if d.writeQueueMgr == nil {
		return run()
	}
	return d.writeQueueMgr.Execute(ctx, uid, run)
}

// GetAllUserUIDs 获取主库中所有未删除用户的 UID
func (d *Dao) GetAllUserUIDs() ([]int64, error) {
	db := d.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "User")
	}, "user#user")

	var uids []int64
	err := db.WithContext(d.ctx).Model(&model.User{}).Where("is_deleted = ?", 0).Pluck("uid", &uids).Error
	if err != nil {
		return nil, err
	}
	return uids, nil
}

// Close 关闭所有按键打开的用户库连接，主库由应用容器负责关闭
func (d *Dao) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var firstErr error
	for key, db := range d.keyDBs {
		if db == d.db {
			continue
		}
		sqlDB, err := db.DB()
		if err != nil {
			continue
		}
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(d.keyDBs, key)
	}
	return firstErr
}

// NewDBEngine 创建数据库连接
func NewDBEngine(c *DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	if lg == nil {
		lg = zap.NewNop()
	}
	return openEngine(c, lg)
}

func openEngine(c *DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dial := dialector(c)
	if dial == nil {
		return nil, fmt.Errorf("unsupported database type: %s", c.Type)
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dial, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	// 只读副本，副本条目为完整 DSN
	if len(c.Replicas) > 0 && c.Type != "sqlite" {
		var replicas []gorm.Dialector
		for _, dsn := range c.Replicas {
			switch c.Type {
			case "mysql":
				replicas = append(replicas, mysql.Open(dsn))
			case "postgres":
				replicas = append(replicas, postgres.Open(dsn))
			}
		}
		if len(replicas) > 0 {
			if err := db.Use(dbresolver.Register(dbresolver.Config{Replicas: replicas})); err != nil {
				return nil, err
			}
			lg.Info("database read replicas registered", zap.Int("count", len(replicas)))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)

	if v, err := util.ParseDuration(c.ConnMaxLifetime); err == nil && v > 0 {
		sqlDB.SetConnMaxLifetime(v)
	} else {
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	if v, err := util.ParseDuration(c.ConnMaxIdleTime); err == nil && v > 0 {
		sqlDB.SetConnMaxIdleTime(v)
	}

	return db, nil
}

func dialector(c *DatabaseConfig) gorm.Dialector {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		))
	case "postgres":
		host := c.Host
		port := "5432"
		if h, p, ok := strings.Cut(c.Host, ":"); ok {
			host, port = h, p
		}
		return postgres.Open(fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			host,
			port,
			c.UserName,
			c.Password,
			c.Name,
		))
	case "sqlite":
		if !fileurl.IsExist(c.Path) {
			_ = fileurl.CreatePath(c.Path, os.ModePerm)
		}
		return sqlite.Open(c.Path)
	}
	return nil
}
