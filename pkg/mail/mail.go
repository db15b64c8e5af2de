// Package mail 通过 SMTP 发送告警邮件
package mail

import (
	"crypto/tls"

	"gopkg.in/gomail.v2"
)

// Config SMTP 连接配置
type Config struct {
	Host          string // SMTP host // SMTP 服务器地址
	Port          int    // SMTP port // SMTP 端口
	Username      string // Auth username // 认证用户名
	Password      string // Auth password // 认证密码
	From          string // Sender address // 发件人地址
	SkipTLSVerify bool   // Skip server certificate verification // 跳过证书校验
}

// Sender 复用同一配置发送邮件
type Sender struct {
	config *Config
}

// NewSender 创建 Sender 实例
func NewSender(config *Config) *Sender {
	return &Sender{config: config}
}

// Send 发送一封纯文本邮件
func (s *Sender) Send(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	if s.config.SkipTLSVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return d.DialAndSend(m)
}
