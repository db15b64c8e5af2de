package service

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"

	"go.uber.org/zap"
	"golang.ngrok.com/ngrok/v2"
)

// NgrokService 将本地 HTTP 监听通过 ngrok 隧道暴露为公网地址
// 插件客户端无公网服务器时用它接入
type NgrokService interface {
	Start(ctx context.Context, addr string) error
	Stop(ctx context.Context) error
	TunnelURL() string
}

type ngrokService struct {
	logger    *zap.Logger
	authToken string
	domain    string
	listener  net.Listener
	url       string
	agent     ngrok.Agent
}

// NewNgrokService 创建 ngrok 隧道服务
func NewNgrokService(logger *zap.Logger, authToken, domain string) NgrokService {
	return &ngrokService{
		logger:    logger,
		authToken: authToken,
		domain:    domain,
	}
}

// Start 建立隧道并将入站连接转发到 addr
func (s *ngrokService) Start(ctx context.Context, addr string) error {
	if s.authToken == "" {
		return fmt.Errorf("ngrok auth token is required")
	}

	agent, err := ngrok.NewAgent(ngrok.WithAuthtoken(s.authToken))
	if err != nil {
		return fmt.Errorf("create ngrok agent: %w", err)
	}
	s.agent = agent

	var endpointOpts []ngrok.EndpointOption
	if s.domain != "" {
		endpointOpts = append(endpointOpts, ngrok.WithURL("https://"+s.domain))
	}

	ln, err := agent.Listen(ctx, endpointOpts...)
	if err != nil {
		return fmt.Errorf("start ngrok tunnel: %w", err)
	}
	s.listener = ln

	// EndpointListener 的 URL 访问器在旧版 SDK 上不存在, 取不到时回退到监听地址
	if u, ok := ln.(interface{ URL() *url.URL }); ok {
		s.url = u.URL().String()
	} else {
		s.url = ln.Addr().String()
	}

	s.logger.Info("ngrok tunnel established", zap.String("url", s.url))

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				s.logger.Debug("ngrok tunnel accept error (likely closed)", zap.Error(err))
				return
			}
			go s.forward(conn, addr)
		}
	}()

	return nil
}

// forward 双向拷贝隧道连接与本地服务连接
func (s *ngrokService) forward(conn net.Conn, addr string) {
	defer conn.Close()
	localConn, err := net.Dial("tcp", addr)
	if err != nil {
		s.logger.Error("dial local address failed", zap.String("addr", addr), zap.Error(err))
		return
	}
	defer localConn.Close()

	done := make(chan struct{}, 2)
	go func() {
		_, _ = io.Copy(localConn, conn)
		done <- struct{}{}
	}()
	go func() {
		_, _ = io.Copy(conn, localConn)
		done <- struct{}{}
	}()
	<-done
}

// Stop 关闭隧道监听并断开 agent
func (s *ngrokService) Stop(ctx context.Context) error {
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.logger.Warn("close ngrok tunnel failed", zap.Error(err))
		}
	}
	if s.agent != nil {
		if err := s.agent.Disconnect(); err != nil {
			s.logger.Warn("disconnect ngrok agent failed", zap.Error(err))
		}
	}
	return nil
}

// TunnelURL 返回当前隧道公网地址
func (s *ngrokService) TunnelURL() string {
	return s.url
}
