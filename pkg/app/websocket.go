package app

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lxzan/gws"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// WebSocketServerPingInterval 服务端主动 Ping 间隔
	WebSocketServerPingInterval = 25 * time.Second
	// WebSocketServerPingWait 读超时时间，超过未收到任何帧则断开
	WebSocketServerPingWait = 40 * time.Second
)

// WSProvider 是 WebSocket 服务所需的应用容器能力（依赖注入，避免全局状态）
type WSProvider interface {
	Logger() *zap.Logger
	Validator() ValidatorInterface
	IsReturnSuccess() bool
	GetAuthTokenKey() string
}

// WSConfig WebSocket 服务配置
type WSConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebSocketMessage 一条 "Action|{json}" 帧解析后的消息
type WebSocketMessage struct {
	Type string `json:"type"` // 动作类型，例如 "NoteModify", "ReviewAddLink"
	Data []byte `json:"data"` // 动作数据（JSON）
}

// AuthorizationRequest Authorization 动作的载荷
// 兼容仅携带 Token 字符串的旧客户端
type AuthorizationRequest struct {
	Token         string `json:"token"`
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
}

// WebsocketClient 保存每个 WebSocket 连接及其会话状态
type WebsocketClient struct {
	conn      *gws.Conn
	srv       *WebsocketServer
	done      chan struct{}
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	trans     ut.Translator

	TraceID       string
	ClientIP      string
	User          *UserEntity
	ClientName    string
	ClientVersion string
	IsFirstSync   atomic.Bool
	SF            *singleflight.Group // 合并同一连接上的并发请求
}

// Context 返回连接级别的长生命周期 context，连接关闭时取消
func (c *WebsocketClient) Context() context.Context {
	return c.ctx
}

// BindAndValid 对 WebSocket 消息载荷做 JSON 解码与参数验证
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	var errs ValidErrors

	if err := sonic.Unmarshal(data, obj); err != nil {
		errs = append(errs, &ValidError{
			Key:     "body",
			Message: "Invalid message format",
		})
		return false, errs
	}

	v := c.srv.app.Validator()
	if v == nil {
		return true, nil
	}

	if err := v.ValidateStruct(obj); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs = append(errs, &ValidError{
				Key:     "body",
				Message: err.Error(),
			})
			return false, errs
		}
		if c.trans != nil {
			for key, value := range verrs.Translate(c.trans) {
				errs = append(errs, &ValidError{
					Key:     key,
					Message: value,
				})
			}
		} else {
			for _, fieldErr := range verrs {
				errs = append(errs, &ValidError{
					Key:     fieldErr.Field(),
					Message: fieldErr.Error(),
				})
			}
		}
		return false, errs
	}
	return true, nil
}

// PingLoop 定期发送 Ping 帧，连接关闭后退出
func (c *WebsocketClient) PingLoop() {
	ticker := time.NewTicker(c.srv.config.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if err := c.conn.WritePing(nil); err != nil {
				c.srv.logger.Debug("websocket ping failed",
					zap.String(logger.FieldTraceID, c.TraceID),
					zap.Error(err))
				return
			}
		}
	}
}

// ToResponse 将结果编码为 JSON 帧发送给当前客户端
// 纯成功且无动作、无数据、无详情时按配置决定是否静默
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}
	defer codeObj.Reset()

	if !c.srv.app.IsReturnSuccess() && actionType == "" &&
		codeObj.Code() <= 200 && !codeObj.HaveData() && !codeObj.HaveDetails() {
		return
	}
	c.message(buildWSFrame(codeObj, actionType))
}

// BroadcastResponse 将结果广播给同一用户的所有连接
// isExcludeSelf 为 true 时排除当前连接
func (c *WebsocketClient) BroadcastResponse(codeObj *code.Code, isExcludeSelf bool, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}
	defer codeObj.Reset()

	if c.User == nil {
		return
	}
	var exclude *gws.Conn
	if isExcludeSelf {
		exclude = c.conn
	}
	c.srv.broadcast(c.User.UID, buildWSFrame(codeObj, actionType), exclude)
}

func (c *WebsocketClient) message(payload []byte) {
	_ = c.conn.WriteMessage(gws.OpcodeText, payload)
}

// markClosed 关闭 done 通道并取消连接 context，幂等
func (c *WebsocketClient) markClosed() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
	})
}

// buildWSFrame 构造 "Action|{json}" 响应帧，与 HTTP 层的 Res 结构保持一致
func buildWSFrame(codeObj *code.Code, actionType string) []byte {
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	if codeObj.HaveVault() {
		content.Vault = codeObj.Vault()
	}
	if codeObj.HaveContext() {
		content.Context = codeObj.Context()
	}
	payload, _ := sonic.Marshal(content)
	if actionType != "" {
		payload = append([]byte(actionType+"|"), payload...)
	}
	return payload
}

// ------------------------------------> WebsocketServer

type ConnStorage = map[*gws.Conn]*WebsocketClient

// WebsocketServer 是 "Action|{json}" 协议的动作分发中心
type WebsocketServer struct {
	app        WSProvider
	logger     *zap.Logger
	config     *WSConfig
	handlers   map[string]func(*WebsocketClient, *WebSocketMessage)
	userVerify func(*WebsocketClient, int64) (*UserSelectEntity, error)

	mu          sync.RWMutex
	clients     ConnStorage
	userClients map[int64]ConnStorage

	up *gws.Upgrader
}

var _ gws.Event = (*WebsocketServer)(nil)

func NewWebsocketServer(c WSConfig, app WSProvider) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	wss := &WebsocketServer{
		app:         app,
		logger:      app.Logger(),
		config:      &c,
		handlers:    make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:     make(ConnStorage),
		userClients: make(map[int64]ConnStorage),
	}
	wss.up = gws.NewUpgrader(wss, &wss.config.GWSOption)
	return wss
}

// Use 注册一个动作处理器
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// UseUserVerify 注册用户有效性验证回调，Authorization 时强制调用
func (w *WebsocketServer) UseUserVerify(handler func(*WebsocketClient, int64) (*UserSelectEntity, error)) {
	w.userVerify = handler
}

// Run 返回升级 WebSocket 连接的 gin 处理函数
func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			w.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}

		traceID := c.GetString("trace_id")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		// 升级完成后 gin context 会被回收，这里只保留需要的值
		var trans ut.Translator
		if v, exists := c.Get("trans"); exists {
			trans, _ = v.(ut.Translator)
		}

		ctx, cancel := context.WithCancel(context.Background())
		client := &WebsocketClient{
			conn:     socket,
			srv:      w,
			done:     make(chan struct{}),
			ctx:      ctx,
			cancel:   cancel,
			trans:    trans,
			TraceID:  traceID,
			ClientIP: GetRequestIP(c),
			SF:       new(singleflight.Group),
		}
		w.addClient(client)
		go socket.ReadLoop()
	}
}

// BroadcastToUser 向指定用户的所有连接推送一条带动作的消息
// 供 HTTP 层在写操作完成后通知在线客户端
func (w *WebsocketServer) BroadcastToUser(uid int64, codeObj *code.Code, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}
	defer codeObj.Reset()

	w.broadcast(uid, buildWSFrame(codeObj, actionType), nil)
}

func (w *WebsocketServer) broadcast(uid int64, payload []byte, exclude *gws.Conn) {
	w.mu.RLock()
	conns := make([]*gws.Conn, 0, len(w.userClients[uid]))
	for conn := range w.userClients[uid] {
		if exclude != nil && conn == exclude {
			continue
		}
		conns = append(conns, conn)
	}
	w.mu.RUnlock()

	if len(conns) == 0 {
		return
	}

	b := gws.NewBroadcaster(gws.OpcodeText, payload)
	defer b.Close()
	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
}

// authorize 校验 Token 与用户有效性，通过后将连接登记到用户连接表
func (w *WebsocketServer) authorize(c *WebsocketClient, msg *WebSocketMessage) {
	params := &AuthorizationRequest{}
	if err := sonic.Unmarshal(msg.Data, params); err != nil || params.Token == "" {
		params.Token = strings.TrimSpace(string(msg.Data))
	}

	user, err := ParseTokenWithKey(params.Token, w.app.GetAuthTokenKey())
	if err != nil {
		w.rejectAuthorization(c, err)
		return
	}

	// 用户有效性强制验证
	if w.userVerify != nil {
		userSelect, err := w.userVerify(c, user.UID)
		if userSelect == nil || err != nil {
			w.rejectAuthorization(c, err)
			return
		}
		user.Nickname = userSelect.Nickname
	}

	c.User = user
	c.ClientName = params.ClientName
	c.ClientVersion = params.ClientVersion
	w.addUserClient(c)

	c.ToResponse(code.Success, "Authorization")
	w.logger.Info("websocket user authorized",
		zap.String(logger.FieldTraceID, c.TraceID),
		zap.Int64(logger.FieldUID, user.UID),
		zap.String("clientName", c.ClientName),
		zap.String("clientVersion", c.ClientVersion),
		zap.Int("userConnCount", w.userClientCount(user.UID)))
	go c.PingLoop()
}

func (w *WebsocketServer) rejectAuthorization(c *WebsocketClient, err error) {
	w.logger.Warn("websocket authorization failed",
		zap.String(logger.FieldTraceID, c.TraceID),
		zap.Error(err))
	c.ToResponse(code.ErrorInvalidUserAuthToken, "Authorization")
	// 给客户端留出收取失败响应的时间
	time.Sleep(2 * time.Second)
	c.conn.WriteClose(1000, []byte("AuthorizationFailed"))
}

func (w *WebsocketServer) getClient(conn *gws.Conn) *WebsocketClient {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clients[conn]
}

func (w *WebsocketServer) addClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) removeClient(conn *gws.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *WebsocketServer) addUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.userClients[c.User.UID] == nil {
		w.userClients[c.User.UID] = make(ConnStorage)
	}
	w.userClients[c.User.UID][c.conn] = c
}

func (w *WebsocketServer) removeUserClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.userClients[c.User.UID], c.conn)
	if len(w.userClients[c.User.UID]) == 0 {
		delete(w.userClients, c.User.UID)
	}
}

func (w *WebsocketServer) userClientCount(uid int64) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.userClients[uid])
}

func (w *WebsocketServer) clientCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.clients)
}

// OnOpen 连接建立，设置读超时
func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	w.logger.Info("websocket client connected", zap.Int("count", w.clientCount()))
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait))
}

// OnClose 连接关闭，注销连接并取消连接 context
func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := w.getClient(conn)
	w.removeClient(conn)

	if c == nil {
		return
	}
	c.markClosed()

	if c.User != nil {
		w.removeUserClient(c)
		w.logger.Info("websocket user left",
			zap.String(logger.FieldTraceID, c.TraceID),
			zap.Int64(logger.FieldUID, c.User.UID),
			zap.Bool("synced", c.IsFirstSync.Load()))
	}
	w.logger.Info("websocket client disconnected", zap.Int("count", w.clientCount()))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait))
}

// OnMessage 解析 "Action|{json}" 帧并分发到注册的动作处理器
func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}

	messageStr := message.Data.String()
	if messageStr == "close" {
		conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.getClient(conn)
	if c == nil {
		return
	}

	msg, ok := parseWSFrame(messageStr)
	if !ok {
		w.logger.Warn("websocket illegal message frame",
			zap.String(logger.FieldTraceID, c.TraceID))
		return
	}

	if msg.Type == "Authorization" {
		w.authorize(c, msg)
		return
	}

	// 除 Authorization 外的动作要求已登录
	if c.User == nil {
		c.ToResponse(code.ErrorNotUserAuthToken, msg.Type)
		return
	}

	handler, exists := w.handlers[msg.Type]
	if !exists {
		w.logger.Warn("websocket unknown action",
			zap.String(logger.FieldTraceID, c.TraceID),
			zap.Int64(logger.FieldUID, c.User.UID),
			zap.String(logger.FieldAction, msg.Type))
		return
	}

	w.logger.Debug("websocket action dispatched",
		zap.String(logger.FieldTraceID, c.TraceID),
		zap.Int64(logger.FieldUID, c.User.UID),
		zap.String(logger.FieldAction, msg.Type))
	handler(c, msg)
}

// parseWSFrame 解析 "Action|{json}" 文本帧
func parseWSFrame(raw string) (*WebSocketMessage, bool) {
	index := strings.Index(raw, "|")
	if index == -1 {
		return nil, false
	}
	return &WebSocketMessage{
		Type: raw[:index],
		Data: []byte(raw[index+1:]),
	}, true
}
