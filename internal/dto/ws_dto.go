package dto

// WebSocketAction WebSocket text message type
// WebSocket 文本消息类型
type WebSocketAction = string

const (
	// Note related
	// 笔记相关

	// NoteSyncModify note synchronization modification
	// NoteSyncModify 笔记同步修改
	NoteSyncModify WebSocketAction = "NoteSyncModify"
	// NoteSyncDelete note synchronization deletion
	// NoteSyncDelete 笔记同步删除
	NoteSyncDelete WebSocketAction = "NoteSyncDelete"
	// NoteSyncMtime note modification time synchronization
	// NoteSyncMtime 笔记修改时间同步
	NoteSyncMtime WebSocketAction = "NoteSyncMtime"
	// NoteSyncEnd note synchronization finished
	// NoteSyncEnd 笔记同步结束
	NoteSyncEnd WebSocketAction = "NoteSyncEnd"
	// NoteSyncNeedPush indicates client needs to push note content
	// NoteSyncNeedPush 表示客户端需要推送笔记内容
	NoteSyncNeedPush WebSocketAction = "NoteSyncNeedPush"

	// Review related
	// 回顾相关

	// ReviewNoteModify monthly review note was modified on the server
	// ReviewNoteModify 月度回顾笔记在服务端被修改
	ReviewNoteModify WebSocketAction = "ReviewNoteModify"
	// ReviewSettingChanged review settings were changed on another client
	// ReviewSettingChanged 回顾配置在其他客户端被修改
	ReviewSettingChanged WebSocketAction = "ReviewSettingChanged"
)

// WSQueuedMessage message held back until the sync-end frame is sent
// WSQueuedMessage 延迟到同步结束帧之后发送的消息
type WSQueuedMessage struct {
	Action WebSocketAction `json:"action"`
	Data   interface{}     `json:"data"`
}
