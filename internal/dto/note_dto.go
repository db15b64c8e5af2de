// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

import (
	"github.com/haierkeys/note-review-service/pkg/timex"
)

// NoteDTO Note data transfer object
// NoteDTO 笔记数据传输对象
type NoteDTO struct {
	ID               int64      `json:"-" form:"id"`
	Action           string     `json:"-" form:"action"`
	Path             string     `json:"path" form:"path"`
	PathHash         string     `json:"pathHash" form:"pathHash"`
	Content          string     `json:"content" form:"content"`
	ContentHash      string     `json:"contentHash" form:"contentHash"`
	Ctime            int64      `json:"ctime" form:"ctime"`
	Mtime            int64      `json:"mtime" form:"mtime"`
	Size             int64      `json:"size" form:"size"`
	UpdatedTimestamp int64      `json:"lastTime" form:"updatedTimestamp"`
	UpdatedAt        timex.Time `json:"-"`
	CreatedAt        timex.Time `json:"-"`
}

// NoteNoContentDTO Note DTO without content
// NoteNoContentDTO 不包含内容的笔记 DTO
type NoteNoContentDTO struct {
	ID               int64      `json:"-" form:"id"`
	Action           string     `json:"-" form:"action"`
	Path             string     `json:"path" form:"path"`
	PathHash         string     `json:"pathHash" form:"pathHash"`
	Ctime            int64      `json:"ctime" form:"ctime"`
	Mtime            int64      `json:"mtime" form:"mtime"`
	Size             int64      `json:"size" form:"size"`
	UpdatedTimestamp int64      `json:"lastTime" form:"updatedTimestamp"`
	UpdatedAt        timex.Time `json:"-"`
	CreatedAt        timex.Time `json:"-"`
}

// NoteUpdateCheckRequest Client request parameters for checking if updates are needed
// 客户端用于检查是否需要更新的请求参数
type NoteUpdateCheckRequest struct {
	Vault       string `json:"vault" form:"vault" binding:"required"`
	Path        string `json:"path" form:"path" binding:"required"`
	PathHash    string `json:"pathHash" form:"pathHash" binding:"required"`
	ContentHash string `json:"contentHash" form:"contentHash" binding:""`
	Ctime       int64  `json:"ctime" form:"ctime" binding:"required"`
	Mtime       int64  `json:"mtime" form:"mtime" binding:"required"`
}

// NoteModifyOrCreateRequest Request parameters for creating or modifying a note
// 用于创建或修改笔记的请求参数
type NoteModifyOrCreateRequest struct {
	Vault       string `json:"vault" form:"vault" binding:"required"`
	Path        string `json:"path" form:"path" binding:"required"`
	PathHash    string `json:"pathHash" form:"pathHash"`
	Content     string `json:"content" form:"content" binding:""`
	ContentHash string `json:"contentHash" form:"contentHash" binding:""`
	Ctime       int64  `json:"ctime" form:"ctime"`
	Mtime       int64  `json:"mtime" form:"mtime"`
}

// NoteDeleteRequest Parameters required for deleting a note
// 删除笔记所需参数
type NoteDeleteRequest struct {
	Vault    string `json:"vault" form:"vault" binding:"required"`
	Path     string `json:"path" form:"path" binding:"required"`
	PathHash string `json:"pathHash" form:"pathHash"`
}

// NoteSyncCheckRequest Parameters for checking synchronization of a single record
// 同步检查单条记录的参数
type NoteSyncCheckRequest struct {
	Path        string `json:"path" form:"path"`
	PathHash    string `json:"pathHash" form:"pathHash" binding:"required"`
	ContentHash string `json:"contentHash" form:"contentHash" binding:""`
	Mtime       int64  `json:"mtime" form:"mtime" binding:"required"`
}

type NoteSyncDelNote struct {
	Path     string `json:"path" form:"path" binding:"required"`
	PathHash string `json:"pathHash" form:"pathHash" binding:"required"`
}

// NoteSyncRequest Synchronization request body
// 同步请求主体
type NoteSyncRequest struct {
	Vault        string                 `json:"vault" form:"vault" binding:"required"`
	LastTime     int64                  `json:"lastTime" form:"lastTime"`
	Notes        []NoteSyncCheckRequest `json:"notes" form:"notes"`
	DelNotes     []NoteSyncDelNote      `json:"delNotes" form:"delNotes"`
	MissingNotes []NoteSyncDelNote      `json:"missingNotes" form:"missingNotes"`
}

// NoteGetRequest Request parameters for retrieving a single note
// 用于获取单条笔记的请求参数
type NoteGetRequest struct {
	Vault    string `json:"vault" form:"vault" binding:"required"`
	Path     string `json:"path" form:"path" binding:"required"`
	PathHash string `json:"pathHash" form:"pathHash"`
}

// NoteListRequest Pagination parameters for retrieving the note list
// 获取笔记列表的分页参数
type NoteListRequest struct {
	Vault    string `json:"vault" form:"vault" binding:"required"`
	Keyword  string `json:"keyword" form:"keyword"`
	LastTime int64  `json:"lastTime" form:"lastTime"` // Only return notes updated after this timestamp // 仅返回该时间戳之后更新的笔记
}
