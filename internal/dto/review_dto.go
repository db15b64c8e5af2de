package dto

import (
	"github.com/haierkeys/note-review-service/pkg/timex"
)

// ReviewAddLinkRequest Request parameters for adding a note link to the monthly review note
// 将笔记链接写入月度回顾笔记的请求参数
type ReviewAddLinkRequest struct {
	Vault    string `json:"vault" form:"vault" binding:"required"` // Vault name // 保险库名称
	Path     string `json:"path" form:"path" binding:"required"`   // Path of the note being linked // 被链接笔记的路径
	PathHash string `json:"pathHash" form:"pathHash"`              // Path hash // 路径哈希
}

// ReviewOpenRequest Request parameters for opening the monthly review note
// 打开月度回顾笔记的请求参数
type ReviewOpenRequest struct {
	Vault string `json:"vault" form:"vault" binding:"required"` // Vault name // 保险库名称
}

// ReviewEntriesRequest Request parameters for listing entries under the review heading
// 获取回顾标题下条目列表的请求参数
type ReviewEntriesRequest struct {
	Vault string `json:"vault" form:"vault" binding:"required"` // Vault name // 保险库名称
}

// ReviewSettingGetRequest Request parameters for fetching review settings
// 获取回顾配置的请求参数
type ReviewSettingGetRequest struct {
	Vault string `json:"vault" form:"vault" binding:"required"` // Vault name // 保险库名称
}

// ReviewSettingModifyRequest Request parameters for updating review settings
// 更新回顾配置的请求参数
//
// All option fields are full-replace: clients send the complete settings
// object, empty strings are stored as-is (defaults are applied on read).
// 所有配置字段均为全量替换：客户端提交完整配置对象，空字符串原样保存（读取时应用默认值）。
type ReviewSettingModifyRequest struct {
	Vault                string `json:"vault" form:"vault" binding:"required"`          // Vault name // 保险库名称
	DailyNotesFolder     string `json:"dailyNotesFolder" form:"dailyNotesFolder"`       // Daily notes folder hint // 日记目录提示
	ReviewSectionHeading string `json:"reviewSectionHeading" form:"reviewSectionHeading"` // Heading the links are appended under // 链接追加到的标题
	LinePrefix           string `json:"linePrefix" form:"linePrefix"`                   // Prefix of each appended line // 追加行的前缀
	MonthlyNoteFolder    string `json:"monthlyNoteFolder" form:"monthlyNoteFolder"`     // Folder holding monthly notes // 月度笔记目录
	MonthlyNoteFormat    string `json:"monthlyNoteFormat" form:"monthlyNoteFormat"`     // Go time layout naming monthly notes // 月度笔记命名的时间布局
	MonthlyTemplatePath  string `json:"monthlyTemplatePath" form:"monthlyTemplatePath"` // Template note seeding new monthly notes // 新建月度笔记的模板路径
}

// ---------------- DTO / Response ----------------

// ReviewSettingDTO Review settings served to clients, defaults applied to empty fields
// ReviewSettingDTO 返回给客户端的回顾配置，空字段已应用默认值
type ReviewSettingDTO struct {
	Vault                string     `json:"vault"`                                      // Vault name // 保险库名称
	DailyNotesFolder     string     `json:"dailyNotesFolder"`                           // Daily notes folder hint // 日记目录提示
	ReviewSectionHeading string     `json:"reviewSectionHeading" default:"## Review"`   // Heading the links are appended under // 链接追加到的标题
	LinePrefix           string     `json:"linePrefix" default:"- "`                    // Prefix of each appended line // 追加行的前缀
	MonthlyNoteFolder    string     `json:"monthlyNoteFolder"`                          // Folder holding monthly notes, "" = vault root // 月度笔记目录，空串为仓库根目录
	MonthlyNoteFormat    string     `json:"monthlyNoteFormat" default:"2006-01"`        // Go time layout naming monthly notes // 月度笔记命名的时间布局
	MonthlyTemplatePath  string     `json:"monthlyTemplatePath"`                        // Template note seeding new monthly notes // 新建月度笔记的模板路径
	UpdatedAt            timex.Time `json:"updatedAt"`                                  // Updated time // 更新时间
}

// ReviewNoteDTO Resolved monthly review note
// ReviewNoteDTO 解析得到的月度回顾笔记
type ReviewNoteDTO struct {
	Note    *NoteDTO `json:"note"`    // The monthly note // 月度笔记
	Period  string   `json:"period"`  // Period key, e.g. "2024-03" // 周期键
	Created bool     `json:"created"` // True when the note was created by this call // 本次调用是否新建了笔记
}

// ReviewAddLinkDTO Result of an add-link action
// ReviewAddLinkDTO 添加链接操作的结果
type ReviewAddLinkDTO struct {
	Note     *NoteDTO `json:"note"`     // Monthly note after the append // 追加后的月度笔记
	Period   string   `json:"period"`   // Period key // 周期键
	Created  bool     `json:"created"`  // True when the monthly note was created // 是否新建了月度笔记
	Modified bool     `json:"modified"` // False when the link already existed // 链接已存在时为 false
	Line     string   `json:"line"`     // The appended link line // 追加的链接行
}

// ReviewEntry A parsed line under the review heading
// ReviewEntry 回顾标题下解析出的一行
type ReviewEntry struct {
	Line     string `json:"line"`               // Raw line text // 原始行文本
	LinkText string `json:"linkText,omitempty"` // Wiki link target, empty for plain lines // 维基链接目标，普通行为空
	Alias    string `json:"alias,omitempty"`    // Optional link alias // 可选链接别名
}

// ReviewEntriesDTO Entries listed from the monthly note's review section
// ReviewEntriesDTO 月度笔记回顾区块中列出的条目
type ReviewEntriesDTO struct {
	Path    string        `json:"path"`    // Monthly note path // 月度笔记路径
	Period  string        `json:"period"`  // Period key // 周期键
	Heading string        `json:"heading"` // Review section heading // 回顾区块标题
	Entries []ReviewEntry `json:"entries"` // Parsed entries // 解析出的条目
}
