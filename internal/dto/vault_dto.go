// Package dto Defines data transfer objects (request parameters and response structs)
// Package dto 定义数据传输对象（请求参数和响应结构体）
package dto

// VaultDTO Vault data transfer object
// VaultDTO Vault 数据传输对象
type VaultDTO struct {
	ID        int64  `json:"id"`        // Vault ID // 保险库 ID
	Name      string `json:"vault"`     // Vault name // 保险库名称
	NoteCount int64  `json:"noteCount"` // Number of notes // 笔记数量
	NoteSize  int64  `json:"noteSize"`  // Size of notes // 笔记大小
	Size      int64  `json:"size"`      // Total size // 总大小
	CreatedAt string `json:"createdAt"` // Creation time // 创建时间
	UpdatedAt string `json:"updatedAt"` // Updated time // 更新时间
}

// VaultPostRequest Request parameters for registering a vault
// VaultPostRequest 注册保险库的请求参数
type VaultPostRequest struct {
	Vault string `json:"vault" form:"vault" binding:"required"` // Vault name // 保险库名称
}

// VaultDeleteRequest Request parameters for deleting a vault
// VaultDeleteRequest 删除保险库的请求参数
type VaultDeleteRequest struct {
	ID int64 `json:"id" form:"id" binding:"required"` // Vault ID // 保险库 ID
}
