package code

import (
	"fmt"
	"net/http"
)

// Code 业务状态码, 同时充当 error 与响应载体
// 附加字段 (data/vault/details/context) 通过 With* 链式设置
type Code struct {
	code   int
	status bool
	Lang   lang
	msg    string

	data     interface{}
	haveData bool

	vault     string
	haveVault bool

	details     []string
	haveDetails bool

	context     string
	haveContext bool
}

var codes = map[int]string{}
var sussCodes = map[int]string{}

// NewError 注册一个失败码, 重复注册直接 panic
func NewError(code int, l lang) *Code {
	if _, ok := codes[code]; ok {
		panic(fmt.Sprintf("错误码 %d 已经存在，请更换一个", code))
	}
	codes[code] = l.GetMessage()
	return &Code{code: code, status: false, Lang: l}
}

// NewSuss 注册一个成功码
func NewSuss(code int, l lang) *Code {
	if _, ok := sussCodes[code]; ok {
		panic(fmt.Sprintf("成功码 %d 已经存在，请更换一个", code))
	}
	sussCodes[code] = l.GetMessage()
	return &Code{code: code, status: true, Lang: l}
}

// Reset 清空附加字段, 注册的码对象是单例, 响应写出后必须复位
func (e *Code) Reset() *Code {
	e.data = nil
	e.haveData = false
	e.details = []string{}
	e.haveDetails = false
	e.vault = ""
	e.haveVault = false
	e.context = ""
	e.haveContext = false
	return e
}

// Clone 返回不共享附加字段的副本
func (e *Code) Clone() *Code {
	return &Code{
		code:    e.code,
		status:  e.status,
		Lang:    e.Lang,
		msg:     e.msg,
		details: []string{},
	}
}

func (e *Code) Error() string {
	return e.Msg()
}

func (e *Code) Code() int {
	return e.code
}

func (e *Code) Status() bool {
	return e.status
}

func (e *Code) Msg() string {
	return e.Lang.GetMessage()
}

func (e *Code) Details() []string {
	return e.details
}

func (e *Code) Data() interface{} {
	return e.data
}

func (e *Code) Vault() string {
	return e.vault
}

func (e *Code) Context() string {
	return e.context
}

func (e *Code) HaveDetails() bool {
	return e.haveDetails
}

func (e *Code) HaveData() bool {
	return e.haveData
}

func (e *Code) HaveVault() bool {
	return e.haveVault
}

func (e *Code) HaveContext() bool {
	return e.haveContext
}

func (e *Code) WithData(data interface{}) *Code {
	e.haveData = true
	e.data = data
	return e
}

func (e *Code) WithVault(vault string) *Code {
	e.haveVault = true
	e.vault = vault
	return e
}

func (e *Code) WithDetails(details ...string) *Code {
	e.haveDetails = true
	e.details = append([]string{}, details...)
	return e
}

func (e *Code) WithContext(context string) *Code {
	e.haveContext = true
	e.context = context
	return e
}

func (e *Code) StatusCode() int {
	return http.StatusOK
}
