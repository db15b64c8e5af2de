package global

import (
	"github.com/haierkeys/note-review-service/pkg/fileurl"
)

var (
	// 程序执行目录
	ROOT          string
	Name          string = "Note Review Service"
	WebClientName string = "Web"
)

func init() {

	filename := fileurl.GetExePath()
	ROOT = filename + "/"

}
