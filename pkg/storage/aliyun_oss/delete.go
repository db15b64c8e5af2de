package aliyun_oss

import (
	"path"
)

// Delete 删除 bucket 中的对象, fileKey 相对于配置的 CustomPath
func (p *OSS) Delete(fileKey string) error {
	if p.Bucket == nil {
		err := p.GetBucket("")
		if err != nil {
			return err
		}
	}
	fileKey = path.Join(p.Config.CustomPath, fileKey)
	return p.Bucket.DeleteObject(fileKey)
}
