package grpc

import (
	"bytes"
	"encoding/gob"

	"google.golang.org/grpc/encoding"
)

// Name 注册到 gRPC 的编解码器名字。
const Name = "gob"

func init() {
	encoding.RegisterCodec(codec{})
}

// codec 用标准库 gob 做消息编解码。两端都是本项目的 Go 进程，
// gob 的自描述编码足够了，不需要维护 .proto 文件。
type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (codec) Unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (codec) Name() string {
	return Name
}
