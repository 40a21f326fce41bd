package raft

import (
	"bytes"
	"encoding/gob"

	"github.com/xmh1011/raftd/param"
)

// 配置条目的载荷只是成员列表；索引由条目本身携带。

func encodeConfiguration(members []param.Member) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(members); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeConfiguration(data []byte) (param.Configuration, error) {
	var members []param.Member
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&members); err != nil {
		return param.Configuration{}, err
	}
	return param.Configuration{Members: members}, nil
}
