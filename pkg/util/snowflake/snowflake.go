// Package snowflake 生成用户、工作区的业务 ID
// ID 只包含数字，因此可以安全地用 "-" 拼接成私聊房间 ID
package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
)

// Init 初始化雪花算法节点，machineID 范围 0-1023，多实例部署时每台机器需唯一
// 重复调用只有第一次生效
func Init(machineID int64) {
	nodeOnce.Do(func() {
		if machineID < 0 || machineID > 1023 {
			zap.L().Warn("invalid snowflake machineId, using 1", zap.Int64("machineID", machineID))
			machineID = 1
		}
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			zap.L().Fatal("failed to initialize snowflake node", zap.Error(err))
		}
	})
}

// GenerateIDString 生成雪花 ID 字符串
// 未显式 Init 时使用节点 1
func GenerateIDString() string {
	Init(1)
	return node.Generate().String()
}
