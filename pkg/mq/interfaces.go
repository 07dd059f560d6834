package mq

import "context"

// MessageProducer 消息生产者接口
type MessageProducer interface {
	PublishThreadEvent(ctx context.Context, event *ThreadEvent) error
}

// 确保Producer实现MessageProducer接口
var _ MessageProducer = (*Producer)(nil)
