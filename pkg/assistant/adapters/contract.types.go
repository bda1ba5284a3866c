package adapters

import (
	"time"
)

type MsgRole string

const (
	USER      MsgRole = "user"
	ASSISTANT MsgRole = "assistant"
	SYSTEM    MsgRole = "system"
)

type ContractMessage struct {
	Role      MsgRole
	Content   string
	CreatedAt time.Time
}
