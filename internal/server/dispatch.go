package server

import (
	"log"
	"runtime/debug"

	"github.com/palemoky/usef/internal/apperrors"
	"github.com/palemoky/usef/internal/protocol"
)

// enqueueMessage 把入站消息投递给事件循环
func (s *Server) enqueueMessage(c *Client, msg *protocol.Message) {
	select {
	case s.events <- event{client: c, msg: msg}:
	case <-s.done:
	}
}

// enqueueDisconnect 把断线事件投递给事件循环
func (s *Server) enqueueDisconnect(c *Client) {
	select {
	case s.events <- event{client: c, disconnect: true}:
	case <-s.done:
	}
}

// dispatchLoop 串行处理全部入站事件。
// 每个事件在下一个事件开始前处理到底（run-to-completion），
// 大厅和对局状态因此不需要任何锁。
func (s *Server) dispatchLoop() {
	for {
		select {
		case ev := <-s.events:
			s.dispatch(ev)
		case <-s.done:
			return
		}
	}
}

// dispatch 处理单个事件，panic 只打掉当前事件，不打掉循环
func (s *Server) dispatch(ev event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("💥 事件处理 panic: %v\n%s", r, debug.Stack())
			if ev.client != nil && !ev.disconnect {
				// 故障只通知来源连接，不向外泄露细节
				ev.client.SendMessage(protocol.NewErrorMessage(string(apperrors.KindState), "internal error"))
			}
		}
	}()

	if ev.disconnect {
		s.handler.HandleDisconnect(ev.client)
		s.unregisterClient(ev.client)
		return
	}
	s.handler.HandleMessage(ev.client, ev.msg)
}
