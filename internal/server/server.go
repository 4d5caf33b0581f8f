package server

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"

	"github.com/palemoky/usef/internal/config"
	"github.com/palemoky/usef/internal/game/lobby"
	"github.com/palemoky/usef/internal/protocol"
	"github.com/palemoky/usef/internal/server/handler"
	"github.com/palemoky/usef/internal/server/storage"
	"github.com/palemoky/usef/internal/types"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 允许所有来源，生产环境需要限制
	},
}

// Server WebSocket 服务器。
// 大厅注册表和所有对局状态只在 dispatchLoop 这一个 goroutine 里被触碰，
// 每个入站事件（消息或断线）都完整处理完才轮到下一个，天然无锁。
type Server struct {
	config      *config.Config
	redis       *redis.Client
	leaderboard *storage.LeaderboardManager
	directory   *lobby.Directory
	handler     *handler.Handler

	clients   map[string]*Client // 连接 ID → 客户端
	byUser    map[string]*Client // 用户 ID → 客户端
	clientsMu sync.RWMutex

	events chan event
	done   chan struct{}
}

// event 事件循环的一个待处理事件
type event struct {
	client     *Client
	msg        *protocol.Message
	disconnect bool
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) (*Server, error) {
	// 初始化 Redis 客户端
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 测试 Redis 连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis 连接失败: %w", err)
	}

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))

	s := &Server{
		config:      cfg,
		redis:       rdb,
		leaderboard: storage.NewLeaderboardManager(rdb),
		directory:   lobby.NewDirectory(rng),
		clients:     make(map[string]*Client),
		byUser:      make(map[string]*Client),
		events:      make(chan event, 256),
		done:        make(chan struct{}),
	}

	// 初始化消息处理器
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:      s,
		Directory:   s.directory,
		Leaderboard: s.leaderboard,
		GameConfig:  cfg.Game,
		Rng:         rng,
	})

	return s, nil
}

// Start 启动服务器
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	http.HandleFunc("/ws", s.handleWebSocket)
	http.HandleFunc("/health", s.handleHealth)

	// 启动事件循环
	go s.dispatchLoop()

	log.Printf("🚀 Usef 服务器启动在 ws://%s/ws", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           nil,
		ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return server.ListenAndServe()
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// registerClient 注册客户端
func (s *Server) registerClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[client.ID] = client
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		if userID := client.GetUserID(); userID != "" {
			delete(s.byUser, userID)
		}
		log.Printf("❌ 连接 %s 已断开", client.ID)
	}
}

// GetOnlineCount 获取在线人数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetClientByUserID 按用户 ID 获取客户端
func (s *Server) GetClientByUserID(userID string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	c, ok := s.byUser[userID]
	if !ok {
		// 接口返回 nil 时必须是无类型 nil，否则调用方的判空会失效
		return nil
	}
	return c
}

// BindUser 绑定用户 ID 到连接
func (s *Server) BindUser(userID string, client types.ClientInterface) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	if c, ok := client.(*Client); ok {
		s.byUser[userID] = c
	}
}

// UnbindUser 解除用户 ID 绑定
func (s *Server) UnbindUser(userID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.byUser, userID)
}

// Shutdown 关闭服务器
func (s *Server) Shutdown() {
	close(s.done)

	// 关闭所有客户端连接
	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	// 关闭 Redis
	_ = s.redis.Close()

	log.Println("服务器已关闭")
}
