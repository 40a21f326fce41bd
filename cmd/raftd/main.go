package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/xmh1011/raftd/param"
	"github.com/xmh1011/raftd/raft"
	"github.com/xmh1011/raftd/storage"
	grpctransport "github.com/xmh1011/raftd/transport/grpc"
)

// Config holds the server configuration
type Config struct {
	NodeID            int
	PeersStr          string
	MemberType        string
	DataDir           string
	StorageType       string
	ElectionTimeout   time.Duration
	HeartbeatInterval time.Duration
	SessionTimeout    time.Duration
}

var config Config

func main() {
	var rootCmd = &cobra.Command{
		Use:   "raftd",
		Short: "A replicated state machine server based on the Raft consensus protocol",
		Run:   runServer,
	}

	rootCmd.Flags().IntVar(&config.NodeID, "id", 1, "Member ID of this node")
	rootCmd.Flags().StringVar(&config.PeersStr, "peers", "1=127.0.0.1:8001,2=127.0.0.1:8002,3=127.0.0.1:8003", "Comma-separated list of member ID=Address pairs")
	rootCmd.Flags().StringVar(&config.MemberType, "type", "active", "Member type: active, passive or reserve")
	rootCmd.Flags().StringVar(&config.DataDir, "data", "raftd-data", "Directory to store server data")
	rootCmd.Flags().StringVar(&config.StorageType, "storage", storage.InmemoryStorage, "Storage type: inmemory or simplefile")
	rootCmd.Flags().DurationVar(&config.ElectionTimeout, "election-timeout", raft.DefaultElectionTimeout, "Follower election timeout")
	rootCmd.Flags().DurationVar(&config.HeartbeatInterval, "heartbeat-interval", raft.DefaultHeartbeatInterval, "Leader heartbeat interval")
	rootCmd.Flags().DurationVar(&config.SessionTimeout, "session-timeout", raft.DefaultSessionTimeout, "Client session expiry without keep-alive")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) {
	srv, err := NewServer(config)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	waitForSignal(srv)
}

// Server wires storage, transport and the coordinator together.
type Server struct {
	config  Config
	ctx     *raft.Context
	server  *grpctransport.Server
	trans   *grpctransport.Transport
	selfTyp param.MemberType
}

// NewServer creates a new Server instance
func NewServer(cfg Config) (*Server, error) {
	// 1. Parse the member list and find ourselves in it
	selfType, err := parseMemberType(cfg.MemberType)
	if err != nil {
		return nil, err
	}
	members, self, err := parseMembers(cfg.PeersStr, param.MemberID(cfg.NodeID), selfType)
	if err != nil {
		return nil, fmt.Errorf("failed to parse peers: %w", err)
	}

	// 2. Initialize storage
	store, err := storage.New(cfg.StorageType, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// 3. Initialize transport
	server, err := grpctransport.NewServer(self.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize transport: %w", err)
	}
	trans := grpctransport.NewTransport()

	// 4. Create the coordinator
	name := "raftd-" + strconv.Itoa(cfg.NodeID)
	ctx, err := raft.NewContext(name, self, members, store,
		func() storage.StateMachine { return storage.NewKVStateMachine() }, trans)
	if err != nil {
		server.Close()
		return nil, fmt.Errorf("failed to create coordinator: %w", err)
	}
	ctx.WithElectionTimeout(cfg.ElectionTimeout).
		WithHeartbeatInterval(cfg.HeartbeatInterval).
		WithSessionTimeout(cfg.SessionTimeout)

	return &Server{
		config:  cfg,
		ctx:     ctx,
		server:  server,
		trans:   trans,
		selfTyp: selfType,
	}, nil
}

// Start binds the dispatch surface and enters the configured base role.
func (s *Server) Start() error {
	s.ctx.ConnectServer(s.server.Connection())
	s.server.Start()

	if err := s.ctx.Executor().Submit(func() error {
		return s.ctx.TransitionMemberType(s.selfTyp)
	}); err != nil {
		return err
	}

	log.Infof("Member %d started as %s on %s", s.config.NodeID, s.config.MemberType, s.server.Addr())
	return nil
}

// Stop shuts everything down in dependency order.
func (s *Server) Stop() {
	log.Info("Shutting down...")
	if err := s.ctx.Close(); err != nil {
		log.Warnf("Failed to close coordinator: %v", err)
	}
	if err := s.server.Close(); err != nil {
		log.Warnf("Failed to close server: %v", err)
	}
	if err := s.trans.Close(); err != nil {
		log.Warnf("Failed to close transport: %v", err)
	}
	log.Info("Node stopped")
}

func waitForSignal(srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	srv.Stop()
}

func parseMemberType(s string) (param.MemberType, error) {
	switch strings.ToLower(s) {
	case "active":
		return param.MemberActive, nil
	case "passive":
		return param.MemberPassive, nil
	case "reserve":
		return param.MemberReserve, nil
	default:
		return param.MemberInactive, fmt.Errorf("unknown member type: %s", s)
	}
}

func parseMembers(peersStr string, selfID param.MemberID, selfType param.MemberType) ([]param.Member, param.Member, error) {
	var members []param.Member
	var self param.Member
	found := false

	for _, p := range strings.Split(peersStr, ",") {
		parts := strings.Split(p, "=")
		if len(parts) != 2 {
			return nil, self, fmt.Errorf("invalid peer format: %s", p)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, self, fmt.Errorf("invalid peer ID: %s", parts[0])
		}

		// 远端成员的类型本地无从得知，按 ACTIVE 记；加入集群后以
		// Leader 下发的配置为准。
		member := param.NewMember(param.MemberID(id), param.MemberActive, parts[1], "")
		if param.MemberID(id) == selfID {
			member.Type = selfType
			self = member
			found = true
		}
		members = append(members, member)
	}

	if !found {
		return nil, self, fmt.Errorf("my ID %d not found in peers list", selfID)
	}
	return members, self, nil
}
