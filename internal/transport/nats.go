package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/autostream-assistant/server/internal/agent/model"
	errx "github.com/autostream-assistant/server/internal/core/error"
	logx "github.com/autostream-assistant/server/pkg/logger"
)

const (
	StatusOK    = "ok"
	StatusError = "error"

	errorReply = "I'm sorry, I encountered an error processing your request. Please try again."
)

// TurnHandler processes one message for a session.
type TurnHandler interface {
	HandleMessage(ctx context.Context, sessionID, message string) (*model.TurnResult, error)
}

type TurnRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type TurnResponse struct {
	SessionID     string           `json:"session_id"`
	Reply         string           `json:"reply"`
	Intent        model.Intent     `json:"intent,omitempty"`
	Phase         model.Phase      `json:"phase,omitempty"`
	Lead          model.LeadFields `json:"lead"`
	LeadSubmitted bool             `json:"lead_submitted"`
	TurnCount     int              `json:"turn_count,omitempty"`
	Degraded      []string         `json:"degraded,omitempty"`
	Status        string           `json:"status"`
	ErrorCode     *string          `json:"error_code,omitempty"`
	ErrorMessage  *string          `json:"error_message,omitempty"`
}

// Connect dials NATS with reconnects enabled.
func Connect(cfg *model.NATSConfig, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.Timeout(10*time.Second),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logx.Warn().Err(err).Msg("disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logx.Info().Str("url", c.ConnectedUrl()).Msg("reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logx.Info().Str("url", cfg.URL).Msg("Connected to NATS server")
	return conn, nil
}

// NATSServer answers turn requests arriving on a subject. Replicas sharing a
// queue group split the requests between them.
type NATSServer struct {
	conn    *nats.Conn
	config  *model.NATSConfig
	handler TurnHandler
	sub     *nats.Subscription
}

func NewNATSServer(conn *nats.Conn, cfg *model.NATSConfig, handler TurnHandler) *NATSServer {
	return &NATSServer{conn: conn, config: cfg, handler: handler}
}

func (s *NATSServer) Start() error {
	sub, err := s.conn.QueueSubscribe(s.config.RequestSubject, s.config.QueueGroup, s.handleTurnRequest)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.config.RequestSubject, err)
	}
	s.sub = sub
	logx.Info().Str("subject", s.config.RequestSubject).Str("queue", s.config.QueueGroup).Msg("Subscribed to subject")
	return nil
}

func (s *NATSServer) handleTurnRequest(msg *nats.Msg) {
	ctx := context.Background()
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	data, err := json.Marshal(s.Handle(ctx, msg.Data))
	if err != nil {
		logx.Error().Err(err).Msg("failed to marshal response")
		return
	}
	if err := msg.Respond(data); err != nil {
		logx.Error().Err(err).Msg("failed to send response")
	}
}

// Handle decodes one request and runs it through the handler.
func (s *NATSServer) Handle(ctx context.Context, data []byte) *TurnResponse {
	var req TurnRequest
	if err := json.Unmarshal(data, &req); err != nil {
		logx.Warn().Err(err).Msg("Error parsing request")
		return errorResponse(req.SessionID, errx.InvalidRequest("invalid request format"))
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return errorResponse(req.SessionID, errx.InvalidRequest("session_id is required"))
	}

	logx.Debug().Str("session_id", req.SessionID).Msg("Processing turn request")

	result, err := s.handler.HandleMessage(ctx, req.SessionID, req.Message)
	if result == nil {
		if err == nil {
			err = fmt.Errorf("empty turn result")
		}
		logx.Error().Err(err).Str("session_id", req.SessionID).Msg("Error processing turn")
		return errorResponse(req.SessionID, err)
	}

	resp := &TurnResponse{
		SessionID:     req.SessionID,
		Reply:         result.Reply,
		Intent:        result.Intent,
		Phase:         result.Phase,
		Lead:          result.Lead,
		LeadSubmitted: result.LeadSubmitted,
		TurnCount:     result.TurnCount,
		Degraded:      result.Degraded,
		Status:        StatusOK,
	}
	if err != nil {
		// the turn completed but the lead could not be handed over
		code, message := errx.Code(err), errx.SafeMessage(err)
		resp.ErrorCode, resp.ErrorMessage = &code, &message
	}
	return resp
}

func errorResponse(sessionID string, err error) *TurnResponse {
	code, message := errx.Code(err), errx.SafeMessage(err)
	return &TurnResponse{
		SessionID:    sessionID,
		Reply:        errorReply,
		Status:       StatusError,
		ErrorCode:    &code,
		ErrorMessage: &message,
	}
}

func (s *NATSServer) Close() error {
	if s.sub != nil {
		if err := s.sub.Drain(); err != nil {
			logx.Warn().Err(err).Msg("failed to drain subscription")
		}
	}
	if s.conn != nil {
		if err := s.conn.Drain(); err != nil {
			s.conn.Close()
		}
		logx.Info().Msg("NATS connection closed")
	}
	return nil
}
