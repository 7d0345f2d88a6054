package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bayan-ai-be/internal/dto"
	"bayan-ai-be/internal/pkg/logger"
	"bayan-ai-be/internal/repository/memory"
	"bayan-ai-be/pkg/events"
	"bayan-ai-be/pkg/rag/executor"
	"bayan-ai-be/pkg/rag/intent"
	"bayan-ai-be/pkg/rag/response"
	"bayan-ai-be/pkg/store"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TypeSessionReset is published when a conversation is cleared
const TypeSessionReset = "chat.session_reset"

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	HandleTurn(ctx context.Context, text string, sessionID string) string
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	ResetSession(ctx context.Context, sessionID string) error
}

// TurnExecutor applies a routed decision to a locked session state
type TurnExecutor interface {
	Execute(ctx context.Context, d intent.Decision, text string, st *store.SessionState) (executor.Reply, error)
}

type chatbotService struct {
	sessions  *memory.SessionRepository
	router    intent.Router
	executor  TurnExecutor
	publisher IPublisherService
	logger    logger.ILogger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewChatbotService(
	sessions *memory.SessionRepository,
	router intent.Router,
	turnExecutor TurnExecutor,
	publisher IPublisherService,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		sessions:  sessions,
		router:    router,
		executor:  turnExecutor,
		publisher: publisher,
		logger:    log,
		tracer:    otel.Tracer("bayan-ai-be/chatbot"),
		now:       time.Now,
	}
}

func (s *chatbotService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	id := uuid.NewString()
	_, release := s.sessions.Acquire(id)
	release()

	s.logger.Info("Chatbot", "Session created", map[string]interface{}{"session_id": id})
	return &dto.CreateSessionResponse{SessionId: id}, nil
}

// HandleTurn processes one utterance and always returns reply text. Failures
// and panics below this point are converted to user-facing messages here.
func (s *chatbotService) HandleTurn(ctx context.Context, text string, sessionID string) (reply string) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "chatbot.HandleTurn", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return response.MsgEmptyInput
	}

	st, release := s.sessions.Acquire(sessionID)
	defer release()

	evt := events.NewTurnCompleted(sessionID, text, "", start)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Chatbot", "Turn panicked", map[string]interface{}{
				"session_id": sessionID,
				"panic":      fmt.Sprint(r),
			})
			span.SetStatus(codes.Error, "panic")
			evt.Failure = response.FailureInternal.String()
			reply = response.MsgInternal
		}

		evt.Shown = st.Shown
		evt.Total = st.Total()
		evt.Duration = s.now().Sub(start).Milliseconds()
		// failed turns leave the session untouched; the event still carries them
		if evt.Failure == "" {
			st.Record(text, evt.Action, start)
		}
		s.publish(ctx, evt)

		s.logger.Info("Chatbot", "Turn completed", map[string]interface{}{
			"session_id":  sessionID,
			"action":      evt.Action,
			"failure":     evt.Failure,
			"rendered":    evt.Rendered,
			"shown":       evt.Shown,
			"total":       evt.Total,
			"duration_ms": evt.Duration,
		})
	}()

	d, err := s.router.Route(ctx, text, st)
	if err != nil {
		s.logger.Warn("Chatbot", "Routing failed, starting a new search", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		d = intent.New{}
	}
	d = intent.Resolve(d, text, st)
	evt.Action = string(d.Action())
	span.SetAttributes(attribute.String("turn.action", evt.Action))

	out, err := s.executor.Execute(ctx, d, text, st)
	if err != nil {
		var f *executor.Failure
		if !errors.As(err, &f) {
			f = &executor.Failure{Kind: response.FailureInternal, Reason: "execute", Err: err}
		}
		evt.Failure = f.Kind.String()

		details := map[string]interface{}{
			"session_id": sessionID,
			"kind":       f.Kind.String(),
			"error":      f.Error(),
		}
		if f.Kind == response.FailureRetrieval || f.Kind == response.FailureInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, f.Kind.String())
			s.logger.Error("Chatbot", "Turn failed", details)
		} else {
			s.logger.Debug("Chatbot", "Turn ended without results", details)
		}
		return f.Text()
	}

	evt.Rendered = out.Rendered
	return out.Text
}

func (s *chatbotService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	st := s.sessions.Get(sessionID)

	res := &dto.SessionResponse{
		SessionId:   st.ID,
		ActiveTopic: st.Topic(),
		Shown:       st.Shown,
		Cursor:      st.Cursor,
		Total:       st.Total(),
		Focus:       make([]string, 0, len(st.LastFocus)),
		History:     make([]dto.TurnResponse, 0, len(st.History)),
	}
	for _, src := range st.LastFocus {
		res.Focus = append(res.Focus, string(src))
	}
	for _, t := range st.History {
		res.History = append(res.History, dto.TurnResponse{Text: t.Text, Action: t.Action, At: t.At})
	}
	if !st.UpdatedAt.IsZero() {
		updatedAt := st.UpdatedAt
		res.UpdatedAt = &updatedAt
	}
	return res, nil
}

func (s *chatbotService) ResetSession(ctx context.Context, sessionID string) error {
	s.sessions.Reset(sessionID)

	at := s.now()
	id := uuid.NewString()
	s.publish(ctx, events.BaseEvent{
		ID:   id,
		Type: TypeSessionReset,
		Data: map[string]interface{}{
			"id":         id,
			"session_id": sessionID,
			"at":         at.Format(time.RFC3339Nano),
		},
		OccurredAt: at,
	})
	s.logger.Info("Chatbot", "Session reset", map[string]interface{}{"session_id": sessionID})
	return nil
}

func (s *chatbotService) publish(ctx context.Context, evt events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("Chatbot", "Failed to publish event", map[string]interface{}{
			"event_type": evt.EventType(),
			"error":      err.Error(),
		})
	}
}
