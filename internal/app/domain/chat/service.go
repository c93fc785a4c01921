package chat

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/routemethod/routemethod/internal/app/itinerary"
	"github.com/routemethod/routemethod/internal/app/markdown"
	"github.com/routemethod/routemethod/internal/app/models"
	"github.com/routemethod/routemethod/internal/app/observability/metrics"
	"github.com/routemethod/routemethod/internal/app/session"
)

// RefinementLimitMessage is returned verbatim, without a model call, once the
// session's refinement budget is spent.
const RefinementLimitMessage = "You've reached the refinement limit for this itinerary. Your final plan is ready to save or export."

// Streamer produces the assistant's reply for one chat turn, invoking onChunk
// for each text fragment as it arrives and returning the full accumulated
// reply. history excludes the message being sent.
type Streamer interface {
	StreamMessage(ctx context.Context, history []models.Message, message string, onChunk func(text string) error) (string, error)
}

// Service owns a chat turn end to end: refinement gating, model streaming,
// and session bookkeeping once the reply has fully arrived.
type Service struct {
	streamer       Streamer
	detector       *itinerary.Detector
	maxRefinements int
	logger         *zap.Logger
}

func NewService(streamer Streamer, detector *itinerary.Detector, maxRefinements int, logger *zap.Logger) *Service {
	return &Service{
		streamer:       streamer,
		detector:       detector,
		maxRefinements: maxRefinements,
		logger:         logger,
	}
}

// Detector exposes the service's classifier for callers that segment
// assistant output outside a chat turn.
func (s *Service) Detector() *itinerary.Detector {
	return s.detector
}

// StreamChat runs one conversation turn against sess, emitting StreamEvents
// on events until a Done or Error event closes the turn. The user message is
// recorded before the model call; the assistant message is recorded only once
// the full reply has streamed, so a dropped stream never leaves a half reply
// in the history.
func (s *Service) StreamChat(ctx context.Context, sess *session.Session, message string, events chan<- models.StreamEvent) {
	history := sess.Messages()
	sess.AppendUserMessage(message)

	if !sess.ConsumeRefinement(s.maxRefinements) {
		s.logger.Info("Refinement cap reached",
			zap.String("sessionID", sess.ID.String()),
			zap.Int("refinementsUsed", sess.RefinementsUsed()))
		if m := metrics.Get(); m != nil {
			m.RefinementsRejectedTotal.Add(ctx, 1)
		}
		sess.AppendAssistantMessage(RefinementLimitMessage, s.detector)
		if send(ctx, events, models.StreamEvent{Text: RefinementLimitMessage}) {
			send(ctx, events, models.StreamEvent{Done: true})
		}
		return
	}

	if m := metrics.Get(); m != nil {
		m.ChatTurnsTotal.Add(ctx, 1)
	}

	full, err := s.streamer.StreamMessage(ctx, history, message, func(text string) error {
		if m := metrics.Get(); m != nil {
			m.StreamChunksTotal.Add(ctx, 1)
		}
		if !send(ctx, events, models.StreamEvent{Text: text}) {
			return ctx.Err()
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Chat stream failed",
			zap.String("sessionID", sess.ID.String()),
			zap.Error(err))
		send(ctx, events, models.StreamEvent{Error: "Failed to get response"})
		return
	}

	sess.AppendAssistantMessage(full, s.detector)
	if s.detector.IsItinerary(full) {
		if m := metrics.Get(); m != nil {
			m.ItinerariesDetectedTotal.Add(ctx, 1)
		}
	}
	send(ctx, events, models.StreamEvent{Done: true})
}

// send delivers ev unless the turn's context is gone. Without the guard a
// producer could block forever on a full buffer after the SSE reader exits.
func send(ctx context.Context, events chan<- models.StreamEvent, ev models.StreamEvent) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// RenderMessage turns one raw assistant message into its display payload.
// Itinerary-bearing messages are split into regions and each region rendered
// separately; everything else renders as a single HTML block. Questions are
// extracted from the full message regardless of classification.
func (s *Service) RenderMessage(ctx context.Context, content string) models.RenderedMessage {
	start := time.Now()
	defer func() {
		if m := metrics.Get(); m != nil {
			m.RenderDurationSeconds.Record(ctx, time.Since(start).Seconds())
		}
	}()

	out := models.RenderedMessage{
		Questions: itinerary.ExtractQuestions(content),
	}

	if !s.detector.IsItinerary(content) {
		out.HTML = markdown.Render(content)
		return out
	}

	seg := s.detector.Segment(content)
	out.IsItinerary = true
	if seg.Before != "" {
		out.Before = markdown.Render(seg.Before)
	}
	out.Itinerary = markdown.Render(seg.Itinerary)
	if seg.After != "" {
		out.After = markdown.Render(seg.After)
	}
	return out
}

// PlacesByDay resolves place names against the day assignments extracted
// from the latest itinerary. With no explicit names the session's saved
// places are used. Places the itinerary never mentioned come back with an
// empty day.
func (s *Service) PlacesByDay(sess *session.Session, names []string) []models.PlaceDay {
	assignments := sess.DayAssignments()
	if len(names) == 0 {
		names = sess.TripData().PlaceNames()
	}
	out := make([]models.PlaceDay, 0, len(names))
	for _, name := range names {
		row := models.PlaceDay{Name: name, Label: placeLabel(name)}
		if day, ok := assignments.DayFor(name); ok {
			row.Day = day
		}
		out = append(out, row)
	}
	return out
}
