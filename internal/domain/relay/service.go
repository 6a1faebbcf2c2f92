package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/infrastructure/metrics"
)

// Service handles the three realtime events. Each invocation is an
// independent, stateless unit of work; all connection state lives in the
// registry.
type Service struct {
	registry Registry
	pusher   Pusher
	log      zerolog.Logger
}

func NewService(registry Registry, pusher Pusher, log zerolog.Logger) *Service {
	return &Service{
		registry: registry,
		pusher:   pusher,
		log:      log.With().Str("component", "relay-service").Logger(),
	}
}

// HandleConnect registers a connection. The report id is not validated
// against report storage: an unknown report is still registered and simply
// never receives traffic.
func (s *Service) HandleConnect(ctx context.Context, event ConnectEvent) EventResponse {
	entry := &ConnectionEntry{
		ConnectionID: event.ConnectionID,
		ReportID:     event.ReportID,
		Role:         event.Role,
		ConnectedAt:  time.Now().UTC(),
	}
	if err := s.registry.Save(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("connection_id", event.ConnectionID).Msg("failed to register connection")
		return EventResponse{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}
	metrics.ConnectionsOpenedTotal.Inc()
	s.log.Debug().
		Str("connection_id", event.ConnectionID).
		Str("report_id", event.ReportID).
		Str("user_type", string(event.Role)).
		Msg("connection registered")
	return EventResponse{StatusCode: http.StatusOK}
}

// HandleDisconnect removes a connection. Deleting an absent id is a no-op.
func (s *Service) HandleDisconnect(ctx context.Context, event DisconnectEvent) EventResponse {
	if err := s.registry.DeleteByConnectionID(ctx, event.ConnectionID); err != nil {
		s.log.Error().Err(err).Str("connection_id", event.ConnectionID).Msg("failed to deregister connection")
		return EventResponse{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}
	s.log.Debug().Str("connection_id", event.ConnectionID).Msg("connection deregistered")
	return EventResponse{StatusCode: http.StatusOK}
}

// HandleMessage fans an inbound message out to every other live connection
// watching the same report. Delivery is best-effort and at-most-once per
// registered peer: peers reported gone are evicted, transient failures are
// left alone, and the call reports success once fan-out was attempted.
func (s *Service) HandleMessage(ctx context.Context, event MessageEvent) EventResponse {
	role := s.resolveRole(ctx, event)

	payload, err := json.Marshal(Envelope{
		Message:  event.Message,
		UserType: role,
		Sender:   role,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to encode relay envelope")
		return EventResponse{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}

	entries, err := s.registry.FindByReportID(ctx, event.ReportID)
	if err != nil {
		s.log.Error().Err(err).Str("report_id", event.ReportID).Msg("failed to list connections")
		return EventResponse{StatusCode: http.StatusInternalServerError, Error: err.Error()}
	}

	for _, entry := range entries {
		if entry.ConnectionID == event.ConnectionID {
			continue
		}
		result, pushErr := s.pusher.PushToConnection(ctx, entry.ConnectionID, payload)
		switch result {
		case PushOK:
			metrics.RelayDeliveriesTotal.WithLabelValues("ok").Inc()
		case PushGone:
			// Lazy cleanup: the registry is never proactively swept.
			metrics.RelayDeliveriesTotal.WithLabelValues("gone").Inc()
			if delErr := s.registry.DeleteByConnectionID(ctx, entry.ConnectionID); delErr != nil {
				s.log.Error().Err(delErr).Str("connection_id", entry.ConnectionID).Msg("failed to evict gone connection")
			} else {
				metrics.ConnectionsEvictedTotal.Inc()
				s.log.Info().Str("connection_id", entry.ConnectionID).Msg("evicted gone connection")
			}
		case PushTransient:
			metrics.RelayDeliveriesTotal.WithLabelValues("transient").Inc()
			s.log.Warn().Err(pushErr).Str("connection_id", entry.ConnectionID).Msg("transient delivery failure, entry kept")
		}
	}

	return EventResponse{StatusCode: http.StatusOK}
}

// resolveRole looks the sender up in the registry, falls back to the role in
// the event payload, and finally marks the sender UNKNOWN. A missing role is
// never a reason to drop the message.
func (s *Service) resolveRole(ctx context.Context, event MessageEvent) Role {
	entry, err := s.registry.FindByConnectionID(ctx, event.ConnectionID)
	if err != nil {
		s.log.Warn().Err(err).Str("connection_id", event.ConnectionID).Msg("sender lookup failed")
	}
	if entry != nil && entry.Role != "" {
		return entry.Role
	}
	if event.Role != "" {
		return event.Role
	}
	return RoleUnknown
}
