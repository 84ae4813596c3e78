package burner

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/logger"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// DefaultResetReason is used when a Reset request carries no reason.
const DefaultResetReason = "requested"

// Service abstracts the scheduler operations the transport depends on.
type Service interface {
	OnStart(ctx context.Context, id alarm.EntityID)
	OnEnd(ctx context.Context, id alarm.EntityID) bool
	OnReset(ctx context.Context, source scheduler.ResetSource, reason string)
	TickAt(ctx context.Context, hostTick int64) []alarm.Alert
	Status() scheduler.Status
}

// SkillSetter accepts skill level updates.
type SkillSetter interface {
	Set(level int64)
}

// Server implements BurnerAlarmServer on top of a Service.
type Server struct {
	// service runs the scheduler operations.
	service Service
	// skill receives SetSkillLevel updates; nil rejects them.
	skill SkillSetter
	// hub feeds WatchAlerts; nil rejects watchers.
	hub *Hub
}

// NewServer wires the provided service into a gRPC handler.
func NewServer(service Service, skill SkillSetter, hub *Hub) *Server {
	return &Server{
		service: service,
		skill:   skill,
		hub:     hub,
	}
}

// Register adds the server to a gRPC server.
func (s *Server) Register(r grpc.ServiceRegistrar) {
	RegisterBurnerAlarmServer(r, s)
}

// StartTracking begins timing an entity.
func (s *Server) StartTracking(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id, err := entityID(in)
	if err != nil {
		return nil, err
	}

	s.service.OnStart(ctx, id)

	return new(emptypb.Empty), nil
}

// EndTracking stops timing an entity. Unknown ids are not an error.
func (s *Server) EndTracking(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	id, err := entityID(in)
	if err != nil {
		return nil, err
	}

	return wrapperspb.Bool(s.service.OnEnd(ctx, id)), nil
}

// Reset drops every tracked entity.
func (s *Server) Reset(ctx context.Context, in *wrapperspb.StringValue) (*emptypb.Empty, error) {
	reason := strings.TrimSpace(in.GetValue())
	if reason == "" {
		reason = DefaultResetReason
	}

	s.service.OnReset(ctx, scheduler.ResetRPC, reason)

	return new(emptypb.Empty), nil
}

// Tick runs one evaluation pass. Zero advances the clock one step; a
// positive value is the host's tick number.
func (s *Server) Tick(ctx context.Context, in *wrapperspb.Int64Value) (*wrapperspb.Int64Value, error) {
	if in.GetValue() < 0 {
		return nil, status.Error(codes.InvalidArgument, "host tick must not be negative")
	}

	alerts := s.service.TickAt(ctx, in.GetValue())

	return wrapperspb.Int64(int64(len(alerts))), nil
}

// SetSkillLevel updates the skill level read by later passes.
func (s *Server) SetSkillLevel(ctx context.Context, in *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if s.skill == nil {
		return nil, status.Error(codes.FailedPrecondition, "skill level is not settable")
	}

	if in.GetValue() < 0 {
		return nil, status.Error(codes.InvalidArgument, "skill level must not be negative")
	}

	s.skill.Set(in.GetValue())
	logger.DebugKV(ctx, "Skill level set", "level", in.GetValue())

	return new(emptypb.Empty), nil
}

// GetStatus returns a scheduler snapshot.
func (s *Server) GetStatus(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return StatusToStruct(s.service.Status()), nil
}

// WatchAlerts streams alerts until the client disconnects or the hub closes.
func (s *Server) WatchAlerts(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	if s.hub == nil {
		return status.Error(codes.Unimplemented, "alert watching is disabled")
	}

	ctx := stream.Context()

	alerts, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()

	logger.Debug(ctx, "Alert watcher connected")

	for {
		select {
		case <-ctx.Done():
			return nil
		case alert, ok := <-alerts:
			if !ok {
				logger.Debug(ctx, "Alert hub closed, ending watch")

				return nil
			}

			if err := stream.Send(AlertToStruct(alert)); err != nil {
				return err
			}
		}
	}
}

// entityID validates the entity id in a request.
func entityID(in *wrapperspb.StringValue) (alarm.EntityID, error) {
	id := strings.TrimSpace(in.GetValue())
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "entity id is required")
	}

	return alarm.EntityID(id), nil
}
