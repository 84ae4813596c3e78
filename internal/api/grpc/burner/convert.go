package burner

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/burner-alarm/internal/domain/alarm"
	"github.com/oshokin/burner-alarm/internal/service/scheduler"
)

// Struct field names shared by the server and clients.
const (
	fieldKind     = "kind"
	fieldEntity   = "entity"
	fieldAt       = "at"
	fieldMessage  = "message"
	fieldVolume   = "volume"
	fieldStarted  = "started_at"
	fieldPreWarn  = "pre_warned"
	fieldTerminal = "terminal_fired"
)

// AlertToStruct converts an alert to its wire form.
func AlertToStruct(alert alarm.Alert) *structpb.Struct {
	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			fieldKind:    structpb.NewStringValue(string(alert.Kind)),
			fieldEntity:  structpb.NewStringValue(string(alert.EntityID)),
			fieldAt:      structpb.NewNumberValue(float64(alert.At)),
			fieldMessage: structpb.NewStringValue(alert.Message),
			fieldVolume:  structpb.NewNumberValue(alert.Volume),
		},
	}
}

// AlertFromStruct converts the wire form back to an alert. Missing fields
// are left zero.
func AlertFromStruct(s *structpb.Struct) alarm.Alert {
	fields := s.GetFields()

	return alarm.Alert{
		Kind:     alarm.AlertKind(fields[fieldKind].GetStringValue()),
		EntityID: alarm.EntityID(fields[fieldEntity].GetStringValue()),
		At:       alarm.Reading(fields[fieldAt].GetNumberValue()),
		Message:  fields[fieldMessage].GetStringValue(),
		Volume:   fields[fieldVolume].GetNumberValue(),
	}
}

// StatusToStruct converts a scheduler snapshot to its wire form.
func StatusToStruct(status scheduler.Status) *structpb.Struct {
	entities := make([]*structpb.Value, 0, len(status.Entities))

	for _, e := range status.Entities {
		entities = append(entities, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				fieldEntity:   structpb.NewStringValue(string(e.ID)),
				fieldStarted:  structpb.NewNumberValue(float64(e.StartedAt)),
				fieldPreWarn:  structpb.NewBoolValue(e.PreWarned),
				fieldTerminal: structpb.NewBoolValue(e.TerminalFired),
			},
		}))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"now":                   structpb.NewNumberValue(float64(status.Now)),
			"skill_level":           structpb.NewNumberValue(float64(status.SkillLevel)),
			"terminal_threshold":    structpb.NewNumberValue(float64(status.TerminalThreshold)),
			"pre_warning_threshold": structpb.NewNumberValue(float64(status.PreWarningThreshold)),
			"ticks":                 structpb.NewNumberValue(float64(status.Ticks)),
			"settings": structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					"send_pre_warning":    structpb.NewBoolValue(status.Settings.SendPreWarning),
					"play_terminal_sound": structpb.NewBoolValue(status.Settings.PlayTerminalSound),
					"sound_volume":        structpb.NewNumberValue(status.Settings.SoundVolume),
					"pre_warning_lead":    structpb.NewNumberValue(float64(status.Settings.PreWarningLead)),
				},
			}),
			"timing": structpb.NewStructValue(&structpb.Struct{
				Fields: map[string]*structpb.Value{
					"mode":           structpb.NewStringValue(string(status.Timing.Mode)),
					"cooldown_ticks": structpb.NewNumberValue(float64(status.Timing.CooldownTicks)),
					"gating":         structpb.NewStringValue(string(status.Timing.Gating)),
					"eviction":       structpb.NewStringValue(string(status.Timing.Eviction)),
				},
			}),
			"entities": structpb.NewListValue(&structpb.ListValue{Values: entities}),
		},
	}
}
