// Package burner implements the gRPC transport for the burner alarm.
//
// The service is declared by hand over protobuf well-known types, so no
// generated code is needed: entity ids and reasons travel as StringValue,
// tick numbers and skill levels as Int64Value, status and alerts as Struct.
package burner
