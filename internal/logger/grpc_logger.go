package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// message flattens a protobuf message through its JSON form; anything else is
// logged with %v.
func (s *attrSet) message(key string, m any) {
	if m == nil {
		return
	}
	pm, ok := m.(proto.Message)
	if !ok {
		s.str(key, redact(key, fmt.Sprintf("%v", m)))
		return
	}
	b, err := protojson.Marshal(pm)
	if err != nil {
		s.str(key+".error", err.Error())
		return
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		s.str(key, string(b))
		return
	}
	flattenJSON(s.prefix+"."+key, v, &s.attrs)
}

func callAttrs(fullMethod, direction string, size int) *attrSet {
	s := newAttrSet("grpc", size)
	s.str("direction", direction)
	s.str("method", fullMethod)
	return s
}

// LogGRPCRequest builds attributes for a unary request. fullMethod is
// "/package.Service/Method"; metadata goes through the same allow-list as HTTP headers.
func LogGRPCRequest(ctx context.Context, fullMethod string, md metadata.MD, req any, direction string) []slog.Attr {
	s := callAttrs(fullMethod, direction, 16)
	s.headers(md)
	s.message("request", req)
	return s.attrs
}

func LogGRPCResponse(ctx context.Context, fullMethod string, code codes.Code, resp any, duration time.Duration, direction string) []slog.Attr {
	s := callAttrs(fullMethod, direction, 16)
	s.str("code", code.String())
	s.add(slog.Int64("grpc.duration_ms", duration.Milliseconds()))
	s.message("response", resp)
	return s.attrs
}
