// Package rpc exposes the FEEL engine as a gRPC service (SPEC_FULL.md §2
// "google.golang.org/grpc + jhump/protoreflect -> internal/rpc: FeelService
// façade using protobuf Struct/Value + protoreflect"), grounded on the
// teacher's dynamic-message dispatch in
// funvibe-funxy/internal/evaluator/builtins_grpc.go (grpcServer /
// grpcRegister / FunxyGrpcHandler), specialized from "invoke any loaded
// .proto service" down to FEEL's own fixed two-method schema.
package rpc

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/feel-lang/feel/internal/evaluator"
	"github.com/feel-lang/feel/pkg/embed"
	"github.com/feel-lang/feel/pkg/feel"
)

//go:embed feel.proto
var protoSource string

const serviceFullName = "feel.v1.FeelService"

// descriptorOnce caches the parsed service descriptor; parsing is pure and
// the source is embedded, so every caller gets the same result.
var descriptorOnce struct {
	sd  *desc.ServiceDescriptor
	err error
}

// ServiceDescriptor parses feel.proto (embedded at build time) and returns
// the FeelService descriptor, memoized after the first call.
func ServiceDescriptor() (*desc.ServiceDescriptor, error) {
	if descriptorOnce.sd != nil || descriptorOnce.err != nil {
		return descriptorOnce.sd, descriptorOnce.err
	}
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{"feel.proto": protoSource}),
	}
	fds, err := parser.ParseFiles("feel.proto")
	if err != nil {
		descriptorOnce.err = fmt.Errorf("parse feel.proto: %w", err)
		return nil, descriptorOnce.err
	}
	sd := fds[0].FindService(serviceFullName)
	if sd == nil {
		descriptorOnce.err = fmt.Errorf("service %s not found after parsing feel.proto", serviceFullName)
		return nil, descriptorOnce.err
	}
	descriptorOnce.sd = sd
	return sd, nil
}

// Server adapts an *feel.Engine to the FeelService gRPC contract.
type Server struct {
	grpcServer *grpc.Server
	engine     *feel.Engine
	mapper     embed.Mapper
}

// NewServer builds a Server backed by engine, converting host values with
// mapper (embed.NewChain(...) or embed.DefaultMapper{} if mapper is nil).
func NewServer(engine *feel.Engine, mapper embed.Mapper) (*Server, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return nil, err
	}
	if mapper == nil {
		mapper = embed.DefaultMapper{}
	}

	s := &Server{grpcServer: grpc.NewServer(), engine: engine, mapper: mapper}

	desc := &grpc.ServiceDesc{
		ServiceName: serviceFullName,
		HandlerType: (*interface{})(nil),
		Metadata:    "feel.proto",
		Methods: []grpc.MethodDesc{
			{
				MethodName: "Evaluate",
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					return srv.(*Server).handleEvaluate(ctx, sd, dec)
				},
			},
			{
				MethodName: "EvaluateUnaryTests",
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpc.UnaryServerInterceptor) (interface{}, error) {
					return srv.(*Server).handleEvaluateUnaryTests(ctx, sd, dec)
				},
			},
		},
	}
	s.grpcServer.RegisterService(desc, s)
	return s, nil
}

// GRPCServer exposes the underlying *grpc.Server for callers that need
// reflection registration, interceptors, or net.Listener-based Serve.
func (s *Server) GRPCServer() *grpc.Server { return s.grpcServer }

func (s *Server) GracefulStop() { s.grpcServer.GracefulStop() }

func (s *Server) handleEvaluate(_ context.Context, sd *desc.ServiceDescriptor, dec func(interface{}) error) (interface{}, error) {
	method := sd.FindMethodByName("Evaluate")
	req := dynamic.NewMessage(method.GetInputType())
	if err := dec(req); err != nil {
		return nil, err
	}

	expr, _ := req.GetFieldByName("expression").(string)
	vars, err := structToVariables(s.mapper, req.GetFieldByName("variables"))
	if err != nil {
		return nil, err
	}

	result := s.engine.EvaluateExpression(expr, vars)
	return s.buildResult(method, result)
}

func (s *Server) handleEvaluateUnaryTests(_ context.Context, sd *desc.ServiceDescriptor, dec func(interface{}) error) (interface{}, error) {
	method := sd.FindMethodByName("EvaluateUnaryTests")
	req := dynamic.NewMessage(method.GetInputType())
	if err := dec(req); err != nil {
		return nil, err
	}

	expr, _ := req.GetFieldByName("expression").(string)
	vars, err := structToVariables(s.mapper, req.GetFieldByName("variables"))
	if err != nil {
		return nil, err
	}
	input, err := valueToInternal(s.mapper, req.GetFieldByName("input"))
	if err != nil {
		return nil, err
	}

	result := s.engine.EvaluateUnaryTests(expr, input, vars)
	return s.buildResult(method, result)
}

func (s *Server) buildResult(method *desc.MethodDescriptor, result feel.Result) (*dynamic.Message, error) {
	resp := dynamic.NewMessage(method.GetOutputType())
	resp.SetFieldByName("success", result.Success)
	resp.SetFieldByName("message", result.Message)
	resp.SetFieldByName("request_id", result.RequestID)

	if result.Success {
		ev, _ := result.Value.(evaluator.Value)
		host, ok := s.mapper.FromInternal(ev)
		if !ok {
			return nil, fmt.Errorf("no mapper could convert evaluation result (%T)", ev)
		}
		pv, err := structpb.NewValue(host)
		if err != nil {
			return nil, fmt.Errorf("encode result as protobuf Value: %w", err)
		}
		resp.SetFieldByName("value", pv)
	}

	warnMsgType, err := warningMessageType(method)
	if err == nil {
		for _, w := range result.Warnings {
			wm := dynamic.NewMessage(warnMsgType)
			wm.SetFieldByName("message", w.Message)
			wm.SetFieldByName("kind", string(w.Kind))
			resp.AddRepeatedFieldByName("warnings", wm)
		}
	}

	return resp, nil
}

func warningMessageType(method *desc.MethodDescriptor) (*desc.MessageDescriptor, error) {
	fd := method.GetOutputType().FindFieldByName("warnings")
	if fd == nil || fd.GetMessageType() == nil {
		return nil, fmt.Errorf("warnings field not found on %s", method.GetOutputType().GetFullyQualifiedName())
	}
	return fd.GetMessageType(), nil
}

// structToVariables converts a decoded "variables" field (a *structpb.Struct
// when the dynamic library preserves the well-known type verbatim, or a
// *dynamic.Message mirroring google.protobuf.Struct otherwise) into the
// evaluator.Value map the engine façade wants.
func structToVariables(mapper embed.Mapper, raw interface{}) (map[string]evaluator.Value, error) {
	if raw == nil {
		return nil, nil
	}
	var asMap map[string]interface{}
	switch v := raw.(type) {
	case *structpb.Struct:
		asMap = v.AsMap()
	case *dynamic.Message:
		fields, ok := v.GetFieldByName("fields").(map[string]*structpb.Value)
		if !ok {
			return nil, nil
		}
		asMap = make(map[string]interface{}, len(fields))
		for k, fv := range fields {
			asMap[k] = fv.AsInterface()
		}
	default:
		return nil, fmt.Errorf("unexpected variables representation %T", raw)
	}
	return embed.ToVariables(mapper, asMap)
}

func valueToInternal(mapper embed.Mapper, raw interface{}) (evaluator.Value, error) {
	if raw == nil {
		return evaluator.NullValue, nil
	}
	pv, ok := raw.(*structpb.Value)
	if !ok {
		return nil, fmt.Errorf("unexpected input representation %T", raw)
	}
	iv, ok := mapper.ToInternal(pv.AsInterface())
	if !ok {
		return nil, fmt.Errorf("no mapper could convert RPC input value")
	}
	return iv, nil
}

// NewRequestID is exposed so callers building requests out-of-band (such
// as tests) can stamp a correlation id consistent with the
// one the engine façade would generate.
func NewRequestID() string { return uuid.NewString() }
