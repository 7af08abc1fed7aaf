package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/feel-lang/feel/pkg/embed"
)

// Client invokes a remote FeelService over a grpc.ClientConn using dynamic
// messages, mirroring the teacher's grpcInvoke but against FEEL's own fixed
// service rather than an arbitrary loaded proto.
type Client struct {
	conn   grpc.ClientConnInterface
	mapper embed.Mapper
}

func NewClient(conn grpc.ClientConnInterface, mapper embed.Mapper) *Client {
	if mapper == nil {
		mapper = embed.DefaultMapper{}
	}
	return &Client{conn: conn, mapper: mapper}
}

// EvaluateResponse mirrors feel.Result, decoded back out of the wire
// EvaluateResult message.
type EvaluateResponse struct {
	Success   bool
	Value     interface{}
	Message   string
	Warnings  []Warning
	RequestID string
}

type Warning struct {
	Message string
	Kind    string
}

func (c *Client) Evaluate(ctx context.Context, expression string, variables map[string]interface{}) (EvaluateResponse, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return EvaluateResponse{}, err
	}
	method := sd.FindMethodByName("Evaluate")

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("expression", expression)
	if variables != nil {
		st, err := structpb.NewStruct(variables)
		if err != nil {
			return EvaluateResponse{}, fmt.Errorf("encode variables: %w", err)
		}
		req.SetFieldByName("variables", st)
	}

	resp := dynamic.NewMessage(method.GetOutputType())
	if err := c.conn.Invoke(ctx, "/"+serviceFullName+"/Evaluate", req, resp); err != nil {
		return EvaluateResponse{}, err
	}
	return decodeResult(resp)
}

func (c *Client) EvaluateUnaryTests(ctx context.Context, expression string, input interface{}, variables map[string]interface{}) (EvaluateResponse, error) {
	sd, err := ServiceDescriptor()
	if err != nil {
		return EvaluateResponse{}, err
	}
	method := sd.FindMethodByName("EvaluateUnaryTests")

	req := dynamic.NewMessage(method.GetInputType())
	req.SetFieldByName("expression", expression)
	if input != nil {
		pv, err := structpb.NewValue(input)
		if err != nil {
			return EvaluateResponse{}, fmt.Errorf("encode input: %w", err)
		}
		req.SetFieldByName("input", pv)
	}
	if variables != nil {
		st, err := structpb.NewStruct(variables)
		if err != nil {
			return EvaluateResponse{}, fmt.Errorf("encode variables: %w", err)
		}
		req.SetFieldByName("variables", st)
	}

	resp := dynamic.NewMessage(method.GetOutputType())
	if err := c.conn.Invoke(ctx, "/"+serviceFullName+"/EvaluateUnaryTests", req, resp); err != nil {
		return EvaluateResponse{}, err
	}
	return decodeResult(resp)
}

func decodeResult(resp *dynamic.Message) (EvaluateResponse, error) {
	out := EvaluateResponse{
		Success:   resp.GetFieldByName("success").(bool),
		Message:   resp.GetFieldByName("message").(string),
		RequestID: resp.GetFieldByName("request_id").(string),
	}
	if v, ok := resp.GetFieldByName("value").(*structpb.Value); ok && v != nil {
		out.Value = v.AsInterface()
	}
	warnings, _ := resp.GetFieldByName("warnings").([]interface{})
	for _, w := range warnings {
		wm, ok := w.(*dynamic.Message)
		if !ok {
			continue
		}
		out.Warnings = append(out.Warnings, Warning{
			Message: fmt.Sprint(wm.GetFieldByName("message")),
			Kind:    fmt.Sprint(wm.GetFieldByName("kind")),
		})
	}
	return out, nil
}
