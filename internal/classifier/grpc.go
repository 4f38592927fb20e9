package classifier

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	classifyMethod = "/combos.Classifier/Classify"
	patternsMethod = "/combos.Classifier/Patterns"
)

// ClassifierServer is the gRPC surface of the Service. Classify takes the legs as a list of
// leg strings and returns a struct with name, order, legs and elapsed nanoseconds.
type ClassifierServer interface {
	Classify(ctx context.Context, legs *structpb.ListValue) (*structpb.Struct, error)
	Patterns(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error)
}

var classifierServiceDesc = grpc.ServiceDesc{
	ServiceName: "combos.Classifier",
	HandlerType: (*ClassifierServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Classify", Handler: classifyHandler},
		{MethodName: "Patterns", Handler: patternsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "combos.proto",
}

func RegisterClassifierServer(s grpc.ServiceRegistrar, srv ClassifierServer) {
	s.RegisterService(&classifierServiceDesc, srv)
}

func classifyHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassifierServer).Classify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: classifyMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClassifierServer).Classify(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}

func patternsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassifierServer).Patterns(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: patternsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClassifierServer).Patterns(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

type grpcServer struct {
	service *Service
}

func (s grpcServer) Classify(ctx context.Context, legs *structpb.ListValue) (*structpb.Struct, error) {
	lines := make([]string, 0, len(legs.GetValues()))
	for i, v := range legs.GetValues() {
		leg, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, status.Errorf(codes.InvalidArgument, "leg %d is not a string", i+1)
		}
		lines = append(lines, leg.StringValue)
	}
	r, err := s.service.ClassifyLines(lines)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return toStruct(r)
}

func (s grpcServer) Patterns(ctx context.Context, in *emptypb.Empty) (*structpb.ListValue, error) {
	return structpb.NewList(anyStrings(s.service.Patterns()))
}

// NewGRPCServer creates a gRPC server exposing the service
func NewGRPCServer(service *Service, log zerolog.Logger) *grpc.Server {
	log = log.With().Str("component", "grpc").Logger()
	srv := grpc.NewServer(grpc.UnaryInterceptor(func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err != nil {
			log.Warn().Str("method", info.FullMethod).Err(err).Msg("call failed")
		}
		return resp, err
	}))
	RegisterClassifierServer(srv, grpcServer{service: service})
	return srv
}

// StartGRPCServer listens on addr and serves in the background
func StartGRPCServer(addr string, service *Service, log zerolog.Logger) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := NewGRPCServer(service, log)
	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Error().Err(err).Msg("grpc server failed")
		}
	}()
	return srv, nil
}

// GRPCClient calls a remote classifier
type GRPCClient struct {
	cc grpc.ClientConnInterface
}

func NewGRPCClient(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{cc: cc}
}

func (c *GRPCClient) Classify(ctx context.Context, legs []string) (Result, error) {
	in, err := structpb.NewList(anyStrings(legs))
	if err != nil {
		return Result{}, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, classifyMethod, in, out); err != nil {
		return Result{}, err
	}
	return fromStruct(out), nil
}

func (c *GRPCClient) Patterns(ctx context.Context) ([]string, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, patternsMethod, new(emptypb.Empty), out); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(out.GetValues()))
	for _, v := range out.GetValues() {
		names = append(names, v.GetStringValue())
	}
	return names, nil
}

func anyStrings(s []string) []any {
	values := make([]any, len(s))
	for i, v := range s {
		values[i] = v
	}
	return values
}

func toStruct(r Result) (*structpb.Struct, error) {
	order := make([]any, len(r.Order))
	for i, v := range r.Order {
		order[i] = v
	}
	return structpb.NewStruct(map[string]any{
		"name":    r.Name,
		"order":   order,
		"legs":    anyStrings(r.Legs),
		"elapsed": r.Elapsed.Nanoseconds(),
	})
}

func fromStruct(s *structpb.Struct) Result {
	fields := s.GetFields()
	r := Result{
		Name:    fields["name"].GetStringValue(),
		Elapsed: time.Duration(fields["elapsed"].GetNumberValue()),
	}
	for _, v := range fields["order"].GetListValue().GetValues() {
		r.Order = append(r.Order, int(v.GetNumberValue()))
	}
	for _, v := range fields["legs"].GetListValue().GetValues() {
		r.Legs = append(r.Legs, v.GetStringValue())
	}
	return r
}
