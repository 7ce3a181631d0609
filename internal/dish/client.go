package dish

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/R167/starnmea/internal/output"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/reflection/grpc_reflection_v1alpha"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	dialTimeoutDuration = 5 * time.Second
	requestTimeout      = 10 * time.Second

	deviceService = "SpaceX.API.Device.Device"
	handleMethod  = "/SpaceX.API.Device.Device/Handle"
)

// Request-field variants tried in order when building a Handle request. The
// dish firmware has shipped both spellings over time, so the client probes
// the message descriptor instead of hardcoding one.
var (
	locationFields = []string{"get_location", "dish_get_location"}
	statusFields   = []string{"get_status", "dish_get_status"}
)

// Client provides access to the dish location API using native gRPC with
// server reflection; no vendored proto definitions are required.
type Client struct {
	endpoint   string
	conn       *grpc.ClientConn
	reflClient grpc_reflection_v1alpha.ServerReflectionClient
	out        output.Output
}

// NewClient creates a new dish client
func NewClient(endpoint string, out output.Output) (*Client, error) {
	out.Debug("connecting to dish at %s", endpoint)

	// Test connectivity first; grpc dials lazily and would otherwise hide
	// an unreachable dish until the first call times out.
	tcpConn, err := net.DialTimeout("tcp", endpoint, dialTimeoutDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	tcpConn.Close()

	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client: %w", err)
	}

	return &Client{
		endpoint:   endpoint,
		conn:       conn,
		reflClient: grpc_reflection_v1alpha.NewServerReflectionClient(conn),
		out:        out,
	}, nil
}

// Close closes the gRPC connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// GetLocation invokes the dish "get location" operation and returns the
// decoded response payload.
func (c *Client) GetLocation(ctx context.Context) (map[string]any, error) {
	return c.handle(ctx, locationFields)
}

// GetStatus invokes the dish "get status" operation and returns the decoded
// response payload.
func (c *Client) GetStatus(ctx context.Context) (map[string]any, error) {
	return c.handle(ctx, statusFields)
}

// handle resolves the Device service via reflection, builds a Handle request
// with the first supported field variant, invokes it, and decodes the
// response through protojson.
func (c *Client) handle(ctx context.Context, fieldVariants []string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	serviceDesc, err := c.resolveService(ctx, deviceService)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service: %w", err)
	}

	method := serviceDesc.Methods().ByName("Handle")
	if method == nil {
		return nil, fmt.Errorf("Handle method not found")
	}

	reqDesc := method.Input()
	req := dynamicpb.NewMessage(reqDesc)

	var field protoreflect.FieldDescriptor
	for _, name := range fieldVariants {
		if f := reqDesc.Fields().ByName(protoreflect.Name(name)); f != nil {
			field = f
			break
		}
	}
	if field == nil {
		return nil, fmt.Errorf("no field of %v in request message %s", fieldVariants, reqDesc.FullName())
	}
	c.out.Debug("dish request field: %s (number %d)", field.Name(), field.Number())

	req.Set(field, protoreflect.ValueOfMessage(dynamicpb.NewMessage(field.Message())))

	resp := dynamicpb.NewMessage(method.Output())
	if err := c.conn.Invoke(ctx, handleMethod, req, resp); err != nil {
		return nil, fmt.Errorf("gRPC invocation failed: %w", err)
	}

	jsonBytes, err := protojson.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response to JSON: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode response JSON: %w", err)
	}
	return raw, nil
}

// resolveService uses gRPC reflection to get the service descriptor
func (c *Client) resolveService(ctx context.Context, serviceName string) (protoreflect.ServiceDescriptor, error) {
	stream, err := c.reflClient.ServerReflectionInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create reflection stream: %w", err)
	}
	defer stream.CloseSend()

	err = stream.Send(&grpc_reflection_v1alpha.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1alpha.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: serviceName,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send reflection request: %w", err)
	}

	resp, err := stream.Recv()
	if err != nil {
		return nil, fmt.Errorf("failed to receive reflection response: %w", err)
	}

	fdResp, ok := resp.MessageResponse.(*grpc_reflection_v1alpha.ServerReflectionResponse_FileDescriptorResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected reflection response type")
	}

	var fileProtos []*descriptorpb.FileDescriptorProto
	for _, fdBytes := range fdResp.FileDescriptorResponse.FileDescriptorProto {
		fd := &descriptorpb.FileDescriptorProto{}
		if err := proto.Unmarshal(fdBytes, fd); err != nil {
			return nil, fmt.Errorf("failed to unmarshal file descriptor: %w", err)
		}
		fileProtos = append(fileProtos, fd)
	}
	if len(fileProtos) == 0 {
		return nil, fmt.Errorf("no file descriptors returned")
	}

	fileDescs, err := protodesc.NewFiles(&descriptorpb.FileDescriptorSet{
		File: fileProtos,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create file descriptors: %w", err)
	}

	var svc protoreflect.ServiceDescriptor
	fileDescs.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		services := fd.Services()
		for i := 0; i < services.Len(); i++ {
			if string(services.Get(i).FullName()) == serviceName {
				svc = services.Get(i)
				return false
			}
		}
		return true
	})
	if svc == nil {
		return nil, fmt.Errorf("service %s not found in file descriptors", serviceName)
	}
	return svc, nil
}

// payloadObject unwraps the Handle response envelope. The response carries a
// single populated oneof member (getLocation, dishGetStatus, ...) next to
// apiVersion; the inner object is what the extractor wants to see.
func payloadObject(raw map[string]any) map[string]any {
	for key, value := range raw {
		if key == "apiVersion" {
			continue
		}
		if m, ok := value.(map[string]any); ok {
			return m
		}
	}
	return raw
}
