package rpc_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/feel-lang/feel/internal/rpc"
	"github.com/feel-lang/feel/pkg/feel"
)

func TestServiceDescriptorHasBothMethods(t *testing.T) {
	sd, err := rpc.ServiceDescriptor()
	require.NoError(t, err)
	assert.NotNil(t, sd.FindMethodByName("Evaluate"))
	assert.NotNil(t, sd.FindMethodByName("EvaluateUnaryTests"))
}

func TestEvaluateOverGRPC(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer lis.Close()

	engine := feel.New(feel.Options{})
	server, err := rpc.NewServer(engine, nil)
	require.NoError(t, err)
	go server.GRPCServer().Serve(lis)
	defer server.GracefulStop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	client := rpc.NewClient(conn, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	waitForReady(t, ctx, client)

	resp, err := client.Evaluate(ctx, "age >= 18", map[string]interface{}{"age": int64(21)})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, true, resp.Value)
	assert.NotEmpty(t, resp.RequestID)
}

// waitForReady retries a throwaway call until the listener accepts
// connections, since grpc.NewClient dials lazily.
func waitForReady(t *testing.T, ctx context.Context, client *rpc.Client) {
	t.Helper()
	var err error
	for i := 0; i < 20; i++ {
		_, err = client.Evaluate(ctx, "1", nil)
		if err == nil {
			return
		}
		time.Sleep(25 * time.Millisecond)
	}
	t.Fatalf("server never became ready: %v", err)
}
