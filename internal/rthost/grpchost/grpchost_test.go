package grpchost_test

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/funvibe/umo/internal/rthost/grpchost"
	"github.com/funvibe/umo/internal/rthost/memhost"
)

func TestPutsRoundTripsOverGRPC(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	sink := memhost.New()
	server := grpc.NewServer()
	grpchost.RegisterCollectorServer(server, &grpchost.CollectingServer{Host: sink})
	go server.Serve(lis)
	defer server.Stop()

	client, err := grpchost.Dial(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	deadline := time.Now().Add(2 * time.Second)
	var lastErr error
	for time.Now().Before(deadline) {
		if lastErr = client.PutsErr(context.Background(), "hello"); lastErr == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if lastErr != nil {
		t.Fatalf("PutsErr: %v", lastErr)
	}

	got := sink.Lines()
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("got %v, want [hello]", got)
	}
}
