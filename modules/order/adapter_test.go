package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-monolith/mono"

	memberdomain "github.com/example/coffee-shop/domain/member"
	domain "github.com/example/coffee-shop/domain/order"
)

// stubReplyClient records the request payload and answers with a canned reply.
type stubReplyClient struct {
	lastRequest []byte
	reply       []byte
}

func (c *stubReplyClient) Call(_ context.Context, data []byte) (*mono.Msg, error) {
	c.lastRequest = data
	return &mono.Msg{Data: c.reply}, nil
}

func (c *stubReplyClient) CallMsg(ctx context.Context, msg *mono.Msg) (*mono.Msg, error) {
	return c.Call(ctx, msg.Data)
}

// stubContainer implements just enough of mono.ServiceContainer to route
// request-reply calls to stub clients.
type stubContainer struct {
	mono.ServiceContainer
	clients map[string]*stubReplyClient
}

func (c *stubContainer) GetRequestReplyService(name string) (mono.RequestReplyServiceClient, error) {
	client, ok := c.clients[name]
	if !ok {
		return nil, fmt.Errorf("service '%s' not registered", name)
	}
	return client, nil
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return data
}

func TestOrderAdapter(t *testing.T) {
	t.Run("place round trip", func(t *testing.T) {
		placed := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
		client := &stubReplyClient{
			reply: mustMarshal(t, PlaceOrderResponse{
				OrderID:   42,
				Status:    domain.StatusPending,
				OrderDate: placed,
			}),
		}
		adapter := NewOrderAdapter(&stubContainer{clients: map[string]*stubReplyClient{"place": client}})

		resp, err := adapter.Place(context.Background(), PlaceOrderRequest{
			MemberID: 7,
			Lines:    []OrderLineRequest{{ProductID: 3, Quantity: 2}},
		})
		if err != nil {
			t.Fatalf("Place failed: %v", err)
		}
		if resp.OrderID != 42 || resp.Status != domain.StatusPending {
			t.Errorf("unexpected response: %+v", resp)
		}

		var sent PlaceOrderRequest
		if err := json.Unmarshal(client.lastRequest, &sent); err != nil {
			t.Fatalf("decode sent request: %v", err)
		}
		if sent.MemberID != 7 || len(sent.Lines) != 1 || sent.Lines[0].ProductID != 3 {
			t.Errorf("unexpected request payload: %+v", sent)
		}
	})

	t.Run("list round trip", func(t *testing.T) {
		client := &stubReplyClient{
			reply: mustMarshal(t, ListOrdersResponse{
				Orders: []OrderDetail{{OrderID: 9, MemberName: "Kim", Status: domain.StatusPending}},
			}),
		}
		adapter := NewOrderAdapter(&stubContainer{clients: map[string]*stubReplyClient{"list": client}})

		resp, err := adapter.List(context.Background(), 7, memberdomain.RoleAdmin)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resp.Orders) != 1 || resp.Orders[0].MemberName != "Kim" {
			t.Errorf("unexpected response: %+v", resp)
		}

		var sent ListOrdersRequest
		if err := json.Unmarshal(client.lastRequest, &sent); err != nil {
			t.Fatalf("decode sent request: %v", err)
		}
		if sent.MemberID != 7 || sent.Role != memberdomain.RoleAdmin {
			t.Errorf("unexpected request payload: %+v", sent)
		}
	})

	t.Run("unregistered service", func(t *testing.T) {
		adapter := NewOrderAdapter(&stubContainer{clients: map[string]*stubReplyClient{}})

		err := adapter.Cancel(context.Background(), 1)
		if err == nil {
			t.Fatal("expected error for unregistered service")
		}
		if !strings.Contains(err.Error(), "cancel") {
			t.Errorf("error should name the service: %v", err)
		}
	})
}
