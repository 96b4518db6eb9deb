package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractMessage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"topLevel", `{"message":"table not found"}`, "table not found"},
		{"dataNested", `{"data":{"message":"order closed"}}`, "order closed"},
		{"responseNested", `{"response":{"data":{"message":"session expired"}}}`, "session expired"},
		{
			"topLevelWinsOverNested",
			`{"message":"top","data":{"message":"nested"}}`,
			"top",
		},
		{"emptyObject", `{}`, "Something went wrong. Please try again."},
		{"notJSON", `<html>502 Bad Gateway</html>`, "Something went wrong. Please try again."},
		{"emptyMessageFallsThrough", `{"message":"","data":{"message":"real one"}}`, "real one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractMessage([]byte(tt.raw)); got != tt.want {
				t.Errorf("ExtractMessage(%s) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.URL, "dev-1", func() string { return "tok-1" })
	return c, srv
}

func TestDoDecodesEnvelopeData(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Device-Id"); got != "dev-1" {
			t.Errorf("X-Device-Id = %q, want dev-1", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{"success":true,"data":{"id":"o1","status":"active"}}`))
	})
	defer srv.Close()

	var out struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := c.do(context.Background(), http.MethodGet, "/orders/guest", nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.ID != "o1" || out.Status != "active" {
		t.Errorf("decoded %+v", out)
	}
}

func TestDo404IsNotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"no active order"}`))
	})
	defer srv.Close()

	err := c.do(context.Background(), http.MethodGet, "/orders/guest", nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("404 error = %v, want ErrNotFound", err)
	}
}

// A success envelope with null data still means "nothing there" when the
// caller expected a record.
func TestDoNullDataIsNotFound(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":null}`))
	})
	defer srv.Close()

	var out struct{}
	err := c.do(context.Background(), http.MethodGet, "/payments/guest/order/o1", nil, &out)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("null data error = %v, want ErrNotFound", err)
	}

	// no out target → null data is fine (fire-and-acknowledge calls)
	if err := c.do(context.Background(), http.MethodPost, "/orders/guest/call-waiter", nil, nil); err != nil {
		t.Errorf("null data with nil out = %v, want nil", err)
	}
}

func TestDoServerErrorUsesNormalizedMessage(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"success":false,"data":{"message":"table is occupied"}}`))
	})
	defer srv.Close()

	err := c.do(context.Background(), http.MethodPost, "/orders/guest", map[string]string{}, nil)
	if err == nil || err.Error() != "table is occupied" {
		t.Errorf("error = %v, want normalized backend message", err)
	}
}

func TestDoSuccessFalseIsError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// 200 but the envelope says no
		w.Write([]byte(`{"success":false,"message":"kitchen closed"}`))
	})
	defer srv.Close()

	err := c.do(context.Background(), http.MethodPost, "/orders/guest", map[string]string{}, nil)
	if err == nil || err.Error() != "kitchen closed" {
		t.Errorf("error = %v, want \"kitchen closed\"", err)
	}
}

func TestDoNonJSONBodyFallsBack(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>upstream dead</html>`))
	})
	defer srv.Close()

	err := c.do(context.Background(), http.MethodGet, "/orders/guest", nil, nil)
	if err == nil {
		t.Fatal("expected an error for a non-JSON 502")
	}
	if want := "Something went wrong. Please try again."; !errors.Is(err, ErrNotFound) && err.Error() != "decode response: "+want {
		t.Errorf("error = %q, want fallback message", err)
	}
}
