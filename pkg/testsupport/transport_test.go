package testsupport

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestScriptedTransport_ReplaysSequence(t *testing.T) {
	transport := NewScriptedTransport(
		JSONResponse(500, `{"error":"boom"}`),
		JSONResponse(200, `{"ok":true}`),
	)
	client := transport.Client()

	statuses := []int{}
	for i := 0; i < 3; i++ {
		resp, err := client.Get("http://example.test/path")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
		if resp.StatusCode == 200 && !strings.Contains(string(body), "ok") {
			t.Errorf("unexpected body %q", body)
		}
	}

	// The last response repeats once the script runs out.
	want := []int{500, 200, 200}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("call %d status = %d, want %d", i, statuses[i], want[i])
		}
	}
	if transport.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", transport.Calls())
	}
	if got := transport.Request(0).URL.Path; got != "/path" {
		t.Errorf("Request(0) path = %q, want /path", got)
	}
}

func TestJSONResponse(t *testing.T) {
	resp := JSONResponse(404, `{}`)
	if resp.Status != 404 {
		t.Errorf("Status = %d, want 404", resp.Status)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRoundTripFunc(t *testing.T) {
	rt := RoundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: 204,
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	})
	resp, err := (&http.Client{Transport: rt}).Get("http://example.test/")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 204 {
		t.Errorf("StatusCode = %d, want 204", resp.StatusCode)
	}
}
