package mcp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ka2n/cloudapp/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func newTestService(t *testing.T) *api.Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.RequestURI() {
		case "/":
			io.WriteString(w, `{}`)
		case "/items?api_version=1.2":
			io.WriteString(w, `{"items":[{"id":1,"name":"First","href":"/items/1","share_url":"http://cl.ly/1"}]}`)
		case "/items?api_version=1.2&filter=trash":
			io.WriteString(w, `{"items":[{"id":2,"name":"Old","href":"/items/2","trash":true}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	s, err := api.New(api.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}
	return s
}

func callTool(t *testing.T, tool func(*api.Service) (mcp.Tool, server.ToolHandlerFunc), s *api.Service, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	_, handler := tool(s)
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content = %v, want one item", res.Content)
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content = %T, want text", res.Content[0])
	}
	return text.Text
}

func TestListDrops(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want []DropInfo
	}{
		{
			name: "active",
			args: map[string]any{},
			want: []DropInfo{{ID: "1", Name: "First", Href: "/items/1", ShareURL: "http://cl.ly/1"}},
		},
		{
			name: "trash",
			args: map[string]any{"filter": "trash"},
			want: []DropInfo{{ID: "2", Name: "Old", Href: "/items/2", Trashed: true}},
		},
	}

	s := newTestService(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, ListDrops, s, tt.args)
			if res.IsError {
				t.Fatalf("tool error: %s", textOf(t, res))
			}
			var got []DropInfo
			if err := json.Unmarshal([]byte(textOf(t, res)), &got); err != nil {
				t.Fatalf("json.Unmarshal() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("list_drops mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToolArgumentValidation(t *testing.T) {
	s := newTestService(t)
	tests := []struct {
		name string
		tool func(*api.Service) (mcp.Tool, server.ToolHandlerFunc)
		args map[string]any
	}{
		{name: "unknown filter", tool: ListDrops, args: map[string]any{"filter": "deleted"}},
		{name: "missing href", tool: ShowDrop, args: map[string]any{}},
		{name: "bad url", tool: CreateBookmark, args: map[string]any{"url": "not a url"}},
		{name: "wrong type", tool: TrashDrop, args: map[string]any{"href": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := callTool(t, tt.tool, s, tt.args); !res.IsError {
				t.Errorf("tool accepted %v", tt.args)
			}
		})
	}
}

func TestInitTools(t *testing.T) {
	tools := InitTools(newTestService(t))
	var names []string
	for _, tool := range tools {
		names = append(names, tool.Tool.Name)
	}
	want := []string{"list_drops", "show_drop", "create_bookmark", "trash_drop"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("InitTools() mismatch (-want +got):\n%s", diff)
	}
}
