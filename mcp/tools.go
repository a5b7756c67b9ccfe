package mcp

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/cloudapp/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

var validate = validator.New()

func InitTools(service *api.Service) []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(ListDrops(service)))
	tools = append(tools, newServerTool(ShowDrop(service)))
	tools = append(tools, newServerTool(CreateBookmark(service)))
	tools = append(tools, newServerTool(TrashDrop(service)))

	return tools
}

// DropInfo is the JSON form of a drop returned by the tools
type DropInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Href        string `json:"href"`
	Private     bool   `json:"private"`
	Trashed     bool   `json:"trashed"`
	Views       int    `json:"views"`
	ShareURL    string `json:"share_url,omitempty"`
	EmbedURL    string `json:"embed_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

func newDropInfo(d api.Drop) DropInfo {
	return DropInfo{
		ID:          d.ID,
		Name:        d.Name,
		Href:        d.Href,
		Private:     d.Private,
		Trashed:     d.Trashed,
		Views:       d.Views,
		ShareURL:    d.ShareURL,
		EmbedURL:    d.EmbedURL,
		DownloadURL: d.DownloadURL,
	}
}

// decodeArguments decodes and validates the tool arguments into args.
func decodeArguments(ctx context.Context, req mcp.CallToolRequest, args any) error {
	if err := mapstructure.Decode(req.Params.Arguments, args); err != nil {
		return err
	}
	return validate.StructCtx(ctx, args)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

func dropsResult(res api.Result[*api.DropCollection], err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if res.Unauthorized() {
		return mcp.NewToolResultError("The server rejected the credentials, run `cloudapp login`"), nil
	}
	return jsonResult(lo.Map(res.Value().Drops(), func(d api.Drop, _ int) DropInfo { return newDropInfo(d) }))
}

func ListDrops(service *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"list_drops",
			mcp.WithDescription("List the newest drops of the account"),
			mcp.WithString("filter", mcp.Description("Which drops to list"), mcp.Enum("active", "trash", "all")),
			mcp.WithString("href", mcp.Description("Link of the page to list instead of the first page")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Filter string `mapstructure:"filter" validate:"omitempty,oneof=active trash all"`
				Href   string `mapstructure:"href" validate:"omitempty"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return dropsResult(service.Drops(ctx, api.DropsOptions{Href: args.Href, Filter: api.Filter(args.Filter)}))
		}
}

func ShowDrop(service *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"show_drop",
			mcp.WithDescription("Show the details and links of a drop"),
			mcp.WithString("href", mcp.Required(), mcp.Description("Link of the drop")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Href string `mapstructure:"href" validate:"required"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return dropsResult(service.DropAt(ctx, args.Href))
		}
}

func CreateBookmark(service *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"create_bookmark",
			mcp.WithDescription("Create a bookmark drop that redirects to a URL"),
			mcp.WithString("url", mcp.Required(), mcp.Description("URL to bookmark")),
			mcp.WithString("name", mcp.Description("Name of the drop")),
			mcp.WithBoolean("private", mcp.Description("Whether the drop gets a private link")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				URL     string `mapstructure:"url" validate:"required,url"`
				Name    string `mapstructure:"name"`
				Private *bool  `mapstructure:"private"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			opts := api.DropOptions{Private: args.Private}
			if args.Name != "" {
				opts.Name = lo.ToPtr(args.Name)
			}
			return dropsResult(service.Bookmark(ctx, args.URL, opts))
		}
}

func TrashDrop(service *api.Service) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"trash_drop",
			mcp.WithDescription("Move a drop to the trash"),
			mcp.WithString("href", mcp.Required(), mcp.Description("Link of the drop")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				Href string `mapstructure:"href" validate:"required"`
			}
			var args ToolArguments
			if err := decodeArguments(ctx, req, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return dropsResult(service.TrashDrop(ctx, args.Href))
		}
}
