package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

// Built-in document property names are always English, regardless of the
// Office display language.
var writableProperties = []struct{ arg, com string }{
	{"title", "Title"},
	{"author", "Author"},
	{"subject", "Subject"},
	{"keywords", "Keywords"},
	{"comments", "Comments"},
	{"category", "Category"},
	{"company", "Company"},
}

var readableProperties = []string{
	"Title", "Author", "Subject", "Keywords",
	"Comments", "Category", "Company",
	"Last Author", "Creation Date", "Last Save Time",
}

func propertyTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_set_properties",
				mcp.WithDescription("Set built-in document properties of the active presentation. Omitted fields are left unchanged."),
				mcp.WithString("title", mcp.Description("Document title.")),
				mcp.WithString("author", mcp.Description("Author name.")),
				mcp.WithString("subject", mcp.Description("Document subject.")),
				mcp.WithString("keywords", mcp.Description("Keywords, comma-separated.")),
				mcp.WithString("comments", mcp.Description("Document comments.")),
				mcp.WithString("category", mcp.Description("Document category.")),
				mcp.WithString("company", mcp.Description("Company name.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				type put struct {
					prop string
					val  string
				}
				var puts []put
				for _, p := range writableProperties {
					if v, ok := optString(req, p.arg); ok {
						puts = append(puts, put{p.com, v})
					}
				}
				if len(puts) == 0 {
					return errResult(comerr.Argumentf("nothing to set")), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					props, err := getObj(pres, "BuiltInDocumentProperties")
					if err != nil {
						return nil, err
					}
					defer props.Release()
					setNames := make([]string, 0, len(puts))
					for _, p := range puts {
						prop, err := getObj(props, "Item", p.prop)
						if err != nil {
							return nil, err
						}
						err = prop.Put("Value", p.val)
						prop.Release()
						if err != nil {
							return nil, err
						}
						setNames = append(setNames, p.prop)
					}
					return map[string]interface{}{
						"success":        true,
						"properties_set": len(setNames),
						"set_names":      setNames,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_properties",
				mcp.WithDescription("Read built-in document properties of the active presentation."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					props, err := getObj(pres, "BuiltInDocumentProperties")
					if err != nil {
						return nil, err
					}
					defer props.Release()
					result := make(map[string]interface{}, len(readableProperties))
					for _, name := range readableProperties {
						// Unset properties raise; report them as null.
						result[name] = nil
						prop, err := getObj(props, "Item", name)
						if err != nil {
							continue
						}
						if v, err := prop.Get("Value"); err == nil && !v.IsNil() {
							switch raw := v.Raw().(type) {
							case string, bool, int, int32, int64, float32, float64:
								result[name] = raw
							default:
								result[name] = v.String()
							}
						}
						prop.Release()
					}
					return map[string]interface{}{
						"success":    true,
						"properties": result,
					}, nil
				})
			},
		},
	}
}
