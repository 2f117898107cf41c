package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

func sectionTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_section",
				mcp.WithDescription("Start a new section at a slide."),
				mcp.WithString("name", mcp.Required(), mcp.Description("Section name.")),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based index of the first slide of the section.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				name := req.GetString("name", "")
				index := req.GetInt("slide_index", 0)
				if name == "" {
					return errResult(comerr.Argumentf("name is required")), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					count, err := slideCount(pres)
					if err != nil {
						return nil, err
					}
					if index < 1 || index > count {
						return nil, comerr.Argumentf("Slide index %d out of range (1-%d)", index, count)
					}
					sp, err := getObj(pres, "SectionProperties")
					if err != nil {
						return nil, err
					}
					defer sp.Release()
					v, err := sp.Call("AddSection", index, name)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":       true,
						"section_index": v.Int(),
						"name":          name,
						"slide_index":   index,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_list_sections",
				mcp.WithDescription("List the sections of the active presentation."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					sp, err := getObj(pres, "SectionProperties")
					if err != nil {
						return nil, err
					}
					defer sp.Release()
					count, err := getInt(sp, "Count")
					if err != nil {
						return nil, err
					}
					sections := make([]map[string]interface{}, 0, count)
					for i := 1; i <= count; i++ {
						name, err := sp.Get("Name", i)
						if err != nil {
							return nil, err
						}
						first, err := sp.Get("FirstSlide", i)
						if err != nil {
							return nil, err
						}
						slides, err := sp.Get("SlidesCount", i)
						if err != nil {
							return nil, err
						}
						sections = append(sections, map[string]interface{}{
							"index":        i,
							"name":         name.String(),
							"first_slide":  first.Int(),
							"slides_count": slides.Int(),
						})
					}
					return map[string]interface{}{
						"success":        true,
						"sections_count": count,
						"sections":       sections,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_manage_section",
				mcp.WithDescription("Rename, move or delete a section. Deleting keeps the slides."),
				mcp.WithNumber("section_index", mcp.Required(), mcp.Description("1-based section index.")),
				mcp.WithString("action", mcp.Required(), mcp.Description("One of: rename, move, delete.")),
				mcp.WithString("new_name", mcp.Description("New section name (rename).")),
				mcp.WithNumber("move_to_index", mcp.Description("Target position (move).")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("section_index", 0)
				action := req.GetString("action", "")
				newName := req.GetString("new_name", "")
				moveTo := req.GetInt("move_to_index", 0)
				switch action {
				case "rename":
					if newName == "" {
						return errResult(comerr.Argumentf("new_name is required for the rename action")), nil
					}
				case "move":
					if moveTo == 0 {
						return errResult(comerr.Argumentf("move_to_index is required for the move action")), nil
					}
				case "delete":
				default:
					return errResult(comerr.Argumentf("unknown action %q, expected rename, move or delete", action)), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					sp, err := getObj(pres, "SectionProperties")
					if err != nil {
						return nil, err
					}
					defer sp.Release()
					count, err := getInt(sp, "Count")
					if err != nil {
						return nil, err
					}
					if index < 1 || index > count {
						return nil, comerr.Argumentf("Section index %d out of range (1-%d)", index, count)
					}
					switch action {
					case "rename":
						if _, err := sp.Call("Rename", index, newName); err != nil {
							return nil, err
						}
						return map[string]interface{}{
							"success":       true,
							"action":        "rename",
							"section_index": index,
							"new_name":      newName,
						}, nil
					case "move":
						if moveTo < 1 || moveTo > count {
							return nil, comerr.Argumentf("move_to_index %d out of range (1-%d)", moveTo, count)
						}
						if _, err := sp.Call("Move", index, moveTo); err != nil {
							return nil, err
						}
						return map[string]interface{}{
							"success":       true,
							"action":        "move",
							"section_index": index,
							"moved_to":      moveTo,
						}, nil
					default:
						deleted, err := sp.Get("Name", index)
						if err != nil {
							return nil, err
						}
						// Second argument false keeps the slides.
						if _, err := sp.Call("Delete", index, false); err != nil {
							return nil, err
						}
						return map[string]interface{}{
							"success":         true,
							"action":          "delete",
							"deleted_section": deleted.String(),
						}, nil
					}
				})
			},
		},
	}
}
