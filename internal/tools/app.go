package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func appTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_connect",
				mcp.WithDescription("Connect to PowerPoint (attach to a running instance or launch one) and report application info."),
				mcp.WithBoolean("visible", mcp.Description("Force window visibility. Omit to keep the current state.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				visible, hasVisible := optBool(req, "visible")
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					if hasVisible {
						if err := app.Put("Visible", visible); err != nil {
							return nil, err
						}
					}
					info, err := appInfo(app)
					if err != nil {
						return nil, err
					}
					info["connection_state"] = d.Exec.Health().String()
					return info, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_app_info",
				mcp.WithDescription("Get PowerPoint application info: name, version, visibility, window state and open presentation count."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					info, err := appInfo(app)
					if err != nil {
						return nil, err
					}
					info["connection_state"] = d.Exec.Health().String()
					return info, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_active_window",
				mcp.WithDescription("Get the active document window: view type, window state and selection type."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					win, err := getObj(app, "ActiveWindow")
					if err != nil {
						return nil, err
					}
					defer win.Release()

					viewType, err := getInt(win, "ViewType")
					if err != nil {
						return nil, err
					}
					state, err := getInt(win, "WindowState")
					if err != nil {
						return nil, err
					}
					sel, err := getObj(win, "Selection")
					if err != nil {
						return nil, err
					}
					defer sel.Release()
					selType, err := getInt(sel, "Type")
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"view_type":         viewType,
						"window_state":      state,
						"window_state_name": ppt.WindowStateNames[state],
						"selection_type":    selType,
						"selection_name":    ppt.SelectionTypeNames[selType],
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_list_presentations",
				mcp.WithDescription("List all open presentations with name, path, saved state and which one is active."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					col, err := getObj(app, "Presentations")
					if err != nil {
						return nil, err
					}
					defer col.Release()
					count, err := getInt(col, "Count")
					if err != nil {
						return nil, err
					}

					activeName := ""
					if count > 0 {
						if active, err := getObj(app, "ActivePresentation"); err == nil {
							activeName, _ = getString(active, "Name")
							active.Release()
						}
					}

					list := make([]map[string]interface{}, 0, count)
					for i := 1; i <= count; i++ {
						pres, err := getObj(col, "Item", i)
						if err != nil {
							return nil, err
						}
						name, _ := getString(pres, "Name")
						fullName, _ := getString(pres, "FullName")
						saved, _ := getBool(pres, "Saved")
						readOnly, _ := getBool(pres, "ReadOnly")
						pres.Release()
						list = append(list, map[string]interface{}{
							"index":     i,
							"name":      name,
							"full_name": fullName,
							"saved":     saved,
							"read_only": readOnly,
							"active":    name == activeName,
						})
					}
					return map[string]interface{}{
						"count":         count,
						"presentations": list,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_window_state",
				mcp.WithDescription("Set the PowerPoint application window state."),
				mcp.WithString("state", mcp.Required(), mcp.Description("One of: normal, minimized, maximized.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				state := req.GetString("state", "")
				var value int
				switch state {
				case "normal":
					value = ppt.WindowNormal
				case "minimized":
					value = ppt.WindowMinimized
				case "maximized":
					value = ppt.WindowMaximized
				default:
					return errResult(comerr.Argumentf("unknown window state %q, expected normal, minimized or maximized", state)), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					if err := app.Put("WindowState", value); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":      true,
						"window_state": state,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_quit",
				mcp.WithDescription("Quit the PowerPoint application. Unsaved changes are discarded; save first if needed."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					// Mark every open deck saved so Quit cannot hang on a
					// save dialog nobody is there to answer.
					if col, err := getObj(app, "Presentations"); err == nil {
						if count, err := getInt(col, "Count"); err == nil {
							for i := 1; i <= count; i++ {
								if pres, err := getObj(col, "Item", i); err == nil {
									_ = pres.Put("Saved", true)
									pres.Release()
								}
							}
						}
						col.Release()
					}
					if _, err := app.Call("Quit"); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success": true,
						"message": "PowerPoint is quitting.",
					}, nil
				})
			},
		},
	}
}

func appInfo(app comauto.Object) (map[string]interface{}, error) {
	name, err := getString(app, "Name")
	if err != nil {
		return nil, err
	}
	version, err := getString(app, "Version")
	if err != nil {
		return nil, err
	}
	visible, err := getBool(app, "Visible")
	if err != nil {
		return nil, err
	}
	state, err := getInt(app, "WindowState")
	if err != nil {
		return nil, err
	}
	col, err := getObj(app, "Presentations")
	if err != nil {
		return nil, err
	}
	defer col.Release()
	count, err := getInt(col, "Count")
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"name":                name,
		"version":             version,
		"visible":             visible,
		"window_state":        state,
		"window_state_name":   ppt.WindowStateNames[state],
		"presentations_count": count,
	}, nil
}
