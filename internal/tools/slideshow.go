package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func slideshowTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_start_slideshow",
				mcp.WithDescription("Start a slide show of the active presentation."),
				mcp.WithString("show_type", mcp.Description("Show type: speaker, window or kiosk. Default speaker.")),
				mcp.WithNumber("start_slide", mcp.Description("First slide of the show, 1-based.")),
				mcp.WithNumber("end_slide", mcp.Description("Last slide of the show, 1-based.")),
				mcp.WithBoolean("loop", mcp.Description("Loop until stopped.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				showTypeName := req.GetString("show_type", "speaker")
				showType, ok := ppt.ShowTypes[showTypeName]
				if !ok {
					return errResult(comerr.Argumentf("unknown show_type %q, expected speaker, window or kiosk", showTypeName)), nil
				}
				start, hasStart := optFloat(req, "start_slide")
				end, hasEnd := optFloat(req, "end_slide")
				loop := req.GetBool("loop", false)

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
					from := 1
					to := count
					if hasStart {
						from = int(start)
					}
					if hasEnd {
						to = int(end)
					}
					if from < 1 || from > count {
						return nil, comerr.Argumentf("start_slide %d out of range (1-%d)", from, count)
					}
					if to < from || to > count {
						return nil, comerr.Argumentf("end_slide %d out of range (%d-%d)", to, from, count)
					}

					settings, err := getObj(pres, "SlideShowSettings")
					if err != nil {
						return nil, err
					}
					defer settings.Release()
					if err := settings.Put("ShowType", showType); err != nil {
						return nil, err
					}
					if hasStart || hasEnd {
						if err := settings.Put("RangeType", ppt.ShowSlideRange); err != nil {
							return nil, err
						}
						if err := settings.Put("StartingSlide", from); err != nil {
							return nil, err
						}
						if err := settings.Put("EndingSlide", to); err != nil {
							return nil, err
						}
					}
					if loop {
						if err := settings.Put("LoopUntilStopped", ppt.MsoTrue); err != nil {
							return nil, err
						}
					}
					window, err := callObj(settings, "Run")
					if err != nil {
						return nil, err
					}
					defer window.Release()
					view, err := getObj(window, "View")
					if err != nil {
						return nil, err
					}
					defer view.Release()
					pos, err := getInt(view, "CurrentShowPosition")
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":      true,
						"show_type":    showTypeName,
						"current":      pos,
						"total_slides": count,
						"start_slide":  from,
						"end_slide":    to,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_stop_slideshow",
				mcp.WithDescription("End the running slide show."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					view, err := runningShowView(app)
					if err != nil {
						return nil, err
					}
					if view == nil {
						return map[string]interface{}{
							"success": true,
							"message": "No slide show was running.",
						}, nil
					}
					defer view.Release()
					if _, err := view.Call("Exit"); err != nil {
						return nil, err
					}
					return map[string]interface{}{"success": true}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_next_slide",
				mcp.WithDescription("Advance the running slide show."),
			),
			Handler: slideshowStep(d, "Next"),
		},
		{
			Tool: mcp.NewTool("ppt_previous_slide",
				mcp.WithDescription("Step the running slide show back."),
			),
			Handler: slideshowStep(d, "Previous"),
		},
		{
			Tool: mcp.NewTool("ppt_slideshow_goto",
				mcp.WithDescription("Jump the running slide show to a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					view, err := runningShowView(app)
					if err != nil {
						return nil, err
					}
					if view == nil {
						return nil, comerr.Preconditionf("No slide show is running.")
					}
					defer view.Release()
					if _, err := view.Call("GotoSlide", index); err != nil {
						return nil, err
					}
					pos, err := getInt(view, "CurrentShowPosition")
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success": true,
						"current": pos,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_slideshow_status",
				mcp.WithDescription("Report whether a slide show is running and where it stands."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					view, err := runningShowView(app)
					if err != nil {
						return nil, err
					}
					if view == nil {
						return map[string]interface{}{"running": false}, nil
					}
					defer view.Release()
					pos, err := getInt(view, "CurrentShowPosition")
					if err != nil {
						return nil, err
					}
					state, err := getInt(view, "State")
					if err != nil {
						return nil, err
					}
					stateName, ok := ppt.SlideShowStateNames[state]
					if !ok {
						stateName = "unknown"
					}
					pointer, _ := getInt(view, "PointerType")
					return map[string]interface{}{
						"running":      true,
						"current":      pos,
						"state":        state,
						"state_name":   stateName,
						"pointer_type": pointer,
					}, nil
				})
			},
		},
	}
}

func slideshowStep(d Deps, op string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.run(ctx, func(app comauto.Object) (interface{}, error) {
			view, err := runningShowView(app)
			if err != nil {
				return nil, err
			}
			if view == nil {
				return nil, comerr.Preconditionf("No slide show is running.")
			}
			defer view.Release()
			if _, err := view.Call(op); err != nil {
				return nil, err
			}
			pos, err := getInt(view, "CurrentShowPosition")
			if err != nil {
				return nil, err
			}
			state, err := getInt(view, "State")
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"success": true,
				"current": pos,
				"done":    state == ppt.SlideShowDone,
			}, nil
		})
	}
}

// runningShowView returns the view of the first slide show window, or nil
// when no show is running.
func runningShowView(app comauto.Object) (comauto.Object, error) {
	windows, err := getObj(app, "SlideShowWindows")
	if err != nil {
		return nil, err
	}
	defer windows.Release()
	count, err := getInt(windows, "Count")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	window, err := getObj(windows, "Item", 1)
	if err != nil {
		return nil, err
	}
	defer window.Release()
	return getObj(window, "View")
}
