package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
	"pptmcp/internal/units"
)

func presentationTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_create_presentation",
				mcp.WithDescription("Create a new presentation, optionally from a template file or with a preset slide size."),
				mcp.WithString("template", mcp.Description("Path to a template (.potx/.pptx) to create from.")),
				mcp.WithString("preset", mcp.Description("Slide size preset: 16:9 (default) or 4:3. Ignored when a template is given.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				template := req.GetString("template", "")
				preset := req.GetString("preset", "16:9")
				size, ok := ppt.SlideSizePresets[preset]
				if !ok {
					return errResult(comerr.Argumentf("unknown preset %q, expected 16:9 or 4:3", preset)), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					col, err := getObj(app, "Presentations")
					if err != nil {
						return nil, err
					}
					defer col.Release()

					var pres comauto.Object
					if template != "" {
						// Open(FileName, ReadOnly, Untitled, WithWindow):
						// untitled gives a fresh copy of the template.
						pres, err = callObj(col, "Open", template, ppt.MsoFalse, ppt.MsoTrue, ppt.MsoTrue)
						if err != nil {
							return nil, err
						}
					} else {
						pres, err = callObj(col, "Add")
						if err != nil {
							return nil, err
						}
						setup, err := getObj(pres, "PageSetup")
						if err == nil {
							_ = setup.Put("SlideWidth", size[0])
							_ = setup.Put("SlideHeight", size[1])
							setup.Release()
						}
					}
					defer pres.Release()
					return presentationInfo(pres)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_open_presentation",
				mcp.WithDescription("Open a presentation file."),
				mcp.WithString("file_path", mcp.Required(), mcp.Description("Full path to the presentation file.")),
				mcp.WithBoolean("read_only", mcp.Description("Open read-only. Default false.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				path, err := req.RequireString("file_path")
				if err != nil {
					return errResult(comerr.Argumentf("file_path is required")), nil
				}
				readOnly := ppt.MsoFalse
				if req.GetBool("read_only", false) {
					readOnly = ppt.MsoTrue
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					col, err := getObj(app, "Presentations")
					if err != nil {
						return nil, err
					}
					defer col.Release()
					pres, err := callObj(col, "Open", path, readOnly, ppt.MsoFalse, ppt.MsoTrue)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					return presentationInfo(pres)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_save_presentation",
				mcp.WithDescription("Save the active presentation to its current path."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					dir, err := getString(pres, "Path")
					if err != nil {
						return nil, err
					}
					if dir == "" {
						return nil, comerr.Preconditionf("Presentation has never been saved. Use ppt_save_as_presentation with a file path.")
					}
					if _, err := pres.Call("Save"); err != nil {
						return nil, err
					}
					fullName, _ := getString(pres, "FullName")
					return map[string]interface{}{
						"success":   true,
						"file_path": fullName,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_save_as_presentation",
				mcp.WithDescription("Save the active presentation to a new path and/or format."),
				mcp.WithString("file_path", mcp.Required(), mcp.Description("Full output path.")),
				mcp.WithString("format", mcp.Description("Output format: pptx (default), pdf, png, jpg or default.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				path, err := req.RequireString("file_path")
				if err != nil {
					return errResult(comerr.Argumentf("file_path is required")), nil
				}
				format := req.GetString("format", "pptx")
				fileType, ok := ppt.SaveFormats[format]
				if !ok {
					return errResult(comerr.Argumentf("unknown format %q, expected pptx, pdf, png, jpg or default", format)), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					if _, err := pres.Call("SaveAs", path, fileType); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":   true,
						"file_path": path,
						"format":    format,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_close_presentation",
				mcp.WithDescription("Close the active presentation without saving (changes are discarded unless save is set)."),
				mcp.WithBoolean("save", mcp.Description("Save before closing. Fails when the presentation has no path yet.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				save := req.GetBool("save", false)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					name, _ := getString(pres, "Name")
					if save {
						dir, err := getString(pres, "Path")
						if err != nil {
							return nil, err
						}
						if dir == "" {
							return nil, comerr.Preconditionf("Presentation has never been saved. Use ppt_save_as_presentation first.")
						}
						if _, err := pres.Call("Save"); err != nil {
							return nil, err
						}
					}
					// Marking the deck saved suppresses the "save changes?"
					// dialog, which would otherwise block the worker thread.
					if err := pres.Put("Saved", true); err != nil {
						return nil, err
					}
					if _, err := pres.Call("Close"); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success": true,
						"closed":  name,
						"saved":   save,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_presentation_info",
				mcp.WithDescription("Get info about the active presentation: name, path, saved state, slide count and slide size."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					return presentationInfo(pres)
				})
			},
		},
	}
}

func presentationInfo(pres comauto.Object) (interface{}, error) {
	name, err := getString(pres, "Name")
	if err != nil {
		return nil, err
	}
	fullName, _ := getString(pres, "FullName")
	dir, _ := getString(pres, "Path")
	saved, _ := getBool(pres, "Saved")
	readOnly, _ := getBool(pres, "ReadOnly")
	count, err := slideCount(pres)
	if err != nil {
		return nil, err
	}

	info := map[string]interface{}{
		"name":        name,
		"full_name":   fullName,
		"path":        dir,
		"saved":       saved,
		"read_only":   readOnly,
		"slide_count": count,
	}
	if setup, err := getObj(pres, "PageSetup"); err == nil {
		width, werr := getFloat(setup, "SlideWidth")
		height, herr := getFloat(setup, "SlideHeight")
		setup.Release()
		if werr == nil && herr == nil {
			info["slide_width"] = width
			info["slide_height"] = height
			info["slide_width_inches"] = round2(units.PointsToInches(width))
			info["slide_height_inches"] = round2(units.PointsToInches(height))
		}
	}
	return info, nil
}
