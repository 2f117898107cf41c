package tools

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func exportTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_export_pdf",
				mcp.WithDescription("Export the active presentation to PDF, optionally restricted to a slide range."),
				mcp.WithString("output_path", mcp.Required(), mcp.Description("Full path of the PDF to write.")),
				mcp.WithNumber("start_slide", mcp.Description("First slide of the range, 1-based.")),
				mcp.WithNumber("end_slide", mcp.Description("Last slide of the range, 1-based.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				outputPath, err := req.RequireString("output_path")
				if err != nil {
					return errResult(comerr.Argumentf("output_path is required")), nil
				}
				start, hasStart := optFloat(req, "start_slide")
				end, hasEnd := optFloat(req, "end_slide")
				ranged := hasStart || hasEnd

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
					if !ranged {
						if _, err := pres.Call("ExportAsFixedFormat", outputPath, ppt.FixedFormatPDF); err != nil {
							return nil, err
						}
						return map[string]interface{}{
							"success":     true,
							"output_path": outputPath,
							"slides":      count,
						}, nil
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
					exported, err := exportRangedPDF(app, pres, outputPath, from, to)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":     true,
						"output_path": outputPath,
						"slides":      exported,
						"start_slide": from,
						"end_slide":   to,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_export_images",
				mcp.WithDescription("Export slides as images, one file per slide, or a single slide when slide_index is given."),
				mcp.WithString("output_dir", mcp.Required(), mcp.Description("Directory the images are written into.")),
				mcp.WithString("format", mcp.Description("Image format: png or jpg. Default png.")),
				mcp.WithNumber("slide_index", mcp.Description("Export only this slide, 1-based.")),
				mcp.WithNumber("width", mcp.Description("Image width in pixels.")),
				mcp.WithNumber("height", mcp.Description("Image height in pixels.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				outputDir, err := req.RequireString("output_dir")
				if err != nil {
					return errResult(comerr.Argumentf("output_dir is required")), nil
				}
				format := req.GetString("format", "png")
				filter, ok := ppt.ImageFilters[format]
				if !ok {
					return errResult(comerr.Argumentf("unknown image format %q, expected png or jpg", format)), nil
				}
				slideIdx := req.GetInt("slide_index", 0)
				width := req.GetInt("width", 0)
				height := req.GetInt("height", 0)

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

					exportOne := func(i int) (string, error) {
						slide, err := slideAt(pres, i)
						if err != nil {
							return "", err
						}
						defer slide.Release()
						path := filepath.Join(outputDir, fmt.Sprintf("slide_%d.%s", i, format))
						args := []interface{}{path, filter}
						if width > 0 && height > 0 {
							args = append(args, width, height)
						}
						if _, err := slide.Call("Export", args...); err != nil {
							return "", err
						}
						return path, nil
					}

					if slideIdx != 0 {
						if slideIdx < 1 || slideIdx > count {
							return nil, comerr.Argumentf("Slide index %d out of range (1-%d)", slideIdx, count)
						}
						path, err := exportOne(slideIdx)
						if err != nil {
							return nil, err
						}
						return map[string]interface{}{
							"success":     true,
							"slide_index": slideIdx,
							"files":       []string{path},
						}, nil
					}

					files := make([]string, 0, count)
					for i := 1; i <= count; i++ {
						path, err := exportOne(i)
						if err != nil {
							return nil, err
						}
						files = append(files, path)
					}
					return map[string]interface{}{
						"success": true,
						"slides":  count,
						"files":   files,
					}, nil
				})
			},
		},
	}
}

// exportRangedPDF exports a slide range by opening an untitled copy of the
// saved file, trimming it down to the range and exporting the copy. The
// active presentation is never mutated, but it must have been saved so a
// copy exists on disk.
func exportRangedPDF(app, pres comauto.Object, outputPath string, from, to int) (int, error) {
	fullName, err := getString(pres, "FullName")
	if err != nil {
		return 0, err
	}
	path, err := getString(pres, "Path")
	if err != nil {
		return 0, err
	}
	if path == "" {
		return 0, comerr.Preconditionf("Presentation must be saved before a slide range can be exported.")
	}

	presentations, err := getObj(app, "Presentations")
	if err != nil {
		return 0, err
	}
	defer presentations.Release()
	clone, err := callObj(presentations, "Open", fullName, ppt.MsoFalse, ppt.MsoTrue, ppt.MsoFalse)
	if err != nil {
		return 0, err
	}
	defer clone.Release()
	closeClone := func() {
		// Mark saved so Close cannot raise a modal dialog on the worker.
		_ = clone.Put("Saved", ppt.MsoTrue)
		_, _ = clone.Call("Close")
	}

	slides, err := getObj(clone, "Slides")
	if err != nil {
		closeClone()
		return 0, err
	}
	defer slides.Release()
	total, err := getInt(slides, "Count")
	if err != nil {
		closeClone()
		return 0, err
	}
	// Delete back to front so the surviving indexes stay stable.
	for i := total; i >= 1; i-- {
		if i >= from && i <= to {
			continue
		}
		slide, err := getObj(slides, "Item", i)
		if err != nil {
			closeClone()
			return 0, err
		}
		_, err = slide.Call("Delete")
		slide.Release()
		if err != nil {
			closeClone()
			return 0, err
		}
	}
	if _, err := clone.Call("ExportAsFixedFormat", outputPath, ppt.FixedFormatPDF); err != nil {
		closeClone()
		return 0, err
	}
	closeClone()
	return to - from + 1, nil
}
