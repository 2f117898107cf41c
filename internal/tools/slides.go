package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func slideTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_slide",
				mcp.WithDescription("Add a new slide to the active presentation."),
				mcp.WithNumber("position", mcp.Description("1-based position for the new slide. Default: appended at the end.")),
				mcp.WithString("layout", mcp.Description("Layout name: blank (default), title, text, two_column_text, table, title_only, section_header, comparison, content_with_caption, picture_with_caption.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				position := req.GetInt("position", 0)
				layoutName := req.GetString("layout", "blank")
				layout, ok := ppt.LayoutNames[layoutName]
				if !ok {
					return errResult(comerr.Argumentf("unknown layout %q", layoutName)), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slides, err := getObj(pres, "Slides")
					if err != nil {
						return nil, err
					}
					defer slides.Release()
					count, err := getInt(slides, "Count")
					if err != nil {
						return nil, err
					}
					pos := position
					if pos == 0 {
						pos = count + 1
					}
					if pos < 1 || pos > count+1 {
						return nil, comerr.Argumentf("Slide position %d out of range (1-%d)", pos, count+1)
					}
					slide, err := callObj(slides, "Add", pos, layout)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					index, err := getInt(slide, "SlideIndex")
					if err != nil {
						return nil, err
					}
					slideID, _ := getInt(slide, "SlideID")
					gotoSlide(app, index)
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
						"slide_id":    slideID,
						"layout":      layoutName,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_delete_slide",
				mcp.WithDescription("Delete a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					if _, err := slide.Call("Delete"); err != nil {
						return nil, err
					}
					remaining, err := slideCount(pres)
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":          true,
						"deleted_index":    index,
						"remaining_slides": remaining,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_duplicate_slide",
				mcp.WithDescription("Duplicate a slide. The copy is inserted right after the original."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					rng, err := callObj(slide, "Duplicate")
					if err != nil {
						return nil, err
					}
					defer rng.Release()
					dup, err := getObj(rng, "Item", 1)
					if err != nil {
						return nil, err
					}
					defer dup.Release()
					newIndex, err := getInt(dup, "SlideIndex")
					if err != nil {
						return nil, err
					}
					gotoSlide(app, newIndex)
					return map[string]interface{}{
						"success":   true,
						"new_index": newIndex,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_move_slide",
				mcp.WithDescription("Move a slide to a new position."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index to move.")),
				mcp.WithNumber("to_position", mcp.Required(), mcp.Description("1-based target position.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				to := req.GetInt("to_position", 0)
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
					if to < 1 || to > count {
						return nil, comerr.Argumentf("Target position %d out of range (1-%d)", to, count)
					}
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					if _, err := slide.Call("MoveTo", to); err != nil {
						return nil, err
					}
					gotoSlide(app, to)
					return map[string]interface{}{
						"success":    true,
						"from_index": index,
						"to_index":   to,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_list_slides",
				mcp.WithDescription("List all slides in the active presentation."),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slides, err := getObj(pres, "Slides")
					if err != nil {
						return nil, err
					}
					defer slides.Release()
					count, err := getInt(slides, "Count")
					if err != nil {
						return nil, err
					}
					list := make([]map[string]interface{}, 0, count)
					for i := 1; i <= count; i++ {
						slide, err := getObj(slides, "Item", i)
						if err != nil {
							return nil, err
						}
						info, err := slideInfo(slide, i)
						slide.Release()
						if err != nil {
							return nil, err
						}
						list = append(list, info)
					}
					return map[string]interface{}{
						"slide_count": count,
						"slides":      list,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_slide_info",
				mcp.WithDescription("Get info about one slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					return slideInfo(slide, index)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_slide_notes",
				mcp.WithDescription("Get the speaker notes of a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					notes, err := notesRange(slide)
					if err != nil {
						return nil, err
					}
					defer notes.Release()
					text, err := getString(notes, "Text")
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"slide_index": index,
						"notes":       text,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_slide_notes",
				mcp.WithDescription("Set the speaker notes of a slide, replacing any existing notes."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("notes", mcp.Required(), mcp.Description("Notes text.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				text := req.GetString("notes", "")
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					pres, err := activePresentation(app)
					if err != nil {
						return nil, err
					}
					defer pres.Release()
					slide, err := slideAt(pres, index)
					if err != nil {
						return nil, err
					}
					defer slide.Release()
					notes, err := notesRange(slide)
					if err != nil {
						return nil, err
					}
					defer notes.Release()
					if err := notes.Put("Text", text); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_goto_slide",
				mcp.WithDescription("Navigate the active window to a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
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
					win, err := getObj(app, "ActiveWindow")
					if err != nil {
						return nil, err
					}
					defer win.Release()
					view, err := getObj(win, "View")
					if err != nil {
						return nil, err
					}
					defer view.Release()
					if _, err := view.Call("GotoSlide", index); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
					}, nil
				})
			},
		},
	}
}

func slideInfo(slide comauto.Object, index int) (map[string]interface{}, error) {
	name, err := getString(slide, "Name")
	if err != nil {
		return nil, err
	}
	slideID, _ := getInt(slide, "SlideID")
	layout, _ := getInt(slide, "Layout")

	shapesCount := 0
	if shapes, err := getObj(slide, "Shapes"); err == nil {
		shapesCount, _ = getInt(shapes, "Count")
		shapes.Release()
	}
	return map[string]interface{}{
		"index":        index,
		"name":         name,
		"slide_id":     slideID,
		"layout":       layout,
		"shapes_count": shapesCount,
	}, nil
}

// notesRange walks NotesPage.Shapes.Placeholders(2), the body placeholder
// holding the speaker notes text. Caller releases.
func notesRange(slide comauto.Object) (comauto.Object, error) {
	page, err := getObj(slide, "NotesPage")
	if err != nil {
		return nil, err
	}
	defer page.Release()
	shapes, err := getObj(page, "Shapes")
	if err != nil {
		return nil, err
	}
	defer shapes.Release()
	placeholders, err := getObj(shapes, "Placeholders")
	if err != nil {
		return nil, err
	}
	defer placeholders.Release()
	body, err := getObj(placeholders, "Item", 2)
	if err != nil {
		return nil, err
	}
	defer body.Release()
	frame, err := getObj(body, "TextFrame")
	if err != nil {
		return nil, err
	}
	defer frame.Release()
	return getObj(frame, "TextRange")
}
