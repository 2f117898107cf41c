package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/color"
	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func shapeTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_shape",
				mcp.WithDescription("Add an autoshape to a slide. Positions and sizes are in points."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithNumber("shape_type", mcp.Required(), mcp.Description("MsoAutoShapeType constant, e.g. 1=Rectangle, 9=Oval, 4=Diamond.")),
				mcp.WithNumber("left", mcp.Required(), mcp.Description("Left edge in points.")),
				mcp.WithNumber("top", mcp.Required(), mcp.Description("Top edge in points.")),
				mcp.WithNumber("width", mcp.Required(), mcp.Description("Width in points.")),
				mcp.WithNumber("height", mcp.Required(), mcp.Description("Height in points.")),
				mcp.WithString("text", mcp.Description("Text placed inside the shape.")),
				mcp.WithString("fill_color", mcp.Description("Solid fill color as #RRGGBB.")),
				mcp.WithString("fill_color2", mcp.Description("Second gradient color as #RRGGBB (with gradient_style).")),
				mcp.WithString("gradient_style", mcp.Description("Gradient style: horizontal, vertical, diagonal_up, diagonal_down, from_corner, from_center.")),
				mcp.WithString("line_color", mcp.Description("Border color as #RRGGBB.")),
				mcp.WithNumber("line_weight", mcp.Description("Border weight in points.")),
				mcp.WithBoolean("line_visible", mcp.Description("Show or hide the border.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				shapeType := req.GetInt("shape_type", 0)
				left := req.GetFloat("left", 0)
				top := req.GetFloat("top", 0)
				width := req.GetFloat("width", 0)
				height := req.GetFloat("height", 0)
				text := req.GetString("text", "")

				fill, err := fillSpecFrom(req)
				if err != nil {
					return errResult(err), nil
				}
				line, err := lineSpecFrom(req)
				if err != nil {
					return errResult(err), nil
				}

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
					gotoSlide(app, index)

					shapes, err := getObj(slide, "Shapes")
					if err != nil {
						return nil, err
					}
					defer shapes.Release()
					shape, err := callObj(shapes, "AddShape", shapeType, left, top, width, height)
					if err != nil {
						return nil, err
					}
					defer shape.Release()

					if text != "" {
						if err := setShapeText(shape, text); err != nil {
							return nil, err
						}
					}
					if err := applyFill(shape, fill); err != nil {
						return nil, err
					}
					if err := applyLine(shape, line); err != nil {
						return nil, err
					}
					return addedShapeResult(shape, index)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_add_textbox",
				mcp.WithDescription("Add a textbox to a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithNumber("left", mcp.Required(), mcp.Description("Left edge in points.")),
				mcp.WithNumber("top", mcp.Required(), mcp.Description("Top edge in points.")),
				mcp.WithNumber("width", mcp.Required(), mcp.Description("Width in points.")),
				mcp.WithNumber("height", mcp.Required(), mcp.Description("Height in points.")),
				mcp.WithString("text", mcp.Description("Initial text.")),
				mcp.WithString("font_name", mcp.Description("Font family.")),
				mcp.WithNumber("font_size", mcp.Description("Font size in points.")),
				mcp.WithBoolean("bold", mcp.Description("Bold text.")),
				mcp.WithBoolean("italic", mcp.Description("Italic text.")),
				mcp.WithString("font_color", mcp.Description("Font color as #RRGGBB.")),
				mcp.WithString("align", mcp.Description("Paragraph alignment: left, center, right, justify.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				left := req.GetFloat("left", 0)
				top := req.GetFloat("top", 0)
				width := req.GetFloat("width", 0)
				height := req.GetFloat("height", 0)
				text := req.GetString("text", "")

				font, err := fontSpecFrom(req)
				if err != nil {
					return errResult(err), nil
				}

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
					gotoSlide(app, index)

					shapes, err := getObj(slide, "Shapes")
					if err != nil {
						return nil, err
					}
					defer shapes.Release()
					box, err := callObj(shapes, "AddTextbox", ppt.TextOrientationHorizontal, left, top, width, height)
					if err != nil {
						return nil, err
					}
					defer box.Release()

					if text != "" {
						if err := setShapeText(box, text); err != nil {
							return nil, err
						}
					}
					if err := applyFont(box, font); err != nil {
						return nil, err
					}
					return addedShapeResult(box, index)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_add_picture",
				mcp.WithDescription("Insert a picture from a file."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("file_path", mcp.Required(), mcp.Description("Full path to the image file.")),
				mcp.WithNumber("left", mcp.Required(), mcp.Description("Left edge in points.")),
				mcp.WithNumber("top", mcp.Required(), mcp.Description("Top edge in points.")),
				mcp.WithNumber("width", mcp.Description("Width in points. Omit to keep the native size.")),
				mcp.WithNumber("height", mcp.Description("Height in points. Omit to keep the native size.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				path, err := req.RequireString("file_path")
				if err != nil {
					return errResult(comerr.Argumentf("file_path is required")), nil
				}
				left := req.GetFloat("left", 0)
				top := req.GetFloat("top", 0)
				width := req.GetFloat("width", -1)
				height := req.GetFloat("height", -1)

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
					gotoSlide(app, index)

					shapes, err := getObj(slide, "Shapes")
					if err != nil {
						return nil, err
					}
					defer shapes.Release()
					pic, err := callObj(shapes, "AddPicture", path, ppt.MsoFalse, ppt.MsoTrue, left, top, width, height)
					if err != nil {
						return nil, err
					}
					defer pic.Release()

					name, _ := getString(pic, "Name")
					zorder, _ := getInt(pic, "ZOrderPosition")
					w, _ := getFloat(pic, "Width")
					h, _ := getFloat(pic, "Height")
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
						"shape_name":  name,
						"shape_index": zorder,
						"width":       round2(w),
						"height":      round2(h),
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_add_line",
				mcp.WithDescription("Draw a straight line on a slide."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithNumber("begin_x", mcp.Required(), mcp.Description("Start X in points.")),
				mcp.WithNumber("begin_y", mcp.Required(), mcp.Description("Start Y in points.")),
				mcp.WithNumber("end_x", mcp.Required(), mcp.Description("End X in points.")),
				mcp.WithNumber("end_y", mcp.Required(), mcp.Description("End Y in points.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				bx := req.GetFloat("begin_x", 0)
				by := req.GetFloat("begin_y", 0)
				ex := req.GetFloat("end_x", 0)
				ey := req.GetFloat("end_y", 0)

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
					gotoSlide(app, index)

					shapes, err := getObj(slide, "Shapes")
					if err != nil {
						return nil, err
					}
					defer shapes.Release()
					line, err := callObj(shapes, "AddLine", bx, by, ex, ey)
					if err != nil {
						return nil, err
					}
					defer line.Release()
					return addedShapeResult(line, index)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_list_shapes",
				mcp.WithDescription("List all shapes on a slide with geometry and a text preview."),
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
					shapes, err := getObj(slide, "Shapes")
					if err != nil {
						return nil, err
					}
					defer shapes.Release()
					count, err := getInt(shapes, "Count")
					if err != nil {
						return nil, err
					}
					list := make([]map[string]interface{}, 0, count)
					for i := 1; i <= count; i++ {
						shape, err := getObj(shapes, "Item", i)
						if err != nil {
							return nil, err
						}
						info, err := shapeInfo(shape, i)
						shape.Release()
						if err != nil {
							return nil, err
						}
						list = append(list, info)
					}
					return map[string]interface{}{
						"slide_index":  index,
						"shapes_count": count,
						"shapes":       list,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_shape_info",
				mcp.WithDescription("Get info about one shape, addressed by name or 1-based index."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
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
					shape, err := shapeOn(slide, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					zorder, _ := getInt(shape, "ZOrderPosition")
					return shapeInfo(shape, zorder)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_update_shape",
				mcp.WithDescription("Update a shape's geometry or name. Omitted fields are left unchanged."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("left", mcp.Description("New left edge in points.")),
				mcp.WithNumber("top", mcp.Description("New top edge in points.")),
				mcp.WithNumber("width", mcp.Description("New width in points.")),
				mcp.WithNumber("height", mcp.Description("New height in points.")),
				mcp.WithString("new_name", mcp.Description("New shape name.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				type put struct {
					prop string
					val  interface{}
				}
				var puts []put
				for _, prop := range []struct{ arg, com string }{
					{"left", "Left"}, {"top", "Top"}, {"width", "Width"}, {"height", "Height"},
				} {
					if v, ok := optFloat(req, prop.arg); ok {
						puts = append(puts, put{prop.com, v})
					}
				}
				if newName, ok := optString(req, "new_name"); ok && newName != "" {
					puts = append(puts, put{"Name", newName})
				}
				if len(puts) == 0 {
					return errResult(comerr.Argumentf("nothing to update")), nil
				}
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
					gotoSlide(app, index)
					shape, err := shapeOn(slide, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					for _, p := range puts {
						if err := shape.Put(p.prop, p.val); err != nil {
							return nil, err
						}
					}
					zorder, _ := getInt(shape, "ZOrderPosition")
					return shapeInfo(shape, zorder)
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_delete_shape",
				mcp.WithDescription("Delete a shape."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
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
					gotoSlide(app, index)
					shape, err := shapeOn(slide, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					deleted, _ := getString(shape, "Name")
					if _, err := shape.Call("Delete"); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success": true,
						"deleted": deleted,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_zorder",
				mcp.WithDescription("Change a shape's z-order."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("command", mcp.Required(), mcp.Description("One of: bring_to_front, send_to_back, bring_forward, send_backward.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				var cmd int
				switch req.GetString("command", "") {
				case "bring_to_front":
					cmd = ppt.BringToFront
				case "send_to_back":
					cmd = ppt.SendToBack
				case "bring_forward":
					cmd = ppt.BringForward
				case "send_backward":
					cmd = ppt.SendBackward
				default:
					return errResult(comerr.Argumentf("unknown z-order command %q", req.GetString("command", ""))), nil
				}
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
					shape, err := shapeOn(slide, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					if _, err := shape.Call("ZOrder", cmd); err != nil {
						return nil, err
					}
					zorder, _ := getInt(shape, "ZOrderPosition")
					return map[string]interface{}{
						"success":     true,
						"shape_index": zorder,
					}, nil
				})
			},
		},
	}
}

func addedShapeResult(shape comauto.Object, slideIndex int) (interface{}, error) {
	name, err := getString(shape, "Name")
	if err != nil {
		return nil, err
	}
	zorder, _ := getInt(shape, "ZOrderPosition")
	return map[string]interface{}{
		"success":     true,
		"slide_index": slideIndex,
		"shape_name":  name,
		"shape_index": zorder,
	}, nil
}

func shapeInfo(shape comauto.Object, index int) (map[string]interface{}, error) {
	name, err := getString(shape, "Name")
	if err != nil {
		return nil, err
	}
	id, _ := getInt(shape, "Id")
	shapeType, _ := getInt(shape, "Type")
	left, _ := getFloat(shape, "Left")
	top, _ := getFloat(shape, "Top")
	width, _ := getFloat(shape, "Width")
	height, _ := getFloat(shape, "Height")

	hasText := false
	preview := ""
	if has, err := getBool(shape, "HasTextFrame"); err == nil && has {
		hasText = true
		if frame, err := getObj(shape, "TextFrame"); err == nil {
			if filled, err := getBool(frame, "HasText"); err == nil && filled {
				if rng, err := getObj(frame, "TextRange"); err == nil {
					if text, err := getString(rng, "Text"); err == nil {
						preview = truncate(text, 50)
					}
					rng.Release()
				}
			}
			frame.Release()
		}
	}

	typeName, ok := ppt.ShapeTypeNames[shapeType]
	if !ok {
		typeName = "Unknown"
	}
	return map[string]interface{}{
		"index":        index,
		"name":         name,
		"id":           id,
		"type":         shapeType,
		"type_name":    typeName,
		"left":         round2(left),
		"top":          round2(top),
		"width":        round2(width),
		"height":       round2(height),
		"has_text":     hasText,
		"text_preview": preview,
	}, nil
}

// fillSpec / lineSpec / fontSpec carry pre-parsed formatting so color
// parsing fails fast, before anything is queued on the worker.
type fillSpec struct {
	color    int
	color2   int
	hasColor bool
	has2     bool
	gradient int
}

type lineSpec struct {
	color      int
	hasColor   bool
	weight     float64
	hasWeight  bool
	visible    bool
	hasVisible bool
}

type fontSpec struct {
	name      string
	size      float64
	hasSize   bool
	bold      bool
	hasBold   bool
	italic    bool
	hasItalic bool
	color     int
	hasColor  bool
	align     int
	hasAlign  bool
}

func fillSpecFrom(req mcp.CallToolRequest) (fillSpec, error) {
	var f fillSpec
	if hex, ok := optString(req, "fill_color"); ok && hex != "" {
		c, err := color.HexToInt(hex)
		if err != nil {
			return f, comerr.Argumentf("invalid fill_color: %v", err)
		}
		f.color, f.hasColor = c, true
	}
	if hex, ok := optString(req, "fill_color2"); ok && hex != "" {
		c, err := color.HexToInt(hex)
		if err != nil {
			return f, comerr.Argumentf("invalid fill_color2: %v", err)
		}
		f.color2, f.has2 = c, true
	}
	if style, ok := optString(req, "gradient_style"); ok && style != "" {
		g, known := ppt.GradientStyles[style]
		if !known {
			return f, comerr.Argumentf("unknown gradient_style %q", style)
		}
		f.gradient = g
	}
	return f, nil
}

func lineSpecFrom(req mcp.CallToolRequest) (lineSpec, error) {
	var l lineSpec
	if hex, ok := optString(req, "line_color"); ok && hex != "" {
		c, err := color.HexToInt(hex)
		if err != nil {
			return l, comerr.Argumentf("invalid line_color: %v", err)
		}
		l.color, l.hasColor = c, true
	}
	if w, ok := optFloat(req, "line_weight"); ok {
		l.weight, l.hasWeight = w, true
	}
	if v, ok := optBool(req, "line_visible"); ok {
		l.visible, l.hasVisible = v, true
	}
	return l, nil
}

func fontSpecFrom(req mcp.CallToolRequest) (fontSpec, error) {
	var f fontSpec
	f.name, _ = optString(req, "font_name")
	if size, ok := optFloat(req, "font_size"); ok {
		f.size, f.hasSize = size, true
	}
	if b, ok := optBool(req, "bold"); ok {
		f.bold, f.hasBold = b, true
	}
	if i, ok := optBool(req, "italic"); ok {
		f.italic, f.hasItalic = i, true
	}
	if hex, ok := optString(req, "font_color"); ok && hex != "" {
		c, err := color.HexToInt(hex)
		if err != nil {
			return f, comerr.Argumentf("invalid font_color: %v", err)
		}
		f.color, f.hasColor = c, true
	}
	if align, ok := optString(req, "align"); ok && align != "" {
		a, known := ppt.Alignments[align]
		if !known {
			return f, comerr.Argumentf("unknown align %q, expected left, center, right or justify", align)
		}
		f.align, f.hasAlign = a, true
	}
	return f, nil
}

func setShapeText(shape comauto.Object, text string) error {
	frame, err := getObj(shape, "TextFrame")
	if err != nil {
		return err
	}
	defer frame.Release()
	rng, err := getObj(frame, "TextRange")
	if err != nil {
		return err
	}
	defer rng.Release()
	return rng.Put("Text", text)
}

func applyFill(shape comauto.Object, spec fillSpec) error {
	if !spec.hasColor && !spec.has2 && spec.gradient == 0 {
		return nil
	}
	fill, err := getObj(shape, "Fill")
	if err != nil {
		return err
	}
	defer fill.Release()

	if spec.gradient != 0 || spec.has2 {
		style := spec.gradient
		if style == 0 {
			style = ppt.GradientHorizontal
		}
		if _, err := fill.Call("TwoColorGradient", style, 1); err != nil {
			return err
		}
	} else {
		if _, err := fill.Call("Solid"); err != nil {
			return err
		}
	}
	if spec.hasColor {
		fore, err := getObj(fill, "ForeColor")
		if err != nil {
			return err
		}
		err = fore.Put("RGB", spec.color)
		fore.Release()
		if err != nil {
			return err
		}
	}
	if spec.has2 {
		back, err := getObj(fill, "BackColor")
		if err != nil {
			return err
		}
		err = back.Put("RGB", spec.color2)
		back.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

func applyLine(shape comauto.Object, spec lineSpec) error {
	if !spec.hasColor && !spec.hasWeight && !spec.hasVisible {
		return nil
	}
	line, err := getObj(shape, "Line")
	if err != nil {
		return err
	}
	defer line.Release()

	if spec.hasVisible {
		if err := line.Put("Visible", spec.visible); err != nil {
			return err
		}
	}
	if spec.hasColor {
		fore, err := getObj(line, "ForeColor")
		if err != nil {
			return err
		}
		err = fore.Put("RGB", spec.color)
		fore.Release()
		if err != nil {
			return err
		}
	}
	if spec.hasWeight {
		if err := line.Put("Weight", spec.weight); err != nil {
			return err
		}
	}
	return nil
}

func applyFont(shape comauto.Object, spec fontSpec) error {
	if spec.name == "" && !spec.hasSize && !spec.hasBold && !spec.hasItalic && !spec.hasColor && !spec.hasAlign {
		return nil
	}
	frame, err := getObj(shape, "TextFrame")
	if err != nil {
		return err
	}
	defer frame.Release()
	rng, err := getObj(frame, "TextRange")
	if err != nil {
		return err
	}
	defer rng.Release()

	if spec.name != "" || spec.hasSize || spec.hasBold || spec.hasItalic || spec.hasColor {
		font, err := getObj(rng, "Font")
		if err != nil {
			return err
		}
		defer font.Release()
		if spec.name != "" {
			if err := font.Put("Name", spec.name); err != nil {
				return err
			}
			// East Asian text renders with its own face unless set too.
			if err := font.Put("NameFarEast", spec.name); err != nil {
				return err
			}
		}
		if spec.hasSize {
			if err := font.Put("Size", spec.size); err != nil {
				return err
			}
		}
		if spec.hasBold {
			if err := font.Put("Bold", spec.bold); err != nil {
				return err
			}
		}
		if spec.hasItalic {
			if err := font.Put("Italic", spec.italic); err != nil {
				return err
			}
		}
		if spec.hasColor {
			fc, err := getObj(font, "Color")
			if err != nil {
				return err
			}
			err = fc.Put("RGB", spec.color)
			fc.Release()
			if err != nil {
				return err
			}
		}
	}
	if spec.hasAlign {
		para, err := getObj(rng, "ParagraphFormat")
		if err != nil {
			return err
		}
		err = para.Put("Alignment", spec.align)
		para.Release()
		if err != nil {
			return err
		}
	}
	return nil
}
