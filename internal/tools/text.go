package tools

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
)

func textTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_set_text",
				mcp.WithDescription("Replace the text of a shape."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("text", mcp.Required(), mcp.Description("New text. Use \\n for line breaks.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				text := req.GetString("text", "")
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
					if err := requireTextFrame(shape); err != nil {
						return nil, err
					}
					if err := setShapeText(shape, text); err != nil {
						return nil, err
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
						"shape_name":  shapeName,
						"length":      len([]rune(text)),
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_text",
				mcp.WithDescription("Read the text of a shape, or of every shape on the slide when no shape is given."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name := req.GetString("shape_name", "")
				shapeIdx := req.GetInt("shape_index", 0)
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

					if name == "" && shapeIdx == 0 {
						return allSlideText(slide, index)
					}
					shape, err := shapeOn(slide, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					text, err := shapeText(shape)
					if err != nil {
						return nil, err
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"slide_index": index,
						"shape_name":  shapeName,
						"text":        text,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_format_text",
				mcp.WithDescription("Format the text of a shape. Omitted fields are left unchanged."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("font_name", mcp.Description("Font family.")),
				mcp.WithNumber("font_size", mcp.Description("Font size in points.")),
				mcp.WithBoolean("bold", mcp.Description("Bold text.")),
				mcp.WithBoolean("italic", mcp.Description("Italic text.")),
				mcp.WithString("font_color", mcp.Description("Font color as #RRGGBB.")),
				mcp.WithString("align", mcp.Description("Paragraph alignment: left, center, right, justify.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				font, err := fontSpecFrom(req)
				if err != nil {
					return errResult(err), nil
				}
				if font.name == "" && !font.hasSize && !font.hasBold && !font.hasItalic && !font.hasColor && !font.hasAlign {
					return errResult(comerr.Argumentf("nothing to format")), nil
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
					if err := requireTextFrame(shape); err != nil {
						return nil, err
					}
					if err := applyFont(shape, font); err != nil {
						return nil, err
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
						"shape_name":  shapeName,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_find_replace",
				mcp.WithDescription("Find and replace text across every shape of every slide."),
				mcp.WithString("find", mcp.Required(), mcp.Description("Text to find.")),
				mcp.WithString("replace", mcp.Required(), mcp.Description("Replacement text.")),
				mcp.WithBoolean("match_case", mcp.Description("Case-sensitive match. Default false.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				find := req.GetString("find", "")
				if find == "" {
					return errResult(comerr.Argumentf("find must not be empty")), nil
				}
				replace := req.GetString("replace", "")
				matchCase := req.GetBool("match_case", false)
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
					total := 0
					touched := 0
					for i := 1; i <= count; i++ {
						slide, err := slideAt(pres, i)
						if err != nil {
							return nil, err
						}
						n, err := replaceOnSlide(slide, find, replace, matchCase)
						slide.Release()
						if err != nil {
							return nil, err
						}
						if n > 0 {
							total += n
							touched++
						}
					}
					return map[string]interface{}{
						"success":        true,
						"replacements":   total,
						"slides_changed": touched,
					}, nil
				})
			},
		},
	}
}

func requireTextFrame(shape comauto.Object) error {
	has, err := getBool(shape, "HasTextFrame")
	if err != nil {
		return err
	}
	if !has {
		name, _ := getString(shape, "Name")
		return comerr.Preconditionf("Shape %q has no text frame.", name)
	}
	return nil
}

func shapeText(shape comauto.Object) (string, error) {
	if err := requireTextFrame(shape); err != nil {
		return "", err
	}
	frame, err := getObj(shape, "TextFrame")
	if err != nil {
		return "", err
	}
	defer frame.Release()
	filled, err := getBool(frame, "HasText")
	if err != nil {
		return "", err
	}
	if !filled {
		return "", nil
	}
	rng, err := getObj(frame, "TextRange")
	if err != nil {
		return "", err
	}
	defer rng.Release()
	return getString(rng, "Text")
}

func allSlideText(slide comauto.Object, index int) (interface{}, error) {
	shapes, err := getObj(slide, "Shapes")
	if err != nil {
		return nil, err
	}
	defer shapes.Release()
	count, err := getInt(shapes, "Count")
	if err != nil {
		return nil, err
	}
	texts := make([]map[string]interface{}, 0, count)
	for i := 1; i <= count; i++ {
		shape, err := getObj(shapes, "Item", i)
		if err != nil {
			return nil, err
		}
		has, err := getBool(shape, "HasTextFrame")
		if err != nil {
			shape.Release()
			return nil, err
		}
		if !has {
			shape.Release()
			continue
		}
		text, err := shapeText(shape)
		if err != nil {
			shape.Release()
			return nil, err
		}
		name, _ := getString(shape, "Name")
		shape.Release()
		if text == "" {
			continue
		}
		texts = append(texts, map[string]interface{}{
			"shape_index": i,
			"shape_name":  name,
			"text":        text,
		})
	}
	return map[string]interface{}{
		"slide_index": index,
		"texts":       texts,
	}, nil
}

func replaceOnSlide(slide comauto.Object, find, replace string, matchCase bool) (int, error) {
	shapes, err := getObj(slide, "Shapes")
	if err != nil {
		return 0, err
	}
	defer shapes.Release()
	count, err := getInt(shapes, "Count")
	if err != nil {
		return 0, err
	}
	total := 0
	for i := 1; i <= count; i++ {
		shape, err := getObj(shapes, "Item", i)
		if err != nil {
			return total, err
		}
		n, err := replaceInShape(shape, find, replace, matchCase)
		shape.Release()
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func replaceInShape(shape comauto.Object, find, replace string, matchCase bool) (int, error) {
	has, err := getBool(shape, "HasTextFrame")
	if err != nil || !has {
		return 0, err
	}
	frame, err := getObj(shape, "TextFrame")
	if err != nil {
		return 0, err
	}
	defer frame.Release()
	filled, err := getBool(frame, "HasText")
	if err != nil || !filled {
		return 0, err
	}
	rng, err := getObj(frame, "TextRange")
	if err != nil {
		return 0, err
	}
	defer rng.Release()
	text, err := getString(rng, "Text")
	if err != nil {
		return 0, err
	}
	replaced, n := replaceAll(text, find, replace, matchCase)
	if n == 0 {
		return 0, nil
	}
	if err := rng.Put("Text", replaced); err != nil {
		return 0, err
	}
	return n, nil
}

// replaceAll substitutes every occurrence of find, optionally ignoring
// case while preserving the original text outside the matches.
func replaceAll(text, find, replace string, matchCase bool) (string, int) {
	if matchCase {
		n := strings.Count(text, find)
		if n == 0 {
			return text, 0
		}
		return strings.ReplaceAll(text, find, replace), n
	}
	needle := foldRunes(find)
	if len(needle) == 0 {
		return text, 0
	}
	var b strings.Builder
	n := 0
	for {
		i, w := foldIndex(text, needle)
		if i < 0 {
			b.WriteString(text)
			break
		}
		b.WriteString(text[:i])
		b.WriteString(replace)
		text = text[i+w:]
		n++
	}
	return b.String(), n
}

func foldRunes(s string) []rune {
	runes := make([]rune, 0, len(s))
	for _, r := range s {
		runes = append(runes, unicode.ToLower(r))
	}
	return runes
}

// foldIndex locates the first case-insensitive occurrence of needle in
// text, returning its byte offset and byte length there. Lowercasing can
// change a rune's width (U+212A KELVIN SIGN lowers to a one-byte 'k'), so
// byte offsets into a lowercased copy are useless; match rune by rune
// against the original instead.
func foldIndex(text string, needle []rune) (start, length int) {
	for i := 0; i < len(text); {
		if w, ok := foldMatch(text[i:], needle); ok {
			return i, w
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, 0
}

func foldMatch(s string, needle []rune) (int, bool) {
	off := 0
	for _, want := range needle {
		r, size := utf8.DecodeRuneInString(s[off:])
		if size == 0 || unicode.ToLower(r) != want {
			return 0, false
		}
		off += size
	}
	return off, true
}
