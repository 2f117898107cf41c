package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/color"
	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func tableTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_table",
				mcp.WithDescription("Add a table to a slide. Positions and sizes are in points."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithNumber("rows", mcp.Required(), mcp.Description("Number of rows.")),
				mcp.WithNumber("cols", mcp.Required(), mcp.Description("Number of columns.")),
				mcp.WithNumber("left", mcp.Description("Left edge in points. Default 50.")),
				mcp.WithNumber("top", mcp.Description("Top edge in points. Default 100.")),
				mcp.WithNumber("width", mcp.Description("Width in points. Default 600.")),
				mcp.WithNumber("height", mcp.Description("Height in points. Default 300.")),
				mcp.WithArray("row_heights", mcp.Description("Row heights in points, from row 1. A shorter list leaves the remaining rows at their default height."), mcp.Items(map[string]interface{}{"type": "number"})),
				mcp.WithArray("col_widths", mcp.Description("Column widths in points, from column 1. A shorter list leaves the remaining columns at their default width."), mcp.Items(map[string]interface{}{"type": "number"})),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				rows := req.GetInt("rows", 0)
				cols := req.GetInt("cols", 0)
				left := req.GetFloat("left", 50)
				top := req.GetFloat("top", 100)
				width := req.GetFloat("width", 600)
				height := req.GetFloat("height", 300)
				if rows < 1 || cols < 1 {
					return errResult(comerr.Argumentf("rows and cols must be at least 1")), nil
				}
				rowHeights, err := floatSliceArg(req, "row_heights")
				if err != nil {
					return errResult(err), nil
				}
				colWidths, err := floatSliceArg(req, "col_widths")
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
					shape, err := callObj(shapes, "AddTable", rows, cols, left, top, width, height)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					table, err := getObj(shape, "Table")
					if err != nil {
						return nil, err
					}
					defer table.Release()

					if err := sizeTableAxis(table, "Rows", "Height", rowHeights); err != nil {
						return nil, err
					}
					if err := sizeTableAxis(table, "Columns", "Width", colWidths); err != nil {
						return nil, err
					}

					rowCount, colCount, err := tableExtent(table)
					if err != nil {
						return nil, err
					}
					name, _ := getString(shape, "Name")
					zorder, _ := getInt(shape, "ZOrderPosition")
					return map[string]interface{}{
						"success":     true,
						"slide_index": index,
						"shape_name":  name,
						"shape_index": zorder,
						"rows":        rowCount,
						"columns":     colCount,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_table_data",
				mcp.WithDescription("Read the full text grid of a table, optionally with per-cell formatting."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithBoolean("include_format", mcp.Description("Also return a 'format' grid with font, fill and alignment per cell.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				includeFormat := req.GetBool("include_format", false)
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, table, closer, err := tableOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()

					rowCount, colCount, err := tableExtent(table)
					if err != nil {
						return nil, err
					}
					data := make([][]string, 0, rowCount)
					var format [][]map[string]interface{}
					if includeFormat {
						format = make([][]map[string]interface{}, 0, rowCount)
					}
					for r := 1; r <= rowCount; r++ {
						rowData := make([]string, 0, colCount)
						var rowFmt []map[string]interface{}
						for c := 1; c <= colCount; c++ {
							cell, err := cellShape(table, r, c)
							if err != nil {
								return nil, err
							}
							text := ""
							if frame, err := getObj(cell, "TextFrame"); err == nil {
								if rng, err := getObj(frame, "TextRange"); err == nil {
									text, _ = getString(rng, "Text")
									rng.Release()
								}
								frame.Release()
							}
							rowData = append(rowData, text)
							if includeFormat {
								rowFmt = append(rowFmt, cellFormat(cell))
							}
							cell.Release()
						}
						data = append(data, rowData)
						if includeFormat {
							format = append(format, rowFmt)
						}
					}

					shapeName, _ := getString(shape, "Name")
					result := map[string]interface{}{
						"success":    true,
						"shape_name": shapeName,
						"rows":       rowCount,
						"columns":    colCount,
						"data":       data,
					}
					if includeFormat {
						result["format"] = format
					}
					return result, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_table_cell",
				mcp.WithDescription("Set text and formatting of one table cell."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("row", mcp.Required(), mcp.Description("1-based row number.")),
				mcp.WithNumber("col", mcp.Required(), mcp.Description("1-based column number.")),
				mcp.WithString("text", mcp.Description("Cell text. Newlines become paragraph breaks.")),
				mcp.WithString("font_name", mcp.Description("Font family. Also sets the East Asian face.")),
				mcp.WithNumber("font_size", mcp.Description("Font size in points.")),
				mcp.WithBoolean("bold", mcp.Description("Bold text.")),
				mcp.WithBoolean("italic", mcp.Description("Italic text.")),
				mcp.WithString("font_color", mcp.Description("Font color as #RRGGBB.")),
				mcp.WithString("fill_color", mcp.Description("Cell background color as #RRGGBB.")),
				mcp.WithString("align", mcp.Description("Text alignment: left, center, right, justify.")),
				mcp.WithString("vertical_align", mcp.Description("Vertical alignment: top, middle, bottom.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				row := req.GetInt("row", 0)
				col := req.GetInt("col", 0)
				text, hasText := optString(req, "text")

				font, err := fontSpecFrom(req)
				if err != nil {
					return errResult(err), nil
				}
				var fillColor int
				hasFill := false
				if hex, ok := optString(req, "fill_color"); ok && hex != "" {
					c, err := color.HexToInt(hex)
					if err != nil {
						return errResult(comerr.Argumentf("invalid fill_color: %v", err)), nil
					}
					fillColor, hasFill = c, true
				}
				anchor := 0
				if va, ok := optString(req, "vertical_align"); ok && va != "" {
					a, known := ppt.VerticalAnchors[va]
					if !known {
						return errResult(comerr.Argumentf("unknown vertical_align %q, expected top, middle or bottom", va)), nil
					}
					anchor = a
				}

				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					_, table, closer, err := tableOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if err := checkCellBounds(table, row, col); err != nil {
						return nil, err
					}
					cell, err := cellShape(table, row, col)
					if err != nil {
						return nil, err
					}
					defer cell.Release()

					if hasText {
						// Inside a cell, PowerPoint treats \r as the paragraph break.
						if err := setShapeText(cell, strings.ReplaceAll(text, "\n", "\r")); err != nil {
							return nil, err
						}
					}
					if err := applyFont(cell, font); err != nil {
						return nil, err
					}
					if hasFill {
						if err := applyFill(cell, fillSpec{color: fillColor, hasColor: true}); err != nil {
							return nil, err
						}
					}
					if anchor != 0 {
						frame, err := getObj(cell, "TextFrame")
						if err != nil {
							return nil, err
						}
						err = frame.Put("VerticalAnchor", anchor)
						frame.Release()
						if err != nil {
							return nil, err
						}
					}

					final := ""
					if frame, err := getObj(cell, "TextFrame"); err == nil {
						if rng, err := getObj(frame, "TextRange"); err == nil {
							final, _ = getString(rng, "Text")
							rng.Release()
						}
						frame.Release()
					}
					return map[string]interface{}{
						"success": true,
						"row":     row,
						"col":     col,
						"text":    final,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_merge_table_cells",
				mcp.WithDescription("Merge a rectangular range of table cells."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("start_row", mcp.Required(), mcp.Description("First row of the range.")),
				mcp.WithNumber("start_col", mcp.Required(), mcp.Description("First column of the range.")),
				mcp.WithNumber("end_row", mcp.Required(), mcp.Description("Last row of the range.")),
				mcp.WithNumber("end_col", mcp.Required(), mcp.Description("Last column of the range.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				startRow := req.GetInt("start_row", 0)
				startCol := req.GetInt("start_col", 0)
				endRow := req.GetInt("end_row", 0)
				endCol := req.GetInt("end_col", 0)
				if endRow < startRow || endCol < startCol {
					return errResult(comerr.Argumentf("end_row/end_col must not precede start_row/start_col")), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					_, table, closer, err := tableOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if err := checkCellBounds(table, startRow, startCol); err != nil {
						return nil, err
					}
					if err := checkCellBounds(table, endRow, endCol); err != nil {
						return nil, err
					}
					from, err := callObj(table, "Cell", startRow, startCol)
					if err != nil {
						return nil, err
					}
					defer from.Release()
					to, err := callObj(table, "Cell", endRow, endCol)
					if err != nil {
						return nil, err
					}
					defer to.Release()
					if _, err := from.Call("Merge", to); err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"success":   true,
						"start_row": startRow,
						"start_col": startCol,
						"end_row":   endRow,
						"end_col":   endCol,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_add_table_row",
				mcp.WithDescription("Insert a row into a table."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("position", mcp.Description("Insert before this 1-based row. Omit to append at the end.")),
				mcp.WithNumber("height", mcp.Description("Row height in points.")),
			),
			Handler: tableAxisAdd(d, "Rows", "Height", "height"),
		},
		{
			Tool: mcp.NewTool("ppt_delete_table_row",
				mcp.WithDescription("Delete a row from a table."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("position", mcp.Required(), mcp.Description("1-based row to delete.")),
			),
			Handler: tableAxisDelete(d, "Rows"),
		},
		{
			Tool: mcp.NewTool("ppt_add_table_column",
				mcp.WithDescription("Insert a column into a table."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("position", mcp.Description("Insert before this 1-based column. Omit to append at the end.")),
				mcp.WithNumber("width", mcp.Description("Column width in points.")),
			),
			Handler: tableAxisAdd(d, "Columns", "Width", "width"),
		},
		{
			Tool: mcp.NewTool("ppt_delete_table_column",
				mcp.WithDescription("Delete a column from a table."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("position", mcp.Required(), mcp.Description("1-based column to delete.")),
			),
			Handler: tableAxisDelete(d, "Columns"),
		},
		{
			Tool: mcp.NewTool("ppt_set_table_style",
				mcp.WithDescription("Apply a built-in table style and toggle style bands."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Table shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("style_id", mcp.Description("Table style GUID, e.g. {5C22544A-7EE6-4342-B048-85BDC9FD1C3A}.")),
				mcp.WithBoolean("first_row", mcp.Description("Header row special formatting.")),
				mcp.WithBoolean("last_row", mcp.Description("Total row special formatting.")),
				mcp.WithBoolean("first_col", mcp.Description("First column special formatting.")),
				mcp.WithBoolean("last_col", mcp.Description("Last column special formatting.")),
				mcp.WithBoolean("banding_rows", mcp.Description("Alternating row bands.")),
				mcp.WithBoolean("banding_cols", mcp.Description("Alternating column bands.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				styleID, hasStyle := optString(req, "style_id")
				type put struct {
					prop string
					val  bool
				}
				var puts []put
				for _, flag := range []struct{ arg, com string }{
					{"first_row", "FirstRow"}, {"last_row", "LastRow"},
					{"first_col", "FirstCol"}, {"last_col", "LastCol"},
					{"banding_rows", "HorizBanding"}, {"banding_cols", "VertBanding"},
				} {
					if v, ok := optBool(req, flag.arg); ok {
						puts = append(puts, put{flag.com, v})
					}
				}
				if (!hasStyle || styleID == "") && len(puts) == 0 {
					return errResult(comerr.Argumentf("nothing to apply")), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					_, table, closer, err := tableOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if hasStyle && styleID != "" {
						if _, err := table.Call("ApplyStyle", styleID, false); err != nil {
							return nil, err
						}
					}
					for _, p := range puts {
						tri := ppt.MsoFalse
						if p.val {
							tri = ppt.MsoTrue
						}
						if err := table.Put(p.prop, tri); err != nil {
							return nil, err
						}
					}
					return map[string]interface{}{
						"success":       true,
						"style_applied": hasStyle && styleID != "",
					}, nil
				})
			},
		},
	}
}

// tableOn resolves a shape that must be a table and its Table object.
// The returned closer releases everything acquired along the way.
func tableOn(app comauto.Object, slideIndex int, name string, shapeIdx int) (comauto.Object, comauto.Object, func(), error) {
	pres, err := activePresentation(app)
	if err != nil {
		return nil, nil, nil, err
	}
	slide, err := slideAt(pres, slideIndex)
	if err != nil {
		pres.Release()
		return nil, nil, nil, err
	}
	shape, err := shapeOn(slide, name, shapeIdx)
	if err != nil {
		slide.Release()
		pres.Release()
		return nil, nil, nil, err
	}
	cleanup := func(extra ...comauto.Object) {
		for _, o := range extra {
			o.Release()
		}
		shape.Release()
		slide.Release()
		pres.Release()
	}
	has, err := getBool(shape, "HasTable")
	if err != nil || !has {
		shapeName, _ := getString(shape, "Name")
		cleanup()
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, nil, nil, comerr.Argumentf("shape %q is not a table", shapeName)
	}
	table, err := getObj(shape, "Table")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return shape, table, func() { cleanup(table) }, nil
}

func tableExtent(table comauto.Object) (int, int, error) {
	rows, err := getObj(table, "Rows")
	if err != nil {
		return 0, 0, err
	}
	rowCount, err := getInt(rows, "Count")
	rows.Release()
	if err != nil {
		return 0, 0, err
	}
	cols, err := getObj(table, "Columns")
	if err != nil {
		return 0, 0, err
	}
	colCount, err := getInt(cols, "Count")
	cols.Release()
	if err != nil {
		return 0, 0, err
	}
	return rowCount, colCount, nil
}

func checkCellBounds(table comauto.Object, row, col int) error {
	rowCount, colCount, err := tableExtent(table)
	if err != nil {
		return err
	}
	if row < 1 || row > rowCount {
		return comerr.Argumentf("Row %d out of range (1-%d)", row, rowCount)
	}
	if col < 1 || col > colCount {
		return comerr.Argumentf("Column %d out of range (1-%d)", col, colCount)
	}
	return nil
}

// cellShape returns the inner Shape of Table.Cell(row, col); text and
// formatting live on that shape, not on the cell itself.
func cellShape(table comauto.Object, row, col int) (comauto.Object, error) {
	cell, err := callObj(table, "Cell", row, col)
	if err != nil {
		return nil, err
	}
	defer cell.Release()
	return getObj(cell, "Shape")
}

// cellFormat reads the formatting of one cell. Every field is best-effort;
// a property PowerPoint refuses to report comes back nil.
func cellFormat(cell comauto.Object) map[string]interface{} {
	result := map[string]interface{}{
		"fill_color": nil, "font_name": nil, "font_size": nil,
		"bold": nil, "italic": nil, "color": nil,
		"alignment": nil, "vertical_alignment": nil,
	}
	if fill, err := getObj(cell, "Fill"); err == nil {
		if fore, err := getObj(fill, "ForeColor"); err == nil {
			if rgb, err := getInt(fore, "RGB"); err == nil {
				result["fill_color"] = color.IntToHex(rgb)
			}
			fore.Release()
		}
		fill.Release()
	}
	frame, err := getObj(cell, "TextFrame")
	if err != nil {
		return result
	}
	defer frame.Release()
	if anchor, err := getInt(frame, "VerticalAnchor"); err == nil {
		if name, ok := ppt.VerticalAnchorNames[anchor]; ok {
			result["vertical_alignment"] = name
		}
	}
	rng, err := getObj(frame, "TextRange")
	if err != nil {
		return result
	}
	defer rng.Release()
	if font, err := getObj(rng, "Font"); err == nil {
		if v, err := getString(font, "Name"); err == nil {
			result["font_name"] = v
		}
		if v, err := getFloat(font, "Size"); err == nil {
			result["font_size"] = v
		}
		if v, err := getBool(font, "Bold"); err == nil {
			result["bold"] = v
		}
		if v, err := getBool(font, "Italic"); err == nil {
			result["italic"] = v
		}
		if fc, err := getObj(font, "Color"); err == nil {
			if rgb, err := getInt(fc, "RGB"); err == nil {
				result["color"] = color.IntToHex(rgb)
			}
			fc.Release()
		}
		font.Release()
	}
	if para, err := getObj(rng, "ParagraphFormat"); err == nil {
		if a, err := getInt(para, "Alignment"); err == nil {
			for name, v := range ppt.Alignments {
				if v == a {
					result["alignment"] = name
					break
				}
			}
		}
		para.Release()
	}
	return result
}

// sizeTableAxis applies per-row heights or per-column widths; entries past
// the axis count are ignored, matching the add-table contract.
func sizeTableAxis(table comauto.Object, axis, dim string, sizes []float64) error {
	if len(sizes) == 0 {
		return nil
	}
	col, err := getObj(table, axis)
	if err != nil {
		return err
	}
	defer col.Release()
	count, err := getInt(col, "Count")
	if err != nil {
		return err
	}
	for i, size := range sizes {
		if i+1 > count {
			break
		}
		item, err := getObj(col, "Item", i+1)
		if err != nil {
			return err
		}
		err = item.Put(dim, size)
		item.Release()
		if err != nil {
			return err
		}
	}
	return nil
}

// tableAxisAdd builds the shared add-row / add-column handler. position
// means "insert before" when present; sizeArg sets the new row height or
// column width when present.
func tableAxisAdd(d Deps, axis, dim, sizeArg string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index := req.GetInt("slide_index", 0)
		name, shapeIdx, err := shapeRef(req)
		if err != nil {
			return errResult(err), nil
		}
		position := req.GetInt("position", 0)
		size, hasSize := optFloat(req, sizeArg)
		return d.run(ctx, func(app comauto.Object) (interface{}, error) {
			_, table, closer, err := tableOn(app, index, name, shapeIdx)
			if err != nil {
				return nil, err
			}
			defer closer()
			gotoSlide(app, index)

			col, err := getObj(table, axis)
			if err != nil {
				return nil, err
			}
			defer col.Release()
			count, err := getInt(col, "Count")
			if err != nil {
				return nil, err
			}
			if position != 0 && (position < 1 || position > count) {
				return nil, comerr.Argumentf("position %d out of range (1-%d)", position, count)
			}
			var added comauto.Object
			if position != 0 {
				added, err = callObj(col, "Add", position)
			} else {
				added, err = callObj(col, "Add")
			}
			if err != nil {
				return nil, err
			}
			defer added.Release()
			if hasSize {
				if err := added.Put(dim, size); err != nil {
					return nil, err
				}
			}
			rowCount, colCount, err := tableExtent(table)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"success":          true,
				"new_row_count":    rowCount,
				"new_column_count": colCount,
			}, nil
		})
	}
}

func tableAxisDelete(d Deps, axis string) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index := req.GetInt("slide_index", 0)
		name, shapeIdx, err := shapeRef(req)
		if err != nil {
			return errResult(err), nil
		}
		position := req.GetInt("position", 0)
		return d.run(ctx, func(app comauto.Object) (interface{}, error) {
			_, table, closer, err := tableOn(app, index, name, shapeIdx)
			if err != nil {
				return nil, err
			}
			defer closer()
			gotoSlide(app, index)

			col, err := getObj(table, axis)
			if err != nil {
				return nil, err
			}
			defer col.Release()
			count, err := getInt(col, "Count")
			if err != nil {
				return nil, err
			}
			if position < 1 || position > count {
				return nil, comerr.Argumentf("position %d out of range (1-%d)", position, count)
			}
			item, err := getObj(col, "Item", position)
			if err != nil {
				return nil, err
			}
			_, err = item.Call("Delete")
			item.Release()
			if err != nil {
				return nil, err
			}
			rowCount, colCount, err := tableExtent(table)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"success":          true,
				"new_row_count":    rowCount,
				"new_column_count": colCount,
			}, nil
		})
	}
}

func floatSliceArg(req mcp.CallToolRequest, key string) ([]float64, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, comerr.Argumentf("%s must be an array of numbers", key)
	}
	out := make([]float64, 0, len(list))
	for _, v := range list {
		f, ok := v.(float64)
		if !ok {
			return nil, comerr.Argumentf("%s must be an array of numbers", key)
		}
		out = append(out, f)
	}
	return out, nil
}
