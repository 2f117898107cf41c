package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/color"
	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func chartTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_chart",
				mcp.WithDescription("Add a chart to a slide. Fill it with ppt_set_chart_data afterwards."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("chart_type", mcp.Description("Chart type: column, column_stacked, bar, line, line_markers, pie, doughnut, area, scatter, radar, bubble, 3d_column, 3d_pie and more. Default column.")),
				mcp.WithNumber("left", mcp.Description("Left edge in points. Default 50.")),
				mcp.WithNumber("top", mcp.Description("Top edge in points. Default 50.")),
				mcp.WithNumber("width", mcp.Description("Width in points. Default 500.")),
				mcp.WithNumber("height", mcp.Description("Height in points. Default 350.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				typeInt, typeName, err := chartTypeArg(req)
				if err != nil {
					return errResult(err), nil
				}
				left := req.GetFloat("left", 50)
				top := req.GetFloat("top", 50)
				width := req.GetFloat("width", 500)
				height := req.GetFloat("height", 350)

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
					shape, err := callObj(shapes, "AddChart2", -1, typeInt, left, top, width, height)
					if err != nil {
						return nil, err
					}
					defer shape.Release()
					chart, err := getObj(shape, "Chart")
					if err != nil {
						return nil, err
					}
					defer chart.Release()
					closeChartWorkbook(chart)

					name, _ := getString(shape, "Name")
					zorder, _ := getInt(shape, "ZOrderPosition")
					return map[string]interface{}{
						"success":        true,
						"slide_index":    index,
						"shape_name":     name,
						"shape_index":    zorder,
						"chart_type":     typeName,
						"chart_type_int": typeInt,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_chart_data",
				mcp.WithDescription("Replace a chart's categories and series."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Chart shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithArray("categories", mcp.Required(), mcp.Description("Category labels, one per data point."), mcp.Items(map[string]interface{}{"type": "string"})),
				mcp.WithArray("series", mcp.Required(), mcp.Description("Series as objects with 'name' (string) and 'values' (numbers, one per category)."), mcp.Items(map[string]interface{}{"type": "object"})),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				categories, err := stringSliceArg(req, "categories")
				if err != nil {
					return errResult(err), nil
				}
				series, err := chartSeriesArg(req)
				if err != nil {
					return errResult(err), nil
				}
				if len(categories) == 0 || len(series) == 0 {
					return errResult(comerr.Argumentf("categories and series must not be empty")), nil
				}
				for _, s := range series {
					if len(s.values) != len(categories) {
						return errResult(comerr.Argumentf("series %q has %d values for %d categories", s.name, len(s.values), len(categories))), nil
					}
				}

				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, chart, closer, err := chartOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if err := writeChartData(chart, categories, series); err != nil {
						return nil, err
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":          true,
						"shape_name":       shapeName,
						"categories_count": len(categories),
						"series_count":     len(series),
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_get_chart_data",
				mcp.WithDescription("Read a chart's categories and series values."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Chart shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, chart, closer, err := chartOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()

					// Series values are read straight off the chart so no
					// Excel workbook has to open.
					col, err := callObj(chart, "SeriesCollection")
					if err != nil {
						return nil, err
					}
					count, err := getInt(col, "Count")
					col.Release()
					if err != nil {
						return nil, err
					}

					var categories []string
					seriesList := make([]map[string]interface{}, 0, count)
					for s := 1; s <= count; s++ {
						ser, err := callObj(chart, "SeriesCollection", s)
						if err != nil {
							return nil, err
						}
						serName, _ := getString(ser, "Name")
						values := []float64{}
						if v, err := ser.Get("Values"); err == nil {
							for _, raw := range v.Slice() {
								values = append(values, comauto.NewVariant(raw).Float64())
							}
						}
						if len(categories) == 0 {
							if v, err := ser.Get("XValues"); err == nil {
								for _, raw := range v.Slice() {
									categories = append(categories, comauto.NewVariant(raw).String())
								}
							}
						}
						ser.Release()
						seriesList = append(seriesList, map[string]interface{}{
							"name":   serName,
							"values": values,
						})
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":    true,
						"shape_name": shapeName,
						"categories": categories,
						"series":     seriesList,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_format_chart",
				mcp.WithDescription("Set a chart's title, legend and style. Omitted fields are left unchanged."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Chart shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("title", mcp.Description("Chart title. Enables the title automatically.")),
				mcp.WithBoolean("has_legend", mcp.Description("Show or hide the legend.")),
				mcp.WithString("legend_position", mcp.Description("Legend position: bottom, left, right, top, corner.")),
				mcp.WithNumber("chart_style", mcp.Description("Built-in chart style number (1-48).")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				title, hasTitle := optString(req, "title")
				legend, hasLegend := optBool(req, "has_legend")
				legendPos := 0
				if pos, ok := optString(req, "legend_position"); ok && pos != "" {
					p, known := ppt.LegendPositions[pos]
					if !known {
						return errResult(comerr.Argumentf("unknown legend_position %q, expected bottom, left, right, top or corner", pos)), nil
					}
					legendPos = p
				}
				style, hasStyle := optFloat(req, "chart_style")

				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, chart, closer, err := chartOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if hasTitle {
						if err := chart.Put("HasTitle", true); err != nil {
							return nil, err
						}
						titleObj, err := getObj(chart, "ChartTitle")
						if err != nil {
							return nil, err
						}
						err = titleObj.Put("Text", title)
						titleObj.Release()
						if err != nil {
							return nil, err
						}
					}
					if hasLegend {
						if err := chart.Put("HasLegend", legend); err != nil {
							return nil, err
						}
					}
					if legendPos != 0 {
						if shown, err := getBool(chart, "HasLegend"); err != nil {
							return nil, err
						} else if !shown {
							return nil, comerr.Preconditionf("Cannot set legend position when the chart has no legend. Set has_legend=true first.")
						}
						legendObj, err := getObj(chart, "Legend")
						if err != nil {
							return nil, err
						}
						err = legendObj.Put("Position", legendPos)
						legendObj.Release()
						if err != nil {
							return nil, err
						}
					}
					if hasStyle {
						if err := chart.Put("ChartStyle", int(style)); err != nil {
							return nil, err
						}
					}

					shapeName, _ := getString(shape, "Name")
					titleOn, _ := getBool(chart, "HasTitle")
					legendOn, _ := getBool(chart, "HasLegend")
					return map[string]interface{}{
						"success":    true,
						"shape_name": shapeName,
						"has_title":  titleOn,
						"has_legend": legendOn,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_set_chart_series",
				mcp.WithDescription("Format one chart series. Omitted fields are left unchanged."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Chart shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("series_index", mcp.Required(), mcp.Description("1-based series index.")),
				mcp.WithString("color", mcp.Description("Series fill color as #RRGGBB.")),
				mcp.WithBoolean("show_data_labels", mcp.Description("Show or hide data labels.")),
				mcp.WithNumber("line_weight", mcp.Description("Line weight in points (line charts).")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				seriesIdx := req.GetInt("series_index", 0)
				rgb := 0
				hasColor := false
				if hex, ok := optString(req, "color"); ok && hex != "" {
					c, err := color.HexToInt(hex)
					if err != nil {
						return errResult(comerr.Argumentf("invalid color: %v", err)), nil
					}
					rgb, hasColor = c, true
				}
				labels, hasLabels := optBool(req, "show_data_labels")
				weight, hasWeight := optFloat(req, "line_weight")

				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, chart, closer, err := chartOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					ser, err := callObj(chart, "SeriesCollection", seriesIdx)
					if err != nil {
						return nil, err
					}
					defer ser.Release()

					if hasColor {
						format, err := getObj(ser, "Format")
						if err != nil {
							return nil, err
						}
						fill, err := getObj(format, "Fill")
						format.Release()
						if err != nil {
							return nil, err
						}
						fore, err := getObj(fill, "ForeColor")
						fill.Release()
						if err != nil {
							return nil, err
						}
						err = fore.Put("RGB", rgb)
						fore.Release()
						if err != nil {
							return nil, err
						}
					}
					if hasLabels {
						if err := ser.Put("HasDataLabels", labels); err != nil {
							return nil, err
						}
					}
					if hasWeight {
						format, err := getObj(ser, "Format")
						if err != nil {
							return nil, err
						}
						line, err := getObj(format, "Line")
						format.Release()
						if err != nil {
							return nil, err
						}
						err = line.Put("Weight", weight)
						line.Release()
						if err != nil {
							return nil, err
						}
					}

					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":      true,
						"shape_name":   shapeName,
						"series_index": seriesIdx,
					}, nil
				})
			},
		},
		{
			Tool: mcp.NewTool("ppt_change_chart_type",
				mcp.WithDescription("Change an existing chart's type."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Chart shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithString("chart_type", mcp.Required(), mcp.Description("New chart type name, e.g. line, pie, bar_stacked.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				typeInt, typeName, err := chartTypeArg(req)
				if err != nil {
					return errResult(err), nil
				}
				return d.run(ctx, func(app comauto.Object) (interface{}, error) {
					shape, chart, closer, err := chartOn(app, index, name, shapeIdx)
					if err != nil {
						return nil, err
					}
					defer closer()
					gotoSlide(app, index)

					if err := chart.Put("ChartType", typeInt); err != nil {
						return nil, err
					}
					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":            true,
						"shape_name":         shapeName,
						"new_chart_type":     typeName,
						"new_chart_type_int": typeInt,
					}, nil
				})
			},
		},
	}
}

type chartSeries struct {
	name   string
	values []float64
}

func chartTypeArg(req mcp.CallToolRequest) (int, string, error) {
	name := req.GetString("chart_type", "column")
	typeInt, known := ppt.ChartTypes[name]
	if !known {
		return 0, "", comerr.Argumentf("unknown chart_type %q", name)
	}
	return typeInt, name, nil
}

func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, comerr.Argumentf("%s must be an array of strings", key)
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		s, ok := v.(string)
		if !ok {
			return nil, comerr.Argumentf("%s must be an array of strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

func chartSeriesArg(req mcp.CallToolRequest) ([]chartSeries, error) {
	raw, ok := req.GetArguments()["series"]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, comerr.Argumentf("series must be an array of {name, values} objects")
	}
	out := make([]chartSeries, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, comerr.Argumentf("series must be an array of {name, values} objects")
		}
		name, _ := m["name"].(string)
		if name == "" {
			return nil, comerr.Argumentf("every series needs a non-empty name")
		}
		rawValues, ok := m["values"].([]interface{})
		if !ok {
			return nil, comerr.Argumentf("series %q needs a numeric values array", name)
		}
		values := make([]float64, 0, len(rawValues))
		for _, v := range rawValues {
			f, ok := v.(float64)
			if !ok {
				return nil, comerr.Argumentf("series %q needs a numeric values array", name)
			}
			values = append(values, f)
		}
		out = append(out, chartSeries{name: name, values: values})
	}
	return out, nil
}

// chartOn resolves a shape that must be a chart and its Chart object.
// The returned closer releases everything acquired along the way.
func chartOn(app comauto.Object, slideIndex int, name string, shapeIdx int) (comauto.Object, comauto.Object, func(), error) {
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
	has, err := getBool(shape, "HasChart")
	if err != nil || !has {
		shapeName, _ := getString(shape, "Name")
		cleanup()
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, nil, nil, comerr.Argumentf("shape %q is not a chart", shapeName)
	}
	chart, err := getObj(shape, "Chart")
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return shape, chart, func() { cleanup(chart) }, nil
}

// closeChartWorkbook closes the Excel workbook AddChart2 grafts onto a new
// chart. Leaving it open leaks an Excel process per chart, so this runs
// after every operation that touches ChartData. Strictly best-effort.
func closeChartWorkbook(chart comauto.Object) {
	data, err := getObj(chart, "ChartData")
	if err != nil {
		return
	}
	defer data.Release()
	if _, err := data.Call("Activate"); err != nil {
		return
	}
	wb, err := getObj(data, "Workbook")
	if err != nil {
		return
	}
	defer wb.Release()
	_, _ = wb.Call("Close", false)
}

// writeChartData pushes categories and series into the chart's backing
// worksheet and rebinds the source range. The workbook is closed again on
// every path.
func writeChartData(chart comauto.Object, categories []string, series []chartSeries) error {
	data, err := getObj(chart, "ChartData")
	if err != nil {
		return err
	}
	defer data.Release()
	if _, err := data.Call("Activate"); err != nil {
		return err
	}
	wb, err := getObj(data, "Workbook")
	if err != nil {
		return err
	}
	defer func() {
		_, _ = wb.Call("Close", false)
		wb.Release()
	}()

	ws, err := getObj(wb, "Worksheets", 1)
	if err != nil {
		return err
	}
	defer ws.Release()
	if cells, err := getObj(ws, "Cells"); err == nil {
		_, _ = cells.Call("Clear")
		cells.Release()
	}

	// Categories go in column A from row 2, series headers across row 1,
	// values below them.
	for i, cat := range categories {
		if err := putCell(ws, i+2, 1, cat); err != nil {
			return err
		}
	}
	for sIdx, s := range series {
		col := sIdx + 2
		if err := putCell(ws, 1, col, s.name); err != nil {
			return err
		}
		for i, val := range s.values {
			if err := putCell(ws, i+2, col, val); err != nil {
				return err
			}
		}
	}

	addr := fmt.Sprintf("Sheet1!$A$1:$%s$%d", columnLetter(len(series)+1), len(categories)+1)
	_, err = chart.Call("SetSourceData", addr)
	return err
}

func putCell(ws comauto.Object, row, col int, value interface{}) error {
	cell, err := getObj(ws, "Cells", row, col)
	if err != nil {
		return err
	}
	defer cell.Release()
	return cell.Put("Value", value)
}

func columnLetter(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}
