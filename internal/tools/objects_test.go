package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pptmcp/internal/comerr"
)

func TestTableLifecycle(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	added := env.callOK(t, "ppt_add_table", map[string]interface{}{
		"slide_index": 1, "rows": 2, "cols": 3,
		"row_heights": []interface{}{30.0, 40.0},
	})
	assert.EqualValues(t, 2, added["rows"])
	assert.EqualValues(t, 3, added["columns"])
	tableName := added["shape_name"].(string)
	require.NotEmpty(t, tableName)

	set := env.callOK(t, "ppt_set_table_cell", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName,
		"row": 1, "col": 1,
		"text": "Revenue\nby region",
		"bold": true, "fill_color": "#FFEE00", "vertical_align": "middle",
	})
	// Newlines become paragraph breaks inside a cell.
	assert.Equal(t, "Revenue\rby region", set["text"])

	data := env.callOK(t, "ppt_get_table_data", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName, "include_format": true,
	})
	grid := data["data"].([]interface{})
	require.Len(t, grid, 2)
	assert.Equal(t, "Revenue\rby region", grid[0].([]interface{})[0])
	format := data["format"].([]interface{})
	cell := format[0].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, cell["bold"])
	assert.Equal(t, "#FFEE00", cell["fill_color"])
	assert.Equal(t, "middle", cell["vertical_alignment"])

	grown := env.callOK(t, "ppt_add_table_row", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName, "position": 2, "height": 25.0,
	})
	assert.EqualValues(t, 3, grown["new_row_count"])
	grown = env.callOK(t, "ppt_add_table_column", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName,
	})
	assert.EqualValues(t, 4, grown["new_column_count"])

	shrunk := env.callOK(t, "ppt_delete_table_row", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName, "position": 3,
	})
	assert.EqualValues(t, 2, shrunk["new_row_count"])
	shrunk = env.callOK(t, "ppt_delete_table_column", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName, "position": 4,
	})
	assert.EqualValues(t, 3, shrunk["new_column_count"])

	env.callOK(t, "ppt_merge_table_cells", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName,
		"start_row": 1, "start_col": 1, "end_row": 1, "end_col": 3,
	})
	styleGUID := "{5C22544A-7EE6-4342-B048-85BDC9FD1C3A}"
	styled := env.callOK(t, "ppt_set_table_style", map[string]interface{}{
		"slide_index": 1, "shape_name": tableName,
		"style_id": styleGUID, "first_row": true, "banding_rows": true,
	})
	assert.Equal(t, true, styled["style_applied"])

	shape := env.app(t).ActivePres().ShapeAt(1, 1)
	require.NotNil(t, shape)
	assert.Equal(t, []string{"(1,1)-(1,3)"}, shape.TableMerges())
	assert.Equal(t, styleGUID, shape.TableStyle())
}

func TestTableRejectsBadTargets(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)
	env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 1, "left": 0.0, "top": 0.0, "width": 100.0, "height": 50.0,
	})
	env.callOK(t, "ppt_add_table", map[string]interface{}{
		"slide_index": 1, "rows": 2, "cols": 2,
	})

	errObj := env.callErr(t, "ppt_set_table_cell", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "row": 1, "col": 1, "text": "x",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "is not a table")

	errObj = env.callErr(t, "ppt_set_table_cell", map[string]interface{}{
		"slide_index": 1, "shape_index": 2, "row": 5, "col": 1, "text": "x",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "out of range")

	errObj = env.callErr(t, "ppt_add_table", map[string]interface{}{
		"slide_index": 1, "rows": 2, "cols": 2,
		"row_heights": []interface{}{"tall"},
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	errObj = env.callErr(t, "ppt_delete_table_row", map[string]interface{}{
		"slide_index": 1, "shape_index": 2, "position": 9,
	})
	assert.Contains(t, errObj["message"], "out of range")
}

func TestChartLifecycle(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	added := env.callOK(t, "ppt_add_chart", map[string]interface{}{
		"slide_index": 1, "chart_type": "column",
	})
	assert.Equal(t, "column", added["chart_type"])
	assert.EqualValues(t, 51, added["chart_type_int"])
	chartName := added["shape_name"].(string)

	env.callOK(t, "ppt_set_chart_data", map[string]interface{}{
		"slide_index": 1, "shape_name": chartName,
		"categories": []interface{}{"Q1", "Q2"},
		"series": []interface{}{
			map[string]interface{}{"name": "Revenue", "values": []interface{}{1.5, 2.5}},
			map[string]interface{}{"name": "Cost", "values": []interface{}{1.0, 2.0}},
		},
	})

	data := env.callOK(t, "ppt_get_chart_data", map[string]interface{}{
		"slide_index": 1, "shape_name": chartName,
	})
	assert.Equal(t, []interface{}{"Q1", "Q2"}, data["categories"])
	series := data["series"].([]interface{})
	require.Len(t, series, 2)
	first := series[0].(map[string]interface{})
	assert.Equal(t, "Revenue", first["name"])
	assert.Equal(t, []interface{}{1.5, 2.5}, first["values"])

	// Every ChartData touch must close the grafted Excel workbook again.
	shape := env.app(t).ActivePres().ShapeAt(1, 1)
	require.NotNil(t, shape)
	opens, closes := shape.ChartWorkbookBalance()
	assert.Equal(t, opens, closes, "workbook left open")
	assert.Greater(t, opens, 0)

	formatted := env.callOK(t, "ppt_format_chart", map[string]interface{}{
		"slide_index": 1, "shape_name": chartName,
		"title": "Sales", "has_legend": true, "legend_position": "bottom", "chart_style": 7.0,
	})
	assert.Equal(t, true, formatted["has_title"])
	assert.Equal(t, true, formatted["has_legend"])

	env.callOK(t, "ppt_set_chart_series", map[string]interface{}{
		"slide_index": 1, "shape_name": chartName, "series_index": 1,
		"color": "#FF0000", "show_data_labels": true, "line_weight": 2.5,
	})

	changed := env.callOK(t, "ppt_change_chart_type", map[string]interface{}{
		"slide_index": 1, "shape_name": chartName, "chart_type": "line",
	})
	assert.Equal(t, "line", changed["new_chart_type"])
	assert.EqualValues(t, 4, changed["new_chart_type_int"])
}

func TestChartValidation(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)
	env.callOK(t, "ppt_add_chart", map[string]interface{}{"slide_index": 1})
	env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 1, "left": 0.0, "top": 0.0, "width": 100.0, "height": 50.0,
	})

	errObj := env.callErr(t, "ppt_add_chart", map[string]interface{}{
		"slide_index": 1, "chart_type": "hologram",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	errObj = env.callErr(t, "ppt_set_chart_data", map[string]interface{}{
		"slide_index": 1, "shape_index": 1,
		"categories": []interface{}{"Q1", "Q2"},
		"series": []interface{}{
			map[string]interface{}{"name": "Revenue", "values": []interface{}{1.0}},
		},
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "values for")

	errObj = env.callErr(t, "ppt_get_chart_data", map[string]interface{}{
		"slide_index": 1, "shape_index": 2,
	})
	assert.Contains(t, errObj["message"], "is not a chart")

	// Legend position needs a visible legend first.
	env.callOK(t, "ppt_format_chart", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "has_legend": false,
	})
	errObj = env.callErr(t, "ppt_format_chart", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "legend_position": "bottom",
	})
	assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"])
}

func TestSectionManagement(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 4)

	added := env.callOK(t, "ppt_add_section", map[string]interface{}{
		"name": "Intro", "slide_index": 1,
	})
	assert.EqualValues(t, 1, added["section_index"])
	added = env.callOK(t, "ppt_add_section", map[string]interface{}{
		"name": "Detail", "slide_index": 3,
	})
	assert.EqualValues(t, 2, added["section_index"])

	list := env.callOK(t, "ppt_list_sections", nil)
	assert.EqualValues(t, 2, list["sections_count"])
	sections := list["sections"].([]interface{})
	intro := sections[0].(map[string]interface{})
	assert.Equal(t, "Intro", intro["name"])
	assert.EqualValues(t, 1, intro["first_slide"])
	assert.EqualValues(t, 2, intro["slides_count"])
	detail := sections[1].(map[string]interface{})
	assert.EqualValues(t, 2, detail["slides_count"])

	env.callOK(t, "ppt_manage_section", map[string]interface{}{
		"section_index": 1, "action": "rename", "new_name": "Opening",
	})
	list = env.callOK(t, "ppt_list_sections", nil)
	sections = list["sections"].([]interface{})
	assert.Equal(t, "Opening", sections[0].(map[string]interface{})["name"])

	deleted := env.callOK(t, "ppt_manage_section", map[string]interface{}{
		"section_index": 2, "action": "delete",
	})
	assert.Equal(t, "Detail", deleted["deleted_section"])
	list = env.callOK(t, "ppt_list_sections", nil)
	assert.EqualValues(t, 1, list["sections_count"])

	errObj := env.callErr(t, "ppt_manage_section", map[string]interface{}{
		"section_index": 1, "action": "shuffle",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	errObj = env.callErr(t, "ppt_manage_section", map[string]interface{}{
		"section_index": 1, "action": "rename",
	})
	assert.Contains(t, errObj["message"], "new_name is required")
	errObj = env.callErr(t, "ppt_add_section", map[string]interface{}{
		"name": "Tail", "slide_index": 9,
	})
	assert.Contains(t, errObj["message"], "out of range")
}

func TestDocumentProperties(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	set := env.callOK(t, "ppt_set_properties", map[string]interface{}{
		"title": "Q3 Review", "author": "Finance", "keywords": "quarterly,review",
	})
	assert.EqualValues(t, 3, set["properties_set"])
	assert.ElementsMatch(t, []interface{}{"Title", "Author", "Keywords"}, set["set_names"])

	got := env.callOK(t, "ppt_get_properties", nil)
	props := got["properties"].(map[string]interface{})
	assert.Equal(t, "Q3 Review", props["Title"])
	assert.Equal(t, "Finance", props["Author"])
	assert.Equal(t, "quarterly,review", props["Keywords"])
	assert.Contains(t, props, "Creation Date")

	errObj := env.callErr(t, "ppt_set_properties", nil)
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "nothing to set")
}

func TestMediaTools(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	added := env.callOK(t, "ppt_add_video", map[string]interface{}{
		"slide_index": 1, "file_path": `C:\media\demo.mp4`,
		"left": 10.0, "top": 20.0, "width": 400.0, "height": 225.0,
	})
	assert.Equal(t, `C:\media\demo.mp4`, added["file_path"])

	env.callOK(t, "ppt_add_audio", map[string]interface{}{
		"slide_index": 1, "file_path": `C:\media\jingle.mp3`, "link_to_file": true,
	})

	env.callOK(t, "ppt_set_media_settings", map[string]interface{}{
		"slide_index": 1, "shape_index": 1,
		"volume": 0.25, "muted": true, "fade_in": 500.0, "fade_out": 250.0,
		"loop": true, "hide_while_not_playing": true,
	})
	shape := env.app(t).ActivePres().ShapeAt(1, 1)
	require.NotNil(t, shape)
	media := shape.Media()
	assert.Equal(t, `C:\media\demo.mp4`, media.File)
	assert.Equal(t, 0.25, media.Volume)
	assert.True(t, media.Muted)
	assert.Equal(t, 500.0, media.FadeIn)
	assert.Equal(t, 250.0, media.FadeOut)
	assert.True(t, media.Loop)
	assert.True(t, media.Hidden)

	errObj := env.callErr(t, "ppt_set_media_settings", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "volume": 1.5,
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 1, "left": 0.0, "top": 0.0, "width": 100.0, "height": 50.0,
	})
	errObj = env.callErr(t, "ppt_set_media_settings", map[string]interface{}{
		"slide_index": 1, "shape_index": 3, "muted": true,
	})
	assert.Contains(t, errObj["message"], "is not a media shape")
}
