package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"pptmcp/internal/comauto/comfake"
	"pptmcp/internal/comerr"
	"pptmcp/internal/dispatch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type toolEnv struct {
	deps Deps
	conn *comfake.Connector
	defs map[string]ToolDef
}

func newToolEnv(t *testing.T) *toolEnv {
	t.Helper()
	conn := comfake.NewConnector()
	mgr := dispatch.NewManager(conn, dispatch.ManagerOptions{})
	exec := dispatch.NewExecutor(mgr, dispatch.Options{})
	require.NoError(t, exec.Start())
	t.Cleanup(func() { exec.Shutdown(true) })

	deps := Deps{Exec: exec, Log: zap.NewNop()}
	defs := make(map[string]ToolDef)
	for _, def := range All(deps) {
		_, dup := defs[def.Tool.Name]
		require.False(t, dup, "duplicate tool %s", def.Tool.Name)
		defs[def.Tool.Name] = def
	}
	return &toolEnv{deps: deps, conn: conn, defs: defs}
}

// app returns the fake Application the executor launched.
func (env *toolEnv) app(t *testing.T) *comfake.Application {
	t.Helper()
	launched := env.conn.Launched()
	require.NotEmpty(t, launched)
	return launched[len(launched)-1]
}

func (env *toolEnv) call(t *testing.T, tool string, args map[string]interface{}) (map[string]interface{}, bool) {
	t.Helper()
	def, ok := env.defs[tool]
	require.True(t, ok, "no such tool %s", tool)

	req := mcp.CallToolRequest{}
	req.Params.Name = tool
	req.Params.Arguments = args
	res, err := def.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)

	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok, "tool %s returned non-text content", tool)
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload), "tool %s returned non-JSON text: %s", tool, text.Text)
	return payload, res.IsError
}

func (env *toolEnv) callOK(t *testing.T, tool string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	payload, isErr := env.call(t, tool, args)
	require.False(t, isErr, "tool %s failed: %v", tool, payload)
	return payload
}

// callErr asserts the tool failed and returns the error object.
func (env *toolEnv) callErr(t *testing.T, tool string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	payload, isErr := env.call(t, tool, args)
	require.True(t, isErr, "tool %s unexpectedly succeeded: %v", tool, payload)
	errObj, ok := payload["error"].(map[string]interface{})
	require.True(t, ok, "error payload missing: %v", payload)
	return errObj
}

func (env *toolEnv) newDeck(t *testing.T, slides int) {
	t.Helper()
	env.callOK(t, "ppt_create_presentation", nil)
	for i := 0; i < slides; i++ {
		env.callOK(t, "ppt_add_slide", map[string]interface{}{"layout": "blank"})
	}
}

func TestConnectReportsAppInfo(t *testing.T) {
	env := newToolEnv(t)

	info := env.callOK(t, "ppt_connect", map[string]interface{}{"visible": true})
	assert.Equal(t, "Microsoft PowerPoint", info["name"])
	assert.Equal(t, "16.0", info["version"])
	assert.Equal(t, true, info["visible"])
	assert.Equal(t, "connected", info["connection_state"])
	assert.Equal(t, -1, env.app(t).VisibleTri())

	info = env.callOK(t, "ppt_get_app_info", nil)
	assert.Equal(t, "connected", info["connection_state"])
}

func TestToolsRequireAPresentation(t *testing.T) {
	env := newToolEnv(t)

	for _, tool := range []string{"ppt_save_presentation", "ppt_get_presentation_info", "ppt_list_slides"} {
		errObj := env.callErr(t, tool, nil)
		assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"], tool)
		assert.Equal(t, noPresentationMsg, errObj["message"], tool)
	}
}

func TestSlideLifecycle(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 2)

	added := env.callOK(t, "ppt_add_slide", map[string]interface{}{"position": 2, "layout": "title"})
	assert.EqualValues(t, 2, added["slide_index"])
	assert.Equal(t, "title", added["layout"])
	assert.Equal(t, 2, env.app(t).LastGoto())

	list := env.callOK(t, "ppt_list_slides", nil)
	assert.EqualValues(t, 3, list["slide_count"])

	moved := env.callOK(t, "ppt_move_slide", map[string]interface{}{"slide_index": 2, "to_position": 3})
	assert.EqualValues(t, 3, moved["to_index"])

	env.callOK(t, "ppt_delete_slide", map[string]interface{}{"slide_index": 3})
	list = env.callOK(t, "ppt_list_slides", nil)
	assert.EqualValues(t, 2, list["slide_count"])

	errObj := env.callErr(t, "ppt_delete_slide", map[string]interface{}{"slide_index": 7})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "out of range")
}

func TestNotesRoundTrip(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	env.callOK(t, "ppt_set_slide_notes", map[string]interface{}{"slide_index": 1, "notes": "talk slowly"})
	got := env.callOK(t, "ppt_get_slide_notes", map[string]interface{}{"slide_index": 1})
	assert.Equal(t, "talk slowly", got["notes"])
}

func TestTextboxAndText(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	added := env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 1,
		"left":        100, "top": 100, "width": 400, "height": 80,
		"text":      "Quarterly Report",
		"font_name": "Arial", "font_size": 32, "bold": true,
		"font_color": "#336699", "align": "center",
	})
	name := added["shape_name"].(string)

	got := env.callOK(t, "ppt_get_text", map[string]interface{}{"slide_index": 1, "shape_name": name})
	assert.Equal(t, "Quarterly Report", got["text"])

	env.callOK(t, "ppt_set_text", map[string]interface{}{"slide_index": 1, "shape_index": 1, "text": "Annual Report"})
	all := env.callOK(t, "ppt_get_text", map[string]interface{}{"slide_index": 1})
	texts := all["texts"].([]interface{})
	require.Len(t, texts, 1)
	assert.Equal(t, "Annual Report", texts[0].(map[string]interface{})["text"])
}

func TestShapeLifecycle(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	env.callOK(t, "ppt_add_shape", map[string]interface{}{
		"slide_index": 1, "shape_type": 1,
		"left": 50, "top": 60, "width": 200, "height": 100,
		"text": "box", "fill_color": "#ff0000", "line_visible": false,
	})
	env.callOK(t, "ppt_add_line", map[string]interface{}{
		"slide_index": 1, "begin_x": 0, "begin_y": 0, "end_x": 100, "end_y": 100,
	})

	list := env.callOK(t, "ppt_list_shapes", map[string]interface{}{"slide_index": 1})
	assert.EqualValues(t, 2, list["shapes_count"])
	shapes := list["shapes"].([]interface{})
	first := shapes[0].(map[string]interface{})
	assert.Equal(t, "AutoShape", first["type_name"])
	assert.Equal(t, "box", first["text_preview"])
	assert.EqualValues(t, 50, first["left"])

	updated := env.callOK(t, "ppt_update_shape", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "left": 10.5, "new_name": "Callout",
	})
	assert.Equal(t, "Callout", updated["name"])
	assert.EqualValues(t, 10.5, updated["left"])

	info := env.callOK(t, "ppt_get_shape_info", map[string]interface{}{"slide_index": 1, "shape_name": "Callout"})
	assert.EqualValues(t, 10.5, info["left"])

	env.callOK(t, "ppt_set_zorder", map[string]interface{}{
		"slide_index": 1, "shape_index": 2, "command": "send_to_back",
	})

	deleted := env.callOK(t, "ppt_delete_shape", map[string]interface{}{"slide_index": 1, "shape_name": "Callout"})
	assert.Equal(t, "Callout", deleted["deleted"])
	list = env.callOK(t, "ppt_list_shapes", map[string]interface{}{"slide_index": 1})
	assert.EqualValues(t, 1, list["shapes_count"])
}

func TestShapeArgumentValidation(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	errObj := env.callErr(t, "ppt_add_shape", map[string]interface{}{
		"slide_index": 1, "shape_type": 1,
		"left": 0, "top": 0, "width": 10, "height": 10,
		"fill_color": "red",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	errObj = env.callErr(t, "ppt_get_shape_info", map[string]interface{}{"slide_index": 1})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	errObj = env.callErr(t, "ppt_set_zorder", map[string]interface{}{
		"slide_index": 1, "shape_index": 1, "command": "sideways",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
}

func TestFindReplace(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 2)

	env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 1, "left": 0, "top": 0, "width": 100, "height": 50,
		"text": "Draft draft DRAFT",
	})
	env.callOK(t, "ppt_add_textbox", map[string]interface{}{
		"slide_index": 2, "left": 0, "top": 0, "width": 100, "height": 50,
		"text": "final draft",
	})

	res := env.callOK(t, "ppt_find_replace", map[string]interface{}{
		"find": "draft", "replace": "plan",
	})
	assert.EqualValues(t, 4, res["replacements"])
	assert.EqualValues(t, 2, res["slides_changed"])

	got := env.callOK(t, "ppt_get_text", map[string]interface{}{"slide_index": 1, "shape_index": 1})
	assert.Equal(t, "plan plan plan", got["text"])

	res = env.callOK(t, "ppt_find_replace", map[string]interface{}{
		"find": "PLAN", "replace": "x", "match_case": true,
	})
	assert.EqualValues(t, 0, res["replacements"])
}

func TestCallObjRejectsNonObjectReturn(t *testing.T) {
	stub := comfake.NewStub("Presentations")
	stub.CallFn["Open"] = func(args ...interface{}) (interface{}, error) {
		return "not an object", nil
	}
	_, err := callObj(stub, "Open", `C:\deck\q3.pptx`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not return an object")
}

func TestReplaceAllCaseFoldWidths(t *testing.T) {
	// U+212A KELVIN SIGN and U+0130 LATIN CAPITAL I WITH DOT lowercase to
	// fewer bytes than they occupy, so byte offsets into a lowercased copy
	// drift off the original text.
	got, n := replaceAll("Kelvin x", "x", "y", false)
	assert.Equal(t, "Kelvin y", got)
	assert.Equal(t, 1, n)

	got, n = replaceAll("Kelvin scale", "kelvin", "Celsius", false)
	assert.Equal(t, "Celsius scale", got)
	assert.Equal(t, 1, n)

	got, n = replaceAll("İstanbul and istanbul", "istanbul", "Bodrum", false)
	assert.Equal(t, "Bodrum and Bodrum", got)
	assert.Equal(t, 2, n)

	got, n = replaceAll("aAaA", "a", "b", false)
	assert.Equal(t, "bbbb", got)
	assert.Equal(t, 4, n)

	got, n = replaceAll("untouched", "", "x", false)
	assert.Equal(t, "untouched", got)
	assert.Equal(t, 0, n)
}

func TestExportPDF(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 3)
	env.callOK(t, "ppt_save_as_presentation", map[string]interface{}{"file_path": `C:\deck\q3.pptx`})

	res := env.callOK(t, "ppt_export_pdf", map[string]interface{}{"output_path": `C:\deck\q3.pdf`})
	assert.EqualValues(t, 3, res["slides"])

	pres := env.app(t).ActivePres()
	require.NotNil(t, pres)
	records := pres.Exports()
	last := records[len(records)-1]
	assert.Equal(t, "ExportAsFixedFormat", last.Op)
	assert.Equal(t, `C:\deck\q3.pdf`, last.Path)
	assert.Equal(t, 2, last.Format)
}

func TestExportPDFRange(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 3)

	// An unsaved deck has no file on disk to copy from.
	errObj := env.callErr(t, "ppt_export_pdf", map[string]interface{}{
		"output_path": `C:\deck\part.pdf`, "start_slide": 1, "end_slide": 2,
	})
	assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"])

	env.callOK(t, "ppt_save_as_presentation", map[string]interface{}{"file_path": `C:\deck\q3.pptx`})
	res := env.callOK(t, "ppt_export_pdf", map[string]interface{}{
		"output_path": `C:\deck\part.pdf`, "start_slide": 2, "end_slide": 3,
	})
	assert.EqualValues(t, 2, res["slides"])
	assert.EqualValues(t, 2, res["start_slide"])
	assert.EqualValues(t, 3, res["end_slide"])

	// The working copy is trimmed and closed; the open deck is untouched.
	pres := env.app(t).ActivePres()
	require.NotNil(t, pres)
	assert.Equal(t, 3, pres.SlideCount())
	for _, rec := range pres.Exports() {
		assert.NotEqual(t, `C:\deck\part.pdf`, rec.Path)
	}

	errObj = env.callErr(t, "ppt_export_pdf", map[string]interface{}{
		"output_path": `C:\deck\part.pdf`, "start_slide": 5,
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
}

func TestExportImages(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 2)

	res := env.callOK(t, "ppt_export_images", map[string]interface{}{
		"output_dir": `C:\out`, "format": "png",
	})
	files := res["files"].([]interface{})
	assert.Len(t, files, 2)

	records := env.app(t).ActivePres().Exports()
	require.Len(t, records, 2)
	assert.Equal(t, "SlideExport", records[0].Op)
	assert.Equal(t, "PNG", records[0].Filter)
	assert.Equal(t, 1, records[0].Slide)

	res = env.callOK(t, "ppt_export_images", map[string]interface{}{
		"output_dir": `C:\out`, "format": "jpg", "slide_index": 2, "width": 1920, "height": 1080,
	})
	assert.EqualValues(t, 2, res["slide_index"])
	records = env.app(t).ActivePres().Exports()
	last := records[len(records)-1]
	assert.Equal(t, "JPG", last.Filter)
	assert.Equal(t, 1920, last.Width)
	assert.Equal(t, 2, last.Slide)

	errObj := env.callErr(t, "ppt_export_images", map[string]interface{}{
		"output_dir": `C:\out`, "format": "bmp",
	})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
}

func TestSlideshowFlow(t *testing.T) {
	env := newToolEnv(t)

	status := env.callOK(t, "ppt_slideshow_status", nil)
	assert.Equal(t, false, status["running"])

	errObj := env.callErr(t, "ppt_next_slide", nil)
	assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"])

	env.newDeck(t, 3)
	started := env.callOK(t, "ppt_start_slideshow", map[string]interface{}{"show_type": "window"})
	assert.EqualValues(t, 1, started["current"])
	assert.EqualValues(t, 3, started["total_slides"])

	next := env.callOK(t, "ppt_next_slide", nil)
	assert.EqualValues(t, 2, next["current"])
	env.callOK(t, "ppt_slideshow_goto", map[string]interface{}{"slide_index": 3})

	status = env.callOK(t, "ppt_slideshow_status", nil)
	assert.Equal(t, true, status["running"])
	assert.EqualValues(t, 3, status["current"])
	assert.Equal(t, "running", status["state_name"])

	env.callOK(t, "ppt_stop_slideshow", nil)
	status = env.callOK(t, "ppt_slideshow_status", nil)
	assert.Equal(t, false, status["running"])

	// Stopping again is not an error.
	stopped := env.callOK(t, "ppt_stop_slideshow", nil)
	assert.Equal(t, true, stopped["success"])
}

func TestSlideshowRangeValidation(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 3)

	errObj := env.callErr(t, "ppt_start_slideshow", map[string]interface{}{"start_slide": 4})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])
	assert.Contains(t, errObj["message"], "start_slide 4 out of range (1-3)")

	errObj = env.callErr(t, "ppt_start_slideshow", map[string]interface{}{"start_slide": 2, "end_slide": 1})
	assert.Equal(t, string(comerr.KindInvalidArgument), errObj["kind"])

	started := env.callOK(t, "ppt_start_slideshow", map[string]interface{}{"start_slide": 2, "end_slide": 3})
	assert.EqualValues(t, 2, started["current"])
	assert.EqualValues(t, 2, started["start_slide"])
	assert.EqualValues(t, 3, started["end_slide"])
}

func TestPresentationSaveFlow(t *testing.T) {
	env := newToolEnv(t)
	env.newDeck(t, 1)

	errObj := env.callErr(t, "ppt_save_presentation", nil)
	assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"])

	saved := env.callOK(t, "ppt_save_as_presentation", map[string]interface{}{"file_path": `C:\deck\a.pptx`})
	assert.Equal(t, true, saved["success"])
	env.callOK(t, "ppt_save_presentation", nil)

	info := env.callOK(t, "ppt_get_presentation_info", nil)
	assert.Equal(t, "a.pptx", info["name"])
	assert.Equal(t, `C:\deck\a.pptx`, info["full_name"])
	assert.Equal(t, true, info["saved"])

	closed := env.callOK(t, "ppt_close_presentation", nil)
	assert.Equal(t, true, closed["success"])
	errObj = env.callErr(t, "ppt_list_slides", nil)
	assert.Equal(t, string(comerr.KindPreconditionFailed), errObj["kind"])
}
