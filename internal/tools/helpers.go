package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/dispatch"
)

const noPresentationMsg = "No presentation is open. Use ppt_create_presentation or ppt_open_presentation first."

// run submits fn and shapes the outcome: success becomes a JSON text
// result, failure becomes an error result carrying the normalized kind
// and the raw COM payload.
func (d Deps) run(ctx context.Context, fn dispatch.Func) (*mcp.CallToolResult, error) {
	val, err := d.Exec.Submit(ctx, fn)
	if err != nil {
		return errResult(err), nil
	}
	return jsonResult(val), nil
}

func jsonResult(val interface{}) *mcp.CallToolResult {
	b, err := json.Marshal(val)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf(`{"error":{"kind":"unknown","message":"marshal result: %v"}}`, err))
	}
	return mcp.NewToolResultText(string(b))
}

func errResult(err error) *mcp.CallToolResult {
	norm := comerr.Normalize(err)
	payload := map[string]interface{}{
		"kind":    norm.Kind,
		"message": norm.Message,
	}
	if norm.RawCode != 0 {
		payload["raw_code"] = fmt.Sprintf("0x%08X", norm.RawCode)
	}
	if norm.RawSource != "" {
		payload["raw_source"] = norm.RawSource
	}
	if norm.RawDescription != "" {
		payload["raw_description"] = norm.RawDescription
	}
	if norm.Retry != nil {
		payload["retry"] = norm.Retry.Error()
	}
	b, _ := json.Marshal(map[string]interface{}{"error": payload})
	return mcp.NewToolResultError(string(b))
}

// getObj reads a property that must hold a sub-object.
func getObj(o comauto.Object, name string, args ...interface{}) (comauto.Object, error) {
	v, err := o.Get(name, args...)
	if err != nil {
		return nil, err
	}
	obj := v.Object()
	if obj == nil {
		return nil, fmt.Errorf("property %s did not return an object", name)
	}
	return obj, nil
}

// callObj invokes a method that must return a sub-object.
func callObj(o comauto.Object, name string, args ...interface{}) (comauto.Object, error) {
	v, err := o.Call(name, args...)
	if err != nil {
		return nil, err
	}
	obj := v.Object()
	if obj == nil {
		return nil, fmt.Errorf("method %s did not return an object", name)
	}
	return obj, nil
}

func getInt(o comauto.Object, name string) (int, error) {
	v, err := o.Get(name)
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

func getFloat(o comauto.Object, name string) (float64, error) {
	v, err := o.Get(name)
	if err != nil {
		return 0, err
	}
	return v.Float64(), nil
}

func getString(o comauto.Object, name string) (string, error) {
	v, err := o.Get(name)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func getBool(o comauto.Object, name string) (bool, error) {
	v, err := o.Get(name)
	if err != nil {
		return false, err
	}
	return v.Bool(), nil
}

// activePresentation resolves the active presentation, failing the
// request as a precondition when no deck is open. Caller releases.
func activePresentation(app comauto.Object) (comauto.Object, error) {
	col, err := getObj(app, "Presentations")
	if err != nil {
		return nil, err
	}
	defer col.Release()
	count, err := getInt(col, "Count")
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, comerr.Preconditionf(noPresentationMsg)
	}
	return getObj(app, "ActivePresentation")
}

func slideCount(pres comauto.Object) (int, error) {
	slides, err := getObj(pres, "Slides")
	if err != nil {
		return 0, err
	}
	defer slides.Release()
	return getInt(slides, "Count")
}

// slideAt validates the 1-based index against the deck and returns the
// slide. Caller releases.
func slideAt(pres comauto.Object, index int) (comauto.Object, error) {
	slides, err := getObj(pres, "Slides")
	if err != nil {
		return nil, err
	}
	defer slides.Release()
	count, err := getInt(slides, "Count")
	if err != nil {
		return nil, err
	}
	if index < 1 || index > count {
		return nil, comerr.Argumentf("Slide index %d out of range (1-%d)", index, count)
	}
	return getObj(slides, "Item", index)
}

// gotoSlide navigates the active window to the slide about to be touched
// so the user sees what the tool is doing. Strictly best-effort: a
// hidden window or a read-only view must never fail the operation.
func gotoSlide(app comauto.Object, index int) {
	win, err := getObj(app, "ActiveWindow")
	if err != nil {
		return
	}
	defer win.Release()
	view, err := getObj(win, "View")
	if err != nil {
		return
	}
	defer view.Release()
	_, _ = view.Call("GotoSlide", index)
}

// shapeOn resolves a shape by name (preferred) or 1-based index.
// Caller releases.
func shapeOn(slide comauto.Object, name string, index int) (comauto.Object, error) {
	shapes, err := getObj(slide, "Shapes")
	if err != nil {
		return nil, err
	}
	defer shapes.Release()
	if name != "" {
		return getObj(shapes, "Item", name)
	}
	count, err := getInt(shapes, "Count")
	if err != nil {
		return nil, err
	}
	if index < 1 || index > count {
		return nil, comerr.Argumentf("Shape index %d out of range (1-%d)", index, count)
	}
	return getObj(shapes, "Item", index)
}

// shapeRef reads the shape_name / shape_index pair shared by the shape
// and text tools.
func shapeRef(req mcp.CallToolRequest) (string, int, error) {
	name := req.GetString("shape_name", "")
	index := req.GetInt("shape_index", 0)
	if name == "" && index == 0 {
		return "", 0, comerr.Argumentf("either shape_name or shape_index is required")
	}
	return name, index, nil
}

// optBool reports a bool argument and whether it was present at all;
// several tools treat absence as "leave unchanged".
func optBool(req mcp.CallToolRequest, key string) (bool, bool) {
	if _, ok := req.GetArguments()[key]; !ok {
		return false, false
	}
	return req.GetBool(key, false), true
}

func optFloat(req mcp.CallToolRequest, key string) (float64, bool) {
	if _, ok := req.GetArguments()[key]; !ok {
		return 0, false
	}
	return req.GetFloat(key, 0), true
}

func optString(req mcp.CallToolRequest, key string) (string, bool) {
	if _, ok := req.GetArguments()[key]; !ok {
		return "", false
	}
	return req.GetString(key, ""), true
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
