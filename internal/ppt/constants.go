// Package ppt holds the PowerPoint and MSO COM enumeration constants the
// tool handlers pass across the dispatch boundary, plus the lookup maps
// that turn raw enum values into human-readable names.
package ppt

// MsoTriState
const (
	MsoTrue  = -1
	MsoFalse = 0
)

// PpWindowState
const (
	WindowNormal    = 1
	WindowMinimized = 2
	WindowMaximized = 3
)

// PpViewType (subset)
const (
	ViewSlide       = 1
	ViewNotesPage   = 3
	ViewOutline     = 6
	ViewSlideSorter = 7
	ViewNormal      = 9
)

// PpSlideLayout (subset exposed by the tools)
const (
	LayoutTitle              = 1
	LayoutText               = 2
	LayoutTwoColumnText      = 3
	LayoutTable              = 4
	LayoutTitleOnly          = 11
	LayoutBlank              = 12
	LayoutSectionHeader      = 33
	LayoutComparison         = 34
	LayoutContentWithCaption = 35
	LayoutPictureWithCaption = 36
)

// PpSaveAsFileType (subset)
const (
	SaveAsJPG                   = 17
	SaveAsPNG                   = 18
	SaveAsOpenXMLPresentation   = 24
	SaveAsDefault               = 11
	SaveAsPDF                   = 32
)

// PpFixedFormatType
const (
	FixedFormatXPS = 1
	FixedFormatPDF = 2
)

// MsoShapeType (subset)
const (
	ShapeAutoShape   = 1
	ShapeChart       = 3
	ShapeFreeform    = 5
	ShapeGroup       = 6
	ShapeLine        = 9
	ShapePicture     = 13
	ShapePlaceholder = 14
	ShapeMedia       = 16
	ShapeTextBox     = 17
	ShapeTable       = 19
	ShapeSmartArt    = 24
)

// MsoTextOrientation
const (
	TextOrientationHorizontal = 1
)

// PpParagraphAlignment
const (
	AlignLeft       = 1
	AlignCenter     = 2
	AlignRight      = 3
	AlignJustify    = 4
	AlignDistribute = 5
)

// MsoZOrderCmd
const (
	BringToFront  = 0
	SendToBack    = 1
	BringForward  = 2
	SendBackward  = 3
)

// MsoGradientStyle
const (
	GradientHorizontal   = 1
	GradientVertical     = 2
	GradientDiagonalUp   = 3
	GradientDiagonalDown = 4
	GradientFromCorner   = 5
	GradientFromCenter   = 7
)

// PpSelectionType
const (
	SelectionNone   = 0
	SelectionSlides = 1
	SelectionShapes = 2
	SelectionText   = 3
)

// PpSlideShowType
const (
	ShowTypeSpeaker = 1
	ShowTypeWindow  = 2
	ShowTypeKiosk   = 3
)

// PpSlideShowRangeType
const (
	ShowAll        = 1
	ShowSlideRange = 2
)

// PpSlideShowState
const (
	SlideShowRunning     = 1
	SlideShowPaused      = 2
	SlideShowBlackScreen = 3
	SlideShowWhiteScreen = 4
	SlideShowDone        = 5
)

// MsoVerticalAnchor
const (
	AnchorTop    = 1
	AnchorMiddle = 3
	AnchorBottom = 4
)

// VerticalAnchors maps vertical alignment names accepted by the table
// tools to MsoVerticalAnchor values.
var VerticalAnchors = map[string]int{
	"top":    AnchorTop,
	"middle": AnchorMiddle,
	"bottom": AnchorBottom,
}

// VerticalAnchorNames is the reverse of VerticalAnchors.
var VerticalAnchorNames = map[int]string{
	AnchorTop:    "top",
	AnchorMiddle: "middle",
	AnchorBottom: "bottom",
}

// ChartTypes maps chart type names accepted by the chart tools to
// XlChartType values.
var ChartTypes = map[string]int{
	"column":             51,
	"column_stacked":     52,
	"column_stacked_100": 53,
	"bar":                57,
	"bar_stacked":        58,
	"line":               4,
	"line_markers":       65,
	"line_stacked":       63,
	"pie":                5,
	"pie_exploded":       69,
	"doughnut":           -4120,
	"area":               1,
	"area_stacked":       76,
	"scatter":            -4169,
	"scatter_lines":      74,
	"radar":              -4151,
	"bubble":             15,
	"3d_column":          54,
	"3d_pie":             -4102,
	"3d_line":            -4101,
}

// ChartTypeNames is the reverse of ChartTypes.
var ChartTypeNames = func() map[int]string {
	names := make(map[int]string, len(ChartTypes))
	for name, v := range ChartTypes {
		names[v] = name
	}
	return names
}()

// LegendPositions maps legend position names accepted by the chart tools
// to XlLegendPosition values.
var LegendPositions = map[string]int{
	"bottom": -4107,
	"left":   -4131,
	"right":  -4152,
	"top":    -4160,
	"corner": 2,
}

// ShapeTypeNames maps MsoShapeType values to readable names.
var ShapeTypeNames = map[int]string{
	1:  "AutoShape",
	2:  "Callout",
	3:  "Chart",
	4:  "Comment",
	5:  "Freeform",
	6:  "Group",
	7:  "EmbeddedOLEObject",
	8:  "FormControl",
	9:  "Line",
	10: "LinkedOLEObject",
	11: "LinkedPicture",
	12: "OLEControlObject",
	13: "Picture",
	14: "Placeholder",
	15: "TextEffect",
	16: "Media",
	17: "TextBox",
	19: "Table",
	24: "SmartArt",
}

// WindowStateNames maps PpWindowState values to readable names.
var WindowStateNames = map[int]string{
	WindowNormal:    "normal",
	WindowMinimized: "minimized",
	WindowMaximized: "maximized",
}

// SelectionTypeNames maps PpSelectionType values to readable names.
var SelectionTypeNames = map[int]string{
	SelectionNone:   "none",
	SelectionSlides: "slides",
	SelectionShapes: "shapes",
	SelectionText:   "text",
}

// SlideShowStateNames maps PpSlideShowState values to readable names.
var SlideShowStateNames = map[int]string{
	SlideShowRunning:     "running",
	SlideShowPaused:      "paused",
	SlideShowBlackScreen: "black_screen",
	SlideShowWhiteScreen: "white_screen",
	SlideShowDone:        "done",
}

// ShowTypeNames maps PpSlideShowType values to readable names.
var ShowTypeNames = map[int]string{
	ShowTypeSpeaker: "speaker",
	ShowTypeWindow:  "window",
	ShowTypeKiosk:   "kiosk",
}

// LayoutNames maps the layout names accepted by the slide tools to
// PpSlideLayout values.
var LayoutNames = map[string]int{
	"title":                LayoutTitle,
	"text":                 LayoutText,
	"two_column_text":      LayoutTwoColumnText,
	"table":                LayoutTable,
	"title_only":           LayoutTitleOnly,
	"blank":                LayoutBlank,
	"section_header":       LayoutSectionHeader,
	"comparison":           LayoutComparison,
	"content_with_caption": LayoutContentWithCaption,
	"picture_with_caption": LayoutPictureWithCaption,
}

// SaveFormats maps file format names accepted by the save tools to
// PpSaveAsFileType values.
var SaveFormats = map[string]int{
	"pptx":    SaveAsOpenXMLPresentation,
	"pdf":     SaveAsPDF,
	"png":     SaveAsPNG,
	"jpg":     SaveAsJPG,
	"default": SaveAsDefault,
}

// ImageFilters maps image format names to the FilterName argument of
// Slide.Export.
var ImageFilters = map[string]string{
	"png": "PNG",
	"jpg": "JPG",
}

// GradientStyles maps gradient style names accepted by the shape tools to
// MsoGradientStyle values.
var GradientStyles = map[string]int{
	"horizontal":    GradientHorizontal,
	"vertical":      GradientVertical,
	"diagonal_up":   GradientDiagonalUp,
	"diagonal_down": GradientDiagonalDown,
	"from_corner":   GradientFromCorner,
	"from_center":   GradientFromCenter,
}

// Alignments maps alignment names accepted by the text tools to
// PpParagraphAlignment values.
var Alignments = map[string]int{
	"left":    AlignLeft,
	"center":  AlignCenter,
	"right":   AlignRight,
	"justify": AlignJustify,
}

// ShowTypes maps show type names accepted by the slideshow tools to
// PpSlideShowType values.
var ShowTypes = map[string]int{
	"speaker": ShowTypeSpeaker,
	"window":  ShowTypeWindow,
	"kiosk":   ShowTypeKiosk,
}

// SlideSizePresets maps aspect-ratio presets to (width, height) in points.
var SlideSizePresets = map[string][2]float64{
	"16:9": {960, 540},
	"4:3":  {720, 540},
}
