package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"pptmcp/internal/comauto"
	"pptmcp/internal/comerr"
	"pptmcp/internal/ppt"
)

func mediaTools(d Deps) []ToolDef {
	return []ToolDef{
		{
			Tool: mcp.NewTool("ppt_add_video",
				mcp.WithDescription("Insert a video from a file."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("file_path", mcp.Required(), mcp.Description("Full path to the video file.")),
				mcp.WithNumber("left", mcp.Description("Left edge in points. Default 50.")),
				mcp.WithNumber("top", mcp.Description("Top edge in points. Default 50.")),
				mcp.WithNumber("width", mcp.Description("Width in points. Omit to keep the native size.")),
				mcp.WithNumber("height", mcp.Description("Height in points. Omit to keep the native size.")),
				mcp.WithBoolean("link_to_file", mcp.Description("Link instead of embedding.")),
			),
			Handler: addMediaHandler(d),
		},
		{
			Tool: mcp.NewTool("ppt_add_audio",
				mcp.WithDescription("Insert an audio clip from a file."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("file_path", mcp.Required(), mcp.Description("Full path to the audio file.")),
				mcp.WithNumber("left", mcp.Description("Left edge in points. Default 50.")),
				mcp.WithNumber("top", mcp.Description("Top edge in points. Default 50.")),
				mcp.WithNumber("width", mcp.Description("Width in points. Omit for the default icon size.")),
				mcp.WithNumber("height", mcp.Description("Height in points. Omit for the default icon size.")),
				mcp.WithBoolean("link_to_file", mcp.Description("Link instead of embedding.")),
			),
			Handler: addMediaHandler(d),
		},
		{
			Tool: mcp.NewTool("ppt_set_media_settings",
				mcp.WithDescription("Adjust playback settings of a video or audio shape. Omitted fields are left unchanged."),
				mcp.WithNumber("slide_index", mcp.Required(), mcp.Description("1-based slide index.")),
				mcp.WithString("shape_name", mcp.Description("Media shape name.")),
				mcp.WithNumber("shape_index", mcp.Description("1-based shape index.")),
				mcp.WithNumber("volume", mcp.Description("Volume from 0.0 to 1.0.")),
				mcp.WithBoolean("muted", mcp.Description("Mute playback.")),
				mcp.WithNumber("fade_in", mcp.Description("Fade-in duration in milliseconds.")),
				mcp.WithNumber("fade_out", mcp.Description("Fade-out duration in milliseconds.")),
				mcp.WithBoolean("loop", mcp.Description("Loop until stopped.")),
				mcp.WithBoolean("hide_while_not_playing", mcp.Description("Hide the shape while not playing.")),
			),
			Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				index := req.GetInt("slide_index", 0)
				name, shapeIdx, err := shapeRef(req)
				if err != nil {
					return errResult(err), nil
				}
				volume, hasVolume := optFloat(req, "volume")
				if hasVolume && (volume < 0 || volume > 1) {
					return errResult(comerr.Argumentf("volume must be between 0.0 and 1.0")), nil
				}
				muted, hasMuted := optBool(req, "muted")
				fadeIn, hasFadeIn := optFloat(req, "fade_in")
				fadeOut, hasFadeOut := optFloat(req, "fade_out")
				loop, hasLoop := optBool(req, "loop")
				hide, hasHide := optBool(req, "hide_while_not_playing")
				if !hasVolume && !hasMuted && !hasFadeIn && !hasFadeOut && !hasLoop && !hasHide {
					return errResult(comerr.Argumentf("nothing to set")), nil
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
					if t, err := getInt(shape, "Type"); err != nil {
						return nil, err
					} else if t != ppt.ShapeMedia {
						shapeName, _ := getString(shape, "Name")
						return nil, comerr.Argumentf("shape %q is not a media shape", shapeName)
					}

					if hasVolume || hasMuted || hasFadeIn || hasFadeOut {
						media, err := getObj(shape, "MediaFormat")
						if err != nil {
							return nil, err
						}
						defer media.Release()
						if hasVolume {
							if err := media.Put("Volume", volume); err != nil {
								return nil, err
							}
						}
						if hasMuted {
							if err := media.Put("Muted", muted); err != nil {
								return nil, err
							}
						}
						if hasFadeIn {
							if err := media.Put("FadeInDuration", fadeIn); err != nil {
								return nil, err
							}
						}
						if hasFadeOut {
							if err := media.Put("FadeOutDuration", fadeOut); err != nil {
								return nil, err
							}
						}
					}

					// PlaySettings is missing on some media types, so loop
					// and hide are best-effort.
					if hasLoop || hasHide {
						if anim, err := getObj(shape, "AnimationSettings"); err == nil {
							if play, err := getObj(anim, "PlaySettings"); err == nil {
								if hasLoop {
									tri := ppt.MsoFalse
									if loop {
										tri = ppt.MsoTrue
									}
									_ = play.Put("LoopUntilStopped", tri)
								}
								if hasHide {
									tri := ppt.MsoFalse
									if hide {
										tri = ppt.MsoTrue
									}
									_ = play.Put("HideWhileNotPlaying", tri)
								}
								play.Release()
							}
							anim.Release()
						}
					}

					shapeName, _ := getString(shape, "Name")
					return map[string]interface{}{
						"success":    true,
						"shape_name": shapeName,
					}, nil
				})
			},
		},
	}
}

// addMediaHandler serves both ppt_add_video and ppt_add_audio;
// AddMediaObject2 does not care which kind of file it gets.
func addMediaHandler(d Deps) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		index := req.GetInt("slide_index", 0)
		path, err := req.RequireString("file_path")
		if err != nil {
			return errResult(comerr.Argumentf("file_path is required")), nil
		}
		left := req.GetFloat("left", 50)
		top := req.GetFloat("top", 50)
		width, hasWidth := optFloat(req, "width")
		height, hasHeight := optFloat(req, "height")
		linkToFile := req.GetBool("link_to_file", false)

		linkFlag := ppt.MsoFalse
		saveFlag := ppt.MsoTrue
		if linkToFile {
			linkFlag = ppt.MsoTrue
			saveFlag = ppt.MsoFalse
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
			var shape comauto.Object
			if hasWidth && hasHeight {
				shape, err = callObj(shapes, "AddMediaObject2", path, linkFlag, saveFlag, left, top, width, height)
			} else {
				shape, err = callObj(shapes, "AddMediaObject2", path, linkFlag, saveFlag, left, top)
			}
			if err != nil {
				return nil, err
			}
			defer shape.Release()

			shapeName, _ := getString(shape, "Name")
			return map[string]interface{}{
				"success":     true,
				"slide_index": index,
				"shape_name":  shapeName,
				"file_path":   path,
			}, nil
		})
	}
}
