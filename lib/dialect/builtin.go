package dialect

func Builtin() []*Dialect {
	return []*Dialect{eos(), ma3()}
}

func eos() *Dialect {
	return &Dialect{
		Name:           "eos",
		Address:        "/eos/newcmd",
		RoundingPoints: 2,
		Format:         FormatPadded,
		Absolute: map[string]string{
			"intensity":   "Chan # at $ Enter",
			"pan":         "Chan # Pan $ Enter",
			"tilt":        "Chan # Tilt $ Enter",
			"zoom":        "Chan # Zoom $ Enter",
			"iris":        "Chan # Iris $ Enter",
			"edge":        "Chan # Edge $ Enter",
			"diffusion":   "Chan # Diffusion $ Enter",
			"strobe":      "Chan # Strobe $ Enter",
			"gobo_speed":  "Chan # Gobo_Index\\Speed $ Enter",
			"prism":       "Chan # Beam_Fx_Select $ Enter",
			"rgb_color":   "Chan # Red $1 Green $2 Blue $3 Enter",
			"cmy_color":   "Chan # Cyan $1 Magenta $2 Yellow $3 Enter",
			"rgbw_color":  "Chan # Red $1 Green $2 Blue $3 White $4 Enter",
			"rgba_color":  "Chan # Red $1 Green $2 Blue $3 Amber $4 Enter",
			"rgbl_color":  "Chan # Red $1 Green $2 Blue $3 Lime $4 Enter",
			"rgbaw_color": "Chan # Red $1 Green $2 Blue $3 Amber $4 White $5 Enter",
			"rgbam_color": "Chan # Red $1 Green $2 Blue $3 Amber $4 Mint $5 Enter",
		},
		Increase: map[string]string{
			"intensity": "Chan # at + $ Enter",
			"pan":       "Chan # Pan + $ Enter",
			"tilt":      "Chan # Tilt + $ Enter",
			"zoom":      "Chan # Zoom + $ Enter",
			"iris":      "Chan # Iris + $ Enter",
			"edge":      "Chan # Edge + $ Enter",
			"diffusion": "Chan # Diffusion + $ Enter",
			"strobe":    "Chan # Strobe + $ Enter",
		},
		Decrease: map[string]string{
			"intensity": "Chan # at - $ Enter",
			"pan":       "Chan # Pan - $ Enter",
			"tilt":      "Chan # Tilt - $ Enter",
			"zoom":      "Chan # Zoom - $ Enter",
			"iris":      "Chan # Iris - $ Enter",
			"edge":      "Chan # Edge - $ Enter",
			"diffusion": "Chan # Diffusion - $ Enter",
			"strobe":    "Chan # Strobe - $ Enter",
		},
	}
}

func ma3() *Dialect {
	return &Dialect{
		Name:           "ma3",
		Address:        "/cmd",
		RoundingPoints: 1,
		Format:         FormatPlain,
		Absolute: map[string]string{
			"intensity":  "Fixture # At $",
			"pan":        "Fixture # Attribute \"Pan\" At $",
			"tilt":       "Fixture # Attribute \"Tilt\" At $",
			"zoom":       "Fixture # Attribute \"Zoom\" At $",
			"iris":       "Fixture # Attribute \"Iris\" At $",
			"strobe":     "Fixture # Attribute \"Shutter1Strobe\" At $",
			"gobo_speed": "Fixture # Attribute \"Gobo1WheelSpin\" At $",
			"prism":      "Fixture # Attribute \"Prism1\" At $",
			"color":      "Fixture # Attribute \"ColorRGB_R\" At $1; Fixture # Attribute \"ColorRGB_G\" At $2; Fixture # Attribute \"ColorRGB_B\" At $3",
			"cmy_color":  "Fixture # Attribute \"ColorSub_C\" At $1; Fixture # Attribute \"ColorSub_M\" At $2; Fixture # Attribute \"ColorSub_Y\" At $3",
		},
		Increase: map[string]string{
			"intensity": "Fixture # At + $",
			"pan":       "Fixture # Attribute \"Pan\" At + $",
			"tilt":      "Fixture # Attribute \"Tilt\" At + $",
			"zoom":      "Fixture # Attribute \"Zoom\" At + $",
		},
		Decrease: map[string]string{
			"intensity": "Fixture # At - $",
			"pan":       "Fixture # Attribute \"Pan\" At - $",
			"tilt":      "Fixture # Attribute \"Tilt\" At - $",
			"zoom":      "Fixture # Attribute \"Zoom\" At - $",
		},
	}
}
