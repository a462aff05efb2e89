package config

// ColorScheme defines the colors used by terminal rendering
type ColorScheme struct {
	// Preset name ("default" or "monochrome"); custom values override the preset
	Preset string `yaml:"preset,omitempty" json:"preset,omitempty"`

	Accent       string `yaml:"accent,omitempty" json:"accent,omitempty"`
	ColumnBorder string `yaml:"column_border,omitempty" json:"column_border,omitempty"`

	// Text colors
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Subtle string `yaml:"subtle,omitempty" json:"subtle,omitempty"` // Muted/placeholder text
	Normal string `yaml:"normal,omitempty" json:"normal,omitempty"`

	// Notification colors (foreground/background pairs)
	InfoFg    string `yaml:"info_fg,omitempty" json:"info_fg,omitempty"`
	InfoBg    string `yaml:"info_bg,omitempty" json:"info_bg,omitempty"`
	WarningFg string `yaml:"warning_fg,omitempty" json:"warning_fg,omitempty"`
	WarningBg string `yaml:"warning_bg,omitempty" json:"warning_bg,omitempty"`
	ErrorFg   string `yaml:"error_fg,omitempty" json:"error_fg,omitempty"`
	ErrorBg   string `yaml:"error_bg,omitempty" json:"error_bg,omitempty"`
}

// DefaultColorScheme returns the default color scheme (purple accent)
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Preset:       "default",
		Accent:       "#874BFD",
		ColumnBorder: "#5F87D7",
		Title:        "#D75FD7",
		Subtle:       "#585858",
		Normal:       "#D0D0D0",
		InfoFg:       "#00AFFF",
		InfoBg:       "#00005F",
		WarningFg:    "#FFD700",
		WarningBg:    "#875F00",
		ErrorFg:      "#FF0000",
		ErrorBg:      "#5F0000",
	}
}

// MonochromeColorScheme returns a black and white color scheme
func MonochromeColorScheme() ColorScheme {
	return ColorScheme{
		Preset:       "monochrome",
		Accent:       "#FFFFFF",
		ColumnBorder: "#FFFFFF",
		Title:        "#FFFFFF",
		Subtle:       "#585858",
		Normal:       "#D0D0D0",
		InfoFg:       "#FFFFFF",
		InfoBg:       "#1C1C1C",
		WarningFg:    "#FFFFFF",
		WarningBg:    "#3A3A3A",
		ErrorFg:      "#FFFFFF",
		ErrorBg:      "#585858",
	}
}

func presetScheme(name string) ColorScheme {
	if name == "monochrome" {
		return MonochromeColorScheme()
	}
	return DefaultColorScheme()
}

// ApplyDefaults fills empty values from the selected preset
func (c *ColorScheme) ApplyDefaults() {
	p := presetScheme(c.Preset)
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Preset, p.Preset)
	fill(&c.Accent, p.Accent)
	fill(&c.ColumnBorder, p.ColumnBorder)
	fill(&c.Title, p.Title)
	fill(&c.Subtle, p.Subtle)
	fill(&c.Normal, p.Normal)
	fill(&c.InfoFg, p.InfoFg)
	fill(&c.InfoBg, p.InfoBg)
	fill(&c.WarningFg, p.WarningFg)
	fill(&c.WarningBg, p.WarningBg)
	fill(&c.ErrorFg, p.ErrorFg)
	fill(&c.ErrorBg, p.ErrorBg)
}

// MergeFrom copies the non-empty values of other onto c
func (c *ColorScheme) MergeFrom(other ColorScheme) {
	merge := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	merge(&c.Preset, other.Preset)
	merge(&c.Accent, other.Accent)
	merge(&c.ColumnBorder, other.ColumnBorder)
	merge(&c.Title, other.Title)
	merge(&c.Subtle, other.Subtle)
	merge(&c.Normal, other.Normal)
	merge(&c.InfoFg, other.InfoFg)
	merge(&c.InfoBg, other.InfoBg)
	merge(&c.WarningFg, other.WarningFg)
	merge(&c.WarningBg, other.WarningBg)
	merge(&c.ErrorFg, other.ErrorFg)
	merge(&c.ErrorBg, other.ErrorBg)
}
