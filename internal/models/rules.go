package models

// ChannelRules defines the YAML configuration for channel display
// names and highlight rules applied to record views.
type ChannelRules struct {
	DefaultColor string           `json:"defaultColor" yaml:"default_color"`
	Channels     []ChannelMapping `json:"channels" yaml:"channels"`
	Rules        []HighlightRule  `json:"rules" yaml:"rules"`
}

// ChannelMapping maps a bus plus channel number to a display name.
type ChannelMapping struct {
	Bus     string `json:"bus" yaml:"bus"`
	Channel uint16 `json:"channel" yaml:"channel"`
	Name    string `json:"name" yaml:"name"`
}

// HighlightRule marks record rows matching a frame ID or type with a
// color. Higher priority rules are evaluated first.
type HighlightRule struct {
	Bus      string `json:"bus,omitempty" yaml:"bus,omitempty"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	FrameID  uint32 `json:"frameId,omitempty" yaml:"frame_id,omitempty"`
	Color    string `json:"color" yaml:"color"`
	Priority int    `json:"priority" yaml:"priority"`
}

// NameFor returns the display name for a bus/channel pair, or "" when
// no mapping exists.
func (r *ChannelRules) NameFor(bus string, channel uint16) string {
	for _, m := range r.Channels {
		if m.Bus == bus && m.Channel == channel {
			return m.Name
		}
	}
	return ""
}
