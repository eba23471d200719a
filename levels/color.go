package levels

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// YAMLColor accepts "#rrggbb", "#rrggbbaa" or an SVG colour name.
type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return err
	}
	c.Color = parsed
	return nil
}

func ParseColor(s string) (color.Color, error) {
	if named, ok := colornames.Map[strings.ToLower(s)]; ok {
		return named, nil
	}

	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return nil, fmt.Errorf("invalid color format: %s", s)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i*2 < len(hex); i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid color format: %s", s)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Palette colours a level. Unset entries fall back to DefaultPalette.
type Palette struct {
	Background *YAMLColor `yaml:"background"`
	Wall       *YAMLColor `yaml:"wall"`
	Entity     *YAMLColor `yaml:"entity"`
	Player     *YAMLColor `yaml:"player"`
}

type Colors struct {
	Background color.Color
	Wall       color.Color
	Entity     color.Color
	Player     color.Color
}

func DefaultPalette() Colors {
	return Colors{
		Background: colornames.Black,
		Wall:       colornames.Slategray,
		Entity:     colornames.Orange,
		Player:     colornames.Lightskyblue,
	}
}

// Resolve fills unset entries from DefaultPalette.
func (p Palette) Resolve() Colors {
	out := DefaultPalette()
	pick := func(dst *color.Color, c *YAMLColor) {
		if c != nil && c.Color != nil {
			*dst = c.Color
		}
	}
	pick(&out.Background, p.Background)
	pick(&out.Wall, p.Wall)
	pick(&out.Entity, p.Entity)
	pick(&out.Player, p.Player)
	return out
}
