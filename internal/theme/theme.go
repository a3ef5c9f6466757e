package theme

import (
	"image/color"
	"reflect"
	"sort"
	"strings"
)

// Theme defines the colours of the window chrome. Circle colours are random
// and not themed.
type Theme struct {
	Name string

	// General
	Background color.RGBA // behind the canvas
	Foreground color.RGBA // status text

	// Title and shortcut bars
	TitleBackground  color.RGBA
	TitleText        color.RGBA
	StatusBackground color.RGBA

	// Toolbar buttons
	ToolbarBackground     color.RGBA
	ButtonBackground      color.RGBA
	ButtonBackgroundHover color.RGBA
	ButtonBackgroundPress color.RGBA
	ButtonText            color.RGBA
	ButtonBorder          color.RGBA

	// Canvas
	CheckerLight      color.RGBA
	CheckerDark       color.RGBA
	SelectionOutline  color.RGBA // ring around the selected circle
	MessageBackground color.RGBA
}

// Default returns the built-in light theme.
func Default() *Theme {
	return &Theme{
		Name:                  "default",
		Background:            color.RGBA{220, 220, 220, 255},
		Foreground:            color.RGBA{0, 0, 0, 255},
		TitleBackground:       color.RGBA{220, 220, 220, 255},
		TitleText:             color.RGBA{0, 0, 0, 255},
		StatusBackground:      color.RGBA{220, 220, 220, 255},
		ToolbarBackground:     color.RGBA{220, 220, 220, 255},
		ButtonBackground:      color.RGBA{200, 200, 200, 255},
		ButtonBackgroundHover: color.RGBA{180, 180, 180, 255},
		ButtonBackgroundPress: color.RGBA{150, 150, 150, 255},
		ButtonText:            color.RGBA{0, 0, 0, 255},
		ButtonBorder:          color.RGBA{0, 0, 0, 255},
		CheckerLight:          color.RGBA{220, 220, 220, 255},
		CheckerDark:           color.RGBA{192, 192, 192, 255},
		SelectionOutline:      color.RGBA{30, 144, 255, 255},
		MessageBackground:     color.RGBA{255, 255, 255, 230},
	}
}

// Dark returns the built-in dark theme.
func Dark() *Theme {
	return &Theme{
		Name:                  "dark",
		Background:            color.RGBA{40, 40, 40, 255},
		Foreground:            color.RGBA{230, 230, 230, 255},
		TitleBackground:       color.RGBA{30, 30, 30, 255},
		TitleText:             color.RGBA{230, 230, 230, 255},
		StatusBackground:      color.RGBA{30, 30, 30, 255},
		ToolbarBackground:     color.RGBA{30, 30, 30, 255},
		ButtonBackground:      color.RGBA{60, 60, 60, 255},
		ButtonBackgroundHover: color.RGBA{80, 80, 80, 255},
		ButtonBackgroundPress: color.RGBA{100, 100, 100, 255},
		ButtonText:            color.RGBA{230, 230, 230, 255},
		ButtonBorder:          color.RGBA{120, 120, 120, 255},
		CheckerLight:          color.RGBA{70, 70, 70, 255},
		CheckerDark:           color.RGBA{55, 55, 55, 255},
		SelectionOutline:      color.RGBA{255, 215, 0, 255},
		MessageBackground:     color.RGBA{20, 20, 20, 230},
	}
}

var builtins = map[string]func() *Theme{
	"default": Default,
	"light":   Default,
	"dark":    Dark,
}

// Builtin returns the named built-in theme.
func Builtin(name string) (*Theme, bool) {
	fn, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames lists the built-in theme names, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a copy of t.
func (t *Theme) Clone() *Theme {
	c := *t
	return &c
}

// Set assigns the colour field named key, matched case-insensitively.
// Unknown keys are ignored so older binaries read newer files.
func (t *Theme) Set(key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	field, ok := t.field(key)
	if !ok {
		return nil
	}
	col, err := ParseColor(value)
	if err != nil {
		return err
	}
	field.Set(reflect.ValueOf(col))
	return nil
}

// Field is a named colour of a theme.
type Field struct {
	Name  string
	Color color.RGBA
}

// Fields returns every colour field in declaration order.
func (t *Theme) Fields() []Field {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	var out []Field
	for i := 0; i < typ.NumField(); i++ {
		if col, ok := val.Field(i).Interface().(color.RGBA); ok {
			out = append(out, Field{Name: typ.Field(i).Name, Color: col})
		}
	}
	return out
}

func (t *Theme) field(key string) (reflect.Value, bool) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if strings.EqualFold(typ.Field(i).Name, key) && typ.Field(i).Type == reflect.TypeOf(color.RGBA{}) {
			return val.Field(i), true
		}
	}
	return reflect.Value{}, false
}
