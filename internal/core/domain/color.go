package domain

// Color is the display bucket assigned to a signer for consistent
// highlighting across the document and the progress widget.
type Color string

var Colors = []Color{
	"blue",
	"red",
	"green",
	"purple",
	"pink",
	"yellow",
	"orange",
	"cyan",
	"teal",
	"slate",
	"gray",
}

func (c Color) known() bool {
	for _, k := range Colors {
		if k == c {
			return true
		}
	}
	return false
}

func (c Color) class(prefix, shade string) string {
	if !c.known() {
		c = "gray"
	}
	return prefix + "-" + string(c) + "-" + shade
}

// BgLight is the pale background class of the bucket.
func (c Color) BgLight() string { return c.class("bg", "100") }

// BgBold is the strong background class of the bucket.
func (c Color) BgBold() string { return c.class("bg", "400") }

// BorderBold is the strong border class of the bucket.
func (c Color) BorderBold() string { return c.class("border", "400") }
