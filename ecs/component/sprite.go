package component

import "image/color"

// Sprite renders the entity body as a flat rectangle.
type Sprite struct {
	Color      color.NRGBA
	Layer      int
	FacingLeft bool
	Flash      int
}

var SpriteComponent = NewComponent[Sprite]()
