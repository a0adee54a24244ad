package entity

import "math"

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileSpike
)

// Tile represents a single tile in the stage
type Tile struct {
	Type  TileType
	Solid bool
}

// Layer returns the collision layer of the tile, or 0 for empty tiles.
func (t Tile) Layer() LayerMask {
	switch {
	case t.Solid:
		return LayerGround
	case t.Type == TileSpike:
		return LayerHazard
	}
	return 0
}

// Stage represents the current stage's tile data.
// Tiles[0] is the bottom row; tile (tx, ty) covers [tx, tx+1] x [ty, ty+1].
type Stage struct {
	Name   string
	Next   string
	Width  int
	Height int
	Tiles  [][]Tile
	Spawn  Vec2
}

// GetTile returns the tile at the given tile coordinates.
// Out-of-bounds tiles are solid walls.
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileWall, Solid: true}
	}
	return s.Tiles[ty][tx]
}

// TileAt returns the tile containing the world point p
func (s *Stage) TileAt(p Vec2) Tile {
	return s.GetTile(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// IsSolidAt checks if the tile at world point p is solid
func (s *Stage) IsSolidAt(p Vec2) bool {
	return s.TileAt(p).Solid
}

// OverlapsBox reports whether any tile on mask intersects the box.
func (s *Stage) OverlapsBox(b AABB, mask LayerMask) bool {
	found := false
	s.eachTile(b, func(tx, ty int, t Tile) bool {
		if !t.Layer().Has(mask) {
			return true
		}
		if tileBox(tx, ty).Overlaps(b) {
			found = true
			return false
		}
		return true
	})
	return found
}

// OverlapsCircle reports whether any tile on mask touches the circle.
func (s *Stage) OverlapsCircle(c Vec2, r float64, mask LayerMask) bool {
	bounds := AABB{Min: Vec2{c.X - r, c.Y - r}, Max: Vec2{c.X + r, c.Y + r}}
	found := false
	s.eachTile(bounds, func(tx, ty int, t Tile) bool {
		if t.Layer().Has(mask) && tileBox(tx, ty).IntersectsCircle(c, r) {
			found = true
			return false
		}
		return true
	})
	return found
}

// TileBoxes returns the boxes of tiles on mask touching region
func (s *Stage) TileBoxes(region AABB, mask LayerMask) []AABB {
	var out []AABB
	s.eachTile(region, func(tx, ty int, t Tile) bool {
		if t.Layer().Has(mask) {
			out = append(out, tileBox(tx, ty))
		}
		return true
	})
	return out
}

// HazardCenters returns the center of every hazard tile, used by proximity sensors.
func (s *Stage) HazardCenters() []Vec2 {
	var out []Vec2
	for ty, row := range s.Tiles {
		for tx, t := range row {
			if t.Type == TileSpike {
				out = append(out, Vec2{float64(tx) + 0.5, float64(ty) + 0.5})
			}
		}
	}
	return out
}

// eachTile visits every tile the box touches until fn returns false.
func (s *Stage) eachTile(b AABB, fn func(tx, ty int, t Tile) bool) {
	startTX := int(math.Floor(b.Min.X))
	endTX := int(math.Floor(b.Max.X))
	startTY := int(math.Floor(b.Min.Y))
	endTY := int(math.Floor(b.Max.Y))
	for ty := startTY; ty <= endTY; ty++ {
		for tx := startTX; tx <= endTX; tx++ {
			if !fn(tx, ty, s.GetTile(tx, ty)) {
				return
			}
		}
	}
}

func tileBox(tx, ty int) AABB {
	return AABB{
		Min: Vec2{float64(tx), float64(ty)},
		Max: Vec2{float64(tx + 1), float64(ty + 1)},
	}
}
