package schem

import (
	"fmt"
	"math/bits"
	"os"
	"sort"

	"github.com/klauspost/compress/gzip"
)

// Air marks empty space in the grid.
const Air = "minecraft:air"

// Schematic is one parsed .litematic file.
type Schematic struct {
	Regions []*Region
}

// Region is one voxel region of a schematic. It exposes the grid contract the
// renderer works against: bounds plus identifier lookup, with out-of-range
// lookups answered as air.
type Region struct {
	Name string

	pos  [3]int
	size [3]int

	palette []string
	bitsPer uint
	states  []uint64
}

// Load reads and parses a litematic file. The payload is gzip-compressed NBT.
func Load(path string) (*Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("litematic %s: gzip: %w", path, err)
	}
	defer zr.Close()

	root, err := decodeNBT(zr)
	if err != nil {
		return nil, fmt.Errorf("litematic %s: %w", path, err)
	}
	s, err := parseSchematic(root)
	if err != nil {
		return nil, fmt.Errorf("litematic %s: %w", path, err)
	}
	return s, nil
}

// First returns the schematic's primary region. Multi-region schematics are
// rendered one region at a time; region composition is out of scope.
func (s *Schematic) First() *Region {
	if len(s.Regions) == 0 {
		return nil
	}
	return s.Regions[0]
}

func parseSchematic(root compound) (*Schematic, error) {
	regions, ok := getCompound(root, "Regions")
	if !ok || len(regions) == 0 {
		return nil, fmt.Errorf("no regions")
	}

	// NBT compounds decode into maps; sort names so the primary region is
	// stable across runs.
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Schematic{}
	for _, name := range names {
		rc, ok := getCompound(regions, name)
		if !ok {
			return nil, fmt.Errorf("region %s: not a compound", name)
		}
		r, err := parseRegion(name, rc)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		s.Regions = append(s.Regions, r)
	}
	return s, nil
}

func parseRegion(name string, rc compound) (*Region, error) {
	pos, err := readVec3(rc, "Position")
	if err != nil {
		return nil, err
	}
	size, err := readVec3(rc, "Size")
	if err != nil {
		return nil, err
	}
	for i, s := range size {
		if s == 0 {
			return nil, fmt.Errorf("zero size on axis %d", i)
		}
	}

	rawPalette, ok := getList(rc, "BlockStatePalette")
	if !ok || len(rawPalette) == 0 {
		return nil, fmt.Errorf("missing block state palette")
	}
	palette := make([]string, len(rawPalette))
	for i, entry := range rawPalette {
		ec, ok := entry.(compound)
		if !ok {
			return nil, fmt.Errorf("palette entry %d: not a compound", i)
		}
		bn, ok := getString(ec, "Name")
		if !ok {
			return nil, fmt.Errorf("palette entry %d: missing name", i)
		}
		palette[i] = bn
	}

	states, ok := getLongArray(rc, "BlockStates")
	if !ok {
		return nil, fmt.Errorf("missing block states")
	}

	r := &Region{
		Name:    name,
		pos:     pos,
		size:    size,
		palette: palette,
		bitsPer: bitsPerEntry(len(palette)),
	}
	r.states = make([]uint64, len(states))
	for i, v := range states {
		r.states[i] = uint64(v)
	}

	volume := abs(size[0]) * abs(size[1]) * abs(size[2])
	need := (volume*int(r.bitsPer) + 63) / 64
	if len(r.states) < need {
		return nil, fmt.Errorf("block states truncated: have %d longs, need %d", len(r.states), need)
	}
	return r, nil
}

func readVec3(c compound, key string) ([3]int, error) {
	vc, ok := getCompound(c, key)
	if !ok {
		return [3]int{}, fmt.Errorf("missing %s", key)
	}
	var out [3]int
	for i, axis := range []string{"x", "y", "z"} {
		v, ok := getInt(vc, axis)
		if !ok {
			return [3]int{}, fmt.Errorf("%s: missing %s", key, axis)
		}
		out[i] = v
	}
	return out, nil
}

// Litematica packs palette indices with at least 2 bits per entry, spanning
// long boundaries without padding.
func bitsPerEntry(paletteLen int) uint {
	n := uint(bits.Len(uint(paletteLen - 1)))
	if n < 2 {
		n = 2
	}
	return n
}

// Bounds returns the region's extent in schematic coordinates. Litematica
// size components may be negative; a negative size extends towards the axis
// minimum from the anchor position.
func (r *Region) Bounds() (minX, maxX, minY, maxY, minZ, maxZ int) {
	minX, maxX = axisBounds(r.pos[0], r.size[0])
	minY, maxY = axisBounds(r.pos[1], r.size[1])
	minZ, maxZ = axisBounds(r.pos[2], r.size[2])
	return
}

func axisBounds(p, s int) (int, int) {
	if s < 0 {
		return p + s + 1, p
	}
	return p, p + s - 1
}

// BlockAt returns the block identifier at schematic coordinates, or air for
// anything outside the region.
func (r *Region) BlockAt(x, y, z int) string {
	minX, maxX, minY, maxY, minZ, maxZ := r.Bounds()
	if x < minX || x > maxX || y < minY || y > maxY || z < minZ || z > maxZ {
		return Air
	}
	sx, sz := abs(r.size[0]), abs(r.size[2])
	idx := ((y-minY)*sz+(z-minZ))*sx + (x - minX)
	pi := r.paletteIndex(idx)
	if pi >= len(r.palette) {
		return Air
	}
	return r.palette[pi]
}

func (r *Region) paletteIndex(idx int) int {
	bp := int(r.bitsPer)
	mask := uint64(1)<<r.bitsPer - 1
	start := idx * bp
	startLong := start >> 6
	endLong := (start + bp - 1) >> 6
	startBit := uint(start & 63)
	if startLong == endLong {
		return int(r.states[startLong] >> startBit & mask)
	}
	return int((r.states[startLong]>>startBit | r.states[endLong]<<(64-startBit)) & mask)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
