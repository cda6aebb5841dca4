package tui

// Rect is a rectangle of character cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Area returns the number of cells in r.
func (r Rect) Area() int {
	if r.Width <= 0 || r.Height <= 0 {
		return 0
	}
	return r.Width * r.Height
}

// Inner returns r shrunk by a one-cell border on every side.
func (r Rect) Inner() Rect {
	in := Rect{X: r.X + 1, Y: r.Y + 1, Width: r.Width - 2, Height: r.Height - 2}
	if in.Width < 0 {
		in.Width = 0
	}
	if in.Height < 0 {
		in.Height = 0
	}
	return in
}

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y &&
		o.X+o.Width <= r.X+r.Width &&
		o.Y+o.Height <= r.Y+r.Height
}

// ConstraintKind selects how a Constraint sizes its region.
type ConstraintKind int

const (
	// KindLength is a fixed number of rows or columns.
	KindLength ConstraintKind = iota
	// KindPercentage is a share of what remains after fixed and minimum sizes.
	KindPercentage
	// KindMin is at least Value, and absorbs any leftover.
	KindMin
)

// Constraint sizes one region of a split.
type Constraint struct {
	Kind  ConstraintKind
	Value int
}

// Length returns a fixed-size constraint.
func Length(n int) Constraint { return Constraint{Kind: KindLength, Value: n} }

// Percentage returns a proportional constraint, p in [0,100].
func Percentage(p int) Constraint { return Constraint{Kind: KindPercentage, Value: p} }

// Min returns a constraint of at least n that takes the remaining space.
func Min(n int) Constraint { return Constraint{Kind: KindMin, Value: n} }

// SplitVertical stacks regions top to bottom.
func SplitVertical(r Rect, cs ...Constraint) []Rect {
	sizes := splitSizes(r.Height, cs)
	out := make([]Rect, len(sizes))
	y := r.Y
	for i, h := range sizes {
		out[i] = Rect{X: r.X, Y: y, Width: r.Width, Height: h}
		y += h
	}
	return out
}

// SplitHorizontal places regions left to right.
func SplitHorizontal(r Rect, cs ...Constraint) []Rect {
	sizes := splitSizes(r.Width, cs)
	out := make([]Rect, len(sizes))
	x := r.X
	for i, w := range sizes {
		out[i] = Rect{X: x, Y: r.Y, Width: w, Height: r.Height}
		x += w
	}
	return out
}

// splitSizes resolves constraints against total. Fixed lengths are taken
// first, then minimums, then percentages of what is left; the first Min
// region absorbs the leftover, otherwise it is dealt out one cell at a time
// starting from the earliest percentage region. The result always sums to
// total (or 0 when total is not positive).
func splitSizes(total int, cs []Constraint) []int {
	sizes := make([]int, len(cs))
	if total <= 0 || len(cs) == 0 {
		return sizes
	}

	remaining := total
	take := func(n int) int {
		if n < 0 {
			n = 0
		}
		if n > remaining {
			n = remaining
		}
		remaining -= n
		return n
	}

	firstMin := -1
	for i, c := range cs {
		if c.Kind == KindLength {
			sizes[i] = take(c.Value)
		}
	}
	for i, c := range cs {
		if c.Kind == KindMin {
			sizes[i] = take(c.Value)
			if firstMin < 0 {
				firstMin = i
			}
		}
	}

	pool := remaining
	var pct []int
	for i, c := range cs {
		if c.Kind != KindPercentage {
			continue
		}
		p := c.Value
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		sizes[i] = take(pool * p / 100)
		pct = append(pct, i)
	}

	if remaining == 0 {
		return sizes
	}
	if firstMin >= 0 {
		sizes[firstMin] += remaining
		return sizes
	}
	targets := pct
	if len(targets) == 0 {
		targets = []int{0}
	}
	for i := 0; remaining > 0; i = (i + 1) % len(targets) {
		sizes[targets[i]]++
		remaining--
	}
	return sizes
}

// CenteredRect returns a pctX by pctY rectangle centered in r.
func CenteredRect(pctX, pctY int, r Rect) Rect {
	rows := SplitVertical(r,
		Percentage((100-pctY)/2),
		Percentage(pctY),
		Percentage((100-pctY)/2),
	)
	cols := SplitHorizontal(rows[1],
		Percentage((100-pctX)/2),
		Percentage(pctX),
		Percentage((100-pctX)/2),
	)
	return cols[1]
}

// ScreenLayout names the regions of one frame.
type ScreenLayout struct {
	Screen   Rect
	Identity Rect
	Memory   Rect
	Thoughts Rect
	Vetoes   Rect
	Footer   Rect
}

// Layout row sizes.
const (
	identityHeight = 5
	memoryHeight   = 4
	mainMinHeight  = 10
	footerHeight   = 1
)

// ComputeLayout partitions a width x height terminal into the dashboard regions.
func ComputeLayout(width, height int) ScreenLayout {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	screen := Rect{Width: width, Height: height}
	rows := SplitVertical(screen,
		Length(identityHeight),
		Length(memoryHeight),
		Min(mainMinHeight),
		Length(footerHeight),
	)
	main := SplitHorizontal(rows[2], Percentage(60), Percentage(40))
	return ScreenLayout{
		Screen:   screen,
		Identity: rows[0],
		Memory:   rows[1],
		Thoughts: main[0],
		Vetoes:   main[1],
		Footer:   rows[3],
	}
}
