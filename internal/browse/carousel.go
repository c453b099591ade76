package browse

// Carousel is a window of Size cards over a list, moved Step cards at a time.
type Carousel struct {
	Size   int
	Step   int
	offset int
}

func NewCarousel(size, step int) Carousel {
	if size < 1 {
		size = 1
	}
	if step < 1 {
		step = 1
	}
	return Carousel{Size: size, Step: step}
}

func (c *Carousel) Offset() int { return c.offset }

// Window returns the visible [start, end) for a list of total cards.
func (c *Carousel) Window(total int) (int, int) {
	c.clamp(total)
	end := c.offset + c.Size
	if end > total {
		end = total
	}
	return c.offset, end
}

// Next scrolls right and reports whether the window moved.
func (c *Carousel) Next(total int) bool {
	before := c.offset
	c.offset += c.Step
	c.clamp(total)
	return c.offset != before
}

// Prev scrolls left and reports whether the window moved.
func (c *Carousel) Prev(total int) bool {
	before := c.offset
	c.offset -= c.Step
	c.clamp(total)
	return c.offset != before
}

func (c *Carousel) clamp(total int) {
	last := total - c.Size
	if last < 0 {
		last = 0
	}
	if c.offset > last {
		c.offset = last
	}
	if c.offset < 0 {
		c.offset = 0
	}
}
